// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Golplot charts Game of Life benchmark timings against the number of
// worker threads used.
//
// Usage:
//
//	golplot [flags] [file.csv]
//
// Golplot reads benchmark results (by default from 256x256x1000.csv
// in the current directory), converts their times from nanoseconds to
// seconds and extracts the worker thread count from each benchmark
// name, such as 8 from "Gol/256x256x1000-8-4". It prints the resulting
// table and draws a bar chart of the mean time for each thread count,
// with error bars for the 95% confidence interval of the mean.
//
// The input is CSV with one result per record: benchmark name, time in
// ns/op and a range column. The first record is a header unless
// -header=false is given. With -format bench, the input is instead
// the raw output of "go test -bench".
//
// By default the chart is written to a temporary PNG file and opened
// in the system image viewer. Golplot waits for the viewer's launcher,
// not the viewer: on Linux it returns once xdg-open exits, which is
// usually before the image window is closed. Without a graphical
// session golplot only reports the file's path. The -o flag writes the chart to a file
// instead; its extension selects PNG, SVG or PDF, and a gs://bucket/object
// name writes it to Google Cloud Storage. The -http flag serves an
// interactive version of the chart until golplot is interrupted.
//
// Results whose names don't match the -pattern regexp have no thread
// count. They are left out of the chart unless -unknown is given, in
// which case they are drawn as a final bar labeled "unknown".
//
// With -db, golplot can archive results in a SQLite or MySQL
// database (-save), chart an archived upload (-upload) and list the
// archived uploads (-list):
//
//	golplot -db sqlite3:results.db -save 256x256x1000.csv
//	golplot -db sqlite3:results.db -list
//	golplot -db sqlite3:results.db -upload 1 -o chart.svg
//
// A Cloud SQL instance is reached through the cloudsql network, using
// application default credentials:
//
//	golplot -db 'mysql:root:@cloudsql(project:region:instance)/golplot' -list
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	"github.com/aclements/go-gg/table"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ksudra/golplot/benchmath"
	"github.com/ksudra/golplot/benchplot"
	"github.com/ksudra/golplot/benchproc"
	"github.com/ksudra/golplot/benchtab"
	"github.com/ksudra/golplot/benchunit"
	"github.com/ksudra/golplot/internal/display"
	"github.com/ksudra/golplot/storage/db"
	_ "github.com/ksudra/golplot/storage/db/sqlite3"
	"github.com/ksudra/golplot/storage/fs"
	"github.com/ksudra/golplot/storage/fs/gcs"
)

// defaultFile is read when no input file or upload is named.
const defaultFile = "256x256x1000.csv"

// threadsCol is the column derived from the benchmark name.
const threadsCol = "threads"

func main() {
	log.SetPrefix("golplot: ")
	log.SetFlags(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := golplot(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()

	var uerr usageError
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(0)
	case errors.As(err, &uerr):
		os.Exit(2)
	default:
		log.Print(err)
		os.Exit(1)
	}
}

// usageError is a command line error. The usage message has already
// been printed.
type usageError struct{ error }

// A config holds the parsed command line.
type config struct {
	format     benchtab.Format
	header     bool
	extractor  *benchproc.Extractor
	nulls      benchmath.NullPolicy
	confidence float64
	title      string
	print      bool
	out        string
	httpAddr   string
	dbSpec     string
	save       bool
	upload     string
	list       bool
	file       string
}

func parseFlags(stderr io.Writer, args []string) (*config, error) {
	flags := flag.NewFlagSet("golplot", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: golplot [flags] [file.csv]\n")
		fmt.Fprintf(stderr, "flags:\n")
		flags.PrintDefaults()
	}

	var (
		flagFormat     = flags.String("format", "csv", "input `syntax`: csv or bench")
		flagHeader     = flags.Bool("header", true, "skip the first CSV record")
		flagPattern    = flags.String("pattern", benchproc.DefaultThreadsPattern, "extract the thread count with `regexp`; its one group must match a decimal integer")
		flagUnknown    = flags.Bool("unknown", false, "chart results whose names don't match -pattern as an \"unknown\" bar")
		flagConfidence = flags.Float64("confidence", benchmath.DefaultConfidence, "confidence `level` of the error bars")
		flagTitle      = flags.String("title", "", "chart `title`")
		flagPrint      = flags.Bool("print", true, "print the table of results")
		flagOut        = flags.String("o", "", "write the chart to `file` (.png, .svg or .pdf), or gs://bucket/object")
		flagHTTP       = flags.String("http", "", "serve an interactive chart on `addr` until interrupted")
		flagDB         = flags.String("db", "", "results archive as `driver:dsn`, such as sqlite3:results.db, mysql:user@/golplot or mysql:root:@cloudsql(project:region:instance)/golplot")
		flagSave       = flags.Bool("save", false, "store the loaded results in the -db archive")
		flagUpload     = flags.String("upload", "", "chart upload `id` from the -db archive instead of a file")
		flagList       = flags.Bool("list", false, "list the uploads in the -db archive and exit")
	)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, usageError{err}
	}
	usagef := func(format string, args ...interface{}) error {
		err := fmt.Errorf(format, args...)
		fmt.Fprintf(stderr, "golplot: %v\n", err)
		flags.Usage()
		return usageError{err}
	}

	c := &config{
		header:     *flagHeader,
		confidence: *flagConfidence,
		title:      *flagTitle,
		print:      *flagPrint,
		out:        *flagOut,
		httpAddr:   *flagHTTP,
		dbSpec:     *flagDB,
		save:       *flagSave,
		upload:     *flagUpload,
		list:       *flagList,
		file:       defaultFile,
	}
	var err error
	if c.format, err = benchtab.ParseFormat(*flagFormat); err != nil {
		return nil, usagef("-format: %v", err)
	}
	if c.extractor, err = benchproc.NewExtractor(*flagPattern); err != nil {
		return nil, usagef("-pattern: %v", err)
	}
	if *flagUnknown {
		c.nulls = benchmath.UnknownBucket
	}
	if !(c.confidence > 0 && c.confidence < 1) {
		return nil, usagef("-confidence must be between 0 and 1")
	}
	if c.dbSpec == "" && (c.save || c.upload != "" || c.list) {
		return nil, usagef("-save, -upload and -list require -db")
	}
	if c.save && c.upload != "" {
		return nil, usagef("-save and -upload are mutually exclusive")
	}
	switch {
	case flags.NArg() > 1:
		return nil, usagef("at most one input file")
	case flags.NArg() == 1 && c.upload != "":
		return nil, usagef("-upload and an input file are mutually exclusive")
	case flags.NArg() == 1:
		c.file = flags.Arg(0)
	}
	return c, nil
}

// golplot runs the command with the given arguments. Results are
// printed to stdout and progress messages to stderr.
func golplot(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	c, err := parseFlags(stderr, args)
	if err != nil {
		return err
	}

	var archive *db.DB
	if c.dbSpec != "" {
		driver, dsn, ok := strings.Cut(c.dbSpec, ":")
		if !ok || driver == "" {
			return fmt.Errorf("-db %q: want driver:dsn", c.dbSpec)
		}
		archive, err = db.OpenSQL(driver, dsn)
		if err != nil {
			return fmt.Errorf("opening %s database: %w", driver, err)
		}
		defer archive.Close()
	}
	if c.list {
		return listUploads(ctx, stdout, archive)
	}

	// Load.
	var t *table.Table
	if c.upload != "" {
		t, err = archive.LoadUpload(ctx, c.upload)
	} else {
		t, err = benchtab.ReadFile(c.file, benchtab.Options{Format: c.format, Header: c.header})
	}
	if err != nil {
		return err
	}
	if t.Len() == 0 {
		if c.upload != "" {
			return fmt.Errorf("no results in upload %s", c.upload)
		}
		return fmt.Errorf("no results in %s", c.file)
	}
	if c.save {
		u, err := archive.NewUpload(ctx, c.file)
		if err != nil {
			return err
		}
		if err := u.InsertTable(ctx, t); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "saved %d results as upload %s\n", t.Len(), u.ID)
	}

	// Transform.
	t, err = benchunit.ToSeconds(t, benchtab.Time)
	if err != nil {
		return err
	}
	t = c.extractor.Derive(t, benchtab.Name, threadsCol)
	if c.print {
		if err := table.Fprint(stdout, t); err != nil {
			return err
		}
	}

	// Chart.
	bars, err := benchmath.Summarize(t, threadsCol, benchtab.Time, benchmath.Options{
		Confidence: c.confidence,
		Nulls:      c.nulls,
	})
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		return fmt.Errorf("no results to chart: no benchmark name matches %s", c.extractor)
	}
	chart := benchplot.NewChart(bars)
	chart.Title = c.title

	if c.out != "" {
		dst, name, err := openOutput(ctx, c.out)
		if err != nil {
			return err
		}
		if err := writeChart(ctx, dst, name, chart); err != nil {
			return fmt.Errorf("%s: %w", c.out, err)
		}
		fmt.Fprintf(stderr, "wrote %s\n", c.out)
	}
	if c.httpAddr != "" {
		ln, err := net.Listen("tcp", c.httpAddr)
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "serving chart at %s\n", display.URL(ln))
		return display.Serve(ctx, ln, chart.Handler())
	}
	if c.out == "" {
		return showChart(ctx, stderr, chart)
	}
	return nil
}

// openOutput returns the file system and file name for an -o
// argument, a local path or a gs:// URL.
func openOutput(ctx context.Context, out string) (fs.FS, string, error) {
	if bucket, object, ok := gcs.ParseURL(out); ok {
		dst, err := gcs.NewFS(ctx, bucket)
		if err != nil {
			return nil, "", err
		}
		return dst, object, nil
	}
	return fs.Dir(filepath.Dir(out)), filepath.Base(out), nil
}

// writeChart writes chart to name in dst, in the format given by
// name's extension.
func writeChart(ctx context.Context, dst fs.FS, name string, chart *benchplot.Chart) error {
	format, err := benchplot.FormatOf(name)
	if err != nil {
		return err
	}
	w, err := dst.NewWriter(ctx, name, map[string]string{
		"generator": "golplot",
		"format":    format.String(),
	})
	if err != nil {
		return err
	}
	if err := chart.Write(w, format); err != nil {
		w.CloseWithError(err)
		return err
	}
	return w.Close()
}

// showChart renders chart to a temporary PNG and opens it in the
// system viewer. The file is left in place for the viewer.
func showChart(ctx context.Context, stderr io.Writer, chart *benchplot.Chart) error {
	f, err := os.CreateTemp("", "golplot-*.png")
	if err != nil {
		return err
	}
	if err := chart.Write(f, benchplot.PNG); err != nil {
		f.Close()
		os.Remove(f.Name())
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	err = display.Open(ctx, f.Name())
	switch {
	case errors.Is(err, display.ErrHeadless):
		fmt.Fprintf(stderr, "%v; chart written to %s\n", err, f.Name())
		return nil
	case err != nil:
		return fmt.Errorf("showing chart %s: %w", f.Name(), err)
	}
	return nil
}

func listUploads(ctx context.Context, stdout io.Writer, archive *db.DB) error {
	infos, err := archive.ListUploads(ctx, 0)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tCREATED\tRESULTS\tSOURCE\n")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", info.ID, info.Created.UTC().Format("2006-01-02 15:04:05"), info.Count, info.Source)
	}
	return tw.Flush()
}
