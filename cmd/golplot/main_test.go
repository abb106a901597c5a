// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ksudra/golplot/benchmath"
	"github.com/ksudra/golplot/benchplot"
	"github.com/ksudra/golplot/benchproc"
	"github.com/ksudra/golplot/benchtab"
	"github.com/ksudra/golplot/internal/diff"
	"github.com/ksudra/golplot/storage/fs"
)

// run runs golplot in testdata and returns its output.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	if err := os.Chdir("testdata"); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir("..")

	var out, errOut bytes.Buffer
	t.Logf("golplot %s", strings.Join(args, " "))
	err = golplot(context.Background(), &out, &errOut, args)
	return out.String(), errOut.String(), err
}

func mustRun(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	stdout, stderr, err := run(t, args...)
	if err != nil {
		t.Fatalf("unexpected error: %s\nstderr:\n%s", err, stderr)
	}
	return stdout, stderr
}

// golden compares got to the file testdata/name.
func golden(t *testing.T, name, got string) {
	t.Helper()
	want, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatal(err)
	}
	if d := diff.Diff(name, string(want), "got", got); d != "" {
		t.Errorf("wrong output:\n%s", d)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestPrint(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chart.svg")
	stdout, stderr := mustRun(t, "-o", out)
	golden(t, "print.stdout", stdout)
	if want := "wrote " + out + "\n"; stderr != want {
		t.Errorf("stderr = %q, want %q", stderr, want)
	}

	svg := readFile(t, out)
	for _, w := range []string{"Worker threads used", "Time taken (s)"} {
		if !strings.Contains(svg, w) {
			t.Errorf("chart does not contain %q", w)
		}
	}
}

func TestNoPrint(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chart.pdf")
	stdout, _ := mustRun(t, "-print=false", "-title", "256x256x1000", "-o", out, "256x256x1000.csv")
	if stdout != "" {
		t.Errorf("-print=false printed %q", stdout)
	}
	if pdf := readFile(t, out); !strings.HasPrefix(pdf, "%PDF-") {
		t.Errorf("%s is not a PDF", out)
	}
}

func TestUnknown(t *testing.T) {
	dir := t.TempDir()

	// Rows that don't match the pattern are printed but not charted.
	stdout, _ := mustRun(t, "-o", filepath.Join(dir, "drop.svg"), "mixed.csv")
	if !strings.Contains(stdout, "unrelated-benchmark") || !strings.Contains(stdout, "NaN") {
		t.Errorf("table is missing the unmatched row:\n%s", stdout)
	}
	if svg := readFile(t, filepath.Join(dir, "drop.svg")); strings.Contains(svg, ">unknown<") {
		t.Errorf("chart has an unknown bar without -unknown")
	}

	mustRun(t, "-unknown", "-print=false", "-o", filepath.Join(dir, "keep.svg"), "mixed.csv")
	if svg := readFile(t, filepath.Join(dir, "keep.svg")); !strings.Contains(svg, "unknown") {
		t.Errorf("chart has no unknown bar with -unknown")
	}
}

func TestGoBench(t *testing.T) {
	stdout, _ := mustRun(t, "-format", "bench", "-o", filepath.Join(t.TempDir(), "chart.png"), "gol.txt")
	for _, w := range []string{"Gol/256x256x1000-16-8", "2.5", "16"} {
		if !strings.Contains(stdout, w) {
			t.Errorf("output does not contain %q:\n%s", w, stdout)
		}
	}
	if strings.Contains(stdout, "BenchmarkGol") {
		t.Errorf("benchmark names keep their prefix:\n%s", stdout)
	}
}

func TestArchive(t *testing.T) {
	dir := t.TempDir()
	dbArg := "sqlite3:" + filepath.Join(dir, "results.db")

	_, stderr := mustRun(t, "-db", dbArg, "-save", "-print=false", "-o", filepath.Join(dir, "a.png"))
	if !strings.Contains(stderr, "saved 9 results as upload 1\n") {
		t.Errorf("stderr = %q, want saved message", stderr)
	}

	// Charting the upload gives the same table as the file.
	stdout, _ := mustRun(t, "-db", dbArg, "-upload", "1", "-o", filepath.Join(dir, "b.svg"))
	golden(t, "print.stdout", stdout)

	stdout, _ = mustRun(t, "-db", dbArg, "-list")
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "ID") {
		t.Fatalf("-list printed:\n%s", stdout)
	}
	if f := strings.Fields(lines[1]); len(f) != 5 || f[0] != "1" || f[3] != "9" || f[4] != "256x256x1000.csv" {
		t.Errorf("-list row = %q", lines[1])
	}

	if _, _, err := run(t, "-db", dbArg, "-upload", "7"); err == nil || !strings.Contains(err.Error(), "no such upload") {
		t.Errorf("-upload 7: got %v, want no such upload", err)
	}
}

func TestErrors(t *testing.T) {
	_, _, err := run(t, "missing.csv")
	var rerr *benchtab.ReadError
	if !errors.As(err, &rerr) {
		t.Errorf("missing file: got %v, want *benchtab.ReadError", err)
	}

	_, _, err = run(t, "-print=false", "-pattern", `nomatch-(\d+)`, "-o", filepath.Join(t.TempDir(), "x.png"))
	if err == nil || !strings.Contains(err.Error(), "no results to chart") {
		t.Errorf("no matches: got %v", err)
	}

	_, _, err = run(t, "-print=false", "-o", filepath.Join(t.TempDir(), "x.gif"))
	if err == nil || !strings.Contains(err.Error(), "unsupported chart format") {
		t.Errorf("-o x.gif: got %v", err)
	}

	_, _, err = run(t, "-o", filepath.Join(t.TempDir(), "x.png"), "header.csv")
	if err == nil || err.Error() != "no results in header.csv" {
		t.Errorf("header only: got %v, want no results in header.csv", err)
	}
}

func TestUsage(t *testing.T) {
	for _, args := range [][]string{
		{"-confidence", "1.5"},
		{"-pattern", `(\d+)-(\d+)`},
		{"-format", "xml"},
		{"-save"},
		{"-db", "sqlite3::memory:", "-save", "-upload", "1"},
		{"-db", "sqlite3::memory:", "-upload", "1", "a.csv"},
		{"a.csv", "b.csv"},
		{"-nosuchflag"},
	} {
		_, stderr, err := run(t, args...)
		var uerr usageError
		if !errors.As(err, &uerr) {
			t.Errorf("golplot %s: got %v, want usage error", strings.Join(args, " "), err)
			continue
		}
		if !strings.Contains(stderr, "usage: golplot") {
			t.Errorf("golplot %s: usage not printed:\n%s", strings.Join(args, " "), stderr)
		}
	}

	_, stderr, err := run(t, "-h")
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-h: got %v, want flag.ErrHelp", err)
	}
	if !strings.Contains(stderr, "@cloudsql(") {
		t.Errorf("-h does not describe Cloud SQL archives:\n%s", stderr)
	}
}

func testChart() *benchplot.Chart {
	return benchplot.NewChart([]benchmath.Bar{
		{Key: benchproc.NullInt{Int: 1, Valid: true}, Label: "1", Summary: benchmath.MeanCI([]float64{10, 11, 12}, 0.95)},
		{Key: benchproc.NullInt{Int: 2, Valid: true}, Label: "2", Summary: benchmath.MeanCI([]float64{5, 6}, 0.95)},
	})
}

func TestWriteChart(t *testing.T) {
	ctx := context.Background()
	mem := fs.NewMemFS()
	if err := writeChart(ctx, mem, "chart.svg", testChart()); err != nil {
		t.Fatal(err)
	}
	if err := writeChart(ctx, mem, "chart.gif", testChart()); err == nil {
		t.Errorf("writeChart(chart.gif) succeeded")
	}
	if got, want := mem.Files(), []string{"chart.svg"}; !equalStrings(got, want) {
		t.Fatalf("files = %v, want %v", got, want)
	}
	data, meta, _ := mem.File("chart.svg")
	if !strings.Contains(string(data), "<svg") || !strings.Contains(string(data), "Worker threads used") {
		t.Errorf("chart.svg is not the chart:\n%.200s", data)
	}
	if meta["generator"] != "golplot" || meta["format"] != "svg" {
		t.Errorf("metadata = %v", meta)
	}
}

func TestOpenOutput(t *testing.T) {
	dir := t.TempDir()
	dst, name, err := openOutput(context.Background(), filepath.Join(dir, "chart.png"))
	if err != nil {
		t.Fatal(err)
	}
	if d, ok := dst.(fs.Dir); !ok || string(d) != dir || name != "chart.png" {
		t.Errorf("openOutput = %#v, %q", dst, name)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// skipUnlessX11 skips tests that depend on DISPLAY and xdg-open.
func skipUnlessX11(t *testing.T) {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd":
	default:
		t.Skipf("display detection not supported on %s", runtime.GOOS)
	}
}

func TestShowHeadless(t *testing.T) {
	skipUnlessX11(t)
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	t.Setenv("TMPDIR", t.TempDir())

	stdout, stderr := mustRun(t, "-print=false")
	if stdout != "" {
		t.Errorf("-print=false printed %q", stdout)
	}
	const prefix = "no display available; chart written to "
	if !strings.HasPrefix(stderr, prefix) || !strings.HasSuffix(stderr, ".png\n") {
		t.Fatalf("stderr = %q", stderr)
	}
	path := strings.TrimSuffix(strings.TrimPrefix(stderr, prefix), "\n")
	if filepath.Dir(path) != os.Getenv("TMPDIR") {
		t.Errorf("chart written to %s, want a file in %s", path, os.Getenv("TMPDIR"))
	}
	if png := readFile(t, path); !strings.HasPrefix(png, "\x89PNG\r\n") {
		t.Errorf("%s is not a PNG", path)
	}
}

func TestShowNoViewer(t *testing.T) {
	skipUnlessX11(t)
	tmp := t.TempDir()
	t.Setenv("DISPLAY", ":99")
	t.Setenv("TMPDIR", tmp)
	t.Setenv("PATH", t.TempDir())

	_, _, err := run(t, "-print=false")
	if err == nil {
		t.Fatal("no error without a viewer")
	}
	files, _ := filepath.Glob(filepath.Join(tmp, "golplot-*.png"))
	if len(files) != 1 {
		t.Fatalf("temporary charts = %v, want one", files)
	}
	if !strings.Contains(err.Error(), files[0]) {
		t.Errorf("error %q does not name %s", err, files[0])
	}
}

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestHTTP(t *testing.T) {
	in, err := filepath.Abs(filepath.Join("testdata", "256x256x1000.csv"))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var stdout, stderr syncBuffer
	done := make(chan error, 1)
	go func() {
		done <- golplot(ctx, &stdout, &stderr, []string{"-print=false", "-http", "127.0.0.1:0", in})
	}()

	const prefix = "serving chart at "
	var url string
	for deadline := time.Now().Add(10 * time.Second); url == ""; {
		select {
		case err := <-done:
			t.Fatalf("golplot returned %v before serving; stderr:\n%s", err, stderr.String())
		default:
		}
		if s := stderr.String(); strings.HasPrefix(s, prefix) && strings.HasSuffix(s, "\n") {
			url = strings.TrimSuffix(strings.TrimPrefix(s, prefix), "\n")
			continue
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not start; stderr:\n%s", stderr.String())
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "Worker threads used") {
		t.Errorf("GET %s: %s\n%.200s", url, resp.Status, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("golplot -http: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("golplot -http did not return after cancel")
	}
}
