// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
)

// A Format is an input syntax understood by Read.
type Format int

const (
	// CSV is comma-separated records, one result per record.
	CSV Format = iota
	// GoBench is the text output of "go test -bench".
	GoBench
)

func (f Format) String() string {
	switch f {
	case CSV:
		return "csv"
	case GoBench:
		return "bench"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat returns the Format named s ("csv" or "bench").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return CSV, nil
	case "bench", "gobench", "txt":
		return GoBench, nil
	}
	return 0, fmt.Errorf("unknown input format %q", s)
}

// Options configure Read.
type Options struct {
	// Format is the input syntax.
	Format Format

	// Columns names the CSV columns by position. If nil,
	// DefaultColumns is used. GoBench input always produces
	// DefaultColumns.
	Columns []string

	// Header indicates that the first CSV record is a header
	// row. It is skipped; its contents are not used as column
	// names.
	Header bool
}

// ReadFile loads the results file at path. Every error it returns is
// a *ReadError.
func ReadFile(path string, opts Options) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{path, err}
	}
	defer f.Close()
	t, err := Read(f, path, opts)
	if err != nil {
		return nil, &ReadError{path, err}
	}
	return t, nil
}

// Read loads results from r. fileName is used in error messages; it
// is purely diagnostic.
func Read(r io.Reader, fileName string, opts Options) (*table.Table, error) {
	if fileName == "" {
		fileName = "<unknown>"
	}
	switch opts.Format {
	case CSV:
		cols := opts.Columns
		if cols == nil {
			cols = DefaultColumns
		}
		return readCSV(r, fileName, cols, opts.Header)
	case GoBench:
		return readGoBench(r, fileName)
	}
	return nil, fmt.Errorf("unknown input format %v", opts.Format)
}

func readCSV(r io.Reader, fileName string, cols []string, header bool) (*table.Table, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("no columns given")
	}
	seen := make(map[string]bool)
	for _, c := range cols {
		if seen[c] {
			return nil, fmt.Errorf("duplicate column name %q", c)
		}
		seen[c] = true
	}

	cr := csv.NewReader(r)
	// Field counts are checked below to produce a ParseError.
	cr.FieldsPerRecord = -1

	b := newColumnBuilder(cols)
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, &ParseError{fileName, perr.Line, perr.Err.Error()}
			}
			return nil, fmt.Errorf("%s: %w", fileName, err)
		}
		line, _ := cr.FieldPos(0)
		if first && header {
			first = false
			continue
		}
		first = false
		if len(rec) != len(cols) {
			return nil, &ParseError{fileName, line, fmt.Sprintf("got %d fields, want %d", len(rec), len(cols))}
		}
		if err := b.add(rec, fileName, line); err != nil {
			return nil, err
		}
	}
	return b.done(), nil
}

// columnBuilder accumulates records column by column.
type columnBuilder struct {
	names []string
	strs  [][]string  // by column index; nil for numeric columns
	nums  [][]float64 // by column index; nil for text columns
}

// numeric reports whether column name holds numbers.
func numeric(name string) bool {
	return name == Time
}

func newColumnBuilder(names []string) *columnBuilder {
	b := &columnBuilder{
		names: names,
		strs:  make([][]string, len(names)),
		nums:  make([][]float64, len(names)),
	}
	for i, name := range names {
		if numeric(name) {
			b.nums[i] = []float64{}
		} else {
			b.strs[i] = []string{}
		}
	}
	return b
}

func (b *columnBuilder) add(rec []string, fileName string, line int) error {
	for i, name := range b.names {
		if b.nums[i] == nil {
			b.strs[i] = append(b.strs[i], rec[i])
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return &TypeError{fileName, line, name, rec[i]}
		}
		b.nums[i] = append(b.nums[i], v)
	}
	return nil
}

func (b *columnBuilder) done() *table.Table {
	var tb table.Builder
	for i, name := range b.names {
		if b.nums[i] != nil {
			tb.Add(name, b.nums[i])
		} else {
			tb.Add(name, b.strs[i])
		}
	}
	return tb.Done()
}
