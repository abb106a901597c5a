// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/aclements/go-gg/table"
)

// DefaultThreadsPattern matches the names of the 256x256, 1000 turn
// Game of Life benchmarks and captures the worker thread count.
const DefaultThreadsPattern = `Gol/256x256x1000-(\d+)-\d+`

// An Extractor extracts an integer field from benchmark names.
type Extractor struct {
	re *regexp.Regexp
}

// NewExtractor returns an Extractor for pattern. pattern must be a
// valid regular expression with exactly one capturing group, and the
// group is expected to match a decimal integer.
func NewExtractor(pattern string) (*Extractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("parsing pattern %q: %w", pattern, err)
	}
	if n := re.NumSubexp(); n != 1 {
		return nil, fmt.Errorf("pattern %q has %d capturing groups, want exactly 1", pattern, n)
	}
	return &Extractor{re}, nil
}

// MustExtractor is like NewExtractor but panics if pattern is not
// valid.
func MustExtractor(pattern string) *Extractor {
	e, err := NewExtractor(pattern)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the source pattern of e.
func (e *Extractor) String() string {
	return e.re.String()
}

// Extract returns the integer captured from s, or a null NullInt if
// the pattern does not match s or the captured text is not an
// integer.
func (e *Extractor) Extract(s string) NullInt {
	m := e.re.FindStringSubmatch(s)
	if m == nil {
		return NullInt{}
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return NullInt{}
	}
	return Of(v)
}

// Derive returns a table with column to added (or replaced), holding
// e.Extract applied to each value of string column from. Every row of
// t is kept; rows that do not match get a null value.
//
// Derive panics if t has no column from or from is not a []string
// column, like the table package does for unknown columns.
func (e *Extractor) Derive(t *table.Table, from, to string) *table.Table {
	g := table.MapCols(t, func(names []string, out NullInts) {
		for i, name := range names {
			out[i] = e.Extract(name)
		}
	}, from)(to)
	return table.Flatten(g)
}
