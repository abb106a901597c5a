// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchtab loads benchmark results into a table.Table.
//
// The usual input is a CSV file with one benchmark result per record:
//
//	name,time,range
//	Gol/256x256x1000-1-8,10843211200,1
//	Gol/256x256x1000-2-8,5512300940,1
//
// The records are assigned the caller's column names by position. The
// "time" column is parsed as a float64 (nanoseconds per operation);
// every other column is kept as text.
//
// Read also accepts the output of "go test -bench" directly (format
// GoBench), which is mapped onto the same three columns.
//
// Loading is all-or-nothing: any malformed record fails the whole
// load, and no partial table is returned.
package benchtab

// Standard column names.
const (
	Name  = "name"
	Time  = "time"
	Range = "range"
)

// DefaultColumns is the column layout of the benchmark CSV files.
var DefaultColumns = []string{Name, Time, Range}
