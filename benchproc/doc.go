// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchproc derives columns from benchmark names.
//
// Benchmark names produced by "go test -bench" encode the benchmark's
// parameters as slash- and dash-separated parts, for example
//
//	Gol/256x256x1000-16-8
//
// is the 256x256 Game of Life run for 1000 turns with 16 worker
// goroutines and GOMAXPROCS=8. An Extractor pulls one integer
// parameter out of such names using a regular expression with a single
// capturing group, and Derive adds the extracted values to a
// table.Table as a new column.
//
// Names that do not match the pattern are not errors: they produce a
// null NullInt, and the row is kept. Whether null rows are plotted is
// decided later, by benchmath.NullPolicy.
package benchproc
