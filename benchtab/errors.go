// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import "fmt"

// A ReadError reports a failure to load a results file. ReadFile
// returns every failure wrapped in a *ReadError; use errors.As to
// look for a *ParseError or *TypeError inside it.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// A ParseError reports a malformed record, such as one with the wrong
// number of fields.
type ParseError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *ParseError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// A TypeError reports a value that cannot be converted to its
// column's type. Numeric columns accept only finite numbers.
type TypeError struct {
	FileName string
	Line     int
	Column   string
	Value    string
}

func (e *TypeError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s:%d: column %q: %q is not a finite number", e.FileName, e.Line, e.Column, e.Value)
}
