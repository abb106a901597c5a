// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchtab

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aclements/go-gg/table"
	"github.com/ksudra/golplot/benchunit"
)

// readGoBench reads "go test -bench" output. Each benchmark line
//
//	BenchmarkGol/256x256x1000-16-8   1   2500000000 ns/op   120 B/op
//
// becomes one row: the name without the "Benchmark" prefix, the first
// time per op measurement as time, and the iteration count as range.
// Time measurements in other units ("sec/op", "µs/op") are converted
// to nanoseconds. Configuration lines ("goos: linux"), PASS/ok lines
// and anything else are ignored.
func readGoBench(r io.Reader, fileName string) (*table.Table, error) {
	b := newColumnBuilder(DefaultColumns)
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		text := s.Text()
		if !strings.HasPrefix(text, "Benchmark") {
			continue
		}
		f := strings.Fields(text[len("Benchmark"):])
		if len(f) <= 1 {
			// "go test -v" prints the bare benchmark name
			// when the benchmark starts.
			continue
		}
		name, iters := f[0], f[1]
		if _, err := strconv.Atoi(iters); err != nil {
			return nil, &ParseError{fileName, line, "parsing iteration count: " + err.(*strconv.NumError).Err.Error()}
		}
		ns := ""
		rest := f[2:]
		if len(rest) == 0 {
			return nil, &ParseError{fileName, line, "missing measurements"}
		}
		for ; len(rest) > 0; rest = rest[2:] {
			if len(rest) < 2 {
				return nil, &ParseError{fileName, line, "missing units"}
			}
			unit, err := benchunit.ParseUnit(rest[1])
			if err != nil || !strings.HasSuffix(rest[1], "/op") || ns != "" {
				// Not a time per op, or not the first one.
				continue
			}
			v, err := strconv.ParseFloat(rest[0], 64)
			if err != nil {
				return nil, &TypeError{fileName, line, Time, rest[0]}
			}
			ns = strconv.FormatFloat(benchunit.ConvertValue(v, unit, benchunit.Nanoseconds), 'g', -1, 64)
		}
		if ns == "" {
			return nil, &ParseError{fileName, line, "missing time/op measurement"}
		}
		if err := b.add([]string{name, ns, iters}, fileName, line); err != nil {
			return nil, err
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%s:%d: %w", fileName, line, err)
	}
	return b.done(), nil
}
