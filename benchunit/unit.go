// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchunit converts benchmark measurements between time
// units and formats numbers in those units.
package benchunit

import (
	"fmt"

	"github.com/aclements/go-gg/table"
)

// A Unit is a unit of time.
type Unit int

const (
	Nanoseconds Unit = iota
	Microseconds
	Milliseconds
	Seconds
)

// perSecond is the number of each unit in one second. Conversions
// divide or multiply by these exact integers so that, for example,
// converting ns to s is exactly x / 1e9.
var perSecond = [...]float64{
	Nanoseconds:  1e9,
	Microseconds: 1e6,
	Milliseconds: 1e3,
	Seconds:      1,
}

var unitNames = [...]string{
	Nanoseconds:  "ns",
	Microseconds: "µs",
	Milliseconds: "ms",
	Seconds:      "s",
}

func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[u]
}

// ParseUnit parses a time unit as printed by the testing package
// ("ns/op"), by benchstat ("sec/op") or by String.
func ParseUnit(s string) (Unit, error) {
	switch s {
	case "ns", "ns/op":
		return Nanoseconds, nil
	case "µs", "us", "µs/op", "us/op":
		return Microseconds, nil
	case "ms", "ms/op":
		return Milliseconds, nil
	case "s", "sec", "s/op", "sec/op":
		return Seconds, nil
	}
	return 0, fmt.Errorf("unknown time unit %q", s)
}

func (u Unit) valid() bool {
	return u >= 0 && int(u) < len(perSecond)
}

// ConvertValue converts x from unit from to unit to.
func ConvertValue(x float64, from, to Unit) float64 {
	if from == to {
		return x
	}
	a, b := perSecond[from], perSecond[to]
	if a > b {
		// Converting to a larger unit. Divide by the exact
		// ratio rather than multiplying by its reciprocal.
		return x / (a / b)
	}
	return x * (b / a)
}

// Convert returns a table with float64 column col of t converted from
// unit from to unit to. The column keeps its name and position and the
// row count is unchanged.
func Convert(t *table.Table, col string, from, to Unit) (*table.Table, error) {
	if !from.valid() || !to.valid() {
		return nil, fmt.Errorf("bad unit conversion %v to %v", from, to)
	}
	c := t.Column(col)
	if c == nil {
		return nil, fmt.Errorf("no column %q", col)
	}
	xs, ok := c.([]float64)
	if !ok {
		return nil, fmt.Errorf("column %q has type %T, want []float64", col, c)
	}
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = ConvertValue(x, from, to)
	}
	return table.NewBuilder(t).Add(col, out).Done(), nil
}

// ToSeconds converts column col of t from nanoseconds to seconds.
func ToSeconds(t *table.Table, col string) (*table.Table, error) {
	return Convert(t, col, Nanoseconds, Seconds)
}
