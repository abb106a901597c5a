// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import "strconv"

// A NullInt is an integer that may be null. The zero value is null.
//
// NullInt is comparable, so it can be used as a grouping key by
// table.GroupBy and ggstat.Agg.
type NullInt struct {
	Int   int
	Valid bool // Valid is true if Int is not null
}

// Of returns a valid NullInt holding v.
func Of(v int) NullInt {
	return NullInt{v, true}
}

// String returns the decimal form of n, or "NaN" if n is null,
// matching how a missing number prints in the table dump.
func (n NullInt) String() string {
	if !n.Valid {
		return "NaN"
	}
	return strconv.Itoa(n.Int)
}

// Less orders null after every valid value.
func (n NullInt) Less(o NullInt) bool {
	if n.Valid != o.Valid {
		return n.Valid
	}
	return n.Int < o.Int
}

// NullInts is a column of NullInt. It implements sort.Interface so
// that table.SortBy can order a table by a derived column.
type NullInts []NullInt

func (s NullInts) Len() int           { return len(s) }
func (s NullInts) Less(i, j int) bool { return s[i].Less(s[j]) }
func (s NullInts) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Nulls returns the number of null values in s.
func (s NullInts) Nulls() int {
	n := 0
	for _, v := range s {
		if !v.Valid {
			n++
		}
	}
	return n
}
