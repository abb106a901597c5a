// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import (
	"fmt"
	"sort"

	"github.com/aclements/go-gg/ggstat"
	"github.com/aclements/go-gg/table"
	"github.com/ksudra/golplot/benchproc"
)

// A NullPolicy says what happens to rows whose key is null.
type NullPolicy int

const (
	// DropNull omits rows with a null key from the summary.
	DropNull NullPolicy = iota

	// UnknownBucket collects rows with a null key into a single
	// bar labeled "unknown", ordered after every other bar.
	UnknownBucket
)

func (p NullPolicy) String() string {
	switch p {
	case DropNull:
		return "drop"
	case UnknownBucket:
		return "unknown"
	}
	return fmt.Sprintf("NullPolicy(%d)", int(p))
}

// UnknownLabel labels the bar of null keys under UnknownBucket.
const UnknownLabel = "unknown"

// Options configures Summarize.
type Options struct {
	// Confidence is the confidence level of each bar's interval.
	// If 0, DefaultConfidence is used.
	Confidence float64

	// Nulls selects how rows with a null key are treated.
	Nulls NullPolicy
}

// A Bar is the summary of all rows sharing one key.
type Bar struct {
	Key   benchproc.NullInt
	Label string
	Summary
}

// Summarize groups table t by the NullInt column x and summarizes
// the float64 column y of each group. The resulting bars are ordered
// by ascending key.
func Summarize(t *table.Table, x, y string, opts Options) ([]Bar, error) {
	conf := opts.Confidence
	if conf == 0 {
		conf = DefaultConfidence
	}
	if !(conf > 0 && conf < 1) {
		return nil, fmt.Errorf("confidence %v out of range (0,1)", conf)
	}
	for _, col := range []string{x, y} {
		if t.Column(col) == nil {
			return nil, fmt.Errorf("unknown column %q", col)
		}
	}
	if ct := table.ColType(t, x); ct != nullIntsType && ct != nullIntSliceType {
		return nil, fmt.Errorf("column %q has type %v, want %v", x, ct, nullIntsType)
	}
	if ct := table.ColType(t, y); ct != float64SliceType {
		return nil, fmt.Errorf("column %q has type %v, want []float64", y, ct)
	}

	g := table.Grouping(t)
	if opts.Nulls == DropNull {
		g = table.Filter(g, func(k benchproc.NullInt) bool { return k.Valid }, x)
	}
	if table.Flatten(g).Len() == 0 {
		return nil, nil
	}

	out := table.Flatten(ggstat.Agg(x)(aggMeanCI(y, conf)).F(g))

	var keys []benchproc.NullInt
	switch col := out.MustColumn(x).(type) {
	case benchproc.NullInts:
		keys = col
	case []benchproc.NullInt:
		keys = col
	}
	sums := out.MustColumn(summaryCol).([]Summary)

	bars := make([]Bar, len(keys))
	for i, k := range keys {
		label := UnknownLabel
		if k.Valid {
			label = k.String()
		}
		bars[i] = Bar{Key: k, Label: label, Summary: sums[i]}
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Key.Less(bars[j].Key) })
	return bars, nil
}

const summaryCol = "summary"

// aggMeanCI returns an aggregator that adds a "summary" column of
// Summary values computed from col.
func aggMeanCI(col string, confidence float64) ggstat.Aggregator {
	return func(input table.Grouping, b *table.Builder) {
		sums := make([]Summary, 0, len(input.Tables()))
		for _, gid := range input.Tables() {
			xs := input.Table(gid).MustColumn(col).([]float64)
			sums = append(sums, MeanCI(xs, confidence))
		}
		b.Add(summaryCol, sums)
	}
}
