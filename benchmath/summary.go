// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchmath summarizes groups of benchmark measurements as a
// mean with a confidence interval, one group per bar of a chart.
package benchmath

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/mathx"
	"github.com/aclements/go-moremath/stats"
)

// DefaultConfidence is the confidence level of the error bars when
// none is given.
const DefaultConfidence = 0.95

// A Summary summarizes a group of measurements.
type Summary struct {
	// Center is the sample mean.
	Center float64

	// Lo and Hi give the bounds of the confidence interval around
	// Center. For fewer than two measurements they equal Center.
	Lo, Hi float64

	// Confidence is the confidence level of [Lo, Hi].
	Confidence float64

	// N is the number of measurements.
	N int
}

// MeanCI returns the mean of xs and its Student's t confidence
// interval at the given level, in the range (0,1).
func MeanCI(xs []float64, confidence float64) Summary {
	s := Summary{Confidence: confidence, N: len(xs)}
	switch len(xs) {
	case 0:
		s.Center, s.Lo, s.Hi = math.NaN(), math.NaN(), math.NaN()
	case 1:
		s.Center, s.Lo, s.Hi = xs[0], xs[0], xs[0]
	default:
		s.Center, s.Lo, s.Hi = stats.Sample{Xs: xs}.MeanCI(confidence)
	}
	return s
}

// Err returns the distances from Center down to Lo and up to Hi, as
// drawn by an asymmetric error bar.
func (s Summary) Err() (low, high float64) {
	return s.Center - s.Lo, s.Hi - s.Center
}

// PctRangeString returns a string representation of the range of this
// Summary's confidence interval as a percentage.
func (s Summary) PctRangeString() string {
	if math.IsInf(s.Lo, 0) || math.IsInf(s.Hi, 0) {
		return "∞"
	}

	// Bounds on the other side of zero can't be a percent of Center.
	var csign = mathx.Sign(s.Center)
	if csign != mathx.Sign(s.Lo) || csign != mathx.Sign(s.Hi) {
		return "?"
	}

	if s.Center == 0 {
		return "0%"
	}

	v := math.Max(s.Hi/s.Center-1, 1-s.Lo/s.Center)
	return fmt.Sprintf("%.0f%%", 100*v)
}
