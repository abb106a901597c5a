// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchmath

import (
	"reflect"

	"github.com/ksudra/golplot/benchproc"
)

var (
	float64SliceType = reflect.TypeOf([]float64(nil))
	nullIntsType     = reflect.TypeOf(benchproc.NullInts(nil))
	nullIntSliceType = reflect.TypeOf([]benchproc.NullInt(nil))
)
