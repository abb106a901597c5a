// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcs

import "testing"

func TestParseURL(t *testing.T) {
	for _, test := range []struct {
		in             string
		bucket, object string
		ok             bool
	}{
		{"gs://charts/gol/256.png", "charts", "gol/256.png", true},
		{"gs://charts/a.svg", "charts", "a.svg", true},
		{"gs://charts", "", "", false},
		{"gs://charts/", "", "", false},
		{"gs:///a.png", "", "", false},
		{"chart.png", "", "", false},
		{"s3://charts/a.png", "", "", false},
	} {
		bucket, object, ok := ParseURL(test.in)
		if bucket != test.bucket || object != test.object || ok != test.ok {
			t.Errorf("ParseURL(%q) = %q, %q, %v, want %q, %q, %v", test.in, bucket, object, ok, test.bucket, test.object, test.ok)
		}
	}
}
