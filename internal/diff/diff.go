// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diff compares golden test output.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Diff returns a unified diff from want to got, labeled with the
// given names. It returns "" if want and got are equal. If the diff
// command is unavailable, it returns both strings quoted.
func Diff(wantName, want, gotName, got string) string {
	if want == got {
		return ""
	}
	cmd := "diff"
	if runtime.GOOS == "plan9" {
		cmd = "/bin/ape/diff"
	}
	if _, err := exec.LookPath(cmd); err != nil {
		return fmt.Sprintf("%s: %q\n%s: %q", wantName, want, gotName, got)
	}

	dir, err := os.MkdirTemp("", "golplot-diff")
	if err != nil {
		return err.Error()
	}
	defer os.RemoveAll(dir)
	f1, f2 := dir+"/want", dir+"/got"
	if err := os.WriteFile(f1, []byte(want), 0o666); err != nil {
		return err.Error()
	}
	if err := os.WriteFile(f2, []byte(got), 0o666); err != nil {
		return err.Error()
	}

	data, err := exec.Command(cmd, "-u", "--label", wantName, "--label", gotName, f1, f2).CombinedOutput()
	if len(data) > 0 {
		// diff exits 1 when the inputs differ.
		err = nil
	}
	if err != nil {
		data = append(data, err.Error()...)
	}
	return string(data)
}
