// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package display shows rendered charts to the user, either by handing
// a file to the platform viewer or by serving a page over HTTP.
package display

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"time"
)

// ErrHeadless is returned by Open when there is no graphical session
// to show a file in.
var ErrHeadless = errors.New("no display available")

// Headless reports whether the process has no graphical session.
// Only X11 and Wayland platforms can be detected; elsewhere a display
// is assumed.
func Headless() bool {
	switch runtime.GOOS {
	case "darwin", "windows", "ios", "android", "plan9", "js", "wasip1":
		return false
	}
	return os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}

// viewer returns the command that opens path in the default
// application.
func viewer(path string) (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}

// Open opens the file at path in the platform viewer and waits for
// the launcher to exit.
func Open(ctx context.Context, path string) error {
	if Headless() {
		return ErrHeadless
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	name, args := viewer(path)
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			return fmt.Errorf("%s %s: %w: %s", name, path, err, out)
		}
		return fmt.Errorf("%s %s: %w", name, path, err)
	}
	return nil
}

// ShutdownTimeout bounds how long Serve waits for in-flight requests
// once ctx is done.
var ShutdownTimeout = 5 * time.Second

// Serve serves h on ln until ctx is done, then shuts the server down.
// It returns nil after a clean shutdown.
func Serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shCtx)
	case err := <-errc:
		return err
	}
}

// URL returns the address a browser should use to reach ln.
func URL(ln net.Listener) string {
	addr := ln.Addr().String()
	if host, port, err := net.SplitHostPort(addr); err == nil {
		if ip := net.ParseIP(host); host == "" || ip != nil && ip.IsUnspecified() {
			addr = net.JoinHostPort("localhost", port)
		}
	}
	return "http://" + addr + "/"
}
