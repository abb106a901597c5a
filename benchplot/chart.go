// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchplot draws summarized benchmark measurements as a bar
// chart, one bar per group with error bars for its confidence
// interval.
package benchplot

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksudra/golplot/benchmath"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Default axis labels.
const (
	DefaultXLabel = "Worker threads used"
	DefaultYLabel = "Time taken (s)"
)

// A Format is an output file format.
type Format int

const (
	PNG Format = iota
	SVG
	PDF
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case SVG:
		return "svg"
	case PDF:
		return "pdf"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatOf returns the Format selected by path's extension.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return PNG, nil
	case ".svg":
		return SVG, nil
	case ".pdf":
		return PDF, nil
	default:
		return 0, fmt.Errorf("%s: unsupported chart format %q (want .png, .svg or .pdf)", path, ext)
	}
}

// ErrNoBars is returned when there is nothing to draw.
var ErrNoBars = errors.New("no bars to plot")

// A Chart is a bar chart of benchmath.Bars.
type Chart struct {
	Title          string
	XLabel, YLabel string
	Bars           []benchmath.Bar

	// Width and Height are the size of the rendered image.
	Width, Height vg.Length
	// DPI is the resolution of PNG output.
	DPI int
}

// NewChart returns a Chart of bars with the default labels and size.
func NewChart(bars []benchmath.Bar) *Chart {
	return &Chart{
		XLabel: DefaultXLabel,
		YLabel: DefaultYLabel,
		Bars:   bars,
		Width:  16 * vg.Centimeter,
		Height: 10 * vg.Centimeter,
		DPI:    150,
	}
}

// errorBars places an error bar on top of every bar.
type errorBars struct {
	plotter.XYs
	plotter.YErrors
}

// Plot builds the gonum plot for c.
func (c *Chart) Plot() (*plot.Plot, error) {
	if len(c.Bars) == 0 {
		return nil, ErrNoBars
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)

	values := make(plotter.Values, len(c.Bars))
	eb := errorBars{
		XYs:     make(plotter.XYs, len(c.Bars)),
		YErrors: make(plotter.YErrors, len(c.Bars)),
	}
	labels := make([]string, len(c.Bars))
	for i, b := range c.Bars {
		values[i] = b.Center
		eb.XYs[i].X = float64(i)
		eb.XYs[i].Y = b.Center
		eb.YErrors[i].Low, eb.YErrors[i].High = b.Err()
		labels[i] = b.Label
	}

	bc, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return nil, err
	}
	palette, err := brewer.GetPalette(brewer.TypeSequential, "Blues", 5)
	if err != nil {
		return nil, err
	}
	bc.Color = palette.Colors()[3]
	bc.LineStyle.Width = 0
	p.Add(bc)

	ebs, err := plotter.NewYErrorBars(eb)
	if err != nil {
		return nil, err
	}
	ebs.Color = color.Gray{64}
	ebs.Width = vg.Points(1)
	p.Add(ebs)

	p.NominalX(labels...)
	p.Y.Min = 0
	return p, nil
}

// Write renders c to w in format f.
func (c *Chart) Write(w io.Writer, f Format) error {
	p, err := c.Plot()
	if err != nil {
		return err
	}

	var can vg.CanvasWriterTo
	switch f {
	case PNG:
		can = vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(c.Width, c.Height),
			vgimg.UseDPI(c.DPI), vgimg.UseBackgroundColor(color.White))}
	case SVG:
		can = vgsvg.New(c.Width, c.Height)
	case PDF:
		can = vgpdf.New(c.Width, c.Height)
	default:
		return fmt.Errorf("unsupported chart format %v", f)
	}

	p.Draw(draw.New(can))
	_, err = can.WriteTo(w)
	return err
}

// Save renders c to the file at path, choosing the format from the
// file extension.
func (c *Chart) Save(path string) (err error) {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()
	return c.Write(out, f)
}
