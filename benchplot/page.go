// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchplot

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/ksudra/golplot/benchunit"
)

// Page builds an interactive echarts version of c. Hovering a bar
// shows its mean, confidence interval and sample count.
func (c *Chart) Page() (*charts.Bar, error) {
	if len(c.Bars) == 0 {
		return nil, ErrNoBars
	}

	vals := make([]float64, 0, len(c.Bars))
	for _, b := range c.Bars {
		vals = append(vals, b.Center, b.Lo, b.Hi)
	}
	scale := benchunit.CommonScale(vals)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:     types.ThemeWesteros,
			PageTitle: c.pageTitle(),
			Width:     fmt.Sprintf("%dpx", int(c.Width.Dots(96))),
			Height:    fmt.Sprintf("%dpx", int(c.Height.Dots(96))),
		}),
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: c.XLabel, NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: c.YLabel, NameLocation: "middle", NameGap: 50}),
	)

	labels := make([]string, len(c.Bars))
	data := make([]opts.BarData, len(c.Bars))
	for i, b := range c.Bars {
		labels[i] = b.Label
		data[i] = opts.BarData{
			Name: fmt.Sprintf("%ss ±%s [%ss, %ss] n=%d",
				scale.Format(b.Center), b.PctRangeString(), scale.Format(b.Lo), scale.Format(b.Hi), b.N),
			Value: b.Center,
		}
	}
	bar.SetXAxis(labels)
	bar.AddSeries(c.YLabel, data)
	return bar, nil
}

func (c *Chart) pageTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.YLabel + " by " + c.XLabel
}

// WriteHTML renders the interactive page of c to w.
func (c *Chart) WriteHTML(w io.Writer) error {
	bar, err := c.Page()
	if err != nil {
		return err
	}
	return bar.Render(w)
}

// Handler returns an http.Handler that serves the interactive page.
func (c *Chart) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		var buf bytes.Buffer
		if err := c.WriteHTML(&buf); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
	})
}
