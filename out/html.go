// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"
	goio "io"
	"path/filepath"

	"github.com/cpmech/goseep/fem"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// newLine allocates a line chart with the common options
func newLine(title, subtitle, ylbl string, logy bool) (line *charts.Line) {
	yaxis := opts.YAxis{Name: ylbl, Scale: opts.Bool(true)}
	if logy {
		yaxis.Type = "log"
	}
	line = charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: GetLabel("t", ""),
		}),
		charts.WithYAxisOpts(yaxis),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
	)
	return
}

// lineData converts values to chart items
func lineData(v []float64) (items []opts.LineData) {
	items = make([]opts.LineData, len(v))
	for i, x := range v {
		items[i].Value = x
	}
	return
}

// WriteHTML renders the history of an analysis as an interactive page
func WriteHTML(w goio.Writer, title string, history []*fem.Snapshot) error {
	if len(history) == 0 {
		return chk.Err("history is empty")
	}
	s := NewSeries(history)
	xaxis := make([]string, len(s.Times))
	for i, t := range s.Times {
		xaxis[i] = io.Sf("%g", t)
	}
	subtitle := io.Sf("%d steps; %d adaptations", len(history), len(s.Adapted))

	add := func(title, ykey string, logy bool, keys ...string) *charts.Line {
		line := newLine(title, subtitle, GetLabel(ykey, ""), logy)
		line.SetXAxis(xaxis)
		for _, key := range keys {
			y := s.Get(key)
			if logy {
				y = floored(y)
			}
			line.AddSeries(GetLabel(key, ""), lineData(y))
		}
		return line
	}

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(
		add("Time step", "dt", false, "dt"),
		add("Coupling residual", "res", true, "res"),
		add("Coupling iterations", "nit", false, "nit", "natt"),
		add("Mesh quality", "qmean", false, "qmean", "qmin"),
		add("Mesh size", "ncells", false, "ncells"),
	)
	return page.Render(w)
}

// SaveHTML saves the page rendered by WriteHTML to dirout/fnkey.html
func SaveHTML(dirout, fnkey string, history []*fem.Snapshot) (fn string, err error) {
	var buf bytes.Buffer
	err = WriteHTML(&buf, fnkey, history)
	if err != nil {
		return
	}
	fn = fnkey + ".html"
	io.WriteFileSD(dirout, fn, buf.String())
	return filepath.Join(dirout, fn), nil
}
