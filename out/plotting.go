// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"os"
	"path/filepath"

	"github.com/cpmech/goseep/fem"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// figure size
var (
	FigWidth  = 6 * vg.Inch
	FigHeight = 4 * vg.Inch
)

// PltEntity holds data for plotting a curve
type PltEntity struct {
	Alias string    // alias; used as legend
	X     []float64 // x-values
	Y     []float64 // y-values
}

// SplotDat holds data for one figure
type SplotDat struct {
	Id     string       // figure id; used in filename
	Title  string       // title
	Xlbl   string       // x-axis label
	Ylbl   string       // y-axis label
	LogY   bool         // logarithmic y-axis
	Yrange []float64    // [2] y range; nil for automatic
	Data   []*PltEntity // curves
}

// AddCurve adds a curve to this figure
func (o *SplotDat) AddCurve(alias string, x, y []float64) {
	if len(x) != len(y) {
		chk.Panic("lengths of x- and y-series are different. len(x)=%d, len(y)=%d", len(x), len(y))
	}
	o.Data = append(o.Data, &PltEntity{Alias: alias, X: x, Y: y})
}

// HistorySplots returns the figures summarising the history of steps
func HistorySplots(history []*fem.Snapshot) (splots []*SplotDat) {
	s := NewSeries(history)
	add := func(id, title, ykey string, logy bool, keys ...string) {
		spl := &SplotDat{Id: id, Title: title, Xlbl: GetLabel("t", ""), Ylbl: GetLabel(ykey, ""), LogY: logy}
		for _, key := range keys {
			y := s.Get(key)
			if logy {
				y = floored(y)
			}
			spl.AddCurve(GetLabel(key, ""), s.Times, y)
		}
		splots = append(splots, spl)
	}
	add("dt", "time step", "dt", false, "dt")
	add("res", "coupling residual", "res", true, "res")
	add("nit", "coupling iterations", "nit", false, "nit", "natt")
	add("quality", "mesh quality", "qmean", false, "qmean", "qmin")
	add("ncells", "mesh size", "ncells", false, "ncells")
	splots[3].Yrange = []float64{0, 1}
	return
}

// ProfileSplots returns the figures with vertical profiles of snapshots
func ProfileSplots(snaps ...*fem.Snapshot) (splots []*SplotDat, err error) {
	pl := &SplotDat{Id: "pl", Title: "pore pressure", Xlbl: GetLabel("pl", ""), Ylbl: GetLabel("z", "")}
	uz := &SplotDat{Id: "uz", Title: "vertical displacement", Xlbl: GetLabel("uz", ""), Ylbl: GetLabel("z", "")}
	sz := &SplotDat{Id: "sz", Title: "vertical effective stress", Xlbl: GetLabel("sz", ""), Ylbl: GetLabel("z", "")}
	for _, snap := range snaps {
		prof, err := NewProfile(snap)
		if err != nil {
			return nil, err
		}
		alias := io.Sf("t=%g", prof.Time)
		pl.AddCurve(alias, prof.P, prof.Z)
		uz.AddCurve(alias, prof.Uz, prof.Z)
		sz.AddCurve(alias, prof.Sz, prof.Z)
	}
	return []*SplotDat{pl, uz, sz}, nil
}

// Draw saves one figure per subplot
//  dirout -- directory to save figures
//  fname  -- file name; e.g. myplot.png or myplot.svg. Figures are saved as fnkey_id.ext
func Draw(dirout, fname string, splots []*SplotDat) (files []string, err error) {
	fnk, ext := io.FnKey(fname), io.FnExt(fname)
	if ext == "" {
		ext = ".png"
	}
	if dirout != "" {
		err = os.MkdirAll(dirout, 0777)
		if err != nil {
			return nil, chk.Err("cannot create directory %q:\n%v", dirout, err)
		}
	}
	for _, spl := range splots {
		p := plot.New()
		p.Title.Text = spl.Title
		p.X.Label.Text = spl.Xlbl
		p.Y.Label.Text = spl.Ylbl
		if spl.LogY {
			p.Y.Scale = plot.LogScale{}
			p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
		}
		if len(spl.Yrange) == 2 {
			p.Y.Min, p.Y.Max = spl.Yrange[0], spl.Yrange[1]
		}
		p.Add(plotter.NewGrid())
		var args []interface{}
		for _, d := range spl.Data {
			if len(d.X) == 0 {
				continue
			}
			xys := make(plotter.XYs, len(d.X))
			for i := range d.X {
				xys[i].X, xys[i].Y = d.X[i], d.Y[i]
			}
			args = append(args, d.Alias, xys)
		}
		if len(args) > 0 {
			err = plotutil.AddLinePoints(p, args...)
			if err != nil {
				return nil, chk.Err("cannot add curves to %q:\n%v", spl.Id, err)
			}
		}
		fn := filepath.Join(dirout, fnk+"_"+spl.Id+ext)
		err = p.Save(FigWidth, FigHeight, fn)
		if err != nil {
			return nil, chk.Err("cannot save figure %q:\n%v", fn, err)
		}
		files = append(files, fn)
		if io.Verbose {
			io.Pf("file <%s> written\n", fn)
		}
	}
	return
}

// PlotHistory draws the history figures of an analysis
func PlotHistory(dirout, fnkey string, history []*fem.Snapshot) (files []string, err error) {
	if len(history) == 0 {
		return nil, chk.Err("history is empty")
	}
	return Draw(dirout, fnkey+"_hist.png", HistorySplots(history))
}

// PlotProfiles draws vertical profiles of the first and last snapshots of history
func PlotProfiles(dirout, fnkey string, history []*fem.Snapshot) (files []string, err error) {
	if len(history) == 0 {
		return nil, chk.Err("history is empty")
	}
	snaps := []*fem.Snapshot{history[0]}
	if len(history) > 1 {
		snaps = append(snaps, history[len(history)-1])
	}
	splots, err := ProfileSplots(snaps...)
	if err != nil {
		return
	}
	return Draw(dirout, fnkey+"_prof.png", splots)
}
