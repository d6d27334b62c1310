// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"bytes"
	"context"
	"testing"

	"github.com/cpmech/goseep/ele"
	"github.com/cpmech/goseep/fem"
	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// consolidation runs a short analysis of a loaded column
func consolidation(tst *testing.T) []*fem.Snapshot {
	sim := inp.NewSimulation()
	sim.Fluid.Kf = 1e7
	sim.Coupling.Biot = 0.2
	sim.Coupling.NmaxIt = 30
	sim.Control.Tf = 4 * 3600
	sim.Control.Dt = 3600
	sim.Adapt.Off = true
	msh, err := inp.NewColumn(10, 4)
	require.NoError(tst, err)
	fcn, err := dbf.New("cte", dbf.Params{&dbf.P{N: "c", V: -1e4}})
	require.NoError(tst, err)
	bcs := new(ele.BCs)
	bcs.Add(-2, "fz", "load", fcn)
	analysis, err := fem.NewMain(sim, chk.Verbose)
	require.NoError(tst, err)
	history, err := analysis.Run(context.Background(), msh, bcs, nil)
	require.NoError(tst, err)
	require.NotEmpty(tst, history)
	return history
}

func Test_series01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("series01")

	history := []*fem.Snapshot{
		{Step: 0, Time: 1, Dt: 1, Iterations: 3, Residual: 1e-9, Attempts: 1,
			Mesh: fem.MeshStats{Ncells: 4, Quality: inp.QualityStats{Mean: 1, Min: 1}}},
		{Step: 1, Time: 3, Dt: 2, Iterations: 1, Residual: 0, Attempts: 2,
			Mesh: fem.MeshStats{Ncells: 6, Quality: inp.QualityStats{Mean: 0.8, Min: 0.5}},
			Adapt: &fem.AdaptInfo{Adapted: true}},
		{Step: 2, Time: 4, Dt: 1, Iterations: 2, Residual: 1e-7, Attempts: 1,
			Mesh: fem.MeshStats{Ncells: 6, Quality: inp.QualityStats{Mean: 0.8, Min: 0.5}},
			Adapt: &fem.AdaptInfo{Adapted: false}},
	}
	s := NewSeries(history)
	chk.Array(tst, "t", 1e-17, s.Get("t"), []float64{1, 3, 4})
	chk.Array(tst, "dt", 1e-17, s.Get("dt"), []float64{1, 2, 1})
	chk.Array(tst, "nit", 1e-17, s.Get("nit"), []float64{3, 1, 2})
	chk.Array(tst, "natt", 1e-17, s.Get("natt"), []float64{1, 2, 1})
	chk.Array(tst, "ncells", 1e-17, s.Get("ncells"), []float64{4, 6, 6})
	chk.Array(tst, "qmin", 1e-17, s.Get("qmin"), []float64{1, 0.5, 0.5})
	chk.Array(tst, "adapted", 1e-17, s.Adapted, []float64{3})
	chk.Array(tst, "floored residuals", 1e-30, floored(s.Residuals), []float64{1e-9, Floor, 1e-7})
	assert.Panics(tst, func() { s.Get("nothing") })

	splots := HistorySplots(history)
	require.Len(tst, splots, 5)
	assert.True(tst, splots[1].LogY)
	assert.Equal(tst, []float64{0, 1}, splots[3].Yrange)
	assert.Len(tst, splots[2].Data, 2)
	assert.Equal(tst, "Δt", splots[0].Ylbl)
	assert.Equal(tst, "t [s]", GetLabel("t", "s"))
}

func Test_profile01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("profile01")

	// column: vertices are already sorted
	msh, err := inp.NewColumn(10, 4)
	require.NoError(tst, err)
	fields := ele.NewFieldState(msh.Nverts())
	for i := 0; i < msh.Nverts(); i++ {
		fields.P[i] = 10 - msh.Z(i)
		fields.U[3*i+2] = -0.1 * msh.Z(i)
		fields.Sig[6*i+2] = 2 * msh.Z(i)
	}
	prof, err := NewProfile(&fem.Snapshot{Time: 7, Msh: msh, Fields: fields})
	require.NoError(tst, err)
	chk.Float64(tst, "time", 1e-17, prof.Time, 7)
	chk.Array(tst, "z", 1e-15, prof.Z, []float64{0, 2.5, 5, 7.5, 10})
	chk.Array(tst, "p", 1e-15, prof.P, []float64{10, 7.5, 5, 2.5, 0})
	chk.Array(tst, "uz", 1e-15, prof.Uz, []float64{0, -0.25, -0.5, -0.75, -1})
	chk.Array(tst, "σ'z", 1e-15, prof.Sz, []float64{0, 5, 10, 15, 20})

	// square: vertices at the same elevation are averaged
	sqr, err := inp.ReadMsh("../inp/data", "sqr2.msh")
	require.NoError(tst, err)
	fields = ele.NewFieldState(sqr.Nverts())
	fields.P = []float64{1, 3, 10, 20}
	fields.U[3*2+1], fields.U[3*3+1] = -1, -2
	prof, err = NewProfile(&fem.Snapshot{Msh: sqr, Fields: fields})
	require.NoError(tst, err)
	chk.Array(tst, "z", 1e-15, prof.Z, []float64{0, 1})
	chk.Array(tst, "p", 1e-15, prof.P, []float64{2, 15})
	chk.Array(tst, "uy", 1e-15, prof.Uz, []float64{0, -1.5})

	// errors
	_, err = NewProfile(&fem.Snapshot{Msh: sqr})
	assert.Error(tst, err)
	_, err = NewProfile(&fem.Snapshot{Msh: msh, Fields: fields})
	assert.Error(tst, err)
}

func Test_plot01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("plot01")

	history := consolidation(tst)
	dirout := tst.TempDir()

	files, err := PlotHistory(dirout, "plot01", history)
	require.NoError(tst, err)
	require.Len(tst, files, 5)
	for _, fn := range files {
		assert.FileExists(tst, fn)
	}
	assert.Contains(tst, files[0], "plot01_hist_dt.png")

	files, err = PlotProfiles(dirout, "plot01", history)
	require.NoError(tst, err)
	require.Len(tst, files, 3)
	for _, fn := range files {
		assert.FileExists(tst, fn)
	}

	_, err = PlotHistory(dirout, "empty", nil)
	assert.Error(tst, err)
}

func Test_html01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("html01")

	history := consolidation(tst)

	var buf bytes.Buffer
	require.NoError(tst, WriteHTML(&buf, "html01", history))
	page := buf.String()
	assert.Contains(tst, page, "echarts")
	assert.Contains(tst, page, "Coupling residual")
	assert.Contains(tst, page, "Mesh quality")

	dirout := tst.TempDir()
	fn, err := SaveHTML(dirout, "html01", history)
	require.NoError(tst, err)
	assert.FileExists(tst, fn)

	assert.Error(tst, WriteHTML(&buf, "empty", nil))
}
