// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/goseep/ele"
	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_dtctrl01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dtctrl01. growth, reduction and bounds")

	sim := inp.NewSimulation()
	sim.Coupling.Tol = 1e-6
	sim.Control.DtMin = 60
	sim.Control.DtMax = 7200
	ctrl := NewDtControl(sim)

	chk.Float64(tst, "empty history", 1e-15, ctrl.Next(3600, nil), 3600)
	chk.Float64(tst, "grow", 1e-15, ctrl.Next(3600, []float64{1, 1e-8}), 5400)
	chk.Float64(tst, "grow up to max", 1e-15, ctrl.Next(6000, []float64{1e-8}), 7200)
	chk.Float64(tst, "hold", 1e-15, ctrl.Next(3600, []float64{5e-7}), 3600)
	chk.Float64(tst, "hold at tol", 1e-15, ctrl.Next(3600, []float64{1e-6}), 3600)
	chk.Float64(tst, "shrink", 1e-15, ctrl.Next(3600, []float64{1e-5}), 1800)
	chk.Float64(tst, "shrink down to min", 1e-15, ctrl.Next(100, []float64{1e-5}), 60)
	chk.Float64(tst, "NaN shrinks", 1e-15, ctrl.Next(3600, []float64{math.NaN()}), 1800)
	chk.Float64(tst, "clamp above", 1e-15, ctrl.Next(1e6, []float64{5e-7}), 7200)
	chk.Float64(tst, "clamp below", 1e-15, ctrl.Next(1, nil), 60)

	// bounds for many residuals
	for _, dt := range []float64{1, 60, 100, 3600, 7200, 1e5} {
		for _, r := range []float64{0, 1e-9, 1e-7, 1e-6, 1e-3, math.Inf(1)} {
			dtnew := ctrl.Next(dt, []float64{r})
			if dtnew < ctrl.DtMin || dtnew > ctrl.DtMax {
				tst.Errorf("Δt=%g is out of bounds for dt=%g and r=%g", dtnew, dt, r)
			}
		}
	}

	// rejections
	dt, underflow := ctrl.Shrink(3600)
	chk.Float64(tst, "shrunk", 1e-15, dt, 1800)
	if underflow {
		tst.Errorf("1800 should not underflow")
	}
	dt = 3600
	n := 0
	for {
		dt, underflow = ctrl.Shrink(dt)
		n++
		if underflow {
			break
		}
	}
	chk.Int(tst, "number of shrinks up to underflow", n, 6)
	chk.Float64(tst, "Δt at underflow", 1e-15, dt, 56.25)
}

func Test_residual01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("residual01. residual between iterates")

	a := ele.NewFieldState(2)
	b := ele.NewFieldState(2)
	chk.Float64(tst, "equal", 1e-17, Residual(a, b), 0)
	b.P[0] = 3
	b.U[5] = 4
	b.Sig[0] = 100
	chk.Float64(tst, "r", 1e-15, Residual(a, b), 2.5)
	if !math.IsInf(Residual(a, ele.NewFieldState(3)), 1) {
		tst.Errorf("residual of inconsistent fields should be +Inf")
	}
	if !math.IsInf(Residual(ele.NewFieldState(0), ele.NewFieldState(0)), 1) {
		tst.Errorf("residual of empty fields should be +Inf")
	}
}
