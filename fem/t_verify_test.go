// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"context"
	"testing"

	"github.com/cpmech/goseep/ana"
	"github.com/cpmech/goseep/ele"
	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

func Test_verify01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("verify01. state at rest")

	sim := inp.NewSimulation()
	msh, err := inp.NewColumn(10, 5)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	var sol ana.Geostatic
	sol.Init(dbf.Params{
		&dbf.P{N: "H", V: 10},
		&dbf.P{N: "rhosat", V: sim.Solid.Rho},
		&dbf.P{N: "rhow", V: sim.Fluid.Rho},
		&dbf.P{N: "nu", V: sim.Solid.Nu},
		&dbf.P{N: "alpha", V: sim.Coupling.Alpha()},
		&dbf.P{N: "g", V: sim.Data.Grav},
	})
	fields := ele.InitialState(msh, sim)
	for i := 0; i < msh.Nverts(); i++ {
		z := msh.Z(i)
		chk.Float64(tst, io.Sf("p @ z=%g", z), 1e-9, fields.P[i], sol.Pressure(z))
		chk.Array(tst, io.Sf("σ @ z=%g", z), 1e-9, fields.Sig[6*i:6*i+6], sol.Stress(z, msh.Elev))
	}
}

func Test_verify02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("verify02. long term settlement")

	H, q := 10.0, 1e4
	sim, msh, bcs := loadedColumn(tst, H, 5, -q)
	sim.Control.Tf = 1e6
	sim.Control.Dt = 1e5
	sim.Control.DtMax = 1e5
	sim.Adapt.Off = true
	analysis, err := NewMain(sim, chk.Verbose)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	history, err := analysis.Run(context.Background(), msh, bcs, nil)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	M := analysis.Solver.Stress.(*ele.Stress).Mdl.Oedometric()
	var sol ana.Terzaghi
	sol.Init(dbf.Params{
		&dbf.P{N: "H", V: H},
		&dbf.P{N: "q", V: q},
		&dbf.P{N: "M", V: M},
		&dbf.P{N: "alpha", V: sim.Coupling.Alpha()},
		&dbf.P{N: "S", V: sim.Fluid.Porosity / sim.Fluid.Kf},
		&dbf.P{N: "kmu", V: sim.Fluid.Kzz / sim.Fluid.Mu},
	})
	last := history[len(history)-1]
	top := msh.Nverts() - 1
	settlement := -last.Fields.U[3*top+2]
	io.Pforan("settlement = %g  (analytical = %g)\n", settlement, sol.Settlement(last.Time))
	chk.Float64(tst, "final settlement", 1e-3*sol.Settlement(last.Time), settlement, sol.Settlement(last.Time))
	for i := 0; i < msh.Nverts(); i++ {
		ph := ele.NewAtRest(msh, sim).Ph[i]
		chk.Float64(tst, io.Sf("excess pressure %d", i), 1e-3*sol.U0, last.Fields.P[i]-ph, sol.Pressure(msh.Z(i), last.Time))
	}
}
