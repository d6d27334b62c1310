// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/goseep/mdl/fluid"
	"github.com/cpmech/gosl/utl"
)

// AtRest holds the hydrostatic and geostatic state of a mesh. It is the reference for excess
// pore pressures and for stress increments.
type AtRest struct {
	Ph   []float64 // [nverts] hydrostatic pressure
	Stot []float64 // [6 nverts] total stress at rest; compression positive
	Seff []float64 // [6 nverts] effective stress at rest
}

// LiquidModel returns the fluid model of the pore liquid
func LiquidModel(msh *inp.Mesh, sim *inp.Simulation) (mdl *fluid.Model) {
	H := sim.Data.Wlevel
	if H == 0 {
		H = msh.MaxElev
	}
	return &fluid.Model{R0: sim.Fluid.Rho, C: sim.Fluid.C, H: H, Grav: sim.Data.Grav}
}

// NewAtRest computes the state at rest
//  σv  = ρsat・g・(zmax - z)
//  σ'v = σv - α・ph
//  σ'h = K0・σ'v   with K0 = ν/(1-ν)
func NewAtRest(msh *inp.Mesh, sim *inp.Simulation) (o *AtRest) {
	nv := msh.Nverts()
	o = &AtRest{
		Ph:   make([]float64, nv),
		Stot: make([]float64, 6*nv),
		Seff: make([]float64, 6*nv),
	}
	liq := LiquidModel(msh, sim)
	α := sim.Coupling.Alpha()
	K0 := sim.Solid.Nu / (1 - sim.Solid.Nu)
	for i := 0; i < nv; i++ {
		z := msh.Z(i)
		o.Ph[i], _ = liq.Calc(z)
		σv := sim.Solid.Rho * sim.Data.Grav * utl.Max(msh.MaxElev-z, 0)
		σve := σv - α*o.Ph[i]
		for j := 0; j < 3; j++ {
			if j == msh.Elev {
				o.Seff[6*i+j] = σve
			} else {
				o.Seff[6*i+j] = K0 * σve
			}
			o.Stot[6*i+j] = o.Seff[6*i+j] + α*o.Ph[i]
		}
	}
	return
}

// InitialState returns the fields at rest: hydrostatic pressure, no displacement and
// geostatic effective stresses
func InitialState(msh *inp.Mesh, sim *inp.Simulation) (fields *FieldState) {
	rest := NewAtRest(msh, sim)
	fields = NewFieldState(msh.Nverts())
	copy(fields.P, rest.Ph)
	copy(fields.Sig, rest.Seff)
	return
}
