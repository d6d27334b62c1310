// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions
package ana

import (
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/utl"
)

// Geostatic computes the state at rest of a saturated column under gravity
//
//         o   ← zmax = H          compression is positive
//         |
//    ρsat |  ν, α                 p   = ρw・g・(Hw - z)
//         |                       σv  = ρsat・g・(H - z)
//         |                       σ'v = σv - α・p
//         o   ← z = 0             σ'h = K0・σ'v   with K0 = ν/(1-ν)
//
type Geostatic struct {
	H    float64 // height of column
	Hw   float64 // elevation of water table
	Rsat float64 // saturated density of mixture
	Rw   float64 // density of water
	Nu   float64 // Poisson's coefficient
	Alp  float64 // coefficient of pore pressure in the effective stress law
	Grav float64 // gravity acceleration (positive)
	K0   float64 // coefficient of earth pressure at rest
}

// Init initialises this structure
func (o *Geostatic) Init(prms dbf.Params) {

	// default values
	o.H = 10
	o.Rsat = 1800
	o.Rw = 1000
	o.Nu = 0.3
	o.Alp = 1
	o.Grav = 9.81

	// parameters
	for _, p := range prms {
		switch p.N {
		case "H":
			o.H = p.V
		case "Hw":
			o.Hw = p.V
		case "rhosat":
			o.Rsat = p.V
		case "rhow":
			o.Rw = p.V
		case "nu":
			o.Nu = p.V
		case "alpha":
			o.Alp = p.V
		case "g":
			o.Grav = p.V
		}
	}
	if o.Hw == 0 {
		o.Hw = o.H
	}

	// derived
	o.K0 = o.Nu / (1 - o.Nu)
}

// Pressure computes the hydrostatic pore pressure
func (o Geostatic) Pressure(z float64) float64 {
	return o.Rw * o.Grav * utl.Max(o.Hw-z, 0)
}

// Stress computes the effective stress components (xx, yy, zz, xy, yz, zx) with the vertical
// component at index elev
func (o Geostatic) Stress(z float64, elev int) (σ []float64) {
	σv := o.Rsat * o.Grav * utl.Max(o.H-z, 0)
	σve := σv - o.Alp*o.Pressure(z)
	σ = make([]float64, 6)
	for i := 0; i < 3; i++ {
		σ[i] = o.K0 * σve
	}
	σ[elev] = σve
	return
}
