// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fluid implements models for fluid density
package fluid

import (
	"math"

	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/utl"
)

// Model implements a model to compute pressure (p) and intrinsic density (R) of a fluid
// along a column with gravity (g). The model is:
//   R(p) = R0 + C・(p - p0)   thus   dR/dp = C
// With C == 0 the fluid is incompressible along the column and p varies linearly with depth.
type Model struct {

	// material data
	R0 float64 // intrinsic density corresponding to p0
	P0 float64 // pressure corresponding to R0
	C  float64 // compressibility coefficient; e.g. R0/Kbulk

	// additional data
	H    float64 // elevation where (R0,p0) is known; i.e. the water level
	Grav float64 // gravity acceleration (positive constant)
}

// Init initialises this structure
func (o *Model) Init(prms dbf.Params, H, grav float64) {
	for _, p := range prms {
		switch p.N {
		case "R0":
			o.R0 = p.V
		case "P0":
			o.P0 = p.V
		case "C":
			o.C = p.V
		}
	}
	o.H = H
	o.Grav = grav
}

// GetPrms gets (an example of) parameters
//  Input:
//   example -- returns example of parameters (water in SI units); othewise returs current parameters
func (o Model) GetPrms(example bool) dbf.Params {
	if example {
		return dbf.Params{
			&dbf.P{N: "R0", V: 1000.0},  // [kg/m³]
			&dbf.P{N: "P0", V: 0.0},     // [Pa]
			&dbf.P{N: "C", V: 4.53e-7}, // [kg/(m³・Pa)]
		}
	}
	return dbf.Params{
		&dbf.P{N: "R0", V: o.R0},
		&dbf.P{N: "P0", V: o.P0},
		&dbf.P{N: "C", V: o.C},
	}
}

// Calc computes pressure and density at elevation z. Above the water level, p=P0 and R=R0.
func (o Model) Calc(z float64) (p, R float64) {
	Δz := utl.Max(o.H-z, 0)
	if o.C == 0 {
		return o.P0 + o.R0*o.Grav*Δz, o.R0
	}
	p = o.P0 + (o.R0/o.C)*(math.Exp(o.C*o.Grav*Δz)-1.0)
	R = o.R0 + o.C*(p-o.P0)
	return
}

// Profile computes the pressure at each elevation in Z
func (o Model) Profile(Z []float64) (P []float64) {
	P = make([]float64, len(Z))
	for i, z := range Z {
		P[i], _ = o.Calc(z)
	}
	return
}
