// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"

	"github.com/cpmech/gosl/fun/dbf"
)

// Terzaghi computes the one-dimensional consolidation of a column of height H loaded at the top
// by q (compression positive) at t=0. The top is drained and the bottom is impermeable and fixed.
//
//   S・∂u/∂t + α・∂εv/∂t = (k/μ)・∂²u/∂z²     with   M・εv = α・u - q
//
//   cv = k / (μ・(S + α²/M))       u0 = α・q / (α² + M・S)
//
//   u(z,t) = Σ 2・u0/m・sin(m・(H-z)/H)・exp(-m²・Tv)    m = π(2i+1)/2   Tv = cv・t/H²
//
type Terzaghi struct {
	H     float64 // height of column (drainage length)
	Q     float64 // load; compression positive
	M     float64 // oedometric modulus
	Alp   float64 // Biot coefficient
	S     float64 // storage coefficient (porosity / bulk modulus of fluid)
	Kmu   float64 // permeability divided by viscosity
	Nterm int     // number of terms in series

	// derived
	Cv float64 // coefficient of consolidation
	U0 float64 // initial excess pore pressure
}

// Init initialises this structure
func (o *Terzaghi) Init(prms dbf.Params) {

	// default values
	o.H = 10
	o.M = 33.65e6
	o.Alp = 1
	o.Kmu = 1e-9
	o.Nterm = 200

	// parameters
	for _, p := range prms {
		switch p.N {
		case "H":
			o.H = p.V
		case "q":
			o.Q = p.V
		case "M":
			o.M = p.V
		case "alpha":
			o.Alp = p.V
		case "S":
			o.S = p.V
		case "kmu":
			o.Kmu = p.V
		case "nterm":
			o.Nterm = int(p.V)
		}
	}

	// derived
	o.Cv = o.Kmu / (o.S + o.Alp*o.Alp/o.M)
	o.U0 = o.Alp * o.Q / (o.Alp*o.Alp + o.M*o.S)
}

// Tv returns the time factor
func (o Terzaghi) Tv(t float64) float64 {
	return o.Cv * t / (o.H * o.H)
}

// Pressure computes the excess pore pressure at elevation z and time t > 0
func (o Terzaghi) Pressure(z, t float64) (u float64) {
	Tv := o.Tv(t)
	for i := 0; i < o.Nterm; i++ {
		m := math.Pi * float64(2*i+1) / 2
		u += 2 * o.U0 / m * math.Sin(m*(o.H-z)/o.H) * math.Exp(-m*m*Tv)
	}
	return
}

// Degree computes the average degree of consolidation
func (o Terzaghi) Degree(t float64) (U float64) {
	Tv := o.Tv(t)
	U = 1
	for i := 0; i < o.Nterm; i++ {
		m := math.Pi * float64(2*i+1) / 2
		U -= 2 / (m * m) * math.Exp(-m*m*Tv)
	}
	return
}

// Settlement computes the settlement of the top (positive downwards)
func (o Terzaghi) Settlement(t float64) float64 {
	sinst := o.H * (o.Q - o.Alp*o.U0) / o.M
	sfinal := o.H * o.Q / o.M
	return sinst + (sfinal-sinst)*o.Degree(t)
}
