// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// SmallElasticity implements linear elasticity for small strains
type SmallElasticity struct {
	E   float64 // Young's modulus
	Nu  float64 // Poisson's coefficient
	Rho float64 // saturated density
	λ   float64 // Lamé's first parameter
	G   float64 // shear modulus
}

// add model to factory
func init() {
	allocators["elast"] = func() Model { return new(SmallElasticity) }
}

// Init initialises model
func (o *SmallElasticity) Init(prms dbf.Params) (err error) {
	for _, p := range prms {
		switch p.N {
		case "E":
			o.E = p.V
		case "nu":
			o.Nu = p.V
		case "rho":
			o.Rho = p.V
		}
	}
	if o.E < 0 {
		return chk.Err("E must be non-negative. %g is invalid", o.E)
	}
	if o.Nu < 0 || o.Nu >= 0.5 {
		return chk.Err("nu must be in [0, 0.5). %g is invalid", o.Nu)
	}
	o.λ = o.E * o.Nu / ((1 + o.Nu) * (1 - 2*o.Nu))
	o.G = o.E / (2 * (1 + o.Nu))
	return
}

// GetPrms gets (an example) of parameters
func (o SmallElasticity) GetPrms() dbf.Params {
	return dbf.Params{
		&dbf.P{N: "E", V: 25e6},
		&dbf.P{N: "nu", V: 0.3},
		&dbf.P{N: "rho", V: 1800},
	}
}

// GetRho returns density
func (o SmallElasticity) GetRho() float64 { return o.Rho }

// Name returns the name of this model
func (o SmallElasticity) Name() string { return "elast" }

// Lame returns the Lamé constants
func (o SmallElasticity) Lame() (λ, G float64) { return o.λ, o.G }

// Oedometric returns the constrained modulus M = λ + 2G
func (o SmallElasticity) Oedometric() float64 { return o.λ + 2*o.G }

// Update computes σ = σ0 - D:ε (compression positive)
func (o SmallElasticity) Update(σ, σ0, ε []float64) (err error) {
	if len(σ) != 6 || len(σ0) != 6 || len(ε) != 6 {
		return chk.Err("stress and strain tensors must have 6 components")
	}
	trε := ε[0] + ε[1] + ε[2]
	for i := 0; i < 3; i++ {
		σ[i] = σ0[i] - (o.λ*trε + 2*o.G*ε[i])
	}
	for i := 3; i < 6; i++ {
		σ[i] = σ0[i] - 2*o.G*ε[i]
	}
	return
}
