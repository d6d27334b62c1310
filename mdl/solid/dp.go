// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/tsr"
)

// DruckerPrager implements an elastic model whose deviatoric stress is capped by
// the Drucker-Prager criterion q ≤ M・p + qc (no hardening, no plastic strains)
//  M  = 6 sinφ / (3 - sinφ)
//  qc = 6 c cosφ / (3 - sinφ)
type DruckerPrager struct {
	SmallElasticity
	C   float64 // cohesion
	Phi float64 // friction angle [deg]
	M   float64 // slope of yield line in p-q space
	Qc  float64 // q intercept
}

// add model to factory
func init() {
	allocators["dp"] = func() Model { return new(DruckerPrager) }
}

// Init initialises model
func (o *DruckerPrager) Init(prms dbf.Params) (err error) {
	err = o.SmallElasticity.Init(prms)
	if err != nil {
		return
	}
	for _, p := range prms {
		switch p.N {
		case "c":
			o.C = p.V
		case "phi":
			o.Phi = p.V
		}
	}
	if o.C < 0 || o.Phi < 0 || o.Phi >= 90 {
		return chk.Err("c and phi must satisfy c ≥ 0 and 0 ≤ phi < 90. (%g, %g) is invalid", o.C, o.Phi)
	}
	sφ := math.Sin(o.Phi * math.Pi / 180.0)
	cφ := math.Cos(o.Phi * math.Pi / 180.0)
	o.M = 6 * sφ / (3 - sφ)
	o.Qc = 6 * o.C * cφ / (3 - sφ)
	return
}

// GetPrms gets (an example) of parameters
func (o DruckerPrager) GetPrms() dbf.Params {
	return append(o.SmallElasticity.GetPrms(),
		&dbf.P{N: "c", V: 20e3},
		&dbf.P{N: "phi", V: 25},
	)
}

// Name returns the name of this model
func (o DruckerPrager) Name() string { return "dp" }

// Update computes the elastic trial stress and scales its deviator back to the yield surface
func (o DruckerPrager) Update(σ, σ0, ε []float64) (err error) {
	err = o.SmallElasticity.Update(σ, σ0, ε)
	if err != nil {
		return
	}
	p, q := o.Invs(σ)
	qmax := o.M*p + o.Qc
	if q <= qmax {
		return
	}

	// apex
	if qmax <= 0 {
		pa := 0.0
		if o.M > 0 {
			pa = -o.Qc / o.M
		}
		for i := 0; i < 3; i++ {
			σ[i] = pa
		}
		for i := 3; i < 6; i++ {
			σ[i] = 0
		}
		return
	}

	// scale deviator
	m := qmax / q
	for i := 0; i < 3; i++ {
		σ[i] = p + m*(σ[i]-p)
	}
	for i := 3; i < 6; i++ {
		σ[i] *= m
	}
	return
}

// Invs returns the mean stress p (compression positive) and the deviatoric stress q
func (o DruckerPrager) Invs(σ []float64) (p, q float64) {
	m := []float64{-σ[0], -σ[1], -σ[2], -σ[3] * math.Sqrt2, -σ[4] * math.Sqrt2, -σ[5] * math.Sqrt2}
	return tsr.M_p(m), tsr.M_q(m)
}
