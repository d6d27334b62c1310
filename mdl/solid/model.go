// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package solid implements models for the solid skeleton under small strains.
//  Sign convention: stresses are positive in compression (geomechanics) whereas
//  strains are positive in extension. Tensors are stored as [xx, yy, zz, xy, yz, zx].
package solid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Model defines the interface for solid models
type Model interface {
	Init(prms dbf.Params) error          // initialises model
	GetPrms() dbf.Params                 // gets (an example) of parameters
	GetRho() float64                     // returns saturated density
	Oedometric() float64                 // returns the constrained (oedometric) modulus M at rest
	Update(σ, σ0, ε []float64) error     // computes σ = σ0 + Δσ(ε) for total strain ε measured from σ0
	Lame() (λ, G float64)                // returns elastic Lamé constants
	Name() string                        // returns the name of this model
}

// New returns new solid model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'solid' database", name)
	}
	return allocator(), nil
}

// allocators holds all available solid models; modelname => allocator
var allocators = map[string]func() Model{}
