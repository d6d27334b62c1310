// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/gosl/chk"
)

// FieldSolver solves one physics sub-problem on a mesh while the counterpart field is held fixed
//  prev  -- converged fields at the beginning of the time step
//  fixed -- current iterate providing the counterpart field
//  next  -- output; the solver writes only the arrays of its own physics
type FieldSolver interface {
	Init(sim *inp.Simulation) error
	Solve(msh *inp.Mesh, bcs *BCs, t, Δt float64, prev, fixed, next *FieldState) error
}

// New returns a new field solver from factory
func New(name string, sim *inp.Simulation) (o FieldSolver, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("cannot find field solver named %q", name)
	}
	o = allocator()
	err = o.Init(sim)
	if err != nil {
		return nil, chk.Err("cannot initialise field solver %q:\n%v", name, err)
	}
	return
}

// SetAllocator sets a new function to allocate field solvers
func SetAllocator(name string, fcn func() FieldSolver) {
	if _, ok := allocators[name]; ok {
		chk.Panic("cannot set allocator for field solver %q because it exists already", name)
	}
	allocators[name] = fcn
}

// allocators holds all available field solvers; name => allocator
var allocators = map[string]func() FieldSolver{}
