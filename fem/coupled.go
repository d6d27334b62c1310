// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/goseep/ele"
	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/gosl/io"
)

// CouplingState holds the outcome of one coupled time step. A new state is returned by each
// call to CoupledSolver.Solve.
type CouplingState struct {
	Iterations int             // number of Picard iterations performed
	History    []float64       // residual after each iteration
	Residual   float64         // last residual; +Inf if no iteration was performed
	Fields     *ele.FieldState // fields at the end of the step
	Converged  bool            // residual < tol
	Accepted   bool            // step can be accepted
	Relaxed    bool            // accepted under the relaxed bound only
}

// CoupledSolver solves one time step by Picard iterations between seepage and stress
type CoupledSolver struct {
	Sim     *inp.Simulation // simulation data
	Seep    ele.FieldSolver // seepage sub-problem
	Stress  ele.FieldSolver // stress sub-problem
	ShowMsg bool            // show messages
}

// NewCoupledSolver returns a new coupled solver
func NewCoupledSolver(sim *inp.Simulation, verbose bool) (o *CoupledSolver, err error) {
	o = &CoupledSolver{Sim: sim, ShowMsg: verbose}
	o.Seep, err = ele.New("seepage", sim)
	if err != nil {
		return nil, newError(PreconditionViolation, "%v", err)
	}
	o.Stress, err = ele.New("stress", sim)
	if err != nil {
		return nil, newError(PreconditionViolation, "%v", err)
	}
	return
}

// Solve advances the fields prev from t to t+Δt. Each iteration k
//  1. solves the seepage problem with the displacements of iterate k fixed
//  2. relaxes the pressure:  p = ω・p + (1-ω)・pᵏ
//  3. solves the stress problem with the new pressure fixed
//  4. computes the residual between iterates k and k+1
// The step is accepted when the residual is smaller than the tolerance or, if RelaxedFactor > 0,
// when it is smaller than RelaxedFactor・tol after all iterations. NmaxIt = 0 gives a rejected
// state with residual = +Inf.
func (o *CoupledSolver) Solve(msh *inp.Mesh, bcs *ele.BCs, prev *ele.FieldState, t, Δt float64) (state CouplingState, err error) {

	// check
	if msh == nil || msh.Nverts() == 0 || msh.Ncells() == 0 {
		return state, newError(PreconditionViolation, "mesh must have vertices and cells")
	}
	if err = prev.Check(msh.Nverts()); err != nil {
		return state, newError(PreconditionViolation, "%v", err)
	}

	// auxiliary
	cfg := o.Sim.Coupling
	ω := cfg.Omega
	tnew := t + Δt
	it := prev.GetCopy()
	next := prev.GetCopy()
	state.Residual = math.Inf(1)
	state.Fields = it

	// iterations
	for k := 0; k < cfg.NmaxIt; k++ {

		// seepage
		err = o.Seep.Solve(msh, bcs, tnew, Δt, prev, it, next)
		if err != nil {
			return state, newError(SolverFailure, "seepage failed @ iteration %d:\n%v", k, err)
		}
		if ω < 1 {
			for i, p := range next.P {
				next.P[i] = ω*p + (1-ω)*it.P[i]
			}
		}

		// stress
		err = o.Stress.Solve(msh, bcs, tnew, Δt, prev, next, next)
		if err != nil {
			return state, newError(SolverFailure, "stress failed @ iteration %d:\n%v", k, err)
		}

		// residual
		r := Residual(it, next)
		it.Set(next)
		state.Iterations = k + 1
		state.Residual = r
		state.History = append(state.History, r)
		if o.ShowMsg {
			io.Pf("%13.6e%4d%23.15e\n", tnew, k, r)
		}
		if r < cfg.Tol {
			state.Converged = true
			state.Accepted = true
			return
		}
	}

	// relaxed acceptance
	if cfg.RelaxedFactor > 0 && state.Residual < cfg.RelaxedFactor*cfg.Tol {
		state.Accepted = true
		state.Relaxed = true
	}
	return
}
