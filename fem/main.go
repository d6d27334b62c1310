// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the coupled seepage-stress time stepping with adaptive meshing
package fem

import (
	"context"
	"errors"
	"iter"
	"sync"
	"time"

	"github.com/cpmech/goseep/adp"
	"github.com/cpmech/goseep/ele"
	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// ProgressFunc is called after each accepted step with the percentage of simulated time
type ProgressFunc func(percent float64, snap *Snapshot)

// Adapter adapts meshes to the current solution
type Adapter interface {
	Estimate(ctx context.Context, msh *inp.Mesh, fields *ele.FieldState) (*adp.Estimate, error)
	Adapt(ctx context.Context, msh *inp.Mesh, fields *ele.FieldState) (*adp.Result, error)
}

// Main holds all data for a simulation
type Main struct {
	Sim     *inp.Simulation // simulation data
	Solver  *CoupledSolver  // coupled step solver
	DtCtrl  *DtControl      // time step controller
	Adapter Adapter         // mesh adaptation engine
	ShowMsg bool            // show messages

	mu     sync.Mutex         // protects cancel
	cancel context.CancelFunc // cancels the run in progress
}

// NewMain returns a new Main structure
//  Input:
//   sim     -- simulation data
//   verbose -- show messages
func NewMain(sim *inp.Simulation, verbose bool) (o *Main, err error) {
	if err = sim.Validate(); err != nil {
		return nil, newError(PreconditionViolation, "%v", err)
	}
	o = &Main{Sim: sim, ShowMsg: verbose}
	o.Solver, err = NewCoupledSolver(sim, false)
	if err != nil {
		return nil, err
	}
	o.DtCtrl = NewDtControl(sim)
	o.Adapter = adp.NewEngine(sim.Adapt, false)
	if o.ShowMsg {
		io.Pf("> Simulation data read\n")
	}
	return
}

// Run runs the simulation from the state at rest of msh until Tf. It returns all snapshots and
// nil if the context is cancelled; the step in progress is completed before returning.
// On fatal errors, the returned *Error holds the snapshots as well.
func (o *Main) Run(ctx context.Context, msh *inp.Mesh, bcs *ele.BCs, onProgress ProgressFunc) (history []*Snapshot, err error) {

	// exit commands
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()

	// message
	if o.ShowMsg {
		io.Pf("> Running time loop\n")
	}

	// loop
	for snap, e := range o.Steps(ctx, msh, bcs) {
		if e != nil {
			var fe *Error
			if errors.As(e, &fe) {
				history = fe.History
			}
			return history, e
		}
		history = append(history, snap)
		if onProgress != nil {
			onProgress(100*snap.Time/o.Sim.Control.Tf, snap)
		}
	}
	return
}

// Stop cancels the run in progress
func (o *Main) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
	}
}

// Steps returns an iterator over the snapshots of accepted steps. A fatal error is yielded as
// the last element together with a nil snapshot. Iteration stops when the context is cancelled.
func (o *Main) Steps(ctx context.Context, msh *inp.Mesh, bcs *ele.BCs) iter.Seq2[*Snapshot, error] {
	return func(yield func(*Snapshot, error) bool) {

		// cancellation
		msh := msh
		ctx, cancel := context.WithCancel(ctx)
		o.mu.Lock()
		o.cancel = cancel
		o.mu.Unlock()
		defer cancel()

		// check
		if msh == nil || msh.Nverts() == 0 || msh.Ncells() == 0 {
			yield(nil, newError(PreconditionViolation, "mesh must have vertices and cells"))
			return
		}

		// auxiliary
		ctrl := o.Sim.Control
		tf := ctrl.Tf
		t, dt := 0.0, o.DtCtrl.clamp(ctrl.Dt)
		fields := ele.InitialState(msh, o.Sim)
		var history []*Snapshot
		fatal := func(e error, t, dt float64, shrinks int) {
			var fe *Error
			if !errors.As(e, &fe) {
				fe = newError(SolverFailure, "%v", e)
			}
			fe.Time, fe.Dt, fe.Shrinks, fe.History = t, dt, shrinks, history
			if o.ShowMsg {
				io.PfRed("%v\n", fe)
			}
			yield(nil, fe)
		}

		// time loop
		naccepted := 0
		for t < tf-1e-10*tf {

			// cancelled
			if ctx.Err() != nil {
				if o.ShowMsg {
					io.Pfyel("> Cancelled @ t=%g\n", t)
				}
				return
			}

			// attempts
			Δt := o.trialDt(dt, tf-t)
			attempts, shrinks := 0, 0
			var state CouplingState
			for {
				attempts++
				var err error
				state, err = o.Solver.Solve(msh, bcs, fields, t, Δt)
				if err != nil {
					fatal(err, t, Δt, shrinks)
					return
				}
				if state.Accepted {
					break
				}
				if o.ShowMsg {
					io.Pfyel("> %v @ t=%g with Δt=%g (residual=%g)\n", IterationNonConvergence, t, Δt, state.Residual)
				}
				var underflow bool
				Δt, underflow = o.DtCtrl.Shrink(Δt)
				shrinks++
				if underflow {
					fatal(newError(TimeStepUnderflow, "Δt=%g is smaller than DtMin=%g", Δt, o.DtCtrl.DtMin), t, Δt, shrinks)
					return
				}
			}
			naccepted++

			// adaptation
			var info *AdaptInfo
			msh, state, info = o.adapt(context.WithoutCancel(ctx), msh, bcs, fields, state, t, Δt, naccepted)

			// record
			tnew := t + Δt
			if tnew > tf-1e-10*tf {
				tnew = tf
			}
			snap := newSnapshot(len(history), tnew, Δt, msh, state, attempts, shrinks, info)
			history = append(history, snap)
			fields = state.Fields
			if !yield(snap, nil) {
				return
			}

			// next step
			t = tnew
			dt = o.DtCtrl.Next(Δt, state.History)
		}
	}
}

// trialDt returns the trial Δt given the controller proposal dt and the remaining time rem.
// The remainder left for the next step is never shorter than DtMin: the whole of rem is taken
// if it fits within DtMax; otherwise rem is split in two.
func (o *Main) trialDt(dt, rem float64) (Δt float64) {
	Δt = utl.Min(dt, rem)
	if left := rem - Δt; left > 0 && left < o.DtCtrl.DtMin {
		if rem <= o.DtCtrl.DtMax {
			return rem
		}
		return utl.Max(rem/2, o.DtCtrl.DtMin)
	}
	return
}

// onexit prints final message with cpu time
func (o *Main) onexit(cputime time.Time, prevErr error) (err error) {
	o.mu.Lock()
	o.cancel = nil
	o.mu.Unlock()
	if o.ShowMsg {
		if prevErr == nil {
			io.PfGreen("> Success\n")
			io.Pf("> CPU time = %v\n", time.Now().Sub(cputime))
		} else {
			io.PfRed("> Failed\n")
		}
	}
	return prevErr
}
