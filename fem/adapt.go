// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"context"

	"github.com/cpmech/goseep/adp"
	"github.com/cpmech/goseep/ele"
	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/gosl/io"
)

// shouldAdapt returns a description of the condition requiring adaptation or "" if the mesh
// and the last step are fine
func (o *Main) shouldAdapt(msh *inp.Mesh, est *adp.Estimate, state CouplingState) (trigger string) {
	cfg := o.Sim.Adapt
	cpl := o.Sim.Coupling
	switch {
	case msh.Quality.Mean < cfg.QualityThr:
		return io.Sf("quality %g < %g", msh.Quality.Mean, cfg.QualityThr)
	case est != nil && est.Max > cfg.ErrorThr:
		return io.Sf("error %g > %g", est.Max, cfg.ErrorThr)
	case state.Relaxed && state.Residual > cpl.ResidFactor*cpl.Tol:
		return io.Sf("relaxed residual %g > %g", state.Residual, cpl.ResidFactor*cpl.Tol)
	}
	return ""
}

// adapt runs up to MaxCycles adaptation cycles after an accepted step. For each successful
// cycle, the fields at the beginning of the step are projected onto the new mesh and the step
// is solved again; the new mesh is only kept if this solution is accepted.
// Failures are never fatal: the previous mesh and state are returned instead.
func (o *Main) adapt(ctx context.Context, msh *inp.Mesh, bcs *ele.BCs, prev *ele.FieldState, state CouplingState, t, Δt float64, naccepted int) (*inp.Mesh, CouplingState, *AdaptInfo) {

	// skip
	cfg := o.Sim.Adapt
	if cfg.Off || o.Adapter == nil || cfg.MaxCycles < 1 || naccepted%cfg.Interval != 0 {
		return msh, state, nil
	}

	// cycles
	var info *AdaptInfo
	for cycle := 0; cycle < cfg.MaxCycles; cycle++ {

		// trigger
		est, err := o.Adapter.Estimate(ctx, msh, state.Fields)
		if err != nil {
			info = o.failure(info, "", err.Error())
			break
		}
		trigger := o.shouldAdapt(msh, est, state)
		if trigger == "" {
			break
		}
		if info == nil {
			info = &AdaptInfo{Trigger: trigger, ErrorEstimate: est.Max}
		}
		info.Cycles++

		// new mesh
		res, err := o.Adapter.Adapt(ctx, msh, state.Fields)
		if err != nil {
			info = o.failure(info, trigger, err.Error())
			break
		}
		if !res.Success {
			info.Reason = res.Reason
			if o.ShowMsg {
				io.Pfyel("> Adaptation skipped @ t=%g: %s\n", t+Δt, res.Reason)
			}
			break
		}

		// solve step again on new mesh
		proj, err := prev.Project(res.Parents)
		if err != nil {
			info = o.failure(info, trigger, err.Error())
			break
		}
		newState, err := o.Solver.Solve(res.Mesh, bcs, proj, t, Δt)
		if err != nil {
			info = o.failure(info, trigger, err.Error())
			break
		}
		if !newState.Accepted {
			info = o.failure(info, trigger, io.Sf("solution on adapted mesh was not accepted (residual=%g)", newState.Residual))
			break
		}

		// swap mesh
		if o.ShowMsg {
			io.Pf("> Mesh adapted @ t=%g (%s): generation=%d nverts=%d ncells=%d\n", t+Δt, trigger, res.Mesh.Generation, res.Mesh.Nverts(), res.Mesh.Ncells())
		}
		msh, state, prev = res.Mesh, newState, proj
		info.Adapted = true
		info.Refined += res.Stats.Refined
		info.Coarsened += res.Stats.Coarsened
		info.QualityImprovement += res.Stats.QualityImprovement
	}
	return msh, state, info
}

// failure records a failed adaptation cycle
func (o *Main) failure(info *AdaptInfo, trigger, msg string) *AdaptInfo {
	if info == nil {
		info = &AdaptInfo{Trigger: trigger}
	}
	info.Failures++
	info.Reason = msg
	if o.ShowMsg {
		io.Pfyel("> %v: %s\n", AdaptationFailure, msg)
	}
	return info
}
