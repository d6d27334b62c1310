// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cpmech/goseep/adp"
	"github.com/cpmech/goseep/ele"
	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// stopper stops the analysis when the first estimate is requested
type stopper struct {
	Adapter
	m       *Main
	stopped bool
}

func (o *stopper) Estimate(ctx context.Context, msh *inp.Mesh, fields *ele.FieldState) (*adp.Estimate, error) {
	if !o.stopped {
		o.stopped = true
		o.m.Stop()
	}
	return o.Adapter.Estimate(ctx, msh, fields)
}

// brokenAdapter fails to generate meshes
type brokenAdapter struct {
	Adapter
	err error // returned by Adapt; nil gives an unsuccessful result
}

func (o *brokenAdapter) Adapt(ctx context.Context, msh *inp.Mesh, fields *ele.FieldState) (*adp.Result, error) {
	if o.err != nil {
		return nil, o.err
	}
	return &adp.Result{Reason: "nothing to do"}, nil
}

// unstableOnAdapted prevents convergence on adapted meshes by drifting the pressure at
// every iteration; with fail, it returns an error instead
type unstableOnAdapted struct {
	ele.FieldSolver
	fail bool
	k    int
}

func (o *unstableOnAdapted) Solve(msh *inp.Mesh, bcs *ele.BCs, t, Δt float64, prev, fixed, next *ele.FieldState) error {
	err := o.FieldSolver.Solve(msh, bcs, t, Δt, prev, fixed, next)
	if err != nil || msh.Generation == 0 {
		return err
	}
	if o.fail {
		return errors.New("singular system")
	}
	o.k++
	for i := range next.P {
		next.P[i] += float64(o.k)
	}
	return nil
}

// forcedAdaptation returns a simulation adapting every accepted step of a column at rest
func forcedAdaptation(tst *testing.T, nsteps int) (sim *inp.Simulation, msh *inp.Mesh) {
	sim = inp.NewSimulation()
	sim.Control.Tf = float64(nsteps) * 3600
	sim.Control.Dt = 3600
	sim.Control.DtMax = 3600
	sim.Adapt.Interval = 1
	sim.Adapt.ErrorThr = -1
	sim.Adapt.GradThr = -1
	msh, err := inp.NewColumn(10, 2)
	if err != nil {
		tst.Fatalf("cannot generate mesh:\n%v", err)
	}
	return
}

func Test_adapt01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("adapt01. triggers")

	sim := inp.NewSimulation()
	msh, err := inp.NewColumn(10, 2)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	analysis, err := NewMain(sim, false)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	ok := CouplingState{Converged: true, Accepted: true, Residual: 1e-9}
	small := &adp.Estimate{Max: 0.01}

	// nothing to do
	chk.String(tst, analysis.shouldAdapt(msh, small, ok), "")

	// quality
	sim.Adapt.QualityThr = 2
	if trigger := analysis.shouldAdapt(msh, small, ok); !strings.HasPrefix(trigger, "quality") {
		tst.Errorf("quality should trigger adaptation. trigger = %q", trigger)
	}
	sim.Adapt.QualityThr = 0.3

	// error
	if trigger := analysis.shouldAdapt(msh, &adp.Estimate{Max: 0.5}, ok); !strings.HasPrefix(trigger, "error") {
		tst.Errorf("error estimate should trigger adaptation. trigger = %q", trigger)
	}

	// relaxed residual
	relaxed := CouplingState{Accepted: true, Relaxed: true, Residual: 1e-4}
	if trigger := analysis.shouldAdapt(msh, small, relaxed); !strings.HasPrefix(trigger, "relaxed") {
		tst.Errorf("relaxed residual should trigger adaptation. trigger = %q", trigger)
	}
	relaxed.Residual = 5e-6
	chk.String(tst, analysis.shouldAdapt(msh, small, relaxed), "")
}

func Test_adapt02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("adapt02. quality and relaxed residual triggers during a run")

	// quality
	sim, msh := forcedAdaptation(tst, 1)
	sim.Adapt.ErrorThr = 1e9
	sim.Adapt.QualityThr = 2
	analysis, err := NewMain(sim, chk.Verbose)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	history, err := analysis.Run(context.Background(), msh, nil, nil)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	chk.Int(tst, "number of snapshots", len(history), 1)
	info := history[0].Adapt
	if info == nil || !info.Adapted || !strings.HasPrefix(info.Trigger, "quality") {
		tst.Errorf("mesh should be adapted due to quality: %+v", info)
	}

	// quality is fine
	sim.Adapt.QualityThr = 0
	history, err = analysis.Run(context.Background(), msh, nil, nil)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	if history[0].Adapt != nil {
		tst.Errorf("mesh should not be adapted: %+v", history[0].Adapt)
	}

	// relaxed residual
	sim, msh, bcs := loadedColumn(tst, 10, 2, -1e4)
	sim.Control.Tf = 3600
	sim.Control.Dt = 3600
	sim.Coupling.NmaxIt = 1
	sim.Coupling.RelaxedFactor = 1e20
	sim.Adapt.Interval = 1
	sim.Adapt.ErrorThr = 1e9
	sim.Adapt.QualityThr = 0
	sim.Adapt.GradThr = -1
	analysis, err = NewMain(sim, chk.Verbose)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	history, err = analysis.Run(context.Background(), msh, bcs, nil)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	chk.Int(tst, "number of snapshots", len(history), 1)
	if !history[0].Relaxed {
		tst.Errorf("step should be accepted under the relaxed bound")
	}
	info = history[0].Adapt
	if info == nil || !info.Adapted || !strings.HasPrefix(info.Trigger, "relaxed") {
		tst.Errorf("mesh should be adapted due to the relaxed residual: %+v", info)
	}

	// relaxed residual below threshold
	sim.Coupling.ResidFactor = 1e20
	history, err = analysis.Run(context.Background(), msh, bcs, nil)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	if history[0].Adapt != nil {
		tst.Errorf("mesh should not be adapted: %+v", history[0].Adapt)
	}
}

func Test_adapt03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("adapt03. interval")

	sim, msh := forcedAdaptation(tst, 4)
	sim.Adapt.Interval = 2
	analysis, err := NewMain(sim, chk.Verbose)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	history, err := analysis.Run(context.Background(), msh, nil, nil)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	chk.Int(tst, "number of snapshots", len(history), 4)
	generations := make([]int, len(history))
	for i, s := range history {
		generations[i] = s.Mesh.Generation
		attempted := s.Adapt != nil
		if attempted != (i%2 == 1) {
			tst.Errorf("step %d: adaptation attempted = %v is incorrect", i, attempted)
		}
	}
	chk.Ints(tst, "generations", generations, []int{0, 1, 1, 2})
}

func Test_adapt04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("adapt04. failures keep the previous mesh")

	check := func(label string, history []*Snapshot, msh *inp.Mesh, nsteps, failures int, reason string) {
		chk.Int(tst, label+": number of snapshots", len(history), nsteps)
		for i, s := range history {
			if s.Adapt == nil || s.Adapt.Adapted {
				tst.Errorf("%s: step %d: adaptation should be attempted and fail: %+v", label, i, s.Adapt)
				continue
			}
			chk.Int(tst, io.Sf("%s: failures %d", label, i), s.Adapt.Failures, failures)
			if !strings.Contains(s.Adapt.Reason, reason) {
				tst.Errorf("%s: step %d: reason %q should contain %q", label, i, s.Adapt.Reason, reason)
			}
			if s.Msh != msh || s.Mesh.Generation != 0 {
				tst.Errorf("%s: step %d: previous mesh should be kept", label, i)
			}
			if err := s.Fields.Check(msh.Nverts()); err != nil {
				tst.Errorf("%s: step %d: fields are inconsistent:\n%v", label, i, err)
			}
			if !s.Converged {
				tst.Errorf("%s: step %d: solution on previous mesh should be kept", label, i)
			}
		}
	}

	// engine error
	sim, msh := forcedAdaptation(tst, 2)
	analysis, err := NewMain(sim, chk.Verbose)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	analysis.Adapter = &brokenAdapter{Adapter: analysis.Adapter, err: errors.New("out of memory")}
	history, err := analysis.Run(context.Background(), msh, nil, nil)
	if err != nil {
		tst.Errorf("adaptation failures should not be fatal:\n%v", err)
		return
	}
	check("engine error", history, msh, 2, 1, "out of memory")
	rep := NewReport(history)
	chk.Int(tst, "report: failures", rep.AdaptFailures, 2)

	// unsuccessful engine
	analysis.Adapter = &brokenAdapter{Adapter: analysis.Adapter.(*brokenAdapter).Adapter}
	history, err = analysis.Run(context.Background(), msh, nil, nil)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	check("unsuccessful engine", history, msh, 2, 0, "nothing to do")

	// solution on adapted mesh is not accepted
	sim, msh = forcedAdaptation(tst, 2)
	analysis, err = NewMain(sim, chk.Verbose)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	analysis.Solver.Seep = &unstableOnAdapted{FieldSolver: analysis.Solver.Seep}
	history, err = analysis.Run(context.Background(), msh, nil, nil)
	if err != nil {
		tst.Errorf("adaptation failures should not be fatal:\n%v", err)
		return
	}
	check("not accepted", history, msh, 2, 1, "not accepted")

	// solver fails on adapted mesh
	analysis.Solver.Seep = &unstableOnAdapted{FieldSolver: analysis.Solver.Seep.(*unstableOnAdapted).FieldSolver, fail: true}
	history, err = analysis.Run(context.Background(), msh, nil, nil)
	if err != nil {
		tst.Errorf("adaptation failures should not be fatal:\n%v", err)
		return
	}
	check("solver failure", history, msh, 2, 1, "singular system")
}

func Test_adapt05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("adapt05. stop requested during a step")

	sim, msh := forcedAdaptation(tst, 3)
	analysis, err := NewMain(sim, chk.Verbose)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	analysis.Adapter = &stopper{Adapter: analysis.Adapter, m: analysis}
	history, err := analysis.Run(context.Background(), msh, nil, nil)
	if err != nil {
		tst.Errorf("stop should not be an error:\n%v", err)
		return
	}
	chk.Int(tst, "number of snapshots", len(history), 1)
	info := history[0].Adapt
	if info == nil || !info.Adapted || info.Failures != 0 {
		tst.Errorf("step in progress should be completed with its adaptation: %+v", info)
		return
	}
	chk.Int(tst, "generation", history[0].Mesh.Generation, 1)
	chk.String(tst, NewSummary(sim, history, nil).Status, "cancelled")
}
