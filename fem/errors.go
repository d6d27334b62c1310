// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/cpmech/gosl/io"

// Code classifies the errors of a simulation
type Code int

const (
	// IterationNonConvergence means that the coupling iterations did not reach the tolerance;
	// the step is retried with a smaller Δt
	IterationNonConvergence Code = iota + 1

	// TimeStepUnderflow means that Δt would fall below the minimum value; fatal
	TimeStepUnderflow

	// AdaptationFailure means that the mesh could not be adapted; the previous mesh is kept
	AdaptationFailure

	// PreconditionViolation means invalid input such as a degenerate mesh, non-finite
	// configuration or fields inconsistent with the mesh; fatal
	PreconditionViolation

	// SolverFailure means that the linear system of a sub-problem could not be solved; fatal
	SolverFailure
)

// String returns the name of the code
func (o Code) String() string {
	switch o {
	case IterationNonConvergence:
		return "IterationNonConvergence"
	case TimeStepUnderflow:
		return "TimeStepUnderflow"
	case AdaptationFailure:
		return "AdaptationFailure"
	case PreconditionViolation:
		return "PreconditionViolation"
	case SolverFailure:
		return "SolverFailure"
	}
	return io.Sf("Code(%d)", int(o))
}

// Error holds a fatal error of the time loop together with the solutions computed so far
type Error struct {
	Code    Code        // error code
	Msg     string      // message
	Time    float64     // time at the beginning of the failed step
	Dt      float64     // last Δt tried
	Shrinks int         // number of Δt reductions in the failed step
	History []*Snapshot // last known-good snapshots
}

// Error implements the error interface
func (o *Error) Error() string {
	return io.Sf("%v @ t=%g (Δt=%g, shrinks=%d): %s", o.Code, o.Time, o.Dt, o.Shrinks, o.Msg)
}

// newError returns a new Error
func newError(code Code, msg string, prm ...interface{}) *Error {
	return &Error{Code: code, Msg: io.Sf(msg, prm...)}
}
