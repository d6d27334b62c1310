// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/gosl/utl"
)

// DtControl implements the adaptive time step controller
type DtControl struct {
	Tol     float64 // tolerance of coupling residual
	DtMin   float64 // min Δt
	DtMax   float64 // max Δt
	Mgrow   float64 // growth multiplier
	Mshrink float64 // reduction multiplier
}

// NewDtControl returns a new controller
func NewDtControl(sim *inp.Simulation) *DtControl {
	return &DtControl{
		Tol:     sim.Coupling.Tol,
		DtMin:   sim.Control.DtMin,
		DtMax:   sim.Control.DtMax,
		Mgrow:   sim.Control.Grow,
		Mshrink: sim.Control.Shrink,
	}
}

// Next returns the trial Δt of the next step from the residual history of the last step.
//  r < 0.1・tol  -- grow
//  r > tol      -- shrink
//  otherwise    -- hold
// The result is always within [DtMin, DtMax]; an empty history holds Δt.
func (o *DtControl) Next(dt float64, history []float64) float64 {
	if len(history) > 0 {
		r := history[len(history)-1]
		switch {
		case r < 0.1*o.Tol:
			dt = utl.Min(dt*o.Mgrow, o.DtMax)
		case !(r <= o.Tol):
			dt = utl.Max(dt*o.Mshrink, o.DtMin)
		}
	}
	return o.clamp(dt)
}

// Shrink reduces Δt after a rejected step. underflow indicates that the reduced Δt is
// smaller than DtMin and no further attempt should be made.
func (o *DtControl) Shrink(dt float64) (dtNew float64, underflow bool) {
	dtNew = dt * o.Mshrink
	if dtNew < o.DtMin {
		return dtNew, true
	}
	return o.clamp(dtNew), false
}

func (o *DtControl) clamp(dt float64) float64 {
	return utl.Min(utl.Max(dt, o.DtMin), o.DtMax)
}
