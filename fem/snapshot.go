// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/goseep/ele"
	"github.com/cpmech/goseep/inp"
)

// MeshStats holds statistics of the mesh used in a step
type MeshStats struct {
	Generation int              `json:"generation"` // generation tag
	Nverts     int              `json:"nverts"`     // number of vertices
	Ncells     int              `json:"ncells"`     // number of cells
	Quality    inp.QualityStats `json:"quality"`    // aggregate quality
}

// AdaptInfo holds information about the mesh adaptation attempted after a step
type AdaptInfo struct {
	Trigger            string  `json:"trigger"`            // reason the adaptation was attempted
	Cycles             int     `json:"cycles"`             // number of cycles attempted
	Adapted            bool    `json:"adapted"`            // the mesh was replaced
	Failures           int     `json:"failures"`           // number of failed cycles
	Reason             string  `json:"reason"`             // message of the last failure
	Refined            int     `json:"refined"`            // number of cells split
	Coarsened          int     `json:"coarsened"`          // number of pairs of cells merged
	QualityImprovement float64 `json:"qualityimprovement"` // change of mean quality
	ErrorEstimate      float64 `json:"errorestimate"`      // max error indicator before adaptation
}

// Snapshot holds the solution of an accepted step. Snapshots are never modified.
type Snapshot struct {
	Step       int             `json:"step"`       // step index
	Time       float64         `json:"time"`       // time at the end of the step
	Dt         float64         `json:"dt"`         // Δt of the step
	Mesh       MeshStats       `json:"mesh"`       // mesh statistics
	Msh        *inp.Mesh       `json:"-"`          // mesh the fields belong to
	Fields     *ele.FieldState `json:"-"`          // copy of fields
	Iterations int             `json:"iterations"` // number of coupling iterations of the accepted attempt
	History    []float64       `json:"history"`    // residuals of the accepted attempt
	Residual   float64         `json:"residual"`   // last residual
	Converged  bool            `json:"converged"`  // residual < tol
	Relaxed    bool            `json:"relaxed"`    // accepted under the relaxed bound
	Attempts   int             `json:"attempts"`   // number of attempts including the accepted one
	Shrinks    int             `json:"shrinks"`    // number of Δt reductions
	Adapt      *AdaptInfo      `json:"adapt"`      // adaptation info; nil if not attempted
}

// newSnapshot records the state of an accepted step
func newSnapshot(step int, t, Δt float64, msh *inp.Mesh, state CouplingState, attempts, shrinks int, info *AdaptInfo) *Snapshot {
	return &Snapshot{
		Step: step,
		Time: t,
		Dt:   Δt,
		Mesh: MeshStats{
			Generation: msh.Generation,
			Nverts:     msh.Nverts(),
			Ncells:     msh.Ncells(),
			Quality:    msh.Quality,
		},
		Msh:        msh,
		Fields:     state.Fields.GetCopy(),
		Iterations: state.Iterations,
		History:    append([]float64{}, state.History...),
		Residual:   state.Residual,
		Converged:  state.Converged,
		Relaxed:    state.Relaxed,
		Attempts:   attempts,
		Shrinks:    shrinks,
		Adapt:      info,
	}
}
