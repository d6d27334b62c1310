// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package adp implements the mesh adaptation engine: error estimation, conforming bisection
// of simplices and coarsening of refined lines
package adp

import (
	"context"
	"runtime"

	"github.com/cpmech/goseep/ele"
	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/gosl/chk"
)

// Action specifies whether a cell should be split, combined with its neighbour, or left alone
type Action int

const (
	// Keep leaves the cell alone
	Keep Action = iota
	// Split bisects the longest edge of the cell
	Split
	// Combine merges the cell with its collinear neighbour
	Combine
)

// Stats holds adaptation statistics
type Stats struct {
	Refined            int     // number of cells of the previous mesh that were split
	Coarsened          int     // number of pairs of cells merged into one
	QualityImprovement float64 // mean quality of new mesh minus mean quality of previous mesh
}

// Result holds the output of an adaptation
type Result struct {
	Success bool           // a new mesh was generated
	Reason  string         // why no mesh was generated
	Mesh    *inp.Mesh      // new mesh; nil if !Success
	Parents [][]ele.Parent // [nverts of new mesh] vertices of previous mesh and weights for projection
	Actions []Action       // [ncells of previous mesh] action applied to each cell
	Est     *Estimate      // error estimate used to decide the actions
	Stats   Stats          // statistics
}

// Engine implements the mesh adaptation engine
type Engine struct {
	Cfg      inp.AdaptData // configuration
	Nworkers int           // number of goroutines used to estimate errors
	ShowMsg  bool          // show messages
}

// NewEngine returns a new adaptation engine
func NewEngine(cfg inp.AdaptData, verbose bool) (o *Engine) {
	return &Engine{Cfg: cfg, Nworkers: runtime.GOMAXPROCS(0), ShowMsg: verbose}
}

// Adapt refines and coarsens the mesh according to the error estimate of the given fields.
// The previous mesh is not modified.
func (o *Engine) Adapt(ctx context.Context, msh *inp.Mesh, fields *ele.FieldState) (res *Result, err error) {

	// check
	if err = ctx.Err(); err != nil {
		return
	}
	if err = fields.Check(msh.Nverts()); err != nil {
		return nil, chk.Err("adapt: fields are inconsistent with mesh:\n%v", err)
	}

	// estimate
	res = new(Result)
	res.Est, err = o.Estimate(ctx, msh, fields)
	if err != nil {
		return nil, err
	}

	// decide
	marked := o.mark(msh, res.Est)
	pairs := o.pairs(msh, res.Est, marked)
	if len(marked) == 0 && len(pairs) == 0 {
		res.Reason = "no cells were marked for refinement or coarsening"
		return
	}

	// build new mesh
	var b builder
	res.Mesh, res.Parents, res.Actions, err = b.build(msh, marked, pairs)
	if err != nil {
		res.Reason = err.Error()
		return res, nil
	}
	for _, a := range res.Actions {
		if a == Split {
			res.Stats.Refined++
		}
	}
	res.Stats.Coarsened = len(pairs)
	res.Stats.QualityImprovement = res.Mesh.Quality.Mean - msh.Quality.Mean
	res.Success = true
	return
}
