// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adp

import (
	"context"
	"math"

	"github.com/cpmech/goseep/ele"
	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/gosl/utl"
	"golang.org/x/sync/errgroup"
)

// Estimate holds the error indicators of all cells
type Estimate struct {
	Cells []float64 // [ncells] error indicator of each cell
	Max   float64   // largest indicator; the aggregate field-gradient error
	Mean  float64   // mean indicator
}

// field selects one nodal component of a FieldState
type field struct {
	vals   []float64 // nodal values
	stride int       // number of values per vertex
	comp   int       // component
	scale  float64   // normalisation factor; zero means the field is skipped
	grads  [][3]float64
}

// Estimate computes the error indicator of each cell. The indicator measures how far each edge
// increment of a field departs from the recovered nodal gradient, normalised by the field range:
//
//   η = max over edges (i,j) and fields f of |f_j - f_i - ∇f_i・(x_j - x_i)| / range(f)
//
// Fields are ux, uy, uz, the vertical effective stress and the pore pressure.
// Linear fields give η = 0.
func (o *Engine) Estimate(ctx context.Context, msh *inp.Mesh, fields *ele.FieldState) (est *Estimate, err error) {

	// fields
	nv := msh.Nverts()
	if err = fields.Check(nv); err != nil {
		return
	}
	flds := []*field{
		{vals: fields.U, stride: 3, comp: 0},
		{vals: fields.U, stride: 3, comp: 1},
		{vals: fields.U, stride: 3, comp: 2},
		{vals: fields.Sig, stride: 6, comp: msh.Elev},
		{vals: fields.P, stride: 1, comp: 0},
	}
	umax := maxAbs(fields.U, 1, 0)
	for k, f := range flds {
		ref := umax
		if k > 2 {
			ref = maxAbs(f.vals, f.stride, f.comp)
		}
		rng := valRange(f.vals, f.stride, f.comp, nv)
		if rng > 1e-8*ref {
			f.scale = 1.0 / rng
		}
	}

	// recover gradients
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range flds {
		if f.scale == 0 {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f.grads = ele.Gradients(msh, f.vals, f.stride, f.comp)
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return
	}

	// indicators of cells in chunks
	nc := msh.Ncells()
	est = &Estimate{Cells: make([]float64, nc)}
	nw := max(1, min(o.Nworkers, nc))
	chunk := (nc + nw - 1) / nw
	g, gctx = errgroup.WithContext(ctx)
	for start := 0; start < nc; start += chunk {
		end := min(start+chunk, nc)
		g.Go(func() error {
			for cid := start; cid < end; cid++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				est.Cells[cid] = cellIndicator(msh, cid, flds)
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	// aggregate
	for _, η := range est.Cells {
		est.Max = utl.Max(est.Max, η)
		est.Mean += η
	}
	est.Mean /= float64(nc)
	return
}

// cellIndicator computes the indicator of one cell
func cellIndicator(msh *inp.Mesh, cid int, flds []*field) (η float64) {
	for _, e := range msh.CellEdges(cid) {
		xa, xb := msh.X(e.A), msh.X(e.B)
		d := [3]float64{xb[0] - xa[0], xb[1] - xa[1], xb[2] - xa[2]}
		for _, f := range flds {
			if f.scale == 0 {
				continue
			}
			Δf := f.vals[f.stride*e.B+f.comp] - f.vals[f.stride*e.A+f.comp]
			ga, gb := f.grads[e.A], f.grads[e.B]
			ra := Δf - (ga[0]*d[0] + ga[1]*d[1] + ga[2]*d[2])
			rb := Δf - (gb[0]*d[0] + gb[1]*d[1] + gb[2]*d[2])
			η = utl.Max(η, f.scale*utl.Max(math.Abs(ra), math.Abs(rb)))
		}
	}
	return
}

// valRange returns max - min of one component of nodal values
func valRange(vals []float64, stride, comp, nv int) float64 {
	if nv == 0 {
		return 0
	}
	lo, hi := math.MaxFloat64, -math.MaxFloat64
	for i := 0; i < nv; i++ {
		v := vals[stride*i+comp]
		lo, hi = utl.Min(lo, v), utl.Max(hi, v)
	}
	return hi - lo
}

// maxAbs returns the largest absolute value of one component of nodal values
func maxAbs(vals []float64, stride, comp int) (m float64) {
	for i := comp; i < len(vals); i += stride {
		m = utl.Max(m, math.Abs(vals[i]))
	}
	return
}
