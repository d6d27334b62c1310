// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package adp

import (
	"math"
	"sort"

	"github.com/cpmech/goseep/ele"
	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// pair holds two line cells sharing vertex M that are merged into one
type pair struct {
	M      int // shared vertex; removed from the new mesh
	C1, C2 int // cells; C1 < C2
}

// longest returns the edge of cell cid with highest priority for bisection:
// the longest one and, among equal lengths, the one with smallest (A,B)
func longest(msh *inp.Mesh, edges []inp.Edge) (best inp.Edge, lmax float64) {
	lmax = -1
	for _, e := range edges {
		L := msh.Dist(e.A, e.B)
		if L > lmax || (L == lmax && before(e, best)) {
			best, lmax = e, L
		}
	}
	return
}

// before compares edges by (A,B)
func before(a, b inp.Edge) bool {
	if a.A == b.A {
		return a.B < b.B
	}
	return a.A < b.A
}

// mark selects the edges to be bisected. Each simplex marks its longest edge if
//  (1) its error indicator exceeds GradThr, or
//  (2) it is larger than MaxSize, or
//  (3) its aspect ratio exceeds MaxAspect (triangles and tetrahedra).
// Cells are never split below MinSize and (1) and (3) stop at MaxLevel.
// Edges of non-simplex cells are never marked.
func (o *Engine) mark(msh *inp.Mesh, est *Estimate) (marked map[inp.Edge]bool) {
	cfg := o.Cfg
	marked = make(map[inp.Edge]bool)
	frozen := make(map[inp.Edge]bool)
	for cid, c := range msh.Cells {
		if !msh.IsSimplex(cid) {
			for _, e := range msh.CellEdges(cid) {
				frozen[e] = true
			}
			continue
		}
		edges := msh.CellEdges(cid)
		e, lmax := longest(msh, edges)
		if lmax <= 0 {
			continue
		}
		lmin, _ := msh.CellSizes(cid)
		canHalve := lmax/2 >= cfg.MinSize
		refine := est.Cells[cid] > cfg.GradThr && c.Level < cfg.MaxLevel && canHalve
		if lmax > cfg.MaxSize && canHalve {
			refine = true
		}
		if len(c.Verts) >= 3 && c.Level < cfg.MaxLevel && canHalve && lmin > 0 && lmax/lmin > cfg.MaxAspect {
			refine = true
		}
		if refine {
			marked[e] = true
		}
	}
	for e := range frozen {
		delete(marked, e)
	}
	return
}

// pairs selects pairs of refined collinear line cells to be merged. Vertices are visited from
// the last one so that the most recent midpoints are removed first.
func (o *Engine) pairs(msh *inp.Mesh, est *Estimate, marked map[inp.Edge]bool) (res []pair) {
	cfg := o.Cfg
	thr := cfg.GradThr * cfg.CoarsenFactor
	used := make(map[int]bool)
	for m := msh.Nverts() - 1; m >= 0; m-- {
		if msh.Verts[m].Tag != 0 || len(msh.Shares[m]) != 2 {
			continue
		}
		c1, c2 := msh.Shares[m][0], msh.Shares[m][1]
		if c1 > c2 {
			c1, c2 = c2, c1
		}
		if c1 == c2 || used[c1] || used[c2] {
			continue
		}
		ok := true
		for _, cid := range []int{c1, c2} {
			c := msh.Cells[cid]
			if c.Type != "lin2" || c.Level < 1 || !(est.Cells[cid] < thr) {
				ok = false
				break
			}
			if marked[inp.NewEdge(c.Verts[0], c.Verts[1])] {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		a, b := other(msh.Cells[c1], m), other(msh.Cells[c2], m)
		if a == b || !collinear(msh, a, m, b) || msh.Dist(a, b) > cfg.MaxSize {
			continue
		}
		used[c1], used[c2] = true, true
		res = append(res, pair{M: m, C1: c1, C2: c2})
	}
	return
}

// other returns the vertex of line cell c that is not m
func other(c inp.Cell, m int) int {
	if c.Verts[0] == m {
		return c.Verts[1]
	}
	return c.Verts[0]
}

// collinear tells whether m lies between a and b on the segment a-b
func collinear(msh *inp.Mesh, a, m, b int) bool {
	xa, xm, xb := msh.X(a), msh.X(m), msh.X(b)
	var u, w [3]float64
	for i := 0; i < 3; i++ {
		u[i], w[i] = xm[i]-xa[i], xb[i]-xm[i]
	}
	cross := [3]float64{u[1]*w[2] - u[2]*w[1], u[2]*w[0] - u[0]*w[2], u[0]*w[1] - u[1]*w[0]}
	nc := math.Sqrt(cross[0]*cross[0] + cross[1]*cross[1] + cross[2]*cross[2])
	nu := math.Sqrt(u[0]*u[0] + u[1]*u[1] + u[2]*u[2])
	nw := math.Sqrt(w[0]*w[0] + w[1]*w[1] + w[2]*w[2])
	dot := u[0]*w[0] + u[1]*w[1] + u[2]*w[2]
	return nu > 0 && nw > 0 && dot > 0 && nc <= 1e-10*nu*nw
}

// builder generates a new mesh by bisecting marked edges and merging pairs
type builder struct {
	msh     *inp.Mesh        // previous mesh
	mids    map[inp.Edge]int // new vertex id of the midpoint of each marked edge
	prio    []inp.Edge       // marked edges sorted by priority
	rank    map[inp.Edge]int // position of each marked edge in prio
	verts   []inp.Vert       // new vertices
	cells   []inp.Cell       // new cells
	parents [][]ele.Parent   // parents of new vertices
}

// build generates the new mesh. Previous vertices keep their relative order and midpoints
// are appended in (A,B) order of their edges.
func (o *builder) build(msh *inp.Mesh, marked map[inp.Edge]bool, pairs []pair) (res *inp.Mesh, parents [][]ele.Parent, actions []Action, err error) {

	// pairs
	o.msh = msh
	removed := make(map[int]bool)
	first := make(map[int]pair)
	second := make(map[int]bool)
	for _, p := range pairs {
		removed[p.M] = true
		first[p.C1] = p
		second[p.C2] = true
	}

	// kept vertices
	newid := make([]int, msh.Nverts())
	for vid, v := range msh.Verts {
		if removed[vid] {
			newid[vid] = -1
			continue
		}
		newid[vid] = len(o.verts)
		o.verts = append(o.verts, inp.Vert{Id: len(o.verts), Tag: v.Tag, C: append([]float64{}, v.C...)})
		o.parents = append(o.parents, []ele.Parent{{Vid: vid, W: 1}})
	}

	// midpoints
	edges := make([]inp.Edge, 0, len(marked))
	for e := range marked {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool { return before(edges[i], edges[j]) })
	o.mids = make(map[inp.Edge]int)
	for _, e := range edges {
		if removed[e.A] || removed[e.B] {
			return nil, nil, nil, chk.Err("marked edge (%d,%d) touches a vertex being removed", e.A, e.B)
		}
		va, vb := msh.Verts[e.A], msh.Verts[e.B]
		x := make([]float64, len(va.C))
		for i := range x {
			x[i] = (va.C[i] + vb.C[i]) / 2
		}
		tag := 0
		if va.Tag == vb.Tag {
			tag = va.Tag
		}
		o.mids[e] = len(o.verts)
		o.verts = append(o.verts, inp.Vert{Id: len(o.verts), Tag: tag, C: x})
		o.parents = append(o.parents, []ele.Parent{{Vid: e.A, W: 0.5}, {Vid: e.B, W: 0.5}})
	}

	// priority of marked edges
	o.prio = append([]inp.Edge{}, edges...)
	sort.SliceStable(o.prio, func(i, j int) bool {
		li, lj := msh.Dist(o.prio[i].A, o.prio[i].B), msh.Dist(o.prio[j].A, o.prio[j].B)
		if li != lj {
			return li > lj
		}
		return before(o.prio[i], o.prio[j])
	})
	o.rank = make(map[inp.Edge]int)
	for k, e := range o.prio {
		o.rank[e] = k
	}

	// cells
	actions = make([]Action, msh.Ncells())
	for cid, c := range msh.Cells {
		if second[cid] {
			actions[cid] = Combine
			continue
		}
		if p, ok := first[cid]; ok {
			actions[cid] = Combine
			c2 := msh.Cells[p.C2]
			a, b := newid[other(c, p.M)], newid[other(c2, p.M)]
			verts := []int{a, b}
			if c.Verts[0] == p.M {
				verts = []int{b, a}
			}
			o.cells = append(o.cells, inp.Cell{Id: len(o.cells), Tag: c.Tag, Type: c.Type, Verts: verts, Level: max(c.Level, c2.Level) - 1})
			continue
		}
		verts := make([]int, len(c.Verts))
		for i, v := range c.Verts {
			verts[i] = newid[v]
		}
		if !msh.IsSimplex(cid) {
			o.cells = append(o.cells, inp.Cell{Id: len(o.cells), Tag: c.Tag, Type: c.Type, Verts: verts, Level: c.Level})
			continue
		}
		if o.split(c, verts) {
			actions[cid] = Split
		}
	}

	// new mesh
	res, err = inp.NewMesh(o.verts, o.cells, msh.Generation+1)
	if err != nil {
		return nil, nil, nil, chk.Err("cannot generate adapted mesh:\n%v", err)
	}
	parents = o.parents
	return
}

// split bisects cell c recursively along its marked edges and appends the resulting cells.
// verts holds the new ids of the vertices of c. It returns false if c has no marked edges.
func (o *builder) split(c inp.Cell, verts []int) (done bool) {

	// find marked edge with highest priority. edges are found with previous ids
	old := o.oldIds(verts)
	best, ia, ib := -1, -1, -1
	n := len(verts)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if old[i] < 0 || old[j] < 0 {
				continue
			}
			k, ok := o.rank[inp.NewEdge(old[i], old[j])]
			if ok && (best < 0 || k < best) {
				best, ia, ib = k, i, j
			}
		}
	}

	// leaf
	if best < 0 {
		o.cells = append(o.cells, inp.Cell{Id: len(o.cells), Tag: c.Tag, Type: c.Type, Verts: verts, Level: c.Level})
		return false
	}

	// children
	m := o.mids[o.prio[best]]
	c.Level++
	left := append([]int{}, verts...)
	right := append([]int{}, verts...)
	left[ib] = m
	right[ia] = m
	if io.Verbose {
		io.Pf("split (%d,%d) at %d\n", verts[ia], verts[ib], m)
	}
	o.split(c, left)
	o.split(c, right)
	return true
}

// oldIds returns the ids in the previous mesh of new vertices; -1 for midpoints
func (o *builder) oldIds(verts []int) (old []int) {
	old = make([]int, len(verts))
	for i, v := range verts {
		old[i] = -1
		if len(o.parents[v]) == 1 {
			old[i] = o.parents[v][0].Vid
		}
	}
	return
}
