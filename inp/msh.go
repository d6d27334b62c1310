// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"math"
	"path/filepath"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Vert holds vertex data
type Vert struct {
	Id  int       `json:"id"`  // id
	Tag int       `json:"tag"` // tag
	C   []float64 `json:"c"`   // coordinates (size==ndim)
}

// Cell holds cell data
type Cell struct {
	Id    int    `json:"id"`    // id
	Tag   int    `json:"tag"`   // tag
	Type  string `json:"type"`  // geometry type; e.g. "lin2", "tri3", "tet4", "qua4"
	Verts []int  `json:"verts"` // vertices
	Level int    `json:"level"` // refinement level; 0 means original cell
}

// Edge holds the two vertices of an edge with A < B
type Edge struct {
	A, B int
}

// QualityStats holds the aggregate quality of a mesh
type QualityStats struct {
	Mean float64 // mean of cell qualities
	Min  float64 // smallest cell quality
}

// Mesh holds a mesh for FE analyses. Vertices and cells are stored contiguously and a mesh
// is never modified after Init; adapted meshes are new values with a larger Generation.
type Mesh struct {

	// from JSON
	Verts []Vert `json:"verts"` // vertices
	Cells []Cell `json:"cells"` // cells

	// derived
	Generation  int          // generation tag; 0 for the initial mesh
	Ndim        int          // space dimension
	Elev        int          // index of the vertical coordinate (Ndim-1)
	Xmin, Xmax  float64      // limits
	Ymin, Ymax  float64      // limits
	Zmin, Zmax  float64      // limits
	MaxElev     float64      // maximum elevation
	MinElev     float64      // minimum elevation
	Edges       []Edge       // unique edges sorted by (A,B)
	Shares      [][]int      // [nverts] cells sharing each vertex
	Adj         [][]int      // [nverts] edge indices incident to each vertex
	CellQuality []float64    // [ncells] quality of each cell in [0,1]
	Quality     QualityStats // aggregate quality
}

// ReadMsh reads a mesh for FE analyses
func ReadMsh(dir, fn string) (o *Mesh, err error) {

	// read file
	fn = filepath.Join(dir, fn)
	b, err := io.ReadFile(fn)
	if err != nil {
		return nil, chk.Err("ReadMsh: cannot open mesh file %q:\n%v", fn, err)
	}

	// decode
	o = new(Mesh)
	err = json.Unmarshal(b, o)
	if err != nil {
		return nil, chk.Err("ReadMsh: cannot unmarshal mesh file %q:\n%v", fn, err)
	}

	// derived data
	err = o.Init()
	return
}

// NewMesh allocates a new mesh from vertices and cells
func NewMesh(verts []Vert, cells []Cell, generation int) (o *Mesh, err error) {
	o = &Mesh{Verts: verts, Cells: cells, Generation: generation}
	err = o.Init()
	return
}

// NewColumn generates a vertical column of nc line cells from z=0 to z=H.
// The bottom vertex has tag -1 and the top vertex has tag -2.
func NewColumn(H float64, nc int) (o *Mesh, err error) {
	if nc < 1 || H <= 0 {
		return nil, chk.Err("NewColumn: H and nc must be positive. H=%g and nc=%d are invalid", H, nc)
	}
	Z := utl.LinSpace(0, H, nc+1)
	verts := make([]Vert, nc+1)
	for i, z := range Z {
		verts[i] = Vert{Id: i, C: []float64{0, 0, z}}
	}
	verts[0].Tag = -1
	verts[nc].Tag = -2
	cells := make([]Cell, nc)
	for i := 0; i < nc; i++ {
		cells[i] = Cell{Id: i, Tag: -1, Type: "lin2", Verts: []int{i, i + 1}}
	}
	return NewMesh(verts, cells, 0)
}

// Init computes derived quantities
func (o *Mesh) Init() (err error) {

	// check
	if len(o.Verts) < 1 {
		return chk.Err("mesh must have at least one vertex")
	}
	if len(o.Cells) < 1 {
		return chk.Err("mesh must have at least one cell")
	}

	// vertices
	o.Ndim = len(o.Verts[0].C)
	if o.Ndim < 1 || o.Ndim > 3 {
		return chk.Err("space dimension must be 1, 2 or 3. %d is invalid", o.Ndim)
	}
	o.Elev = o.Ndim - 1
	o.Xmin, o.Ymin, o.Zmin = math.MaxFloat64, math.MaxFloat64, math.MaxFloat64
	o.Xmax, o.Ymax, o.Zmax = -math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64
	for i, v := range o.Verts {
		if v.Id != i {
			return chk.Err("vertices ids must coincide with order in \"verts\" list. %d != %d", v.Id, i)
		}
		if len(v.C) != o.Ndim {
			return chk.Err("vertex %d has %d coordinates but ndim=%d", i, len(v.C), o.Ndim)
		}
		x := o.X(i)
		o.Xmin, o.Xmax = utl.Min(o.Xmin, x[0]), utl.Max(o.Xmax, x[0])
		o.Ymin, o.Ymax = utl.Min(o.Ymin, x[1]), utl.Max(o.Ymax, x[1])
		o.Zmin, o.Zmax = utl.Min(o.Zmin, x[2]), utl.Max(o.Zmax, x[2])
	}
	o.MinElev, o.MaxElev = math.MaxFloat64, -math.MaxFloat64
	for i := range o.Verts {
		z := o.Verts[i].C[o.Elev]
		o.MinElev, o.MaxElev = utl.Min(o.MinElev, z), utl.Max(o.MaxElev, z)
	}

	// cells and edges
	nv := len(o.Verts)
	o.Shares = make([][]int, nv)
	emap := make(map[Edge]bool)
	for i := range o.Cells {
		c := &o.Cells[i]
		if c.Id != i {
			return chk.Err("cells ids must coincide with order in \"cells\" list. %d != %d", c.Id, i)
		}
		if len(c.Verts) < 2 {
			return chk.Err("cell %d must have at least 2 vertices", i)
		}
		for _, v := range c.Verts {
			if v < 0 || v >= nv {
				return chk.Err("cell %d has invalid vertex %d", i, v)
			}
			o.Shares[v] = append(o.Shares[v], i)
		}
		if c.Type == "" {
			c.Type = DefaultType(len(c.Verts), o.Ndim)
		}
		for _, e := range o.CellEdges(i) {
			emap[e] = true
		}
	}
	o.Edges = make([]Edge, 0, len(emap))
	for e := range emap {
		o.Edges = append(o.Edges, e)
	}
	sort.Slice(o.Edges, func(i, j int) bool {
		if o.Edges[i].A == o.Edges[j].A {
			return o.Edges[i].B < o.Edges[j].B
		}
		return o.Edges[i].A < o.Edges[j].A
	})
	o.Adj = make([][]int, nv)
	for k, e := range o.Edges {
		o.Adj[e.A] = append(o.Adj[e.A], k)
		o.Adj[e.B] = append(o.Adj[e.B], k)
	}

	// quality
	o.CalcQuality()
	return
}

// Nverts returns the number of vertices
func (o *Mesh) Nverts() int { return len(o.Verts) }

// Ncells returns the number of cells
func (o *Mesh) Ncells() int { return len(o.Cells) }

// X returns the coordinates of vertex vid padded to 3 components
func (o *Mesh) X(vid int) (x [3]float64) {
	copy(x[:], o.Verts[vid].C)
	return
}

// Z returns the elevation of vertex vid
func (o *Mesh) Z(vid int) float64 {
	return o.Verts[vid].C[o.Elev]
}

// Dist returns the distance between two vertices
func (o *Mesh) Dist(a, b int) float64 {
	xa, xb := o.X(a), o.X(b)
	return math.Sqrt((xb[0]-xa[0])*(xb[0]-xa[0]) + (xb[1]-xa[1])*(xb[1]-xa[1]) + (xb[2]-xa[2])*(xb[2]-xa[2]))
}

// Unit returns the unit vector from vertex a to vertex b and the distance between them.
// A zero vector is returned for coincident vertices.
func (o *Mesh) Unit(a, b int) (e [3]float64, L float64) {
	L = o.Dist(a, b)
	if L == 0 {
		return
	}
	xa, xb := o.X(a), o.X(b)
	for i := 0; i < 3; i++ {
		e[i] = (xb[i] - xa[i]) / L
	}
	return
}

// IsSimplex tells whether cell cid is a line, triangle or tetrahedron
func (o *Mesh) IsSimplex(cid int) bool {
	switch o.Cells[cid].Type {
	case "lin2", "tri3", "tet4":
		return true
	}
	return false
}

// CellEdges returns the edges of cell cid; all pairs for simplices and the perimeter otherwise
func (o *Mesh) CellEdges(cid int) (edges []Edge) {
	c := o.Cells[cid]
	n := len(c.Verts)
	if o.IsSimplex(cid) {
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				edges = append(edges, NewEdge(c.Verts[i], c.Verts[j]))
			}
		}
		return
	}
	for i := 0; i < n; i++ {
		edges = append(edges, NewEdge(c.Verts[i], c.Verts[(i+1)%n]))
	}
	return
}

// CellSizes returns the shortest and the longest edge lengths of cell cid
func (o *Mesh) CellSizes(cid int) (lmin, lmax float64) {
	lmin = math.MaxFloat64
	for _, e := range o.CellEdges(cid) {
		L := o.Dist(e.A, e.B)
		lmin, lmax = utl.Min(lmin, L), utl.Max(lmax, L)
	}
	return
}

// CalcQuality computes the quality of each cell and the aggregate statistics.
//  lines:  min(L/L̄, L̄/L) where L̄ is the mean length of all lines
//  others: shortest edge / longest edge
func (o *Mesh) CalcQuality() {
	nc := len(o.Cells)
	o.CellQuality = make([]float64, nc)
	var lsum float64
	var nlin int
	for i, c := range o.Cells {
		if c.Type == "lin2" {
			lsum += o.Dist(c.Verts[0], c.Verts[1])
			nlin++
		} else {
			lmin, lmax := o.CellSizes(i)
			if lmax > 0 {
				o.CellQuality[i] = lmin / lmax
			}
		}
	}
	if nlin > 0 {
		lbar := lsum / float64(nlin)
		for i, c := range o.Cells {
			if c.Type == "lin2" {
				L := o.Dist(c.Verts[0], c.Verts[1])
				if L > 0 && lbar > 0 {
					o.CellQuality[i] = utl.Min(L/lbar, lbar/L)
				}
			}
		}
	}
	o.Quality.Min = math.MaxFloat64
	var sum float64
	for _, q := range o.CellQuality {
		sum += q
		o.Quality.Min = utl.Min(o.Quality.Min, q)
	}
	o.Quality.Mean = sum / float64(nc)
}

// String returns a JSON representation of the mesh
func (o *Mesh) String() string {
	l := "{\n  \"verts\" : [\n"
	for i, v := range o.Verts {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("    { \"id\":%d, \"tag\":%d, \"c\":%v }", v.Id, v.Tag, floatsJSON(v.C))
	}
	l += "\n  ],\n  \"cells\" : [\n"
	for i, c := range o.Cells {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("    { \"id\":%d, \"tag\":%d, \"type\":%q, \"verts\":%v, \"level\":%d }", c.Id, c.Tag, c.Type, intsJSON(c.Verts), c.Level)
	}
	l += "\n  ]\n}"
	return l
}

// NewEdge returns an edge with sorted vertices
func NewEdge(a, b int) Edge {
	if a > b {
		return Edge{b, a}
	}
	return Edge{a, b}
}

// DefaultType returns the geometry type for a cell with nv vertices in ndim dimensions
func DefaultType(nv, ndim int) string {
	switch nv {
	case 2:
		return "lin2"
	case 3:
		return "tri3"
	case 4:
		if ndim == 3 {
			return "tet4"
		}
		return "qua4"
	}
	return io.Sf("poly%d", nv)
}

func floatsJSON(v []float64) string {
	l := "["
	for i, x := range v {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%g", x)
	}
	return l + "]"
}

func intsJSON(v []int) string {
	l := "["
	for i, x := range v {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%d", x)
	}
	return l + "]"
}
