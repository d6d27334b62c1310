// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"math"

	"github.com/cpmech/goseep/inp"
	"gonum.org/v1/gonum/mat"
)

// Volumes computes the tributary volume of each vertex; i.e. half the volume A・L of each incident edge
func Volumes(msh *inp.Mesh, area float64) (vols []float64) {
	vols = make([]float64, msh.Nverts())
	for _, e := range msh.Edges {
		half := 0.5 * area * msh.Dist(e.A, e.B)
		vols[e.A] += half
		vols[e.B] += half
	}
	return
}

// VolStrains computes the volumetric strain at each vertex as the mean axial strain of its incident edges
//  U -- displacements [3 nverts]
func VolStrains(msh *inp.Mesh, U []float64) (εv []float64) {
	εv = make([]float64, msh.Nverts())
	cnt := make([]int, msh.Nverts())
	for _, e := range msh.Edges {
		n, L := msh.Unit(e.A, e.B)
		if L == 0 {
			continue
		}
		var ε float64
		for j := 0; j < 3; j++ {
			ε += (U[3*e.B+j] - U[3*e.A+j]) * n[j]
		}
		ε /= L
		εv[e.A] += ε
		εv[e.B] += ε
		cnt[e.A]++
		cnt[e.B]++
	}
	for i := range εv {
		if cnt[i] > 0 {
			εv[i] /= float64(cnt[i])
		}
	}
	return
}

// Gradients computes the gradient of a nodal field at each vertex by least squares over the
// incident edges. Directions not spanned by the edges get zero components (minimum norm solution).
//  f      -- nodal values stored with the given stride; e.g. stride=3, comp=2 selects uz in U
//  stride -- number of values per vertex
//  comp   -- component
func Gradients(msh *inp.Mesh, f []float64, stride, comp int) (grads [][3]float64) {
	nv := msh.Nverts()
	grads = make([][3]float64, nv)
	N := mat.NewDense(3, 3, nil)
	b := mat.NewVecDense(3, nil)
	g := mat.NewVecDense(3, nil)
	var svd mat.SVD
	for i := 0; i < nv; i++ {
		if len(msh.Adj[i]) == 0 {
			continue
		}
		N.Zero()
		b.Zero()
		xi := msh.X(i)
		fi := f[stride*i+comp]
		for _, k := range msh.Adj[i] {
			e := msh.Edges[k]
			j := e.A
			if j == i {
				j = e.B
			}
			xj := msh.X(j)
			d := [3]float64{xj[0] - xi[0], xj[1] - xi[1], xj[2] - xi[2]}
			df := f[stride*j+comp] - fi
			for r := 0; r < 3; r++ {
				b.SetVec(r, b.AtVec(r)+d[r]*df)
				for c := 0; c < 3; c++ {
					N.Set(r, c, N.At(r, c)+d[r]*d[c])
				}
			}
		}
		if !svd.Factorize(N, mat.SVDThin) {
			continue
		}
		rank := svd.Rank(1e-10)
		if rank == 0 {
			continue
		}
		svd.SolveVecTo(g, b, rank)
		grads[i] = [3]float64{g.AtVec(0), g.AtVec(1), g.AtVec(2)}
	}
	return
}

// TopVerts returns the vertices at the maximum elevation
func TopVerts(msh *inp.Mesh) (vids []int) {
	tol := 1e-10 * (1 + math.Abs(msh.MaxElev-msh.MinElev))
	for i := range msh.Verts {
		if msh.Z(i) > msh.MaxElev-tol {
			vids = append(vids, i)
		}
	}
	return
}

// BottomVerts returns the vertices at the minimum elevation
func BottomVerts(msh *inp.Mesh) (vids []int) {
	tol := 1e-10 * (1 + math.Abs(msh.MaxElev-msh.MinElev))
	for i := range msh.Verts {
		if msh.Z(i) < msh.MinElev+tol {
			vids = append(vids, i)
		}
	}
	return
}

