// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/gosl/chk"
)

// FieldState holds the solution data @ nodes. Vectors and tensors are stored node-by-node:
//
//   P   = [p0, p1, ...]                               (nverts)
//   U   = [ux0, uy0, uz0, ux1, uy1, uz1, ...]         (3 nverts)
//   Sig = [σxx0, σyy0, σzz0, σxy0, σyz0, σzx0, ...]   (6 nverts)
//   V   = [vx0, vy0, vz0, ...]                        (3 nverts)
//
type FieldState struct {
	P   []float64 // pore pressure
	U   []float64 // displacement
	Sig []float64 // effective stress; compression positive
	V   []float64 // seepage velocity
}

// Parent holds a vertex of a previous mesh and its weight for projecting fields
type Parent struct {
	Vid int     // vertex id in the previous mesh
	W   float64 // weight
}

// NewFieldState allocates a zeroed field state for nverts vertices
func NewFieldState(nverts int) *FieldState {
	return &FieldState{
		P:   make([]float64, nverts),
		U:   make([]float64, 3*nverts),
		Sig: make([]float64, 6*nverts),
		V:   make([]float64, 3*nverts),
	}
}

// Nverts returns the number of vertices these fields were allocated for
func (o *FieldState) Nverts() int { return len(o.P) }

// Check checks that all arrays are consistent with a mesh with nverts vertices
func (o *FieldState) Check(nverts int) (err error) {
	if len(o.P) != nverts {
		return chk.Err("pressure array has length %d but mesh has %d vertices", len(o.P), nverts)
	}
	if len(o.U) != 3*nverts {
		return chk.Err("displacement array has length %d but mesh has %d vertices (need %d)", len(o.U), nverts, 3*nverts)
	}
	if len(o.Sig) != 6*nverts {
		return chk.Err("stress array has length %d but mesh has %d vertices (need %d)", len(o.Sig), nverts, 6*nverts)
	}
	if len(o.V) != 3*nverts {
		return chk.Err("velocity array has length %d but mesh has %d vertices (need %d)", len(o.V), nverts, 3*nverts)
	}
	return
}

// Set copies the values of another state
//  Note: this and other must have been allocated with the same sizes
func (o *FieldState) Set(other *FieldState) {
	chk.IntAssert(len(o.P), len(other.P))
	copy(o.P, other.P)
	copy(o.U, other.U)
	copy(o.Sig, other.Sig)
	copy(o.V, other.V)
}

// GetCopy returns a deep copy of this state
func (o *FieldState) GetCopy() *FieldState {
	other := NewFieldState(o.Nverts())
	other.Set(o)
	return other
}

// Project returns the fields interpolated onto a new mesh. parents[i] lists the vertices of the
// mesh these fields belong to and their weights for vertex i of the new mesh.
func (o *FieldState) Project(parents [][]Parent) (other *FieldState, err error) {
	n := o.Nverts()
	other = NewFieldState(len(parents))
	for i, pp := range parents {
		if len(pp) == 0 {
			return nil, chk.Err("vertex %d of new mesh has no parents", i)
		}
		for _, p := range pp {
			if p.Vid < 0 || p.Vid >= n {
				return nil, chk.Err("parent %d of vertex %d is out of range [0, %d)", p.Vid, i, n)
			}
			other.P[i] += p.W * o.P[p.Vid]
			for j := 0; j < 3; j++ {
				other.U[3*i+j] += p.W * o.U[3*p.Vid+j]
				other.V[3*i+j] += p.W * o.V[3*p.Vid+j]
			}
			for j := 0; j < 6; j++ {
				other.Sig[6*i+j] += p.W * o.Sig[6*p.Vid+j]
			}
		}
	}
	return
}
