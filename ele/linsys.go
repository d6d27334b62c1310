// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"errors"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// NodalSystem assembles and solves a symmetric positive-definite system K・x = b with one unknown
// per vertex. Prescribed values are eliminated from the system.
type NodalSystem struct {
	Presc map[int]float64 // prescribed values; vertex => value
	Eq    []int           // [nverts] equation number of each vertex; -1 if prescribed
	Neq   int             // number of equations
	K     *mat.SymDense   // [neq][neq] coefficient matrix
	B     []float64       // [neq] right-hand side
}

// NewNodalSystem allocates a new system for nverts vertices
func NewNodalSystem(nverts int, presc map[int]float64) (o *NodalSystem) {
	o = &NodalSystem{Presc: presc, Eq: make([]int, nverts)}
	for i := 0; i < nverts; i++ {
		if _, ok := presc[i]; ok {
			o.Eq[i] = -1
			continue
		}
		o.Eq[i] = o.Neq
		o.Neq++
	}
	if o.Neq > 0 {
		o.K = mat.NewSymDense(o.Neq, nil)
		o.B = make([]float64, o.Neq)
	}
	return
}

// AddDiag adds v to the diagonal of vertex i
func (o *NodalSystem) AddDiag(i int, v float64) {
	if I := o.Eq[i]; I >= 0 {
		o.K.SetSym(I, I, o.K.At(I, I)+v)
	}
}

// AddRhs adds v to the right-hand side of vertex i
func (o *NodalSystem) AddRhs(i int, v float64) {
	if I := o.Eq[i]; I >= 0 {
		o.B[I] += v
	}
}

// AddLink adds a link with coefficient c between vertices a and b; i.e. c・(xa - xb) at a and c・(xb - xa) at b
func (o *NodalSystem) AddLink(a, b int, c float64) {
	if c == 0 {
		return
	}
	A, B := o.Eq[a], o.Eq[b]
	switch {
	case A >= 0 && B >= 0:
		o.K.SetSym(A, A, o.K.At(A, A)+c)
		o.K.SetSym(B, B, o.K.At(B, B)+c)
		o.K.SetSym(A, B, o.K.At(A, B)-c)
	case A >= 0:
		o.K.SetSym(A, A, o.K.At(A, A)+c)
		o.B[A] += c * o.Presc[b]
	case B >= 0:
		o.K.SetSym(B, B, o.K.At(B, B)+c)
		o.B[B] += c * o.Presc[a]
	}
}

// Solve solves the system. On input, x holds the values kept by vertices whose equation has
// a zero diagonal (no storage and no links). On output, x holds the solution at all vertices.
func (o *NodalSystem) Solve(x []float64) (err error) {
	for i, v := range o.Presc {
		x[i] = v
	}
	if o.Neq == 0 {
		return
	}
	for i, I := range o.Eq {
		if I >= 0 && o.K.At(I, I) == 0 {
			o.K.SetSym(I, I, 1)
			o.B[I] = x[i]
		}
	}
	var ch mat.Cholesky
	if ok := ch.Factorize(o.K); !ok {
		return chk.Err("coefficient matrix is not positive-definite; check the boundary conditions")
	}
	y := mat.NewVecDense(o.Neq, nil)
	err = ch.SolveVecTo(y, mat.NewVecDense(o.Neq, o.B))
	if err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return chk.Err("cannot solve linear system:\n%v", err)
		}
		err = nil // ill-conditioned but solved
	}
	for i, I := range o.Eq {
		if I >= 0 {
			x[i] = y.AtVec(I)
		}
	}
	return
}
