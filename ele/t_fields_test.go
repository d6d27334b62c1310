// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"testing"

	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func cte(tst *testing.T, c float64) dbf.T {
	fcn, err := dbf.New("cte", dbf.Params{&dbf.P{N: "c", V: c}})
	if err != nil {
		tst.Fatalf("cannot allocate function:\n%v", err)
	}
	return fcn
}

func Test_fields01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fields01. allocation, check and copy")

	f := NewFieldState(3)
	chk.Int(tst, "nverts", f.Nverts(), 3)
	chk.Int(tst, "len(U)", len(f.U), 9)
	chk.Int(tst, "len(Sig)", len(f.Sig), 18)
	chk.Int(tst, "len(V)", len(f.V), 9)
	if err := f.Check(3); err != nil {
		tst.Errorf("check failed:\n%v", err)
	}
	if err := f.Check(4); err == nil {
		tst.Errorf("check with wrong number of vertices should fail")
	}
	f.U = f.U[:8]
	if err := f.Check(3); err == nil {
		tst.Errorf("check with truncated displacements should fail")
	}

	g := NewFieldState(2)
	g.P[0], g.P[1] = 1, 2
	g.U[5] = 3
	h := g.GetCopy()
	h.P[0] = 10
	chk.Array(tst, "P of original", 1e-17, g.P, []float64{1, 2})
	chk.Array(tst, "P of copy", 1e-17, h.P, []float64{10, 2})
	chk.Float64(tst, "uz1 of copy", 1e-17, h.U[5], 3)
}

func Test_fields02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fields02. projection")

	f := NewFieldState(2)
	f.P[0], f.P[1] = 10, 20
	f.U[2], f.U[5] = -1, -3
	f.Sig[2], f.Sig[8] = 100, 200

	parents := [][]Parent{
		{{Vid: 0, W: 1}},
		{{Vid: 0, W: 0.5}, {Vid: 1, W: 0.5}},
		{{Vid: 1, W: 1}},
	}
	g, err := f.Project(parents)
	if err != nil {
		tst.Errorf("projection failed:\n%v", err)
		return
	}
	if err = g.Check(3); err != nil {
		tst.Errorf("check failed:\n%v", err)
	}
	chk.Array(tst, "P", 1e-15, g.P, []float64{10, 15, 20})
	chk.Array(tst, "uz", 1e-15, []float64{g.U[2], g.U[5], g.U[8]}, []float64{-1, -2, -3})
	chk.Array(tst, "σzz", 1e-15, []float64{g.Sig[2], g.Sig[8], g.Sig[14]}, []float64{100, 150, 200})

	_, err = f.Project([][]Parent{{{Vid: 2, W: 1}}})
	if err == nil {
		tst.Errorf("projection from invalid parent should fail")
	}
	_, err = f.Project([][]Parent{{}})
	if err == nil {
		tst.Errorf("projection without parents should fail")
	}
}

func Test_bcs01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bcs01. values at tagged vertices")

	msh, err := inp.NewColumn(2, 2)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}

	var bcs BCs
	if err = bcs.Add(-2, "fz", "load", cte(tst, -10)); err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	bcs.Add(-2, "fz", "extra", cte(tst, -5))
	bcs.Add(-1, "pl", "p1", cte(tst, 100))
	bcs.Add(-1, "pl", "p2", cte(tst, 200))
	io.Pforan("%v", &bcs)

	fz := bcs.Values(msh, "fz", 0)
	chk.Int(tst, "number of loaded vertices", len(fz), 1)
	chk.Float64(tst, "natural values are summed", 1e-17, fz[2], -15)
	pl := bcs.Values(msh, "pl", 0)
	chk.Float64(tst, "last essential value prevails", 1e-17, pl[0], 200)
	chk.Int(tst, "no ux", len(bcs.Values(msh, "ux", 0)), 0)
	if !bcs.Has("pl") || bcs.Has("ql") {
		tst.Errorf("Has is incorrect")
	}
	if err = bcs.Add(-1, "wrong", "", cte(tst, 0)); err == nil {
		tst.Errorf("invalid key should fail")
	}

	// from simulation data
	sim, err := inp.ReadSim("../inp/data/col4.sim", "")
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	bb, err := NewBCs(sim)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	chk.Int(tst, "number of bcs", len(bb.List), 2)
	fz = bb.Values(sim.Msh, "fz", 3600)
	chk.Float64(tst, "ramp load", 1e-10, fz[4], -5e3)
}

func Test_geom01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("geom01. volumes, strains and gradients")

	msh, err := inp.NewColumn(4, 4)
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	chk.Array(tst, "volumes", 1e-15, Volumes(msh, 2), []float64{1, 2, 2, 2, 1})
	chk.Ints(tst, "top", TopVerts(msh), []int{4})
	chk.Ints(tst, "bottom", BottomVerts(msh), []int{0})

	// uniform compression: uz = -0.01 z
	U := make([]float64, 15)
	for i := 0; i < 5; i++ {
		U[3*i+2] = -0.01 * msh.Z(i)
	}
	chk.Array(tst, "εv", 1e-15, VolStrains(msh, U), []float64{-0.01, -0.01, -0.01, -0.01, -0.01})

	// gradient of a linear field is exact
	grads := Gradients(msh, U, 3, 2)
	for i, g := range grads {
		chk.Array(tst, io.Sf("grad %d", i), 1e-14, g[:], []float64{0, 0, -0.01})
	}

	// 2D triangles
	tri, err := inp.ReadMsh("../inp/data", "sqr2.msh")
	if err != nil {
		tst.Errorf("test failed:\n%v", err)
		return
	}
	f := make([]float64, 4)
	for i := range f {
		x := tri.X(i)
		f[i] = 2*x[0] - 3*x[1]
	}
	for i, g := range Gradients(tri, f, 1, 0) {
		chk.Array(tst, io.Sf("grad %d", i), 1e-14, g[:], []float64{2, -3, 0})
	}
}
