// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fluid

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_fld01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fld01. incompressible column")

	H := 10.0
	g := 10.0

	var water Model
	water.Init(water.GetPrms(true), H, g)
	water.C = 0

	Z := utl.LinSpace(0, H, 5)
	P := water.Profile(Z)
	io.Pforan("P = %v\n", P)
	chk.Array(tst, "P", 1e-10, P, []float64{1e5, 7.5e4, 5e4, 2.5e4, 0})

	p, R := water.Calc(H + 1)
	chk.Float64(tst, "p above water", 1e-17, p, 0)
	chk.Float64(tst, "R above water", 1e-17, R, 1000)
}

func Test_fld02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fld02. compressible column")

	H := 10.0
	g := 10.0

	var water Model
	water.Init(water.GetPrms(true), H, g)
	prms := water.GetPrms(false)
	chk.Int(tst, "nprms", len(prms), 3)

	// compare with the closed-form solution of dp/dz = -R(p)・g
	for _, z := range []float64{0, 2.5, 5, 10} {
		p, R := water.Calc(z)
		pAna := (water.R0 / water.C) * (math.Exp(water.C*g*(H-z)) - 1)
		chk.Float64(tst, io.Sf("p(%g)", z), 1e-9, p, pAna)
		chk.Float64(tst, io.Sf("R(%g)", z), 1e-9, R, water.R0+water.C*pAna)
	}

	// slightly above the linear profile
	p, _ := water.Calc(0)
	if p < water.R0*g*H {
		tst.Errorf("compressible pressure should exceed the linear one: %g < %g", p, water.R0*g*H)
	}
}
