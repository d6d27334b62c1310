// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/goseep/mdl/solid"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// keys of essential and natural conditions for each displacement component
var (
	ukeys = []string{"ux", "uy", "uz"}
	fkeys = []string{"fx", "fy", "fz"}
)

// Stress implements the stress sub-problem. With the pore pressure held fixed, each displacement
// component solves a network of springs with stiffness M・A/L, loaded by point loads and by the
// excess pore pressure acting on the skeleton (-α・A・Δu/2 along each edge, at both ends).
// Components without prescribed values are fixed at the bottom vertices.
// Stresses follow from the nodal volumetric strain (uniaxial along the vertical) and the law
//
//   σ' = σ_total - α・p・I    (Biot)   or   σ' = σ_total - p・I    (Terzaghi)
//
type Stress struct {
	Sim   *inp.Simulation // simulation data
	Mdl   solid.Model     // constitutive model
	Alpha float64         // coefficient of pore pressure in the effective stress law
}

// add solver to factory
func init() {
	allocators["stress"] = func() FieldSolver { return new(Stress) }
}

// Init initialises this structure
func (o *Stress) Init(sim *inp.Simulation) (err error) {
	o.Sim = sim
	o.Alpha = sim.Coupling.Alpha()
	o.Mdl, err = solid.New(sim.Solid.Model)
	if err != nil {
		return
	}
	return o.Mdl.Init(SolidPrms(sim))
}

// Solve computes next.U and next.Sig using the pressure in fixed.P
func (o *Stress) Solve(msh *inp.Mesh, bcs *BCs, t, Δt float64, prev, fixed, next *FieldState) (err error) {

	// pore pressure forces
	nv := msh.Nverts()
	rest := NewAtRest(msh, o.Sim)
	A := o.Sim.Data.Area
	var forces [3][]float64
	for j := 0; j < 3; j++ {
		forces[j] = make([]float64, nv)
	}
	for _, e := range msh.Edges {
		n, L := msh.Unit(e.A, e.B)
		if L == 0 {
			continue
		}
		ua := fixed.P[e.A] - rest.Ph[e.A]
		ub := fixed.P[e.B] - rest.Ph[e.B]
		fp := -o.Alpha * A * (ub - ua) / 2
		for j := 0; j < 3; j++ {
			forces[j][e.A] += fp * n[j]
			forces[j][e.B] += fp * n[j]
		}
	}

	// displacements
	M := o.Mdl.Oedometric()
	bottom := BottomVerts(msh)
	x := make([]float64, nv)
	for j := 0; j < 3; j++ {
		presc := bcs.Values(msh, ukeys[j], t)
		if len(presc) == 0 {
			for _, vid := range bottom {
				presc[vid] = 0
			}
		}
		sys := NewNodalSystem(nv, presc)
		if M > 0 {
			for _, e := range msh.Edges {
				if L := msh.Dist(e.A, e.B); L > 0 {
					sys.AddLink(e.A, e.B, M*A/L)
				}
			}
		}
		for vid, f := range bcs.Values(msh, fkeys[j], t) {
			forces[j][vid] += f
		}
		for i := 0; i < nv; i++ {
			sys.AddRhs(i, forces[j][i])
			x[i] = prev.U[3*i+j]
		}
		err = sys.Solve(x)
		if err != nil {
			return chk.Err("stress: component %s: %v", ukeys[j], err)
		}
		for i := 0; i < nv; i++ {
			next.U[3*i+j] = x[i]
		}
	}

	// stresses
	εv := VolStrains(msh, next.U)
	ε := make([]float64, 6)
	σe := make([]float64, 6)
	σt := make([]float64, 6)
	for i := 0; i < nv; i++ {
		ε[msh.Elev] = εv[i]
		err = o.Mdl.Update(σe, rest.Seff[6*i:6*i+6], ε)
		if err != nil {
			return chk.Err("stress: cannot update stress at vertex %d:\n%v", i, err)
		}
		Δp := fixed.P[i] - rest.Ph[i]
		for j := 0; j < 6; j++ {
			σt[j] = rest.Stot[6*i+j] + σe[j] - rest.Seff[6*i+j]
			if j < 3 {
				σt[j] += o.Alpha * Δp
			}
		}
		EffectiveStress(next.Sig[6*i:6*i+6], σt, o.Alpha, fixed.P[i])
	}
	return
}

// EffectiveStress computes σ' = σ_total - α・p・I (compression positive)
func EffectiveStress(σe, σt []float64, α, p float64) {
	for j := 0; j < 6; j++ {
		σe[j] = σt[j]
		if j < 3 {
			σe[j] -= α * p
		}
	}
}

// SolidPrms returns the parameters of the solid model
func SolidPrms(sim *inp.Simulation) dbf.Params {
	return dbf.Params{
		&dbf.P{N: "E", V: sim.Solid.E},
		&dbf.P{N: "nu", V: sim.Solid.Nu},
		&dbf.P{N: "rho", V: sim.Solid.Rho},
		&dbf.P{N: "c", V: sim.Solid.C},
		&dbf.P{N: "phi", V: sim.Solid.Phi},
	}
}
