// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"math"

	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/goseep/mdl/solid"
	"github.com/cpmech/gosl/chk"
)

// Seepage implements the transient seepage sub-problem for the excess pore pressure u = p - ph
// where ph is the hydrostatic pressure. With the displacement iterate held fixed, each free
// vertex i satisfies (fixed-stress split):
//
//   (S+β)・Vi/Δt・ui + Σ cij・(ui - uj) = S・Vi/Δt・ui⁰ + β・Vi/Δt・uiᵏ - α・Vi/Δt・(εvᵏ - εv⁰) + Qi
//
//   cij = A・(nᵀ・K・n)/(μ・L)・exp(Ck・εv)   S = n/Kf   β = α²/M
//
// Vertices at the top of the mesh are drained (u = 0) when no pressure is prescribed.
type Seepage struct {
	Sim   *inp.Simulation // simulation data
	K     [3]float64      // diagonal permeability tensor
	Mu    float64         // viscosity
	S     float64         // storage coefficient
	Alpha float64         // Biot coefficient
	Beta  float64         // stabilisation coefficient
}

// add solver to factory
func init() {
	allocators["seepage"] = func() FieldSolver { return new(Seepage) }
}

// Init initialises this structure
func (o *Seepage) Init(sim *inp.Simulation) (err error) {
	o.Sim = sim
	o.K = [3]float64{sim.Fluid.Kxx, sim.Fluid.Kyy, sim.Fluid.Kzz}
	o.Mu = sim.Fluid.Mu
	if sim.Fluid.Kf > 0 {
		o.S = sim.Fluid.Porosity / sim.Fluid.Kf
	}
	o.Alpha = sim.Coupling.Alpha()
	mdl, err := solid.New(sim.Solid.Model)
	if err != nil {
		return
	}
	err = mdl.Init(SolidPrms(sim))
	if err != nil {
		return
	}
	if M := mdl.Oedometric(); M > 0 && !sim.Coupling.NoStab {
		o.Beta = o.Alpha * o.Alpha / M
	}
	return
}

// Solve computes next.P and next.V
func (o *Seepage) Solve(msh *inp.Mesh, bcs *BCs, t, Δt float64, prev, fixed, next *FieldState) (err error) {

	// reference state and strains
	nv := msh.Nverts()
	rest := NewAtRest(msh, o.Sim)
	vols := Volumes(msh, o.Sim.Data.Area)
	εk := VolStrains(msh, fixed.U)
	εn := VolStrains(msh, prev.U)

	// prescribed excess pressures
	presc := make(map[int]float64)
	for vid, pl := range bcs.Values(msh, "pl", t) {
		presc[vid] = pl - rest.Ph[vid]
	}
	if len(presc) == 0 {
		for _, vid := range TopVerts(msh) {
			presc[vid] = 0
		}
	}

	// assemble
	sys := NewNodalSystem(nv, presc)
	for _, e := range msh.Edges {
		sys.AddLink(e.A, e.B, o.Conductance(msh, e, εk))
	}
	if Δt > 0 {
		for i := 0; i < nv; i++ {
			uk := fixed.P[i] - rest.Ph[i]
			un := prev.P[i] - rest.Ph[i]
			cv := vols[i] / Δt
			sys.AddDiag(i, (o.S+o.Beta)*cv)
			sys.AddRhs(i, o.S*cv*un+o.Beta*cv*uk-o.Alpha*cv*(εk[i]-εn[i]))
		}
	}
	for vid, q := range bcs.Values(msh, "ql", t) {
		sys.AddRhs(vid, q)
	}

	// solve
	u := make([]float64, nv)
	for i := 0; i < nv; i++ {
		u[i] = fixed.P[i] - rest.Ph[i]
	}
	err = sys.Solve(u)
	if err != nil {
		return chk.Err("seepage: %v", err)
	}
	for i := 0; i < nv; i++ {
		next.P[i] = rest.Ph[i] + u[i]
	}

	// velocities
	grads := Gradients(msh, u, 1, 0)
	for i := 0; i < nv; i++ {
		for j := 0; j < 3; j++ {
			next.V[3*i+j] = 0
			if o.Mu > 0 {
				next.V[3*i+j] = -o.K[j] * grads[i][j] / o.Mu
			}
		}
	}
	return
}

// Conductance returns the hydraulic conductance of an edge
func (o *Seepage) Conductance(msh *inp.Mesh, e inp.Edge, εv []float64) float64 {
	n, L := msh.Unit(e.A, e.B)
	if L == 0 || o.Mu <= 0 {
		return 0
	}
	k := o.K[0]*n[0]*n[0] + o.K[1]*n[1]*n[1] + o.K[2]*n[2]*n[2]
	if ck := o.Sim.Fluid.Ck; ck != 0 {
		k *= math.Exp(ck * 0.5 * (εv[e.A] + εv[e.B]))
	}
	return o.Sim.Data.Area * k / (o.Mu * L)
}
