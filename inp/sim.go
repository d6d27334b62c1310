// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON or YAML file
package inp

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {
	Desc    string  `json:"desc" yaml:"desc"`       // description of simulation
	DirOut  string  `json:"dirout" yaml:"dirout"`   // directory for output; e.g. /tmp/goseep
	Mshfile string  `json:"mshfile" yaml:"mshfile"` // file path of file with mesh data
	Area    float64 `json:"area" yaml:"area"`       // cross-sectional area of edges in the lumped network
	Grav    float64 `json:"grav" yaml:"grav"`       // gravity acceleration (positive constant)
	Wlevel  float64 `json:"wlevel" yaml:"wlevel"`   // water level; 0 means use max elevation
}

// FluidData holds pore-fluid properties
type FluidData struct {
	Rho      float64 `json:"rho" yaml:"rho"`           // intrinsic density [kg/m³]
	Mu       float64 `json:"mu" yaml:"mu"`             // dynamic viscosity [Pa·s]
	Kxx      float64 `json:"kxx" yaml:"kxx"`           // intrinsic permeability xx [m²]
	Kyy      float64 `json:"kyy" yaml:"kyy"`           // intrinsic permeability yy [m²]
	Kzz      float64 `json:"kzz" yaml:"kzz"`           // intrinsic permeability zz [m²]
	Kf       float64 `json:"kf" yaml:"kf"`             // bulk modulus of fluid [Pa]
	Porosity float64 `json:"porosity" yaml:"porosity"` // porosity
	Ck       float64 `json:"ck" yaml:"ck"`             // strain coefficient of permeability: k = k0・exp(Ck・εv)
	C        float64 `json:"c" yaml:"c"`               // density compressibility along the column (0 => linear hydrostatics)
}

// SolidData holds solid skeleton properties
type SolidData struct {
	Model string  `json:"model" yaml:"model"` // constitutive model; e.g. "elast", "dp"
	E     float64 `json:"E" yaml:"E"`         // Young's modulus [Pa]
	Nu    float64 `json:"nu" yaml:"nu"`       // Poisson's coefficient
	Rho   float64 `json:"rho" yaml:"rho"`     // saturated density [kg/m³]
	C     float64 `json:"c" yaml:"c"`         // cohesion [Pa]
	Phi   float64 `json:"phi" yaml:"phi"`     // friction angle [deg]
}

// CouplingData holds data for the fixed-point coupling between seepage and stress
type CouplingData struct {
	Biot          float64 `json:"biot" yaml:"biot"`                   // Biot coefficient α
	Law           string  `json:"law" yaml:"law"`                     // effective stress law: "biot" or "terzaghi"
	Tol           float64 `json:"tol" yaml:"tol"`                     // convergence tolerance
	NmaxIt        int     `json:"nmaxit" yaml:"nmaxit"`               // max number of iterations
	Omega         float64 `json:"omega" yaml:"omega"`                 // relaxation factor for pressure updates
	RelaxedFactor float64 `json:"relaxedfactor" yaml:"relaxedfactor"` // accept non-converged steps with r < RelaxedFactor・Tol; 0 => off
	ResidFactor   float64 `json:"residfactor" yaml:"residfactor"`     // adaptation is triggered if accepted r > ResidFactor・Tol
	NoStab        bool    `json:"nostab" yaml:"nostab"`               // disable fixed-stress stabilisation term
}

// TimeControl holds data for defining the simulation time stepping
type TimeControl struct {
	Tf     float64 `json:"tf" yaml:"tf"`         // final time
	Dt     float64 `json:"dt" yaml:"dt"`         // initial time step size
	DtMin  float64 `json:"dtmin" yaml:"dtmin"`   // minimum time step size
	DtMax  float64 `json:"dtmax" yaml:"dtmax"`   // maximum time step size
	Grow   float64 `json:"grow" yaml:"grow"`     // time step growth factor
	Shrink float64 `json:"shrink" yaml:"shrink"` // time step shrink factor
}

// AdaptData holds data for mesh adaptation
type AdaptData struct {
	Off           bool    `json:"off" yaml:"off"`                     // disable adaptation
	Interval      int     `json:"interval" yaml:"interval"`           // attempt adaptation every Interval accepted steps
	MaxCycles     int     `json:"maxcycles" yaml:"maxcycles"`         // max number of adaptation cycles per time instant
	QualityThr    float64 `json:"qualitythr" yaml:"qualitythr"`       // adapt if mean mesh quality is below this value
	ErrorThr      float64 `json:"errorthr" yaml:"errorthr"`           // adapt if max error estimate is above this value
	GradThr       float64 `json:"gradthr" yaml:"gradthr"`             // refine elements with error indicator above this value
	MaxLevel      int     `json:"maxlevel" yaml:"maxlevel"`           // max refinement level
	MinSize       float64 `json:"minsize" yaml:"minsize"`             // min element size
	MaxSize       float64 `json:"maxsize" yaml:"maxsize"`             // max element size
	MaxAspect     float64 `json:"maxaspect" yaml:"maxaspect"`         // max aspect ratio
	CoarsenFactor float64 `json:"coarsenfactor" yaml:"coarsenfactor"` // coarsen if indicator < GradThr・CoarsenFactor
}

// NodeBc holds node boundary condition
type NodeBc struct {
	Tag   int      `json:"tag" yaml:"tag"`     // tag of node
	Keys  []string `json:"keys" yaml:"keys"`   // key indicating type of bcs. ex: pl, ql, ux, uy, uz, fx, fy, fz
	Funcs []string `json:"funcs" yaml:"funcs"` // name of function. ex: zero, load, myfunction1, etc.
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data      Data         `json:"data" yaml:"data"`           // stores global simulation data
	Fluid     FluidData    `json:"fluid" yaml:"fluid"`         // fluid properties
	Solid     SolidData    `json:"solid" yaml:"solid"`         // solid properties
	Coupling  CouplingData `json:"coupling" yaml:"coupling"`   // coupling data
	Control   TimeControl  `json:"control" yaml:"control"`     // time control
	Adapt     AdaptData    `json:"adapt" yaml:"adapt"`         // mesh adaptation data
	Functions FuncsData    `json:"functions" yaml:"functions"` // stores all boundary condition functions
	NodeBcs   []*NodeBc    `json:"nodebcs" yaml:"nodebcs"`     // node boundary conditions

	// derived
	DirOut string // directory to save results
	Key    string // simulation key; e.g. mysim01.sim => mysim01 or mysim01-alias
	Msh    *Mesh  // the mesh, if Data.Mshfile was given
}

// NewSimulation returns a new simulation with all default values set
func NewSimulation() (o *Simulation) {
	o = new(Simulation)
	o.SetDefault()
	o.PostProcess()
	return
}

// SetDefault sets default values
func (o *Simulation) SetDefault() {
	o.Data.SetDefault()
	o.Fluid.SetDefault()
	o.Solid.SetDefault()
	o.Coupling.SetDefault()
	o.Control.SetDefault()
	o.Adapt.SetDefault()
}

// PostProcess computes derived quantities
func (o *Simulation) PostProcess() {
	if o.Key == "" {
		o.Key = "goseep"
	}
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/goseep/" + o.Key
	}
}

// ReadSim reads all simulation data from a .sim JSON file or a .yml/.yaml file.
// Values not given in the file keep their default values.
func ReadSim(simfilepath, alias string) (o *Simulation, err error) {

	// read file
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q:\n%v", simfilepath, err)
	}

	// set default values
	o = new(Simulation)
	o.SetDefault()

	// decode
	ext := strings.ToLower(filepath.Ext(simfilepath))
	switch ext {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(b, o)
	default:
		err = json.Unmarshal(b, o)
	}
	if err != nil {
		return nil, chk.Err("ReadSim: cannot unmarshal simulation file %q:\n%v", simfilepath, err)
	}

	// filename key
	dir := os.ExpandEnv(filepath.Dir(simfilepath))
	o.Key = io.FnKey(filepath.Base(simfilepath))
	if alias != "" {
		o.Key += "-" + alias
	}
	o.PostProcess()

	// read mesh
	if o.Data.Mshfile != "" {
		o.Msh, err = ReadMsh(dir, o.Data.Mshfile)
		if err != nil {
			return nil, chk.Err("ReadSim: cannot read mesh file:\n%v", err)
		}
	}

	// check functions
	for _, bc := range o.NodeBcs {
		if len(bc.Keys) != len(bc.Funcs) {
			return nil, chk.Err("ReadSim: node bc with tag %d has %d keys but %d functions", bc.Tag, len(bc.Keys), len(bc.Funcs))
		}
		for _, fname := range bc.Funcs {
			if _, err = o.Functions.Get(fname); err != nil {
				return nil, chk.Err("ReadSim: node bc with tag %d:\n%v", bc.Tag, err)
			}
		}
	}
	return
}

// Validate checks that all values are finite and within their admissible ranges
func (o *Simulation) Validate() (err error) {
	finite := []struct {
		key string
		val float64
	}{
		{"area", o.Data.Area}, {"grav", o.Data.Grav}, {"wlevel", o.Data.Wlevel},
		{"fluid.rho", o.Fluid.Rho}, {"fluid.mu", o.Fluid.Mu}, {"fluid.kxx", o.Fluid.Kxx},
		{"fluid.kyy", o.Fluid.Kyy}, {"fluid.kzz", o.Fluid.Kzz}, {"fluid.kf", o.Fluid.Kf},
		{"fluid.porosity", o.Fluid.Porosity}, {"fluid.ck", o.Fluid.Ck}, {"fluid.c", o.Fluid.C},
		{"solid.E", o.Solid.E}, {"solid.nu", o.Solid.Nu}, {"solid.rho", o.Solid.Rho},
		{"solid.c", o.Solid.C}, {"solid.phi", o.Solid.Phi},
		{"coupling.biot", o.Coupling.Biot}, {"coupling.tol", o.Coupling.Tol},
		{"coupling.omega", o.Coupling.Omega}, {"coupling.relaxedfactor", o.Coupling.RelaxedFactor},
		{"coupling.residfactor", o.Coupling.ResidFactor},
		{"control.tf", o.Control.Tf}, {"control.dt", o.Control.Dt}, {"control.dtmin", o.Control.DtMin},
		{"control.dtmax", o.Control.DtMax}, {"control.grow", o.Control.Grow}, {"control.shrink", o.Control.Shrink},
		{"adapt.qualitythr", o.Adapt.QualityThr}, {"adapt.errorthr", o.Adapt.ErrorThr},
		{"adapt.gradthr", o.Adapt.GradThr}, {"adapt.minsize", o.Adapt.MinSize},
		{"adapt.maxsize", o.Adapt.MaxSize}, {"adapt.maxaspect", o.Adapt.MaxAspect},
		{"adapt.coarsenfactor", o.Adapt.CoarsenFactor},
	}
	for _, f := range finite {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) {
			return chk.Err("%s must be finite. %v is invalid", f.key, f.val)
		}
	}
	if o.Coupling.Law != "biot" && o.Coupling.Law != "terzaghi" {
		return chk.Err("effective stress law %q is invalid; options are \"biot\" and \"terzaghi\"", o.Coupling.Law)
	}
	if o.Coupling.Tol <= 0 {
		return chk.Err("coupling.tol must be positive. %g is invalid", o.Coupling.Tol)
	}
	if o.Coupling.NmaxIt < 0 {
		return chk.Err("coupling.nmaxit must not be negative. %d is invalid", o.Coupling.NmaxIt)
	}
	if o.Coupling.Omega <= 0 || o.Coupling.Omega > 1 {
		return chk.Err("coupling.omega must be in (0,1]. %g is invalid", o.Coupling.Omega)
	}
	if o.Control.Tf <= 0 {
		return chk.Err("control.tf must be positive. %g is invalid", o.Control.Tf)
	}
	if o.Control.DtMin <= 0 || o.Control.DtMax < o.Control.DtMin {
		return chk.Err("control.dtmin and control.dtmax must satisfy 0 < dtmin ≤ dtmax. [%g, %g] is invalid", o.Control.DtMin, o.Control.DtMax)
	}
	if o.Control.Tf < o.Control.DtMin {
		return chk.Err("control.tf must not be smaller than control.dtmin. %g < %g is invalid", o.Control.Tf, o.Control.DtMin)
	}
	if o.Control.Dt <= 0 {
		return chk.Err("control.dt must be positive. %g is invalid", o.Control.Dt)
	}
	if o.Control.Grow < 1 {
		return chk.Err("control.grow must be ≥ 1. %g is invalid", o.Control.Grow)
	}
	if o.Control.Shrink <= 0 || o.Control.Shrink >= 1 {
		return chk.Err("control.shrink must be in (0,1). %g is invalid", o.Control.Shrink)
	}
	if o.Fluid.Porosity < 0 || o.Fluid.Porosity >= 1 {
		return chk.Err("fluid.porosity must be in [0,1). %g is invalid", o.Fluid.Porosity)
	}
	if o.Solid.Nu < 0 || o.Solid.Nu >= 0.5 {
		return chk.Err("solid.nu must be in [0,0.5). %g is invalid", o.Solid.Nu)
	}
	if o.Adapt.Interval < 1 || o.Adapt.MaxCycles < 0 {
		return chk.Err("adapt.interval must be ≥ 1 and adapt.maxcycles ≥ 0. (%d, %d) is invalid", o.Adapt.Interval, o.Adapt.MaxCycles)
	}
	return
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// SetDefault sets default values
func (o *Data) SetDefault() {
	o.Area = 1
	o.Grav = 9.81
}

// SetDefault sets default values
func (o *FluidData) SetDefault() {
	o.Rho = 1000
	o.Mu = 1e-3
	o.Kxx = 1e-12
	o.Kyy = 1e-12
	o.Kzz = 1e-12
	o.Kf = 2.2e9
	o.Porosity = 0.3
}

// SetDefault sets default values
func (o *SolidData) SetDefault() {
	o.Model = "elast"
	o.E = 25e6
	o.Nu = 0.3
	o.Rho = 1800
	o.C = 20e3
	o.Phi = 25
}

// SetDefault sets default values
func (o *CouplingData) SetDefault() {
	o.Biot = 1
	o.Law = "biot"
	o.Tol = 1e-6
	o.NmaxIt = 20
	o.Omega = 1
	o.ResidFactor = 10
}

// Alpha returns the coefficient multiplying the pore pressure in the effective stress law
func (o CouplingData) Alpha() float64 {
	if o.Law == "terzaghi" {
		return 1
	}
	return o.Biot
}

// SetDefault sets default values
func (o *TimeControl) SetDefault() {
	o.Tf = 86400
	o.Dt = 3600
	o.DtMin = 1
	o.DtMax = 86400
	o.Grow = 1.5
	o.Shrink = 0.5
}

// SetDefault sets default values
func (o *AdaptData) SetDefault() {
	o.Interval = 5
	o.MaxCycles = 1
	o.QualityThr = 0.3
	o.ErrorThr = 0.05
	o.GradThr = 0.05
	o.MaxLevel = 3
	o.MinSize = 1e-3
	o.MaxSize = 1e3
	o.MaxAspect = 10
	o.CoarsenFactor = 0.1
}
