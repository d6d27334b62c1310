// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"sort"

	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// bckeys holds all known keys and whether they are essential (prescribed values) or natural (sources)
var bckeys = map[string]bool{
	"pl": true,  // liquid pressure
	"ux": true,  // displacement along x
	"uy": true,  // displacement along y
	"uz": true,  // displacement along z
	"ql": false, // liquid flow rate into vertex
	"fx": false, // point load along x
	"fy": false, // point load along y
	"fz": false, // point load along z
}

// NodalBc holds one boundary condition applied to all vertices with a given tag
type NodalBc struct {
	Tag  int    // tag of vertices
	Key  string // key such as pl, ql, ux, uy, uz, fx, fy, fz
	Fcn  dbf.T  // function of time
	Name string // name of function
}

// BCs holds boundary conditions. Vertices are found from their tags each time values are requested,
// thus the same BCs can be used with any mesh generated by adaptation.
type BCs struct {
	List []*NodalBc
}

// NewBCs allocates boundary conditions from simulation data
func NewBCs(sim *inp.Simulation) (o *BCs, err error) {
	o = new(BCs)
	for _, nbc := range sim.NodeBcs {
		if len(nbc.Keys) != len(nbc.Funcs) {
			return nil, chk.Err("node bc with tag %d has %d keys but %d functions", nbc.Tag, len(nbc.Keys), len(nbc.Funcs))
		}
		for i, key := range nbc.Keys {
			fcn, err := sim.Functions.Get(nbc.Funcs[i])
			if err != nil {
				return nil, chk.Err("cannot get function for node bc with tag %d:\n%v", nbc.Tag, err)
			}
			if err = o.Add(nbc.Tag, key, nbc.Funcs[i], fcn); err != nil {
				return nil, err
			}
		}
	}
	return
}

// Add adds a new boundary condition
func (o *BCs) Add(tag int, key, name string, fcn dbf.T) (err error) {
	if _, ok := bckeys[key]; !ok {
		return chk.Err("boundary condition key %q is invalid", key)
	}
	if fcn == nil {
		return chk.Err("function for boundary condition %q with tag %d is nil", key, tag)
	}
	o.List = append(o.List, &NodalBc{Tag: tag, Key: key, Fcn: fcn, Name: name})
	return
}

// Has tells whether there is any boundary condition with the given key
func (o *BCs) Has(key string) bool {
	if o == nil {
		return false
	}
	for _, bc := range o.List {
		if bc.Key == key {
			return true
		}
	}
	return false
}

// Values returns the values of bcs with the given key at time t for each vertex with a matching tag.
// Natural conditions (sources) are summed whereas the last essential condition prevails.
func (o *BCs) Values(msh *inp.Mesh, key string, t float64) (vals map[int]float64) {
	vals = make(map[int]float64)
	if o == nil {
		return
	}
	essential := bckeys[key]
	for _, bc := range o.List {
		if bc.Key != key {
			continue
		}
		for vid, v := range msh.Verts {
			if v.Tag != bc.Tag || v.Tag == 0 {
				continue
			}
			val := bc.Fcn.F(t, v.C)
			if essential {
				vals[vid] = val
			} else {
				vals[vid] += val
			}
		}
	}
	return
}

// String returns a summary of the boundary conditions
func (o *BCs) String() string {
	if o == nil || len(o.List) == 0 {
		return "no boundary conditions\n"
	}
	list := make([]*NodalBc, len(o.List))
	copy(list, o.List)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Tag > list[j].Tag })
	l := io.Sf("%8s%6s%14s\n", "tag", "key", "function")
	for _, bc := range list {
		l += io.Sf("%8d%6s%14s\n", bc.Tag, bc.Key, bc.Name)
	}
	return l
}
