// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements output handling of coupled analyses: time series, profiles and plotting
package out

import (
	"math"
	"sort"

	"github.com/cpmech/goseep/fem"
	"github.com/cpmech/gosl/chk"
)

// constants
var (
	TolZ  = 1e-8  // tolerance to compare elevations
	Floor = 1e-16 // smallest value shown on log scales
)

// Series holds the time series extracted from the history of accepted steps
type Series struct {
	Times       []float64 // time at the end of each step
	Dts         []float64 // Δt of each step
	Residuals   []float64 // last coupling residual of each step
	Iterations  []float64 // number of coupling iterations
	Attempts    []float64 // number of attempts including the accepted one
	Ncells      []float64 // number of cells of the mesh used
	QualityMean []float64 // mean quality
	QualityMin  []float64 // worst quality
	Adapted     []float64 // times when the mesh was replaced
}

// NewSeries extracts time series from history
func NewSeries(history []*fem.Snapshot) (o *Series) {
	o = new(Series)
	for _, s := range history {
		o.Times = append(o.Times, s.Time)
		o.Dts = append(o.Dts, s.Dt)
		o.Residuals = append(o.Residuals, s.Residual)
		o.Iterations = append(o.Iterations, float64(s.Iterations))
		o.Attempts = append(o.Attempts, float64(s.Attempts))
		o.Ncells = append(o.Ncells, float64(s.Mesh.Ncells))
		o.QualityMean = append(o.QualityMean, s.Mesh.Quality.Mean)
		o.QualityMin = append(o.QualityMin, s.Mesh.Quality.Min)
		if s.Adapt != nil && s.Adapt.Adapted {
			o.Adapted = append(o.Adapted, s.Time)
		}
	}
	return
}

// Get returns a series by key
func (o Series) Get(key string) []float64 {
	switch key {
	case "t":
		return o.Times
	case "dt":
		return o.Dts
	case "res":
		return o.Residuals
	case "nit":
		return o.Iterations
	case "natt":
		return o.Attempts
	case "ncells":
		return o.Ncells
	case "qmean":
		return o.QualityMean
	case "qmin":
		return o.QualityMin
	}
	chk.Panic("cannot find series with key = %q", key)
	return nil
}

// Profile holds values along the vertical direction at the end of a step
type Profile struct {
	Time float64   // time of snapshot
	Z    []float64 // sorted elevations
	P    []float64 // pore pressure
	Uz   []float64 // vertical displacement
	Sz   []float64 // vertical effective stress
}

// NewProfile collects the values of a snapshot sorted by elevation. Vertices with the same
// elevation are averaged.
func NewProfile(snap *fem.Snapshot) (o *Profile, err error) {
	if snap == nil || snap.Msh == nil || snap.Fields == nil {
		return nil, chk.Err("snapshot has no mesh or fields")
	}
	msh, fields := snap.Msh, snap.Fields
	nv := msh.Nverts()
	if len(fields.P) != nv || len(fields.U) != 3*nv || len(fields.Sig) != 6*nv {
		return nil, chk.Err("fields are inconsistent with mesh: nverts=%d, len(P)=%d, len(U)=%d, len(Sig)=%d", nv, len(fields.P), len(fields.U), len(fields.Sig))
	}
	ids := make([]int, nv)
	for i := range ids {
		ids[i] = i
	}
	sort.SliceStable(ids, func(a, b int) bool { return msh.Z(ids[a]) < msh.Z(ids[b]) })
	o = &Profile{Time: snap.Time}
	var cnt float64
	for k, vid := range ids {
		z := msh.Z(vid)
		n := len(o.Z)
		if k > 0 && math.Abs(z-o.Z[n-1]) < TolZ {
			cnt++
			o.P[n-1] += (fields.P[vid] - o.P[n-1]) / cnt
			o.Uz[n-1] += (fields.U[3*vid+msh.Elev] - o.Uz[n-1]) / cnt
			o.Sz[n-1] += (fields.Sig[6*vid+msh.Elev] - o.Sz[n-1]) / cnt
			continue
		}
		cnt = 1
		o.Z = append(o.Z, z)
		o.P = append(o.P, fields.P[vid])
		o.Uz = append(o.Uz, fields.U[3*vid+msh.Elev])
		o.Sz = append(o.Sz, fields.Sig[6*vid+msh.Elev])
	}
	return
}

// floored returns a copy of v with non-finite entries and entries below Floor replaced by Floor
func floored(v []float64) (w []float64) {
	w = make([]float64, len(v))
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) || x < Floor {
			x = Floor
		}
		w[i] = x
	}
	return
}
