// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"

	"github.com/cpmech/gosl/io"
)

// Report holds statistics of a solution history
type Report struct {
	Nsteps          int       `json:"nsteps"`          // number of accepted steps
	FinalTime       float64   `json:"finaltime"`       // time at the end of the last step
	ConvergenceRate float64   `json:"convergencerate"` // fraction of steps accepted at the first attempt
	AvgIterations   float64   `json:"avgiterations"`   // mean number of coupling iterations per step
	Quality         []float64 `json:"quality"`         // mean mesh quality of each step
	QualityFirst    float64   `json:"qualityfirst"`    // quality of first step
	QualityLast     float64   `json:"qualitylast"`     // quality of last step
	QualityChange   float64   `json:"qualitychange"`   // last minus first
	Adaptations     int       `json:"adaptations"`     // number of steps after which the mesh was replaced
	AdaptFrequency  float64   `json:"adaptfrequency"`  // adaptations / steps
	AdaptFailures   int       `json:"adaptfailures"`   // number of failed adaptation cycles
	Rejections      int       `json:"rejections"`      // total number of rejected attempts
}

// NewReport computes the statistics of a history; the history is not modified
func NewReport(history []*Snapshot) (o *Report) {
	o = new(Report)
	o.Nsteps = len(history)
	if o.Nsteps == 0 {
		return
	}
	var nfirst, nit int
	o.Quality = make([]float64, o.Nsteps)
	for i, s := range history {
		if s.Attempts == 1 {
			nfirst++
		}
		nit += s.Iterations
		o.Rejections += s.Attempts - 1
		o.Quality[i] = s.Mesh.Quality.Mean
		if s.Adapt != nil {
			if s.Adapt.Adapted {
				o.Adaptations++
			}
			o.AdaptFailures += s.Adapt.Failures
		}
	}
	n := float64(o.Nsteps)
	o.FinalTime = history[o.Nsteps-1].Time
	o.ConvergenceRate = float64(nfirst) / n
	o.AvgIterations = float64(nit) / n
	o.QualityFirst = o.Quality[0]
	o.QualityLast = o.Quality[o.Nsteps-1]
	o.QualityChange = o.QualityLast - o.QualityFirst
	o.AdaptFrequency = float64(o.Adaptations) / n
	return
}

// String returns a table with the statistics
func (o *Report) String() string {
	b := new(bytes.Buffer)
	io.Ff(b, "%-28s = %d\n", "number of steps", o.Nsteps)
	io.Ff(b, "%-28s = %g\n", "final time", o.FinalTime)
	io.Ff(b, "%-28s = %.3f\n", "convergence rate", o.ConvergenceRate)
	io.Ff(b, "%-28s = %.3f\n", "average iterations", o.AvgIterations)
	io.Ff(b, "%-28s = %d\n", "rejections", o.Rejections)
	io.Ff(b, "%-28s = %d (%.3f)\n", "adaptations (frequency)", o.Adaptations, o.AdaptFrequency)
	io.Ff(b, "%-28s = %d\n", "adaptation failures", o.AdaptFailures)
	io.Ff(b, "%-28s = %.4f -> %.4f (%+.4f)\n", "mean quality", o.QualityFirst, o.QualityLast, o.QualityChange)
	return b.String()
}
