// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"encoding/json"
	"errors"
	"math"
	"path/filepath"
	"time"

	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/google/uuid"
)

// Summary records a simulation run
type Summary struct {
	RunId      string      `json:"runid"`      // unique identifier of this run
	Key        string      `json:"key"`        // simulation key
	Desc       string      `json:"desc"`       // description of simulation
	Date       string      `json:"date"`       // date of run
	Status     string      `json:"status"`     // "success", "cancelled" or the error code
	Msg        string      `json:"msg"`        // error message
	Tf         float64     `json:"tf"`         // final time requested
	Report     *Report     `json:"report"`     // statistics
	Times      []float64   `json:"times"`      // [nsteps] time at the end of each step
	Dts        []float64   `json:"dts"`        // [nsteps] Δt of each step
	Residuals  []float64   `json:"residuals"`  // [nsteps] last residual of each step
	Iterations []int       `json:"iterations"` // [nsteps] number of iterations of each step
	Snapshots  []*Snapshot `json:"snapshots"`  // [nsteps] metadata of steps; without fields
}

// NewSummary returns the summary of a run
func NewSummary(sim *inp.Simulation, history []*Snapshot, runErr error) (o *Summary) {
	o = &Summary{
		RunId:     uuid.NewString(),
		Key:       sim.Key,
		Desc:      sim.Data.Desc,
		Date:      time.Now().Format(time.RFC3339),
		Status:    "success",
		Tf:        sim.Control.Tf,
		Report:    NewReport(history),
		Snapshots: history,
	}
	if runErr != nil {
		o.Status = "failed"
		var fe *Error
		if errors.As(runErr, &fe) {
			o.Status = fe.Code.String()
			o.Msg = fe.Msg
		} else {
			o.Msg = runErr.Error()
		}
	} else if o.Report.Nsteps == 0 || o.Report.FinalTime < sim.Control.Tf {
		o.Status = "cancelled"
	}
	for _, s := range history {
		o.Times = append(o.Times, s.Time)
		o.Dts = append(o.Dts, s.Dt)
		o.Residuals = append(o.Residuals, finite(s.Residual))
		o.Iterations = append(o.Iterations, s.Iterations)
	}
	return
}

// Save saves summary as <fnkey>-summary.json in dirout
func (o *Summary) Save(dirout, fnkey string) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}
	io.WriteFileSD(dirout, fnkey+"-summary.json", string(b))
	return
}

// ReadSummary reads a summary saved by Save
func ReadSummary(dirout, fnkey string) (o *Summary, err error) {
	b, err := io.ReadFile(filepath.Join(dirout, fnkey+"-summary.json"))
	if err != nil {
		return nil, chk.Err("cannot read summary:\n%v", err)
	}
	o = new(Summary)
	err = json.Unmarshal(b, o)
	if err != nil {
		return nil, chk.Err("cannot decode summary:\n%v", err)
	}
	return
}

// finite replaces non-finite values (not allowed in JSON) by -1
func finite(x float64) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return -1
	}
	return x
}
