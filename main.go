// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/cpmech/goseep/ele"
	"github.com/cpmech/goseep/fem"
	"github.com/cpmech/goseep/inp"
	"github.com/cpmech/goseep/out"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"golang.org/x/sync/errgroup"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v", err)
			io.Pf("See location of error below:\n")
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
			os.Exit(1)
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".sim", true)
	verbose := io.ArgToBool(1, true)
	doplot := io.ArgToBool(2, true)

	// message
	if verbose {
		io.PfWhite("\nGoseep -- coupled seepage and stress analyses with adaptive meshes\n")
		io.Pf("Copyright 2016 The Gofem Authors. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n")

		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
			"plot results", "doplot", doplot,
		))
	}

	// input data
	sim, err := inp.ReadSim(fnamepath, "")
	if err != nil {
		chk.Panic("cannot read simulation:\n%v", err)
	}
	if sim.Msh == nil {
		chk.Panic("simulation file must specify a mesh file")
	}
	bcs, err := ele.NewBCs(sim)
	if err != nil {
		chk.Panic("cannot set boundary conditions:\n%v", err)
	}
	analysis, err := fem.NewMain(sim, verbose)
	if err != nil {
		chk.Panic("cannot allocate analysis:\n%v", err)
	}

	// stop on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// run simulation and report progress
	var history []*fem.Snapshot
	var runErr error
	progress := make(chan float64, 16)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(progress)
		history, runErr = analysis.Run(ctx, sim.Msh, bcs, func(percent float64, snap *fem.Snapshot) {
			select {
			case progress <- percent:
			default:
			}
		})
		return nil
	})
	g.Go(func() error {
		for percent := range progress {
			if verbose {
				io.Pf("> %6.2f%%\r", percent)
			}
		}
		return nil
	})
	g.Wait()
	if verbose {
		io.Pf("\n")
	}

	// results
	sum := fem.NewSummary(sim, history, runErr)
	err = sum.Save(sim.DirOut, sim.Key)
	if err != nil {
		chk.Panic("cannot save summary:\n%v", err)
	}
	if verbose {
		io.Pf("\n%v", sum.Report)
	}
	if doplot && len(history) > 0 {
		if _, err = out.PlotHistory(sim.DirOut, sim.Key, history); err != nil {
			chk.Panic("cannot plot history:\n%v", err)
		}
		if _, err = out.PlotProfiles(sim.DirOut, sim.Key, history); err != nil {
			chk.Panic("cannot plot profiles:\n%v", err)
		}
		if _, err = out.SaveHTML(sim.DirOut, sim.Key, history); err != nil {
			chk.Panic("cannot save page:\n%v", err)
		}
	}
	if runErr != nil {
		chk.Panic("Run failed:\n%v", runErr)
	}
}
