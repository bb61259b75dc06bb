// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/zerpiko/soleimani-et-al-2009/fem"
	"github.com/zerpiko/soleimani-et-al-2009/inp"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v\n", err)
		}
	}()

	// read input parameters
	fnamepath, fnkey := io.ArgToFilename(0, "examples/column_drying/column_drying", ".sim", true)
	verbose := io.ArgToBool(1, true)

	// message
	if verbose {
		io.PfWhite("\nUnsaturated flow with bio-clogging -- coupled FEM simulator\n")
		io.Pf("Copyright 2016 The Gofem Authors. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n")
		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
		))
	}

	// read simulation input
	sim, err := inp.ReadSim(fnamepath, true)
	if err != nil {
		chk.Panic("cannot read simulation input:\n%v", err)
	}
	if verbose {
		io.Pf("simulation %q: %s\n", fnkey, sim.Data.Desc)
	}

	// run
	solver, err := fem.NewSolver(sim)
	if err != nil {
		chk.Panic("cannot allocate solver:\n%v", err)
	}
	if err := solver.Run(); err != nil {
		chk.Panic("run failed:\n%v", err)
	}
	if verbose {
		io.Pf("results saved in %s\n", sim.Data.DirOut)
	}
}
