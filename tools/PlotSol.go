// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

package main

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"

	"github.com/zerpiko/soleimani-et-al-2009/out"
)

// PlotSol plots one nodal field of a 1D solution table against depth
func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// input data
	fn, fnkey := io.ArgToFilename(0, "solution_head_1d_drying_t_0", ".gp", true)
	key := io.ArgToString(1, "pressure")
	dirout := io.ArgToString(2, "/tmp/soleimani")
	io.Pf("\n%s\n", io.ArgsTable("INPUT ARGUMENTS",
		"solution filename", "fn", fn,
		"field to plot", "key", key,
		"output directory", "dirout", dirout,
	))

	// load
	sol, err := out.ReadSolution(fn)
	if err != nil {
		io.PfRed("cannot load solution: %v\n", err)
		return
	}

	// plot
	plt.Reset(false, nil)
	if err := sol.PlotProfile(key, &plt.A{C: "b", M: ".", L: key}); err != nil {
		io.PfRed("cannot plot: %v\n", err)
		return
	}
	plt.Save(dirout, io.Sf("%s_%s", fnkey, key))
}
