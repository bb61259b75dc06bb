// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

package main

import (
	"bytes"
	"encoding/json"

	"github.com/cpmech/gosl/io"

	"github.com/zerpiko/soleimani-et-al-2009/inp"
)

// GenMsh generates the analytic column mesh and saves it as a (.msh) file
// that simulations can read with usemsh=true
func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// input data
	_, fnkey := io.ArgToFilename(0, "column", ".msh", false)
	ndim := io.ArgToInt(1, 1)
	size := io.ArgToFloat(2, 100)
	reflev := io.ArgToInt(3, 4)
	dirout := io.ArgToString(4, "/tmp/soleimani")
	io.Pf("\n%s\n", io.ArgsTable("INPUT ARGUMENTS",
		"filename key", "fnkey", fnkey,
		"space dimension", "ndim", ndim,
		"domain size", "size", size,
		"refinement level", "reflev", reflev,
		"output directory", "dirout", dirout,
	))

	// generate
	var msh *inp.Mesh
	if ndim == 1 {
		msh = inp.GenMesh1D(size, reflev)
	} else {
		msh = inp.GenMesh2D(size, reflev)
	}

	// save
	b, err := json.MarshalIndent(msh, "", "  ")
	if err != nil {
		io.PfRed("cannot marshal mesh: %v\n", err)
		return
	}
	var buf bytes.Buffer
	buf.Write(b)
	io.WriteFileVD(dirout, fnkey+".msh", &buf)
}
