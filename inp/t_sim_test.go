// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/zerpiko/soleimani-et-al-2009/mdl/hydraulic"
)

func Test_sim01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim01. read simulation file")

	sim, err := ReadSim("data/column.sim", false)
	if err != nil {
		tst.Errorf("ReadSim failed: %v\n", err)
		return
	}

	chk.String(tst, sim.Key, "column")
	chk.String(tst, sim.DirIn, "data")
	if sim.Mixed {
		tst.Errorf("head form must not set Mixed\n")
	}
	chk.Float64(tst, "dt", 1e-15, sim.Time.Dt, 1.0)
	chk.Float64(tst, "size", 1e-15, sim.Geo.Size, 100.0)
	chk.Float64(tst, "botval", 1e-15, sim.Bc.RichBotVal, 141.85)
	if !sim.EntryAtTop() {
		tst.Errorf("entry point must be the top face\n")
	}

	// explicit values survive next to defaults
	if sim.Solver.NmaxIt != 20 {
		tst.Errorf("nmaxit must override the default: %d\n", sim.Solver.NmaxIt)
	}
	chk.Float64(tst, "tolflow", 1e-15, sim.Solver.TolFlow, 1e-8)
	chk.Float64(tst, "dtmaxtrans", 1e-15, sim.Solver.DtMaxTrans, 60.0)

	// database material overrides the inline parameters and the .sim models
	if sim.HydroType != hydraulic.VanGenuchten {
		tst.Errorf("database model must override the .sim model\n")
	}
	if sim.RelPerm != hydraulic.Vandevivere {
		tst.Errorf("database relperm must override the .sim relperm\n")
	}
	chk.Float64(tst, "ksat", 1e-15, sim.HydroMdl.Ksat, 0.05)
	chk.Float64(tst, "m", 1e-15, sim.HydroMdl.M, 0.75)
	chk.Float64(tst, "rhobdry", 1e-15, sim.HydroMdl.RhoBdry, 10.0)

	// named boundary function
	if sim.TopFun == nil {
		tst.Errorf("richtopfun must resolve to a function\n")
		return
	}
	chk.Float64(tst, "topfun", 1e-15, sim.TopFun.F(100, nil), -0.001)
}

func Test_sim02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim02. validation catches bad input")

	sim, err := ReadSim("data/column.sim", false)
	if err != nil {
		tst.Errorf("ReadSim failed: %v\n", err)
		return
	}

	bad := *sim
	bad.Eq.Form = "velocity"
	if err := bad.Validate(); err == nil {
		tst.Errorf("Validate must reject unknown equation forms\n")
	}

	bad = *sim
	bad.Ini.State = "wet"
	if err := bad.Validate(); err == nil {
		tst.Errorf("Validate must reject unknown initial states\n")
	}

	bad = *sim
	bad.Bc.TrnEntry = "middle"
	if err := bad.Validate(); err == nil {
		tst.Errorf("Validate must reject unknown entry points\n")
	}

	bad = *sim
	bad.Geo.Ndim = 3
	if err := bad.Validate(); err == nil {
		tst.Errorf("Validate must reject ndim=3\n")
	}

	bad = *sim
	bad.Mat.Matname = "peat"
	if err := bad.Validate(); err == nil {
		tst.Errorf("Validate must reject unknown material names\n")
	}
}

func Test_mat01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mat01. material database")

	mdb, err := ReadMat("data", "materials.mat")
	if err != nil {
		tst.Errorf("ReadMat failed: %v\n", err)
		return
	}
	mat := mdb.Get("fine_sand")
	if mat == nil {
		tst.Errorf("cannot find fine_sand\n")
		return
	}
	chk.String(tst, mat.Model, "van_genuchten_1980")
	if mdb.Get("peat") != nil {
		tst.Errorf("unknown materials must return nil\n")
	}
	if _, err := mdb.Functions.Get("outflow"); err == nil {
		tst.Errorf("unknown functions must return an error\n")
	}
}
