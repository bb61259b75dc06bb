// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/zerpiko/soleimani-et-al-2009/ana"
	"github.com/zerpiko/soleimani-et-al-2009/inp"
)

// testSim builds the 1m sand column input used by most tests here
func testSim(tst *testing.T) *inp.Simulation {
	sim := new(inp.Simulation)
	sim.Solver.SetDefault()
	sim.Data.Desc = "test column"
	sim.Data.DirOut = "/tmp/soleimani/t_fem"
	sim.Data.Format = "gnuplot"
	sim.Time = inp.TimeData{TsMax: 20, Dt: 1, ThFlow: 0.5, ThTrans: 0.5}
	sim.Geo = inp.GeoData{Ndim: 1, Size: 100, RefLev: 3}
	sim.Eq = inp.EqData{Form: "head", Model: "van_genuchten_1980", RelPerm: "soleimani"}
	sim.Ini = inp.IniData{State: "default", Flow: 1, Transport: 0, Bacteria: 1}
	sim.Bc = inp.BcData{RichFixBot: true, RichBotVal: 141.85, RichFixTop: true, RichTopVal: 1}
	sim.Mat = inp.MatData{ThetaS: 0.39, ThetaR: 0.04, Ksat: 0.05, Alp: 0.04, N: 4,
		Porosity: 0.39, DispLong: 1, Diff: 1e-5}
	sim.Reac = inp.ReacData{Decay: 1e-7, Yield: 0.5, Kmax: 1e-5, Kc: 10, RhoBdry: 10}
	if err := sim.Validate(); err != nil {
		tst.Errorf("Validate failed: %v\n", err)
		return nil
	}
	return sim
}

func Test_dom01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dom01. domain allocation and nodal state")

	sim := testSim(tst)
	if sim == nil {
		return
	}
	dom, err := NewDomain(sim)
	if err != nil {
		tst.Errorf("NewDomain failed: %v\n", err)
		return
	}
	if len(dom.Msh.Cells) != 8 || len(dom.Msh.Verts) != 9 {
		tst.Errorf("wrong mesh size\n")
		return
	}

	// homogeneous initial conditions
	for i := range dom.Msh.Verts {
		chk.Float64(tst, "p0", 1e-15, dom.Pressure.Old[i], 1.0)
		chk.Float64(tst, "b0", 1e-15, dom.Biomass.Old[i], 0.0)
	}

	// saturated everywhere: conductivity equals Ksat
	for i := range dom.Msh.Verts {
		chk.Float64(tst, "K", 1e-14, dom.StateNew.Kond[i], 0.05)
		chk.Float64(tst, "θ", 1e-14, dom.StateNew.ThetaTot[i], 0.39)
	}
	chk.Float64(tst, "k_eff", 1e-14, dom.EffectiveKond(), 0.05)
}

func Test_dom02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dom02. biomass growth")

	sim := testSim(tst)
	if sim == nil {
		return
	}
	dom, err := NewDomain(sim)
	if err != nil {
		tst.Errorf("NewDomain failed: %v\n", err)
		return
	}
	dom.Biomass.SetHomogeneous(0.001)
	dom.Substrate.SetHomogeneous(0.05)
	dom.CommitStep()

	// frozen while inactive
	dom.GrowBiomass(1000, false)
	chk.Float64(tst, "b frozen", 1e-15, dom.Biomass.New[0], 0.001)

	// active growth follows the closed form
	dt := 3600.0
	dom.GrowBiomass(dt, true)
	sf := dom.Mdl.EffectiveFreeSaturation(1.0, 0.001)
	bref := ana.BiomassGrowth(0.001, dt, 0.05, sf, sim.Reac.Yield, sim.Reac.Kmax,
		sim.Reac.Kc/1000.0, sim.Reac.Decay)
	for i := range dom.Msh.Verts {
		chk.Float64(tst, "b grown", 1e-14, dom.Biomass.New[i], bref)
		chk.Float64(tst, "biofrac", 1e-15, dom.BioFrac[i], dom.Biomass.New[i]/10.0)
	}
}

func Test_flow01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("flow01. saturated column reaches the linear steady profile")

	sim := testSim(tst)
	if sim == nil {
		return
	}
	sim.Ini.State = "no_drying"
	sim.Ini.Flow = 100.0
	solver, err := NewSolver(sim)
	if err != nil {
		tst.Errorf("NewSolver failed: %v\n", err)
		return
	}
	if solver.Ph.Phase != Saturating {
		tst.Errorf("no_drying must start in the saturation stage\n")
		return
	}
	if err := solver.Run(); err != nil {
		tst.Errorf("Run failed: %v\n", err)
		return
	}

	sol := ana.SaturatedColumn{Ksat: 0.05, Pbot: 141.85, Ptop: 1, Zbot: -100, Ztop: 0}
	dom := solver.Dom
	for i, v := range dom.Msh.Verts {
		chk.Float64(tst, "p", 1e-3, dom.Pressure.New[i], sol.Head(v.C[0]))
	}

	// water leaves through the top as fast as it enters through the bottom
	if math.Abs(dom.FlowTop+dom.FlowBot) > 1e-6 {
		tst.Errorf("steady flux imbalance: top=%v bot=%v\n", dom.FlowTop, dom.FlowBot)
	}

	// the per-step conductivity table has one row per timestep
	if len(solver.Summary) != sim.Time.TsMax-1 {
		tst.Errorf("wrong summary length: %d\n", len(solver.Summary))
		return
	}
	last := solver.Summary[len(solver.Summary)-1]
	chk.Float64(tst, "k_eff", 1e-10, last[2], 0.05)
}

func Test_flow02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("flow02. imposed flux on a 2d slab carries the face metric")

	sim := testSim(tst)
	if sim == nil {
		return
	}
	sim.Geo = inp.GeoData{Ndim: 2, Size: 40, RefLev: 2}
	sim.Bc = inp.BcData{RichFixBot: true, RichBotVal: 141.85, RichTopFlow: -1e-3}
	sim.Ini.State = "no_drying"
	sim.Ini.Flow = 120.0
	sim.Time.TsMax = 10
	solver, err := NewSolver(sim)
	if err != nil {
		tst.Errorf("NewSolver failed: %v\n", err)
		return
	}
	if err := solver.Run(); err != nil {
		tst.Errorf("Run failed: %v\n", err)
		return
	}

	// the column stays saturated, so the infiltration sets a uniform
	// vertical gradient: dp/dz = |q|/Ksat - 1
	dom := solver.Dom
	slope := 1e-3/0.05 - 1.0
	for i, v := range dom.Msh.Verts {
		z := v.C[1]
		chk.Float64(tst, io.Sf("p(%g,%g)", v.C[0], z), 1e-3,
			dom.Pressure.New[i], 141.85+slope*(z+40.0))
	}

	// boundary accumulators integrate the Darcy flux over the real faces
	chk.Float64(tst, "top influx", 1e-4, dom.FlowTop, sim.Bc.RichTopFlow*40.0)
	if math.Abs(dom.FlowTop+dom.FlowBot) > 1e-4 {
		tst.Errorf("steady flux imbalance: top=%v bot=%v\n", dom.FlowTop, dom.FlowBot)
	}
}

func Test_trn01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("trn01. advective inlet feeds the column from the bottom")

	sim := testSim(tst)
	if sim == nil {
		return
	}
	sim.Eq.Coupled = true
	sim.Eq.TestTrn = true
	sim.Bc.TrnEntry = "bottom"
	sim.Bc.TrnTopVal = 100.0
	dom, err := NewDomain(sim)
	if err != nil {
		tst.Errorf("NewDomain failed: %v\n", err)
		return
	}

	// impose the steady saturated pressure profile
	sol := ana.SaturatedColumn{Ksat: 0.05, Pbot: 141.85, Ptop: 1, Zbot: -100, Ztop: 0}
	for i, v := range dom.Msh.Verts {
		p := sol.Head(v.C[0])
		dom.Pressure.Old[i] = p
		dom.Pressure.New[i] = p
		dom.PressureIt[i] = p
	}
	dom.UpdateState()
	dom.StateNew.CopyInto(dom.StateOld)

	trn := NewTransportAssembler(dom)
	bot, top := 0, dom.Msh.TopVert
	prevMass := 0.0
	for step := 0; step < 10; step++ {
		if err := trn.Solve(60); err != nil {
			tst.Errorf("Solve failed: %v\n", err)
			return
		}
		dom.Substrate.Commit()
		if dom.MassInside < prevMass-1e-12 {
			tst.Errorf("mass must not decrease while feeding: %v < %v\n", dom.MassInside, prevMass)
			return
		}
		prevMass = dom.MassInside
	}

	cb := sim.Bc.TrnTopVal / 1000.0
	if dom.Substrate.New[bot] < 0.005 {
		tst.Errorf("inlet concentration is too small: %v\n", dom.Substrate.New[bot])
	}
	if dom.Substrate.New[bot] > 1.2*cb {
		tst.Errorf("inlet concentration overshoots: %v\n", dom.Substrate.New[bot])
	}
	if dom.Substrate.New[top] > dom.Substrate.New[bot] {
		tst.Errorf("the front must advance from the inlet: top=%v bot=%v\n",
			dom.Substrate.New[top], dom.Substrate.New[bot])
	}
}

func Test_phase01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("phase01. one-directional phase transitions")

	if _, err := PhaseFromState("wet"); err == nil {
		tst.Errorf("unknown states must be rejected\n")
		return
	}

	sim := testSim(tst)
	if sim == nil {
		return
	}
	sim.Eq.Coupled = true
	dom, err := NewDomain(sim)
	if err != nil {
		tst.Errorf("NewDomain failed: %v\n", err)
		return
	}
	ph := &PhaseState{Phase: Drying}

	// far from dry conditions: no transition
	ph.Check(dom, 10)
	if ph.Phase != Drying {
		tst.Errorf("must stay in drying: %v\n", ph.Phase)
		return
	}

	// hydrostatic top pressure triggers the transition
	dom.Pressure.New[dom.Msh.TopVert] = sim.Bc.RichBotVal - sim.Geo.Size
	ph.Check(dom, 5000)
	if ph.Phase != Saturating || !ph.RedefineDt {
		tst.Errorf("must transition to saturation: %v\n", ph.Phase)
		return
	}
	chk.Float64(tst, "t_dry", 1e-15, ph.TimeDry, 5000)
	chk.Float64(tst, "milestone", 1e-15, ph.Milestone, 5000)

	// balanced boundary fluxes trigger the transport stage and seed biomass
	ph.RedefineDt = false
	dom.FlowTop = 2.0e-2
	dom.FlowBot = -2.0e-2
	ph.Check(dom, 9000)
	if ph.Phase != Transporting {
		tst.Errorf("must transition to transport: %v\n", ph.Phase)
		return
	}
	chk.Float64(tst, "t_sat", 1e-15, ph.TimeSat, 4000)
	for i := range dom.Msh.Verts {
		chk.Float64(tst, "b seed", 1e-15, dom.Biomass.New[i], sim.Ini.Bacteria/1000.0)
	}
}

func Test_restart01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("restart01. state snapshots")

	sim := testSim(tst)
	if sim == nil {
		return
	}
	dom, err := NewDomain(sim)
	if err != nil {
		tst.Errorf("NewDomain failed: %v\n", err)
		return
	}
	for i := range dom.Msh.Verts {
		dom.Pressure.New[i] = float64(i) * 1.5
		dom.Substrate.New[i] = 0.01 * float64(i)
		dom.Biomass.New[i] = 0.001 * float64(i)
	}
	if err := SaveState(sim.Data.DirOut, RegimeDry, dom); err != nil {
		tst.Errorf("SaveState failed: %v\n", err)
		return
	}

	other, err := NewDomain(sim)
	if err != nil {
		tst.Errorf("NewDomain failed: %v\n", err)
		return
	}
	if err := LoadState(sim.Data.DirOut, RegimeDry, other); err != nil {
		tst.Errorf("LoadState failed: %v\n", err)
		return
	}
	chk.Array(tst, "p", 1e-15, other.Pressure.Old, dom.Pressure.New)
	chk.Array(tst, "c", 1e-15, other.Substrate.New, dom.Substrate.New)
	chk.Array(tst, "b", 1e-15, other.Biomass.New, dom.Biomass.New)

	// missing snapshots abort the run
	if err := LoadState(sim.Data.DirOut, "bogus", other); err == nil {
		tst.Errorf("missing snapshots must be rejected\n")
		return
	}
	if !IsKind(LoadState(sim.Data.DirOut, "bogus", other), ErrIO) {
		tst.Errorf("missing snapshots must be io errors\n")
	}

	// restart states require their snapshot
	sim2 := testSim(tst)
	if sim2 == nil {
		return
	}
	sim2.Data.DirOut = "/tmp/soleimani/t_fem_empty"
	sim2.Ini.State = "dry"
	if _, err := NewSolver(sim2); err == nil {
		tst.Errorf("NewSolver must fail without the dry snapshot\n")
	}
}

func Test_adapt01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("adapt01. gradient-jump mesh adaptation")

	sim := testSim(tst)
	if sim == nil {
		return
	}
	sim.Geo.RefLev = 4
	dom, err := NewDomain(sim)
	if err != nil {
		tst.Errorf("NewDomain failed: %v\n", err)
		return
	}

	// a uniform gradient gives no indicator at all
	for i, v := range dom.Msh.Verts {
		dom.Pressure.Old[i] = 2.0 * v.C[0]
	}
	if dom.Adapt1D(dom.Pressure.Old) {
		tst.Errorf("linear fields must not trigger adaptation\n")
		return
	}

	// a kink in the field refines the cells around it
	nold := len(dom.Msh.Cells)
	for i, v := range dom.Msh.Verts {
		z := v.C[0]
		if z > -50 {
			dom.Pressure.Old[i] = 100.0 * (z + 50.0)
		} else {
			dom.Pressure.Old[i] = 0
		}
	}
	if !dom.Adapt1D(dom.Pressure.Old) {
		tst.Errorf("a kink must trigger adaptation\n")
		return
	}
	if len(dom.Msh.Cells) <= nold {
		tst.Errorf("refinement must add cells: %d -> %d\n", nold, len(dom.Msh.Cells))
		return
	}
	if len(dom.Msh.NShared) != len(dom.Msh.Verts) || len(dom.Pressure.New) != len(dom.Msh.Verts) {
		tst.Errorf("fields must follow the new mesh\n")
		return
	}

	// interpolated values stay on the old piecewise profile
	for i, v := range dom.Msh.Verts {
		z := v.C[0]
		want := 0.0
		if z > -50 {
			want = 100.0 * (z + 50.0)
		}
		chk.Float64(tst, "p interp", 1e-10, dom.Pressure.Old[i], want)
	}
}

func Test_dt01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dt01. time step control")

	sv := new(inp.SolverData)
	sv.SetDefault()
	sv.DtMaxFlow = 3600

	// fast convergence doubles the step
	ph := &PhaseState{Phase: Drying}
	chk.Float64(tst, "grow", 1e-15, UpdateDt(4, 5, ph, sv), 8.0)

	// slow convergence keeps it
	chk.Float64(tst, "keep", 1e-15, UpdateDt(4, 20, ph, sv), 4.0)

	// a phase transition resets to the baseline and clears the flag
	ph.RedefineDt = true
	chk.Float64(tst, "redefine", 1e-15, UpdateDt(1800, 5, ph, sv), 1.0)
	if ph.RedefineDt {
		tst.Errorf("redefine flag must be cleared\n")
		return
	}

	// clamps
	chk.Float64(tst, "min", 1e-15, UpdateDt(0.2, 20, ph, sv), 1.0)
	chk.Float64(tst, "max flow", 1e-15, UpdateDt(3000, 5, ph, sv), 3600.0)
	ph.Phase = Transporting
	chk.Float64(tst, "max trn", 1e-15, UpdateDt(100, 20, ph, sv), 60.0)
}
