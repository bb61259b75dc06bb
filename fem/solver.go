// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"github.com/zerpiko/soleimani-et-al-2009/inp"
)

// output frequencies before the transport phase [s]
const (
	figFreqDrying     = 1.0
	figFreqSaturation = 1.0
)

// Solver drives the coupled simulation: Picard iterations within each
// timestep, phase transitions between timesteps.
type Solver struct {
	Dom  *Domain
	Flow *FlowAssembler
	Trn  *TransportAssembler
	Ph   *PhaseState

	Time float64 // current simulation time [s]
	Dt   float64 // current time step [s]

	// accumulated results
	Summary   [][]float64 // per-step {ts, phase time [h], effective conductivity}
	CumNutTop float64     // time-integrated nutrient flux through the top
	CumNutBot float64     // time-integrated nutrient flux through the bottom
	MassPrev  float64     // substrate mass in the domain at the previous step
}

// NewSolver builds the domain, loads a restart snapshot when the initial
// state asks for one, and allocates the assemblers
func NewSolver(sim *inp.Simulation) (*Solver, error) {
	dom, err := NewDomain(sim)
	if err != nil {
		return nil, err
	}
	if regime := RegimeForState(sim.Ini.State); regime != "" {
		if err := LoadState(sim.Data.DirOut, regime, dom); err != nil {
			return nil, err
		}
	}
	phase, err := PhaseFromState(sim.Ini.State)
	if err != nil {
		return nil, err
	}
	o := &Solver{
		Dom:  dom,
		Flow: NewFlowAssembler(dom),
		Trn:  NewTransportAssembler(dom),
		Ph:   &PhaseState{Phase: phase},
		Dt:   sim.Time.Dt,
	}
	return o, nil
}

// Run advances the simulation until the maximum number of timesteps
func (o *Solver) Run() error {
	sim := o.Dom.Sim
	sv := &sim.Solver
	for ts := 1; ts < sim.Time.TsMax; ts++ {

		if sim.Geo.Adapt {
			indicator := o.Dom.Pressure.Old
			if o.Ph.Phase == Transporting {
				indicator = o.Dom.Substrate.Old
			}
			if o.Dom.Adapt1D(indicator) {
				o.Flow = NewFlowAssembler(o.Dom)
				o.Trn = NewTransportAssembler(o.Dom)
			}
		}

		steps, err := o.picard()
		if err != nil {
			return err
		}

		o.Time += o.Dt
		o.CumNutTop += o.Dom.NutrientTop * o.Dt
		o.CumNutBot += o.Dom.NutrientBot * o.Dt
		o.MassPrev = o.Dom.MassInside

		prev := o.Ph.Phase
		o.Ph.Check(o.Dom, o.Time)
		if o.Ph.Phase != prev {
			regime := RegimeDry
			if prev == Saturating {
				regime = RegimeSaturated
			}
			if err := SaveState(sim.Data.DirOut, regime, o.Dom); err != nil {
				return err
			}
		}

		keff := o.Dom.EffectiveKond()
		phaseTime := o.Time - o.Ph.Milestone
		o.Summary = append(o.Summary, []float64{float64(ts), phaseTime / 3600.0, keff})

		if sim.Data.Terminal {
			io.Pf("ts=%d t=%g s phase=%v iters=%d k_eff=%g", ts, o.Time, o.Ph.Phase, steps, keff)
			switch o.Ph.Phase {
			case Drying:
				io.Pf(" dry_err=%g\n", o.Ph.DryErr)
			case Saturating:
				io.Pf(" sat_rel=%g sat_abs=%g\n", o.Ph.SatRel, o.Ph.SatAbs)
			default:
				io.Pf(" nut_in=%g nut_out=%g mass=%g\n", o.CumNutTop, o.CumNutBot, o.Dom.MassInside)
			}
		}

		// output gating: one figure per frequency interval of phase time
		freq := figFreqDrying
		switch o.Ph.Phase {
		case Saturating:
			freq = figFreqSaturation
		case Transporting:
			freq = float64(sim.Data.FreqTrn)
		}
		last := ts == sim.Time.TsMax-1
		if (freq > 0 && phaseTime >= float64(o.Ph.FigureCount)*freq) || last {
			if err := WriteResults(o.Dom, o.Ph, phaseTime); err != nil {
				return err
			}
			o.Ph.FigureCount++
		}

		if !sim.Eq.TestTrn {
			o.Dt = UpdateDt(o.Dt, steps, o.Ph, sv)
		}
		o.Dom.CommitStep()
	}

	if err := o.writeSummary(); err != nil {
		return err
	}
	return SaveState(sim.Data.DirOut, RegimeFinal, o.Dom)
}

// picard iterates flow and transport over one timestep until both relative
// errors fall within tolerance. During transport the time step is halved
// whenever the iteration cap is hit and the iteration restarts from the
// committed fields; the returned count keeps growing across restarts.
func (o *Solver) picard() (steps int, err error) {
	sim := o.Dom.Sim
	sv := &sim.Solver
	transport := (o.Ph.Phase == Transporting || sim.Eq.TestTrn) && sim.Eq.Coupled

	iteration := 0
	relFlow := 1000.0
	relTrn := 0.0
	oldNormT := 0.0
	for {
		if o.Ph.Phase == Transporting && iteration == sv.NmaxIt {
			o.Dt *= 0.5
			iteration = 0
			relFlow = 1000.0
			relTrn = 0.0
			oldNormT = 0.0
			copy(o.Dom.PressureIt, o.Dom.Pressure.Old)
		}

		o.Dom.GrowBiomass(o.Dt, o.Ph.Phase != Drying)
		o.Dom.UpdateState()

		if !sim.Eq.TestTrn {
			if err = o.Flow.Solve(o.Time+o.Dt, o.Dt, o.Ph.Phase == Drying); err != nil {
				return
			}
			prevNorm := la.VecDot(o.Dom.PressureIt, o.Dom.PressureIt)
			newNorm := la.VecDot(o.Dom.Pressure.New, o.Dom.Pressure.New)
			relFlow = math.Abs(1.0 - prevNorm/newNorm)
			copy(o.Dom.PressureIt, o.Dom.Pressure.New)
		}

		if transport {
			if err = o.Trn.Solve(o.Dt); err != nil {
				return
			}
			newNormT := la.VecDot(o.Dom.Substrate.New, o.Dom.Substrate.New)
			relTrn = 100.0 * math.Abs(1.0-math.Abs(oldNormT/newNormT))
			oldNormT = newNormT
		}

		iteration++
		steps++
		if sim.Eq.TestTrn {
			if relTrn < sv.TolTest {
				return
			}
			continue
		}
		if relFlow < sv.TolFlow && relTrn <= sv.TolTrans && iteration > 1 {
			return
		}
	}
}

// writeSummary saves the per-step effective conductivity table. The filename
// carries the model selection and kinetic parameters so that parameter sweeps
// land in distinct files.
func (o *Solver) writeSummary() error {
	sim := o.Dom.Sim
	var buf bytes.Buffer
	io.Ff(&buf, "# ts  time[h]  k_eff[cm/s]\n")
	for _, row := range o.Summary {
		io.Ff(&buf, "%5.0f %23.15e %23.15e\n", row[0], row[1], row[2])
	}
	fn := io.Sf("average_hydraulic_conductivity_sf_%s_%v_%v_%v_%v.txt",
		sim.Eq.RelPerm, sim.Data.SandFrac, sim.Reac.Yield, sim.Reac.Kmax, sim.Reac.Kc)
	io.WriteFileVD(sim.Data.DirOut, fn, &buf)
	return nil
}
