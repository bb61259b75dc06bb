// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/io"
)

// Phase enumerates the one-directional stages of a simulation
type Phase int

const (
	Drying       Phase = iota // only flow active, biomass frozen
	Saturating                // flow active, transport inactive
	Transporting              // flow and transport active; terminal
)

// phase transition tolerances
const (
	dryingRelTol     = 3.1e-4 // relative tolerance on the top pressure
	saturationRelTol = 2e-2   // relative tolerance on the flux ratio
	saturationAbsTol = 3e-6   // absolute tolerance on the flux imbalance
)

// String returns the phase name used in output files and status lines
func (o Phase) String() string {
	switch o {
	case Drying:
		return "drying"
	case Saturating:
		return "saturation"
	}
	return "transport"
}

// PhaseFromState maps an initial state name to the starting phase
func PhaseFromState(state string) (Phase, error) {
	switch state {
	case "default", "final":
		return Drying, nil
	case "dry", "no_drying":
		return Saturating, nil
	case "saturated":
		return Transporting, nil
	}
	return 0, NewErr(ErrConfig, "%q is not a valid initial state", state)
}

// PhaseState tracks the active phase and its milestones
type PhaseState struct {
	Phase       Phase   // active phase
	Milestone   float64 // time at which the current phase started
	TimeDry     float64 // time at which dry conditions were reached
	TimeSat     float64 // duration of the saturation stage
	RedefineDt  bool    // force the time step back to its baseline
	FigureCount int     // output figure counter within the current phase

	// last computed transition errors, for status reporting
	DryErr float64
	SatRel float64
	SatAbs float64
}

// Check evaluates the phase transition criteria after an accepted timestep
// and advances the phase when a criterion is met. Transitions reset the
// figure counter, record the milestone time and request a baseline time step.
func (o *PhaseState) Check(dom *Domain, time float64) {
	sim := dom.Sim
	switch o.Phase {

	case Drying:
		pTop := dom.Pressure.New[dom.Msh.TopVert]
		o.DryErr = pTop / (sim.Bc.RichBotVal - sim.Geo.Size)
		if math.Abs(1.0-o.DryErr) < dryingRelTol {
			o.Phase = Saturating
			o.FigureCount = 0
			o.RedefineDt = true
			o.TimeDry = time
			o.Milestone = time
			io.Pf("\tDry conditions reached at: %g h\n", o.TimeDry/3600.0)
			if sim.Bc.RichFixTop {
				io.Pf("\tFixing top pressure at: %g cm\n", sim.Bc.RichTopVal)
			} else {
				io.Pf("\tActivating moisture flow: %g cm/s\n", sim.Bc.RichTopFlow)
			}
		}

	case Saturating:
		if !sim.Eq.Coupled {
			return
		}
		o.SatRel = 0
		o.SatAbs = 0
		if sim.Bc.RichFixTop {
			o.SatRel = math.Abs(1.0 - math.Abs(dom.FlowTop/dom.FlowBot))
			o.SatAbs = math.Abs(dom.FlowTop + dom.FlowBot)
		}
		if o.SatRel < saturationRelTol || o.SatAbs < saturationAbsTol {
			o.Phase = Transporting
			o.FigureCount = 0
			o.RedefineDt = true
			o.TimeSat = time - o.Milestone
			o.Milestone = time

			// seed the biomass field; input is mg/l, the field is mg/cm³
			for i := range dom.Biomass.New {
				dom.Biomass.New[i] = sim.Ini.Bacteria / 1000.0
				dom.BioFrac[i] = dom.Biomass.New[i] / sim.Reac.RhoBdry
			}

			io.Pf("\tSaturated conditions reached at: %g h\n", o.TimeSat/3600.0)
			io.Pf("\tActivating nutrient flow: %v mg/l\n", sim.Bc.TrnTopVal)
			if sim.Reac.HomoDecay {
				io.Pf("\tActivating decay rate: %v 1/s\n", sim.Reac.FirstOrder)
			}
		}
	}
}
