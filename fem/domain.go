// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the coupled unsaturated-flow / solute-transport
// simulator with biologically driven clogging
package fem

import (
	"math"

	"github.com/zerpiko/soleimani-et-al-2009/inp"
	"github.com/zerpiko/soleimani-et-al-2009/mdl/hydraulic"
)

// Field holds the old and new nodal values of one scalar unknown
type Field struct {
	Old []float64 // values at the previous accepted time level
	New []float64 // values at the current time level
}

// NewField allocates a field with n nodal values
func NewField(n int) *Field {
	return &Field{Old: make([]float64, n), New: make([]float64, n)}
}

// Commit accepts the new values as the old time level
func (o *Field) Commit() {
	copy(o.Old, o.New)
}

// SetHomogeneous fills both time levels with a constant
func (o *Field) SetHomogeneous(val float64) {
	for i := range o.Old {
		o.Old[i] = val
		o.New[i] = val
	}
}

// NodalState holds per-node derived hydraulic quantities. They are recomputed
// every Picard iteration from the pressure and biomass fields that produced
// them and never persisted independently.
type NodalState struct {
	Kond      []float64 // hydraulic conductivity
	ThetaTot  []float64 // total moisture content
	ThetaFree []float64 // free (biomass-excluded) moisture content
	Capacity  []float64 // specific moisture capacity
}

// NewNodalState allocates state arrays for n nodes
func NewNodalState(n int) *NodalState {
	return &NodalState{
		Kond:      make([]float64, n),
		ThetaTot:  make([]float64, n),
		ThetaFree: make([]float64, n),
		Capacity:  make([]float64, n),
	}
}

// CopyInto copies this state into another
func (o *NodalState) CopyInto(dst *NodalState) {
	copy(dst.Kond, o.Kond)
	copy(dst.ThetaTot, o.ThetaTot)
	copy(dst.ThetaFree, o.ThetaFree)
	copy(dst.Capacity, o.Capacity)
}

// Domain holds the mesh, the solution fields and the derived nodal state
type Domain struct {

	// input
	Sim *inp.Simulation  // simulation data
	Msh *inp.Mesh        // mesh
	Mdl *hydraulic.Model // hydraulic properties model

	// primary fields (one unknown per vertex; vertex id == equation number)
	Pressure   *Field    // pressure head
	PressureIt []float64 // pressure at the previous Picard iteration
	Substrate  *Field    // substrate concentration
	Biomass    *Field    // biomass concentration
	BioFrac    []float64 // biomass fraction B/ρb at the new time level

	// derived nodal state at both time levels
	StateOld *NodalState
	StateNew *NodalState

	// boundary flow accumulators, refreshed by every flow assembly
	FlowTop float64 // water flux through the top boundary
	FlowBot float64 // water flux through the bottom boundary

	// nutrient accumulators, refreshed by every transport assembly
	NutrientTop float64 // nutrient flux through the top boundary
	NutrientBot float64 // nutrient flux through the bottom boundary
	MassInside  float64 // substrate mass currently in the domain
}

// NewDomain builds the mesh and allocates all fields
func NewDomain(sim *inp.Simulation) (*Domain, error) {
	o := &Domain{Sim: sim, Mdl: sim.HydroMdl}

	// mesh
	if sim.Geo.UseMsh {
		msh, err := inp.ReadMsh(sim.DirIn, sim.Geo.Mshfile)
		if err != nil {
			return nil, WrapErr(ErrIO, err)
		}
		if msh.Ndim != sim.Geo.Ndim {
			return nil, NewErr(ErrConfig, "mesh dimension %d does not match configured dimension %d", msh.Ndim, sim.Geo.Ndim)
		}
		o.Msh = msh
	} else {
		if sim.Geo.Ndim == 1 {
			o.Msh = inp.GenMesh1D(sim.Geo.Size, sim.Geo.RefLev)
		} else {
			o.Msh = inp.GenMesh2D(sim.Geo.Size, sim.Geo.RefLev)
		}
	}

	o.allocate(len(o.Msh.Verts))

	// homogeneous initial conditions; restart states overwrite these later
	o.Pressure.SetHomogeneous(sim.Ini.Flow)
	o.Substrate.SetHomogeneous(sim.Ini.Transport / 1000.0) // mg/l to mg/cm³
	o.Biomass.SetHomogeneous(0)
	copy(o.PressureIt, o.Pressure.New)
	o.UpdateState()
	o.StateNew.CopyInto(o.StateOld)
	return o, nil
}

func (o *Domain) allocate(n int) {
	o.Pressure = NewField(n)
	o.PressureIt = make([]float64, n)
	o.Substrate = NewField(n)
	o.Biomass = NewField(n)
	o.BioFrac = make([]float64, n)
	o.StateOld = NewNodalState(n)
	o.StateNew = NewNodalState(n)
}

// GrowBiomass advances the biomass concentration at every node over dt using
// Monod kinetics on the old substrate and old free saturation. While active
// is false the biomass stays frozen.
func (o *Domain) GrowBiomass(dt float64, active bool) {
	if !active {
		copy(o.Biomass.New, o.Biomass.Old)
		for i, b := range o.Biomass.New {
			o.BioFrac[i] = b / o.Sim.Reac.RhoBdry
		}
		return
	}
	r := o.Sim.Reac
	for i := range o.Biomass.New {
		c := o.Substrate.Old[i]
		if c < 0 {
			c = 0
		}
		sf := o.Mdl.EffectiveFreeSaturation(o.Pressure.Old[i], o.Biomass.Old[i])
		rate := r.Yield*r.Kmax*sf*c/(sf*c+r.Kc/1000.0) - r.Decay
		o.Biomass.New[i] = o.Biomass.Old[i] * math.Exp(rate*dt)
		o.BioFrac[i] = o.Biomass.New[i] / r.RhoBdry
	}
}

// UpdateState recomputes the new nodal hydraulic state from the
// previous-iteration pressure and the new biomass. The accumulation visits
// each vertex once per incident cell and divides by the incidence count, so
// shared vertices end with the exact nodal value.
func (o *Domain) UpdateState() {
	s := o.StateNew
	for i := range s.Kond {
		s.Kond[i] = 0
		s.ThetaTot[i] = 0
		s.ThetaFree[i] = 0
		s.Capacity[i] = 0
	}
	for _, c := range o.Msh.Cells {
		for _, v := range c.Verts {
			w := 1.0 / float64(o.Msh.NShared[v])
			p := o.PressureIt[v]
			b := o.Biomass.New[v]
			s.Kond[v] += w * o.Mdl.Conductivity(p, b, o.Sim.RelPerm)
			s.ThetaTot[v] += w * o.Mdl.MoistureContentTotal(p)
			s.ThetaFree[v] += w * o.Mdl.MoistureContentFree(p, b)
			s.Capacity[v] += w * o.Mdl.SpecificMoistureCapacity(p)
		}
	}
}

// CommitStep accepts the new time level after a converged timestep
func (o *Domain) CommitStep() {
	o.Pressure.Commit()
	o.Substrate.Commit()
	o.Biomass.Commit()
	o.StateNew.CopyInto(o.StateOld)
}

// EffectiveKond returns the harmonic mean of the nodal hydraulic conductivity
func (o *Domain) EffectiveKond() float64 {
	sum := 0.0
	for _, k := range o.StateNew.Kond {
		if k <= 0 {
			return 0
		}
		sum += 1.0 / k
	}
	return float64(len(o.StateNew.Kond)) / sum
}
