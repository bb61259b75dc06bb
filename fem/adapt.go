// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/zerpiko/soleimani-et-al-2009/inp"
)

// refinement bounds relative to the initial cell size
const (
	maxExtraLevels = 3    // smallest cell = initial size / 2^3
	refineFrac     = 0.5  // refine cells above this fraction of the largest indicator
	coarsenFrac    = 0.05 // coarsen cells below this fraction
)

// Adapt1D refines and coarsens the 1D mesh using a gradient-jump indicator
// of the given nodal field, then transfers all solution fields onto the new
// mesh in one swap. Returns whether the mesh changed.
//  Only the 1D mesh adapts; 2D meshes stay fixed.
func (o *Domain) Adapt1D(indicator []float64) bool {
	msh := o.Msh
	if msh.Ndim != 1 || len(msh.Cells) < 4 {
		return false
	}

	ncells := len(msh.Cells)
	h0 := o.Sim.Geo.Size / float64(int(1)<<uint(o.Sim.Geo.RefLev))
	hmin := h0 / float64(int(1)<<uint(maxExtraLevels))

	// per-cell gradients
	grad := make([]float64, ncells)
	size := make([]float64, ncells)
	for i, c := range msh.Cells {
		za := msh.Verts[c.Verts[0]].C[0]
		zb := msh.Verts[c.Verts[1]].C[0]
		size[i] = zb - za
		grad[i] = (indicator[c.Verts[1]] - indicator[c.Verts[0]]) / size[i]
	}

	// gradient-jump indicator per cell
	eta := make([]float64, ncells)
	etaMax := 0.0
	for i := range eta {
		if i > 0 {
			eta[i] = math.Abs(grad[i] - grad[i-1])
		}
		if i < ncells-1 {
			eta[i] = math.Max(eta[i], math.Abs(grad[i+1]-grad[i]))
		}
		etaMax = math.Max(etaMax, eta[i])
	}
	if etaMax == 0 {
		return false
	}

	// build the new coordinate list bottom to top
	zz := make([]float64, 0, 2*ncells)
	zz = append(zz, msh.Verts[msh.Cells[0].Verts[0]].C[0])
	changed := false
	for i := 0; i < ncells; i++ {
		c := msh.Cells[i]
		za := msh.Verts[c.Verts[0]].C[0]
		zb := msh.Verts[c.Verts[1]].C[0]

		// merge two equal-size quiet neighbours
		if i < ncells-1 &&
			eta[i] < coarsenFrac*etaMax && eta[i+1] < coarsenFrac*etaMax &&
			math.Abs(size[i]-size[i+1]) < 1e-12 && size[i]+size[i+1] <= h0+1e-12 {
			zb = msh.Verts[msh.Cells[i+1].Verts[1]].C[0]
			zz = append(zz, zb)
			changed = true
			i++
			continue
		}

		// split a busy cell
		if eta[i] > refineFrac*etaMax && size[i] > hmin+1e-12 {
			zz = append(zz, 0.5*(za+zb), zb)
			changed = true
			continue
		}
		zz = append(zz, zb)
	}
	if !changed {
		return false
	}

	// interpolate the committed fields onto the new vertices
	pOld := interp1D(msh, o.Pressure.Old, zz)
	cOld := interp1D(msh, o.Substrate.Old, zz)
	bOld := interp1D(msh, o.Biomass.Old, zz)

	// swap mesh and fields atomically
	o.Msh = inp.Mesh1DFromCoords(zz)
	o.allocate(len(zz))
	copy(o.Pressure.Old, pOld)
	copy(o.Pressure.New, pOld)
	copy(o.PressureIt, pOld)
	copy(o.Substrate.Old, cOld)
	copy(o.Substrate.New, cOld)
	copy(o.Biomass.Old, bOld)
	copy(o.Biomass.New, bOld)
	for i, b := range bOld {
		o.BioFrac[i] = b / o.Sim.Reac.RhoBdry
	}
	o.UpdateState()
	o.StateNew.CopyInto(o.StateOld)
	return true
}

// interp1D evaluates a nodal field of the (ascending) 1D mesh at coordinates zz
func interp1D(msh *inp.Mesh, f []float64, zz []float64) []float64 {
	out := make([]float64, len(zz))
	for i, z := range zz {
		// find the covering cell
		j := 0
		for j < len(msh.Cells)-1 && z > msh.Verts[msh.Cells[j].Verts[1]].C[0] {
			j++
		}
		c := msh.Cells[j]
		za := msh.Verts[c.Verts[0]].C[0]
		zb := msh.Verts[c.Verts[1]].C[0]
		t := (z - za) / (zb - za)
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		out[i] = (1.0-t)*f[c.Verts[0]] + t*f[c.Verts[1]]
	}
	return out
}
