// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements closed-form solutions used to verify simulations
package ana

import "math"

// HydrostaticHead returns the pressure head at elevation z of a column in
// hydrostatic equilibrium with pressure pRef at elevation zRef. The total
// head p+z is constant, so the flux vanishes everywhere.
func HydrostaticHead(pRef, zRef, z float64) float64 {
	return pRef + zRef - z
}

// SaturatedColumn holds the steady solution of saturated flow through a
// vertical column with both ends at fixed pressure head
type SaturatedColumn struct {
	Ksat float64 // saturated hydraulic conductivity
	Pbot float64 // pressure head at the bottom
	Ptop float64 // pressure head at the top
	Zbot float64 // bottom elevation
	Ztop float64 // top elevation
}

// Head returns the steady pressure head at elevation z; linear between ends
func (o *SaturatedColumn) Head(z float64) float64 {
	t := (z - o.Zbot) / (o.Ztop - o.Zbot)
	return (1.0-t)*o.Pbot + t*o.Ptop
}

// Flux returns the (constant) Darcy flux; positive means upward flow
func (o *SaturatedColumn) Flux() float64 {
	return -o.Ksat * ((o.Ptop + o.Ztop) - (o.Pbot + o.Zbot)) / (o.Ztop - o.Zbot)
}

// BiomassGrowth returns the biomass concentration after time t under constant
// substrate concentration c and free saturation s, following Monod kinetics
// with yield y, maximum substrate use rate kmax, half-velocity constant kc
// and decay rate kd
func BiomassGrowth(b0, t, c, s, y, kmax, kc, kd float64) float64 {
	rate := y*kmax*s*c/(s*c+kc) - kd
	return b0 * math.Exp(rate*t)
}
