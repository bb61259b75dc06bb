// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shp implements shape structures/routines for lin2 and qua4 cells
package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// constants
const MINDET = 1.0e-14 // minimum determinant allowed for dxdR

// Ipoint holds integration point data: natural coordinates and weight [r, s, t, w]
type Ipoint []float64

// ShpFunc is the shape functions callback function
type ShpFunc func(S []float64, dSdR [][]float64, r []float64, derivs bool)

// Shape holds geometry data
type Shape struct {

	// geometry
	Type           string      // name; e.g. "lin2"
	Func           ShpFunc     // shape/derivs function callback function
	FaceFunc       ShpFunc     // face shape/derivs function callback function
	FaceType       string      // geometry of face; e.g. "qua4" => "lin2"
	Gndim          int         // geometry dimension; e.g. "lin2" => 1
	Nverts         int         // number of vertices in cell
	VtkCode        int         // VTK code
	FaceNverts     int         // number of vertices on face
	FaceLocalVerts [][]int     // face local vertices [nfaces][...]
	NatCoords      [][]float64 // natural coordinates [gndim][nverts]

	// scratchpad: volume
	S    []float64   // [nverts] shape functions
	G    [][]float64 // [nverts][gndim] G == dSdx. derivative of shape function
	J    float64     // Jacobian: determinant of dxdR
	DSdR [][]float64 // [nverts][gndim] derivatives of S w.r.t natural coordinates
	DxdR [][]float64 // [gndim][gndim] derivatives of real coordinates w.r.t natural coordinates
	DRdx [][]float64 // [gndim][gndim] dRdx == inverse(dxdR)

	// scratchpad: face
	Sf     []float64   // [FaceNverts] face shape function values
	Fnvec  []float64   // [gndim] face normal vector multiplied by Jf
	DSfdRf [][]float64 // [FaceNverts][gndim-1] derivatives of Sf w.r.t natural coordinates
	DxfdRf [][]float64 // [gndim][gndim-1] derivatives of real coordinates w.r.t natural coordinates
}

// factory holds all Shapes available
var factory = make(map[string]*Shape)

// Get returns an existent Shape structure
func Get(geoType string) *Shape {
	s, ok := factory[geoType]
	if !ok {
		chk.Panic("cannot find shape type %q", geoType)
	}
	return s
}

// CalcAtIp calculates volume data such as S and G at integration point ip
//  Input:
//   x[ndim][nverts] -- coordinates matrix of cell
//   ip              -- integration point
//  Output:
//   S, DSdR, DxdR, DRdx, G, and J
func (o *Shape) CalcAtIp(x [][]float64, ip Ipoint, derivs bool) (err error) {

	// S and dSdR
	o.Func(o.S, o.DSdR, ip, derivs)
	if !derivs {
		return
	}

	// 1D line cell: J is the half-length
	if o.Gndim == 1 {
		o.DxdR[0][0] = 0
		for m := 0; m < o.Nverts; m++ {
			o.DxdR[0][0] += x[0][m] * o.DSdR[m][0]
		}
		o.J = o.DxdR[0][0]
		if o.J < MINDET {
			return chk.Err("shp: cell is distorted or vertices are not ordered: J=%g", o.J)
		}
		for m := 0; m < o.Nverts; m++ {
			o.G[m][0] = o.DSdR[m][0] / o.J
		}
		return
	}

	// dxdR := sum_n x * dSdR   =>  dx_i/dR_j := sum_n x^n_i * dS^n/dR_j
	for i := 0; i < len(x); i++ {
		for j := 0; j < o.Gndim; j++ {
			o.DxdR[i][j] = 0
			for n := 0; n < o.Nverts; n++ {
				o.DxdR[i][j] += x[i][n] * o.DSdR[n][j]
			}
		}
	}

	// dRdx := inv(dxdR), 2x2
	o.J = o.DxdR[0][0]*o.DxdR[1][1] - o.DxdR[0][1]*o.DxdR[1][0]
	if math.Abs(o.J) < MINDET {
		return chk.Err("shp: cell is distorted: J=%g", o.J)
	}
	o.DRdx[0][0] = o.DxdR[1][1] / o.J
	o.DRdx[0][1] = -o.DxdR[0][1] / o.J
	o.DRdx[1][0] = -o.DxdR[1][0] / o.J
	o.DRdx[1][1] = o.DxdR[0][0] / o.J

	// G == dSdx := dSdR * dRdx
	for m := 0; m < o.Nverts; m++ {
		for j := 0; j < o.Gndim; j++ {
			o.G[m][j] = 0
			for k := 0; k < o.Gndim; k++ {
				o.G[m][j] += o.DSdR[m][k] * o.DRdx[k][j]
			}
		}
	}
	return
}

// CalcAtFaceIp calculates face data such as Sf and Fnvec
//  Input:
//   x[ndim][nverts] -- coordinates matrix of cell
//   ipf             -- integration point on face
//   idxface         -- local index of face
//  Output:
//   Sf and Fnvec (non-normalised; magnitude is the face Jacobian)
func (o *Shape) CalcAtFaceIp(x [][]float64, ipf Ipoint, idxface int) (err error) {

	// 1D cell: the face is a point with unit shape value; the normal points
	// outwards along the single axis (vertices must be ordered)
	if o.Gndim == 1 {
		o.Sf[0] = 1
		if idxface == 0 {
			o.Fnvec[0] = -1
		} else {
			o.Fnvec[0] = 1
		}
		return
	}

	// Sf and dSfdR
	o.FaceFunc(o.Sf, o.DSfdRf, ipf, true)

	// dxfdRf := sum_n x * dSfdRf
	for i := 0; i < len(x); i++ {
		for j := 0; j < o.Gndim-1; j++ {
			o.DxfdRf[i][j] = 0
			for k, n := range o.FaceLocalVerts[idxface] {
				o.DxfdRf[i][j] += x[i][n] * o.DSfdRf[k][j]
			}
		}
	}

	// face normal vector (2D)
	o.Fnvec[0] = o.DxfdRf[1][0]
	o.Fnvec[1] = -o.DxfdRf[0][0]
	return
}

// FaceIpVolCoords maps a face integration point into the natural coordinates
// of the cell, so that volume quantities (S, G) can be evaluated on the face
func (o *Shape) FaceIpVolCoords(idxface int, ipf Ipoint) (r Ipoint) {
	r = make(Ipoint, 4)
	if o.Gndim == 1 {
		n := o.FaceLocalVerts[idxface][0]
		r[0] = o.NatCoords[0][n]
		r[3] = ipf[3]
		return
	}
	o.FaceFunc(o.Sf, o.DSfdRf, ipf, false)
	for k, n := range o.FaceLocalVerts[idxface] {
		for j := 0; j < o.Gndim; j++ {
			r[j] += o.Sf[k] * o.NatCoords[j][n]
		}
	}
	r[3] = ipf[3]
	return
}

// IpRealCoords returns the real coordinates (y) of an integration point
func (o *Shape) IpRealCoords(x [][]float64, ip Ipoint) (y []float64) {
	ndim := len(x)
	y = make([]float64, ndim)
	o.Func(o.S, o.DSdR, ip, false)
	for i := 0; i < ndim; i++ {
		for m := 0; m < o.Nverts; m++ {
			y[i] += o.S[m] * x[i][m]
		}
	}
	return
}

// init_scratchpad initialises volume and face data (scratchpad)
func (o *Shape) init_scratchpad() {

	// volume data
	o.S = make([]float64, o.Nverts)
	o.DSdR = utl.Alloc(o.Nverts, o.Gndim)
	o.DxdR = utl.Alloc(o.Gndim, o.Gndim)
	o.DRdx = utl.Alloc(o.Gndim, o.Gndim)
	o.G = utl.Alloc(o.Nverts, o.Gndim)

	// face data
	if o.Gndim > 1 {
		o.Sf = make([]float64, o.FaceNverts)
		o.DSfdRf = utl.Alloc(o.FaceNverts, o.Gndim-1)
		o.DxfdRf = utl.Alloc(o.Gndim, o.Gndim-1)
		o.Fnvec = make([]float64, o.Gndim)
	} else {
		o.Sf = make([]float64, 1)
		o.Fnvec = make([]float64, 1)
	}
}
