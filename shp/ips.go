// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// integration point sets. Each Ipoint is {r, s, t, w}
var (
	// Gauss-Legendre, order 2
	ips_lin2_gauss = []Ipoint{
		{-1.0 / math.Sqrt(3.0), 0, 0, 1},
		{1.0 / math.Sqrt(3.0), 0, 0, 1},
	}
	ips_qua4_gauss = []Ipoint{
		{-1.0 / math.Sqrt(3.0), -1.0 / math.Sqrt(3.0), 0, 1},
		{1.0 / math.Sqrt(3.0), -1.0 / math.Sqrt(3.0), 0, 1},
		{1.0 / math.Sqrt(3.0), 1.0 / math.Sqrt(3.0), 0, 1},
		{-1.0 / math.Sqrt(3.0), 1.0 / math.Sqrt(3.0), 0, 1},
	}

	// nodal (trapezoidal) rules; produce lumped mass matrices
	ips_lin2_nodal = []Ipoint{
		{-1, 0, 0, 1},
		{1, 0, 0, 1},
	}
	ips_qua4_nodal = []Ipoint{
		{-1, -1, 0, 1},
		{1, -1, 0, 1},
		{1, 1, 0, 1},
		{-1, 1, 0, 1},
	}

	// face rules
	ips_point = []Ipoint{
		{0, 0, 0, 1},
	}
	ips_lin2_face1 = []Ipoint{
		{0, 0, 0, 2},
	}
	ips_lin2_face2 = []Ipoint{
		{-1.0 / math.Sqrt(3.0), 0, 0, 1},
		{1.0 / math.Sqrt(3.0), 0, 0, 1},
	}
)

// GetIps returns the integration points of a cell.
//  lumped==true selects the nodal (trapezoidal) rule used for lumped mass matrices
func (o *Shape) GetIps(lumped bool) (ips []Ipoint, err error) {
	switch o.Type {
	case "lin2":
		if lumped {
			return ips_lin2_nodal, nil
		}
		return ips_lin2_gauss, nil
	case "qua4":
		if lumped {
			return ips_qua4_nodal, nil
		}
		return ips_qua4_gauss, nil
	}
	return nil, chk.Err("integration points are not available for shape type %q", o.Type)
}

// GetFaceIps returns integration points on a face with nip points (1 or 2).
//  For 1D cells the face is a point and nip is ignored.
func (o *Shape) GetFaceIps(nip int) (ips []Ipoint, err error) {
	if o.Gndim == 1 {
		return ips_point, nil
	}
	switch nip {
	case 1:
		return ips_lin2_face1, nil
	case 2:
		return ips_lin2_face2, nil
	}
	return nil, chk.Err("face integration rule with nip=%d is not available for shape type %q", nip, o.Type)
}
