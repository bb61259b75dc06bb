// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_col01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("col01. hydrostatic equilibrium")

	// total head is constant along the column
	pbot, zbot := 141.85, -100.0
	chk.Float64(tst, "p(bot)", 1e-15, HydrostaticHead(pbot, zbot, zbot), pbot)
	chk.Float64(tst, "p(top)", 1e-13, HydrostaticHead(pbot, zbot, 0), 41.85)
	for _, z := range []float64{-75, -50, -10} {
		h := HydrostaticHead(pbot, zbot, z) + z
		chk.Float64(tst, "p+z", 1e-13, h, pbot+zbot)
	}
}

func Test_col02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("col02. steady saturated column")

	sol := SaturatedColumn{Ksat: 0.05, Pbot: 141.85, Ptop: 1.0, Zbot: -100, Ztop: 0}
	chk.Float64(tst, "p(zbot)", 1e-15, sol.Head(-100), 141.85)
	chk.Float64(tst, "p(ztop)", 1e-15, sol.Head(0), 1.0)
	chk.Float64(tst, "p(mid)", 1e-13, sol.Head(-50), 0.5*(141.85+1.0))

	// driving head difference is (1+0) - (141.85-100) = -40.85 over 100 cm
	chk.Float64(tst, "q", 1e-15, sol.Flux(), -0.05*(-40.85)/100.0)
}

func Test_col03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("col03. biomass growth")

	// no substrate: pure decay
	b := BiomassGrowth(1.0, 1e5, 0, 1, 0.5, 1e-5, 0.01, 1e-6)
	chk.Float64(tst, "decay", 1e-10, b, 0.9048374180359595)

	// abundant substrate: rate tends to y·kmax - kd
	b = BiomassGrowth(1.0, 1e5, 1e9, 1, 0.5, 1e-5, 0.01, 1e-6)
	chk.Float64(tst, "growth", 1e-6, b, 1.4918246976412703)
}
