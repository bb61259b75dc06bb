// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydraulic

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

func Test_hyd01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("hyd01. van Genuchten retention")

	mdl := new(Model)
	err := mdl.Init(VanGenuchten, dbf.Params{
		&dbf.P{N: "thetas", V: 0.39},
		&dbf.P{N: "thetar", V: 0.04},
		&dbf.P{N: "ksat", V: 0.05},
		&dbf.P{N: "alp", V: 0.04},
		&dbf.P{N: "n", V: 4.0},
		&dbf.P{N: "rhobdry", V: 10.0},
	})
	if err != nil {
		tst.Errorf("Init failed: %v\n", err)
		return
	}
	chk.Float64(tst, "m", 1e-15, mdl.M, 0.75)

	// saturation bounds and monotonicity
	chk.Float64(tst, "Se(h≥0)", 1e-15, mdl.EffectiveTotalSaturation(10), 1.0)
	chk.Float64(tst, "θ(h≥0)", 1e-15, mdl.MoistureContentTotal(0), 0.39)
	prev := 1.0
	for _, h := range []float64{-1, -10, -25, -50, -100, -500} {
		se := mdl.EffectiveTotalSaturation(h)
		if se <= 0 || se >= prev {
			tst.Errorf("Se must decrease with suction: Se(%g)=%v prev=%v\n", h, se, prev)
			return
		}
		prev = se
	}
	chk.Float64(tst, "θ(-1e6)", 1e-4, mdl.MoistureContentTotal(-1e6), 0.04)

	// capacity approximates dθ/dh
	h, dh := -30.0, 1e-6
	dnum := (mdl.MoistureContentTotal(h+dh) - mdl.MoistureContentTotal(h-dh)) / (2.0 * dh)
	chk.Float64(tst, "C≈dθ/dh", 1e-7, mdl.SpecificMoistureCapacity(h), dnum)

	// rejects misspelled parameters
	err = mdl.Init(VanGenuchten, dbf.Params{&dbf.P{N: "alpo", V: 1}})
	if err == nil {
		tst.Errorf("Init must fail with a wrong parameter name\n")
	}
}

func Test_hyd02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("hyd02. Haverkamp conductivity")

	mdl := new(Model)
	err := mdl.Init(Haverkamp, dbf.Params{
		&dbf.P{N: "thetas", V: 0.287},
		&dbf.P{N: "thetar", V: 0.075},
		&dbf.P{N: "ksat", V: 9.44e-3},
	})
	if err != nil {
		tst.Errorf("Init failed: %v\n", err)
		return
	}

	// saturated limit and monotonic decay
	chk.Float64(tst, "K(0)", 1e-15, mdl.Conductivity(0, 0, Soleimani), 9.44e-3)
	prev := mdl.Conductivity(0, 0, Soleimani)
	for _, h := range []float64{-10, -30, -61.5, -100} {
		k := mdl.Conductivity(h, 0, Soleimani)
		if k <= 0 || k >= prev {
			tst.Errorf("K must decrease with suction: K(%g)=%v prev=%v\n", h, k, prev)
			return
		}
		prev = k
	}

	// capacity approximates dθ/dh
	h, dh := -20.0, 1e-6
	dnum := (mdl.MoistureContentTotal(h+dh) - mdl.MoistureContentTotal(h-dh)) / (2.0 * dh)
	chk.Float64(tst, "C≈dθ/dh", 1e-7, mdl.SpecificMoistureCapacity(h), dnum)
}

func Test_hyd03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("hyd03. biomass saturations and clogging models")

	mdl := new(Model)
	err := mdl.Init(VanGenuchten, mdl.GetPrms(true))
	if err != nil {
		tst.Errorf("Init failed: %v\n", err)
		return
	}

	// biomass saturation clamps
	chk.Float64(tst, "Sb(0)", 1e-15, mdl.EffectiveBiomassSaturation(0), 0.0)
	chk.Float64(tst, "Sb(huge)", 1e-15, mdl.EffectiveBiomassSaturation(1e6), 1.0)
	chk.Float64(tst, "Sf floor", 1e-15, mdl.EffectiveFreeSaturation(-1e4, 1e6), 0.0)

	// at saturation without biomass every model returns Ksat
	for _, rp := range []RelPerm{Soleimani, Clement, OkuboMatsumoto, Vandevivere} {
		chk.Float64(tst, "K(0,0)", 1e-14, mdl.Conductivity(0, 0, rp), mdl.Ksat)
	}

	// biovolume-based models at bv=0.5
	b := 0.5 * mdl.RhoBdry
	bv := 0.5
	chk.Float64(tst, "clement", 1e-14, mdl.Conductivity(0, b, Clement), mdl.Ksat*math.Pow(1.0-bv, 19.0/6.0))
	chk.Float64(tst, "okubo", 1e-14, mdl.Conductivity(0, b, OkuboMatsumoto), mdl.Ksat*0.25)

	// fully plugged pores
	bfull := mdl.RhoBdry
	for _, rp := range []RelPerm{Clement, OkuboMatsumoto, Vandevivere} {
		chk.Float64(tst, "K plugged", 1e-15, mdl.Conductivity(0, bfull, rp), 0.0)
	}

	// conductivity decreases with biomass
	prev := mdl.Conductivity(-10, 0, Soleimani)
	for _, f := range []float64{0.05, 0.1, 0.2} {
		k := mdl.Conductivity(-10, f*mdl.RhoBdry, Soleimani)
		if k > prev {
			tst.Errorf("K must not grow with biomass: K=%v prev=%v\n", k, prev)
			return
		}
		prev = k
	}
}

func Test_hyd04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("hyd04. model name parsing")

	if _, err := ParseConstitutive("brooks_corey"); err == nil {
		tst.Errorf("ParseConstitutive must fail for unknown models\n")
	}
	if _, err := ParseRelPerm("thullner"); err == nil {
		tst.Errorf("ParseRelPerm must fail for unknown models\n")
	}
	typ, err := ParseConstitutive("VAN_GENUCHTEN_1980")
	if err != nil {
		tst.Errorf("parse failed: %v\n", err)
		return
	}
	if typ != VanGenuchten {
		tst.Errorf("wrong constitutive type: %v\n", typ)
	}
}
