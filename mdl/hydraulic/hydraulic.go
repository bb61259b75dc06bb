// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package hydraulic implements constitutive models for moisture retention and
// hydraulic conductivity in unsaturated porous media subjected to biological
// clogging
//  References:
//   [1] Soleimani S, Van Geel PJ, Isgor OB and Mostafa MB (2009) Modeling of biological
//       clogging in unsaturated porous media. Journal of Contaminant Hydrology, 106(1-2)
//   [2] van Genuchten MTh (1980) A closed-form equation for predicting the hydraulic
//       conductivity of unsaturated soils. Soil Science Society of America Journal, 44(5)
//   [3] Haverkamp R, Vauclin M, Touma J, Wierenga PJ and Vachaud G (1977) A comparison
//       of numerical simulation models for one-dimensional infiltration. Soil Science
//       Society of America Journal, 41(2)
package hydraulic

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Constitutive selects the moisture retention / conductivity model family
type Constitutive int

// RelPerm selects the biomass-dependent relative permeability model
type RelPerm int

const (
	Haverkamp   Constitutive = iota // haverkamp_et_al_1977
	VanGenuchten                    // van_genuchten_1980
)

const (
	Soleimani      RelPerm = iota // Soleimani et al. 2009
	Clement                       // Clement et al. 1996
	OkuboMatsumoto                // Okubo and Matsumoto 1979
	Vandevivere                   // Vandevivere 1995
)

// constants of the fixed-parameter models
const (
	haverkampCapAlpha = 1.611e6 // capacity numerator constant
	haverkampCapBeta  = 3.96    // capacity exponent
	haverkampCndA     = 1.175e6 // conductivity numerator constant
	haverkampCndGamma = 4.74    // conductivity exponent

	plugConductivity  = 0.00025 // Vandevivere: relative conductivity of the biofilm plug
	criticalBiovolume = 0.1     // Vandevivere: critical biovolume fraction
)

// ParseConstitutive converts a model name into the closed enumeration
func ParseConstitutive(name string) (Constitutive, error) {
	switch strings.ToLower(name) {
	case "haverkamp_et_al_1977":
		return Haverkamp, nil
	case "van_genuchten_1980":
		return VanGenuchten, nil
	}
	return 0, chk.Err("hydraulic property model %q is not implemented", name)
}

// ParseRelPerm converts a relative permeability model name into the closed enumeration
func ParseRelPerm(name string) (RelPerm, error) {
	switch strings.ToLower(name) {
	case "soleimani":
		return Soleimani, nil
	case "clement":
		return Clement, nil
	case "okubo_and_matsumoto":
		return OkuboMatsumoto, nil
	case "vandevivere":
		return Vandevivere, nil
	}
	return 0, chk.Err("relative permeability model %q is not implemented. Available models are: soleimani, clement, okubo_and_matsumoto, vandevivere", name)
}

// Model holds parameters of the coupled retention/conductivity model
type Model struct {

	// parameters
	Type    Constitutive // model family
	ThetaS  float64      // saturation moisture content
	ThetaR  float64      // residual moisture content
	Ksat    float64      // saturated hydraulic conductivity
	Alpha   float64      // van Genuchten α
	N       float64      // van Genuchten n
	M       float64      // van Genuchten m = 1 - 1/n
	RhoBdry float64      // biomass dry density
}

// Init initialises the model from named parameters
func (o *Model) Init(typ Constitutive, prms dbf.Params) (err error) {
	o.Type = typ
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "thetas":
			o.ThetaS = p.V
		case "thetar":
			o.ThetaR = p.V
		case "ksat":
			o.Ksat = p.V
		case "alp":
			o.Alpha = p.V
		case "n":
			o.N = p.V
		case "rhobdry":
			o.RhoBdry = p.V
		default:
			return chk.Err("hydraulic: parameter named %q is incorrect", p.N)
		}
	}
	if o.N > 0 {
		o.M = 1.0 - 1.0/o.N
	}
	return
}

// GetPrms gets (an example of) parameters
func (o Model) GetPrms(example bool) dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "thetas", V: 0.368},
		&dbf.P{N: "thetar", V: 0.102},
		&dbf.P{N: "ksat", V: 0.00922},
		&dbf.P{N: "alp", V: 0.0335},
		&dbf.P{N: "n", V: 2.0},
		&dbf.P{N: "rhobdry", V: 2.5},
	}
}

// SpecificMoistureCapacity returns C(h) = ∂θ/∂h.
//  For van Genuchten, pressure heads ≥ 0 are clamped to -0.01 since the
//  closed form degenerates at saturation.
func (o Model) SpecificMoistureCapacity(pressureHead float64) float64 {
	switch o.Type {
	case Haverkamp:
		α, β := haverkampCapAlpha, haverkampCapBeta
		ah := math.Abs(pressureHead)
		return -α * (o.ThetaS - o.ThetaR) * β * pressureHead * math.Pow(ah, β-2.0) /
			math.Pow(α+math.Pow(ah, β), 2.0)
	default: // VanGenuchten
		if pressureHead >= 0 {
			pressureHead = -0.01
		}
		ah := math.Abs(pressureHead)
		return -o.Alpha * o.M * o.N * (o.ThetaS - o.ThetaR) *
			math.Pow(o.Alpha*ah, o.N-1.0) *
			math.Pow(1.0+math.Pow(o.Alpha*ah, o.N), -o.M-1.0) *
			pressureHead / ah
	}
}

// EffectiveTotalSaturation returns Se(h) ∈ (0,1]; equals 1 at or above saturation
func (o Model) EffectiveTotalSaturation(pressureHead float64) float64 {
	if pressureHead >= 0 {
		return 1.0
	}
	ah := math.Abs(pressureHead)
	if o.Type == Haverkamp {
		return haverkampCapAlpha / (haverkampCapAlpha + math.Pow(ah, haverkampCapBeta))
	}
	return 1.0 / math.Pow(1.0+math.Pow(o.Alpha*ah, o.N), o.M)
}

// ActualTotalSaturation returns the absolute water saturation of the pore space
func (o Model) ActualTotalSaturation(pressureHead float64) float64 {
	rat := o.ThetaR / o.ThetaS
	return rat + (1.0-rat)*o.EffectiveTotalSaturation(pressureHead)
}

// EffectiveBiomassSaturation returns the effective pore-space fraction occupied
// by biomass, clamped to at most 1
func (o Model) EffectiveBiomassSaturation(biomassConc float64) float64 {
	actual := biomassConc / o.RhoBdry
	eff := actual / (1.0 - o.ThetaR/o.ThetaS)
	if eff > 1.0 {
		eff = 1.0
	}
	return eff
}

// ActualBiomassSaturation returns the absolute pore-space fraction occupied by biomass
func (o Model) ActualBiomassSaturation(biomassConc float64) float64 {
	return o.EffectiveBiomassSaturation(biomassConc) * (1.0 - o.ThetaR/o.ThetaS)
}

// EffectiveFreeSaturation returns the effective saturation available to flowing
// water: total minus biomass, floored at 0
func (o Model) EffectiveFreeSaturation(pressureHead, biomassConc float64) float64 {
	free := o.EffectiveTotalSaturation(pressureHead) - o.EffectiveBiomassSaturation(biomassConc)
	if free <= 0 {
		free = 0
	}
	return free
}

// MoistureContentTotal returns θ(h) ∈ [θr, θs]
func (o Model) MoistureContentTotal(pressureHead float64) float64 {
	return (o.ThetaS-o.ThetaR)*o.EffectiveTotalSaturation(pressureHead) + o.ThetaR
}

// MoistureContentFree returns the moisture content not bound in biomass
func (o Model) MoistureContentFree(pressureHead, biomassConc float64) float64 {
	return (o.ThetaS-o.ThetaR)*o.EffectiveFreeSaturation(pressureHead, biomassConc) + o.ThetaR
}

// Conductivity returns K(h,B) = Ksat · krel.
//  When the biomass saturation exceeds the total saturation, the total
//  saturation is raised to match: biomass cannot occupy more pore space than
//  is wetted.
func (o Model) Conductivity(pressureHead, biomassConc float64, model RelPerm) float64 {
	if o.Type == Haverkamp {
		return o.Ksat * haverkampCndA / (haverkampCndA + math.Pow(math.Abs(pressureHead), haverkampCndGamma))
	}

	se := o.EffectiveTotalSaturation(pressureHead)
	sb := o.EffectiveBiomassSaturation(biomassConc)
	if sb > se {
		se = sb
	}

	bv := biomassConc / o.RhoBdry // biovolume fraction
	var krel float64
	switch model {
	case Soleimani:
		krel = math.Sqrt(se) * math.Pow(
			math.Pow(1.0-math.Pow(sb, 1.0/o.M), o.M)-
				math.Pow(1.0-math.Pow(se, 1.0/o.M), o.M), 2.0)
	case Clement:
		if bv < 1.0 {
			krel = math.Pow(1.0-bv, 19.0/6.0)
		}
	case OkuboMatsumoto:
		if bv < 1.0 {
			krel = math.Pow(1.0-bv, 2.0)
		}
	case Vandevivere:
		if bv < 1.0 {
			φ := math.Exp(-0.5 * math.Pow(bv/criticalBiovolume, 2.0))
			krel = φ*math.Pow(1.0-bv, 2.0) +
				(1.0-φ)*plugConductivity/(plugConductivity+bv*(1.0-plugConductivity))
		}
	}
	return o.Ksat * krel
}
