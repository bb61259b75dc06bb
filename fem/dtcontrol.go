// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/zerpiko/soleimani-et-al-2009/inp"

// UpdateDt returns the time step for the next timestep.
//  steps is the number of Picard iterations spent on the accepted timestep;
//  a quickly converging step doubles dt, a transition resets it to the
//  baseline, and the phase bounds clamp the result.
func UpdateDt(dt float64, steps int, ph *PhaseState, sv *inp.SolverData) float64 {
	if ph.RedefineDt {
		ph.RedefineDt = false
		dt = sv.DtMin
	} else if steps < sv.DtGrow {
		dt *= 2
	}
	if dt < sv.DtMin {
		dt = sv.DtMin
	}
	switch ph.Phase {
	case Drying, Saturating:
		if dt > sv.DtMaxFlow {
			dt = sv.DtMaxFlow
		}
	case Transporting:
		if dt > sv.DtMaxTrans {
			dt = sv.DtMaxTrans
		}
	}
	return dt
}
