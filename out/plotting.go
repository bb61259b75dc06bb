// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/plt"
)

// PlotProfile plots one nodal field against the vertical coordinate of a 1D
// solution. Call plt.Save or plt.Show afterwards.
//  args -- formatting arguments; e.g. &plt.A{C: "blue", L: "pressure"}
func (o *Solution) PlotProfile(key string, args *plt.A) error {
	z, err := o.Get("x0")
	if err != nil {
		return err
	}
	y, err := o.Get(key)
	if err != nil {
		return err
	}
	plt.Plot(y, z, args)
	plt.Gll(key, "z [cm]", nil)
	return nil
}

// CompareProfiles plots the same field from several solution files on one
// figure; one set of formatting arguments per file
func CompareProfiles(key string, fns []string, args []*plt.A) error {
	if len(args) != len(fns) {
		return chk.Err("need one set of formatting arguments per file: %d != %d", len(args), len(fns))
	}
	for i, fn := range fns {
		sol, err := ReadSolution(fn)
		if err != nil {
			return err
		}
		if err = sol.PlotProfile(key, args[i]); err != nil {
			return err
		}
	}
	return nil
}
