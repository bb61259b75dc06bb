// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements post-processing of solution table files
package out

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Solution holds nodal results loaded from one solution table (.gp) file
type Solution struct {
	Keys []string             // column names, in file order
	M    map[string][]float64 // column name => values
}

// ReadSolution reads a solution table file written during a simulation
func ReadSolution(fn string) (sol *Solution, err error) {
	defer func() {
		if r := recover(); r != nil {
			sol, err = nil, chk.Err("cannot read solution file %q:\n%v", fn, r)
		}
	}()
	b := io.ReadFile(fn)
	o := &Solution{M: make(map[string][]float64)}
	for idx, line := range strings.Split(string(b), "\n") {
		sline := strings.TrimSpace(line)
		if sline == "" {
			continue
		}
		if strings.HasPrefix(sline, "#") {
			if len(o.Keys) > 0 {
				continue
			}
			o.Keys = strings.Fields(strings.TrimPrefix(sline, "#"))
			for _, key := range o.Keys {
				o.M[key] = []float64{}
			}
			continue
		}
		fields := strings.Fields(sline)
		if len(fields) != len(o.Keys) {
			return nil, chk.Err("line %d of %q has %d values but %d columns are declared", idx+1, fn, len(fields), len(o.Keys))
		}
		for j, key := range o.Keys {
			o.M[key] = append(o.M[key], io.Atof(fields[j]))
		}
	}
	if len(o.Keys) == 0 {
		return nil, chk.Err("solution file %q has no header line", fn)
	}
	return o, nil
}

// Get returns one column by name
func (o *Solution) Get(key string) ([]float64, error) {
	col, ok := o.M[key]
	if !ok {
		return nil, chk.Err("column %q is not available. columns are: %v", key, o.Keys)
	}
	return col, nil
}

// Nrows returns the number of rows (vertices)
func (o *Solution) Nrows() int {
	if len(o.Keys) == 0 {
		return 0
	}
	return len(o.M[o.Keys[0]])
}
