// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// Material holds one named set of hydraulic properties
type Material struct {
	Name    string     `json:"name"`    // name of material
	Model   string     `json:"model"`   // constitutive model; e.g. "van_genuchten_1980"
	RelPerm string     `json:"relperm"` // relative permeability model; empty keeps the .sim selection
	Prms    dbf.Params `json:"prms"`    // model parameters
}

// MatsData holds materials
type MatsData []*Material

// MatDb implements a database of materials
type MatDb struct {
	Functions FuncsData `json:"functions"` // all named functions of time
	Materials MatsData  `json:"materials"` // all materials
}

// ReadMat reads a material database file
func ReadMat(dir, fn string) (mdb *MatDb, err error) {
	b, err := readBytes(filepath.Join(dir, fn))
	if err != nil {
		return nil, chk.Err("cannot read material database %q:\n%v", fn, err)
	}
	mdb = new(MatDb)
	if err = json.Unmarshal(b, mdb); err != nil {
		return nil, chk.Err("cannot unmarshal material database %q:\n%v", fn, err)
	}
	return
}

// Get returns a material by name; nil means not found
func (o *MatDb) Get(name string) *Material {
	for _, mat := range o.Materials {
		if mat.Name == name {
			return mat
		}
	}
	return nil
}

// String prints one material
func (o *Material) String() string {
	return io.Sf("    {\"name\":%q, \"model\":%q, \"relperm\":%q, \"prms\":%v}", o.Name, o.Model, o.RelPerm, o.Prms)
}
