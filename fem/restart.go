// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/io"
)

// snapshot regimes
const (
	RegimeDry       = "dry"
	RegimeSaturated = "saturated"
	RegimeFinal     = "final"
)

// stateFilename returns the snapshot filename of one field in one regime
func stateFilename(dir, regime, field string) string {
	return filepath.Join(dir, io.Sf("state_%s_%s.ph", regime, field))
}

func saveVector(fn string, v []float64) error {
	f, err := os.Create(fn)
	if err != nil {
		return NewErr(ErrIO, "cannot create state file %q: %v", fn, err)
	}
	defer f.Close()
	err = gob.NewEncoder(f).Encode(v)
	if err != nil {
		return NewErr(ErrIO, "cannot encode state file %q: %v", fn, err)
	}
	return nil
}

func loadVector(fn string, n int) ([]float64, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, NewErr(ErrIO, "cannot open state file %q: %v", fn, err)
	}
	defer f.Close()
	var v []float64
	err = gob.NewDecoder(f).Decode(&v)
	if err != nil {
		return nil, NewErr(ErrIO, "cannot decode state file %q: %v", fn, err)
	}
	if len(v) != n {
		return nil, NewErr(ErrIO, "state file %q has %d values. %d expected", fn, len(v), n)
	}
	return v, nil
}

// SaveState writes the pressure, substrate and biomass snapshot of a regime
func SaveState(dir, regime string, dom *Domain) error {
	err := saveVector(stateFilename(dir, regime, "pressure"), dom.Pressure.New)
	if err != nil {
		return err
	}
	err = saveVector(stateFilename(dir, regime, "substrate"), dom.Substrate.New)
	if err != nil {
		return err
	}
	return saveVector(stateFilename(dir, regime, "bacteria"), dom.Biomass.New)
}

// LoadState overwrites the domain fields with a saved regime snapshot.
// Missing or malformed snapshot files abort the run.
func LoadState(dir, regime string, dom *Domain) error {
	n := len(dom.Msh.Verts)
	p, err := loadVector(stateFilename(dir, regime, "pressure"), n)
	if err != nil {
		return err
	}
	c, err := loadVector(stateFilename(dir, regime, "substrate"), n)
	if err != nil {
		return err
	}
	b, err := loadVector(stateFilename(dir, regime, "bacteria"), n)
	if err != nil {
		return err
	}
	copy(dom.Pressure.Old, p)
	copy(dom.Pressure.New, p)
	copy(dom.PressureIt, p)
	copy(dom.Substrate.Old, c)
	copy(dom.Substrate.New, c)
	copy(dom.Biomass.Old, b)
	copy(dom.Biomass.New, b)
	for i, v := range b {
		dom.BioFrac[i] = v / dom.Sim.Reac.RhoBdry
	}
	dom.UpdateState()
	dom.StateNew.CopyInto(dom.StateOld)
	return nil
}

// RegimeForState returns the snapshot regime to load for an initial state
// name, or "" when the run starts from homogeneous conditions
func RegimeForState(state string) string {
	switch state {
	case "dry":
		return RegimeDry
	case "saturated":
		return RegimeSaturated
	case "final":
		return RegimeFinal
	}
	return ""
}
