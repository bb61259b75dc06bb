// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"math"

	"github.com/cpmech/gosl/io"

	"github.com/zerpiko/soleimani-et-al-2009/inp"
)

// nodal output fields, in column order
var outFields = []string{
	"pressure", "substrate", "biofrac", "moist_free", "moist_tot",
	"conductivity", "capacity", "boundary",
}

// WriteResults saves the nodal solution at the given phase time. The format
// comes from the input file: "gnuplot" writes whitespace tables, "vtu"
// writes VTK unstructured grids.
func WriteResults(dom *Domain, ph *PhaseState, phaseTime float64) error {
	sim := dom.Sim
	form := sim.Eq.Form
	if sim.Eq.Lumped {
		form += "_lumped"
	}
	fnkey := io.Sf("solution_%s_%dd_%v_t_%v", form, sim.Geo.Ndim, ph.Phase, phaseTime)
	switch sim.Data.Format {
	case "gnuplot":
		return writeGnuplot(dom, fnkey)
	case "vtu":
		return writeVtu(dom, fnkey)
	}
	return NewErr(ErrConfig, "output format %q is invalid: options are: gnuplot, vtu", sim.Data.Format)
}

// boundaryId tags a vertex by position: top, bottom or interior
func boundaryId(msh *inp.Mesh, v *inp.Vert) int {
	z := v.C[msh.Ndim-1]
	switch {
	case math.Abs(z-msh.Zmax) < inp.Ztol:
		return inp.TagTop
	case math.Abs(z-msh.Zmin) < inp.Ztol:
		return inp.TagBottom
	}
	return 0
}

// fieldValue evaluates one named output field at vertex i
func fieldValue(dom *Domain, name string, i int) float64 {
	s := dom.StateNew
	switch name {
	case "pressure":
		return dom.Pressure.New[i]
	case "substrate":
		return dom.Substrate.New[i]
	case "biofrac":
		return dom.BioFrac[i]
	case "moist_free":
		return s.ThetaFree[i]
	case "moist_tot":
		return s.ThetaTot[i]
	case "conductivity":
		return s.Kond[i]
	case "capacity":
		return s.Capacity[i]
	}
	return float64(boundaryId(dom.Msh, dom.Msh.Verts[i]))
}

func writeGnuplot(dom *Domain, fnkey string) error {
	msh := dom.Msh
	var buf bytes.Buffer
	io.Ff(&buf, "#")
	for j := 0; j < msh.Ndim; j++ {
		io.Ff(&buf, " %22s", io.Sf("x%d", j))
	}
	for _, name := range outFields {
		io.Ff(&buf, " %23s", name)
	}
	io.Ff(&buf, "\n")
	for i, v := range msh.Verts {
		for j := 0; j < msh.Ndim; j++ {
			io.Ff(&buf, " %23.15e", v.C[j])
		}
		for _, name := range outFields {
			io.Ff(&buf, " %23.15e", fieldValue(dom, name, i))
		}
		io.Ff(&buf, "\n")
	}
	io.WriteFileVD(dom.Sim.Data.DirOut, fnkey+".gp", &buf)
	return nil
}

func writeVtu(dom *Domain, fnkey string) error {
	msh := dom.Msh
	nv := len(msh.Verts)
	nc := len(msh.Cells)

	var hdr, geo, dat, foo bytes.Buffer
	io.Ff(&hdr, "<?xml version=\"1.0\"?>\n<VTKFile type=\"UnstructuredGrid\" version=\"0.1\" byte_order=\"LittleEndian\">\n<UnstructuredGrid>\n")
	io.Ff(&hdr, "<Piece NumberOfPoints=\"%d\" NumberOfCells=\"%d\">\n", nv, nc)

	// coordinates
	io.Ff(&geo, "<Points>\n<DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
	for _, v := range msh.Verts {
		x, y := v.C[0], 0.0
		if msh.Ndim == 2 {
			y = v.C[1]
		}
		io.Ff(&geo, "%23.15e %23.15e %23.15e ", x, y, 0.0)
	}
	io.Ff(&geo, "\n</DataArray>\n</Points>\n")

	// connectivities
	io.Ff(&geo, "<Cells>\n<DataArray type=\"Int32\" Name=\"connectivity\" format=\"ascii\">\n")
	for _, c := range msh.Cells {
		for _, v := range c.Verts {
			io.Ff(&geo, "%d ", v)
		}
	}
	io.Ff(&geo, "\n</DataArray>\n<DataArray type=\"Int32\" Name=\"offsets\" format=\"ascii\">\n")
	offset := 0
	for _, c := range msh.Cells {
		offset += len(c.Verts)
		io.Ff(&geo, "%d ", offset)
	}
	io.Ff(&geo, "\n</DataArray>\n<DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n")
	for _, c := range msh.Cells {
		io.Ff(&geo, "%d ", c.Shp.VtkCode)
	}
	io.Ff(&geo, "\n</DataArray>\n</Cells>\n")

	// nodal fields
	io.Ff(&dat, "<PointData Scalars=\"TheScalars\">\n")
	for _, name := range outFields {
		io.Ff(&dat, "<DataArray type=\"Float64\" Name=\"%s\" NumberOfComponents=\"1\" format=\"ascii\">\n", name)
		for i := range msh.Verts {
			io.Ff(&dat, "%23.15e ", fieldValue(dom, name, i))
		}
		io.Ff(&dat, "\n</DataArray>\n")
	}
	io.Ff(&dat, "</PointData>\n")

	io.Ff(&foo, "</Piece>\n</UnstructuredGrid>\n</VTKFile>\n")
	io.WriteFileVD(dom.Sim.Data.DirOut, fnkey+".vtu", &hdr, &geo, &dat, &foo)
	return nil
}
