// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"math"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"

	"github.com/zerpiko/soleimani-et-al-2009/shp"
)

// constants
const (
	Ztol = 1e-4 // geometric tolerance for locating boundary faces

	TagTop    = 1 // boundary tag of the top face (z = 0)
	TagBottom = 2 // boundary tag of the bottom face (z = -L)
)

// Vert holds vertex data
type Vert struct {
	Id  int       `json:"i"` // id
	Tag int       `json:"t"` // tag
	C   []float64 `json:"c"` // coordinates (size==1 or 2)
}

// Cell holds cell data
type Cell struct {

	// input data
	Id    int    `json:"i"`    // id
	Tag   int    `json:"t"`    // tag
	Type  string `json:"type"` // geometry type (string)
	Verts []int  `json:"v"`    // vertices
	FTags []int  `json:"ft"`   // face tags (0 means interior face)

	// derived
	Shp *shp.Shape `json:"-"` // shape structure
}

// CellFaceId holds a cell and one of its local face indices
type CellFaceId struct {
	C   *Cell // cell
	Fid int   // face id
}

// Mesh holds a mesh for FE analyses.
//  Each vertex carries exactly one unknown per system, so the vertex id is
//  also the equation number.
type Mesh struct {

	// from JSON or generators
	Verts []*Vert `json:"verts"` // vertices
	Cells []*Cell `json:"cells"` // cells

	// derived
	FnamePath  string  `json:"-"` // complete filename path ("" for generated meshes)
	Ndim       int     `json:"-"` // space dimension
	Zmin, Zmax float64 `json:"-"` // min and max vertical coordinate

	// derived: incidence and boundaries
	NShared  []int                `json:"-"` // number of cells sharing each vertex
	FaceTag2 map[int][]CellFaceId `json:"-"` // face tag => tagged faces
	TopVert  int                  `json:"-"` // probe vertex on the top boundary
}

// ReadMsh reads a mesh for FE analyses
func ReadMsh(dir, fn string) (*Mesh, error) {

	// new mesh
	var o Mesh

	// read file
	o.FnamePath = filepath.Join(dir, fn)
	b, err := readBytes(o.FnamePath)
	if err != nil {
		return nil, chk.Err("ReadMsh: cannot read mesh file %q", o.FnamePath)
	}

	// decode
	err = json.Unmarshal(b, &o)
	if err != nil {
		return nil, chk.Err("ReadMsh: cannot unmarshal mesh file %q: %v", o.FnamePath, err)
	}

	// check
	if len(o.Verts) < 2 {
		return nil, chk.Err("ReadMsh: mesh %q must have at least 2 vertices", o.FnamePath)
	}
	if len(o.Cells) < 1 {
		return nil, chk.Err("ReadMsh: mesh %q must have at least 1 cell", o.FnamePath)
	}

	// derived data
	err = o.CalcDerived()
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GenMesh1D generates the analytic 1D mesh: 2^reflev lin2 cells on [-L, 0],
// vertices ordered bottom to top
func GenMesh1D(size float64, reflev int) *Mesh {
	ncells := 1 << uint(reflev)
	zz := make([]float64, ncells+1)
	for i := 0; i <= ncells; i++ {
		zz[i] = -size + size*float64(i)/float64(ncells)
	}
	zz[ncells] = 0
	return Mesh1DFromCoords(zz)
}

// Mesh1DFromCoords builds a 1D mesh from an ordered (ascending) list of
// vertical coordinates. Used by the analytic generator and by mesh adaptation.
func Mesh1DFromCoords(zz []float64) *Mesh {
	var o Mesh
	o.Verts = make([]*Vert, len(zz))
	for i, z := range zz {
		o.Verts[i] = &Vert{Id: i, C: []float64{z}}
	}
	o.Cells = make([]*Cell, len(zz)-1)
	for i := 0; i < len(zz)-1; i++ {
		o.Cells[i] = &Cell{Id: i, Type: "lin2", Verts: []int{i, i + 1}, FTags: []int{0, 0}}
	}
	o.Cells[0].FTags[0] = TagBottom
	o.Cells[len(o.Cells)-1].FTags[1] = TagTop
	err := o.CalcDerived()
	if err != nil {
		chk.Panic("Mesh1DFromCoords: %v", err)
	}
	return &o
}

// GenMesh2D generates the analytic 2D mesh: (2^reflev)² qua4 cells on [-L, 0]²
func GenMesh2D(size float64, reflev int) *Mesh {
	n := 1 << uint(reflev) // cells per direction
	var o Mesh

	// vertices, row by row from bottom
	o.Verts = make([]*Vert, (n+1)*(n+1))
	for j := 0; j <= n; j++ {
		z := -size + size*float64(j)/float64(n)
		if j == n {
			z = 0
		}
		for i := 0; i <= n; i++ {
			x := -size + size*float64(i)/float64(n)
			if i == n {
				x = 0
			}
			id := j*(n+1) + i
			o.Verts[id] = &Vert{Id: id, C: []float64{x, z}}
		}
	}

	// cells with counter-clockwise connectivity
	o.Cells = make([]*Cell, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			id := j*n + i
			a := j*(n+1) + i
			o.Cells[id] = &Cell{
				Id:    id,
				Type:  "qua4",
				Verts: []int{a, a + 1, a + n + 2, a + n + 1},
				FTags: []int{0, 0, 0, 0},
			}
			if j == 0 {
				o.Cells[id].FTags[0] = TagBottom // face 0: verts 0-1
			}
			if j == n-1 {
				o.Cells[id].FTags[2] = TagTop // face 2: verts 2-3
			}
		}
	}
	err := o.CalcDerived()
	if err != nil {
		chk.Panic("GenMesh2D: %v", err)
	}
	return &o
}

// CalcDerived computes shapes, incidence counts and boundary face maps
func (o *Mesh) CalcDerived() (err error) {

	// dimension and extremes
	o.Ndim = len(o.Verts[0].C)
	o.Zmin, o.Zmax = math.MaxFloat64, -math.MaxFloat64
	for _, v := range o.Verts {
		z := v.C[o.Ndim-1]
		o.Zmin = utl.Min(o.Zmin, z)
		o.Zmax = utl.Max(o.Zmax, z)
	}

	// shapes and incidence counts
	o.NShared = make([]int, len(o.Verts))
	for _, c := range o.Cells {
		o.Shp_alloc(c)
		if len(c.Verts) != c.Shp.Nverts {
			return chk.Err("cell %d: %q needs %d vertices. %d given", c.Id, c.Type, c.Shp.Nverts, len(c.Verts))
		}
		for _, v := range c.Verts {
			o.NShared[v]++
		}
	}

	// boundary faces
	o.FaceTag2 = make(map[int][]CellFaceId)
	for _, c := range o.Cells {
		for f, tag := range c.FTags {
			if tag != 0 {
				o.FaceTag2[tag] = append(o.FaceTag2[tag], CellFaceId{c, f})
			}
		}
	}

	// top probe vertex
	o.TopVert = -1
	for _, v := range o.Verts {
		if math.Abs(v.C[o.Ndim-1]-o.Zmax) < Ztol {
			o.TopVert = v.Id
			break
		}
	}
	if o.TopVert < 0 {
		return chk.Err("mesh has no vertex on the top boundary")
	}
	return
}

// Shp_alloc allocates the shape structure of a cell
func (o *Mesh) Shp_alloc(c *Cell) {
	c.Shp = shp.Get(c.Type)
}

// CellCoords returns the coordinates matrix of a cell: x[dim][vertex]
func (o *Mesh) CellCoords(c *Cell) (x [][]float64) {
	x = make([][]float64, o.Ndim)
	for i := 0; i < o.Ndim; i++ {
		x[i] = make([]float64, len(c.Verts))
		for j, v := range c.Verts {
			x[i][j] = o.Verts[v].C[i]
		}
	}
	return
}

// CellDiameter returns the largest distance between two vertices of a cell
func (o *Mesh) CellDiameter(c *Cell) (d float64) {
	for i := 0; i < len(c.Verts); i++ {
		for j := i + 1; j < len(c.Verts); j++ {
			sum := 0.0
			for k := 0; k < o.Ndim; k++ {
				Δ := o.Verts[c.Verts[i]].C[k] - o.Verts[c.Verts[j]].C[k]
				sum += Δ * Δ
			}
			d = utl.Max(d, math.Sqrt(sum))
		}
	}
	return
}
