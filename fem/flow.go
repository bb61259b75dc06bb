// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"

	"github.com/zerpiko/soleimani-et-al-2009/inp"
	"github.com/zerpiko/soleimani-et-al-2009/lin"
)

// dirichlet holds prescribed equations for direct elimination during assembly
type dirichlet struct {
	presc  []bool    // equation is prescribed
	val    []float64 // prescribed values
	colAdj []float64 // accumulated a(I,J)·val(J) for prescribed columns J
}

func newDirichlet(n int) *dirichlet {
	return &dirichlet{
		presc:  make([]bool, n),
		val:    make([]float64, n),
		colAdj: make([]float64, n),
	}
}

// reset clears all prescriptions
func (o *dirichlet) reset() {
	for i := range o.presc {
		o.presc[i] = false
		o.val[i] = 0
		o.colAdj[i] = 0
	}
}

// set prescribes one equation
func (o *dirichlet) set(eq int, val float64) {
	o.presc[eq] = true
	o.val[eq] = val
}

// put adds a(I,J) to the system triplet, skipping prescribed rows and moving
// prescribed columns to the right hand side adjustment
func (o *dirichlet) put(t *la.Triplet, diag []float64, I, J int, a float64) {
	if o.presc[I] {
		return
	}
	if o.presc[J] {
		o.colAdj[I] += a * o.val[J]
		return
	}
	t.Put(I, J, a)
	if I == J {
		diag[I] += a
	}
}

// finish places unit diagonals on prescribed rows and fixes the rhs
func (o *dirichlet) finish(t *la.Triplet, diag, rhs []float64) {
	for i := range o.presc {
		if o.presc[i] {
			t.Put(i, i, 1)
			diag[i] = 1
			rhs[i] = o.val[i]
		} else {
			rhs[i] -= o.colAdj[i]
		}
	}
}

// FlowAssembler builds and solves the Richards (unsaturated flow) system.
//  The final system is
//   (M + θ·Δt·L_new)·p_new = M·p_ref + rhs − (1−θ)·Δt·L_old·p_old
//  where p_ref is the old solution for the head form or the previous
//  iteration for the mixed form.
type FlowAssembler struct {
	dom *Domain
	n   int

	// sparse structures, rebuilt every assembly
	tripM  la.Triplet // mass matrix
	tripLO la.Triplet // stiffness at the old time level
	tripA  la.Triplet // system matrix with eliminated boundary equations

	// dense scratch
	rhs  []float64 // right hand side under construction
	diag []float64 // system matrix diagonal, for the Jacobi preconditioner
	tmp  []float64
	bc   *dirichlet
}

// NewFlowAssembler allocates the assembler for the current mesh
func NewFlowAssembler(dom *Domain) *FlowAssembler {
	o := &FlowAssembler{dom: dom, n: len(dom.Msh.Verts)}
	nnz := 0
	for _, c := range dom.Msh.Cells {
		nnz += len(c.Verts) * len(c.Verts)
	}
	o.tripM.Init(o.n, o.n, nnz)
	o.tripLO.Init(o.n, o.n, nnz)
	o.tripA.Init(o.n, o.n, nnz+o.n)
	o.rhs = make([]float64, o.n)
	o.diag = make([]float64, o.n)
	o.tmp = make([]float64, o.n)
	o.bc = newDirichlet(o.n)
	return o
}

// Solve assembles the flow system at time t for time step dt and solves it
// into Pressure.New. drying disables the top boundary flux and the top fixed
// head.
func (o *FlowAssembler) Solve(t, dt float64, drying bool) error {

	dom := o.dom
	sim := dom.Sim
	msh := dom.Msh
	θ := sim.Time.ThFlow

	// prescribed equations
	o.bc.reset()
	if sim.Bc.RichFixBot {
		for _, cf := range msh.FaceTag2[inp.TagBottom] {
			for _, l := range cf.C.Shp.FaceLocalVerts[cf.Fid] {
				o.bc.set(cf.C.Verts[l], sim.Bc.RichBotVal)
			}
		}
	}
	if sim.Bc.RichFixTop && !drying {
		for _, cf := range msh.FaceTag2[inp.TagTop] {
			for _, l := range cf.C.Shp.FaceLocalVerts[cf.Fid] {
				o.bc.set(cf.C.Verts[l], sim.Bc.RichTopVal)
			}
		}
	}

	o.tripM.Start()
	o.tripLO.Start()
	o.tripA.Start()
	la.Vector(o.rhs).Fill(0)
	la.Vector(o.diag).Fill(0)
	dom.FlowTop = 0
	dom.FlowBot = 0

	// top boundary flux value
	topFlow := 0.0
	if !drying {
		topFlow = sim.Bc.RichTopFlow
		if sim.TopFun != nil {
			topFlow = sim.TopFun.F(t, nil)
		}
	}

	for _, c := range msh.Cells {
		nv := len(c.Verts)
		sh := c.Shp
		x := msh.CellCoords(c)
		ips, err := sh.GetIps(sim.Eq.Lumped)
		if err != nil {
			return WrapErr(ErrConfig, err)
		}

		me := utl.Alloc(nv, nv)
		lne := utl.Alloc(nv, nv)
		loe := utl.Alloc(nv, nv)
		rhse := make([]float64, nv)

		for _, ip := range ips {
			err = sh.CalcAtIp(x, ip, true)
			if err != nil {
				return WrapErr(ErrNumerical, err)
			}
			cf := sh.J * ip[3]
			for k := 0; k < nv; k++ {
				K := c.Verts[k]
				capBlend := θ*dom.StateNew.Capacity[K] + (1.0-θ)*dom.StateOld.Capacity[K]
				if sim.Mixed {
					capBlend = dom.StateNew.Capacity[K]
				}
				kNew := dom.StateNew.Kond[K]
				kOld := dom.StateOld.Kond[K]
				for i := 0; i < nv; i++ {
					for j := 0; j < nv; j++ {
						me[i][j] += capBlend * sh.S[k] * sh.S[i] * sh.S[j] * cf
						gg := 0.0
						for d := 0; d < msh.Ndim; d++ {
							gg += sh.G[j][d] * sh.G[i][d]
						}
						lne[i][j] += kNew * sh.S[k] * gg * cf
						loe[i][j] += kOld * sh.S[k] * gg * cf
					}

					// gravity load
					rhse[i] -= dt * (θ*kNew + (1.0-θ)*kOld) * sh.S[k] * sh.G[i][msh.Ndim-1] * cf

					// moisture change for the mixed form
					if sim.Mixed {
						rhse[i] -= (dom.StateNew.ThetaTot[K] - dom.StateOld.ThetaTot[K]) *
							sh.S[k] * sh.S[i] * cf
					}
				}
			}
		}

		// boundary faces
		for f, tag := range c.FTags {
			if tag == 0 {
				continue
			}
			fips, err := sh.GetFaceIps(1)
			if err != nil {
				return WrapErr(ErrConfig, err)
			}
			for _, ipf := range fips {
				err = sh.CalcAtFaceIp(x, ipf, f)
				if err != nil {
					return WrapErr(ErrNumerical, err)
				}
				fn := make([]float64, len(sh.Fnvec))
				copy(fn, sh.Fnvec)

				// face Jacobian; |Fnvec| carries the surface metric
				jf := 0.0
				for d := 0; d < len(fn); d++ {
					jf += fn[d] * fn[d]
				}
				jf = math.Sqrt(jf)

				// volume shapes restricted to the face point
				rv := sh.FaceIpVolCoords(f, ipf)
				err = sh.CalcAtIp(x, rv, true)
				if err != nil {
					return WrapErr(ErrNumerical, err)
				}

				// imposed flux at the top
				if tag == inp.TagTop && !sim.Bc.RichFixTop {
					for k := 0; k < nv; k++ {
						for i := 0; i < nv; i++ {
							rhse[i] -= dt * topFlow * sh.S[k] * sh.S[i] * jf * ipf[3]
						}
					}
				}

				// water flux through top and bottom
				flow := 0.0
				for k := 0; k < nv; k++ {
					K := c.Verts[k]
					for j := 0; j < nv; j++ {
						J := c.Verts[j]
						z := msh.Verts[J].C[msh.Ndim-1]
						ndot := 0.0
						for d := 0; d < len(fn); d++ {
							ndot += fn[d] * sh.G[j][d]
						}
						flow -= (θ*dom.StateNew.Kond[K]*sh.S[k]*(dom.PressureIt[J]+z) +
							(1.0-θ)*dom.StateOld.Kond[K]*sh.S[k]*(dom.Pressure.Old[J]+z)) *
							ndot * ipf[3]
					}
				}
				if tag == inp.TagTop {
					dom.FlowTop += flow
				} else if tag == inp.TagBottom {
					dom.FlowBot += flow
				}
			}
		}

		// scatter into global structures
		for i := 0; i < nv; i++ {
			I := c.Verts[i]
			o.rhs[I] += rhse[i]
			for j := 0; j < nv; j++ {
				J := c.Verts[j]
				o.tripM.Put(I, J, me[i][j])
				o.tripLO.Put(I, J, loe[i][j])
				o.bc.put(&o.tripA, o.diag, I, J, me[i][j]+θ*dt*lne[i][j])
			}
		}
	}

	// rhs += M·p_ref − (1−θ)·Δt·L_old·p_old
	M := o.tripM.ToMatrix(nil)
	pref := dom.Pressure.Old
	if sim.Mixed {
		pref = dom.PressureIt
	}
	la.SpMatVecMulAdd(o.rhs, 1, M, pref)
	LO := o.tripLO.ToMatrix(nil)
	la.SpMatVecMul(o.tmp, 1, LO, dom.Pressure.Old)
	for i := 0; i < o.n; i++ {
		o.rhs[i] -= (1.0 - θ) * dt * o.tmp[i]
	}

	// prescribed equations
	o.bc.finish(&o.tripA, o.diag, o.rhs)

	// solve
	A := o.tripA.ToMatrix(nil)
	copy(dom.Pressure.New, dom.PressureIt)
	_, err := lin.Cg(A, dom.Pressure.New, o.rhs, lin.NewJacobi(o.diag),
		sim.Solver.LinTol, sim.Solver.LinItFac*o.n)
	if err != nil {
		return WrapErr(ErrSolver, err)
	}
	return nil
}
