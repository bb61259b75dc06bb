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
	"github.com/zerpiko/soleimani-et-al-2009/shp"
)

// numerical floors below which stabilization is switched off
const (
	velocityFloor  = 1e-6
	diffusionFloor = 1e-10
)

// TransportAssembler builds and solves the solute transport system with
// streamline-upwind (SUPG) stabilization.
//  The final system is
//   (M_new + θ·Δt·L_new)·c_new = M_old·c_old + rhs − (1−θ)·Δt·L_old·c_old
type TransportAssembler struct {
	dom *Domain
	n   int

	tripMO la.Triplet // mass matrix at the old time level
	tripLO la.Triplet // stiffness at the old time level
	tripA  la.Triplet // system matrix with eliminated boundary equations

	rhs  []float64
	diag []float64
	tmp  []float64
	bc   *dirichlet
}

// NewTransportAssembler allocates the assembler for the current mesh
func NewTransportAssembler(dom *Domain) *TransportAssembler {
	o := &TransportAssembler{dom: dom, n: len(dom.Msh.Verts)}
	nnz := 0
	for _, c := range dom.Msh.Cells {
		nnz += len(c.Verts) * len(c.Verts)
	}
	o.tripMO.Init(o.n, o.n, nnz)
	o.tripLO.Init(o.n, o.n, nnz)
	o.tripA.Init(o.n, o.n, nnz+o.n)
	o.rhs = make([]float64, o.n)
	o.diag = make([]float64, o.n)
	o.tmp = make([]float64, o.n)
	o.bc = newDirichlet(o.n)
	return o
}

// cellVelocity computes the cell-averaged Darcy velocities at both time
// levels from the nodal conductivities and hydraulic heads
func (o *TransportAssembler) cellVelocity(c *inp.Cell, x [][]float64, ips []shp.Ipoint) (vNew, vOld []float64, err error) {
	dom := o.dom
	msh := dom.Msh
	sh := c.Shp
	nv := len(c.Verts)
	ndim := msh.Ndim
	vNew = make([]float64, ndim)
	vOld = make([]float64, ndim)
	dV := 0.0
	for _, ip := range ips {
		err = sh.CalcAtIp(x, ip, true)
		if err != nil {
			return nil, nil, WrapErr(ErrNumerical, err)
		}
		cf := sh.J * ip[3]
		for k := 0; k < nv; k++ {
			K := c.Verts[k]
			z := msh.Verts[K].C[ndim-1]
			hNew := dom.PressureIt[K] + z
			hOld := dom.Pressure.Old[K] + z
			for d := 0; d < ndim; d++ {
				vNew[d] -= dom.StateNew.Kond[K] * hNew * sh.G[k][d] * cf
				vOld[d] -= dom.StateOld.Kond[K] * hOld * sh.G[k][d] * cf
			}
			dV += sh.S[k] * cf

			// substrate mass currently in the domain
			dom.MassInside += dom.StateNew.ThetaFree[K] * dom.Substrate.New[K] * sh.S[k] * cf
		}
	}
	for d := 0; d < ndim; d++ {
		vNew[d] /= dV
		vOld[d] /= dV
	}

	// floors: negligible velocities are zeroed; a negligible old velocity
	// inherits the new one
	if la.Vector(vNew).Norm() < velocityFloor {
		la.Vector(vNew).Fill(0)
		la.Vector(vOld).Fill(0)
	}
	if la.Vector(vNew).Norm() >= velocityFloor && la.Vector(vOld).Norm() < velocityFloor {
		copy(vOld, vNew)
	}
	if math.IsNaN(la.Vector(vNew).Norm()) || math.IsNaN(la.Vector(vOld).Norm()) ||
		math.IsInf(la.Vector(vNew).Norm(), 0) || math.IsInf(la.Vector(vOld).Norm(), 0) {
		return nil, nil, NewErr(ErrNumerical, "cell %d: velocities are not finite: |vNew|=%v |vOld|=%v", c.Id, la.Vector(vNew).Norm(), la.Vector(vOld).Norm())
	}
	return
}

// stabilization computes the Péclet number and the SUPG parameter τ
func (o *TransportAssembler) stabilization(c *inp.Cell, vNew, vOld []float64, dNew, dOld float64) (tau float64, err error) {
	h := o.dom.Msh.CellDiameter(c)
	var peclet, beta float64
	if la.Vector(vNew).Norm() >= velocityFloor && dNew > diffusionFloor && dOld > diffusionFloor {
		vAvg := 0.5*la.Vector(vNew).Norm() + 0.5*la.Vector(vOld).Norm()
		dAvg := 0.5*dNew + 0.5*dOld
		peclet = 0.5 * h * vAvg / dAvg
		beta = 1.0/math.Tanh(peclet) - 1.0/peclet
		tau = 0.5 * beta * h / vAvg
	}
	if peclet < 0 || beta < 0 || tau < 0 ||
		math.IsNaN(peclet) || math.IsNaN(beta) || math.IsNaN(tau) ||
		math.IsInf(peclet, 0) || math.IsInf(beta, 0) || math.IsInf(tau, 0) {
		return 0, NewErr(ErrNumerical, "cell %d: Peclet=%v beta=%v tau=%v", c.Id, peclet, beta, tau)
	}
	return
}

// Solve assembles the transport system for time step dt and solves it into
// Substrate.New
func (o *TransportAssembler) Solve(dt float64) error {

	dom := o.dom
	sim := dom.Sim
	msh := dom.Msh
	θ := sim.Time.ThTrans
	ndim := msh.Ndim

	o.tripMO.Start()
	o.tripLO.Start()
	o.tripA.Start()
	la.Vector(o.rhs).Fill(0)
	la.Vector(o.diag).Fill(0)
	dom.NutrientTop = 0
	dom.NutrientBot = 0
	dom.MassInside = 0

	// prescribed equations (fixed concentration at the top)
	o.bc.reset()
	if sim.Bc.TrnFixTop {
		cb := sim.Bc.TrnTopVal / 1000.0
		if !sim.Eq.TestTrn {
			pTop := dom.PressureIt[msh.TopVert]
			cb *= dom.Mdl.MoistureContentFree(pTop, dom.Biomass.New[msh.TopVert])
		}
		for _, cf := range msh.FaceTag2[inp.TagTop] {
			for _, l := range cf.C.Shp.FaceLocalVerts[cf.Fid] {
				o.bc.set(cf.C.Verts[l], cb)
			}
		}
	}

	// sink factors (per node, at both time levels)
	sinkNew := make([]float64, 0, 4)
	sinkOld := make([]float64, 0, 4)

	for _, c := range msh.Cells {
		nv := len(c.Verts)
		sh := c.Shp
		x := msh.CellCoords(c)
		ips, err := sh.GetIps(false)
		if err != nil {
			return WrapErr(ErrConfig, err)
		}

		// cell-averaged velocities and dispersion
		vNew, vOld, err := o.cellVelocity(c, x, ips)
		if err != nil {
			return err
		}
		dNew := sim.Mat.DispLong*la.Vector(vNew).Norm() + sim.Mat.Diff
		dOld := sim.Mat.DispLong*la.Vector(vOld).Norm() + sim.Mat.Diff

		tau, err := o.stabilization(c, vNew, vOld, dNew, dOld)
		if err != nil {
			return err
		}

		// nodal sink factors
		sinkNew = sinkNew[:0]
		sinkOld = sinkOld[:0]
		for k := 0; k < nv; k++ {
			K := c.Verts[k]
			sn, so := 0.0, 0.0
			if !sim.Eq.TestTrn {
				if sim.Reac.HomoDecay {
					sn = sim.Reac.FirstOrder
					so = sim.Reac.FirstOrder
				} else if sim.Reac.MonodSink {
					den := dom.Substrate.Old[K] + sim.Reac.Kc/1000.0
					sn = -sim.Mat.Porosity * dom.Biomass.New[K] * sim.Reac.Kmax / den
					so = -sim.Mat.Porosity * dom.Biomass.Old[K] * sim.Reac.Kmax / den
				}
			}
			sinkNew = append(sinkNew, sn)
			sinkOld = append(sinkOld, so)
		}

		mne := utl.Alloc(nv, nv)
		moe := utl.Alloc(nv, nv)
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
				θfNew := dom.StateNew.ThetaFree[K]
				θfOld := dom.StateOld.ThetaFree[K]
				for i := 0; i < nv; i++ {

					// SUPG test functions at both time levels
					wNew := sh.S[i]
					wOld := sh.S[i]
					for d := 0; d < ndim; d++ {
						wNew += tau * vNew[d] * sh.G[i][d]
						wOld += tau * vOld[d] * sh.G[i][d]
					}

					for j := 0; j < nv; j++ {
						mne[i][j] += wNew * sh.S[j] * θfNew * sh.S[k] * cf
						moe[i][j] += wOld * sh.S[j] * θfOld * sh.S[k] * cf

						gg, gvNew, gvOld := 0.0, 0.0, 0.0
						for d := 0; d < ndim; d++ {
							gg += sh.G[i][d] * sh.G[j][d]
							gvNew += sh.G[j][d] * vNew[d]
							gvOld += sh.G[j][d] * vOld[d]
						}
						lne[i][j] += dNew*θfNew*sh.S[k]*gg*cf +
							wNew*gvNew*sh.S[k]*cf -
							wNew*sh.S[j]*sinkNew[k]*sh.S[k]*cf
						loe[i][j] += dOld*θfOld*sh.S[k]*gg*cf +
							wOld*gvOld*sh.S[k]*cf -
							wOld*sh.S[j]*sinkOld[k]*sh.S[k]*cf
					}
				}
			}
		}

		// boundary faces
		for f, tag := range c.FTags {
			if tag == 0 {
				continue
			}
			fips, err := sh.GetFaceIps(2)
			if err != nil {
				return WrapErr(ErrConfig, err)
			}
			inlet := !sim.Bc.TrnFixTop &&
				((tag == inp.TagTop && sim.EntryAtTop()) ||
					(tag == inp.TagBottom && !sim.EntryAtTop()))

			for _, ipf := range fips {
				err = sh.CalcAtFaceIp(x, ipf, f)
				if err != nil {
					return WrapErr(ErrNumerical, err)
				}
				fn := make([]float64, len(sh.Fnvec))
				copy(fn, sh.Fnvec)

				rv := sh.FaceIpVolCoords(f, ipf)
				err = sh.CalcAtIp(x, rv, true)
				if err != nil {
					return WrapErr(ErrNumerical, err)
				}

				// n·v at this face point; fn includes the face Jacobian
				nvNew, nvOld := 0.0, 0.0
				for d := 0; d < len(fn); d++ {
					nvNew += fn[d] * vNew[d]
					nvOld += fn[d] * vOld[d]
				}

				// advective inlet: inject the configured concentration
				if inlet {
					cb := sim.Bc.TrnTopVal / 1000.0
					for k := 0; k < nv; k++ {
						for i := 0; i < nv; i++ {
							wNew := sh.S[i]
							wOld := sh.S[i]
							for d := 0; d < ndim; d++ {
								wNew += tau * vNew[d] * sh.G[i][d]
								wOld += tau * vOld[d] * sh.G[i][d]
							}
							for j := 0; j < nv; j++ {
								lne[i][j] -= wNew * sh.S[j] * nvNew * sh.S[k] * ipf[3]
								loe[i][j] -= wOld * sh.S[j] * nvOld * sh.S[k] * ipf[3]
							}
							rhse[i] -= dt*θ*cb*nvNew*wNew*sh.S[k]*ipf[3] +
								dt*(1.0-θ)*cb*nvOld*wNew*sh.S[k]*ipf[3]
						}
					}
				}

				// nutrient flux through top and bottom
				flow := 0.0
				for i := 0; i < nv; i++ {
					wNew := sh.S[i]
					wOld := sh.S[i]
					for d := 0; d < ndim; d++ {
						wNew += tau * vNew[d] * sh.G[i][d]
						wOld += tau * vOld[d] * sh.G[i][d]
					}
					for k := 0; k < nv; k++ {
						K := c.Verts[k]
						ngk := 0.0
						for d := 0; d < len(fn); d++ {
							ngk += fn[d] * sh.G[k][d]
						}
						flow += -θ*wNew*dNew*dom.Substrate.New[K]*dom.StateNew.ThetaFree[K]*ngk*ipf[3] +
							θ*wNew*dom.Substrate.New[K]*nvNew*sh.S[k]*ipf[3] -
							(1.0-θ)*wOld*dOld*dom.StateOld.ThetaFree[K]*dom.Substrate.Old[K]*ngk*ipf[3] +
							(1.0-θ)*wOld*dom.Substrate.Old[K]*nvOld*sh.S[k]*ipf[3]
					}
				}
				if tag == inp.TagTop {
					dom.NutrientTop += flow
				} else if tag == inp.TagBottom {
					dom.NutrientBot += flow
				}
			}
		}

		// scatter into global structures
		for i := 0; i < nv; i++ {
			I := c.Verts[i]
			o.rhs[I] += rhse[i]
			for j := 0; j < nv; j++ {
				J := c.Verts[j]
				o.tripMO.Put(I, J, moe[i][j])
				o.tripLO.Put(I, J, loe[i][j])
				o.bc.put(&o.tripA, o.diag, I, J, mne[i][j]+θ*dt*lne[i][j])
			}
		}
	}

	// rhs += M_old·c_old − (1−θ)·Δt·L_old·c_old
	MO := o.tripMO.ToMatrix(nil)
	la.SpMatVecMulAdd(o.rhs, 1, MO, dom.Substrate.Old)
	LO := o.tripLO.ToMatrix(nil)
	la.SpMatVecMul(o.tmp, 1, LO, dom.Substrate.Old)
	for i := 0; i < o.n; i++ {
		o.rhs[i] -= (1.0 - θ) * dt * o.tmp[i]
	}

	// prescribed equations
	o.bc.finish(&o.tripA, o.diag, o.rhs)

	// solve
	A := o.tripA.ToMatrix(nil)
	_, err := lin.BiCgStab(A, dom.Substrate.New, o.rhs, lin.NewJacobi(o.diag),
		sim.Solver.LinTol, sim.Solver.LinItFac*o.n)
	if err != nil {
		return WrapErr(ErrSolver, err)
	}
	return nil
}
