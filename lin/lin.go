// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package lin implements preconditioned iterative solvers for the sparse
// linear systems arising from the flow and transport discretizations
package lin

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// Jacobi holds the diagonal preconditioner M⁻¹ = diag(A)⁻¹
type Jacobi struct {
	idiag []float64 // inverse of the matrix diagonal
}

// NewJacobi builds a Jacobi preconditioner from the matrix diagonal
// accumulated during assembly. Zero diagonal entries are left unscaled.
func NewJacobi(diag []float64) *Jacobi {
	o := &Jacobi{idiag: make([]float64, len(diag))}
	for i, d := range diag {
		if d != 0 {
			o.idiag[i] = 1.0 / d
		} else {
			o.idiag[i] = 1.0
		}
	}
	return o
}

// Apply computes z = M⁻¹·r
func (o *Jacobi) Apply(z, r []float64) {
	for i := range r {
		z[i] = o.idiag[i] * r[i]
	}
}

// Cg solves A·x = b with the preconditioned conjugate gradient method. A must
// be symmetric positive definite. x holds the initial guess on entry and the
// solution on exit. Returns the number of iterations.
func Cg(a *la.CCMatrix, x, b []float64, m *Jacobi, tol float64, itmax int) (it int, err error) {
	n := len(b)
	r := make([]float64, n)
	z := make([]float64, n)
	p := make([]float64, n)
	q := make([]float64, n)

	// r = b - A·x
	la.SpMatVecMul(r, -1, a, x)
	for i := 0; i < n; i++ {
		r[i] += b[i]
	}
	bnorm := la.Vector(b).Norm()
	if bnorm == 0 {
		la.Vector(x).Fill(0)
		return
	}

	m.Apply(z, r)
	copy(p, z)
	rz := la.VecDot(r, z)

	for it = 0; it < itmax; it++ {
		if la.Vector(r).Norm() <= tol*bnorm {
			return
		}
		la.SpMatVecMul(q, 1, a, p)
		den := la.VecDot(p, q)
		if den == 0 || math.IsNaN(den) {
			return it, chk.Err("Cg: breakdown at iteration %d: p·A·p = %v", it, den)
		}
		α := rz / den
		for i := 0; i < n; i++ {
			x[i] += α * p[i]
			r[i] -= α * q[i]
		}
		m.Apply(z, r)
		rznew := la.VecDot(r, z)
		β := rznew / rz
		rz = rznew
		for i := 0; i < n; i++ {
			p[i] = z[i] + β*p[i]
		}
	}
	return it, chk.Err("Cg: did not converge after %d iterations. residual = %v", itmax, la.Vector(r).Norm())
}

// BiCgStab solves A·x = b with the preconditioned bi-conjugate gradient
// stabilized method for nonsymmetric A. x holds the initial guess on entry
// and the solution on exit. Returns the number of iterations.
func BiCgStab(a *la.CCMatrix, x, b []float64, m *Jacobi, tol float64, itmax int) (it int, err error) {
	n := len(b)
	r := make([]float64, n)
	r0 := make([]float64, n)
	p := make([]float64, n)
	ph := make([]float64, n)
	s := make([]float64, n)
	sh := make([]float64, n)
	v := make([]float64, n)
	t := make([]float64, n)

	// r = b - A·x
	la.SpMatVecMul(r, -1, a, x)
	for i := 0; i < n; i++ {
		r[i] += b[i]
	}
	bnorm := la.Vector(b).Norm()
	if bnorm == 0 {
		la.Vector(x).Fill(0)
		return
	}
	copy(r0, r)

	var ρold, αcf, ω float64 = 1, 1, 1
	for it = 0; it < itmax; it++ {
		if la.Vector(r).Norm() <= tol*bnorm {
			return
		}
		ρ := la.VecDot(r0, r)
		if ρ == 0 || math.IsNaN(ρ) {
			return it, chk.Err("BiCgStab: breakdown at iteration %d: ρ = %v", it, ρ)
		}
		if it == 0 {
			copy(p, r)
		} else {
			β := (ρ / ρold) * (αcf / ω)
			for i := 0; i < n; i++ {
				p[i] = r[i] + β*(p[i]-ω*v[i])
			}
		}
		m.Apply(ph, p)
		la.SpMatVecMul(v, 1, a, ph)
		den := la.VecDot(r0, v)
		if den == 0 || math.IsNaN(den) {
			return it, chk.Err("BiCgStab: breakdown at iteration %d: r0·v = %v", it, den)
		}
		αcf = ρ / den
		for i := 0; i < n; i++ {
			s[i] = r[i] - αcf*v[i]
		}
		if la.Vector(s).Norm() <= tol*bnorm {
			for i := 0; i < n; i++ {
				x[i] += αcf * ph[i]
			}
			copy(r, s)
			return
		}
		m.Apply(sh, s)
		la.SpMatVecMul(t, 1, a, sh)
		tt := la.VecDot(t, t)
		if tt == 0 || math.IsNaN(tt) {
			return it, chk.Err("BiCgStab: breakdown at iteration %d: t·t = %v", it, tt)
		}
		ω = la.VecDot(t, s) / tt
		for i := 0; i < n; i++ {
			x[i] += αcf*ph[i] + ω*sh[i]
			r[i] = s[i] - ω*t[i]
		}
		if ω == 0 {
			return it, chk.Err("BiCgStab: breakdown at iteration %d: ω = 0", it)
		}
		ρold = ρ
	}
	return it, chk.Err("BiCgStab: did not converge after %d iterations. residual = %v", itmax, la.Vector(r).Norm())
}
