// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lin

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

func Test_cg01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cg01. symmetric positive-definite system")

	// discrete 1D Laplacian with unit diagonal shift
	n := 5
	var T la.Triplet
	T.Init(n, n, 3*n)
	for i := 0; i < n; i++ {
		T.Put(i, i, 3)
		if i > 0 {
			T.Put(i, i-1, -1)
		}
		if i < n-1 {
			T.Put(i, i+1, -1)
		}
	}
	a := T.ToMatrix(nil)

	// rhs for known solution x = {1, 2, 3, 4, 5}
	xcor := []float64{1, 2, 3, 4, 5}
	b := make([]float64, n)
	la.SpMatVecMul(b, 1, a, xcor)

	x := make([]float64, n)
	diag := []float64{3, 3, 3, 3, 3}
	it, err := Cg(a, x, b, NewJacobi(diag), 1e-12, 100)
	if err != nil {
		tst.Errorf("Cg failed: %v\n", err)
		return
	}
	if it == 0 || it > n+1 {
		tst.Errorf("Cg should converge within n+1 iterations: it=%d\n", it)
	}
	chk.Array(tst, "x", 1e-10, x, xcor)
}

func Test_cg02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cg02. zero right hand side")

	var T la.Triplet
	T.Init(2, 2, 2)
	T.Put(0, 0, 2)
	T.Put(1, 1, 4)
	a := T.ToMatrix(nil)

	x := []float64{7, -3}
	b := []float64{0, 0}
	_, err := Cg(a, x, b, NewJacobi([]float64{2, 4}), 1e-12, 10)
	if err != nil {
		tst.Errorf("Cg failed: %v\n", err)
		return
	}
	chk.Array(tst, "x", 1e-15, x, []float64{0, 0})
}

func Test_bicgstab01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("bicgstab01. nonsymmetric system")

	// upwinded convection-diffusion stencil
	n := 6
	var T la.Triplet
	T.Init(n, n, 3*n)
	for i := 0; i < n; i++ {
		T.Put(i, i, 4)
		if i > 0 {
			T.Put(i, i-1, -2.5)
		}
		if i < n-1 {
			T.Put(i, i+1, -0.5)
		}
	}
	a := T.ToMatrix(nil)

	xcor := []float64{1, 0, -1, 2, 0.5, -0.25}
	b := make([]float64, n)
	la.SpMatVecMul(b, 1, a, xcor)

	x := make([]float64, n)
	diag := []float64{4, 4, 4, 4, 4, 4}
	_, err := BiCgStab(a, x, b, NewJacobi(diag), 1e-12, 200)
	if err != nil {
		tst.Errorf("BiCgStab failed: %v\n", err)
		return
	}
	chk.Array(tst, "x", 1e-9, x, xcor)
}

func Test_jacobi01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("jacobi01. preconditioner with zero diagonal entries")

	m := NewJacobi([]float64{2, 0, -4})
	z := make([]float64, 3)
	m.Apply(z, []float64{2, 3, 8})
	chk.Array(tst, "z", 1e-15, z, []float64{1, 3, -2})
}
