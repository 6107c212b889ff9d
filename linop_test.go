// Copyright ©2026 The linop Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linop

import (
	"math/rand"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

func randomDense(r, c int, rnd *rand.Rand) *mat.Dense {
	a := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			a.Set(i, j, rnd.NormFloat64())
		}
	}
	return a
}

// randomSPD generates a random symmetric positive-definite matrix by
// shifting the diagonal of a random symmetric matrix.
func randomSPD(n int, rnd *rand.Rand) *mat.SymDense {
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, rnd.Float64())
		}
	}
	for i := 0; i < n; i++ {
		s.SetSym(i, i, s.At(i, i)+float64(n))
	}
	return s
}

func randomVec(n int, rnd *rand.Rand) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = rnd.NormFloat64()
	}
	return x
}

// operatorDense materializes an operator by applying it to the columns
// of the identity.
func operatorDense(op Operator) *mat.Dense {
	r, c := op.Dims()
	id := mat.NewDense(c, c, nil)
	for i := 0; i < c; i++ {
		id.Set(i, i, 1)
	}
	out := mat.NewDense(r, c, nil)
	op.MatMat(out, id)
	return out
}

// kron forms the explicit Kronecker product of two matrices, used as
// the oracle for the matrix-free implementation.
func kron(a, b mat.Matrix) *mat.Dense {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	k := mat.NewDense(ar*br, ac*bc, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			aij := a.At(i, j)
			for p := 0; p < br; p++ {
				for q := 0; q < bc; q++ {
					k.Set(i*br+p, j*bc+q, aij*b.At(p, q))
				}
			}
		}
	}
	return k
}

func applyDense(a mat.Matrix, x []float64) []float64 {
	r, c := a.Dims()
	y := make([]float64, r)
	mat.NewVecDense(r, y).MulVec(a, mat.NewVecDense(c, x))
	return y
}

// toCSR copies a dense matrix into CSR storage, dropping exact zeros.
func toCSR(a mat.Matrix) *sparse.CSR {
	r, c := a.Dims()
	d := sparse.NewDOK(r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := a.At(i, j); v != 0 {
				d.Set(i, j, v)
			}
		}
	}
	return d.ToCSR()
}

// poisson1D builds the n×n stiffness matrix of the 1-D model Poisson
// problem, tridiagonal with 2 on the diagonal and -1 off it.
func poisson1D(n int) *mat.SymDense {
	a := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		a.SetSym(i, i, 2)
		if i+1 < n {
			a.SetSym(i, i+1, -1)
		}
	}
	return a
}

// mass1D builds the n×n mass matrix of linear elements on a uniform
// 1-D grid, tridiagonal (1, 4, 1)/6.
func mass1D(n int) *mat.SymDense {
	a := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		a.SetSym(i, i, 4.0/6.0)
		if i+1 < n {
			a.SetSym(i, i+1, 1.0/6.0)
		}
	}
	return a
}
