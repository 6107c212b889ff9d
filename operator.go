// Copyright ©2026 The linop Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linop

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Operator is a real r×c matrix represented by its action on vectors.
//
// Implementations never mutate their receiver during application, so a
// constructed Operator may be applied concurrently provided the routines
// it delegates to are reentrant.
type Operator interface {
	// Dims returns the number of rows and columns of the operator.
	Dims() (r, c int)

	// MatVec computes A*x and stores the result into dst.
	// len(x) must equal the number of columns and len(dst) the number
	// of rows of the operator. dst must not alias x.
	MatVec(dst, x []float64)

	// MatMat applies the operator to every column of x and stores the
	// result into dst. dst must be r×k for an c×k input x, and must
	// not alias x. A single-column MatMat agrees with MatVec.
	MatMat(dst, x *mat.Dense)
}

func checkApply(op Operator, dst, x []float64) {
	r, c := op.Dims()
	if len(x) != c {
		panic("linop: mismatched input length")
	}
	if len(dst) != r {
		panic("linop: mismatched output length")
	}
}

func checkApplyMat(op Operator, dst, x *mat.Dense) {
	r, c := op.Dims()
	xr, xk := x.Dims()
	if xr != c {
		panic("linop: mismatched input dimension")
	}
	dr, dk := dst.Dims()
	if dr != r || dk != xk {
		panic("linop: mismatched output dimension")
	}
}

// applyColumns implements a batched apply by repeated MatVec. It is the
// shared MatMat kernel for operators without a cheaper batched form.
func applyColumns(op Operator, dst, x *mat.Dense) {
	checkApplyMat(op, dst, x)
	r, c := op.Dims()
	_, k := x.Dims()
	xcol := make([]float64, c)
	ycol := make([]float64, r)
	for j := 0; j < k; j++ {
		mat.Col(xcol, j, x)
		op.MatVec(ycol, xcol)
		dst.SetCol(j, ycol)
	}
}

type nullOperator struct {
	r, c int
}

// Null returns the zero operator of the given shape. It is used as a
// placeholder for empty cells in block grids.
func Null(r, c int) Operator {
	if r <= 0 || c <= 0 {
		panic("linop: non-positive dimension")
	}
	return nullOperator{r: r, c: c}
}

func (n nullOperator) Dims() (r, c int) { return n.r, n.c }

func (n nullOperator) MatVec(dst, x []float64) {
	checkApply(n, dst, x)
	for i := range dst {
		dst[i] = 0
	}
}

func (n nullOperator) MatMat(dst, x *mat.Dense) {
	checkApplyMat(n, dst, x)
	dst.Zero()
}

type matrixOperator struct {
	a mat.Matrix
}

// Wrap adapts a concrete matrix to the Operator interface. Sparse
// matrices from github.com/james-bowman/sparse apply through their
// non-zero structure; dense matrices apply through gonum's kernels.
func Wrap(a mat.Matrix) Operator {
	if a == nil {
		panic("linop: nil matrix")
	}
	return matrixOperator{a: a}
}

func (m matrixOperator) Dims() (r, c int) { return m.a.Dims() }

func (m matrixOperator) MatVec(dst, x []float64) {
	checkApply(m, dst, x)
	if s, ok := m.a.(sparse.Sparser); ok {
		for i := range dst {
			dst[i] = 0
		}
		s.DoNonZero(func(i, j int, v float64) {
			dst[i] += v * x[j]
		})
		return
	}
	r, c := m.a.Dims()
	dv := mat.NewVecDense(r, dst)
	dv.MulVec(m.a, mat.NewVecDense(c, x))
}

func (m matrixOperator) MatMat(dst, x *mat.Dense) {
	checkApplyMat(m, dst, x)
	if s, ok := m.a.(sparse.Sparser); ok {
		_, k := x.Dims()
		dst.Zero()
		s.DoNonZero(func(i, j int, v float64) {
			for col := 0; col < k; col++ {
				dst.Set(i, col, dst.At(i, col)+v*x.At(j, col))
			}
		})
		return
	}
	dst.Mul(m.a, x)
}

type productOperator struct {
	// ops are applied right to left, as in matrix notation.
	ops  []Operator
	r, c int
}

// Mul returns the composition of the given operators, applied right to
// left: Mul(A, B, C) represents the matrix product A*B*C. The column
// count of each operator must match the row count of its right
// neighbour.
func Mul(ops ...Operator) Operator {
	if len(ops) == 0 {
		panic("linop: empty operator product")
	}
	for i := 0; i < len(ops)-1; i++ {
		_, c := ops[i].Dims()
		r, _ := ops[i+1].Dims()
		if c != r {
			panic("linop: mismatched dimensions in operator product")
		}
	}
	r, _ := ops[0].Dims()
	_, c := ops[len(ops)-1].Dims()
	return &productOperator{ops: ops, r: r, c: c}
}

func (p *productOperator) Dims() (r, c int) { return p.r, p.c }

func (p *productOperator) MatVec(dst, x []float64) {
	checkApply(p, dst, x)
	cur := x
	for i := len(p.ops) - 1; i >= 1; i-- {
		r, _ := p.ops[i].Dims()
		next := make([]float64, r)
		p.ops[i].MatVec(next, cur)
		cur = next
	}
	p.ops[0].MatVec(dst, cur)
}

func (p *productOperator) MatMat(dst, x *mat.Dense) {
	applyColumns(p, dst, x)
}

type scaledOperator struct {
	alpha float64
	op    Operator
}

// Scale returns the operator alpha*A.
func Scale(alpha float64, op Operator) Operator {
	if op == nil {
		panic("linop: nil operator")
	}
	return scaledOperator{alpha: alpha, op: op}
}

func (s scaledOperator) Dims() (r, c int) { return s.op.Dims() }

func (s scaledOperator) MatVec(dst, x []float64) {
	s.op.MatVec(dst, x)
	floats.Scale(s.alpha, dst)
}

func (s scaledOperator) MatMat(dst, x *mat.Dense) {
	s.op.MatMat(dst, x)
	dst.Scale(s.alpha, dst)
}
