// Copyright ©2026 The linop Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linop

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"

	"github.com/tensorial/linop/internal/splu"
)

// SparseFactorizer factors a sparse square matrix once and returns an
// operator applying its inverse. The symmetric hint is the caller's
// assertion about a; backends may exploit it or ignore it.
//
// It exists so that callers with access to a high-performance direct
// solver (for example CGO bindings to a vendor library) can inject it
// per solver instead of relying on process-global state.
type SparseFactorizer func(a sparse.Sparser, symmetric bool) (Operator, error)

// SolverOpts configures NewSolverOpts.
type SolverOpts struct {
	// Symmetric asserts that the matrix is symmetric, and for dense
	// input positive-definite. It is never verified; a violation
	// surfaces as a factorization failure or garbage results.
	Symmetric bool

	// Sparse factors sparse input. If nil, the built-in sparse LU
	// with partial pivoting is used.
	Sparse SparseFactorizer
}

// NewSolver returns an operator applying the inverse of the square
// matrix a. The factorization is computed here, exactly once; every
// subsequent application routes through it. a must be nonsingular.
//
// Sparse input (any sparse.Sparser) is factored by the built-in sparse
// LU. Dense symmetric positive-definite input is factored by Cholesky
// when symmetric is true, anything else by LU with partial pivoting.
func NewSolver(a mat.Matrix, symmetric bool) Operator {
	return NewSolverOpts(a, SolverOpts{Symmetric: symmetric})
}

// NewSolverOpts is NewSolver with an explicit choice of sparse
// factorization backend.
func NewSolverOpts(a mat.Matrix, opts SolverOpts) Operator {
	r, c := a.Dims()
	if r != c {
		panic("linop: solver requires a square matrix")
	}
	if s, ok := a.(sparse.Sparser); ok {
		factorize := opts.Sparse
		if factorize == nil {
			factorize = factorizeSparseLU
		}
		op, err := factorize(s, opts.Symmetric)
		if err != nil {
			panic("linop: sparse factorization failed: " + err.Error())
		}
		return op
	}
	if opts.Symmetric {
		var chol mat.Cholesky
		if !chol.Factorize(asSymmetric(a)) {
			panic("linop: matrix is not positive definite")
		}
		return &choleskyOperator{n: r, chol: &chol}
	}
	lu := new(mat.LU)
	lu.Factorize(a)
	return &luOperator{n: r, lu: lu}
}

// NewKroneckerSolver returns an operator applying the inverse of the
// Kronecker product B_1 ⊗ ... ⊗ B_d of the given square nonsingular
// matrices, using the identity
//
//	(B_1 ⊗ ... ⊗ B_d)⁻¹ = B_1⁻¹ ⊗ ... ⊗ B_d⁻¹.
//
// Neither side of the identity is ever formed; each axis matrix is
// factored independently and the factors compose through Kronecker.
func NewKroneckerSolver(ms ...mat.Matrix) Operator {
	if len(ms) == 0 {
		panic("linop: empty Kronecker solver")
	}
	ops := make([]Operator, len(ms))
	for i, m := range ms {
		ops[i] = NewSolver(m, false)
	}
	return Kronecker(ops...)
}

func asSymmetric(a mat.Matrix) mat.Symmetric {
	if s, ok := a.(mat.Symmetric); ok {
		return s
	}
	n, _ := a.Dims()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, a.At(i, j))
		}
	}
	return s
}

// solveErr filters gonum's conditioning warning, which still carries a
// usable solution, from hard failures.
func solveErr(err error) {
	if err == nil {
		return
	}
	if _, ok := err.(mat.Condition); ok {
		return
	}
	panic("linop: singular matrix in solve: " + err.Error())
}

type choleskyOperator struct {
	n    int
	chol *mat.Cholesky
}

func (s *choleskyOperator) Dims() (r, c int) { return s.n, s.n }

func (s *choleskyOperator) MatVec(dst, x []float64) {
	checkApply(s, dst, x)
	dv := mat.NewVecDense(s.n, dst)
	solveErr(s.chol.SolveVecTo(dv, mat.NewVecDense(s.n, x)))
}

func (s *choleskyOperator) MatMat(dst, x *mat.Dense) {
	checkApplyMat(s, dst, x)
	solveErr(s.chol.SolveTo(dst, x))
}

type luOperator struct {
	n  int
	lu *mat.LU
}

func (s *luOperator) Dims() (r, c int) { return s.n, s.n }

func (s *luOperator) MatVec(dst, x []float64) {
	checkApply(s, dst, x)
	dv := mat.NewVecDense(s.n, dst)
	solveErr(s.lu.SolveVecTo(dv, false, mat.NewVecDense(s.n, x)))
}

func (s *luOperator) MatMat(dst, x *mat.Dense) {
	checkApplyMat(s, dst, x)
	solveErr(s.lu.SolveTo(dst, false, x))
}

type sparseLUOperator struct {
	n  int
	lu *splu.LU
}

// factorizeSparseLU is the default SparseFactorizer. It ignores the
// symmetry hint; the built-in factorization has no symmetric mode.
func factorizeSparseLU(a sparse.Sparser, _ bool) (Operator, error) {
	lu, err := splu.Factorize(a)
	if err != nil {
		return nil, err
	}
	n, _ := a.Dims()
	return &sparseLUOperator{n: n, lu: lu}, nil
}

func (s *sparseLUOperator) Dims() (r, c int) { return s.n, s.n }

func (s *sparseLUOperator) MatVec(dst, x []float64) {
	checkApply(s, dst, x)
	s.lu.Solve(dst, x)
}

func (s *sparseLUOperator) MatMat(dst, x *mat.Dense) {
	applyColumns(s, dst, x)
}
