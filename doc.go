// Copyright ©2026 The linop Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linop provides matrix-free linear operators and structured
// solvers for tensor-product discretizations.
//
// An Operator represents a real matrix by its action on vectors rather
// than by its entries. Operators compose without ever materializing the
// matrices they stand for: Kronecker products of per-axis matrices apply
// through per-axis contractions, block systems apply through their
// sub-operators, and inverses apply through a factorization computed once
// at construction.
//
// On top of the operator layer the package offers two structured solvers:
// FastDiag, a closed-form inverse for separable generalized Laplacians via
// simultaneous diagonalization, and TwoGrid, a generic two-grid iteration
// with pluggable smoothers. CG is provided as a general Krylov fallback
// for systems without exploitable structure.
//
// All operations are synchronous and run to completion. Operators are
// immutable after construction and safe for concurrent application as
// long as the underlying factorization routines are; the gonum-backed
// factorizations used here are read-only at solve time.
package linop
