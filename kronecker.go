// Copyright ©2026 The linop Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linop

import "gonum.org/v1/gonum/mat"

type kroneckerOperator struct {
	ops []Operator
	n   []int // per-axis sizes
	dim int   // product of the per-axis sizes
}

// Kronecker returns the Kronecker product A_1 ⊗ A_2 ⊗ ... ⊗ A_d of the
// given square operators without forming it. Application costs
// O(Σ n_i · Π n_j) by contracting each constituent against its tensor
// axis in turn, instead of the O((Π n_i)²) cost of the assembled
// product.
func Kronecker(ops ...Operator) Operator {
	if len(ops) == 0 {
		panic("linop: empty Kronecker product")
	}
	n := make([]int, len(ops))
	dim := 1
	for i, op := range ops {
		r, c := op.Dims()
		if r != c {
			panic("linop: non-square Kronecker factor")
		}
		n[i] = r
		dim *= r
	}
	return &kroneckerOperator{ops: ops, n: n, dim: dim}
}

func (k *kroneckerOperator) Dims() (r, c int) { return k.dim, k.dim }

// MatVec views x as a d-dimensional tensor with axis sizes n_1..n_d in
// row-major order and applies constituent i along axis i. The axes are
// contracted last to first so the unit-stride axis is touched first;
// the contraction order does not affect the result.
func (k *kroneckerOperator) MatVec(dst, x []float64) {
	checkApply(k, dst, x)
	cur := make([]float64, k.dim)
	copy(cur, x)
	next := make([]float64, k.dim)

	nmax := 0
	for _, ni := range k.n {
		if ni > nmax {
			nmax = ni
		}
	}
	in := make([]float64, nmax)
	out := make([]float64, nmax)

	inner := 1
	for a := len(k.ops) - 1; a >= 0; a-- {
		na := k.n[a]
		outer := k.dim / (na * inner)
		for o := 0; o < outer; o++ {
			base := o * na * inner
			for t := 0; t < inner; t++ {
				// Gather the fiber along axis a, apply the
				// constituent, scatter the result back.
				for j := 0; j < na; j++ {
					in[j] = cur[base+j*inner+t]
				}
				k.ops[a].MatVec(out[:na], in[:na])
				for j := 0; j < na; j++ {
					next[base+j*inner+t] = out[j]
				}
			}
		}
		cur, next = next, cur
		inner *= na
	}
	copy(dst, cur)
}

func (k *kroneckerOperator) MatMat(dst, x *mat.Dense) {
	applyColumns(k, dst, x)
}
