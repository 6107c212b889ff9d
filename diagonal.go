// Copyright ©2026 The linop Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linop

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type diagonalOperator struct {
	diag []float64
}

// Diagonal returns the operator that acts like a diagonal matrix with
// the given diagonal. The weights are copied; the operator is
// self-adjoint.
func Diagonal(diag []float64) Operator {
	if len(diag) == 0 {
		panic("linop: empty diagonal")
	}
	d := make([]float64, len(diag))
	copy(d, diag)
	return diagonalOperator{diag: d}
}

func (d diagonalOperator) Dims() (r, c int) { return len(d.diag), len(d.diag) }

func (d diagonalOperator) MatVec(dst, x []float64) {
	checkApply(d, dst, x)
	floats.MulTo(dst, d.diag, x)
}

func (d diagonalOperator) MatMat(dst, x *mat.Dense) {
	checkApplyMat(d, dst, x)
	_, k := x.Dims()
	for i, di := range d.diag {
		for j := 0; j < k; j++ {
			dst.Set(i, j, di*x.At(i, j))
		}
	}
}
