// Copyright ©2026 The linop Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linop

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Smoother applies one smoothing pass in place to the iterate u of the
// linear system a*u = f. Smoothers hold no per-system state and must be
// invoked serially within one solve.
type Smoother interface {
	Smooth(a mat.Matrix, u, f []float64)
}

// OperatorSmoother updates the iterate with an arbitrary operator S
// approximating the inverse of the system matrix,
//
//	u ← u + S·(f - A·u).
//
// Typical choices for S are a reciprocal-diagonal (Jacobi) or a cheap
// block preconditioner.
type OperatorSmoother struct {
	S Operator
}

func (s OperatorSmoother) Smooth(a mat.Matrix, u, f []float64) {
	n := len(u)
	r := make([]float64, n)
	Wrap(a).MatVec(r, u)
	floats.AddScaledTo(r, f, -1, r) // r = f - A u
	du := make([]float64, n)
	s.S.MatVec(du, r)
	floats.Add(u, du)
}

// Sweep is the direction of a Gauss-Seidel pass.
type Sweep int

const (
	// Forward sweeps from the first row to the last.
	Forward Sweep = iota
	// Backward sweeps from the last row to the first.
	Backward
	// SymmetricSweep performs a forward then a backward sweep per
	// iteration.
	SymmetricSweep
)

// GaussSeidel is the Gauss-Seidel smoother. The zero value performs one
// forward sweep per call.
type GaussSeidel struct {
	// Iterations is the number of sweeps per call. Zero means one.
	Iterations int
	// Sweep selects the sweep direction.
	Sweep Sweep
}

func (gs GaussSeidel) Smooth(a mat.Matrix, u, f []float64) {
	iters := gs.Iterations
	if iters == 0 {
		iters = 1
	}
	for it := 0; it < iters; it++ {
		switch gs.Sweep {
		case Forward:
			gaussSeidelSweep(a, u, f, false)
		case Backward:
			gaussSeidelSweep(a, u, f, true)
		case SymmetricSweep:
			gaussSeidelSweep(a, u, f, false)
			gaussSeidelSweep(a, u, f, true)
		default:
			panic("linop: invalid sweep direction")
		}
	}
}

func gaussSeidelSweep(a mat.Matrix, u, f []float64, backward bool) {
	n := len(u)
	if csr, ok := a.(*sparse.CSR); ok {
		for idx := 0; idx < n; idx++ {
			i := idx
			if backward {
				i = n - 1 - idx
			}
			sum, diag := 0.0, 0.0
			csr.DoRowNonZero(i, func(_, j int, v float64) {
				if j == i {
					diag = v
				} else {
					sum += v * u[j]
				}
			})
			u[i] = (f[i] - sum) / diag
		}
		return
	}
	for idx := 0; idx < n; idx++ {
		i := idx
		if backward {
			i = n - 1 - idx
		}
		sum, diag := 0.0, 0.0
		for j := 0; j < n; j++ {
			v := a.At(i, j)
			if j == i {
				diag = v
			} else {
				sum += v * u[j]
			}
		}
		u[i] = (f[i] - sum) / diag
	}
}

// Sequential applies its smoothers once each, in order, per call.
type Sequential []Smoother

func (s Sequential) Smooth(a mat.Matrix, u, f []float64) {
	for _, sm := range s {
		sm.Smooth(a, u, f)
	}
}
