// Copyright ©2026 The linop Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linop

import (
	"time"

	"gonum.org/v1/gonum/floats"
)

// CG solves a*x = b by the preconditioned conjugate gradient method.
// a must be symmetric positive-definite; this is not verified. m is an
// operator applying the inverse of a preconditioner, for example a
// reciprocal-diagonal or a FastDiag operator for separable systems; if
// it is nil, no preconditioning is used. The default iteration limit is
// twice the dimension of the system.
//
// Like TwoGrid, CG reports non-convergence through the Status of the
// returned Result rather than as an error.
func CG(a Operator, b []float64, m Operator, settings Settings) Result {
	stats := Stats{StartTime: time.Now()}

	n := len(b)
	ar, ac := a.Dims()
	switch {
	case n == 0:
		panic("linop: zero dimension")
	case ar != ac || ar != n:
		panic("linop: mismatched system dimensions")
	case settings.U0 != nil && len(settings.U0) != n:
		panic("linop: mismatched length of initial guess")
	}
	if settings.Tolerance == 0 {
		settings.Tolerance = 1e-8
	}
	if settings.MaxIterations == 0 {
		settings.MaxIterations = 2 * n
	}

	x := make([]float64, n)
	r := make([]float64, n)
	if settings.U0 != nil {
		copy(x, settings.U0)
		a.MatVec(r, x)
		floats.AddScaledTo(r, b, -1, r) // r = b - A x
	} else {
		copy(r, b)
	}

	res0 := floats.Norm(r, 2)
	stats.InitialResidual = res0
	stats.ResidualNorm = res0
	if res0 == 0 {
		stats.Runtime = time.Since(stats.StartTime)
		return Result{U: x, Status: Converged, Stats: stats}
	}

	z := make([]float64, n)
	p := make([]float64, n)
	ap := make([]float64, n)

	var rho, rhoPrev float64
	status := IterationLimit
	for iter := 1; ; iter++ {
		// Solve M z = r.
		if m != nil {
			m.MatVec(z, r)
		} else {
			copy(z, r)
		}

		rho = floats.Dot(r, z)
		if iter == 1 {
			copy(p, z)
		} else {
			beta := rho / rhoPrev
			floats.AddScaledTo(p, z, beta, p) // p = z + β p
		}

		a.MatVec(ap, p)
		alpha := rho / floats.Dot(p, ap)
		floats.AddScaled(x, alpha, p)   // x = x + α p
		floats.AddScaled(r, -alpha, ap) // r = r - α Ap

		res := floats.Norm(r, 2)
		stats.Iterations = iter
		stats.ResidualNorm = res
		if res < settings.Tolerance*res0 {
			status = Converged
			break
		}
		if iter >= settings.MaxIterations {
			break
		}
		rhoPrev = rho
	}

	stats.Runtime = time.Since(stats.StartTime)
	return Result{U: x, Status: status, Stats: stats}
}
