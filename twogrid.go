// Copyright ©2026 The linop Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linop

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Status indicates how an iterative solve terminated.
type Status int

const (
	// Converged means the residual dropped below Tolerance times the
	// initial residual.
	Converged Status = iota
	// Diverged means the residual grew past 20 times the initial
	// residual. The returned iterate is the last one computed.
	Diverged
	// IterationLimit means MaxIterations was reached without
	// convergence. The returned iterate is the best available.
	IterationLimit
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case Diverged:
		return "diverged"
	case IterationLimit:
		return "iteration limit"
	}
	return "unknown status"
}

// Settings holds adjustable parameters of an iterative solve. Zero
// values of the fields mean default values.
type Settings struct {
	// U0 is an initial guess. If it is nil, the zero vector is used.
	// If it is not nil, its length must equal the dimension of the
	// system.
	U0 []float64

	// Tolerance is the desired reduction relative to the initial
	// residual. If it is zero, it is set to 1e-8.
	Tolerance float64

	// SmoothSteps is the number of smoother applications per two-grid
	// iteration. If it is zero, it is set to 2. It is not used by CG.
	SmoothSteps int

	// MaxIterations is the limit on the number of iterations. If it
	// is zero, TwoGrid sets it to 1000 and CG to twice the dimension
	// of the system.
	MaxIterations int
}

// Stats holds statistics about an iterative solve.
type Stats struct {
	// Iterations is the number of iterations performed.
	Iterations int
	// InitialResidual is the norm of f - A*u0.
	InitialResidual float64
	// ResidualNorm is the residual norm at the last convergence
	// check.
	ResidualNorm float64
	// StartTime is an approximate time when the solve was started.
	StartTime time.Time
	// Runtime is an approximate duration of the solve.
	Runtime time.Duration
}

// Result holds the outcome of an iterative solve. The iterate is always
// returned; Status tells whether it can be trusted. Non-convergence is
// reported here, never as an error, so callers can retry with different
// parameters.
type Result struct {
	// U is the final iterate.
	U []float64
	// Status is the terminal state of the iteration.
	Status Status
	// Stats holds the statistics of the solve.
	Stats Stats
}

// TwoGrid solves a*u = f by a generic two-grid iteration with an
// arbitrary smoother. p is the prolongation matrix from the coarse to
// the fine grid; the Galerkin coarse matrix Aᶜ = pᵀ·a·p is formed and
// factored once before the loop starts and must be nonsingular.
//
// Each iteration applies the smoother SmoothSteps times in place,
// computes the residual r = f - a*u, and applies the coarse-grid
// correction u ← u + p·Aᶜ⁻¹·pᵀ·r. The loop ends when the residual norm
// drops below Tolerance times the initial residual norm, grows past 20
// times it, or MaxIterations is exceeded; no other exit paths exist.
func TwoGrid(a mat.Matrix, f []float64, p mat.Matrix, smoother Smoother, settings Settings) Result {
	stats := Stats{StartTime: time.Now()}

	n := len(f)
	ar, ac := a.Dims()
	pr, pc := p.Dims()
	switch {
	case n == 0:
		panic("linop: zero dimension")
	case ar != ac || ar != n:
		panic("linop: mismatched system dimensions")
	case pr != n:
		panic("linop: mismatched prolongation dimensions")
	case smoother == nil:
		panic("linop: nil smoother")
	case settings.U0 != nil && len(settings.U0) != n:
		panic("linop: mismatched length of initial guess")
	}
	if settings.Tolerance == 0 {
		settings.Tolerance = 1e-8
	}
	if settings.SmoothSteps == 0 {
		settings.SmoothSteps = 2
	}
	if settings.MaxIterations == 0 {
		settings.MaxIterations = 1000
	}

	// Coarse operator, factored once before the loop.
	var ap, acoarse mat.Dense
	ap.Mul(a, p)
	acoarse.Mul(p.T(), &ap)
	coarseInv := NewSolver(&acoarse, false)

	aop := Wrap(a)
	prolong := Wrap(p)
	restrict := Wrap(p.T())

	u := make([]float64, n)
	if settings.U0 != nil {
		copy(u, settings.U0)
	}

	r := make([]float64, n)
	aop.MatVec(r, u)
	floats.AddScaledTo(r, f, -1, r) // r = f - A u
	res0 := floats.Norm(r, 2)
	stats.InitialResidual = res0
	stats.ResidualNorm = res0
	if res0 == 0 {
		stats.Runtime = time.Since(stats.StartTime)
		return Result{U: u, Status: Converged, Stats: stats}
	}

	rc := make([]float64, pc)
	ec := make([]float64, pc)
	du := make([]float64, n)

	status := IterationLimit
	for iter := 1; ; iter++ {
		for s := 0; s < settings.SmoothSteps; s++ {
			smoother.Smooth(a, u, f)
		}

		aop.MatVec(r, u)
		floats.AddScaledTo(r, f, -1, r)

		// Coarse-grid correction.
		restrict.MatVec(rc, r)
		coarseInv.MatVec(ec, rc)
		prolong.MatVec(du, ec)
		floats.Add(u, du)

		// The transition rule is evaluated on the corrected iterate
		// so that a converged result satisfies the tolerance as
		// returned.
		aop.MatVec(r, u)
		floats.AddScaledTo(r, f, -1, r)
		res := floats.Norm(r, 2)

		stats.Iterations = iter
		stats.ResidualNorm = res
		if res < settings.Tolerance*res0 {
			status = Converged
			break
		}
		if res > 20*res0 {
			status = Diverged
			break
		}
		if iter >= settings.MaxIterations {
			break
		}
	}

	stats.Runtime = time.Since(stats.StartTime)
	return Result{U: u, Status: status, Stats: stats}
}
