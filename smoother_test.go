// Copyright ©2026 The linop Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linop

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func residualNorm(a mat.Matrix, u, f []float64) float64 {
	r := make([]float64, len(u))
	Wrap(a).MatVec(r, u)
	floats.AddScaledTo(r, f, -1, r)
	return floats.Norm(r, 2)
}

func TestGaussSeidelReducesResidual(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	a := randomSPD(10, rnd)
	f := randomVec(10, rnd)

	for _, sweep := range []Sweep{Forward, Backward, SymmetricSweep} {
		u := make([]float64, 10)
		res0 := residualNorm(a, u, f)
		gs := GaussSeidel{Sweep: sweep}
		for i := 0; i < 5; i++ {
			gs.Smooth(a, u, f)
		}
		assert.Less(t, residualNorm(a, u, f), 0.5*res0, "sweep=%v", sweep)
	}
}

// The CSR fast path must produce the same sweep as the generic
// entrywise path.
func TestGaussSeidelSparseMatchesDense(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	a := poisson1D(16)
	csr := toCSR(a)
	f := randomVec(16, rnd)

	ud := randomVec(16, rnd)
	us := append([]float64{}, ud...)

	gs := GaussSeidel{Iterations: 3, Sweep: SymmetricSweep}
	gs.Smooth(a, ud, f)
	gs.Smooth(csr, us, f)

	assert.InDeltaSlice(t, ud, us, 1e-13)
}

func TestOperatorSmootherJacobi(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	a := randomSPD(12, rnd)
	f := randomVec(12, rnd)

	invDiag := make([]float64, 12)
	for i := range invDiag {
		invDiag[i] = 1 / a.At(i, i)
	}
	sm := OperatorSmoother{S: Scale(0.8, Diagonal(invDiag))}

	u := make([]float64, 12)
	res0 := residualNorm(a, u, f)
	for i := 0; i < 10; i++ {
		sm.Smooth(a, u, f)
	}
	assert.Less(t, residualNorm(a, u, f), 0.5*res0)
}

type recordingSmoother struct {
	name string
	log  *[]string
}

func (r recordingSmoother) Smooth(a mat.Matrix, u, f []float64) {
	*r.log = append(*r.log, r.name)
}

func TestSequentialOrder(t *testing.T) {
	var log []string
	seq := Sequential{
		recordingSmoother{name: "first", log: &log},
		recordingSmoother{name: "second", log: &log},
		recordingSmoother{name: "third", log: &log},
	}
	a := poisson1D(4)
	u := make([]float64, 4)
	f := make([]float64, 4)
	seq.Smooth(a, u, f)
	seq.Smooth(a, u, f)
	require.Equal(t, []string{"first", "second", "third", "first", "second", "third"}, log)
}

func TestGaussSeidelInvalidSweep(t *testing.T) {
	a := poisson1D(4)
	u := make([]float64, 4)
	f := make([]float64, 4)
	gs := GaussSeidel{Sweep: Sweep(42)}
	assert.Panics(t, func() { gs.Smooth(a, u, f) })
}
