// Copyright ©2026 The linop Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linop

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestBlockDiagonal(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	a := randomDense(3, 3, rnd)
	b := randomDense(2, 2, rnd)

	op := BlockDiagonal(Wrap(a), Wrap(b))
	r, c := op.Dims()
	require.Equal(t, 5, r)
	require.Equal(t, 5, c)

	x := randomVec(3, rnd)
	y := randomVec(2, rnd)
	xy := append(append([]float64{}, x...), y...)
	got := make([]float64, 5)
	op.MatVec(got, xy)

	want := append(applyDense(a, x), applyDense(b, y)...)
	assert.InDeltaSlice(t, want, got, 1e-13)
}

func TestBlockDiagonalRectangular(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	a := randomDense(2, 4, rnd)
	b := randomDense(3, 1, rnd)

	op := BlockDiagonal(Wrap(a), Wrap(b))
	r, c := op.Dims()
	require.Equal(t, 5, r)
	require.Equal(t, 5, c)

	x := randomVec(5, rnd)
	got := make([]float64, 5)
	op.MatVec(got, x)
	want := append(applyDense(a, x[:4]), applyDense(b, x[4:])...)
	assert.InDeltaSlice(t, want, got, 1e-13)
}

// A 2×2 grid with one empty cell must act like the dense block matrix
// with that cell filled by zeros.
func TestBlockGrid(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	a := randomDense(3, 3, rnd)
	b := randomDense(3, 2, rnd)
	d := randomDense(2, 2, rnd)

	op := Block([][]Operator{
		{Wrap(a), Wrap(b)},
		{nil, Wrap(d)},
	})
	r, c := op.Dims()
	require.Equal(t, 5, r)
	require.Equal(t, 5, c)

	dense := mat.NewDense(5, 5, nil)
	dense.Slice(0, 3, 0, 3).(*mat.Dense).Copy(a)
	dense.Slice(0, 3, 3, 5).(*mat.Dense).Copy(b)
	dense.Slice(3, 5, 3, 5).(*mat.Dense).Copy(d)

	x := randomVec(5, rnd)
	got := make([]float64, 5)
	op.MatVec(got, x)
	assert.InDeltaSlice(t, applyDense(dense, x), got, 1e-13)

	xm := randomDense(5, 2, rnd)
	gotm := mat.NewDense(5, 2, nil)
	op.MatMat(gotm, xm)
	var wantm mat.Dense
	wantm.Mul(dense, xm)
	assert.True(t, mat.EqualApprox(&wantm, gotm, 1e-13))
}

// Null sentinels contribute their shape but no work; a grid of nothing
// but sentinels collapses to the Null operator of the implied shape.
func TestBlockAllNull(t *testing.T) {
	op := Block([][]Operator{
		{Null(2, 3), nil},
		{nil, Null(1, 2)},
	})
	r, c := op.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 5, c)

	got := []float64{1, 1, 1}
	op.MatVec(got, []float64{1, 2, 3, 4, 5})
	assert.Equal(t, []float64{0, 0, 0}, got)
}

func TestBlockConfigurationErrors(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	a := Wrap(randomDense(2, 2, rnd))

	// Ragged grid.
	assert.Panics(t, func() {
		Block([][]Operator{
			{a, a},
			{a},
		})
	})
	// Shape mismatch with the implied row/column sizes.
	assert.Panics(t, func() {
		Block([][]Operator{
			{a, Wrap(randomDense(2, 3, rnd))},
			{a, Wrap(randomDense(3, 3, rnd))},
		})
	})
	// A fully empty row has no size to infer.
	assert.Panics(t, func() {
		Block([][]Operator{
			{a, a},
			{nil, nil},
		})
	})
	assert.Panics(t, func() { Block(nil) })
	assert.Panics(t, func() { BlockDiagonal() })
}
