// Copyright ©2026 The linop Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package splu implements a sparse LU factorization with partial
// pivoting over map-based row storage. It is the fallback direct solver
// for sparse systems when no external factorization backend is
// injected.
package splu

import (
	"errors"
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned by Factorize when elimination encounters a
// column with no usable pivot.
var ErrSingular = errors.New("splu: matrix is singular")

// LU is a sparse LU factorization P*A = L*U. The factorization is
// computed once by Factorize and is read-only afterwards, so an LU may
// be shared between goroutines at solve time.
type LU struct {
	n int

	// perm[k] is the row of A eliminated at step k.
	perm []int
	// lower[r] maps elimination step k to the multiplier applied to
	// row r at that step; the strictly lower triangle of L keyed by
	// original row.
	lower []map[int]float64
	// upper[k] is row k of U, keyed by column, diagonal included.
	upper []map[int]float64
}

// Factorize computes the LU factorization of the square matrix a.
// Sparse input is traversed through its non-zero structure; any other
// matrix is read entry by entry. No drop tolerance is applied: entries
// are removed only when they cancel exactly.
func Factorize(a mat.Matrix) (*LU, error) {
	n, c := a.Dims()
	if n != c {
		panic("splu: non-square matrix")
	}

	rows := make([]map[int]float64, n)
	for i := range rows {
		rows[i] = make(map[int]float64)
	}
	if s, ok := a.(sparse.Sparser); ok {
		s.DoNonZero(func(i, j int, v float64) {
			if v != 0 {
				rows[i][j] = v
			}
		})
	} else {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if v := a.At(i, j); v != 0 {
					rows[i][j] = v
				}
			}
		}
	}

	lu := &LU{
		n:     n,
		perm:  make([]int, n),
		lower: make([]map[int]float64, n),
		upper: make([]map[int]float64, n),
	}
	for i := range lu.lower {
		lu.lower[i] = make(map[int]float64)
	}

	// order[i] is the original row currently at logical position i.
	// Pivot swaps only touch positions >= k, so the multipliers a row
	// accumulated at earlier steps stay attached to it.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	for k := 0; k < n; k++ {
		p, pmax := -1, 0.0
		for i := k; i < n; i++ {
			if v, ok := rows[order[i]][k]; ok {
				if av := math.Abs(v); av > pmax {
					p, pmax = i, av
				}
			}
		}
		if p < 0 {
			return nil, ErrSingular
		}
		order[k], order[p] = order[p], order[k]

		prow := rows[order[k]]
		piv := prow[k]
		for i := k + 1; i < n; i++ {
			r := rows[order[i]]
			v, ok := r[k]
			if !ok {
				continue
			}
			m := v / piv
			lu.lower[order[i]][k] = m
			delete(r, k)
			for j, pv := range prow {
				if j <= k {
					continue
				}
				nv := r[j] - m*pv
				if nv == 0 {
					delete(r, j)
				} else {
					r[j] = nv
				}
			}
		}
		lu.upper[k] = prow
	}
	copy(lu.perm, order)
	return lu, nil
}

// Solve stores into dst the solution of A*x = b. dst must not alias b.
func (lu *LU) Solve(dst, b []float64) {
	if len(b) != lu.n {
		panic("splu: mismatched input length")
	}
	if len(dst) != lu.n {
		panic("splu: mismatched output length")
	}

	// Forward substitution, L*y = P*b.
	y := dst
	for k := 0; k < lu.n; k++ {
		yk := b[lu.perm[k]]
		for j, m := range lu.lower[lu.perm[k]] {
			yk -= m * y[j]
		}
		y[k] = yk
	}
	// Back substitution, U*x = y.
	for k := lu.n - 1; k >= 0; k-- {
		xk := y[k]
		for j, v := range lu.upper[k] {
			if j != k {
				xk -= v * y[j]
			}
		}
		y[k] = xk / lu.upper[k][k]
	}
}
