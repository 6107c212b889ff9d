// Copyright ©2026 The linop Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linop

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// blockOperator assembles a global operator from sub-operators placed at
// precomputed row and column offsets. Overlapping contributions to the
// output are summed.
type blockOperator struct {
	r, c   int
	ops    []Operator
	rowOff []int
	colOff []int
	maxRow int // largest sub-operator row count
}

func (b *blockOperator) Dims() (r, c int) { return b.r, b.c }

func (b *blockOperator) MatVec(dst, x []float64) {
	checkApply(b, dst, x)
	for i := range dst {
		dst[i] = 0
	}
	buf := make([]float64, b.maxRow)
	for i, op := range b.ops {
		r, c := op.Dims()
		op.MatVec(buf[:r], x[b.colOff[i]:b.colOff[i]+c])
		floats.Add(dst[b.rowOff[i]:b.rowOff[i]+r], buf[:r])
	}
}

func (b *blockOperator) MatMat(dst, x *mat.Dense) {
	checkApplyMat(b, dst, x)
	_, k := x.Dims()
	dst.Zero()
	for i, op := range b.ops {
		r, c := op.Dims()
		xi := x.Slice(b.colOff[i], b.colOff[i]+c, 0, k).(*mat.Dense)
		var yi mat.Dense
		yi.ReuseAs(r, k)
		op.MatMat(&yi, xi)
		di := dst.Slice(b.rowOff[i], b.rowOff[i]+r, 0, k).(*mat.Dense)
		di.Add(di, &yi)
	}
}

// sizesToOffsets converts a sequence of sizes into the start offsets of
// consecutive index ranges: range k begins where range k-1 ends and the
// first range begins at 0. The returned slice has one extra element
// holding the total.
func sizesToOffsets(sizes []int) []int {
	off := make([]int, len(sizes)+1)
	for i, s := range sizes {
		off[i+1] = off[i] + s
	}
	return off
}

func newBlockOperator(r, c int, ops []Operator, rowOff, colOff []int) Operator {
	maxRow := 0
	for _, op := range ops {
		or, _ := op.Dims()
		if or > maxRow {
			maxRow = or
		}
	}
	return &blockOperator{r: r, c: c, ops: ops, rowOff: rowOff, colOff: colOff, maxRow: maxRow}
}

// BlockDiagonal returns the operator with the given operators as
// diagonal blocks and zeros elsewhere. The operators may be
// rectangular.
func BlockDiagonal(ops ...Operator) Operator {
	if len(ops) == 0 {
		panic("linop: empty block diagonal")
	}
	rows := make([]int, len(ops))
	cols := make([]int, len(ops))
	for i, op := range ops {
		if op == nil {
			panic("linop: nil operator in block diagonal")
		}
		rows[i], cols[i] = op.Dims()
	}
	rowOff := sizesToOffsets(rows)
	colOff := sizesToOffsets(cols)
	return newBlockOperator(rowOff[len(ops)], colOff[len(ops)], ops, rowOff, colOff)
}

// Block assembles an operator from a rectangular grid of sub-operators.
// Cell (i, j) is placed at the row range implied by the heights of the
// blocks in row i and the column range implied by the widths of the
// blocks in column j. Empty cells are represented by nil or by a Null
// operator; every row and every column must contain at least one
// non-nil cell so its size can be inferred. If all cells are empty, the
// result is the Null operator of the implied shape.
func Block(grid [][]Operator) Operator {
	m := len(grid)
	if m == 0 {
		panic("linop: empty block grid")
	}
	n := len(grid[0])
	if n == 0 {
		panic("linop: empty block grid")
	}
	for _, row := range grid {
		if len(row) != n {
			panic("linop: ragged block grid")
		}
	}

	rowSize := make([]int, m)
	for i, row := range grid {
		rowSize[i] = -1
		for _, op := range row {
			if op != nil {
				r, _ := op.Dims()
				rowSize[i] = r
				break
			}
		}
		if rowSize[i] < 0 {
			panic("linop: cannot infer block row size")
		}
	}
	colSize := make([]int, n)
	for j := 0; j < n; j++ {
		colSize[j] = -1
		for i := 0; i < m; i++ {
			if grid[i][j] != nil {
				_, c := grid[i][j].Dims()
				colSize[j] = c
				break
			}
		}
		if colSize[j] < 0 {
			panic("linop: cannot infer block column size")
		}
	}
	rowOff := sizesToOffsets(rowSize)
	colOff := sizesToOffsets(colSize)

	var (
		ops      []Operator
		opRowOff []int
		opColOff []int
	)
	for i, row := range grid {
		for j, op := range row {
			if op == nil {
				continue
			}
			r, c := op.Dims()
			if r != rowSize[i] || c != colSize[j] {
				panic("linop: block shape mismatch")
			}
			if _, null := op.(nullOperator); null {
				continue
			}
			ops = append(ops, op)
			opRowOff = append(opRowOff, rowOff[i])
			opColOff = append(opColOff, colOff[j])
		}
	}
	if len(ops) == 0 {
		return Null(rowOff[m], colOff[n])
	}
	return newBlockOperator(rowOff[m], colOff[n], ops, opRowOff, opColOff)
}
