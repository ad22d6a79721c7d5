// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ragged

import (
	"fmt"

	"github.com/ragged-data/ragged/internal/dense"
	"github.com/ragged-data/ragged/internal/layout"
)

// IsEffectivelyRegular reports whether a ragged-looking array could be a
// regular one: at each level the lists have one shared length. The probe
// follows the first branch downward, so a deviation off the first branch
// below the top level goes unnoticed, and an empty array is not regular.
func IsEffectivelyRegular(x *Array) bool {
	if x.IsScalar() {
		return true
	}
	return effectivelyRegular(layout.ToGo(x.list))
}

func effectivelyRegular(v any) bool {
	lst, ok := v.([]any)
	if !ok {
		return true
	}
	if len(lst) == 0 {
		return false
	}
	first, ok := lst[0].([]any)
	if !ok {
		return true
	}
	for _, e := range lst {
		inner, ok := e.([]any)
		if !ok || len(inner) != len(first) {
			return false
		}
	}
	return effectivelyRegular(lst[0])
}

// sortedDescendingAllLevels checks that successive lists at every nesting
// level never grow, the precondition for left-aligned ragged transposition.
func sortedDescendingAllLevels(v any) bool {
	lst, ok := v.([]any)
	if !ok {
		return true
	}
	prev := -1
	for _, e := range lst {
		inner, ok := e.([]any)
		if !ok {
			return true
		}
		if prev >= 0 && len(inner) > prev {
			return false
		}
		prev = len(inner)
	}
	for _, e := range lst {
		if !sortedDescendingAllLevels(e) {
			return false
		}
	}
	return true
}

// MatrixTranspose transposes the innermost matrix of an array, or of each
// matrix in a stack. Ragged matrices must have their list lengths sorted
// descending; column i of the result collects element i of every row long
// enough to have one.
func MatrixTranspose(x *Array) (*Array, error) {
	if x.NDim() < 2 {
		return nil, fmt.Errorf("matrix_transpose: input must have at least 2 dimensions, got %d", x.NDim())
	}
	nested := layout.ToGo(x.list).([]any)
	if !sortedDescendingAllLevels(nested) {
		return nil, fmt.Errorf("matrix_transpose: ragged dimension's lists must be sorted descending, from longest to shortest; left-aligned ragged transposition is not possible otherwise")
	}
	transposed, err := transposeAt(nested, x.NDim()-2)
	if err != nil {
		return nil, err
	}
	out, scalar, err := layout.FromGo(transposed, x.Device())
	if err != nil {
		return nil, fmt.Errorf("matrix_transpose: %w", err)
	}
	if scalar != nil {
		return fromScalar(scalar), nil
	}
	return castArray(fromContent(out), x.DType()), nil
}

func transposeAt(v []any, depth int) ([]any, error) {
	if depth == 0 {
		return transposeMatrix(v), nil
	}
	out := make([]any, len(v))
	for i, e := range v {
		sub, ok := e.([]any)
		if !ok {
			return nil, fmt.Errorf("matrix_transpose: expected a list at depth %d", depth)
		}
		t, err := transposeAt(sub, depth-1)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func transposeMatrix(rows []any) []any {
	maxCols := 0
	for _, r := range rows {
		if n := len(r.([]any)); n > maxCols {
			maxCols = n
		}
	}
	out := make([]any, maxCols)
	for c := 0; c < maxCols; c++ {
		var col []any
		for _, r := range rows {
			row := r.([]any)
			if c < len(row) {
				col = append(col, row[c])
			}
		}
		out[c] = col
	}
	return out
}

// rowSpans returns the start offset and length of every top-level list of
// a rank-2 layout.
func rowSpans(c layout.Content) ([]int, []int) {
	ls := cList(c)
	starts := make([]int, c.Length())
	lengths := make([]int, c.Length())
	for i := range starts {
		starts[i], lengths[i] = ls(i)
	}
	return starts, lengths
}

// cList adapts a rank-2 layout to per-row span lookups.
func cList(c layout.Content) func(i int) (start, length int) {
	offsets := layout.InnermostOffsets(c)
	return func(i int) (int, int) {
		return int(offsets[i]), int(offsets[i+1] - offsets[i])
	}
}

// matmul2d multiplies two rank-2 layouts with zero padding: the
// contraction width is the longest row of a, rows of b beyond their length
// contribute zeros, and an empty row of a stays empty in the result.
func matmul2d(a, b layout.Content, out DataType) (layout.Content, error) {
	aStarts, aLens := rowSpans(a)
	bStarts, bLens := rowSpans(b)
	aLeaf, bLeaf := layout.LeafOf(a), layout.LeafOf(b)

	maxColsA, maxColsB := 0, 0
	for _, n := range aLens {
		if n > maxColsA {
			maxColsA = n
		}
	}
	allBEmpty := true
	for _, n := range bLens {
		if n > maxColsB {
			maxColsB = n
		}
		if n > 0 {
			allBEmpty = false
		}
	}
	effRowsB := len(bLens)
	if allBEmpty {
		effRowsB = 0
	}
	if maxColsA != effRowsB && !(maxColsA == 0 && effRowsB == 0) {
		return nil, fmt.Errorf("matmul: shape mismatch in core dimensions: %d vs %d", maxColsA, effRowsB)
	}
	m, k, n := len(aLens), maxColsA, maxColsB

	aAt := func(r, c int) (int, bool) {
		if c < aLens[r] {
			return aStarts[r] + c, true
		}
		return 0, false
	}
	bAt := func(r, c int) (int, bool) {
		if r < len(bLens) && c < bLens[r] {
			return bStarts[r] + c, true
		}
		return 0, false
	}

	offsets := make([]int64, 1, m+1)
	total := 0
	for r := 0; r < m; r++ {
		if aLens[r] > 0 {
			total += n
		}
		offsets = append(offsets, int64(total))
	}
	leaf := dense.NewRaw(total, out, aLeaf.Device())
	pos := 0
	for r := 0; r < m; r++ {
		if aLens[r] == 0 {
			continue
		}
		for c := 0; c < n; c++ {
			switch {
			case out.IsComplex():
				var acc complex128
				for i := 0; i < k; i++ {
					ai, aok := aAt(r, i)
					bi, bok := bAt(i, c)
					if aok && bok {
						acc += aLeaf.Complex128At(ai) * bLeaf.Complex128At(bi)
					}
				}
				leaf.SetComplex128(pos, acc)
			case out.IsFloat():
				var acc float64
				for i := 0; i < k; i++ {
					ai, aok := aAt(r, i)
					bi, bok := bAt(i, c)
					if aok && bok {
						acc += aLeaf.Float64At(ai) * bLeaf.Float64At(bi)
					}
				}
				leaf.SetFloat64(pos, acc)
			case out == dense.Uint64:
				var acc uint64
				for i := 0; i < k; i++ {
					ai, aok := aAt(r, i)
					bi, bok := bAt(i, c)
					if aok && bok {
						acc += aLeaf.Uint64At(ai) * bLeaf.Uint64At(bi)
					}
				}
				leaf.SetUint64(pos, acc)
			default:
				var acc int64
				for i := 0; i < k; i++ {
					ai, aok := aAt(r, i)
					bi, bok := bAt(i, c)
					if aok && bok {
						acc += aLeaf.Int64At(ai) * bLeaf.Int64At(bi)
					}
				}
				leaf.SetInt64(pos, acc)
			}
			pos++
		}
	}
	return &layout.ListOffset{Offsets: offsets, Child: &layout.Leaf{Data: leaf}}, nil
}

// rowsOf wraps a rank-1 layout as a single-row matrix.
func rowsOf(leaf *dense.Raw) layout.Content {
	return &layout.ListOffset{
		Offsets: []int64{0, int64(leaf.Len())},
		Child:   &layout.Leaf{Data: leaf},
	}
}

// columnOf wraps a rank-1 layout as a single-column matrix.
func columnOf(leaf *dense.Raw) layout.Content {
	offsets := make([]int64, leaf.Len()+1)
	for i := range offsets {
		offsets[i] = int64(i)
	}
	return &layout.ListOffset{Offsets: offsets, Child: &layout.Leaf{Data: leaf}}
}

// batchOf slices one top-level element of a layout as its own layout.
func batchOf(c layout.Content, i int) layout.Content {
	one := layout.GatherElements(c, []int64{int64(i)})
	sub, err := layout.Flatten(one)
	if err != nil {
		panic(err)
	}
	return sub
}

// Matmul computes the matrix product with ragged-safe zero padding: rows
// shorter than the contraction width contribute zeros. One-dimensional
// operands promote to a singleton row or column and the singleton
// dimension drops from the result; batch dimensions broadcast when one
// side has a single batch.
func Matmul(x1, x2 *Array) (*Array, error) {
	if x1.NDim() == 0 || x2.NDim() == 0 {
		return nil, fmt.Errorf("matmul: zero-dimensional arrays are not allowed")
	}
	out := promoted(x1, x2)
	a, b := castArray(x1, out), castArray(x2, out)

	switch {
	case a.NDim() == 1 && b.NDim() == 1:
		if a.leaf().Len() != b.leaf().Len() {
			return nil, fmt.Errorf("matmul: shape mismatch for 1D arrays: %d vs %d", a.leaf().Len(), b.leaf().Len())
		}
		prod, err := matmul2d(rowsOf(a.leaf()), columnOf(b.leaf()), out)
		if err != nil {
			return nil, err
		}
		dot := layout.LeafOf(prod)
		if dot.Len() == 0 {
			dot = dense.NewRaw(1, out, a.leaf().Device())
		}
		return fromScalar(dot), nil

	case a.NDim() == 1 && b.NDim() == 2:
		prod, err := matmul2d(rowsOf(a.leaf()), b.list, out)
		if err != nil {
			return nil, err
		}
		row, err := layout.Flatten(prod)
		if err != nil {
			return nil, fmt.Errorf("matmul: %w", err)
		}
		return fromContent(row), nil

	case a.NDim() == 2 && b.NDim() == 1:
		prod, err := matmul2d(a.list, columnOf(b.leaf()), out)
		if err != nil {
			return nil, err
		}
		// Collapse the trailing singleton: each result row holds the dot
		// product of one row of a, or nothing when that row was empty and
		// contributed only zeros.
		return fromContent(&layout.Leaf{Data: layout.LeafOf(prod)}), nil

	case a.NDim() == 2 && b.NDim() == 2:
		prod, err := matmul2d(a.list, b.list, out)
		if err != nil {
			return nil, err
		}
		return fromContent(prod), nil
	}

	// Batched: the leading dimension indexes matrices, and a side without
	// batches multiplies every batch of the other.
	b1, b2 := 1, 1
	if a.NDim() > 2 {
		b1 = a.list.Length()
	}
	if b.NDim() > 2 {
		b2 = b.list.Length()
	}
	if b1 != b2 && b1 != 1 && b2 != 1 {
		return nil, fmt.Errorf("matmul: broadcast dimension mismatch: %d vs %d", b1, b2)
	}
	nBatches := b1
	if b2 > nBatches {
		nBatches = b2
	}
	results := make([]*Array, nBatches)
	for i := 0; i < nBatches; i++ {
		sub1, sub2 := a, b
		if a.NDim() > 2 {
			sub1 = fromContent(batchOf(a.list, i%b1))
		}
		if b.NDim() > 2 {
			sub2 = fromContent(batchOf(b.list, i%b2))
		}
		r, err := Matmul(sub1, sub2)
		if err != nil {
			return nil, err
		}
		results[i] = r
	}
	offsets := make([]int64, 1, nBatches+1)
	children := make([]layout.Content, nBatches)
	for i, r := range results {
		offsets = append(offsets, offsets[len(offsets)-1]+int64(r.list.Length()))
		children[i] = r.list
	}
	child, err := layout.Concat(children)
	if err != nil {
		return nil, fmt.Errorf("matmul: %w", err)
	}
	return fromContent(&layout.ListOffset{Offsets: offsets, Child: child}), nil
}

// Tensordot is not implemented for ragged arrays.
func Tensordot(x1, x2 *Array, axes int) (*Array, error) {
	return nil, fmt.Errorf("tensordot: %w", ErrNotImplemented)
}

// Vecdot is not implemented for ragged arrays.
func Vecdot(x1, x2 *Array, axis int) (*Array, error) {
	return nil, fmt.Errorf("vecdot: %w", ErrNotImplemented)
}
