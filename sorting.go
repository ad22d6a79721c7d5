// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ragged

import (
	"fmt"

	"github.com/ragged-data/ragged/internal/backend/cpu"
	"github.com/ragged-data/ragged/internal/dense"
	"github.com/ragged-data/ragged/internal/layout"
)

// axisLanes computes the gather permutation that brings one axis of a
// dense shape innermost, plus its inverse. Each of the lanes runs of n
// consecutive elements in the permuted order is one slice along the axis.
func axisLanes(shape Shape, axis int) (perm, inv []int64, lanes, n int) {
	outer, inner := 1, 1
	n = shape[axis]
	for _, d := range shape[:axis] {
		outer *= d
	}
	for _, d := range shape[axis+1:] {
		inner *= d
	}
	lanes = outer * inner
	perm = make([]int64, lanes*n)
	inv = make([]int64, lanes*n)
	j := 0
	for o := 0; o < outer; o++ {
		for i := 0; i < inner; i++ {
			for k := 0; k < n; k++ {
				orig := int64(o*n*inner + k*inner + i)
				perm[j] = orig
				inv[orig] = int64(j)
				j++
			}
		}
	}
	return perm, inv, lanes, n
}

func uniformOffsets(lanes, n int) []int64 {
	offsets := make([]int64, lanes+1)
	for i := range offsets {
		offsets[i] = int64(i * n)
	}
	return offsets
}

// sortOffsets resolves the segment boundaries for sorting along an axis,
// permuting the leaf first when the axis is not innermost.
func sortOffsets(name string, x *Array, axis int) (leaf *dense.Raw, offsets, inv []int64, err error) {
	ndim := x.NDim()
	na, err := normalizeAxis(axis, ndim)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	leaf = x.leaf()
	if na == ndim-1 {
		if ndim == 1 {
			return leaf, []int64{0, int64(leaf.Len())}, nil, nil
		}
		return leaf, layout.InnermostOffsets(x.list), nil, nil
	}
	shape, ok := layout.RegularShape(x.list)
	if !ok {
		return nil, nil, nil, fmt.Errorf("%s: axis %d crosses ragged lists; sort the innermost axis or a fully regular array", name, na)
	}
	perm, inv, lanes, n := axisLanes(shape, na)
	return cpu.Gather(leaf, perm), uniformOffsets(lanes, n), inv, nil
}

// Sort orders the elements along an axis, ascending by default. The sort
// is stable regardless of the stable flag; NaN sorts last.
func Sort(x *Array, axis int, descending, stable bool) (*Array, error) {
	if x.IsScalar() {
		return nil, fmt.Errorf("sort: %w", axisError(axis, 0))
	}
	leaf, offsets, inv, err := sortOffsets("sort", x, axis)
	if err != nil {
		return nil, err
	}
	sorted := cpu.SortSegments(leaf, offsets, descending)
	if inv != nil {
		sorted = cpu.Gather(sorted, inv)
	}
	return x.withLeaf(sorted), nil
}

// Argsort returns the within-axis indices that would sort the elements
// along an axis, as int64 with the input's structure.
func Argsort(x *Array, axis int, descending, stable bool) (*Array, error) {
	if x.IsScalar() {
		return nil, fmt.Errorf("argsort: %w", axisError(axis, 0))
	}
	leaf, offsets, inv, err := sortOffsets("argsort", x, axis)
	if err != nil {
		return nil, err
	}
	arg := cpu.ArgsortSegments(leaf, offsets, descending)
	if inv != nil {
		arg = cpu.Gather(arg, inv)
	}
	return x.withLeaf(arg), nil
}
