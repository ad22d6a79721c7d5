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

func argReduce(name string, x *Array, kernel func(*dense.Raw, []int64) *dense.Raw, opts []ReduceOption) (*Array, error) {
	o := gatherOptions(opts)
	emptyErr := fmt.Errorf("%s: attempt to get %s of an empty sequence", name, name)
	if x.IsScalar() {
		if o.hasAxes && len(o.axes) > 0 {
			return nil, fmt.Errorf("%s: %w", name, axisError(o.axes[0], 0))
		}
		return fromScalar(dense.FromSlice([]int64{0}, dense.CPU)), nil
	}
	ndim := x.NDim()
	if !o.hasAxes || len(o.axes) == 0 {
		leaf := x.leaf()
		if leaf.Len() == 0 {
			return nil, emptyErr
		}
		res := fromScalar(kernel(leaf, []int64{0, int64(leaf.Len())}))
		if !o.keepDims {
			return res, nil
		}
		all := make([]int, ndim)
		for i := range all {
			all[i] = i
		}
		return reinsertAxes(res, all)
	}
	if len(o.axes) != 1 {
		return nil, fmt.Errorf("%s: a single axis is required, got %d", name, len(o.axes))
	}
	na, err := normalizeAxis(o.axes[0], ndim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var out *Array
	if na == ndim-1 {
		var offsets []int64
		if ndim == 1 {
			offsets = []int64{0, int64(x.leaf().Len())}
		} else {
			offsets = layout.InnermostOffsets(x.list)
		}
		for i := 1; i < len(offsets); i++ {
			if offsets[i] == offsets[i-1] {
				return nil, emptyErr
			}
		}
		red := kernel(x.leaf(), offsets)
		if ndim == 1 {
			out = fromScalar(red)
		} else {
			out = fromContent(layout.DropInnermost(x.list, red))
		}
	} else {
		shape, ok := layout.RegularShape(x.list)
		if !ok {
			return nil, fmt.Errorf("%s: axis %d crosses ragged lists; reduce the innermost axis or a fully regular array", name, na)
		}
		if shape[na] == 0 {
			return nil, emptyErr
		}
		perm, _, lanes, n := axisLanes(shape, na)
		red := kernel(cpu.Gather(x.leaf(), perm), uniformOffsets(lanes, n))
		reducedShape := append(Shape{}, shape[:na]...)
		reducedShape = append(reducedShape, shape[na+1:]...)
		if reducedShape.Rank() == 0 {
			out = fromScalar(red)
		} else {
			out = fromContent(layout.FromDense(red, reducedShape))
		}
	}
	if o.keepDims {
		return reinsertAxes(out, []int{na})
	}
	return out, nil
}

// Argmax returns the within-axis index of the largest element, taking the
// first occurrence on ties. Without Along it indexes the flattened array.
func Argmax(x *Array, opts ...ReduceOption) (*Array, error) {
	return argReduce("argmax", x, cpu.ArgMaxSegments, opts)
}

// Argmin returns the within-axis index of the smallest element, taking
// the first occurrence on ties.
func Argmin(x *Array, opts ...ReduceOption) (*Array, error) {
	return argReduce("argmin", x, cpu.ArgMinSegments, opts)
}

// Nonzero returns the indices of the true elements, one int64 array per
// dimension, in row-major order. A scalar yields a single index array
// that is empty for a false value and [0] for a true one.
func Nonzero(x *Array) ([]*Array, error) {
	if x.IsScalar() {
		if cpu.Truthy(x.scalar, 0) {
			return []*Array{fromContent(&layout.Leaf{Data: dense.FromSlice([]int64{0}, dense.CPU)})}, nil
		}
		return []*Array{fromContent(&layout.Leaf{Data: dense.FromSlice([]int64{}, dense.CPU)})}, nil
	}
	ndim := x.NDim()
	leaf := x.leaf()
	dims := make([][]int64, ndim)
	flat := 0
	layout.ForEachElement(x.list, func(path []int64) {
		if cpu.Truthy(leaf, flat) {
			for d, i := range path {
				dims[d] = append(dims[d], i)
			}
		}
		flat++
	})
	out := make([]*Array, ndim)
	for d := range dims {
		out[d] = fromContent(&layout.Leaf{Data: dense.FromSlice(dims[d], dense.CPU)})
	}
	return out, nil
}

// Where selects elements from x where cond is true and from y otherwise,
// after broadcasting all three to a common structure.
func Where(cond, x, y *Array) (*Array, error) {
	dt := promoted(x, y)
	bs, err := BroadcastArrays(cond, x, y)
	if err != nil {
		return nil, fmt.Errorf("where: %w", err)
	}
	c, xb, yb := bs[0], castArray(bs[1], dt), castArray(bs[2], dt)
	if c.IsScalar() {
		return fromScalar(cpu.Select(c.scalar, xb.scalar, yb.scalar)), nil
	}
	return c.withLeaf(cpu.Select(c.leaf(), xb.leaf(), yb.leaf())), nil
}

// SearchSorted returns, for each element of x2, the index at which it could
// be inserted into the 1-D ascending-sorted x1 without unsorting it. With
// right set, ties resolve to the rightmost valid position. The result has
// the structure of x2 with int64 elements.
func SearchSorted(x1, x2 *Array, right bool) (*Array, error) {
	if x1.NDim() != 1 {
		return nil, fmt.Errorf("searchsorted: x1 must be one-dimensional, got shape %s", x1.Shape())
	}
	idx := cpu.SearchSorted(x1.leaf(), x2.leaf(), right)
	if x2.IsScalar() {
		return fromScalar(idx), nil
	}
	return x2.withLeaf(idx), nil
}
