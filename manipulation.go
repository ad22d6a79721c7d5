// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ragged

import (
	"fmt"
	"sort"

	"github.com/ragged-data/ragged/internal/backend/cpu"
	"github.com/ragged-data/ragged/internal/dense"
	"github.com/ragged-data/ragged/internal/layout"
)

// castArray converts an array to a dtype, sharing the input when it already
// matches.
func castArray(x *Array, dt DataType) *Array {
	if x.DType() == dt {
		return x
	}
	return x.withLeaf(cpu.Cast(x.leaf(), dt))
}

// Concat joins arrays along an existing axis. The arrays must share a rank
// and agree on every list length above the target axis; dtypes promote to a
// common type.
func Concat(xs []*Array, axis int) (*Array, error) {
	if len(xs) == 0 {
		return nil, fmt.Errorf("concat: need at least one array")
	}
	ndim := xs[0].NDim()
	if ndim == 0 {
		return nil, fmt.Errorf("concat: zero-dimensional arrays cannot be concatenated")
	}
	for _, x := range xs {
		if x.NDim() != ndim {
			return nil, fmt.Errorf("concat: rank mismatch: %d vs %d", ndim, x.NDim())
		}
	}
	axis, err := normalizeAxis(axis, ndim)
	if err != nil {
		return nil, fmt.Errorf("concat: %w", err)
	}
	dt := xs[0].DType()
	for _, x := range xs[1:] {
		dt = dense.Promote(dt, x.DType())
	}
	parts := make([]layout.Content, len(xs))
	for i, x := range xs {
		parts[i] = castArray(x, dt).list
	}
	out, err := layout.ConcatAt(parts, axis)
	if err != nil {
		return nil, fmt.Errorf("concat: %w", err)
	}
	return fromContent(out), nil
}

// ConcatFlat flattens every input and joins the values into a single
// one-dimensional array, the axis-less concatenation.
func ConcatFlat(xs []*Array) (*Array, error) {
	if len(xs) == 0 {
		return nil, fmt.Errorf("concat: need at least one array")
	}
	dt := xs[0].DType()
	for _, x := range xs[1:] {
		dt = dense.Promote(dt, x.DType())
	}
	leaves := make([]*dense.Raw, len(xs))
	for i, x := range xs {
		leaves[i] = castArray(x, dt).leaf()
	}
	return fromContent(&layout.Leaf{Data: cpu.Concat(leaves)}), nil
}

// Stack joins arrays along a new axis. Each input becomes one slice of the
// result.
func Stack(xs []*Array, axis int) (*Array, error) {
	if len(xs) == 0 {
		return nil, fmt.Errorf("stack: need at least one array")
	}
	ndim := xs[0].NDim()
	axis, err := normalizeAxis(axis, ndim+1)
	if err != nil {
		return nil, fmt.Errorf("stack: %w", err)
	}
	expanded := make([]*Array, len(xs))
	for i, x := range xs {
		e, err := ExpandDims(x, axis)
		if err != nil {
			return nil, fmt.Errorf("stack: %w", err)
		}
		expanded[i] = e
	}
	out, err := Concat(expanded, axis)
	if err != nil {
		return nil, fmt.Errorf("stack: %w", err)
	}
	return out, nil
}

// ExpandDims inserts a length-1 axis at the given position. A scalar
// expands into a one-element vector.
func ExpandDims(x *Array, axis int) (*Array, error) {
	ndim := x.NDim()
	axis, err := normalizeAxis(axis, ndim+1)
	if err != nil {
		return nil, fmt.Errorf("expand_dims: %w", err)
	}
	if x.IsScalar() {
		return fromContent(&layout.Leaf{Data: x.scalar}), nil
	}
	out, err := layout.ExpandDims(x.list, axis)
	if err != nil {
		return nil, fmt.Errorf("expand_dims: %w", err)
	}
	return fromContent(out), nil
}

// Squeeze removes the named axes, each of which must have extent 1
// everywhere. Squeezing the only axis of a one-element vector yields a
// scalar.
func Squeeze(x *Array, axes ...int) (*Array, error) {
	if len(axes) == 0 {
		return nil, fmt.Errorf("squeeze: at least one axis is required")
	}
	normalized := make([]int, 0, len(axes))
	for _, a := range axes {
		na, err := normalizeAxis(a, x.NDim())
		if err != nil {
			return nil, fmt.Errorf("squeeze: %w", err)
		}
		normalized = append(normalized, na)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(normalized)))
	out := x
	for i, a := range normalized {
		if i > 0 && a == normalized[i-1] {
			return nil, fmt.Errorf("squeeze: duplicate axis %d", a)
		}
		if out.NDim() == 1 {
			leaf := out.leaf()
			if leaf.Len() != 1 {
				return nil, fmt.Errorf("squeeze: cannot squeeze axis %d of length %d", a, leaf.Len())
			}
			out = fromScalar(leaf)
			continue
		}
		c, err := layout.SqueezeDim(out.list, a)
		if err != nil {
			return nil, fmt.Errorf("squeeze: %w", err)
		}
		out = fromContent(c)
	}
	return out, nil
}

func reversed(length int) []int64 {
	idx := make([]int64, length)
	for i := range idx {
		idx[i] = int64(length - 1 - i)
	}
	return idx
}

func rotated(length, shift int) []int64 {
	idx := make([]int64, length)
	if length == 0 {
		return idx
	}
	for i := range idx {
		k := (i - shift) % length
		if k < 0 {
			k += length
		}
		idx[i] = int64(k)
	}
	return idx
}

// Flip reverses element order along the given axes, or along every axis
// when none are named.
func Flip(x *Array, axes ...int) (*Array, error) {
	if x.IsScalar() {
		if len(axes) > 0 {
			return nil, fmt.Errorf("flip: %w", axisError(axes[0], 0))
		}
		return x, nil
	}
	if len(axes) == 0 {
		for a := 0; a < x.NDim(); a++ {
			axes = append(axes, a)
		}
	}
	out := x.list
	for _, a := range axes {
		na, err := normalizeAxis(a, x.NDim())
		if err != nil {
			return nil, fmt.Errorf("flip: %w", err)
		}
		if na == 0 {
			out = layout.GatherElements(out, reversed(out.Length()))
			continue
		}
		flipped, err := layout.PermuteWithin(out, na-1, reversed)
		if err != nil {
			return nil, fmt.Errorf("flip: %w", err)
		}
		out = flipped
	}
	return fromContent(out), nil
}

// Roll shifts elements circularly by shift positions along the given axes.
// With no axes the array rolls as a flat sequence, keeping its list
// structure.
func Roll(x *Array, shift int, axes ...int) (*Array, error) {
	if x.IsScalar() {
		if len(axes) > 0 {
			return nil, fmt.Errorf("roll: %w", axisError(axes[0], 0))
		}
		return x, nil
	}
	if len(axes) == 0 {
		leaf := x.leaf()
		return x.withLeaf(cpu.Gather(leaf, rotated(leaf.Len(), shift))), nil
	}
	out := x.list
	for _, a := range axes {
		na, err := normalizeAxis(a, x.NDim())
		if err != nil {
			return nil, fmt.Errorf("roll: %w", err)
		}
		if na == 0 {
			out = layout.GatherElements(out, rotated(out.Length(), shift))
			continue
		}
		rolled, err := layout.PermuteWithin(out, na-1, func(length int) []int64 {
			return rotated(length, shift)
		})
		if err != nil {
			return nil, fmt.Errorf("roll: %w", err)
		}
		out = rolled
	}
	return fromContent(out), nil
}

// BroadcastArrays broadcasts every input to their common structure.
func BroadcastArrays(xs ...*Array) ([]*Array, error) {
	allScalar := true
	for _, x := range xs {
		if !x.IsScalar() {
			allScalar = false
		}
	}
	if allScalar {
		return append([]*Array(nil), xs...), nil
	}

	// Fold the list inputs into one joint skeleton, then re-align every
	// input against it.
	var skeleton layout.Content
	for _, x := range xs {
		if x.IsScalar() {
			continue
		}
		if skeleton == nil {
			skeleton = x.list
			continue
		}
		al, err := layout.Align(skeleton, x.list)
		if err != nil {
			return nil, fmt.Errorf("broadcast_arrays: %w", err)
		}
		skeleton = al.Wrap(al.A)
	}

	n := layout.LeafOf(skeleton).Len()
	out := make([]*Array, len(xs))
	for i, x := range xs {
		if x.IsScalar() {
			rep := cpu.Gather(x.scalar, make([]int64, n))
			out[i] = fromContent(layout.WithLeaf(skeleton, rep))
			continue
		}
		al, err := layout.Align(skeleton, x.list)
		if err != nil {
			return nil, fmt.Errorf("broadcast_arrays: %w", err)
		}
		out[i] = fromContent(al.Wrap(al.B))
	}
	return out, nil
}

// BroadcastTo broadcasts an array to a fully regular target shape.
func BroadcastTo(x *Array, shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("broadcast_to: %w", err)
	}
	if !shape.IsRegular() {
		return nil, fmt.Errorf("broadcast_to: target shape %s has ragged dimensions", shape)
	}
	if shape.Rank() == 0 {
		if !x.IsScalar() {
			return nil, fmt.Errorf("broadcast_to: cannot broadcast shape %s to ()", x.Shape())
		}
		return x, nil
	}
	if x.NDim() > shape.Rank() {
		return nil, fmt.Errorf("broadcast_to: cannot broadcast shape %s to %s", x.Shape(), shape)
	}
	if !x.IsScalar() {
		if xs, ok := layout.RegularShape(x.list); ok {
			common, _, err := dense.BroadcastShapes(xs, shape)
			if err != nil || !common.Equal(shape) {
				return nil, fmt.Errorf("broadcast_to: cannot broadcast shape %s to %s", x.Shape(), shape)
			}
		}
	}

	n := shape.NumElements()
	dev := dense.CPU
	if !x.IsScalar() {
		dev = x.Device()
	} else {
		dev = x.scalar.Device()
	}
	skeleton := layout.FromDense(cpu.Fill(n, x.DType(), dev, 0), shape)

	var result layout.Content
	if x.IsScalar() {
		result = layout.WithLeaf(skeleton, cpu.Gather(x.scalar, make([]int64, n)))
	} else {
		// Missing leading dimensions behave as length 1.
		src := x.list
		for layout.Rank(src) < shape.Rank() {
			var err error
			if src, err = layout.ExpandDims(src, 0); err != nil {
				return nil, fmt.Errorf("broadcast_to: %w", err)
			}
		}
		al, err := layout.Align(skeleton, src)
		if err != nil {
			return nil, fmt.Errorf("broadcast_to: cannot broadcast shape %s to %s", x.Shape(), shape)
		}
		result = al.Wrap(al.B)
	}
	if got, ok := layout.RegularShape(result); !ok || !got.Equal(shape) {
		return nil, fmt.Errorf("broadcast_to: cannot broadcast shape %s to %s", x.Shape(), shape)
	}
	return fromContent(result), nil
}

// PermuteDims is not defined for ragged arrays; axis reordering has no
// consistent meaning across variable-length dimensions.
func PermuteDims(x *Array, axes ...int) (*Array, error) {
	return nil, fmt.Errorf("permute_dims: %w", ErrNotImplemented)
}

// Reshape is not defined for ragged arrays.
func Reshape(x *Array, shape Shape) (*Array, error) {
	return nil, fmt.Errorf("reshape: %w", ErrNotImplemented)
}
