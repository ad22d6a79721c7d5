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

// ReduceOption configures a reduction: which axes it runs over, whether the
// reduced axes stay in the result as length-1 dimensions, and the degrees
// of freedom correction for variance.
type ReduceOption func(*reduceOptions)

type reduceOptions struct {
	axes       []int
	hasAxes    bool
	keepDims   bool
	correction float64
}

// Along selects the axes to reduce over. Without it a reduction consumes
// every axis and yields a scalar. Multiple axes apply right to left.
func Along(axes ...int) ReduceOption {
	return func(o *reduceOptions) {
		o.axes = axes
		o.hasAxes = true
	}
}

// KeepDims keeps each reduced axis in the result as a length-1 dimension.
func KeepDims() ReduceOption {
	return func(o *reduceOptions) { o.keepDims = true }
}

// Correction sets the degrees of freedom correction for Var and Std: the
// divisor becomes N - c. Other reductions ignore it.
func Correction(c float64) ReduceOption {
	return func(o *reduceOptions) { o.correction = c }
}

func gatherOptions(opts []ReduceOption) reduceOptions {
	var o reduceOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// normalizedAxes validates and deduplicates a reduction axis list, sorted
// descending so reductions apply right to left.
func normalizedAxes(axes []int, ndim int) ([]int, error) {
	out := make([]int, 0, len(axes))
	for _, a := range axes {
		na, err := normalizeAxis(a, ndim)
		if err != nil {
			return nil, err
		}
		out = append(out, na)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	for i := 1; i < len(out); i++ {
		if out[i] == out[i-1] {
			return nil, fmt.Errorf("duplicate axis %d", out[i])
		}
	}
	return out, nil
}

// reduceAxis reduces one axis of a list layout. The innermost axis reduces
// each deepest list; outer axes require a fully regular layout.
func reduceAxis(name string, c layout.Content, axis int, op cpu.ReduceOp, out DataType, corr float64) (*Array, error) {
	r := layout.Rank(c)
	if axis == r-1 {
		if r == 1 {
			return fromScalar(cpu.ReduceAll(layout.LeafOf(c), op, out, corr)), nil
		}
		offsets := layout.InnermostOffsets(c)
		red := cpu.ReduceSegments(layout.LeafOf(c), offsets, op, out, corr)
		return fromContent(layout.DropInnermost(c, red)), nil
	}
	shape, ok := layout.RegularShape(c)
	if !ok {
		return nil, fmt.Errorf("%s: axis %d crosses ragged lists; reduce the innermost axis or a fully regular array", name, axis)
	}
	outer, n, inner := 1, shape[axis], 1
	for _, d := range shape[:axis] {
		outer *= d
	}
	for _, d := range shape[axis+1:] {
		inner *= d
	}
	red := cpu.ReduceStrided(layout.LeafOf(c), outer, n, inner, op, out, corr)
	reducedShape := append(Shape{}, shape[:axis]...)
	reducedShape = append(reducedShape, shape[axis+1:]...)
	if reducedShape.Rank() == 0 {
		return fromScalar(red), nil
	}
	return fromContent(layout.FromDense(red, reducedShape)), nil
}

// reinsertAxes restores reduced axes as length-1 dimensions, lowest first.
func reinsertAxes(x *Array, axes []int) (*Array, error) {
	asc := append([]int(nil), axes...)
	sort.Ints(asc)
	out := x
	for _, a := range asc {
		e, err := ExpandDims(out, a)
		if err != nil {
			return nil, err
		}
		out = e
	}
	return out, nil
}

// reduce drives a reduction whose per-axis applications compose, which
// covers sum, prod, min, max, all, and any.
func reduce(name string, x *Array, op cpu.ReduceOp, out DataType, o reduceOptions) (*Array, error) {
	if x.IsScalar() {
		if o.hasAxes && len(o.axes) > 0 {
			return nil, fmt.Errorf("%s: %w", name, axisError(o.axes[0], 0))
		}
		return fromScalar(cpu.ReduceAll(x.scalar, op, out, o.correction)), nil
	}
	ndim := x.NDim()
	if !o.hasAxes || len(o.axes) == 0 {
		res := fromScalar(cpu.ReduceAll(x.leaf(), op, out, o.correction))
		if !o.keepDims {
			return res, nil
		}
		all := make([]int, ndim)
		for i := range all {
			all[i] = i
		}
		return reinsertAxes(res, all)
	}
	axes, err := normalizedAxes(o.axes, ndim)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	cur := x
	for _, a := range axes {
		red, err := reduceAxis(name, cur.list, a, op, out, o.correction)
		if err != nil {
			return nil, err
		}
		cur = red
	}
	if o.keepDims {
		return reinsertAxes(cur, axes)
	}
	return cur, nil
}

// sumDType maps an input dtype to the widened accumulator dtype sums and
// products produce.
func sumDType(dt DataType) DataType {
	switch {
	case dt.IsComplex():
		return dense.Complex128
	case dt.IsFloat():
		return dense.Float64
	case dt == dense.Uint64 || dt == dense.Uint32 || dt == dense.Uint16 || dt == dense.Uint8:
		return dense.Uint64
	default:
		return dense.Int64
	}
}

func meanDType(dt DataType) DataType {
	if dt.IsComplex() {
		return dense.Complex128
	}
	return dense.Float64
}

// Sum adds the elements over the selected axes. Empty reductions yield
// zero.
func Sum(x *Array, opts ...ReduceOption) (*Array, error) {
	return reduce("sum", x, cpu.RSum, sumDType(x.DType()), gatherOptions(opts))
}

// Prod multiplies the elements over the selected axes. Empty reductions
// yield one.
func Prod(x *Array, opts ...ReduceOption) (*Array, error) {
	return reduce("prod", x, cpu.RProd, sumDType(x.DType()), gatherOptions(opts))
}

// Min takes the smallest element over the selected axes. Empty reductions
// yield the dtype's largest value, or +Inf for floats.
func Min(x *Array, opts ...ReduceOption) (*Array, error) {
	return reduce("min", x, cpu.RMin, x.DType(), gatherOptions(opts))
}

// Max takes the largest element over the selected axes. Empty reductions
// yield the dtype's smallest value, or -Inf for floats.
func Max(x *Array, opts ...ReduceOption) (*Array, error) {
	return reduce("max", x, cpu.RMax, x.DType(), gatherOptions(opts))
}

// Mean averages the elements over the selected axes. Empty reductions
// yield NaN.
func Mean(x *Array, opts ...ReduceOption) (*Array, error) {
	o := gatherOptions(opts)
	out := meanDType(x.DType())
	if !o.hasAxes || len(o.axes) <= 1 || x.IsScalar() {
		return reduce("mean", x, cpu.RMean, out, o)
	}
	// A joint mean over several axes is one sum over one count, not a
	// mean of means, so compose it from sums.
	xf := castArray(x, out)
	s, err := Sum(xf, Along(o.axes...))
	if err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	counts, err := elementCounts(xf, o.axes)
	if err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	m, err := Divide(s, counts)
	if err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	m = castArray(m, out)
	if o.keepDims {
		return keepReduced(m, o.axes, x.NDim())
	}
	return m, nil
}

// Var computes the variance of the elements over the selected axes with an
// optional degrees of freedom correction. Complex inputs yield their real
// variance.
func Var(x *Array, opts ...ReduceOption) (*Array, error) {
	o := gatherOptions(opts)
	if !o.hasAxes || len(o.axes) <= 1 || x.IsScalar() {
		return reduce("var", x, cpu.RVar, dense.Float64, o)
	}
	return spreadOverAxes("var", x, o, false)
}

// Std computes the standard deviation, the square root of Var.
func Std(x *Array, opts ...ReduceOption) (*Array, error) {
	o := gatherOptions(opts)
	if !o.hasAxes || len(o.axes) <= 1 || x.IsScalar() {
		return reduce("std", x, cpu.RStd, dense.Float64, o)
	}
	return spreadOverAxes("std", x, o, true)
}

// spreadOverAxes builds a joint multi-axis variance from sums: the mean
// squared deviation with an N - correction divisor, square-rooted for the
// standard deviation.
func spreadOverAxes(name string, x *Array, o reduceOptions, root bool) (*Array, error) {
	fail := func(err error) (*Array, error) { return nil, fmt.Errorf("%s: %w", name, err) }
	out := meanDType(x.DType())
	xf := castArray(x, out)
	m, err := Mean(xf, Along(o.axes...), KeepDims())
	if err != nil {
		return fail(err)
	}
	d, err := Subtract(xf, m)
	if err != nil {
		return fail(err)
	}
	var sq *Array
	if out.IsComplex() {
		conj, err := Conj(d)
		if err != nil {
			return fail(err)
		}
		prod, err := Multiply(d, conj)
		if err != nil {
			return fail(err)
		}
		sq, err = Real(prod)
		if err != nil {
			return fail(err)
		}
	} else {
		sq, err = Multiply(d, d)
		if err != nil {
			return fail(err)
		}
	}
	s, err := Sum(sq, Along(o.axes...))
	if err != nil {
		return fail(err)
	}
	counts, err := elementCounts(castArray(x, dense.Float64), o.axes)
	if err != nil {
		return fail(err)
	}
	denom, err := Subtract(counts, fromScalar(dense.FromSlice([]float64{o.correction}, dense.CPU)))
	if err != nil {
		return fail(err)
	}
	v, err := Divide(s, denom)
	if err != nil {
		return fail(err)
	}
	v = castArray(v, dense.Float64)
	if root {
		v, err = Sqrt(v)
		if err != nil {
			return fail(err)
		}
	}
	if o.keepDims {
		return keepReduced(v, o.axes, x.NDim())
	}
	return v, nil
}

// elementCounts sums a ones-like array over the same axes, giving the
// number of contributing elements per output position.
func elementCounts(x *Array, axes []int) (*Array, error) {
	ones := x.withLeaf(cpu.Fill(x.leaf().Len(), dense.Float64, x.leaf().Device(), 1))
	return Sum(ones, Along(axes...))
}

// keepReduced restores the reduced axes of a composed reduction as
// length-1 dimensions.
func keepReduced(x *Array, axes []int, ndim int) (*Array, error) {
	normalized, err := normalizedAxes(axes, ndim)
	if err != nil {
		return nil, err
	}
	return reinsertAxes(x, normalized)
}
