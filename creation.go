// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ragged

import (
	"fmt"
	"math"

	"github.com/ragged-data/ragged/internal/backend/cpu"
	"github.com/ragged-data/ragged/internal/dense"
	"github.com/ragged-data/ragged/internal/layout"
)

// Option adjusts construction: target dtype, target device, copy semantics.
type Option func(*options)

type options struct {
	dtype   *dense.DataType
	device  *dense.Device
	copy    bool
	hasCopy bool
}

// WithDType requests a target element type.
func WithDType(dt DataType) Option {
	return func(o *options) { o.dtype = &dt }
}

// WithDevice requests a target device.
func WithDevice(dev Device) Option {
	return func(o *options) { o.device = &dev }
}

// WithCopy forces (true) or forbids implicit (false) copying of an existing
// array's storage.
func WithCopy(copy bool) Option {
	return func(o *options) { o.copy = copy; o.hasCopy = true }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Asarray constructs an array from a Go scalar, nested slices (ragged or
// rectangular), a typed slice such as []float32, or an existing *Array.
// Numeric Go scalars map to the widest type of their kind (int to int64,
// float64 to float64); typed slices keep their element type.
func Asarray(value any, opts ...Option) (*Array, error) {
	o := applyOptions(opts)
	a, err := coerce(value)
	if err != nil {
		return nil, err
	}
	copied := a != value // fresh storage unless value was already an *Array

	if o.dtype != nil && *o.dtype != a.DType() {
		if !(*o.dtype).Valid() {
			return nil, fmt.Errorf("unknown dtype %d", int(*o.dtype))
		}
		a = a.withLeaf(cpu.Cast(a.leaf(), *o.dtype))
		copied = true
	}
	if o.device != nil && *o.device != a.Device() {
		moved, err := a.ToDevice(*o.device)
		if err != nil {
			return nil, err
		}
		a = moved
		copied = true
	}
	if o.hasCopy && o.copy && !copied {
		a = a.Clone()
	}
	return a, nil
}

// coerce normalizes any accepted input into an *Array without applying
// options.
func coerce(value any) (*Array, error) {
	switch v := value.(type) {
	case *Array:
		return v, nil
	case Array:
		return &v, nil
	case nil:
		return nil, fmt.Errorf("cannot convert nil to an array")
	default:
		c, scalar, err := layout.FromGo(value, dense.CPU)
		if err != nil {
			return nil, err
		}
		if scalar != nil {
			return fromScalar(scalar), nil
		}
		return fromContent(c), nil
	}
}

// FromSlice builds a one-dimensional array from a typed slice without
// reflection.
func FromSlice[T dense.DType](values []T, opts ...Option) (*Array, error) {
	raw := dense.FromSlice(values, dense.CPU)
	return Asarray(fromContent(&layout.Leaf{Data: raw}), opts...)
}

// Zeros returns a regular array of the given shape filled with zeros.
// The default dtype is float64.
func Zeros(shape []int, opts ...Option) (*Array, error) {
	return full(shape, complex(0, 0), dense.Float64, opts)
}

// Ones returns a regular array of the given shape filled with ones.
func Ones(shape []int, opts ...Option) (*Array, error) {
	return full(shape, complex(1, 0), dense.Float64, opts)
}

// Full returns a regular array of the given shape filled with value. The
// default dtype follows the fill value's Go type.
func Full(shape []int, value any, opts ...Option) (*Array, error) {
	fill, err := Asarray(value)
	if err != nil {
		return nil, err
	}
	if !fill.IsScalar() {
		return nil, fmt.Errorf("fill value must be a scalar, got shape %v", fill.Shape())
	}
	var v complex128
	if fill.DType().IsComplex() {
		v = fill.leaf().Complex128At(0)
	} else if fill.DType() == dense.Bool {
		if fill.leaf().AsBool()[0] {
			v = 1
		}
	} else {
		v = complex(fill.leaf().Float64At(0), 0)
	}
	return full(shape, v, fill.DType(), opts)
}

// Empty returns an uninitialized-by-convention regular array; the backing
// buffer is zeroed like Zeros.
func Empty(shape []int, opts ...Option) (*Array, error) {
	return Zeros(shape, opts...)
}

func full(shape []int, v complex128, defaultDType DataType, opts []Option) (*Array, error) {
	o := applyOptions(opts)
	dt := defaultDType
	if o.dtype != nil {
		dt = *o.dtype
	}
	n := 1
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("negative dimension %d in shape %v", d, shape)
		}
		n *= d
	}
	raw := cpu.Fill(n, dt, dense.CPU, v)
	var a *Array
	if len(shape) == 0 {
		a = fromScalar(raw)
	} else {
		a = fromContent(layout.FromDense(raw, dense.Shape(shape)))
	}
	if o.device != nil {
		return a.ToDevice(*o.device)
	}
	return a, nil
}

// ZerosLike returns zeros with x's shape, dtype and device.
func ZerosLike(x *Array, opts ...Option) (*Array, error) {
	return fullLike(x, complex(0, 0), opts)
}

// OnesLike returns ones with x's shape, dtype and device.
func OnesLike(x *Array, opts ...Option) (*Array, error) {
	return fullLike(x, complex(1, 0), opts)
}

// FullLike returns x's shape filled with value.
func FullLike(x *Array, value any, opts ...Option) (*Array, error) {
	fill, err := Asarray(value)
	if err != nil {
		return nil, err
	}
	if !fill.IsScalar() {
		return nil, fmt.Errorf("fill value must be a scalar, got shape %v", fill.Shape())
	}
	var v complex128
	if fill.DType().IsComplex() {
		v = fill.leaf().Complex128At(0)
	} else {
		v = complex(fill.leaf().Float64At(0), 0)
	}
	return fullLike(x, v, opts)
}

// EmptyLike is ZerosLike under this implementation.
func EmptyLike(x *Array, opts ...Option) (*Array, error) {
	return ZerosLike(x, opts...)
}

func fullLike(x *Array, v complex128, opts []Option) (*Array, error) {
	o := applyOptions(opts)
	dt := x.DType()
	if o.dtype != nil {
		dt = *o.dtype
	}
	leaf := x.leaf()
	raw := cpu.Fill(leaf.Len(), dt, leaf.Device(), v)
	a := x.withLeaf(raw)
	if o.device != nil && *o.device != a.Device() {
		return a.ToDevice(*o.device)
	}
	return a, nil
}

// Arange returns evenly spaced integers in [start, stop) with the given
// step. The default dtype is int64 for integral arguments, float64
// otherwise.
func Arange(start, stop, step float64, opts ...Option) (*Array, error) {
	if step == 0 {
		return nil, fmt.Errorf("arange step must be nonzero")
	}
	dt := dense.Int64
	if start != math.Trunc(start) || stop != math.Trunc(stop) || step != math.Trunc(step) {
		dt = dense.Float64
	}
	n := int(math.Ceil((stop - start) / step))
	if n < 0 {
		n = 0
	}
	raw := dense.NewRaw(n, dt, dense.CPU)
	for i := 0; i < n; i++ {
		raw.SetFloat64(i, start+float64(i)*step)
	}
	return Asarray(fromContent(&layout.Leaf{Data: raw}), opts...)
}

// Linspace returns num evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, num int, opts ...Option) (*Array, error) {
	if num < 0 {
		return nil, fmt.Errorf("number of samples must be non-negative, got %d", num)
	}
	raw := dense.NewRaw(num, dense.Float64, dense.CPU)
	for i := 0; i < num; i++ {
		switch {
		case num == 1:
			raw.SetFloat64(i, start)
		case i == num-1:
			raw.SetFloat64(i, stop)
		default:
			raw.SetFloat64(i, start+(stop-start)*float64(i)/float64(num-1))
		}
	}
	return Asarray(fromContent(&layout.Leaf{Data: raw}), opts...)
}

// Eye returns a 2-D array with ones on the k-th diagonal.
func Eye(nRows, nCols, k int, opts ...Option) (*Array, error) {
	o := applyOptions(opts)
	dt := dense.Float64
	if o.dtype != nil {
		dt = *o.dtype
	}
	if nRows < 0 || nCols < 0 {
		return nil, fmt.Errorf("negative dimensions %dx%d", nRows, nCols)
	}
	raw := dense.NewRaw(nRows*nCols, dt, dense.CPU)
	for i := 0; i < nRows; i++ {
		j := i + k
		if j >= 0 && j < nCols {
			raw.SetFloat64(i*nCols+j, 1)
		}
	}
	a := fromContent(layout.FromDense(raw, dense.Shape{nRows, nCols}))
	if o.device != nil {
		return a.ToDevice(*o.device)
	}
	return a, nil
}

// Tril zeroes elements above the k-th diagonal of the innermost matrices.
// Ragged rows keep their own lengths; element (i, j) survives when
// j <= i + k.
func Tril(x *Array, k int) (*Array, error) {
	return triangle(x, k, true)
}

// Triu zeroes elements below the k-th diagonal of the innermost matrices.
func Triu(x *Array, k int) (*Array, error) {
	return triangle(x, k, false)
}

func triangle(x *Array, k int, lower bool) (*Array, error) {
	if x.NDim() < 2 {
		return nil, fmt.Errorf("input must have at least 2 dimensions, got %d", x.NDim())
	}
	leaf := x.leaf()
	out := leaf.DeepClone()
	// Row index within the innermost matrix for every leaf element.
	rows := matrixRowIndex(x.list)
	cols := columnIndex(x.list)
	for i := 0; i < out.Len(); i++ {
		keep := int(cols[i]) <= int(rows[i])+k
		if !lower {
			keep = int(cols[i]) >= int(rows[i])+k
		}
		if !keep {
			out.SetFloat64(i, 0)
		}
	}
	return x.withLeaf(out), nil
}

// matrixRowIndex returns, per leaf element, its row position inside the
// innermost matrix block (the second-deepest list level).
func matrixRowIndex(c layout.Content) []int64 {
	offsets := layout.InnermostOffsets(c)
	total := int(offsets[len(offsets)-1])
	out := make([]int64, total)
	rowsPer := layout.MatrixRows(c)
	row := 0
	block := 0
	for s := 0; s < len(offsets)-1; s++ {
		if block < len(rowsPer) && row == rowsPer[block] {
			row = 0
			block++
		}
		for i := offsets[s]; i < offsets[s+1]; i++ {
			out[i] = int64(row)
		}
		row++
	}
	return out
}

// columnIndex returns, per leaf element, its position within its innermost
// list.
func columnIndex(c layout.Content) []int64 {
	offsets := layout.InnermostOffsets(c)
	total := int(offsets[len(offsets)-1])
	out := make([]int64, total)
	for s := 0; s < len(offsets)-1; s++ {
		for i := offsets[s]; i < offsets[s+1]; i++ {
			out[i] = i - offsets[s]
		}
	}
	return out
}

// Meshgrid is not defined for ragged arrays.
func Meshgrid(xs ...*Array) ([]*Array, error) {
	return nil, fmt.Errorf("meshgrid: %w", ErrNotImplemented)
}
