// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ragged

import (
	"fmt"
	"strings"

	"github.com/ragged-data/ragged/internal/backend/cpu"
	"github.com/ragged-data/ragged/internal/backend/webgpu"
	"github.com/ragged-data/ragged/internal/dense"
	"github.com/ragged-data/ragged/internal/layout"
)

// Type aliases for the public API.

// DataType represents the element type of an array.
type DataType = dense.DataType

// Element types.
const (
	Bool       DataType = dense.Bool
	Int8       DataType = dense.Int8
	Int16      DataType = dense.Int16
	Int32      DataType = dense.Int32
	Int64      DataType = dense.Int64
	Uint8      DataType = dense.Uint8
	Uint16     DataType = dense.Uint16
	Uint32     DataType = dense.Uint32
	Uint64     DataType = dense.Uint64
	Float32    DataType = dense.Float32
	Float64    DataType = dense.Float64
	Complex64  DataType = dense.Complex64
	Complex128 DataType = dense.Complex128
)

// Device identifies where an array's data is homed.
type Device = dense.Device

// Devices.
const (
	CPU Device = dense.CPU
	GPU Device = dense.GPU
)

// Shape describes array dimensions; RaggedDim marks a variable-length one.
type Shape = dense.Shape

// RaggedDim is the shape entry for a dimension with no single extent.
const RaggedDim = dense.RaggedDim

// Array is an immutable multidimensional array that may have ragged
// dimensions. It is backed by exactly one of two representations: a
// zero-dimensional dense buffer for scalars, or a nested list layout for
// rank one and above.
type Array struct {
	scalar *dense.Raw
	list   layout.Content
}

// fromScalar wraps a one-element buffer as a zero-dimensional array.
func fromScalar(raw *dense.Raw) *Array {
	if raw.Len() != 1 {
		panic(fmt.Sprintf("scalar buffer has %d elements", raw.Len()))
	}
	return &Array{scalar: raw}
}

// fromContent wraps a layout as an array of rank >= 1.
func fromContent(c layout.Content) *Array {
	return &Array{list: c}
}

// IsScalar reports whether the array is zero-dimensional.
func (a *Array) IsScalar() bool { return a.scalar != nil }

// NDim returns the number of dimensions.
func (a *Array) NDim() int {
	if a.scalar != nil {
		return 0
	}
	return layout.Rank(a.list)
}

// Shape returns the array's dimensions. Ragged dimensions report RaggedDim.
// A scalar has an empty shape.
func (a *Array) Shape() Shape {
	if a.scalar != nil {
		return Shape{}
	}
	return a.list.Shape()
}

// DType returns the element type.
func (a *Array) DType() DataType {
	if a.scalar != nil {
		return a.scalar.DType()
	}
	return a.list.DType()
}

// Device returns where the array is homed.
func (a *Array) Device() Device {
	if a.scalar != nil {
		return a.scalar.Device()
	}
	return a.list.Device()
}

// Size returns the total element count. Ragged dimensions do not change
// the count; the leaf buffer holds every element exactly once.
func (a *Array) Size() int {
	if a.scalar != nil {
		return 1
	}
	return layout.LeafOf(a.list).Len()
}

// Len returns the length of the leading dimension. Scalars have no length.
func (a *Array) Len() (int, error) {
	if a.scalar != nil {
		return 0, fmt.Errorf("len() of unsized object")
	}
	return a.list.Length(), nil
}

// leaf returns the flat buffer behind the array.
func (a *Array) leaf() *dense.Raw {
	if a.scalar != nil {
		return a.scalar
	}
	return layout.LeafOf(a.list)
}

// withLeaf rebuilds the array with the same structure over a new buffer.
// This is the boxing half of the seam every wrapper function passes
// through: structure from the input, values from the kernel result.
func (a *Array) withLeaf(leaf *dense.Raw) *Array {
	if a.scalar != nil {
		return fromScalar(leaf)
	}
	return fromContent(layout.WithLeaf(a.list, leaf))
}

// ToList converts the array to nested Go values: a bare scalar for rank 0,
// nested []any otherwise.
func (a *Array) ToList() any {
	if a.scalar != nil {
		return a.scalar.Get(0)
	}
	return layout.ToGo(a.list)
}

// Item returns the single element of a size-1 array as a Go value.
func (a *Array) Item() (any, error) {
	leaf := a.leaf()
	if leaf.Len() != 1 {
		return nil, fmt.Errorf("can only convert an array of size 1 to a scalar, got size %d", leaf.Len())
	}
	return leaf.Get(0), nil
}

// Contains reports whether the array holds the given value anywhere.
func (a *Array) Contains(value any) (bool, error) {
	needle, err := Asarray(value)
	if err != nil {
		return false, err
	}
	if !needle.IsScalar() {
		return false, fmt.Errorf("contains expects a scalar value, got shape %v", needle.Shape())
	}
	probe := cpu.Cast(needle.leaf(), dense.Promote(a.DType(), needle.DType()))
	haystack := cpu.Cast(a.leaf(), probe.DType())
	for i := 0; i < haystack.Len(); i++ {
		if cpu.SameValue(haystack, i, probe, 0) {
			return true, nil
		}
	}
	return false, nil
}

// Clone returns a structural deep copy.
func (a *Array) Clone() *Array {
	if a.scalar != nil {
		return fromScalar(a.scalar.DeepClone())
	}
	return fromContent(layout.DeepCopy(a.list))
}

// ToDevice re-homes the array. Moving to the GPU requires the WebGPU
// native library; the returned error says what to install when it is
// missing.
func (a *Array) ToDevice(dev Device) (*Array, error) {
	if a.Device() == dev {
		return a, nil
	}
	var rt dense.Runtime
	if dev == GPU {
		r, err := gpuRuntime()
		if err != nil {
			return nil, err
		}
		rt = r
	}
	if a.scalar != nil {
		raw, err := a.scalar.WithDevice(dev, rt)
		if err != nil {
			return nil, err
		}
		return fromScalar(raw), nil
	}
	c, err := layout.ToDevice(a.list, dev, rt)
	if err != nil {
		return nil, err
	}
	return fromContent(c), nil
}

// T transposes the deepest matrix blocks; it is shorthand for
// MatrixTranspose.
func (a *Array) T() (*Array, error) { return MatrixTranspose(a) }

// String renders the array in its nested list form.
func (a *Array) String() string {
	if a.scalar != nil {
		return fmt.Sprintf("%v", a.scalar.Get(0))
	}
	var b strings.Builder
	writeNested(&b, a.ToList())
	return b.String()
}

func writeNested(b *strings.Builder, v any) {
	if items, ok := v.([]any); ok {
		b.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				b.WriteString(", ")
			}
			writeNested(b, item)
		}
		b.WriteByte(']')
		return
	}
	fmt.Fprintf(b, "%v", v)
}

// gpuRuntime resolves the lazily-initialized WebGPU handle.
func gpuRuntime() (dense.Runtime, error) {
	rt, err := webgpu.Get()
	if err != nil {
		return nil, fmt.Errorf("device %q requested but WebGPU is unavailable: %w (install the wgpu-native library)", GPU, err)
	}
	return rt, nil
}
