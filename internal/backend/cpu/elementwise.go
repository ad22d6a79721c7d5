// Package cpu implements the host compute kernels. All kernels operate on
// flat buffers whose lengths the caller has already aligned; validation
// happens above this seam, so kernels panic on internal inconsistencies
// instead of returning errors.
package cpu

import (
	"fmt"

	"github.com/ragged-data/ragged/internal/dense"
)

// MapFloat applies f elementwise, reading values widened to float64 and
// writing a buffer of dtype out.
func MapFloat(a *dense.Raw, out dense.DataType, f func(float64) float64) *dense.Raw {
	result := dense.NewRaw(a.Len(), out, a.Device())
	// Fast paths for the common real dtypes.
	switch {
	case a.DType() == dense.Float64 && out == dense.Float64:
		src, dst := a.AsFloat64(), result.AsFloat64()
		for i, v := range src {
			dst[i] = f(v)
		}
	case a.DType() == dense.Float32 && out == dense.Float32:
		src, dst := a.AsFloat32(), result.AsFloat32()
		for i, v := range src {
			dst[i] = float32(f(float64(v)))
		}
	default:
		for i := 0; i < a.Len(); i++ {
			result.SetFloat64(i, f(a.Float64At(i)))
		}
	}
	return result
}

// MapComplex applies f elementwise over complex values.
func MapComplex(a *dense.Raw, out dense.DataType, f func(complex128) complex128) *dense.Raw {
	result := dense.NewRaw(a.Len(), out, a.Device())
	for i := 0; i < a.Len(); i++ {
		result.SetComplex128(i, f(a.Complex128At(i)))
	}
	return result
}

// MapComplexToFloat applies f elementwise, mapping complex values to a real
// result buffer (abs, real, imag).
func MapComplexToFloat(a *dense.Raw, out dense.DataType, f func(complex128) float64) *dense.Raw {
	result := dense.NewRaw(a.Len(), out, a.Device())
	for i := 0; i < a.Len(); i++ {
		result.SetFloat64(i, f(a.Complex128At(i)))
	}
	return result
}

// MapInt applies f elementwise over integers without a float round trip.
func MapInt(name string, a *dense.Raw, out dense.DataType, f func(int64) int64) *dense.Raw {
	if !a.DType().IsInteger() && a.DType() != dense.Bool {
		panic(fmt.Sprintf("%s: integer kernel on %s buffer", name, a.DType()))
	}
	result := dense.NewRaw(a.Len(), out, a.Device())
	for i := 0; i < a.Len(); i++ {
		result.SetInt64(i, f(a.Int64At(i)))
	}
	return result
}

// MapUint is MapInt for uint64 buffers, where sign extension would be wrong.
func MapUint(a *dense.Raw, out dense.DataType, f func(uint64) uint64) *dense.Raw {
	result := dense.NewRaw(a.Len(), out, a.Device())
	for i := 0; i < a.Len(); i++ {
		result.SetUint64(i, f(a.Uint64At(i)))
	}
	return result
}

// MapBool applies f elementwise over truth values.
func MapBool(a *dense.Raw, f func(bool) bool) *dense.Raw {
	result := dense.NewRaw(a.Len(), dense.Bool, a.Device())
	dst := result.AsBool()
	for i := 0; i < a.Len(); i++ {
		dst[i] = f(a.BoolAt(i))
	}
	return result
}

// ZipFloat applies f pairwise over two equal-length buffers, computing in
// float64 and writing a buffer of dtype out.
func ZipFloat(name string, a, b *dense.Raw, out dense.DataType, f func(x, y float64) float64) *dense.Raw {
	checkLengths(name, a, b)
	result := dense.NewRaw(a.Len(), out, a.Device())
	switch {
	case a.DType() == dense.Float64 && b.DType() == dense.Float64 && out == dense.Float64:
		xs, ys, dst := a.AsFloat64(), b.AsFloat64(), result.AsFloat64()
		for i := range xs {
			dst[i] = f(xs[i], ys[i])
		}
	case a.DType() == dense.Float32 && b.DType() == dense.Float32 && out == dense.Float32:
		xs, ys, dst := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
		for i := range xs {
			dst[i] = float32(f(float64(xs[i]), float64(ys[i])))
		}
	default:
		for i := 0; i < a.Len(); i++ {
			result.SetFloat64(i, f(a.Float64At(i), b.Float64At(i)))
		}
	}
	return result
}

// ZipComplex applies f pairwise over complex values.
func ZipComplex(name string, a, b *dense.Raw, out dense.DataType, f func(x, y complex128) complex128) *dense.Raw {
	checkLengths(name, a, b)
	result := dense.NewRaw(a.Len(), out, a.Device())
	for i := 0; i < a.Len(); i++ {
		result.SetComplex128(i, f(a.Complex128At(i), b.Complex128At(i)))
	}
	return result
}

// ZipInt applies f pairwise in a signed 64-bit lane. Exact for every
// integer dtype except uint64 values above 2^63.
func ZipInt(name string, a, b *dense.Raw, out dense.DataType, f func(x, y int64) int64) *dense.Raw {
	checkLengths(name, a, b)
	result := dense.NewRaw(a.Len(), out, a.Device())
	for i := 0; i < a.Len(); i++ {
		result.SetInt64(i, f(a.Int64At(i), b.Int64At(i)))
	}
	return result
}

// ZipUint applies f pairwise in an unsigned 64-bit lane.
func ZipUint(name string, a, b *dense.Raw, out dense.DataType, f func(x, y uint64) uint64) *dense.Raw {
	checkLengths(name, a, b)
	result := dense.NewRaw(a.Len(), out, a.Device())
	for i := 0; i < a.Len(); i++ {
		result.SetUint64(i, f(a.Uint64At(i), b.Uint64At(i)))
	}
	return result
}

// ZipBool applies f pairwise over truth values.
func ZipBool(name string, a, b *dense.Raw, f func(x, y bool) bool) *dense.Raw {
	checkLengths(name, a, b)
	result := dense.NewRaw(a.Len(), dense.Bool, a.Device())
	dst := result.AsBool()
	for i := 0; i < a.Len(); i++ {
		dst[i] = f(a.BoolAt(i), b.BoolAt(i))
	}
	return result
}

func checkLengths(name string, a, b *dense.Raw) {
	if a.Len() != b.Len() {
		panic(fmt.Sprintf("%s: buffer length mismatch %d vs %d", name, a.Len(), b.Len()))
	}
}
