package cpu

import (
	"github.com/ragged-data/ragged/internal/dense"
)

// Cast converts a buffer to a new dtype, truncating toward zero for
// float-to-int conversions and taking the real part for complex-to-real.
// Casting to bool maps nonzero to true.
func Cast(a *dense.Raw, to dense.DataType) *dense.Raw {
	if a.DType() == to {
		return a.Clone()
	}
	result := dense.NewRaw(a.Len(), to, a.Device())
	switch {
	case to == dense.Bool:
		dst := result.AsBool()
		for i := 0; i < a.Len(); i++ {
			dst[i] = a.BoolAt(i)
		}
	case to.IsComplex():
		for i := 0; i < a.Len(); i++ {
			result.SetComplex128(i, a.Complex128At(i))
		}
	case a.DType().IsComplex():
		for i := 0; i < a.Len(); i++ {
			result.SetFloat64(i, real(a.Complex128At(i)))
		}
	case a.DType() == dense.Uint64 && to.IsInteger():
		for i := 0; i < a.Len(); i++ {
			result.SetUint64(i, a.AsUint64()[i])
		}
	case (a.DType().IsInteger() || a.DType() == dense.Bool) && to.IsInteger():
		for i := 0; i < a.Len(); i++ {
			result.SetInt64(i, a.Int64At(i))
		}
	case a.DType().IsFloat() && to.IsInteger():
		for i := 0; i < a.Len(); i++ {
			v := a.Float64At(i)
			if to == dense.Uint64 {
				result.SetUint64(i, uint64(v))
			} else {
				result.SetInt64(i, int64(v))
			}
		}
	default:
		for i := 0; i < a.Len(); i++ {
			result.SetFloat64(i, a.Float64At(i))
		}
	}
	return result
}

// Fill writes the same widened value into every element of a fresh buffer.
func Fill(n int, dtype dense.DataType, device dense.Device, v complex128) *dense.Raw {
	result := dense.NewRaw(n, dtype, device)
	for i := 0; i < n; i++ {
		result.SetComplex128(i, v)
	}
	return result
}
