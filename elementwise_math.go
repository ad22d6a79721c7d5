// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ragged

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/ragged-data/ragged/internal/backend/cpu"
	"github.com/ragged-data/ragged/internal/dense"
)

// mathUnary applies a real or complex transcendental function. Integer and
// boolean inputs promote to float64; floats keep their width. A nil complex
// lane marks the function as real-only.
func mathUnary(name string, x *Array, ff func(float64) float64, fc func(complex128) complex128) (*Array, error) {
	dt := x.DType()
	if dt.IsComplex() {
		if fc == nil {
			return nil, fmt.Errorf("%s: not supported for complex dtype %s", name, dt)
		}
		return x.withLeaf(cpu.MapComplex(x.leaf(), dt, fc)), nil
	}
	out := dt
	if !dt.IsFloat() {
		out = dense.Float64
	}
	return x.withLeaf(cpu.MapFloat(x.leaf(), out, ff)), nil
}

// Abs computes the elementwise absolute value. Complex inputs produce the
// magnitude in the matching real dtype.
func Abs(x *Array) (*Array, error) {
	dt := x.DType()
	switch {
	case dt.IsComplex():
		return x.withLeaf(cpu.MapComplexToFloat(x.leaf(), dense.RealOf(dt), cmplx.Abs)), nil
	case dt.IsFloat():
		return x.withLeaf(cpu.MapFloat(x.leaf(), dt, math.Abs)), nil
	case dt == dense.Uint64:
		return x, nil
	case dt.IsInteger():
		return x.withLeaf(cpu.MapInt("abs", x.leaf(), dt, func(v int64) int64 {
			if v < 0 {
				return -v
			}
			return v
		})), nil
	default:
		return x, nil
	}
}

// Negative computes -x elementwise.
func Negative(x *Array) (*Array, error) {
	dt := x.DType()
	switch {
	case dt == dense.Bool:
		return nil, fmt.Errorf("negative: not supported for boolean arrays")
	case dt.IsComplex():
		return x.withLeaf(cpu.MapComplex(x.leaf(), dt, func(v complex128) complex128 { return -v })), nil
	case dt.IsFloat():
		return x.withLeaf(cpu.MapFloat(x.leaf(), dt, func(v float64) float64 { return -v })), nil
	case dt == dense.Uint64:
		return x.withLeaf(cpu.MapUint(x.leaf(), dt, func(v uint64) uint64 { return -v })), nil
	default:
		return x.withLeaf(cpu.MapInt("negative", x.leaf(), dt, func(v int64) int64 { return -v })), nil
	}
}

// Positive computes +x elementwise, which is the identity for numeric
// arrays.
func Positive(x *Array) (*Array, error) {
	if x.DType() == dense.Bool {
		return nil, fmt.Errorf("positive: not supported for boolean arrays")
	}
	return x, nil
}

// Sign computes the elementwise sign: -1, 0, or 1 for real values and
// x/|x| for complex values. NaN propagates.
func Sign(x *Array) (*Array, error) {
	dt := x.DType()
	switch {
	case dt.IsComplex():
		return x.withLeaf(cpu.MapComplex(x.leaf(), dt, func(v complex128) complex128 {
			if v == 0 {
				return 0
			}
			return v / complex(cmplx.Abs(v), 0)
		})), nil
	case dt.IsFloat():
		return x.withLeaf(cpu.MapFloat(x.leaf(), dt, func(v float64) float64 {
			switch {
			case math.IsNaN(v):
				return math.NaN()
			case v > 0:
				return 1
			case v < 0:
				return -1
			default:
				return 0
			}
		})), nil
	case dt == dense.Uint64:
		return x.withLeaf(cpu.MapUint(x.leaf(), dt, func(v uint64) uint64 {
			if v > 0 {
				return 1
			}
			return 0
		})), nil
	default:
		return x.withLeaf(cpu.MapInt("sign", x.leaf(), dt, func(v int64) int64 {
			switch {
			case v > 0:
				return 1
			case v < 0:
				return -1
			default:
				return 0
			}
		})), nil
	}
}

// Square computes x*x elementwise, preserving the input dtype.
func Square(x *Array) (*Array, error) {
	dt := x.DType()
	switch {
	case dt.IsComplex():
		return x.withLeaf(cpu.MapComplex(x.leaf(), dt, func(v complex128) complex128 { return v * v })), nil
	case dt.IsFloat():
		return x.withLeaf(cpu.MapFloat(x.leaf(), dt, func(v float64) float64 { return v * v })), nil
	case dt == dense.Uint64:
		return x.withLeaf(cpu.MapUint(x.leaf(), dt, func(v uint64) uint64 { return v * v })), nil
	default:
		return x.withLeaf(cpu.MapInt("square", x.leaf(), dt, func(v int64) int64 { return v * v })), nil
	}
}

// rounding applies a float rounding function, leaving integer and boolean
// arrays untouched.
func rounding(name string, x *Array, ff func(float64) float64) (*Array, error) {
	dt := x.DType()
	switch {
	case dt.IsComplex():
		return nil, fmt.Errorf("%s: not supported for complex dtype %s", name, dt)
	case dt.IsFloat():
		return x.withLeaf(cpu.MapFloat(x.leaf(), dt, ff)), nil
	default:
		return x, nil
	}
}

// Ceil rounds elementwise toward positive infinity.
func Ceil(x *Array) (*Array, error) { return rounding("ceil", x, math.Ceil) }

// Floor rounds elementwise toward negative infinity.
func Floor(x *Array) (*Array, error) { return rounding("floor", x, math.Floor) }

// Trunc rounds elementwise toward zero.
func Trunc(x *Array) (*Array, error) { return rounding("trunc", x, math.Trunc) }

// Round rounds elementwise to the nearest integer, with ties going to the
// even neighbor. Complex arrays round each component.
func Round(x *Array) (*Array, error) {
	dt := x.DType()
	if dt.IsComplex() {
		return x.withLeaf(cpu.MapComplex(x.leaf(), dt, func(v complex128) complex128 {
			return complex(math.RoundToEven(real(v)), math.RoundToEven(imag(v)))
		})), nil
	}
	return rounding("round", x, math.RoundToEven)
}

// Conj computes the elementwise complex conjugate; real arrays pass
// through.
func Conj(x *Array) (*Array, error) {
	dt := x.DType()
	if dt.IsComplex() {
		return x.withLeaf(cpu.MapComplex(x.leaf(), dt, cmplx.Conj)), nil
	}
	return x, nil
}

// Real extracts the real component of each element. Real arrays pass
// through.
func Real(x *Array) (*Array, error) {
	dt := x.DType()
	if dt.IsComplex() {
		return x.withLeaf(cpu.MapComplexToFloat(x.leaf(), dense.RealOf(dt), func(c complex128) float64 { return real(c) })), nil
	}
	return x, nil
}

// Imag extracts the imaginary component of each element. Real arrays
// yield zeros of the same dtype.
func Imag(x *Array) (*Array, error) {
	dt := x.DType()
	if dt.IsComplex() {
		return x.withLeaf(cpu.MapComplexToFloat(x.leaf(), dense.RealOf(dt), func(c complex128) float64 { return imag(c) })), nil
	}
	return x.withLeaf(cpu.Fill(x.leaf().Len(), dt, x.leaf().Device(), 0)), nil
}

// classify builds a boolean mask from a per-element predicate. Complex
// elements test each component through cf; integers take the constant
// whole answer.
func classify(x *Array, whole bool, ff func(float64) bool, cf func(re, im bool) bool) *Array {
	dt := x.DType()
	boolOf := func(b bool) float64 {
		if b {
			return 1
		}
		return 0
	}
	switch {
	case dt.IsComplex():
		return x.withLeaf(cpu.MapComplexToFloat(x.leaf(), dense.Bool, func(v complex128) float64 {
			return boolOf(cf(ff(real(v)), ff(imag(v))))
		}))
	case dt.IsFloat():
		return x.withLeaf(cpu.MapFloat(x.leaf(), dense.Bool, func(v float64) float64 {
			return boolOf(ff(v))
		}))
	default:
		var fill complex128
		if whole {
			fill = 1
		}
		return x.withLeaf(cpu.Fill(x.leaf().Len(), dense.Bool, x.leaf().Device(), fill))
	}
}

// Isnan tests each element for NaN; a complex element is NaN when either
// component is.
func Isnan(x *Array) (*Array, error) {
	return classify(x, false, func(v float64) bool { return math.IsNaN(v) },
		func(re, im bool) bool { return re || im }), nil
}

// Isinf tests each element for infinity; a complex element is infinite
// when either component is.
func Isinf(x *Array) (*Array, error) {
	return classify(x, false, func(v float64) bool { return math.IsInf(v, 0) },
		func(re, im bool) bool { return re || im }), nil
}

// Isfinite tests each element for finiteness; a complex element is finite
// only when both components are.
func Isfinite(x *Array) (*Array, error) {
	return classify(x, true, func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) },
		func(re, im bool) bool { return re && im }), nil
}

// Sqrt computes the elementwise nonnegative square root.
func Sqrt(x *Array) (*Array, error) { return mathUnary("sqrt", x, math.Sqrt, cmplx.Sqrt) }

// Exp computes the elementwise natural exponential.
func Exp(x *Array) (*Array, error) { return mathUnary("exp", x, math.Exp, cmplx.Exp) }

// Expm1 computes exp(x)-1 elementwise, accurate near zero.
func Expm1(x *Array) (*Array, error) { return mathUnary("expm1", x, math.Expm1, nil) }

// Log computes the elementwise natural logarithm.
func Log(x *Array) (*Array, error) { return mathUnary("log", x, math.Log, cmplx.Log) }

// Log1p computes log(1+x) elementwise, accurate near zero.
func Log1p(x *Array) (*Array, error) { return mathUnary("log1p", x, math.Log1p, nil) }

// Log2 computes the elementwise base-2 logarithm.
func Log2(x *Array) (*Array, error) {
	return mathUnary("log2", x, math.Log2, func(v complex128) complex128 {
		return cmplx.Log(v) / complex(math.Ln2, 0)
	})
}

// Log10 computes the elementwise base-10 logarithm.
func Log10(x *Array) (*Array, error) { return mathUnary("log10", x, math.Log10, cmplx.Log10) }

// Sin computes the elementwise sine.
func Sin(x *Array) (*Array, error) { return mathUnary("sin", x, math.Sin, cmplx.Sin) }

// Cos computes the elementwise cosine.
func Cos(x *Array) (*Array, error) { return mathUnary("cos", x, math.Cos, cmplx.Cos) }

// Tan computes the elementwise tangent.
func Tan(x *Array) (*Array, error) { return mathUnary("tan", x, math.Tan, cmplx.Tan) }

// Asin computes the elementwise inverse sine.
func Asin(x *Array) (*Array, error) { return mathUnary("asin", x, math.Asin, cmplx.Asin) }

// Acos computes the elementwise inverse cosine.
func Acos(x *Array) (*Array, error) { return mathUnary("acos", x, math.Acos, cmplx.Acos) }

// Atan computes the elementwise inverse tangent.
func Atan(x *Array) (*Array, error) { return mathUnary("atan", x, math.Atan, cmplx.Atan) }

// Sinh computes the elementwise hyperbolic sine.
func Sinh(x *Array) (*Array, error) { return mathUnary("sinh", x, math.Sinh, cmplx.Sinh) }

// Cosh computes the elementwise hyperbolic cosine.
func Cosh(x *Array) (*Array, error) { return mathUnary("cosh", x, math.Cosh, cmplx.Cosh) }

// Tanh computes the elementwise hyperbolic tangent.
func Tanh(x *Array) (*Array, error) { return mathUnary("tanh", x, math.Tanh, cmplx.Tanh) }

// Asinh computes the elementwise inverse hyperbolic sine.
func Asinh(x *Array) (*Array, error) { return mathUnary("asinh", x, math.Asinh, cmplx.Asinh) }

// Acosh computes the elementwise inverse hyperbolic cosine.
func Acosh(x *Array) (*Array, error) { return mathUnary("acosh", x, math.Acosh, cmplx.Acosh) }

// Atanh computes the elementwise inverse hyperbolic tangent.
func Atanh(x *Array) (*Array, error) { return mathUnary("atanh", x, math.Atanh, cmplx.Atanh) }
