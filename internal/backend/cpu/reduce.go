package cpu

import (
	"fmt"
	"math"

	"github.com/ragged-data/ragged/internal/dense"
)

// ReduceOp selects the reduction performed by ReduceSegments and
// ReduceStrided.
type ReduceOp int

// Supported reductions.
const (
	RSum ReduceOp = iota
	RProd
	RMin
	RMax
	RAll
	RAny
	RMean
	RVar
	RStd
)

func (op ReduceOp) String() string {
	switch op {
	case RSum:
		return "sum"
	case RProd:
		return "prod"
	case RMin:
		return "min"
	case RMax:
		return "max"
	case RAll:
		return "all"
	case RAny:
		return "any"
	case RMean:
		return "mean"
	case RVar:
		return "var"
	case RStd:
		return "std"
	default:
		return "unknown"
	}
}

// ReduceSegments reduces each offsets-delimited span of a to one element of
// the result. Empty spans produce the reduction's identity. correction is
// the degrees-of-freedom adjustment for RVar and RStd.
func ReduceSegments(a *dense.Raw, offsets []int64, op ReduceOp, out dense.DataType, correction float64) *dense.Raw {
	result := dense.NewRaw(len(offsets)-1, out, a.Device())
	for s := 0; s < len(offsets)-1; s++ {
		start, stop := int(offsets[s]), int(offsets[s+1])
		reduceSpan(a, func(k int) int { return start + k }, stop-start, op, correction, result, s)
	}
	return result
}

// ReduceStrided reduces the middle axis of a row-major (outer, n, inner)
// view of a. The result has outer*inner elements.
func ReduceStrided(a *dense.Raw, outer, n, inner int, op ReduceOp, out dense.DataType, correction float64) *dense.Raw {
	result := dense.NewRaw(outer*inner, out, a.Device())
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*n*inner + in
			reduceSpan(a, func(k int) int { return base + k*inner }, n, op, correction, result, o*inner+in)
		}
	}
	return result
}

// ReduceAll reduces the whole buffer to a single element.
func ReduceAll(a *dense.Raw, op ReduceOp, out dense.DataType, correction float64) *dense.Raw {
	result := dense.NewRaw(1, out, a.Device())
	reduceSpan(a, func(k int) int { return k }, a.Len(), op, correction, result, 0)
	return result
}

func reduceSpan(a *dense.Raw, index func(int) int, n int, op ReduceOp, correction float64, result *dense.Raw, at int) {
	switch op {
	case RAll:
		acc := true
		for k := 0; k < n && acc; k++ {
			acc = a.BoolAt(index(k))
		}
		result.SetBool(at, acc)
	case RAny:
		acc := false
		for k := 0; k < n && !acc; k++ {
			acc = a.BoolAt(index(k))
		}
		result.SetBool(at, acc)
	case RSum, RProd:
		reduceSumProd(a, index, n, op, result, at)
	case RMin, RMax:
		reduceMinMax(a, index, n, op, result, at)
	case RMean:
		if a.DType().IsComplex() {
			var acc complex128
			for k := 0; k < n; k++ {
				acc += a.Complex128At(index(k))
			}
			result.SetComplex128(at, acc/complex(float64(n), 0))
			return
		}
		acc := 0.0
		for k := 0; k < n; k++ {
			acc += a.Float64At(index(k))
		}
		result.SetFloat64(at, acc/float64(n))
	case RVar, RStd:
		reduceVariance(a, index, n, op, correction, result, at)
	default:
		panic(fmt.Sprintf("reduce: unknown op %d", op))
	}
}

func reduceSumProd(a *dense.Raw, index func(int) int, n int, op ReduceOp, result *dense.Raw, at int) {
	switch {
	case result.DType().IsComplex():
		acc := complex(0, 0)
		if op == RProd {
			acc = complex(1, 0)
		}
		for k := 0; k < n; k++ {
			if op == RSum {
				acc += a.Complex128At(index(k))
			} else {
				acc *= a.Complex128At(index(k))
			}
		}
		result.SetComplex128(at, acc)
	case result.DType() == dense.Uint64:
		acc := uint64(0)
		if op == RProd {
			acc = 1
		}
		for k := 0; k < n; k++ {
			if op == RSum {
				acc += a.Uint64At(index(k))
			} else {
				acc *= a.Uint64At(index(k))
			}
		}
		result.SetUint64(at, acc)
	case result.DType().IsInteger():
		acc := int64(0)
		if op == RProd {
			acc = 1
		}
		for k := 0; k < n; k++ {
			if op == RSum {
				acc += a.Int64At(index(k))
			} else {
				acc *= a.Int64At(index(k))
			}
		}
		result.SetInt64(at, acc)
	default:
		acc := 0.0
		if op == RProd {
			acc = 1
		}
		for k := 0; k < n; k++ {
			if op == RSum {
				acc += a.Float64At(index(k))
			} else {
				acc *= a.Float64At(index(k))
			}
		}
		result.SetFloat64(at, acc)
	}
}

func reduceMinMax(a *dense.Raw, index func(int) int, n int, op ReduceOp, result *dense.Raw, at int) {
	if n == 0 {
		setMinMaxIdentity(result, at, op)
		return
	}
	best := index(0)
	for k := 1; k < n; k++ {
		i := index(k)
		if op == RMin {
			if Less(a, i, best) {
				best = i
			}
		} else if Less(a, best, i) {
			best = i
		}
	}
	switch {
	case result.DType().IsComplex():
		result.SetComplex128(at, a.Complex128At(best))
	case result.DType() == dense.Uint64:
		result.SetUint64(at, a.Uint64At(best))
	case result.DType().IsInteger():
		result.SetInt64(at, a.Int64At(best))
	case result.DType() == dense.Bool:
		result.SetBool(at, a.BoolAt(best))
	default:
		result.SetFloat64(at, a.Float64At(best))
	}
}

// setMinMaxIdentity writes the identity value for an empty min or max: the
// largest (for min) or smallest (for max) value the result dtype can hold,
// or the matching infinity for floats.
func setMinMaxIdentity(result *dense.Raw, at int, op ReduceOp) {
	dt := result.DType()
	switch {
	case dt.IsFloat() || dt.IsComplex():
		inf := math.Inf(1)
		if op == RMax {
			inf = math.Inf(-1)
		}
		if dt.IsComplex() {
			result.SetComplex128(at, complex(inf, 0))
		} else {
			result.SetFloat64(at, inf)
		}
	case dt == dense.Uint64:
		if op == RMin {
			result.SetUint64(at, math.MaxUint64)
		} else {
			result.SetUint64(at, 0)
		}
	case dt == dense.Bool:
		result.SetBool(at, op == RMin)
	default:
		lo, hi := intRange(dt)
		if op == RMin {
			result.SetInt64(at, hi)
		} else {
			result.SetInt64(at, lo)
		}
	}
}

func intRange(dt dense.DataType) (lo, hi int64) {
	switch dt {
	case dense.Int8:
		return math.MinInt8, math.MaxInt8
	case dense.Int16:
		return math.MinInt16, math.MaxInt16
	case dense.Int32:
		return math.MinInt32, math.MaxInt32
	case dense.Int64:
		return math.MinInt64, math.MaxInt64
	case dense.Uint8:
		return 0, math.MaxUint8
	case dense.Uint16:
		return 0, math.MaxUint16
	case dense.Uint32:
		return 0, math.MaxUint32
	default:
		panic(fmt.Sprintf("reduce: no integer range for %s", dt))
	}
}

func reduceVariance(a *dense.Raw, index func(int) int, n int, op ReduceOp, correction float64, result *dense.Raw, at int) {
	denom := float64(n) - correction
	if a.DType().IsComplex() {
		var mean complex128
		for k := 0; k < n; k++ {
			mean += a.Complex128At(index(k))
		}
		mean /= complex(float64(n), 0)
		acc := 0.0
		for k := 0; k < n; k++ {
			d := a.Complex128At(index(k)) - mean
			acc += real(d)*real(d) + imag(d)*imag(d)
		}
		v := acc / denom
		if op == RStd {
			v = math.Sqrt(v)
		}
		result.SetFloat64(at, v)
		return
	}
	mean := 0.0
	for k := 0; k < n; k++ {
		mean += a.Float64At(index(k))
	}
	mean /= float64(n)
	acc := 0.0
	for k := 0; k < n; k++ {
		d := a.Float64At(index(k)) - mean
		acc += d * d
	}
	v := acc / denom
	if op == RStd {
		v = math.Sqrt(v)
	}
	result.SetFloat64(at, v)
}
