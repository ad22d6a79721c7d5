// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ragged

import (
	"fmt"
	"math"

	"github.com/ragged-data/ragged/internal/dense"
)

// Astype converts an array to a dtype. Float to integer conversion
// truncates toward zero; converting to the same dtype returns the input.
func Astype(x *Array, dt DataType) (*Array, error) {
	if !dt.Valid() {
		return nil, fmt.Errorf("astype: invalid dtype %d", dt)
	}
	return castArray(x, dt), nil
}

// CanCast reports whether casting from one dtype to another preserves all
// values.
func CanCast(from, to DataType) bool {
	return dense.CanCast(from, to)
}

// FinfoResult describes the numeric limits of a floating dtype. For a
// complex dtype the limits are those of its component type.
type FinfoResult struct {
	Bits           int
	EPS            float64
	Max            float64
	Min            float64
	SmallestNormal float64
	DType          DataType
}

// Finfo returns the limits of a real or complex floating dtype.
func Finfo(dt DataType) (FinfoResult, error) {
	component := dt
	if dt.IsComplex() {
		component = dense.RealOf(dt)
	}
	switch component {
	case dense.Float32:
		return FinfoResult{
			Bits:           32,
			EPS:            float64(math.Nextafter32(1, 2) - 1),
			Max:            math.MaxFloat32,
			Min:            -math.MaxFloat32,
			SmallestNormal: math.SmallestNonzeroFloat32 * (1 << 23),
			DType:          component,
		}, nil
	case dense.Float64:
		return FinfoResult{
			Bits:           64,
			EPS:            math.Nextafter(1, 2) - 1,
			Max:            math.MaxFloat64,
			Min:            -math.MaxFloat64,
			SmallestNormal: math.SmallestNonzeroFloat64 * (1 << 52),
			DType:          component,
		}, nil
	default:
		return FinfoResult{}, fmt.Errorf("finfo: %s is not a floating dtype", dt)
	}
}

// IinfoResult describes the value range of an integer dtype.
type IinfoResult struct {
	Bits  int
	Max   uint64
	Min   int64
	DType DataType
}

// Iinfo returns the range of an integer dtype.
func Iinfo(dt DataType) (IinfoResult, error) {
	switch dt {
	case dense.Int8:
		return IinfoResult{Bits: 8, Max: math.MaxInt8, Min: math.MinInt8, DType: dt}, nil
	case dense.Int16:
		return IinfoResult{Bits: 16, Max: math.MaxInt16, Min: math.MinInt16, DType: dt}, nil
	case dense.Int32:
		return IinfoResult{Bits: 32, Max: math.MaxInt32, Min: math.MinInt32, DType: dt}, nil
	case dense.Int64:
		return IinfoResult{Bits: 64, Max: math.MaxInt64, Min: math.MinInt64, DType: dt}, nil
	case dense.Uint8:
		return IinfoResult{Bits: 8, Max: math.MaxUint8, DType: dt}, nil
	case dense.Uint16:
		return IinfoResult{Bits: 16, Max: math.MaxUint16, DType: dt}, nil
	case dense.Uint32:
		return IinfoResult{Bits: 32, Max: math.MaxUint32, DType: dt}, nil
	case dense.Uint64:
		return IinfoResult{Bits: 64, Max: math.MaxUint64, DType: dt}, nil
	default:
		return IinfoResult{}, fmt.Errorf("iinfo: %s is not an integer dtype", dt)
	}
}

// IsDType reports whether a dtype belongs to a kind. Kinds are the
// conformance strings: "bool", "signed integer", "unsigned integer",
// "integral", "real floating", "complex floating" and "numeric"; a dtype
// name such as "float64" matches exactly.
func IsDType(dt DataType, kind string) (bool, error) {
	switch kind {
	case "bool":
		return dt == dense.Bool, nil
	case "signed integer":
		return dt.IsInteger() && dt != dense.Uint8 && dt != dense.Uint16 && dt != dense.Uint32 && dt != dense.Uint64, nil
	case "unsigned integer":
		return dt == dense.Uint8 || dt == dense.Uint16 || dt == dense.Uint32 || dt == dense.Uint64, nil
	case "integral":
		return dt.IsInteger(), nil
	case "real floating":
		return dt.IsFloat(), nil
	case "complex floating":
		return dt.IsComplex(), nil
	case "numeric":
		return dt.IsInteger() || dt.IsFloat() || dt.IsComplex(), nil
	}
	for probe := dense.Bool; probe <= dense.Complex128; probe++ {
		if probe.Valid() && probe.String() == kind {
			return dt == probe, nil
		}
	}
	return false, fmt.Errorf("is_dtype: unknown kind %q", kind)
}

// ResultType folds the promotion rules over a list of dtypes.
func ResultType(dts ...DataType) (DataType, error) {
	if len(dts) == 0 {
		return 0, fmt.Errorf("result_type: need at least one dtype")
	}
	out := dts[0]
	for _, dt := range dts[1:] {
		out = dense.Promote(out, dt)
	}
	return out, nil
}
