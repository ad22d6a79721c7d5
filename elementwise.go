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
	"github.com/ragged-data/ragged/internal/layout"
)

// pair is two broadcast-aligned flat buffers plus the boxing closure that
// rebuilds the result array around a kernel output.
type pair struct {
	wrap func(*dense.Raw) *Array
	a, b *dense.Raw
}

// alignPair broadcasts two arrays to a common structure. Scalars broadcast
// into every element of the other operand; lists align from the left.
func alignPair(x, y *Array) (pair, error) {
	switch {
	case x.scalar != nil && y.scalar != nil:
		return pair{wrap: fromScalar, a: x.scalar, b: y.scalar}, nil
	case x.scalar != nil:
		leafY := layout.LeafOf(y.list)
		rep := cpu.Gather(x.scalar, make([]int64, leafY.Len()))
		structure := y.list
		return pair{
			wrap: func(l *dense.Raw) *Array { return fromContent(layout.WithLeaf(structure, l)) },
			a:    rep,
			b:    leafY,
		}, nil
	case y.scalar != nil:
		leafX := layout.LeafOf(x.list)
		rep := cpu.Gather(y.scalar, make([]int64, leafX.Len()))
		structure := x.list
		return pair{
			wrap: func(l *dense.Raw) *Array { return fromContent(layout.WithLeaf(structure, l)) },
			a:    leafX,
			b:    rep,
		}, nil
	default:
		al, err := layout.Align(x.list, y.list)
		if err != nil {
			return pair{}, err
		}
		return pair{
			wrap: func(l *dense.Raw) *Array { return fromContent(al.Wrap(l)) },
			a:    al.A,
			b:    al.B,
		}, nil
	}
}

// arithmetic dispatches a binary operation to the lane matching the
// promoted result dtype: exact integer lanes for integer results, float64
// for real floats, complex128 for complex. A nil lane means the operation
// is undefined for that kind.
func arithmetic(name string, x, y *Array, out DataType,
	fi func(a, b int64) int64,
	fu func(a, b uint64) uint64,
	ff func(a, b float64) float64,
	fc func(a, b complex128) complex128,
) (*Array, error) {
	p, err := alignPair(x, y)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	switch {
	case out.IsComplex():
		if fc == nil {
			return nil, fmt.Errorf("%s: not supported for complex dtype %s", name, out)
		}
		return p.wrap(cpu.ZipComplex(name, p.a, p.b, out, fc)), nil
	case out.IsFloat():
		if ff == nil {
			return nil, fmt.Errorf("%s: not supported for dtype %s", name, out)
		}
		return p.wrap(cpu.ZipFloat(name, p.a, p.b, out, ff)), nil
	case out == dense.Uint64:
		if fu == nil {
			return nil, fmt.Errorf("%s: not supported for dtype %s", name, out)
		}
		return p.wrap(cpu.ZipUint(name, p.a, p.b, out, fu)), nil
	default:
		if fi == nil {
			return nil, fmt.Errorf("%s: not supported for dtype %s", name, out)
		}
		return p.wrap(cpu.ZipInt(name, p.a, p.b, out, fi)), nil
	}
}

func promoted(x, y *Array) DataType {
	return dense.Promote(x.DType(), y.DType())
}

// Add computes x + y elementwise.
func Add(x, y *Array) (*Array, error) {
	return arithmetic("add", x, y, promoted(x, y),
		func(a, b int64) int64 { return a + b },
		func(a, b uint64) uint64 { return a + b },
		func(a, b float64) float64 { return a + b },
		func(a, b complex128) complex128 { return a + b })
}

// Subtract computes x - y elementwise.
func Subtract(x, y *Array) (*Array, error) {
	return arithmetic("subtract", x, y, promoted(x, y),
		func(a, b int64) int64 { return a - b },
		func(a, b uint64) uint64 { return a - b },
		func(a, b float64) float64 { return a - b },
		func(a, b complex128) complex128 { return a - b })
}

// Multiply computes x * y elementwise.
func Multiply(x, y *Array) (*Array, error) {
	return arithmetic("multiply", x, y, promoted(x, y),
		func(a, b int64) int64 { return a * b },
		func(a, b uint64) uint64 { return a * b },
		func(a, b float64) float64 { return a * b },
		func(a, b complex128) complex128 { return a * b })
}

// Divide computes x / y elementwise. Integer inputs promote to float64;
// division by zero follows IEEE semantics.
func Divide(x, y *Array) (*Array, error) {
	out := promoted(x, y)
	if !out.IsFloat() && !out.IsComplex() {
		out = dense.Float64
	}
	return arithmetic("divide", x, y, out,
		nil, nil,
		func(a, b float64) float64 { return a / b },
		func(a, b complex128) complex128 { return a / b })
}

// FloorDivide computes x // y elementwise, rounding toward negative
// infinity. Integer division by zero yields zero, matching the dense
// library convention.
func FloorDivide(x, y *Array) (*Array, error) {
	return arithmetic("floor_divide", x, y, promoted(x, y),
		func(a, b int64) int64 {
			if b == 0 {
				return 0
			}
			q := a / b
			if (a%b != 0) && ((a < 0) != (b < 0)) {
				q--
			}
			return q
		},
		func(a, b uint64) uint64 {
			if b == 0 {
				return 0
			}
			return a / b
		},
		func(a, b float64) float64 { return math.Floor(a / b) },
		nil)
}

// Remainder computes x % y elementwise with the result taking the
// divisor's sign, the convention floor division pairs with.
func Remainder(x, y *Array) (*Array, error) {
	return arithmetic("remainder", x, y, promoted(x, y),
		func(a, b int64) int64 {
			if b == 0 {
				return 0
			}
			r := a % b
			if r != 0 && (r < 0) != (b < 0) {
				r += b
			}
			return r
		},
		func(a, b uint64) uint64 {
			if b == 0 {
				return 0
			}
			return a % b
		},
		func(a, b float64) float64 {
			r := math.Mod(a, b)
			if r != 0 && (r < 0) != (b < 0) {
				r += b
			}
			return r
		},
		nil)
}

// Pow raises x to the power y elementwise. Integer bases with negative
// integer exponents are rejected.
func Pow(x, y *Array) (*Array, error) {
	out := promoted(x, y)
	if out.IsInteger() || out == dense.Bool {
		p, err := alignPair(x, y)
		if err != nil {
			return nil, fmt.Errorf("pow: %w", err)
		}
		for i := 0; i < p.b.Len(); i++ {
			if p.b.DType() != dense.Uint64 && p.b.Int64At(i) < 0 {
				return nil, fmt.Errorf("pow: integers to negative integer powers are not allowed")
			}
		}
		if out == dense.Uint64 {
			return p.wrap(cpu.ZipUint("pow", p.a, p.b, out, upow)), nil
		}
		return p.wrap(cpu.ZipInt("pow", p.a, p.b, out, ipow)), nil
	}
	return arithmetic("pow", x, y, out,
		nil, nil,
		math.Pow,
		cmplx.Pow)
}

func ipow(a, b int64) int64 {
	var r int64 = 1
	for ; b > 0; b-- {
		r *= a
	}
	return r
}

func upow(a, b uint64) uint64 {
	var r uint64 = 1
	for ; b > 0; b-- {
		r *= a
	}
	return r
}

// Atan2 computes the two-argument arctangent elementwise.
func Atan2(x, y *Array) (*Array, error) {
	out := floatResult(promoted(x, y))
	if out.IsComplex() {
		return nil, fmt.Errorf("atan2: not supported for complex dtypes")
	}
	return arithmetic("atan2", x, y, out, nil, nil, math.Atan2, nil)
}

// Logaddexp computes log(exp(x) + exp(y)) elementwise without overflow.
func Logaddexp(x, y *Array) (*Array, error) {
	out := floatResult(promoted(x, y))
	if out.IsComplex() {
		return nil, fmt.Errorf("logaddexp: not supported for complex dtypes")
	}
	return arithmetic("logaddexp", x, y, out, nil, nil, logaddexp, nil)
}

func logaddexp(a, b float64) float64 {
	if a == b {
		return a + math.Ln2
	}
	hi, lo := a, b
	if hi < lo {
		hi, lo = lo, hi
	}
	if math.IsInf(hi, 1) {
		return hi
	}
	return hi + math.Log1p(math.Exp(lo-hi))
}

// floatResult maps an integer or boolean dtype to float64 and keeps floats
// and complexes as they are.
func floatResult(dt DataType) DataType {
	if dt.IsFloat() || dt.IsComplex() {
		return dt
	}
	return dense.Float64
}

// comparison kinds.
type cmpKind int

const (
	cmpEq cmpKind = iota
	cmpNe
	cmpLt
	cmpLe
	cmpGt
	cmpGe
)

func compare(name string, x, y *Array, kind cmpKind) (*Array, error) {
	p, err := alignPair(x, y)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	dt := promoted(x, y)
	if dt.IsComplex() {
		if kind != cmpEq && kind != cmpNe {
			return nil, fmt.Errorf("%s: ordered comparison not supported for complex dtypes", name)
		}
		eq := kind == cmpEq
		return p.wrap(cpu.ZipComplex(name, p.a, p.b, dense.Bool, func(a, b complex128) complex128 {
			if (a == b) == eq {
				return 1
			}
			return 0
		})), nil
	}
	pred := func(v int) bool {
		switch kind {
		case cmpEq:
			return v == 0
		case cmpNe:
			return v != 0
		case cmpLt:
			return v < 0
		case cmpLe:
			return v <= 0
		case cmpGt:
			return v > 0
		default:
			return v >= 0
		}
	}
	boolVal := func(b bool) int64 {
		if b {
			return 1
		}
		return 0
	}
	switch {
	case dt == dense.Uint64:
		return p.wrap(cpu.ZipUint(name, p.a, p.b, dense.Bool, func(a, b uint64) uint64 {
			return uint64(boolVal(pred(cmpUint(a, b))))
		})), nil
	case dt.IsInteger() || dt == dense.Bool:
		return p.wrap(cpu.ZipInt(name, p.a, p.b, dense.Bool, func(a, b int64) int64 {
			return boolVal(pred(cmpInt(a, b)))
		})), nil
	default:
		// NaN compares unequal and unordered, so every predicate except
		// "not equal" is false against NaN.
		return p.wrap(cpu.ZipFloat(name, p.a, p.b, dense.Bool, func(a, b float64) float64 {
			if math.IsNaN(a) || math.IsNaN(b) {
				if kind == cmpNe {
					return 1
				}
				return 0
			}
			return float64(boolVal(pred(cmpFloat(a, b))))
		})), nil
	}
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equal computes x == y elementwise.
func Equal(x, y *Array) (*Array, error) { return compare("equal", x, y, cmpEq) }

// NotEqual computes x != y elementwise.
func NotEqual(x, y *Array) (*Array, error) { return compare("not_equal", x, y, cmpNe) }

// Less computes x < y elementwise.
func Less(x, y *Array) (*Array, error) { return compare("less", x, y, cmpLt) }

// LessEqual computes x <= y elementwise.
func LessEqual(x, y *Array) (*Array, error) { return compare("less_equal", x, y, cmpLe) }

// Greater computes x > y elementwise.
func Greater(x, y *Array) (*Array, error) { return compare("greater", x, y, cmpGt) }

// GreaterEqual computes x >= y elementwise.
func GreaterEqual(x, y *Array) (*Array, error) { return compare("greater_equal", x, y, cmpGe) }

// LogicalAnd computes the elementwise conjunction of truth values.
// Numeric operands are true when nonzero.
func LogicalAnd(x, y *Array) (*Array, error) {
	p, err := alignPair(x, y)
	if err != nil {
		return nil, fmt.Errorf("logical_and: %w", err)
	}
	return p.wrap(cpu.ZipBool("logical_and", p.a, p.b, func(a, b bool) bool { return a && b })), nil
}

// LogicalOr computes the elementwise disjunction of truth values.
func LogicalOr(x, y *Array) (*Array, error) {
	p, err := alignPair(x, y)
	if err != nil {
		return nil, fmt.Errorf("logical_or: %w", err)
	}
	return p.wrap(cpu.ZipBool("logical_or", p.a, p.b, func(a, b bool) bool { return a || b })), nil
}

// LogicalXor computes the elementwise exclusive or of truth values.
func LogicalXor(x, y *Array) (*Array, error) {
	p, err := alignPair(x, y)
	if err != nil {
		return nil, fmt.Errorf("logical_xor: %w", err)
	}
	return p.wrap(cpu.ZipBool("logical_xor", p.a, p.b, func(a, b bool) bool { return a != b })), nil
}

// LogicalNot computes the elementwise negation of truth values.
func LogicalNot(x *Array) (*Array, error) {
	return x.withLeaf(cpu.MapBool(x.leaf(), func(v bool) bool { return !v })), nil
}

func bitwiseOperands(name string, x, y *Array) (DataType, error) {
	dt := promoted(x, y)
	if !dt.IsInteger() && dt != dense.Bool {
		return dt, fmt.Errorf("%s: requires integer or boolean dtypes, got %s", name, dt)
	}
	return dt, nil
}

// BitwiseAnd computes x & y elementwise on integer or boolean arrays.
func BitwiseAnd(x, y *Array) (*Array, error) {
	out, err := bitwiseOperands("bitwise_and", x, y)
	if err != nil {
		return nil, err
	}
	return arithmetic("bitwise_and", x, y, out,
		func(a, b int64) int64 { return a & b },
		func(a, b uint64) uint64 { return a & b },
		nil, nil)
}

// BitwiseOr computes x | y elementwise on integer or boolean arrays.
func BitwiseOr(x, y *Array) (*Array, error) {
	out, err := bitwiseOperands("bitwise_or", x, y)
	if err != nil {
		return nil, err
	}
	return arithmetic("bitwise_or", x, y, out,
		func(a, b int64) int64 { return a | b },
		func(a, b uint64) uint64 { return a | b },
		nil, nil)
}

// BitwiseXor computes x ^ y elementwise on integer or boolean arrays.
func BitwiseXor(x, y *Array) (*Array, error) {
	out, err := bitwiseOperands("bitwise_xor", x, y)
	if err != nil {
		return nil, err
	}
	return arithmetic("bitwise_xor", x, y, out,
		func(a, b int64) int64 { return a ^ b },
		func(a, b uint64) uint64 { return a ^ b },
		nil, nil)
}

// BitwiseLeftShift computes x << y elementwise on integer arrays.
func BitwiseLeftShift(x, y *Array) (*Array, error) {
	out, err := bitwiseOperands("bitwise_left_shift", x, y)
	if err != nil {
		return nil, err
	}
	if out == dense.Bool {
		return nil, fmt.Errorf("bitwise_left_shift: requires integer dtypes, got %s", out)
	}
	return arithmetic("bitwise_left_shift", x, y, out,
		func(a, b int64) int64 { return a << uint64(b) },
		func(a, b uint64) uint64 { return a << b },
		nil, nil)
}

// BitwiseRightShift computes x >> y elementwise on integer arrays.
func BitwiseRightShift(x, y *Array) (*Array, error) {
	out, err := bitwiseOperands("bitwise_right_shift", x, y)
	if err != nil {
		return nil, err
	}
	if out == dense.Bool {
		return nil, fmt.Errorf("bitwise_right_shift: requires integer dtypes, got %s", out)
	}
	return arithmetic("bitwise_right_shift", x, y, out,
		func(a, b int64) int64 { return a >> uint64(b) },
		func(a, b uint64) uint64 { return a >> b },
		nil, nil)
}

// BitwiseInvert computes ^x elementwise; boolean arrays negate.
func BitwiseInvert(x *Array) (*Array, error) {
	dt := x.DType()
	switch {
	case dt == dense.Bool:
		return x.withLeaf(cpu.MapBool(x.leaf(), func(v bool) bool { return !v })), nil
	case dt == dense.Uint64:
		return x.withLeaf(cpu.MapUint(x.leaf(), dt, func(v uint64) uint64 { return ^v })), nil
	case dt.IsInteger():
		return x.withLeaf(cpu.MapInt("bitwise_invert", x.leaf(), dt, func(v int64) int64 { return ^v })), nil
	default:
		return nil, fmt.Errorf("bitwise_invert: requires integer or boolean dtypes, got %s", dt)
	}
}
