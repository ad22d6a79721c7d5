// Package dense provides the flat numeric buffers that back every ragged
// array: reference-counted byte storage, the closed set of element types,
// device tags, and the type-promotion rules shared by all operations.
package dense

import "fmt"

// DType is a constraint for the Go element types a buffer may hold.
type DType interface {
	~bool |
		~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 |
		~complex64 | ~complex128
}

// DataType represents runtime type information for buffer elements.
//
// The set is closed: boolean, 8/16/32/64-bit signed and unsigned integers,
// 32/64-bit floats and 64/128-bit complex. There are no structured types,
// no sub-fields and no sub-shapes.
type DataType int

// Supported element types.
const (
	Bool DataType = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
	Complex64
	Complex128
)

// Kind groups data types the way the Array API "isdtype" kinds do.
type Kind int

// Data type kinds.
const (
	KindBool Kind = iota
	KindSignedInt
	KindUnsignedInt
	KindFloat
	KindComplex
)

// Size returns the byte size of one element.
func (dt DataType) Size() int {
	switch dt {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64, Complex64:
		return 8
	case Complex128:
		return 16
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Complex64:
		return "complex64"
	case Complex128:
		return "complex128"
	default:
		return "unknown"
	}
}

// Kind returns the data type's kind.
func (dt DataType) Kind() Kind {
	switch dt {
	case Bool:
		return KindBool
	case Int8, Int16, Int32, Int64:
		return KindSignedInt
	case Uint8, Uint16, Uint32, Uint64:
		return KindUnsignedInt
	case Float32, Float64:
		return KindFloat
	case Complex64, Complex128:
		return KindComplex
	default:
		panic("unknown data type")
	}
}

// IsInteger reports whether dt is a signed or unsigned integer type.
func (dt DataType) IsInteger() bool {
	k := dt.Kind()
	return k == KindSignedInt || k == KindUnsignedInt
}

// IsFloat reports whether dt is a real floating-point type.
func (dt DataType) IsFloat() bool { return dt.Kind() == KindFloat }

// IsComplex reports whether dt is a complex floating-point type.
func (dt DataType) IsComplex() bool { return dt.Kind() == KindComplex }

// Valid reports whether dt is one of the closed set of element types.
func (dt DataType) Valid() bool { return dt >= Bool && dt <= Complex128 }

// bits of the integer types, used by the promotion rules.
func (dt DataType) bits() int {
	switch dt {
	case Int8, Uint8, Bool:
		return 8
	case Int16, Uint16:
		return 16
	case Int32, Uint32, Float32:
		return 32
	case Int64, Uint64, Float64, Complex64:
		return 64
	case Complex128:
		return 128
	default:
		panic("unknown data type")
	}
}

func signedOfBits(bits int) DataType {
	switch bits {
	case 8:
		return Int8
	case 16:
		return Int16
	case 32:
		return Int32
	default:
		return Int64
	}
}

func unsignedOfBits(bits int) DataType {
	switch bits {
	case 8:
		return Uint8
	case 16:
		return Uint16
	case 32:
		return Uint32
	default:
		return Uint64
	}
}

// Promote returns the data type that results from combining a and b under
// the Array API type-promotion rules (the same lattice NumPy's promote_types
// implements for these thirteen types).
func Promote(a, b DataType) DataType {
	if a == b {
		return a
	}
	ka, kb := a.Kind(), b.Kind()

	// Bool promotes to the other type.
	if ka == KindBool {
		return b
	}
	if kb == KindBool {
		return a
	}

	// Order the pair so ka <= kb in kind rank (int < uint handled explicitly).
	if ka == kb {
		switch ka {
		case KindSignedInt:
			return signedOfBits(maxInt(a.bits(), b.bits()))
		case KindUnsignedInt:
			return unsignedOfBits(maxInt(a.bits(), b.bits()))
		case KindFloat:
			if a.bits() >= b.bits() {
				return a
			}
			return b
		case KindComplex:
			if a.bits() >= b.bits() {
				return a
			}
			return b
		}
	}

	// Mixed signed/unsigned integers: the smallest signed integer that can
	// hold both, falling back to Float64 when uint64 is involved.
	if (ka == KindSignedInt && kb == KindUnsignedInt) || (ka == KindUnsignedInt && kb == KindSignedInt) {
		s, u := a, b
		if ka == KindUnsignedInt {
			s, u = b, a
		}
		if u == Uint64 {
			return Float64
		}
		return signedOfBits(maxInt(s.bits(), u.bits()*2))
	}

	// Integer with float: small integers fit in float32, the rest need float64.
	if ka == KindFloat || kb == KindFloat {
		f, o := a, b
		if kb == KindFloat {
			f, o = b, a
		}
		if o.Kind() == KindComplex {
			return promoteComplex(f, o)
		}
		if f == Float32 && o.bits() <= 16 {
			return Float32
		}
		return Float64
	}

	// Anything with complex promotes to complex.
	if ka == KindComplex || kb == KindComplex {
		c, o := a, b
		if kb == KindComplex {
			c, o = b, a
		}
		return promoteComplex(o, c)
	}

	panic(fmt.Sprintf("promote: unhandled pair %s, %s", a, b))
}

func promoteComplex(other, c DataType) DataType {
	if c == Complex128 {
		return Complex128
	}
	switch other.Kind() {
	case KindFloat:
		if other == Float64 {
			return Complex128
		}
		return Complex64
	case KindSignedInt, KindUnsignedInt:
		if other.bits() <= 16 {
			return Complex64
		}
		return Complex128
	default:
		return Complex64
	}
}

// CanCast reports whether values of type from can be cast to type to under
// type-promotion rules (a safe cast: Promote(from, to) == to).
func CanCast(from, to DataType) bool {
	if from == to {
		return true
	}
	if from.Kind() == KindBool {
		return true
	}
	if to.Kind() == KindBool {
		return false
	}
	return Promote(from, to) == to
}

// RealOf returns the real-valued floating-point type with the same precision
// as a complex type; other types are returned unchanged.
func RealOf(dt DataType) DataType {
	switch dt {
	case Complex64:
		return Float32
	case Complex128:
		return Float64
	default:
		return dt
	}
}

// ComplexOf returns the complex type whose components have the precision of
// a real floating-point type.
func ComplexOf(dt DataType) DataType {
	if dt == Float32 {
		return Complex64
	}
	return Complex128
}

// InferDataType reports the DataType backing a generic element type.
func InferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case bool:
		return Bool
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case float32:
		return Float32
	case float64:
		return Float64
	case complex64:
		return Complex64
	case complex128:
		return Complex128
	default:
		panic("unsupported type")
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
