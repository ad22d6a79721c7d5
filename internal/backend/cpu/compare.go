package cpu

import (
	"math"

	"github.com/ragged-data/ragged/internal/dense"
)

// Less reports whether element i of a orders before element j. Ordering
// matches NumPy's sort: NaN sorts last, complex values compare
// lexicographically by real part then imaginary part, booleans as 0 and 1.
func Less(a *dense.Raw, i, j int) bool {
	switch a.DType().Kind() {
	case dense.KindComplex:
		x, y := a.Complex128At(i), a.Complex128At(j)
		if real(x) != real(y) {
			return lessFloat(real(x), real(y))
		}
		return lessFloat(imag(x), imag(y))
	case dense.KindUnsignedInt:
		if a.DType() == dense.Uint64 {
			return a.AsUint64()[i] < a.AsUint64()[j]
		}
		return a.Int64At(i) < a.Int64At(j)
	case dense.KindSignedInt:
		return a.Int64At(i) < a.Int64At(j)
	case dense.KindBool:
		return !a.AsBool()[i] && a.AsBool()[j]
	default:
		return lessFloat(a.Float64At(i), a.Float64At(j))
	}
}

func lessFloat(x, y float64) bool {
	if math.IsNaN(x) {
		return false
	}
	if math.IsNaN(y) {
		return true
	}
	return x < y
}

// SameValue reports whether elements i of a and j of b are the same value.
// Unlike IEEE equality, NaN is the same value as NaN, which is what
// deduplication needs.
func SameValue(a *dense.Raw, i int, b *dense.Raw, j int) bool {
	switch a.DType().Kind() {
	case dense.KindComplex:
		x, y := a.Complex128At(i), b.Complex128At(j)
		return sameFloat(real(x), real(y)) && sameFloat(imag(x), imag(y))
	case dense.KindBool:
		return a.AsBool()[i] == b.AsBool()[j]
	case dense.KindUnsignedInt:
		return a.Uint64At(i) == b.Uint64At(j)
	case dense.KindSignedInt:
		return a.Int64At(i) == b.Int64At(j)
	default:
		return sameFloat(a.Float64At(i), b.Float64At(j))
	}
}

func sameFloat(x, y float64) bool {
	if math.IsNaN(x) && math.IsNaN(y) {
		return true
	}
	return x == y
}
