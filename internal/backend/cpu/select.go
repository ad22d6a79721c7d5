package cpu

import "github.com/ragged-data/ragged/internal/dense"

// Truthy reports whether element i is true under numeric truth rules:
// nonzero for numbers, including NaN.
func Truthy(a *dense.Raw, i int) bool {
	dt := a.DType()
	switch {
	case dt == dense.Bool:
		return a.BoolAt(i)
	case dt.IsComplex():
		return a.Complex128At(i) != 0
	case dt == dense.Uint64:
		return a.Uint64At(i) != 0
	case dt.IsInteger():
		return a.Int64At(i) != 0
	default:
		return a.Float64At(i) != 0
	}
}

// Select copies element i from a where cond is true at i and from b
// otherwise. The value buffers must share a dtype and all three lengths
// must match.
func Select(cond, a, b *dense.Raw) *dense.Raw {
	if a.DType() != b.DType() {
		panic("select: dtype mismatch")
	}
	if cond.Len() != a.Len() || a.Len() != b.Len() {
		panic("select: length mismatch")
	}
	out := dense.NewRaw(a.Len(), a.DType(), a.Device())
	for i := 0; i < a.Len(); i++ {
		if Truthy(cond, i) {
			out.Copy(i, a, i, 1)
		} else {
			out.Copy(i, b, i, 1)
		}
	}
	return out
}
