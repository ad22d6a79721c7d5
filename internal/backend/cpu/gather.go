package cpu

import (
	"fmt"

	"github.com/ragged-data/ragged/internal/dense"
)

// Gather copies the elements of a selected by idx into a fresh buffer, in
// index order. Indices must already be bounds-checked and non-negative.
func Gather(a *dense.Raw, idx []int64) *dense.Raw {
	result := dense.NewRaw(len(idx), a.DType(), a.Device())
	for i, j := range idx {
		if j < 0 || int(j) >= a.Len() {
			panic(fmt.Sprintf("gather: index %d out of range [0, %d)", j, a.Len()))
		}
		result.Copy(i, a, int(j), 1)
	}
	return result
}

// Concat appends the buffers end to end. All inputs must share a dtype.
func Concat(parts []*dense.Raw) *dense.Raw {
	if len(parts) == 0 {
		panic("concat: no buffers")
	}
	total := 0
	for _, p := range parts {
		total += p.Len()
	}
	result := dense.NewRaw(total, parts[0].DType(), parts[0].Device())
	off := 0
	for _, p := range parts {
		result.Copy(off, p, 0, p.Len())
		off += p.Len()
	}
	return result
}
