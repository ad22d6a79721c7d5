package cpu

import (
	"sort"

	"github.com/ragged-data/ragged/internal/dense"
)

// SortSegments returns a buffer with each offsets-delimited span sorted.
// The sort is stable, so equal elements keep their order under descending
// as well as ascending sorts.
func SortSegments(a *dense.Raw, offsets []int64, descending bool) *dense.Raw {
	perm := sortPermutation(a, offsets, descending)
	return Gather(a, perm)
}

// ArgsortSegments returns the indices that sort each span, local to the
// span the way a per-list sort reports them.
func ArgsortSegments(a *dense.Raw, offsets []int64, descending bool) *dense.Raw {
	perm := sortPermutation(a, offsets, descending)
	result := dense.NewRaw(len(perm), dense.Int64, a.Device())
	dst := result.AsInt64()
	for s := 0; s < len(offsets)-1; s++ {
		start, stop := int(offsets[s]), int(offsets[s+1])
		for i := start; i < stop; i++ {
			dst[i] = perm[i] - int64(start)
		}
	}
	return result
}

func sortPermutation(a *dense.Raw, offsets []int64, descending bool) []int64 {
	perm := make([]int64, a.Len())
	for s := 0; s < len(offsets)-1; s++ {
		start, stop := int(offsets[s]), int(offsets[s+1])
		seg := perm[start:stop]
		for i := range seg {
			seg[i] = int64(start + i)
		}
		sort.SliceStable(seg, func(i, j int) bool {
			if descending {
				return Less(a, int(seg[j]), int(seg[i]))
			}
			return Less(a, int(seg[i]), int(seg[j]))
		})
	}
	return perm
}

// ArgMinSegments returns, for each non-empty span, the local index of its
// smallest element. The first occurrence wins on ties. Spans must be
// non-empty; the caller rejects empty ones.
func ArgMinSegments(a *dense.Raw, offsets []int64) *dense.Raw {
	return argExtreme(a, offsets, true)
}

// ArgMaxSegments is ArgMinSegments for the largest element.
func ArgMaxSegments(a *dense.Raw, offsets []int64) *dense.Raw {
	return argExtreme(a, offsets, false)
}

func argExtreme(a *dense.Raw, offsets []int64, min bool) *dense.Raw {
	result := dense.NewRaw(len(offsets)-1, dense.Int64, a.Device())
	dst := result.AsInt64()
	for s := 0; s < len(offsets)-1; s++ {
		start, stop := int(offsets[s]), int(offsets[s+1])
		if start == stop {
			panic("argminmax: empty span")
		}
		best := start
		for i := start + 1; i < stop; i++ {
			if min {
				if Less(a, i, best) {
					best = i
				}
			} else if Less(a, best, i) {
				best = i
			}
		}
		dst[s] = int64(best - start)
	}
	return result
}

// SearchSorted returns, for each needle, the insertion index into the
// ascending-sorted haystack that keeps it sorted. With right set it returns
// the rightmost valid position instead of the leftmost.
func SearchSorted(haystack, needles *dense.Raw, right bool) *dense.Raw {
	result := dense.NewRaw(needles.Len(), dense.Int64, haystack.Device())
	dst := result.AsInt64()
	for i := 0; i < needles.Len(); i++ {
		dst[i] = int64(sort.Search(haystack.Len(), func(j int) bool {
			if right {
				return lessAcross(needles, i, haystack, j)
			}
			return !lessAcross(haystack, j, needles, i)
		}))
	}
	return result
}

// lessAcross orders element i of a against element j of b with the same
// rules as Less.
func lessAcross(a *dense.Raw, i int, b *dense.Raw, j int) bool {
	switch {
	case a.DType().IsComplex() || b.DType().IsComplex():
		x, y := a.Complex128At(i), b.Complex128At(j)
		if real(x) != real(y) {
			return lessFloat(real(x), real(y))
		}
		return lessFloat(imag(x), imag(y))
	case a.DType().IsInteger() && b.DType().IsInteger():
		if a.DType() == dense.Uint64 && b.DType() == dense.Uint64 {
			return a.Uint64At(i) < b.Uint64At(j)
		}
		return a.Int64At(i) < b.Int64At(j)
	default:
		return lessFloat(a.Float64At(i), b.Float64At(j))
	}
}
