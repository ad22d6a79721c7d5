package cpu

import (
	"sort"

	"github.com/ragged-data/ragged/internal/dense"
)

// UniqueResult holds the full unique decomposition of a flat buffer.
type UniqueResult struct {
	Values  *dense.Raw // sorted distinct values
	Indices *dense.Raw // first flat occurrence of each value, Int64
	Inverse *dense.Raw // per input element, its position in Values, Int64
	Counts  *dense.Raw // occurrences of each value, Int64
}

// Unique computes the sorted distinct values of a, the first occurrence
// index of each, the inverse mapping and the occurrence counts, in one
// sort-based pass.
func Unique(a *dense.Raw) UniqueResult {
	n := a.Len()
	order := make([]int64, n)
	for i := range order {
		order[i] = int64(i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return Less(a, int(order[i]), int(order[j]))
	})

	// Group runs of the same value in sorted order. Stability means the
	// first element of each run is the earliest occurrence in the input.
	var firsts []int64
	var counts []int64
	inverse := make([]int64, n)
	for k := 0; k < n; k++ {
		i := int(order[k])
		if len(firsts) == 0 || !SameValue(a, i, a, int(firsts[len(firsts)-1])) {
			firsts = append(firsts, int64(i))
			counts = append(counts, 0)
		}
		counts[len(counts)-1]++
		inverse[i] = int64(len(firsts) - 1)
	}

	values := Gather(a, firsts)
	return UniqueResult{
		Values:  values,
		Indices: dense.FromSlice(firsts, a.Device()),
		Inverse: dense.FromSlice(inverse, a.Device()),
		Counts:  dense.FromSlice(counts, a.Device()),
	}
}
