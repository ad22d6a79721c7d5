package layout

import (
	"fmt"

	"github.com/ragged-data/ragged/internal/backend/cpu"
)

// GatherElements selects top-level elements of a layout by index, in index
// order. Indices must be in range; the caller normalizes negatives.
func GatherElements(c Content, idx []int64) Content {
	switch n := c.(type) {
	case *Leaf:
		return &Leaf{Data: cpu.Gather(n.Data, idx)}
	case *ListOffset, *Regular:
		ls := c.(lister)
		offsets := make([]int64, 1, len(idx)+1)
		var childIdx []int64
		for _, i := range idx {
			start, length := ls.sublist(int(i))
			for k := 0; k < length; k++ {
				childIdx = append(childIdx, int64(start+k))
			}
			offsets = append(offsets, offsets[len(offsets)-1]+int64(length))
		}
		child := GatherElements(ls.child(), childIdx)
		if r, ok := c.(*Regular); ok {
			return &Regular{Size: r.Size, Len: len(idx), Child: child}
		}
		return &ListOffset{Offsets: offsets, Child: child}
	default:
		panic(fmt.Sprintf("layout: unknown node %T", c))
	}
}

// TransformLists rewrites the lists of one dimension. At the target depth,
// f maps each list's length to the local indices the new list keeps, in
// order. Levels above the target keep their structure; list lengths at the
// target change to match f's output.
func TransformLists(c Content, depth int, f func(length int) ([]int64, error)) (Content, error) {
	if depth == 0 {
		ls, ok := c.(lister)
		if !ok {
			// Depth 0 on a rank-1 layout transforms the flat elements.
			leaf := c.(*Leaf)
			local, err := f(leaf.Data.Len())
			if err != nil {
				return nil, err
			}
			return &Leaf{Data: cpu.Gather(leaf.Data, local)}, nil
		}
		offsets := make([]int64, 1, ls.Length()+1)
		var childIdx []int64
		uniform, size := true, -1
		for i := 0; i < ls.Length(); i++ {
			start, length := ls.sublist(i)
			local, err := f(length)
			if err != nil {
				return nil, err
			}
			for _, k := range local {
				if k < 0 || int(k) >= length {
					return nil, fmt.Errorf("index %d out of range for list of length %d", k, length)
				}
				childIdx = append(childIdx, int64(start)+k)
			}
			if size == -1 {
				size = len(local)
			} else if size != len(local) {
				uniform = false
			}
			offsets = append(offsets, offsets[len(offsets)-1]+int64(len(local)))
		}
		child := GatherElements(ls.child(), childIdx)
		if r, ok := c.(*Regular); ok && uniform {
			return &Regular{Size: maxOf(size, 0), Len: r.Len, Child: child}, nil
		}
		return &ListOffset{Offsets: offsets, Child: child}, nil
	}

	ls, ok := c.(lister)
	if !ok {
		return nil, fmt.Errorf("no list dimension at depth %d", depth)
	}
	child, err := TransformLists(ls.child(), depth-1, f)
	if err != nil {
		return nil, err
	}
	if r, ok := c.(*Regular); ok {
		return &Regular{Size: r.Size, Len: r.Len, Child: child}, nil
	}
	lo := c.(*ListOffset)
	// The number of lists at the child's top level is unchanged, so this
	// node's offsets stay valid.
	return &ListOffset{Offsets: lo.Offsets, Child: child}, nil
}

// PermuteWithin permutes elements inside each list of one dimension without
// changing any list length. Used by flip and roll along an axis.
func PermuteWithin(c Content, depth int, f func(length int) []int64) (Content, error) {
	return TransformLists(c, depth, func(length int) ([]int64, error) {
		perm := f(length)
		if len(perm) != length {
			panic("layout: permutation changes list length")
		}
		return perm, nil
	})
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}
