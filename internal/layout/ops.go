package layout

import (
	"fmt"

	"github.com/ragged-data/ragged/internal/backend/cpu"
	"github.com/ragged-data/ragged/internal/dense"
)

// Concat joins layouts end to end along the leading dimension. All inputs
// must already share a dtype and rank; the caller promotes first.
func Concat(parts []Content) (Content, error) {
	if len(parts) == 1 {
		return parts[0], nil
	}
	allLeaves := true
	for _, p := range parts {
		if _, ok := p.(*Leaf); !ok {
			allLeaves = false
		}
	}
	if allLeaves {
		raws := make([]*dense.Raw, len(parts))
		for i, p := range parts {
			raws[i] = p.(*Leaf).Data
		}
		return &Leaf{Data: cpu.Concat(raws)}, nil
	}

	// Merge list levels: shift each part's offsets by the elements already
	// consumed, then concatenate the children.
	offsets := []int64{0}
	children := make([]Content, len(parts))
	for i, p := range parts {
		ls, ok := p.(lister)
		if !ok {
			return nil, fmt.Errorf("rank mismatch in concatenation")
		}
		for j := 0; j < ls.Length(); j++ {
			_, length := ls.sublist(j)
			offsets = append(offsets, offsets[len(offsets)-1]+int64(length))
		}
		children[i] = ls.child()
	}
	child, err := Concat(children)
	if err != nil {
		return nil, err
	}
	return &ListOffset{Offsets: offsets, Child: child}, nil
}

// ConcatAt joins layouts along an inner dimension: each list at the target
// depth is the concatenation of the corresponding lists of every part.
// The parts must agree on every list length above the target depth.
func ConcatAt(parts []Content, depth int) (Content, error) {
	if depth == 0 {
		return Concat(parts)
	}
	listers := make([]lister, len(parts))
	n := -1
	for i, p := range parts {
		ls, ok := p.(lister)
		if !ok {
			return nil, fmt.Errorf("rank mismatch in concatenation")
		}
		if n == -1 {
			n = ls.Length()
		} else if ls.Length() != n {
			return nil, fmt.Errorf("list lengths differ at concatenation depth: %d vs %d", n, ls.Length())
		}
		listers[i] = ls
	}

	if depth == 1 {
		// Interleave: result list i is part0[i] ++ part1[i] ++ ...
		offsets := make([]int64, 1, n+1)
		// Build per-part element index lists in result order.
		idx := make([][]int64, len(parts))
		order := make([]int, 0, n*len(parts))
		for i := 0; i < n; i++ {
			total := int64(0)
			for pi, ls := range listers {
				start, length := ls.sublist(i)
				for k := 0; k < length; k++ {
					idx[pi] = append(idx[pi], int64(start+k))
					order = append(order, pi)
				}
				total += int64(length)
			}
			offsets = append(offsets, offsets[len(offsets)-1]+total)
		}
		// Gather each child in its own order, then merge in result order.
		gatheredChildren := make([]Content, len(parts))
		for pi := range parts {
			gatheredChildren[pi] = GatherElements(listers[pi].child(), idx[pi])
		}
		merged, err := interleave(gatheredChildren, order)
		if err != nil {
			return nil, err
		}
		return &ListOffset{Offsets: offsets, Child: merged}, nil
	}

	children := make([]Content, len(parts))
	for i, ls := range listers {
		children[i] = ls.child()
	}
	child, err := ConcatAt(children, depth-1)
	if err != nil {
		return nil, err
	}
	first := parts[0]
	if r, ok := first.(*Regular); ok {
		return &Regular{Size: r.Size, Len: r.Len, Child: child}, nil
	}
	lo := first.(*ListOffset)
	return &ListOffset{Offsets: lo.Offsets, Child: child}, nil
}

// interleave merges pre-gathered children element by element following
// order, which names the part each successive result element comes from.
func interleave(parts []Content, order []int) (Content, error) {
	concat, err := Concat(parts)
	if err != nil {
		return nil, err
	}
	// Positions of each part's elements inside the plain concatenation.
	base := make([]int64, len(parts))
	for i := 1; i < len(parts); i++ {
		base[i] = base[i-1] + int64(parts[i-1].Length())
	}
	next := make([]int64, len(parts))
	idx := make([]int64, len(order))
	for i, pi := range order {
		idx[i] = base[pi] + next[pi]
		next[pi]++
	}
	return GatherElements(concat, idx), nil
}

// ExpandDims inserts a length-1 regular dimension at the given depth.
func ExpandDims(c Content, depth int) (Content, error) {
	if depth == 0 {
		return &Regular{Size: c.Length(), Len: 1, Child: c}, nil
	}
	ls, ok := c.(lister)
	if !ok {
		// Inserting after the last dimension wraps each element.
		leaf := c.(*Leaf)
		if depth > 1 {
			return nil, fmt.Errorf("no dimension at depth %d", depth)
		}
		return &Regular{Size: 1, Len: leaf.Data.Len(), Child: leaf}, nil
	}
	child, err := ExpandDims(ls.child(), depth-1)
	if err != nil {
		return nil, err
	}
	if r, ok := c.(*Regular); ok {
		return &Regular{Size: r.Size, Len: r.Len, Child: child}, nil
	}
	lo := c.(*ListOffset)
	return &ListOffset{Offsets: lo.Offsets, Child: child}, nil
}

// SqueezeDim removes a dimension whose extent is 1 everywhere.
func SqueezeDim(c Content, depth int) (Content, error) {
	if depth == 0 {
		ls, ok := c.(lister)
		if !ok {
			return nil, fmt.Errorf("no dimension at depth %d", depth)
		}
		if ls.Length() != 1 {
			return nil, fmt.Errorf("cannot squeeze dimension of length %d", ls.Length())
		}
		return ls.child(), nil
	}
	if depth == 1 {
		ls, ok := c.(lister)
		if !ok {
			return nil, fmt.Errorf("no dimension at depth %d", depth)
		}
		for i := 0; i < ls.Length(); i++ {
			if _, length := ls.sublist(i); length != 1 {
				return nil, fmt.Errorf("cannot squeeze dimension with list of length %d", length)
			}
		}
		// Every list has one element, so the child's elements line up with
		// this level's lists one to one.
		return ls.child(), nil
	}
	ls, ok := c.(lister)
	if !ok {
		return nil, fmt.Errorf("no dimension at depth %d", depth)
	}
	child, err := SqueezeDim(ls.child(), depth-1)
	if err != nil {
		return nil, err
	}
	if r, ok := c.(*Regular); ok {
		return &Regular{Size: r.Size, Len: r.Len, Child: child}, nil
	}
	lo := c.(*ListOffset)
	return &ListOffset{Offsets: lo.Offsets, Child: child}, nil
}

// ToDevice re-homes the leaf and returns the same structure.
func ToDevice(c Content, dev dense.Device, rt dense.Runtime) (Content, error) {
	leaf, err := LeafOf(c).WithDevice(dev, rt)
	if err != nil {
		return nil, err
	}
	return WithLeaf(c, leaf), nil
}

// DeepCopy clones the structure and the leaf bytes.
func DeepCopy(c Content) Content {
	switch n := c.(type) {
	case *Leaf:
		return &Leaf{Data: n.Data.DeepClone()}
	case *ListOffset:
		return &ListOffset{Offsets: append([]int64(nil), n.Offsets...), Child: DeepCopy(n.Child)}
	case *Regular:
		return &Regular{Size: n.Size, Len: n.Len, Child: DeepCopy(n.Child)}
	default:
		panic(fmt.Sprintf("layout: unknown node %T", c))
	}
}

// Flatten merges the top two dimensions into one, the ravel of the outer
// lists.
func Flatten(c Content) (Content, error) {
	ls, ok := c.(lister)
	if !ok {
		return nil, fmt.Errorf("cannot flatten a one-dimensional layout")
	}
	return ls.child(), nil
}

// FlattenAll reduces any layout to its bare leaf.
func FlattenAll(c Content) *Leaf {
	return &Leaf{Data: LeafOf(c)}
}
