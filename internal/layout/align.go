package layout

import (
	"fmt"

	"github.com/ragged-data/ragged/internal/dense"

	"github.com/ragged-data/ragged/internal/backend/cpu"
)

// Aligned is the result of broadcasting two layouts to a common structure:
// a skeleton builder plus the two gathered flat buffers, each as long as
// the skeleton's leaf.
type Aligned struct {
	Wrap func(leaf *dense.Raw) Content
	A    *dense.Raw
	B    *dense.Raw
}

// Align broadcasts two layouts to their common structure. Dimensions match
// from the left: a lower-rank operand's elements repeat across the deeper
// lists of the other, and length-1 lists stretch against any length.
func Align(a, b Content) (Aligned, error) {
	selA := iota64(a.Length())
	selB := iota64(b.Length())
	switch {
	case a.Length() == b.Length():
	case a.Length() == 1:
		selA = repeat64(0, b.Length())
	case b.Length() == 1:
		selB = repeat64(0, a.Length())
	default:
		return Aligned{}, fmt.Errorf("cannot broadcast lengths %d and %d", a.Length(), b.Length())
	}
	wrap, idxA, idxB, err := alignRec(a, selA, b, selB)
	if err != nil {
		return Aligned{}, err
	}
	return Aligned{
		Wrap: wrap,
		A:    cpu.Gather(LeafOf(a), idxA),
		B:    cpu.Gather(LeafOf(b), idxB),
	}, nil
}

// alignRec walks one level. selA and selB are parallel element selections
// into a and b; the returned selections at the leaf level are full gather
// indices in result order.
func alignRec(a Content, selA []int64, b Content, selB []int64) (func(*dense.Raw) Content, []int64, []int64, error) {
	_, aLeaf := a.(*Leaf)
	_, bLeaf := b.(*Leaf)

	switch {
	case aLeaf && bLeaf:
		return func(leaf *dense.Raw) Content { return &Leaf{Data: leaf} }, selA, selB, nil

	case aLeaf:
		// a has run out of dimensions: repeat its elements across b's lists.
		ls := b.(lister)
		offsets := make([]int64, 1, len(selB)+1)
		var childA, childB []int64
		for i := range selB {
			start, length := ls.sublist(int(selB[i]))
			for k := 0; k < length; k++ {
				childA = append(childA, selA[i])
				childB = append(childB, int64(start+k))
			}
			offsets = append(offsets, offsets[len(offsets)-1]+int64(length))
		}
		wrapChild, idxA, idxB, err := alignRec(a, childA, ls.child(), childB)
		if err != nil {
			return nil, nil, nil, err
		}
		return wrapList(b, nil, offsets, len(selB), wrapChild), idxA, idxB, nil

	case bLeaf:
		ls := a.(lister)
		offsets := make([]int64, 1, len(selA)+1)
		var childA, childB []int64
		for i := range selA {
			start, length := ls.sublist(int(selA[i]))
			for k := 0; k < length; k++ {
				childA = append(childA, int64(start+k))
				childB = append(childB, selB[i])
			}
			offsets = append(offsets, offsets[len(offsets)-1]+int64(length))
		}
		wrapChild, idxA, idxB, err := alignRec(ls.child(), childA, b, childB)
		if err != nil {
			return nil, nil, nil, err
		}
		return wrapList(a, nil, offsets, len(selA), wrapChild), idxA, idxB, nil

	default:
		lsA := a.(lister)
		lsB := b.(lister)
		stretchA := sizeOneDim(a)
		stretchB := sizeOneDim(b)
		offsets := make([]int64, 1, len(selA)+1)
		var childA, childB []int64
		for i := range selA {
			startA, lenA := lsA.sublist(int(selA[i]))
			startB, lenB := lsB.sublist(int(selB[i]))
			length := lenA
			switch {
			case lenA == lenB:
			case stretchA:
				length = lenB
			case stretchB:
			default:
				return nil, nil, nil, fmt.Errorf("cannot broadcast lists of lengths %d and %d", lenA, lenB)
			}
			for k := 0; k < length; k++ {
				ka, kb := k, k
				if lenA == 1 {
					ka = 0
				}
				if lenB == 1 {
					kb = 0
				}
				childA = append(childA, int64(startA+ka))
				childB = append(childB, int64(startB+kb))
			}
			offsets = append(offsets, offsets[len(offsets)-1]+int64(length))
		}
		wrapChild, idxA, idxB, err := alignRec(lsA.child(), childA, lsB.child(), childB)
		if err != nil {
			return nil, nil, nil, err
		}
		return wrapList(a, b, offsets, len(selA), wrapChild), idxA, idxB, nil
	}
}

// wrapList builds the skeleton node for one aligned level. The level stays
// Regular only when every contributing side was Regular, with size-1 sides
// stretching; any other combination becomes a ListOffset.
func wrapList(a, b Content, offsets []int64, n int, wrapChild func(*dense.Raw) Content) func(*dense.Raw) Content {
	sa, aReg := regularSize(a)
	sb, bReg := regularSize(b)
	size, regular := 0, false
	switch {
	case aReg && b == nil:
		size, regular = sa, true
	case bReg && a == nil:
		size, regular = sb, true
	case aReg && bReg && sa == sb:
		size, regular = sa, true
	case aReg && bReg && sa == 1:
		size, regular = sb, true
	case aReg && bReg && sb == 1:
		size, regular = sa, true
	}
	if regular {
		return func(leaf *dense.Raw) Content {
			return &Regular{Size: size, Len: n, Child: wrapChild(leaf)}
		}
	}
	return func(leaf *dense.Raw) Content {
		return &ListOffset{Offsets: offsets, Child: wrapChild(leaf)}
	}
}

// sizeOneDim reports whether the level's dimension is a size-1 dimension,
// so its single element stretches against lists of any length. Individual
// length-1 lists inside a variable dimension do not stretch.
func sizeOneDim(c Content) bool {
	switch n := c.(type) {
	case *Regular:
		return n.Size == 1
	case *ListOffset:
		s, ok := n.uniformSize()
		return ok && s == 1
	}
	return false
}

func regularSize(c Content) (int, bool) {
	r, ok := c.(*Regular)
	if !ok {
		return 0, false
	}
	return r.Size, true
}

func iota64(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i)
	}
	return out
}

func repeat64(v int64, n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
