package layout

// ForEachElement visits every scalar element in row-major order, passing
// its full index path, one index per dimension. The path slice is reused
// between calls; callers copy it if they keep it.
func ForEachElement(c Content, fn func(path []int64)) {
	path := make([]int64, 0, Rank(c))
	walkElements(c, path, fn)
}

func walkElements(c Content, path []int64, fn func(path []int64)) {
	if leaf, ok := c.(*Leaf); ok {
		for i := 0; i < leaf.Data.Len(); i++ {
			fn(append(path, int64(i)))
		}
		return
	}
	ls := c.(lister)
	for i := 0; i < ls.Length(); i++ {
		start, length := ls.sublist(i)
		walkElements(sliceList(ls.child(), start, length), append(path, int64(i)), fn)
	}
}

// sliceList views a contiguous run of a layout's top-level elements.
func sliceList(c Content, start, length int) Content {
	switch n := c.(type) {
	case *Leaf:
		return &Leaf{Data: n.Data.Slice(start, start+length)}
	case *ListOffset:
		return &ListOffset{Offsets: n.Offsets[start : start+length+1], Child: n.Child}
	case *Regular:
		idx := make([]int64, length)
		for i := range idx {
			idx[i] = int64(start + i)
		}
		return GatherElements(c, idx)
	default:
		panic("layout: unknown node")
	}
}
