// Package layout implements the nested list structure behind ragged
// arrays. A layout is a tree of list nodes over a single flat leaf buffer:
// ListOffset nodes carry per-list offsets for variable-length dimensions,
// Regular nodes carry one fixed size, and the Leaf holds the numeric data
// in row-major order.
//
// Layouts are packed: offsets start at zero, are non-decreasing, and cover
// the child exactly. Every operation preserves this invariant.
package layout

import (
	"fmt"

	"github.com/ragged-data/ragged/internal/dense"
)

// Content is one level of a layout tree.
type Content interface {
	// Length returns the number of elements at this level.
	Length() int
	// Shape returns the dimensions from this level down. Variable-length
	// dimensions report dense.RaggedDim.
	Shape() dense.Shape
	// DType returns the element type of the underlying leaf.
	DType() dense.DataType
	// Device returns the device of the underlying leaf.
	Device() dense.Device
}

// lister is the common view of the two list node kinds.
type lister interface {
	Content
	sublist(i int) (start, length int)
	child() Content
}

// Leaf is the terminal level: a flat one-dimensional buffer.
type Leaf struct {
	Data *dense.Raw
}

// Length returns the number of elements.
func (l *Leaf) Length() int { return l.Data.Len() }

// Shape returns the single dimension.
func (l *Leaf) Shape() dense.Shape { return dense.Shape{l.Data.Len()} }

// DType returns the element type.
func (l *Leaf) DType() dense.DataType { return l.Data.DType() }

// Device returns the leaf's device.
func (l *Leaf) Device() dense.Device { return l.Data.Device() }

// ListOffset is a variable-length list dimension. Offsets has one more
// entry than the number of lists; list i spans Offsets[i]:Offsets[i+1] of
// the child.
type ListOffset struct {
	Offsets []int64
	Child   Content
}

// Length returns the number of lists.
func (l *ListOffset) Length() int { return len(l.Offsets) - 1 }

// Shape returns this dimension followed by the child's shape. The child's
// leading dimension is marked ragged unless every list happens to have the
// same length.
func (l *ListOffset) Shape() dense.Shape {
	inner := l.Child.Shape()
	out := make(dense.Shape, 0, len(inner)+1)
	out = append(out, l.Length())
	size := dense.RaggedDim
	if s, ok := l.uniformSize(); ok {
		size = s
	}
	out = append(out, resizeInner(inner, size)...)
	return out
}

// uniformSize returns the shared list length when every offset gap is the
// same. A node with no lists is vacuously uniform with size zero.
func (l *ListOffset) uniformSize() (int, bool) {
	n := l.Length()
	if n == 0 {
		return 0, true
	}
	size := l.Offsets[1] - l.Offsets[0]
	for i := 1; i < n; i++ {
		if l.Offsets[i+1]-l.Offsets[i] != size {
			return 0, false
		}
	}
	return int(size), true
}

// DType returns the element type of the underlying leaf.
func (l *ListOffset) DType() dense.DataType { return l.Child.DType() }

// Device returns the device of the underlying leaf.
func (l *ListOffset) Device() dense.Device { return l.Child.Device() }

func (l *ListOffset) sublist(i int) (int, int) {
	return int(l.Offsets[i]), int(l.Offsets[i+1] - l.Offsets[i])
}

func (l *ListOffset) child() Content { return l.Child }

// Regular is a fixed-size list dimension: Len lists of exactly Size
// elements each.
type Regular struct {
	Size  int
	Len   int
	Child Content
}

// Length returns the number of lists.
func (r *Regular) Length() int { return r.Len }

// Shape returns this dimension's size followed by the child's shape.
func (r *Regular) Shape() dense.Shape {
	inner := r.Child.Shape()
	out := make(dense.Shape, 0, len(inner)+1)
	out = append(out, r.Len)
	out = append(out, resizeInner(inner, r.Size)...)
	return out
}

// DType returns the element type of the underlying leaf.
func (r *Regular) DType() dense.DataType { return r.Child.DType() }

// Device returns the device of the underlying leaf.
func (r *Regular) Device() dense.Device { return r.Child.Device() }

func (r *Regular) sublist(i int) (int, int) {
	return i * r.Size, r.Size
}

func (r *Regular) child() Content { return r.Child }

// LeafOf descends to the flat buffer under a layout.
func LeafOf(c Content) *dense.Raw {
	for {
		switch n := c.(type) {
		case *Leaf:
			return n.Data
		case *ListOffset:
			c = n.Child
		case *Regular:
			c = n.Child
		default:
			panic(fmt.Sprintf("layout: unknown node %T", c))
		}
	}
}

// WithLeaf returns a layout with the same list structure over a new flat
// buffer. The buffer's length must match the old leaf's.
func WithLeaf(c Content, leaf *dense.Raw) Content {
	switch n := c.(type) {
	case *Leaf:
		if leaf.Len() != n.Data.Len() {
			panic(fmt.Sprintf("layout: leaf length %d does not match structure %d", leaf.Len(), n.Data.Len()))
		}
		return &Leaf{Data: leaf}
	case *ListOffset:
		return &ListOffset{Offsets: n.Offsets, Child: WithLeaf(n.Child, leaf)}
	case *Regular:
		return &Regular{Size: n.Size, Len: n.Len, Child: WithLeaf(n.Child, leaf)}
	default:
		panic(fmt.Sprintf("layout: unknown node %T", c))
	}
}

// Rank returns the number of dimensions.
func Rank(c Content) int {
	rank := 0
	for {
		switch n := c.(type) {
		case *Leaf:
			return rank + 1
		case *ListOffset:
			rank++
			c = n.Child
		case *Regular:
			rank++
			c = n.Child
		default:
			panic(fmt.Sprintf("layout: unknown node %T", c))
		}
	}
}

// Validate checks the packed invariants of the whole tree.
func Validate(c Content) error {
	switch n := c.(type) {
	case *Leaf:
		return nil
	case *ListOffset:
		if len(n.Offsets) == 0 {
			return fmt.Errorf("list offsets must have at least one entry")
		}
		if n.Offsets[0] != 0 {
			return fmt.Errorf("list offsets must start at zero, got %d", n.Offsets[0])
		}
		for i := 1; i < len(n.Offsets); i++ {
			if n.Offsets[i] < n.Offsets[i-1] {
				return fmt.Errorf("list offsets must be non-decreasing at %d", i)
			}
		}
		if int(n.Offsets[len(n.Offsets)-1]) != n.Child.Length() {
			return fmt.Errorf("list offsets cover %d of %d child elements",
				n.Offsets[len(n.Offsets)-1], n.Child.Length())
		}
		return Validate(n.Child)
	case *Regular:
		if n.Size < 0 {
			return fmt.Errorf("regular list size must be non-negative, got %d", n.Size)
		}
		if n.Size*n.Len != n.Child.Length() {
			return fmt.Errorf("regular list %dx%d does not cover %d child elements",
				n.Len, n.Size, n.Child.Length())
		}
		return Validate(n.Child)
	default:
		return fmt.Errorf("unknown node %T", c)
	}
}

// RegularShape returns the dense shape of a tree with no variable-length
// dimensions. Offset-encoded lists count as regular when every list has the
// same length. The leaf of such a tree is already in row-major order, so the
// pair (leaf, shape) is a dense array view.
func RegularShape(c Content) (dense.Shape, bool) {
	var shape dense.Shape
	for {
		switch n := c.(type) {
		case *Leaf:
			if len(shape) == 0 {
				return dense.Shape{n.Data.Len()}, true
			}
			return shape, true
		case *ListOffset:
			size, ok := n.uniformSize()
			if !ok {
				return nil, false
			}
			if len(shape) == 0 {
				shape = append(shape, n.Length())
			}
			shape = append(shape, size)
			c = n.Child
		case *Regular:
			if len(shape) == 0 {
				shape = append(shape, n.Len)
			}
			shape = append(shape, n.Size)
			c = n.Child
		default:
			panic(fmt.Sprintf("layout: unknown node %T", c))
		}
	}
}

// FromDense wraps a flat row-major buffer in Regular nodes matching shape.
// The shape must be regular and its element count must equal the buffer
// length.
func FromDense(leaf *dense.Raw, shape dense.Shape) Content {
	if len(shape) == 0 {
		panic("layout: dense scalar has no layout")
	}
	// Build bottom-up: the leaf is 1-D, each Regular wraps it.
	var c Content = &Leaf{Data: leaf}
	for i := len(shape) - 1; i >= 1; i-- {
		length := 1
		for j := 0; j < i; j++ {
			length *= shape[j]
		}
		c = &Regular{Size: shape[i], Len: length, Child: c}
	}
	return c
}

func resizeInner(inner dense.Shape, size int) dense.Shape {
	out := inner.Clone()
	out[0] = size
	return out
}
