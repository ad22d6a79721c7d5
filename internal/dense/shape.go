package dense

import (
	"fmt"
	"strings"
)

// RaggedDim marks a dimension whose extent varies per list. It only ever
// appears in dimensions after the first.
const RaggedDim = -1

// Shape describes array dimensions. An empty shape is a scalar. A RaggedDim
// entry means the dimension has no single extent.
type Shape []int

// Rank returns the number of dimensions.
func (s Shape) Rank() int { return len(s) }

// IsScalar reports whether the shape describes a zero-dimensional array.
func (s Shape) IsScalar() bool { return len(s) == 0 }

// IsRegular reports whether no dimension is ragged.
func (s Shape) IsRegular() bool {
	for _, d := range s {
		if d == RaggedDim {
			return false
		}
	}
	return true
}

// NumElements returns the total element count, or -1 when any dimension is
// ragged. A scalar has one element.
func (s Shape) NumElements() int {
	n := 1
	for _, d := range s {
		if d == RaggedDim {
			return -1
		}
		n *= d
	}
	return n
}

// Validate checks that every dimension is non-negative or RaggedDim, and
// that RaggedDim never appears in the leading dimension.
func (s Shape) Validate() error {
	for i, d := range s {
		if d == RaggedDim {
			if i == 0 {
				return fmt.Errorf("shape %v: leading dimension cannot be ragged", s)
			}
			continue
		}
		if d < 0 {
			return fmt.Errorf("shape %v: negative dimension %d at axis %d", s, d, i)
		}
	}
	return nil
}

// Equal reports whether two shapes are identical, ragged markers included.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// String renders the shape with ragged dimensions shown as "?".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		if d == RaggedDim {
			parts[i] = "?"
		} else {
			parts[i] = fmt.Sprintf("%d", d)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// BroadcastShapes applies the standard broadcasting rules to two regular
// shapes, reporting whether any stretching is needed. Ragged dimensions do
// not broadcast here; list-level alignment handles those.
func BroadcastShapes(a, b Shape) (Shape, bool, error) {
	la, lb := len(a), len(b)
	n := maxInt(la, lb)
	out := make(Shape, n)
	needs := la != lb
	for i := 0; i < n; i++ {
		da, db := 1, 1
		if i >= n-la {
			da = a[i-(n-la)]
		}
		if i >= n-lb {
			db = b[i-(n-lb)]
		}
		switch {
		case da == db:
			out[i] = da
		case da == 1:
			out[i] = db
			needs = true
		case db == 1:
			out[i] = da
			needs = true
		default:
			return nil, false, fmt.Errorf("cannot broadcast shapes %v and %v", a, b)
		}
	}
	return out, needs, nil
}
