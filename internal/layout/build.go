package layout

import (
	"fmt"
	"reflect"

	"github.com/ragged-data/ragged/internal/dense"
)

// probe is the result of the first pass over nested Go data: the nesting
// depth and the combined element type.
type probe struct {
	depth    int
	hasDepth bool
	dtype    dense.DataType
	hasDType bool
	leng     int
}

// FromGo converts arbitrarily nested Go slices into a layout. Leaves of a
// nested structure must all sit at the same depth; scalars and lists cannot
// mix at one level. Numeric Go scalars map to the widest dtype of their
// kind: int to int64, uint to uint64, float64 to float64, complex128 to
// complex128, bool to bool. Typed slices such as []float32 keep their
// element type. Mixed leaf types promote.
func FromGo(value any, device dense.Device) (Content, *dense.Raw, error) {
	v := reflect.ValueOf(value)
	p := probe{}
	if err := probeValue(v, 0, &p); err != nil {
		return nil, nil, err
	}
	if !p.hasDType {
		// No scalar anywhere: an empty nest defaults to float64.
		p.dtype = dense.Float64
		p.hasDType = true
	}

	if p.depth == 0 {
		// A bare scalar has no layout; return the one-element buffer.
		raw := dense.NewRaw(1, p.dtype, device)
		if err := storeScalar(raw, 0, v); err != nil {
			return nil, nil, err
		}
		return nil, raw, nil
	}

	// Count values per level, then fill offsets and the leaf.
	counts := make([]int, p.depth+1)
	countValues(v, 0, counts)
	offsetLevels := make([][]int64, p.depth-1)
	for i := range offsetLevels {
		offsetLevels[i] = make([]int64, 1, counts[i+1]+1)
	}
	leaf := dense.NewRaw(counts[p.depth], p.dtype, device)
	fill := &filler{offsets: offsetLevels, leaf: leaf}
	if err := fill.walk(v, 0, p.depth); err != nil {
		return nil, nil, err
	}

	var c Content = &Leaf{Data: leaf}
	for i := len(offsetLevels) - 1; i >= 0; i-- {
		c = &ListOffset{Offsets: offsetLevels[i], Child: c}
	}
	return c, nil, nil
}

func probeValue(v reflect.Value, depth int, p *probe) error {
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return fmt.Errorf("cannot convert nil value")
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			// An empty list pins no depth below its own level.
			if p.hasDepth && p.depth <= depth {
				return fmt.Errorf("cannot mix scalars and lists at depth %d", depth)
			}
			if !p.hasDepth {
				p.depth = depth + 1
				p.hasDepth = true
			}
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if err := probeValue(v.Index(i), depth+1, p); err != nil {
				return err
			}
		}
		return nil
	default:
		dt, err := scalarDType(v)
		if err != nil {
			return err
		}
		if p.hasDepth && p.depth != depth {
			return fmt.Errorf("cannot mix scalars and lists at depth %d", depth)
		}
		p.depth = depth
		p.hasDepth = true
		if p.hasDType {
			p.dtype = dense.Promote(p.dtype, dt)
		} else {
			p.dtype = dt
			p.hasDType = true
		}
		return nil
	}
}

func countValues(v reflect.Value, depth int, counts []int) {
	for v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		counts[depth]++
		for i := 0; i < v.Len(); i++ {
			countValues(v.Index(i), depth+1, counts)
		}
	default:
		counts[depth]++
	}
}

type filler struct {
	offsets [][]int64
	leaf    *dense.Raw
	next    int
}

func (f *filler) walk(v reflect.Value, depth, leafDepth int) error {
	for v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if depth == leafDepth {
		if err := storeScalar(f.leaf, f.next, v); err != nil {
			return err
		}
		f.next++
		return nil
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return fmt.Errorf("cannot mix scalars and lists at depth %d", depth)
	}
	for i := 0; i < v.Len(); i++ {
		if err := f.walk(v.Index(i), depth+1, leafDepth); err != nil {
			return err
		}
	}
	// Finishing a list at depth d closes one span of the node above it.
	if depth >= 1 {
		var end int64
		if depth == leafDepth-1 {
			end = int64(f.next)
		} else {
			end = int64(len(f.offsets[depth]) - 1)
		}
		f.offsets[depth-1] = append(f.offsets[depth-1], end)
	}
	return nil
}

func scalarDType(v reflect.Value) (dense.DataType, error) {
	switch v.Kind() {
	case reflect.Bool:
		return dense.Bool, nil
	case reflect.Int8:
		return dense.Int8, nil
	case reflect.Int16:
		return dense.Int16, nil
	case reflect.Int32:
		return dense.Int32, nil
	case reflect.Int, reflect.Int64:
		return dense.Int64, nil
	case reflect.Uint8:
		return dense.Uint8, nil
	case reflect.Uint16:
		return dense.Uint16, nil
	case reflect.Uint32:
		return dense.Uint32, nil
	case reflect.Uint, reflect.Uint64:
		return dense.Uint64, nil
	case reflect.Float32:
		return dense.Float32, nil
	case reflect.Float64:
		return dense.Float64, nil
	case reflect.Complex64:
		return dense.Complex64, nil
	case reflect.Complex128:
		return dense.Complex128, nil
	default:
		return dense.Bool, fmt.Errorf("cannot convert %s to an array element", v.Kind())
	}
}

func storeScalar(raw *dense.Raw, at int, v reflect.Value) error {
	for v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Bool:
		raw.SetBool(at, v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		raw.SetInt64(at, v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		raw.SetUint64(at, v.Uint())
	case reflect.Float32, reflect.Float64:
		raw.SetFloat64(at, v.Float())
	case reflect.Complex64, reflect.Complex128:
		raw.SetComplex128(at, v.Complex())
	default:
		return fmt.Errorf("cannot convert %s to an array element", v.Kind())
	}
	return nil
}

// ToGo converts a layout back to nested []any slices with elements of the
// leaf's natural Go type.
func ToGo(c Content) any {
	switch n := c.(type) {
	case *Leaf:
		out := make([]any, n.Data.Len())
		for i := range out {
			out[i] = n.Data.Get(i)
		}
		return out
	case *ListOffset, *Regular:
		ls := c.(lister)
		inner := ToGo(ls.child()).([]any)
		out := make([]any, ls.Length())
		for i := range out {
			start, length := ls.sublist(i)
			out[i] = append(make([]any, 0, length), inner[start:start+length]...)
		}
		return out
	default:
		panic(fmt.Sprintf("layout: unknown node %T", c))
	}
}

// Lengths returns the length of every list at one level of the tree.
// depth 0 is the tree's own top level.
func Lengths(c Content, depth int) ([]int, error) {
	if depth > 0 {
		ls, ok := c.(lister)
		if !ok {
			return nil, fmt.Errorf("no list dimension at depth %d", depth)
		}
		return Lengths(ls.child(), depth-1)
	}
	ls, ok := c.(lister)
	if !ok {
		return nil, fmt.Errorf("no list dimension at depth %d", depth)
	}
	out := make([]int, ls.Length())
	for i := range out {
		_, out[i] = ls.sublist(i)
	}
	return out, nil
}

// MatrixRows returns, per innermost matrix block, its number of rows. A
// block is a list at the second-deepest level; for a rank-2 layout the
// whole array is the single block.
func MatrixRows(c Content) []int {
	r := Rank(c)
	if r < 2 {
		return nil
	}
	if r == 2 {
		return []int{c.Length()}
	}
	rows, err := Lengths(c, r-3)
	if err != nil {
		panic(err)
	}
	return rows
}

// InnermostOffsets returns offsets delimiting the innermost lists over the
// leaf, synthesizing them for Regular dimensions. For a rank-1 layout the
// single span covers the whole leaf.
func InnermostOffsets(c Content) []int64 {
	switch n := c.(type) {
	case *Leaf:
		return []int64{0, int64(n.Data.Len())}
	case *ListOffset:
		if _, ok := n.Child.(*Leaf); ok {
			return n.Offsets
		}
		return InnermostOffsets(n.Child)
	case *Regular:
		if _, ok := n.Child.(*Leaf); ok {
			offsets := make([]int64, n.Len+1)
			for i := range offsets {
				offsets[i] = int64(i * n.Size)
			}
			return offsets
		}
		return InnermostOffsets(n.Child)
	default:
		panic(fmt.Sprintf("layout: unknown node %T", c))
	}
}

// DropInnermost replaces the innermost list dimension with a substitute
// leaf holding one element per innermost list. Reductions along the last
// axis use it to keep the outer structure.
func DropInnermost(c Content, leaf *dense.Raw) Content {
	switch n := c.(type) {
	case *ListOffset:
		if _, ok := n.Child.(*Leaf); ok {
			if leaf.Len() != n.Length() {
				panic(fmt.Sprintf("layout: substitute leaf %d for %d lists", leaf.Len(), n.Length()))
			}
			return &Leaf{Data: leaf}
		}
		return &ListOffset{Offsets: n.Offsets, Child: DropInnermost(n.Child, leaf)}
	case *Regular:
		if _, ok := n.Child.(*Leaf); ok {
			if leaf.Len() != n.Len {
				panic(fmt.Sprintf("layout: substitute leaf %d for %d lists", leaf.Len(), n.Len))
			}
			return &Leaf{Data: leaf}
		}
		return &Regular{Size: n.Size, Len: n.Len, Child: DropInnermost(n.Child, leaf)}
	default:
		panic(fmt.Sprintf("layout: cannot drop the only dimension of %T", c))
	}
}
