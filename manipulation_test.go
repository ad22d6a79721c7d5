// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ragged_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragged-data/ragged"
)

func TestConcatAxis0(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0}, []any{}})
	y := mustAsarray(t, []any{[]any{3.0}})

	z, err := ragged.Concat([]*ragged.Array{x, y}, 0)
	require.NoError(t, err)
	assert.Equal(t, l(l(1.0, 2.0), l(), l(3.0)), z.ToList())
}

func TestConcatInnerAxis(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0}, []any{3.0}})
	y := mustAsarray(t, []any{[]any{10.0}, []any{20.0, 30.0}})

	z, err := ragged.Concat([]*ragged.Array{x, y}, 1)
	require.NoError(t, err)
	assert.Equal(t, l(l(1.0, 2.0, 10.0), l(3.0, 20.0, 30.0)), z.ToList())
}

func TestConcatPromotesDType(t *testing.T) {
	x := mustAsarray(t, []any{1, 2})
	y := mustAsarray(t, []any{3.5})

	z, err := ragged.Concat([]*ragged.Array{x, y}, 0)
	require.NoError(t, err)
	assert.Equal(t, ragged.Float64, z.DType())
	assert.Equal(t, l(1.0, 2.0, 3.5), z.ToList())
}

func TestConcatScalarRejected(t *testing.T) {
	s := mustAsarray(t, 1.0)
	_, err := ragged.Concat([]*ragged.Array{s, s}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zero-dimensional")
}

func TestConcatFlat(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0}, []any{3.0}})
	y := mustAsarray(t, []any{4.0})

	z, err := ragged.ConcatFlat([]*ragged.Array{x, y})
	require.NoError(t, err)
	assert.Equal(t, 1, z.NDim())
	assert.Equal(t, l(1.0, 2.0, 3.0, 4.0), z.ToList())
}

func TestStack(t *testing.T) {
	x := mustAsarray(t, []any{1.0, 2.0})
	y := mustAsarray(t, []any{3.0, 4.0})

	z, err := ragged.Stack([]*ragged.Array{x, y}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, z.NDim())
	assert.Equal(t, l(l(1.0, 2.0), l(3.0, 4.0)), z.ToList())

	z, err = ragged.Stack([]*ragged.Array{x, y}, 1)
	require.NoError(t, err)
	assert.Equal(t, l(l(1.0, 3.0), l(2.0, 4.0)), z.ToList())
}

func TestExpandDims(t *testing.T) {
	x := mustAsarray(t, []any{1.0, 2.0})

	z, err := ragged.ExpandDims(x, 0)
	require.NoError(t, err)
	assert.Equal(t, l(l(1.0, 2.0)), z.ToList())

	z, err = ragged.ExpandDims(x, 1)
	require.NoError(t, err)
	assert.Equal(t, l(l(1.0), l(2.0)), z.ToList())

	s := mustAsarray(t, 5.0)
	z, err = ragged.ExpandDims(s, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, z.NDim())
	assert.Equal(t, l(5.0), z.ToList())
}

func TestSqueeze(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0}})

	z, err := ragged.Squeeze(x, 0)
	require.NoError(t, err)
	assert.Equal(t, l(1.0, 2.0), z.ToList())

	one := mustAsarray(t, []any{7.0})
	s, err := ragged.Squeeze(one, 0)
	require.NoError(t, err)
	assert.True(t, s.IsScalar())
	assert.Equal(t, 7.0, s.ToList())

	// A non-unit axis cannot be squeezed.
	_, err = ragged.Squeeze(mustAsarray(t, []any{1.0, 2.0}), 0)
	assert.Error(t, err)
}

func TestFlip(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0, 3.0}, []any{4.0, 5.0}})

	z, err := ragged.Flip(x, 0)
	require.NoError(t, err)
	assert.Equal(t, l(l(4.0, 5.0), l(1.0, 2.0, 3.0)), z.ToList())

	z, err = ragged.Flip(x, 1)
	require.NoError(t, err)
	assert.Equal(t, l(l(3.0, 2.0, 1.0), l(5.0, 4.0)), z.ToList())

	z, err = ragged.Flip(x)
	require.NoError(t, err)
	assert.Equal(t, l(l(5.0, 4.0), l(3.0, 2.0, 1.0)), z.ToList())
}

func TestRollFlat(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0, 3.0}, []any{4.0, 5.0}})

	z, err := ragged.Roll(x, 2)
	require.NoError(t, err)
	assert.Equal(t, l(l(4.0, 5.0, 1.0), l(2.0, 3.0)), z.ToList())

	z, err = ragged.Roll(x, -1)
	require.NoError(t, err)
	assert.Equal(t, l(l(2.0, 3.0, 4.0), l(5.0, 1.0)), z.ToList())

	z, err = ragged.Roll(x, 0)
	require.NoError(t, err)
	assert.Equal(t, x.ToList(), z.ToList())
}

func TestRollAxis(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0, 3.0}, []any{4.0, 5.0}})

	z, err := ragged.Roll(x, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, l(l(3.0, 1.0, 2.0), l(5.0, 4.0)), z.ToList())

	z, err = ragged.Roll(x, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, l(l(4.0, 5.0), l(1.0, 2.0, 3.0)), z.ToList())
}

func TestBroadcastArrays(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0, 3.0}, []any{4.0}})
	y := mustAsarray(t, []any{[]any{10.0}, []any{20.0}})
	s := mustAsarray(t, 5.0)

	out, err := ragged.BroadcastArrays(x, y, s)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, l(l(1.0, 2.0, 3.0), l(4.0)), out[0].ToList())
	assert.Equal(t, l(l(10.0, 10.0, 10.0), l(20.0)), out[1].ToList())
	assert.Equal(t, l(l(5.0, 5.0, 5.0), l(5.0)), out[2].ToList())
}

func TestBroadcastTo(t *testing.T) {
	x := mustAsarray(t, []any{1.0, 2.0, 3.0})
	z, err := ragged.BroadcastTo(x, []int{2, 3})
	require.NoError(t, err)
	assert.Equal(t, l(l(1.0, 2.0, 3.0), l(1.0, 2.0, 3.0)), z.ToList())

	_, err = ragged.BroadcastTo(x, []int{2, 4})
	assert.Error(t, err)
}

func TestPermuteDimsNotImplemented(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0}})
	_, err := ragged.PermuteDims(x, 1, 0)
	assert.ErrorIs(t, err, ragged.ErrNotImplemented)

	_, err = ragged.Reshape(x, []int{1})
	assert.ErrorIs(t, err, ragged.ErrNotImplemented)
}
