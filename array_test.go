// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ragged_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragged-data/ragged"
)

func TestArrayShapeAndSize(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0, 3.0}, []any{}, []any{4.0}})

	assert.Equal(t, 2, x.NDim())
	assert.Equal(t, 4, x.Size())
	assert.Equal(t, ragged.Shape{3, ragged.RaggedDim}, x.Shape())

	n, err := x.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = mustAsarray(t, 1.0).Len()
	assert.Error(t, err)
}

func TestArrayItem(t *testing.T) {
	v, err := mustAsarray(t, 2.5).Item()
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	v, err = mustAsarray(t, []any{[]any{7}}).Item()
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	_, err = mustAsarray(t, []any{1.0, 2.0}).Item()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "size 2")
}

func TestArrayContains(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0}, []any{3.0}})

	ok, err := x.Contains(3.0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = x.Contains(9.0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestArrayClone(t *testing.T) {
	x := mustAsarray(t, []any{1.0, 2.0})
	y := x.Clone()
	assert.Equal(t, x.ToList(), y.ToList())
	assert.Equal(t, x.DType(), y.DType())
}

func TestArrayString(t *testing.T) {
	assert.Equal(t, "[[1, 2], [3]]", mustAsarray(t, []any{[]any{1, 2}, []any{3}}).String())
	assert.Equal(t, "3.5", mustAsarray(t, 3.5).String())
}

func TestArrayT(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0}, []any{3.0, 4.0}})
	z, err := x.T()
	require.NoError(t, err)
	assert.Equal(t, l(l(1.0, 3.0), l(2.0, 4.0)), z.ToList())
}

func TestConstants(t *testing.T) {
	assert.Equal(t, math.Pi, ragged.Pi)
	assert.Equal(t, math.E, ragged.E)
	assert.True(t, math.IsInf(ragged.Inf, 1))
	assert.True(t, math.IsNaN(ragged.NaN))
}

func TestDeviceCPU(t *testing.T) {
	x := mustAsarray(t, []any{1.0})
	assert.Equal(t, ragged.CPU, x.Device())

	same, err := x.ToDevice(ragged.CPU)
	require.NoError(t, err)
	assert.Equal(t, ragged.CPU, same.Device())
}
