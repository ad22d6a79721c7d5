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

func TestSumFlat(t *testing.T) {
	x := mustAsarray(t, []any{1.0, 2.0, 3.0})
	s, err := ragged.Sum(x)
	require.NoError(t, err)
	assert.True(t, s.IsScalar())
	assert.Equal(t, 6.0, s.ToList())
}

func TestSumInnermostAxis(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0, 3.0}, []any{}, []any{4.0, 5.0}})
	s, err := ragged.Sum(x, ragged.Along(1))
	require.NoError(t, err)
	assert.Equal(t, l(6.0, 0.0, 9.0), s.ToList())
}

func TestSumAxis0Regular(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0}, []any{3.0, 4.0}})
	s, err := ragged.Sum(x, ragged.Along(0))
	require.NoError(t, err)
	assert.Equal(t, l(4.0, 6.0), s.ToList())
}

func TestSumAxis0RaggedRejected(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0}, []any{3.0}})
	_, err := ragged.Sum(x, ragged.Along(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ragged")
}

func TestSumKeepDims(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0}, []any{3.0}})
	s, err := ragged.Sum(x, ragged.Along(1), ragged.KeepDims())
	require.NoError(t, err)
	assert.Equal(t, l(l(3.0), l(3.0)), s.ToList())
}

func TestSumDTypeRegularization(t *testing.T) {
	b := mustAsarray(t, []any{true, true, false})
	s, err := ragged.Sum(b)
	require.NoError(t, err)
	assert.Equal(t, ragged.Int64, s.DType())
	assert.Equal(t, int64(2), s.ToList())

	i32 := mustAsarray(t, []any{[]any{1, 2}}, ragged.WithDType(ragged.Int32))
	s, err = ragged.Sum(i32)
	require.NoError(t, err)
	assert.Equal(t, ragged.Int64, s.DType())

	f32 := mustAsarray(t, []any{1.5}, ragged.WithDType(ragged.Float32))
	s, err = ragged.Sum(f32)
	require.NoError(t, err)
	assert.Equal(t, ragged.Float64, s.DType())
}

func TestSumEmptyIsZero(t *testing.T) {
	x := mustAsarray(t, []any{}, ragged.WithDType(ragged.Float64))
	s, err := ragged.Sum(x)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.ToList())
}

func TestProd(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0, 3.0}, []any{}})
	p, err := ragged.Prod(x, ragged.Along(1))
	require.NoError(t, err)
	assert.Equal(t, l(6.0, 1.0), p.ToList())

	empty := mustAsarray(t, []any{}, ragged.WithDType(ragged.Float64))
	s, err := ragged.Prod(empty)
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.ToList())
}

func TestMinMax(t *testing.T) {
	x := mustAsarray(t, []any{[]any{3.0, 1.0, 2.0}, []any{5.0, 4.0}})

	mn, err := ragged.Min(x, ragged.Along(1))
	require.NoError(t, err)
	assert.Equal(t, l(1.0, 4.0), mn.ToList())

	mx, err := ragged.Max(x)
	require.NoError(t, err)
	assert.Equal(t, 5.0, mx.ToList())
}

func TestMean(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0, 3.0}, []any{10.0}})

	m, err := ragged.Mean(x, ragged.Along(1))
	require.NoError(t, err)
	assert.Equal(t, l(2.0, 10.0), m.ToList())

	flat, err := ragged.Mean(x)
	require.NoError(t, err)
	assert.Equal(t, 4.0, flat.ToList())
}

func TestMeanIntPromotes(t *testing.T) {
	x := mustAsarray(t, []any{1, 2})
	m, err := ragged.Mean(x)
	require.NoError(t, err)
	assert.Equal(t, ragged.Float64, m.DType())
	assert.Equal(t, 1.5, m.ToList())
}

func TestMultiAxisMeanIsJoint(t *testing.T) {
	// Rows of different lengths: the flat mean over both axes must weight
	// every element equally, not average the row means.
	x := mustAsarray(t, []any{[]any{1.0, 2.0, 3.0}, []any{10.0}})
	m, err := ragged.Mean(x, ragged.Along(0, 1))
	require.NoError(t, err)
	assert.Equal(t, 4.0, m.ToList())
}

func TestVarAndStd(t *testing.T) {
	x := mustAsarray(t, []any{1.0, 2.0, 3.0, 4.0})

	v, err := ragged.Var(x)
	require.NoError(t, err)
	assert.Equal(t, 1.25, v.ToList())

	v, err = ragged.Var(x, ragged.Correction(1))
	require.NoError(t, err)
	assert.InDelta(t, 5.0/3.0, v.ToList().(float64), 1e-12)

	s, err := ragged.Std(x)
	require.NoError(t, err)
	assert.InDelta(t, 1.1180339887498949, s.ToList().(float64), 1e-12)
}

func TestVarPerList(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 3.0}, []any{2.0, 2.0, 2.0}})
	v, err := ragged.Var(x, ragged.Along(1))
	require.NoError(t, err)
	assert.Equal(t, l(1.0, 0.0), v.ToList())
}

func TestSumScalarInput(t *testing.T) {
	s, err := ragged.Sum(mustAsarray(t, 4.0))
	require.NoError(t, err)
	assert.True(t, s.IsScalar())
	assert.Equal(t, 4.0, s.ToList())
}

func TestDuplicateAxisRejected(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0}})
	_, err := ragged.Sum(x, ragged.Along(1, 1))
	assert.Error(t, err)
}

func TestAxisOutOfRange(t *testing.T) {
	x := mustAsarray(t, []any{1.0, 2.0})
	_, err := ragged.Sum(x, ragged.Along(2))
	assert.Error(t, err)

	// Negative axes count from the end.
	s, err := ragged.Sum(x, ragged.Along(-1))
	require.NoError(t, err)
	assert.Equal(t, 3.0, s.ToList())
}

func TestAllAny(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0}, []any{0.0, 1.0}, []any{}})

	all, err := ragged.All(x, ragged.Along(1))
	require.NoError(t, err)
	assert.Equal(t, ragged.Bool, all.DType())
	assert.Equal(t, l(true, false, true), all.ToList())

	any_, err := ragged.Any(x, ragged.Along(1))
	require.NoError(t, err)
	assert.Equal(t, l(true, true, false), any_.ToList())

	flat, err := ragged.All(x)
	require.NoError(t, err)
	assert.Equal(t, false, flat.ToList())
}
