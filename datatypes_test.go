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

func TestAstype(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.5, 2.5}, []any{-3.5}})

	i, err := ragged.Astype(x, ragged.Int32)
	require.NoError(t, err)
	assert.Equal(t, ragged.Int32, i.DType())
	assert.Equal(t, l(l(int32(1), int32(2)), l(int32(-3))), i.ToList())

	b, err := ragged.Astype(x, ragged.Bool)
	require.NoError(t, err)
	assert.Equal(t, l(l(true, true), l(true)), b.ToList())

	same, err := ragged.Astype(x, ragged.Float64)
	require.NoError(t, err)
	assert.Equal(t, x.ToList(), same.ToList())
}

func TestCanCast(t *testing.T) {
	assert.True(t, ragged.CanCast(ragged.Int32, ragged.Int64))
	assert.True(t, ragged.CanCast(ragged.Bool, ragged.Float32))
	assert.True(t, ragged.CanCast(ragged.Float32, ragged.Complex64))
	assert.False(t, ragged.CanCast(ragged.Int64, ragged.Int32))
	assert.False(t, ragged.CanCast(ragged.Float64, ragged.Int64))
	assert.False(t, ragged.CanCast(ragged.Float64, ragged.Bool))
}

func TestFinfo(t *testing.T) {
	f64, err := ragged.Finfo(ragged.Float64)
	require.NoError(t, err)
	assert.Equal(t, 64, f64.Bits)
	assert.Equal(t, math.MaxFloat64, f64.Max)
	assert.Equal(t, -math.MaxFloat64, f64.Min)
	assert.Equal(t, 0x1p-52, f64.EPS)
	assert.Equal(t, ragged.Float64, f64.DType)

	f32, err := ragged.Finfo(ragged.Float32)
	require.NoError(t, err)
	assert.Equal(t, 32, f32.Bits)
	assert.Equal(t, float64(math.MaxFloat32), f32.Max)

	// Complex dtypes report their real component.
	c128, err := ragged.Finfo(ragged.Complex128)
	require.NoError(t, err)
	assert.Equal(t, ragged.Float64, c128.DType)

	_, err = ragged.Finfo(ragged.Int64)
	assert.Error(t, err)
}

func TestIinfo(t *testing.T) {
	i64, err := ragged.Iinfo(ragged.Int64)
	require.NoError(t, err)
	assert.Equal(t, 64, i64.Bits)
	assert.Equal(t, uint64(math.MaxInt64), i64.Max)
	assert.Equal(t, int64(math.MinInt64), i64.Min)

	u8, err := ragged.Iinfo(ragged.Uint8)
	require.NoError(t, err)
	assert.Equal(t, 8, u8.Bits)
	assert.Equal(t, uint64(255), u8.Max)
	assert.Equal(t, int64(0), u8.Min)

	_, err = ragged.Iinfo(ragged.Float32)
	assert.Error(t, err)
}

func TestIsDType(t *testing.T) {
	type tc struct {
		dt   ragged.DataType
		kind string
		want bool
	}
	cases := []tc{
		{ragged.Bool, "bool", true},
		{ragged.Int32, "signed integer", true},
		{ragged.Uint16, "unsigned integer", true},
		{ragged.Int32, "integral", true},
		{ragged.Uint64, "integral", true},
		{ragged.Float32, "real floating", true},
		{ragged.Complex64, "complex floating", true},
		{ragged.Float64, "numeric", true},
		{ragged.Bool, "numeric", false},
		{ragged.Float64, "integral", false},
		{ragged.Int64, "int64", true},
		{ragged.Int64, "float64", false},
	}
	for _, c := range cases {
		got, err := ragged.IsDType(c.dt, c.kind)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "%s as %q", c.dt, c.kind)
	}

	_, err := ragged.IsDType(ragged.Int64, "no such kind")
	assert.Error(t, err)
}

func TestResultTypeVariadic(t *testing.T) {
	dt, err := ragged.ResultType(ragged.Int8, ragged.Uint8, ragged.Float32)
	require.NoError(t, err)
	assert.Equal(t, ragged.Float32, dt)

	one, err := ragged.ResultType(ragged.Int32)
	require.NoError(t, err)
	assert.Equal(t, ragged.Int32, one)

	_, err = ragged.ResultType()
	assert.Error(t, err)
}
