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

func TestTakeAxis0(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0}, []any{3.0}, []any{4.0, 5.0}})
	idx := mustAsarray(t, []any{2, 0, 0})

	z, err := ragged.Take(x, idx, 0)
	require.NoError(t, err)
	assert.Equal(t, l(l(4.0, 5.0), l(1.0, 2.0), l(1.0, 2.0)), z.ToList())
}

func TestTakeNegativeIndices(t *testing.T) {
	x := mustAsarray(t, []any{10.0, 20.0, 30.0})
	idx := mustAsarray(t, []any{-1, -3})

	z, err := ragged.Take(x, idx, 0)
	require.NoError(t, err)
	assert.Equal(t, l(30.0, 10.0), z.ToList())
}

func TestTakeInnerAxis(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0, 3.0}, []any{4.0, 5.0, 6.0}})
	idx := mustAsarray(t, []any{2, 0})

	z, err := ragged.Take(x, idx, 1)
	require.NoError(t, err)
	assert.Equal(t, l(l(3.0, 1.0), l(6.0, 4.0)), z.ToList())
}

func TestTakeOutOfBounds(t *testing.T) {
	x := mustAsarray(t, []any{1.0, 2.0})
	_, err := ragged.Take(x, mustAsarray(t, []any{2}), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of bounds")

	_, err = ragged.Take(x, mustAsarray(t, []any{-3}), 0)
	assert.Error(t, err)
}

func TestTakeRequiresIntegerIndices(t *testing.T) {
	x := mustAsarray(t, []any{1.0, 2.0})
	_, err := ragged.Take(x, mustAsarray(t, []any{0.5}), 0)
	assert.Error(t, err)
}

func TestTakeScalarIndex(t *testing.T) {
	x := mustAsarray(t, []any{10.0, 20.0})
	z, err := ragged.Take(x, mustAsarray(t, 1), 0)
	require.NoError(t, err)
	assert.Equal(t, l(20.0), z.ToList())
}
