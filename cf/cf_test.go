// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragged-data/ragged"
	"github.com/ragged-data/ragged/cf"
)

func mustAsarray(t *testing.T, v any, opts ...ragged.Option) *ragged.Array {
	t.Helper()
	a, err := ragged.Asarray(v, opts...)
	require.NoError(t, err)
	return a
}

func l(items ...any) []any {
	if items == nil {
		return []any{}
	}
	return items
}

func TestContiguousEncoding(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.1, 2.2, 3.3}, []any{}, []any{4.4, 5.5}})

	content, counts, err := cf.ToContiguous(x)
	require.NoError(t, err)
	assert.Equal(t, l(1.1, 2.2, 3.3, 4.4, 5.5), content.ToList())
	assert.Equal(t, l(int64(3), int64(0), int64(2)), counts.ToList())
}

func TestContiguousRoundTrip(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.1, 2.2, 3.3}, []any{}, []any{4.4, 5.5}})

	content, counts, err := cf.ToContiguous(x)
	require.NoError(t, err)
	back, err := cf.FromContiguous(content, counts)
	require.NoError(t, err)
	assert.Equal(t, x.ToList(), back.ToList())
	assert.Equal(t, x.DType(), back.DType())
}

func TestFromContiguousCountMismatch(t *testing.T) {
	content := mustAsarray(t, []any{1.0, 2.0, 3.0})
	short := mustAsarray(t, []any{2})
	_, err := cf.FromContiguous(content, short)
	assert.Error(t, err)

	long := mustAsarray(t, []any{2, 2})
	_, err = cf.FromContiguous(content, long)
	assert.Error(t, err)
}

func TestIndexedEncoding(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.1, 2.2}, []any{}, []any{3.3}})

	content, index, err := cf.ToIndexed(x)
	require.NoError(t, err)
	assert.Equal(t, l(1.1, 2.2, 3.3), content.ToList())
	assert.Equal(t, l(int64(0), int64(0), int64(2)), index.ToList())
}

func TestIndexedRoundTrip(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.1, 2.2}, []any{}, []any{3.3}})

	content, index, err := cf.ToIndexed(x)
	require.NoError(t, err)
	back, err := cf.FromIndexed(content, index)
	require.NoError(t, err)
	assert.Equal(t, x.ToList(), back.ToList())
}

func TestFromIndexedUnsorted(t *testing.T) {
	content := mustAsarray(t, []any{30.0, 10.0, 20.0, 11.0})
	index := mustAsarray(t, []any{2, 0, 1, 0})

	back, err := cf.FromIndexed(content, index)
	require.NoError(t, err)
	assert.Equal(t, l(l(10.0, 11.0), l(20.0), l(30.0)), back.ToList())
}

func TestFromIndexedGapsComeBackEmpty(t *testing.T) {
	content := mustAsarray(t, []any{1.0, 2.0})
	index := mustAsarray(t, []any{0, 3})

	back, err := cf.FromIndexed(content, index)
	require.NoError(t, err)
	assert.Equal(t, l(l(1.0), l(), l(), l(2.0)), back.ToList())
}

func TestFromIndexedErrors(t *testing.T) {
	content := mustAsarray(t, []any{1.0, 2.0})

	_, err := cf.FromIndexed(content, mustAsarray(t, []any{0}))
	assert.Error(t, err)

	_, err = cf.FromIndexed(content, mustAsarray(t, []any{0, -1}))
	assert.Error(t, err)
}

func TestRankChecks(t *testing.T) {
	flat := mustAsarray(t, []any{1.0, 2.0})
	_, _, err := cf.ToContiguous(flat)
	assert.ErrorIs(t, err, ragged.ErrNotImplemented)

	deep := mustAsarray(t, []any{[]any{[]any{1.0}}})
	_, _, err = cf.ToIndexed(deep)
	assert.ErrorIs(t, err, ragged.ErrNotImplemented)
}
