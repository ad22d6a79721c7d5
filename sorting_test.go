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

func TestSortFlat(t *testing.T) {
	x := mustAsarray(t, []any{3.0, 1.0, 2.0})

	s, err := ragged.Sort(x, -1, false, true)
	require.NoError(t, err)
	assert.Equal(t, l(1.0, 2.0, 3.0), s.ToList())

	d, err := ragged.Sort(x, -1, true, true)
	require.NoError(t, err)
	assert.Equal(t, l(3.0, 2.0, 1.0), d.ToList())
}

func TestSortPerList(t *testing.T) {
	x := mustAsarray(t, []any{[]any{3.0, 1.0, 2.0}, []any{}, []any{5.0, 4.0}})
	s, err := ragged.Sort(x, 1, false, true)
	require.NoError(t, err)
	assert.Equal(t, l(l(1.0, 2.0, 3.0), l(), l(4.0, 5.0)), s.ToList())
}

func TestSortRegularOuterAxis(t *testing.T) {
	x := mustAsarray(t, []any{[]any{3.0, 1.0}, []any{2.0, 4.0}})
	s, err := ragged.Sort(x, 0, false, true)
	require.NoError(t, err)
	assert.Equal(t, l(l(2.0, 1.0), l(3.0, 4.0)), s.ToList())
}

func TestSortRaggedOuterAxisRejected(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.0, 2.0}, []any{3.0}})
	_, err := ragged.Sort(x, 0, false, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ragged")
}

func TestArgsort(t *testing.T) {
	x := mustAsarray(t, []any{[]any{3.0, 1.0, 2.0}, []any{5.0, 4.0}})
	idx, err := ragged.Argsort(x, 1, false, true)
	require.NoError(t, err)
	assert.Equal(t, ragged.Int64, idx.DType())
	assert.Equal(t, l(l(int64(1), int64(2), int64(0)), l(int64(1), int64(0))), idx.ToList())
}

func TestArgsortStability(t *testing.T) {
	// Ties keep their original order.
	x := mustAsarray(t, []any{2.0, 1.0, 2.0, 1.0})
	idx, err := ragged.Argsort(x, -1, false, false)
	require.NoError(t, err)
	assert.Equal(t, l(int64(1), int64(3), int64(0), int64(2)), idx.ToList())
}

func TestSortMatchesTakeAtArgsort(t *testing.T) {
	x := mustAsarray(t, []any{[]any{9.0, 2.0, 7.0}, []any{1.0, 8.0}})

	sorted, err := ragged.Sort(x, 1, false, true)
	require.NoError(t, err)
	idx, err := ragged.Argsort(x, 1, false, true)
	require.NoError(t, err)

	// Gathering each list at its argsort indices reproduces the sort.
	idxRows := idx.ToList().([]any)
	xRows := x.ToList().([]any)
	sRows := sorted.ToList().([]any)
	for r := range xRows {
		row := xRows[r].([]any)
		perm := idxRows[r].([]any)
		for c := range perm {
			assert.Equal(t, row[int(perm[c].(int64))], sRows[r].([]any)[c])
		}
	}
}

func TestSortScalarRejected(t *testing.T) {
	_, err := ragged.Sort(mustAsarray(t, 1.0), 0, false, true)
	assert.Error(t, err)
	_, err = ragged.Argsort(mustAsarray(t, 1.0), 0, false, true)
	assert.Error(t, err)
}
