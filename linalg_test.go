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

func TestIsEffectivelyRegular(t *testing.T) {
	type tc struct {
		name string
		in   any
		want bool
	}
	cases := []tc{
		{"scalar", 1.0, true},
		{"flat", []any{1.0, 2.0}, true},
		{"empty", []any{}, false},
		{"regular 2d", []any{[]any{1.0, 2.0}, []any{3.0, 4.0}}, true},
		{"ragged 2d", []any{[]any{1.0, 2.0}, []any{3.0}}, false},
		{"regular 3d", []any{
			[]any{[]any{1.0, 2.0}, []any{3.0, 4.0}},
			[]any{[]any{5.0, 6.0}, []any{7.0, 8.0}},
		}, true},
		// Only the first branch is checked below the top level.
		{"ragged below first branch", []any{
			[]any{[]any{1.0, 2.0}, []any{3.0, 4.0}},
			[]any{[]any{5.0, 6.0}, []any{}},
		}, true},
		{"empty inner lists", []any{[]any{}, []any{}}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ragged.IsEffectivelyRegular(mustAsarray(t, c.in)))
		})
	}
}

func TestMatrixTransposeSmall(t *testing.T) {
	x := mustAsarray(t, []any{[]any{
		[]any{1.1, 2.2, 3.3},
		[]any{4.4},
	}})
	z, err := ragged.MatrixTranspose(x)
	require.NoError(t, err)
	assert.Equal(t, l(l(l(1.1, 4.4), l(2.2), l(3.3))), z.ToList())
}

func TestMatrixTransposeWithEmptyRow(t *testing.T) {
	x := mustAsarray(t, []any{[]any{
		[]any{1.0, 2.0},
		[]any{},
	}})
	z, err := ragged.MatrixTranspose(x)
	require.NoError(t, err)
	assert.Equal(t, l(l(l(1.0), l(2.0))), z.ToList())
}

func TestMatrixTransposeAllEmpty(t *testing.T) {
	x := mustAsarray(t, []any{[]any{[]any{}, []any{}}}, ragged.WithDType(ragged.Float64))
	z, err := ragged.MatrixTranspose(x)
	require.NoError(t, err)
	assert.Equal(t, l(l()), z.ToList())
}

func TestMatrixTransposeStack(t *testing.T) {
	x := mustAsarray(t, []any{
		[]any{[]any{1.1, 2.2}, []any{3.3}},
		[]any{[]any{4.4, 5.5, 6.6}},
		[]any{},
	})
	z, err := ragged.MatrixTranspose(x)
	require.NoError(t, err)
	assert.Equal(t, l(
		l(l(1.1, 3.3), l(2.2)),
		l(l(4.4), l(5.5), l(6.6)),
		l(),
	), z.ToList())
}

func TestMatrixTransposeSquare(t *testing.T) {
	x := mustAsarray(t, []any{
		[]any{1.0, 2.0},
		[]any{3.0, 4.0},
	})
	z, err := ragged.MatrixTranspose(x)
	require.NoError(t, err)
	assert.Equal(t, l(l(1.0, 3.0), l(2.0, 4.0)), z.ToList())
}

func TestMatrixTransposeUnsortedRows(t *testing.T) {
	x := mustAsarray(t, []any{[]any{1.1}, []any{2.0, 3.0}})
	_, err := ragged.MatrixTranspose(x)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sorted descending")
}

func TestMatrixTransposeTooFewDims(t *testing.T) {
	_, err := ragged.MatrixTranspose(mustAsarray(t, []any{1.0, 2.0}))
	assert.Error(t, err)
}

func TestMatmul1x1(t *testing.T) {
	a := mustAsarray(t, []any{[]any{2.0}})
	b := mustAsarray(t, []any{[]any{4.0}})
	z, err := ragged.Matmul(a, b)
	require.NoError(t, err)
	assert.Equal(t, l(l(8.0)), z.ToList())
}

func TestMatmulIdentity(t *testing.T) {
	x := mustAsarray(t, []any{
		[]any{1.0, 2.0},
		[]any{3.0, 4.0},
	})
	eye := mustAsarray(t, []any{
		[]any{1.0, 0.0},
		[]any{0.0, 1.0},
	})
	z, err := ragged.Matmul(x, eye)
	require.NoError(t, err)
	assert.Equal(t, x.ToList(), z.ToList())
}

func TestMatmul2x2(t *testing.T) {
	a := mustAsarray(t, []any{
		[]any{1.0, 2.0},
		[]any{3.0, 4.0},
	})
	b := mustAsarray(t, []any{
		[]any{5.0, 6.0},
		[]any{7.0, 8.0},
	})
	z, err := ragged.Matmul(a, b)
	require.NoError(t, err)
	assert.Equal(t, l(l(19.0, 22.0), l(43.0, 50.0)), z.ToList())
}

func TestMatmulRaggedZeroPadding(t *testing.T) {
	// Short rows contribute zeros to the contraction.
	a := mustAsarray(t, []any{[]any{[]any{}, []any{1.0, 2.0}}, []any{[]any{}}})
	b := mustAsarray(t, []any{[]any{[]any{}, []any{3.0}}, []any{[]any{}}})
	z, err := ragged.Matmul(a, b)
	require.NoError(t, err)
	assert.Equal(t, l(l(l(), l(6.0)), l(l())), z.ToList())
}

func TestMatmulVectorCases(t *testing.T) {
	v := mustAsarray(t, []any{1.0, 2.0, 3.0})
	w := mustAsarray(t, []any{4.0, 5.0, 6.0})

	dot, err := ragged.Matmul(v, w)
	require.NoError(t, err)
	assert.True(t, dot.IsScalar())
	assert.Equal(t, 32.0, dot.ToList())

	m := mustAsarray(t, []any{
		[]any{1.0, 0.0},
		[]any{0.0, 1.0},
		[]any{1.0, 1.0},
	})
	vm, err := ragged.Matmul(v, m)
	require.NoError(t, err)
	assert.Equal(t, l(4.0, 5.0), vm.ToList())

	mv, err := ragged.Matmul(m, mustAsarray(t, []any{2.0, 3.0}))
	require.NoError(t, err)
	assert.Equal(t, l(2.0, 3.0, 5.0), mv.ToList())
}

func TestMatmulShapeMismatch(t *testing.T) {
	a := mustAsarray(t, []any{[]any{1.0, 2.0}})
	b := mustAsarray(t, []any{[]any{1.0}, []any{2.0}, []any{3.0}})
	_, err := ragged.Matmul(a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "core dimensions")
}

func TestMatmulScalarRejected(t *testing.T) {
	_, err := ragged.Matmul(mustAsarray(t, 1.0), mustAsarray(t, []any{1.0}))
	assert.Error(t, err)
}

func TestMatmulBatched(t *testing.T) {
	a := mustAsarray(t, []any{
		[]any{[]any{1.0, 0.0}, []any{0.0, 1.0}},
		[]any{[]any{2.0, 0.0}, []any{0.0, 2.0}},
	})
	b := mustAsarray(t, []any{
		[]any{[]any{1.0, 2.0}, []any{3.0, 4.0}},
		[]any{[]any{1.0, 2.0}, []any{3.0, 4.0}},
	})
	z, err := ragged.Matmul(a, b)
	require.NoError(t, err)
	assert.Equal(t, l(
		l(l(1.0, 2.0), l(3.0, 4.0)),
		l(l(2.0, 4.0), l(6.0, 8.0)),
	), z.ToList())
}

func TestTensordotVecdotNotImplemented(t *testing.T) {
	v := mustAsarray(t, []any{1.0})
	_, err := ragged.Tensordot(v, v, 1)
	assert.ErrorIs(t, err, ragged.ErrNotImplemented)
	_, err = ragged.Vecdot(v, v, -1)
	assert.ErrorIs(t, err, ragged.ErrNotImplemented)
}
