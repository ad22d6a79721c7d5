// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cf converts two-dimensional ragged arrays to and from the two
// flat encodings of the CF (Climate and Forecast) metadata conventions:
// contiguous, a value buffer with per-row counts, and indexed, a value
// buffer with a per-value row number. Both encodings round-trip.
package cf

import (
	"fmt"
	"sort"

	"github.com/ragged-data/ragged"
)

// ToContiguous encodes a two-dimensional array as its flattened values
// and the length of each row.
func ToContiguous(x *ragged.Array) (content, counts *ragged.Array, err error) {
	rows, err := rowsOf("to_cf_contiguous", x)
	if err != nil {
		return nil, nil, err
	}
	content, err = ragged.ConcatFlat([]*ragged.Array{x})
	if err != nil {
		return nil, nil, fmt.Errorf("to_cf_contiguous: %w", err)
	}
	n := make([]int64, len(rows))
	for i, row := range rows {
		n[i] = int64(len(row))
	}
	counts, err = ragged.FromSlice(n)
	if err != nil {
		return nil, nil, fmt.Errorf("to_cf_contiguous: %w", err)
	}
	return content, counts, nil
}

// FromContiguous rebuilds a two-dimensional array from flattened values
// and per-row counts.
func FromContiguous(content, counts *ragged.Array) (*ragged.Array, error) {
	values, err := flatValues("from_cf_contiguous", content)
	if err != nil {
		return nil, err
	}
	cnts, err := flatInts("from_cf_contiguous", counts)
	if err != nil {
		return nil, err
	}
	nested := make([]any, len(cnts))
	pos := int64(0)
	for i, n := range cnts {
		if n < 0 || pos+n > int64(len(values)) {
			return nil, fmt.Errorf("from_cf_contiguous: counts cover %d values, content has %d", pos+n, len(values))
		}
		nested[i] = append([]any(nil), values[pos:pos+n]...)
		pos += n
	}
	if pos != int64(len(values)) {
		return nil, fmt.Errorf("from_cf_contiguous: counts cover %d values, content has %d", pos, len(values))
	}
	return ragged.Asarray(nested, ragged.WithDType(content.DType()))
}

// ToIndexed encodes a two-dimensional array as its flattened values and
// the row number of every value.
func ToIndexed(x *ragged.Array) (content, index *ragged.Array, err error) {
	rows, err := rowsOf("to_cf_indexed", x)
	if err != nil {
		return nil, nil, err
	}
	content, err = ragged.ConcatFlat([]*ragged.Array{x})
	if err != nil {
		return nil, nil, fmt.Errorf("to_cf_indexed: %w", err)
	}
	var idx []int64
	for i, row := range rows {
		for range row {
			idx = append(idx, int64(i))
		}
	}
	index, err = ragged.FromSlice(idx)
	if err != nil {
		return nil, nil, fmt.Errorf("to_cf_indexed: %w", err)
	}
	return content, index, nil
}

// FromIndexed rebuilds a two-dimensional array from flattened values and
// per-value row numbers. The indices may arrive in any order; values are
// stably re-sorted by row first, and rows that no index names come back
// empty.
func FromIndexed(content, index *ragged.Array) (*ragged.Array, error) {
	values, err := flatValues("from_cf_indexed", content)
	if err != nil {
		return nil, err
	}
	idx, err := flatInts("from_cf_indexed", index)
	if err != nil {
		return nil, err
	}
	if len(idx) != len(values) {
		return nil, fmt.Errorf("from_cf_indexed: %d indices for %d values", len(idx), len(values))
	}
	nRows := int64(0)
	for _, i := range idx {
		if i < 0 {
			return nil, fmt.Errorf("from_cf_indexed: negative row index %d", i)
		}
		if i+1 > nRows {
			nRows = i + 1
		}
	}
	order := make([]int, len(idx))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return idx[order[a]] < idx[order[b]] })

	nested := make([]any, nRows)
	for i := range nested {
		nested[i] = []any{}
	}
	for _, k := range order {
		row := idx[k]
		nested[row] = append(nested[row].([]any), values[k])
	}
	return ragged.Asarray(nested, ragged.WithDType(content.DType()))
}

func rowsOf(name string, x *ragged.Array) ([][]any, error) {
	if x.NDim() != 2 {
		return nil, fmt.Errorf("%s: rank %d: %w", name, x.NDim(), ragged.ErrNotImplemented)
	}
	lst := x.ToList().([]any)
	rows := make([][]any, len(lst))
	for i, e := range lst {
		rows[i] = e.([]any)
	}
	return rows, nil
}

func flatValues(name string, content *ragged.Array) ([]any, error) {
	if content.NDim() != 1 {
		return nil, fmt.Errorf("%s: content must be one-dimensional, got rank %d: %w",
			name, content.NDim(), ragged.ErrNotImplemented)
	}
	return content.ToList().([]any), nil
}

func flatInts(name string, x *ragged.Array) ([]int64, error) {
	if x.NDim() != 1 {
		return nil, fmt.Errorf("%s: expected a one-dimensional integer array, got rank %d: %w",
			name, x.NDim(), ragged.ErrNotImplemented)
	}
	if !x.DType().IsInteger() {
		return nil, fmt.Errorf("%s: expected an integer array, got %s", name, x.DType())
	}
	lst := x.ToList().([]any)
	out := make([]int64, len(lst))
	for i, e := range lst {
		switch v := e.(type) {
		case int8:
			out[i] = int64(v)
		case int16:
			out[i] = int64(v)
		case int32:
			out[i] = int64(v)
		case int64:
			out[i] = v
		case uint8:
			out[i] = int64(v)
		case uint16:
			out[i] = int64(v)
		case uint32:
			out[i] = int64(v)
		case uint64:
			out[i] = int64(v)
		default:
			return nil, fmt.Errorf("%s: unexpected element %T", name, e)
		}
	}
	return out, nil
}
