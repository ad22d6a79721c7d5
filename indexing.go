// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ragged

import (
	"fmt"

	"github.com/ragged-data/ragged/internal/layout"
)

// Take selects elements along an axis by a one-dimensional integer index
// array. Negative indices count from the end of each list; along a ragged
// axis every index must be in range for every list.
func Take(x *Array, indices *Array, axis int) (*Array, error) {
	if x.IsScalar() {
		return nil, fmt.Errorf("take: %w", axisError(axis, 0))
	}
	if indices.NDim() > 1 {
		return nil, fmt.Errorf("take: indices must be one-dimensional, got rank %d", indices.NDim())
	}
	if dt := indices.DType(); !dt.IsInteger() {
		return nil, fmt.Errorf("take: indices must have an integer dtype, got %s", dt)
	}
	na, err := normalizeAxis(axis, x.NDim())
	if err != nil {
		return nil, fmt.Errorf("take: %w", err)
	}

	raw := indices.leaf()
	idx := make([]int64, raw.Len())
	for i := range idx {
		idx[i] = raw.Int64At(i)
	}

	if na == 0 {
		length := x.list.Length()
		resolved := make([]int64, len(idx))
		for i, k := range idx {
			r, err := resolveIndex(k, length)
			if err != nil {
				return nil, fmt.Errorf("take: %w", err)
			}
			resolved[i] = r
		}
		return fromContent(layout.GatherElements(x.list, resolved)), nil
	}

	out, err := layout.TransformLists(x.list, na-1, func(length int) ([]int64, error) {
		resolved := make([]int64, len(idx))
		for i, k := range idx {
			r, err := resolveIndex(k, length)
			if err != nil {
				return nil, err
			}
			resolved[i] = r
		}
		return resolved, nil
	})
	if err != nil {
		return nil, fmt.Errorf("take: %w", err)
	}
	return fromContent(out), nil
}

func resolveIndex(k int64, length int) (int64, error) {
	r := k
	if r < 0 {
		r += int64(length)
	}
	if r < 0 || r >= int64(length) {
		return 0, fmt.Errorf("index %d is out of bounds for list of length %d", k, length)
	}
	return r, nil
}
