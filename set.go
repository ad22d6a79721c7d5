// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ragged

import (
	"github.com/ragged-data/ragged/internal/backend/cpu"
	"github.com/ragged-data/ragged/internal/layout"
)

// UniqueAllResult is the full unique decomposition: sorted distinct
// values, the first flat occurrence of each, the per-element mapping back
// into values, and the occurrence counts.
type UniqueAllResult struct {
	Values         *Array
	Indices        *Array
	InverseIndices *Array
	Counts         *Array
}

// UniqueCountsResult pairs the sorted distinct values with their counts.
type UniqueCountsResult struct {
	Values *Array
	Counts *Array
}

// UniqueInverseResult pairs the sorted distinct values with the
// per-element mapping back into them.
type UniqueInverseResult struct {
	Values         *Array
	InverseIndices *Array
}

// uniqueOf flattens the input and decomposes it. NaN compares equal to
// itself here, so a value appears once no matter how many NaNs the input
// holds.
func uniqueOf(x *Array) cpu.UniqueResult {
	return cpu.Unique(x.leaf())
}

// UniqueValues returns the sorted distinct values of the flattened input.
func UniqueValues(x *Array) (*Array, error) {
	u := uniqueOf(x)
	return fromContent(&layout.Leaf{Data: u.Values}), nil
}

// UniqueCounts returns the sorted distinct values of the flattened input
// and how many times each occurs.
func UniqueCounts(x *Array) (UniqueCountsResult, error) {
	u := uniqueOf(x)
	return UniqueCountsResult{
		Values: fromContent(&layout.Leaf{Data: u.Values}),
		Counts: fromContent(&layout.Leaf{Data: u.Counts}),
	}, nil
}

// UniqueInverse returns the sorted distinct values of the flattened input
// and, for every input element, its position among them.
func UniqueInverse(x *Array) (UniqueInverseResult, error) {
	u := uniqueOf(x)
	return UniqueInverseResult{
		Values:         fromContent(&layout.Leaf{Data: u.Values}),
		InverseIndices: fromContent(&layout.Leaf{Data: u.Inverse}),
	}, nil
}

// UniqueAll returns the values, first-occurrence indices, inverse mapping
// and counts of the flattened input.
func UniqueAll(x *Array) (UniqueAllResult, error) {
	u := uniqueOf(x)
	return UniqueAllResult{
		Values:         fromContent(&layout.Leaf{Data: u.Values}),
		Indices:        fromContent(&layout.Leaf{Data: u.Indices}),
		InverseIndices: fromContent(&layout.Leaf{Data: u.Inverse}),
		Counts:         fromContent(&layout.Leaf{Data: u.Counts}),
	}, nil
}
