// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ragged exposes a standardized array-programming interface over
// ragged (variable-length nested list) and regular dense numeric data.
//
// An Array is backed either by a zero-dimensional dense buffer or by a
// nested list layout over a flat buffer; the shape reports -1 (rendered
// "?") for dimensions whose length varies per list. Arrays are immutable:
// every operation returns a new value.
//
// Example:
//
//	x, _ := ragged.Asarray([]any{[]any{1.0, 2.0, 3.0}, []any{4.0, 5.0}})
//	s, _ := ragged.Sum(x, ragged.Along(-1))
//	s.ToList() // [6 9]
//
// The function surface follows the Array API specification: creation,
// element-wise, manipulation, searching, set, sorting, statistical,
// utility, linear-algebra and data-type functions. Arrays can be homed on
// the CPU or on a WebGPU device; device residency is a placement label,
// and moving data is a blocking copy.
package ragged
