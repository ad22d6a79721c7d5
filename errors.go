// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ragged

import (
	"errors"
	"fmt"
)

// ErrNotImplemented marks operations whose ragged semantics are deliberately
// left undefined. Callers can branch on it with errors.Is.
var ErrNotImplemented = errors.New("not implemented for ragged arrays")

// axisError reports an out-of-range axis the way dense libraries phrase it.
func axisError(axis, ndim int) error {
	return fmt.Errorf("axis %d is out of bounds for array of dimension %d", axis, ndim)
}

// normalizeAxis maps a possibly-negative axis into [0, ndim).
func normalizeAxis(axis, ndim int) (int, error) {
	if axis < -ndim || axis >= ndim {
		return 0, axisError(axis, ndim)
	}
	if axis < 0 {
		axis += ndim
	}
	return axis, nil
}
