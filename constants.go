// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ragged

import "math"

// Mathematical constants of the conformance surface.
const (
	E  = math.E
	Pi = math.Pi
)

// Inf is positive floating-point infinity.
var Inf = math.Inf(1)

// NaN is a floating-point not-a-number value.
var NaN = math.NaN()
