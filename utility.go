// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package ragged

import (
	"github.com/ragged-data/ragged/internal/backend/cpu"
	"github.com/ragged-data/ragged/internal/dense"
)

// All tests whether every element over the selected axes is true. Numeric
// elements are true when nonzero; empty reductions yield true.
func All(x *Array, opts ...ReduceOption) (*Array, error) {
	return reduce("all", x, cpu.RAll, dense.Bool, gatherOptions(opts))
}

// Any tests whether at least one element over the selected axes is true.
// Empty reductions yield false.
func Any(x *Array, opts ...ReduceOption) (*Array, error) {
	return reduce("any", x, cpu.RAny, dense.Bool, gatherOptions(opts))
}
