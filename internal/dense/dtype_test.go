// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package dense

import "testing"

func TestPromoteCommutes(t *testing.T) {
	for a := Bool; a <= Complex128; a++ {
		if !a.Valid() {
			continue
		}
		for b := Bool; b <= Complex128; b++ {
			if !b.Valid() {
				continue
			}
			ab, ba := Promote(a, b), Promote(b, a)
			if ab != ba {
				t.Errorf("Promote(%s, %s) = %s but Promote(%s, %s) = %s", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestPromoteIdempotent(t *testing.T) {
	for a := Bool; a <= Complex128; a++ {
		if !a.Valid() {
			continue
		}
		if got := Promote(a, a); got != a {
			t.Errorf("Promote(%s, %s) = %s, want %s", a, a, got, a)
		}
	}
}

func TestPromotePairs(t *testing.T) {
	tests := []struct {
		a, b, want DataType
	}{
		{Bool, Int8, Int8},
		{Bool, Float32, Float32},
		{Int8, Int32, Int32},
		{Uint8, Uint32, Uint32},
		{Int8, Uint8, Int16},
		{Int32, Uint32, Int64},
		{Int16, Uint64, Float64},
		{Int8, Float32, Float32},
		{Int32, Float32, Float64},
		{Float32, Float64, Float64},
		{Float32, Complex64, Complex64},
		{Float64, Complex64, Complex128},
		{Int32, Complex64, Complex128},
		{Int8, Complex64, Complex64},
		{Complex64, Complex128, Complex128},
	}
	for _, tt := range tests {
		if got := Promote(tt.a, tt.b); got != tt.want {
			t.Errorf("Promote(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCanCast(t *testing.T) {
	tests := []struct {
		from, to DataType
		want     bool
	}{
		{Int8, Int8, true},
		{Bool, Int8, true},
		{Int8, Bool, false},
		{Int32, Int64, true},
		{Int64, Int32, false},
		{Uint8, Int16, true},
		{Uint64, Int64, false},
		{Float32, Float64, true},
		{Float64, Float32, false},
		{Float32, Complex64, true},
		{Complex64, Float64, false},
	}
	for _, tt := range tests {
		if got := CanCast(tt.from, tt.to); got != tt.want {
			t.Errorf("CanCast(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestDTypeKindAndSize(t *testing.T) {
	tests := []struct {
		dt   DataType
		size int
		name string
	}{
		{Bool, 1, "bool"},
		{Int8, 1, "int8"},
		{Int16, 2, "int16"},
		{Int32, 4, "int32"},
		{Int64, 8, "int64"},
		{Uint8, 1, "uint8"},
		{Float32, 4, "float32"},
		{Float64, 8, "float64"},
		{Complex64, 8, "complex64"},
		{Complex128, 16, "complex128"},
	}
	for _, tt := range tests {
		if got := tt.dt.Size(); got != tt.size {
			t.Errorf("%s.Size() = %d, want %d", tt.dt, got, tt.size)
		}
		if got := tt.dt.String(); got != tt.name {
			t.Errorf("String() = %q, want %q", got, tt.name)
		}
	}
}

func TestRealOfComplexOf(t *testing.T) {
	if RealOf(Complex64) != Float32 {
		t.Errorf("RealOf(complex64) = %s", RealOf(Complex64))
	}
	if RealOf(Complex128) != Float64 {
		t.Errorf("RealOf(complex128) = %s", RealOf(Complex128))
	}
	if ComplexOf(Float32) != Complex64 {
		t.Errorf("ComplexOf(float32) = %s", ComplexOf(Float32))
	}
	if ComplexOf(Float64) != Complex128 {
		t.Errorf("ComplexOf(float64) = %s", ComplexOf(Float64))
	}
}
