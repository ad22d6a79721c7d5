// Copyright 2025 The Ragged Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package dense

import (
	"math"
	"testing"
)

func TestFromSliceRoundTrip(t *testing.T) {
	r := FromSlice([]float64{1.5, -2.5, 3.5}, CPU)
	if r.DType() != Float64 {
		t.Fatalf("dtype = %s", r.DType())
	}
	if r.Len() != 3 {
		t.Fatalf("len = %d", r.Len())
	}
	got := r.AsFloat64()
	want := []float64{1.5, -2.5, 3.5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRawAccessorsConvert(t *testing.T) {
	r := FromSlice([]int32{-7, 0, 9}, CPU)
	if r.Float64At(0) != -7.0 {
		t.Errorf("Float64At(0) = %v", r.Float64At(0))
	}
	if r.Int64At(2) != 9 {
		t.Errorf("Int64At(2) = %v", r.Int64At(2))
	}
	if !r.BoolAt(2) || r.BoolAt(1) {
		t.Error("BoolAt misreports nonzero")
	}
	if r.Complex128At(0) != complex(-7, 0) {
		t.Errorf("Complex128At(0) = %v", r.Complex128At(0))
	}
}

func TestRawSetters(t *testing.T) {
	r := NewRaw(3, Int16, CPU)
	r.SetInt64(0, -5)
	r.SetFloat64(1, 7)
	r.SetUint64(2, 200)
	got := r.AsInt16()
	if got[0] != -5 || got[1] != 7 || got[2] != 200 {
		t.Errorf("buffer = %v", got)
	}

	b := NewRaw(2, Bool, CPU)
	b.SetInt64(0, 3)
	b.SetInt64(1, 0)
	if !b.AsBool()[0] || b.AsBool()[1] {
		t.Errorf("bool buffer = %v", b.AsBool())
	}
}

func TestRawGetTyped(t *testing.T) {
	r := FromSlice([]float32{2.5}, CPU)
	v, ok := r.Get(0).(float32)
	if !ok || v != 2.5 {
		t.Errorf("Get(0) = %v (%T)", r.Get(0), r.Get(0))
	}

	c := FromSlice([]complex128{complex(1, -2)}, CPU)
	if c.Get(0).(complex128) != complex(1, -2) {
		t.Errorf("Get(0) = %v", c.Get(0))
	}
}

func TestRawCloneSharesDeepCloneCopies(t *testing.T) {
	r := FromSlice([]int64{1, 2}, CPU)

	shared := r.Clone()
	shared.AsInt64()[0] = 99
	if r.AsInt64()[0] != 99 {
		t.Error("Clone should share the buffer")
	}

	deep := r.DeepClone()
	deep.AsInt64()[1] = -1
	if r.AsInt64()[1] != 2 {
		t.Error("DeepClone should copy the buffer")
	}
}

func TestRawCopyAndSlice(t *testing.T) {
	src := FromSlice([]float64{1, 2, 3, 4}, CPU)
	dst := NewRaw(4, Float64, CPU)
	dst.Copy(1, src, 2, 2)
	got := dst.AsFloat64()
	if got[1] != 3 || got[2] != 4 {
		t.Errorf("copied buffer = %v", got)
	}

	s := src.Slice(1, 3)
	if s.Len() != 2 || s.AsFloat64()[0] != 2 || s.AsFloat64()[1] != 3 {
		t.Errorf("slice = %v", s.AsFloat64())
	}
}

func TestRawSetFloatNaN(t *testing.T) {
	r := NewRaw(1, Float64, CPU)
	r.SetFloat64(0, math.NaN())
	if !math.IsNaN(r.AsFloat64()[0]) {
		t.Error("NaN did not survive SetFloat64")
	}
}
