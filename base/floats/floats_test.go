package floats_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"example.com/fuzzy-control/base/floats"
)

func TestStrictlyIncreasing(t *testing.T) {
	tests := []struct {
		name  string
		input []float64
		want  bool
	}{
		{name: "Nil slice", input: nil, want: false},
		{name: "Single element", input: []float64{1.0}, want: false},
		{name: "Two elements", input: []float64{1.0, 2.0}, want: true},
		{name: "Non-uniform steps", input: []float64{-3.0, 0.0, 0.5, 7.0}, want: true},
		{name: "Duplicate values", input: []float64{1.0, 2.0, 2.0, 3.0}, want: false},
		{name: "Decreasing", input: []float64{3.0, 2.0}, want: false},
		{name: "NaN", input: []float64{1.0, math.NaN()}, want: false},
		{name: "Infinity", input: []float64{1.0, math.Inf(1)}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := floats.StrictlyIncreasing(tt.input)
			if got != tt.want {
				t.Errorf("StrictlyIncreasing(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSpan(t *testing.T) {
	got := floats.Span(0.0, 10.0, 5)
	want := []float64{0.0, 2.5, 5.0, 7.5, 10.0}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Span(0, 10, 5) mismatch (-want +got):\n%s", diff)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Span with one value did not panic")
		}
	}()
	_ = floats.Span(0.0, 1.0, 1)
}

func TestArange(t *testing.T) {
	tests := []struct {
		name         string
		lo, hi, step float64
		wantLen      int
		wantFirst    float64
		wantLast     float64
	}{
		{name: "Integer grid", lo: 0, hi: 10, step: 1, wantLen: 11, wantFirst: 0, wantLast: 10},
		{name: "Tenth grid", lo: 0, hi: 1, step: 0.1, wantLen: 11, wantFirst: 0, wantLast: 1},
		{name: "Off grid end", lo: 0, hi: 10, step: 3, wantLen: 4, wantFirst: 0, wantLast: 9},
		{name: "Rounded end", lo: 0, hi: 0.3, step: 0.1, wantLen: 4, wantFirst: 0, wantLast: 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := floats.Arange(tt.lo, tt.hi, tt.step)
			if len(got) != tt.wantLen {
				t.Fatalf("len(Arange(%v, %v, %v)) = %v, want %v", tt.lo, tt.hi, tt.step, len(got), tt.wantLen)
			}
			if got[0] != tt.wantFirst {
				t.Errorf("Arange(...)[0] = %v, want %v", got[0], tt.wantFirst)
			}
			if got[len(got)-1] != tt.wantLast {
				t.Errorf("Arange(...)[last] = %v, want %v", got[len(got)-1], tt.wantLast)
			}
		})
	}
}

func TestMaxIndices(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		wantMax  float64
		wantIdxs []int
	}{
		{name: "Single element", input: []float64{0.5}, wantMax: 0.5, wantIdxs: []int{0}},
		{name: "Unique maximum", input: []float64{0.1, 0.9, 0.3}, wantMax: 0.9, wantIdxs: []int{1}},
		{name: "Plateau", input: []float64{0.2, 0.7, 0.7, 0.7, 0.1}, wantMax: 0.7, wantIdxs: []int{1, 2, 3}},
		{name: "Separated maxima", input: []float64{1, 0, 1}, wantMax: 1, wantIdxs: []int{0, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, idxs := floats.MaxIndices(tt.input)
			if m != tt.wantMax {
				t.Errorf("MaxIndices(%v) max = %v, want %v", tt.input, m, tt.wantMax)
			}
			if diff := cmp.Diff(tt.wantIdxs, idxs); diff != "" {
				t.Errorf("MaxIndices(%v) indices mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}

	t.Run("EmptySlice", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("MaxIndices of empty slice did not panic")
			}
		}()
		floats.MaxIndices(nil)
	})
}

func TestClamp(t *testing.T) {
	tests := []struct {
		x, want float64
	}{
		{-0.5, 0}, {0, 0}, {0.25, 0.25}, {1, 1}, {1.5, 1},
	}
	for _, tt := range tests {
		if got := floats.Clamp(tt.x, 0, 1); got != tt.want {
			t.Errorf("Clamp(%v, 0, 1) = %v, want %v", tt.x, got, tt.want)
		}
	}
}
