package index

import (
	"math"
	"testing"
)

func TestSparseVectorNormalize(t *testing.T) {
	v := SparseVector{Cols: []int{0, 2}, Weights: []float64{3, 4}}
	v.Normalize()
	if got := v.Norm(); math.Abs(got-1) > 1e-12 {
		t.Errorf("norm after Normalize = %v, want 1", got)
	}
	if math.Abs(v.Weights[0]-0.6) > 1e-12 || math.Abs(v.Weights[1]-0.8) > 1e-12 {
		t.Errorf("weights = %v, want [0.6 0.8]", v.Weights)
	}
}

func TestSparseVectorNormalizeZero(t *testing.T) {
	var v SparseVector
	v.Normalize()
	if !v.IsZero() {
		t.Error("zero vector should stay zero after Normalize")
	}
}

func TestDot(t *testing.T) {
	a := SparseVector{Cols: []int{0, 3, 7}, Weights: []float64{1, 2, 3}}
	b := SparseVector{Cols: []int{3, 5, 7}, Weights: []float64{4, 5, 6}}
	// Overlap at cols 3 and 7: 2*4 + 3*6.
	if got := Dot(a, b); got != 26 {
		t.Errorf("Dot = %v, want 26", got)
	}
}

func TestDotDisjoint(t *testing.T) {
	a := SparseVector{Cols: []int{0, 1}, Weights: []float64{1, 1}}
	b := SparseVector{Cols: []int{2, 3}, Weights: []float64{1, 1}}
	if got := Dot(a, b); got != 0 {
		t.Errorf("Dot = %v, want 0", got)
	}
}

func TestDotWithZeroVector(t *testing.T) {
	a := SparseVector{Cols: []int{0}, Weights: []float64{1}}
	if got := Dot(a, SparseVector{}); got != 0 {
		t.Errorf("Dot = %v, want 0", got)
	}
}
