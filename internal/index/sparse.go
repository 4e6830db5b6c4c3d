package index

import "math"

// SparseVector is an explicit sparse representation of a TF-IDF vector:
// parallel term-column and weight slices, sorted ascending by column. The
// zero value is the zero vector.
type SparseVector struct {
	Cols    []int
	Weights []float64
}

// IsZero reports whether v has no non-zero components.
func (v SparseVector) IsZero() bool {
	return len(v.Cols) == 0
}

// Norm returns the Euclidean norm of v.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, w := range v.Weights {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Normalize scales v to unit length in place. A zero vector stays zero.
func (v *SparseVector) Normalize() {
	norm := v.Norm()
	if norm == 0 {
		return
	}
	for i := range v.Weights {
		v.Weights[i] /= norm
	}
}

// Dot returns the dot product of two sparse vectors. Both operands are
// expected sorted by column; a zero vector yields 0. For L2-normalized
// vectors this is the cosine similarity.
func Dot(a, b SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.Cols) && j < len(b.Cols) {
		switch {
		case a.Cols[i] == b.Cols[j]:
			sum += a.Weights[i] * b.Weights[j]
			i++
			j++
		case a.Cols[i] < b.Cols[j]:
			i++
		default:
			j++
		}
	}
	return sum
}
