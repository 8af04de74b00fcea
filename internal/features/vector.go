// Package features turns text into sparse term-weight vectors scored against shared,
// per-request corpus statistics.
package features

import (
	"math"
	"sort"
)

// Term is one weighted dimension of a Vector.
type Term struct {
	Token  string
	Weight float64
}

// Vector is a sparse term-weight vector. Terms are sorted by token and hold only positive
// weights, so every reduction over a Vector runs in the same order on every call.
type Vector struct {
	Terms []Term
	norm  float64
}

// NewVector builds a Vector from a token -> weight mapping, dropping non-positive weights.
func NewVector(weights map[string]float64) Vector {
	terms := make([]Term, 0, len(weights))
	for token, weight := range weights {
		if weight > 0 && !math.IsNaN(weight) && !math.IsInf(weight, 0) {
			terms = append(terms, Term{Token: token, Weight: weight})
		}
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i].Token < terms[j].Token })

	sumSquares := 0.0
	for _, term := range terms {
		sumSquares += term.Weight * term.Weight
	}
	return Vector{Terms: terms, norm: math.Sqrt(sumSquares)}
}

// Norm returns the L2 norm of the vector.
func (v Vector) Norm() float64 {
	return v.norm
}

// IsZero reports whether the vector has no terms.
func (v Vector) IsZero() bool {
	return len(v.Terms) == 0
}

// Len returns the number of distinct terms.
func (v Vector) Len() int {
	return len(v.Terms)
}

// Dot returns the dot product with other, merging the two sorted term lists.
func (v Vector) Dot(other Vector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(v.Terms) && j < len(other.Terms) {
		a, b := v.Terms[i], other.Terms[j]
		switch {
		case a.Token == b.Token:
			sum += a.Weight * b.Weight
			i++
			j++
		case a.Token < b.Token:
			i++
		default:
			j++
		}
	}
	return sum
}
