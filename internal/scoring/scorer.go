// Package scoring computes bounded similarity scores between feature vectors.
package scoring

import (
	"math"

	"github.com/gcbaptista/go-job-matcher/internal/features"
)

// Scorer computes the similarity of a job vector and a candidate vector.
// Implementations are pure, symmetric and return a value in [0, 1].
type Scorer interface {
	Score(job, candidate features.Vector) float64
}

// CosineScorer scores by cosine similarity. Weights are never negative, so the raw
// cosine already lies in [0, 1]; the result is still clamped against rounding.
type CosineScorer struct{}

// NewCosineScorer creates a new cosine scorer
func NewCosineScorer() CosineScorer {
	return CosineScorer{}
}

// Score returns the cosine similarity of a and b, or 0 when either vector is zero.
func (CosineScorer) Score(a, b features.Vector) float64 {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	denominator := a.Norm() * b.Norm()
	if denominator == 0 {
		return 0
	}
	return Clamp(a.Dot(b) / denominator)
}

// Clamp maps NaN to 0 and limits score to [0, 1].
func Clamp(score float64) float64 {
	switch {
	case math.IsNaN(score):
		return 0
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}
