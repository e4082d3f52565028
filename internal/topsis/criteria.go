package topsis

import (
	"fmt"
	"math"
	"strings"
)

// Orientation says whether a criterion is maximised or minimised.
type Orientation string

const (
	Benefit Orientation = "benefit"
	Cost    Orientation = "cost"
)

// ParseOrientation accepts "benefit" or "cost", case-insensitively.
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case Benefit, Cost:
		return o, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOrientation, s)
	}
}

// Normalization selects how raw criterion columns are made scale-free.
type Normalization string

const (
	// Vector divides each column by its Euclidean norm.
	Vector Normalization = "vector"
	// MinMax rescales each column to [0,1] via (x - min) / (max - min).
	MinMax Normalization = "minmax"
)

// ParseNormalization accepts "vector", "minmax" or "min-max".
func ParseNormalization(s string) (Normalization, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vector":
		return Vector, nil
	case "minmax", "min-max", "min_max":
		return MinMax, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownNormalization, s)
	}
}

// Criterion is one named dimension of comparison.
type Criterion struct {
	Name        string      `json:"name"`
	Orientation Orientation `json:"orientation"`
	Weight      float64     `json:"weight"`
}

// DefaultWeightTolerance bounds |sum(weights) - 1|.
const DefaultWeightTolerance = 1e-9

// ValidateWeights checks that weights are finite, non-negative and sum to 1.0
// within tol. Weights are never renormalized.
func ValidateWeights(weights []float64, tol float64) error {
	if tol <= 0 {
		tol = DefaultWeightTolerance
	}
	var sum float64
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: weight %d is not finite", ErrInvalidWeights, i)
		}
		if w < 0 {
			return fmt.Errorf("%w: negative weight %d: %f", ErrInvalidWeights, i, w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > tol {
		return fmt.Errorf("%w: weights sum to %.6f, must sum to 1.0", ErrInvalidWeights, sum)
	}
	return nil
}

func weightsOf(criteria []Criterion) []float64 {
	w := make([]float64, len(criteria))
	for i, c := range criteria {
		w[i] = c.Weight
	}
	return w
}

func orientationsOf(criteria []Criterion) []Orientation {
	o := make([]Orientation, len(criteria))
	for i, c := range criteria {
		o[i] = c.Orientation
	}
	return o
}
