package recommend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/topsis"
)

const (
	CriterionService      = "service_facility"
	CriterionAvailability = "availability_price"
	CriterionDistance     = "distance"
)

// WeightSet defines the relative importance of the three pharmacy criteria.
// All weights must sum to 1.0.
type WeightSet struct {
	Service      float64 `json:"service"`
	Availability float64 `json:"availability"`
	Distance     float64 `json:"distance"`
}

// DefaultWeights mirrors the initial slider positions of the original tool.
func DefaultWeights() WeightSet {
	return WeightSet{Service: 0.45, Availability: 0.25, Distance: 0.30}
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	return w.Service + w.Availability + w.Distance
}

// Validate checks that weights are non-negative and sum to 1.0 within tol.
func (w WeightSet) Validate(tol float64) error {
	return topsis.ValidateWeights(w.asList(), tol)
}

func (w WeightSet) asList() []float64 {
	return []float64{w.Service, w.Availability, w.Distance}
}

// Criteria returns the decision matrix columns: both sentiment scores are
// benefits, distance is always a cost.
func Criteria(w WeightSet) []topsis.Criterion {
	return []topsis.Criterion{
		{Name: CriterionService, Orientation: topsis.Benefit, Weight: w.Service},
		{Name: CriterionAvailability, Orientation: topsis.Benefit, Weight: w.Availability},
		{Name: CriterionDistance, Orientation: topsis.Cost, Weight: w.Distance},
	}
}

// ParseWeights reads "service,availability,distance", e.g. "0.45,0.25,0.30".
func ParseWeights(s string) (WeightSet, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return WeightSet{}, fmt.Errorf("%w: expected 3 comma separated weights, got %d", topsis.ErrInvalidWeights, len(parts))
	}
	var v [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return WeightSet{}, fmt.Errorf("%w: %q is not a number", topsis.ErrInvalidWeights, p)
		}
		v[i] = f
	}
	return WeightSet{Service: v[0], Availability: v[1], Distance: v[2]}, nil
}
