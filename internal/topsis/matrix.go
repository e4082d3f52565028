package topsis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Alternative is one candidate row of the decision matrix.
type Alternative struct {
	ID     string    `json:"id"`
	Values []float64 `json:"values"`
}

// Matrix is an immutable alternatives x criteria decision matrix.
type Matrix struct {
	criteria []Criterion
	ids      []string
	data     *mat.Dense // nil when there are no alternatives
}

// NewMatrix validates and copies the inputs into a decision matrix. Rows with
// missing values must be dropped by the caller; every cell has to be finite.
func NewMatrix(criteria []Criterion, alternatives []Alternative) (*Matrix, error) {
	m := len(criteria)
	if m == 0 {
		return nil, fmt.Errorf("%w: at least one criterion required", ErrShapeMismatch)
	}

	seen := make(map[string]bool, m)
	for _, c := range criteria {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: criterion name required", ErrShapeMismatch)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCriterion, c.Name)
		}
		seen[c.Name] = true
		if c.Orientation != Benefit && c.Orientation != Cost {
			return nil, fmt.Errorf("%w: %q for criterion %s", ErrUnknownOrientation, c.Orientation, c.Name)
		}
	}

	mx := &Matrix{
		criteria: append([]Criterion(nil), criteria...),
		ids:      make([]string, 0, len(alternatives)),
	}
	if len(alternatives) == 0 {
		return mx, nil
	}

	ids := make(map[string]bool, len(alternatives))
	data := make([]float64, 0, len(alternatives)*m)
	for i, a := range alternatives {
		if ids[a.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAlternative, a.ID)
		}
		ids[a.ID] = true
		if len(a.Values) != m {
			return nil, fmt.Errorf("%w: alternative %d (%s) has %d values, want %d", ErrShapeMismatch, i, a.ID, len(a.Values), m)
		}
		for j, v := range a.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: alternative %s, criterion %s", ErrNonFinite, a.ID, criteria[j].Name)
			}
		}
		mx.ids = append(mx.ids, a.ID)
		data = append(data, a.Values...)
	}
	mx.data = mat.NewDense(len(alternatives), m, data)
	return mx, nil
}

// Rows returns the number of alternatives.
func (m *Matrix) Rows() int { return len(m.ids) }

// Cols returns the number of criteria.
func (m *Matrix) Cols() int { return len(m.criteria) }

// Criteria returns a copy of the criteria in column order.
func (m *Matrix) Criteria() []Criterion { return append([]Criterion(nil), m.criteria...) }

// IDs returns a copy of the alternative identifiers in row order.
func (m *Matrix) IDs() []string { return append([]string(nil), m.ids...) }

// At returns the raw value of alternative i on criterion j.
func (m *Matrix) At(i, j int) float64 { return m.data.At(i, j) }

func (m *Matrix) column(j int) []float64 {
	return mat.Col(nil, j, m.data)
}
