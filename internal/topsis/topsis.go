// Package topsis ranks alternatives with the Technique for Order Preference by
// Similarity to Ideal Solution.
package topsis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultTieTolerance = 1e-12
	DefaultNeutralScore = 0.5
)

// Options configures a single scoring call. Normalization has no default and
// must be chosen explicitly.
type Options struct {
	Normalization       Normalization
	WeightTolerance     float64
	TieTolerance        float64
	NeutralScore        *float64
	RequireAlternatives bool
}

func (o Options) tieTolerance() float64 {
	if o.TieTolerance <= 0 {
		return DefaultTieTolerance
	}
	return o.TieTolerance
}

func (o Options) neutralScore() float64 {
	if o.NeutralScore == nil {
		return DefaultNeutralScore
	}
	return *o.NeutralScore
}

// Result is the outcome for one alternative.
type Result struct {
	ID            string  `json:"id"`
	Index         int     `json:"index"`
	Score         float64 `json:"score"`
	Rank          int     `json:"rank"`
	DistanceBest  float64 `json:"distance_best"`
	DistanceWorst float64 `json:"distance_worst"`
}

// Ranking holds per-alternative results in input order.
type Ranking struct {
	Results           []Result      `json:"results"`
	DegenerateColumns []string      `json:"degenerate_columns,omitempty"`
	Normalization     Normalization `json:"normalization"`
}

// InInputOrder returns the results aligned with the matrix rows.
func (r *Ranking) InInputOrder() []Result {
	return append([]Result(nil), r.Results...)
}

// ByRank returns the results sorted by rank ascending, ties by input index.
func (r *Ranking) ByRank() []Result {
	out := r.InInputOrder()
	sortByRank(out)
	return out
}

// DegenerateErr returns a *DegenerateColumnError when any column was
// neutralised, nil otherwise.
func (r *Ranking) DegenerateErr() error {
	if len(r.DegenerateColumns) == 0 {
		return nil
	}
	return &DegenerateColumnError{Columns: r.DegenerateColumns, Normalization: r.Normalization}
}

// Score ranks the matrix using the weights and orientations of its criteria.
func Score(m *Matrix, opts Options) (*Ranking, error) {
	return ScoreWith(m, weightsOf(m.criteria), orientationsOf(m.criteria), opts)
}

// ScoreWith ranks the matrix with explicit weight and orientation vectors,
// aligned positionally with the matrix columns.
//
//	r_ij = x_ij / sqrt(sum_i x_ij^2)          (vector)
//	r_ij = (x_ij - min_j) / (max_j - min_j)   (min-max)
//	v_ij = w_j * r_ij
//	D+_i = ||v_i - A+||, D-_i = ||v_i - A-||
//	C_i  = D-_i / (D+_i + D-_i)
func ScoreWith(m *Matrix, weights []float64, orientations []Orientation, opts Options) (*Ranking, error) {
	cols := m.Cols()
	if len(weights) != cols {
		return nil, fmt.Errorf("%w: %d weights for %d criteria", ErrShapeMismatch, len(weights), cols)
	}
	if len(orientations) != cols {
		return nil, fmt.Errorf("%w: %d orientations for %d criteria", ErrShapeMismatch, len(orientations), cols)
	}
	for j, o := range orientations {
		if o != Benefit && o != Cost {
			return nil, fmt.Errorf("%w: %q at column %d", ErrUnknownOrientation, o, j)
		}
	}
	if opts.Normalization != Vector && opts.Normalization != MinMax {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNormalization, opts.Normalization)
	}
	if err := ValidateWeights(weights, opts.WeightTolerance); err != nil {
		return nil, err
	}

	ranking := &Ranking{Results: []Result{}, Normalization: opts.Normalization}
	rows := m.Rows()
	if rows == 0 {
		if opts.RequireAlternatives {
			return nil, fmt.Errorf("%w: no alternatives to rank", ErrEmptyInput)
		}
		return ranking, nil
	}

	// 1-2. normalize and weight
	weighted := mat.NewDense(rows, cols, nil)
	for j := 0; j < cols; j++ {
		col := m.column(j)
		if !normalizeColumn(col, opts.Normalization) {
			ranking.DegenerateColumns = append(ranking.DegenerateColumns, m.criteria[j].Name)
		}
		floats.Scale(weights[j], col)
		weighted.SetCol(j, col)
	}

	// 3. ideal best and worst
	best, worst := idealVectors(weighted, orientations)

	// 4-5. separation and closeness
	neutral := opts.neutralScore()
	ranking.Results = make([]Result, rows)
	row := make([]float64, cols)
	for i := 0; i < rows; i++ {
		mat.Row(row, i, weighted)
		dBest := floats.Distance(row, best, 2)
		dWorst := floats.Distance(row, worst, 2)

		score := neutral
		if denom := dBest + dWorst; denom != 0 {
			score = dWorst / denom
		}
		ranking.Results[i] = Result{
			ID:            m.ids[i],
			Index:         i,
			Score:         score,
			DistanceBest:  dBest,
			DistanceWorst: dWorst,
		}
	}

	// 6. rank
	assignRanks(ranking.Results, opts.tieTolerance())
	return ranking, nil
}

// normalizeColumn rescales col in place. It reports false when the column is
// degenerate, in which case every cell is set to 0.
func normalizeColumn(col []float64, n Normalization) bool {
	// Both rescalings are scale invariant, so dividing by the largest
	// magnitude first keeps the norm and span finite near MaxFloat64.
	if peak := math.Max(floats.Max(col), -floats.Min(col)); peak > 0 {
		for i := range col {
			col[i] /= peak
		}
	}
	switch n {
	case MinMax:
		lo, hi := floats.Min(col), floats.Max(col)
		span := hi - lo
		if span == 0 {
			zero(col)
			return false
		}
		for i := range col {
			col[i] = (col[i] - lo) / span
		}
	default:
		norm := floats.Norm(col, 2)
		if norm == 0 {
			zero(col)
			return false
		}
		floats.Scale(1/norm, col)
	}
	return true
}

func zero(s []float64) {
	for i := range s {
		s[i] = 0
	}
}

// idealVectors returns the per-column best and worst weighted values given
// each column's orientation.
func idealVectors(weighted *mat.Dense, orientations []Orientation) (best, worst []float64) {
	_, cols := weighted.Dims()
	best = make([]float64, cols)
	worst = make([]float64, cols)
	for j := 0; j < cols; j++ {
		col := mat.Col(nil, j, weighted)
		hi, lo := floats.Max(col), floats.Min(col)
		if orientations[j] == Cost {
			best[j], worst[j] = lo, hi
		} else {
			best[j], worst[j] = hi, lo
		}
	}
	return best, worst
}
