package topsis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pharmacyCriteria(ws, wa, wd float64) []Criterion {
	return []Criterion{
		{Name: "service", Orientation: Benefit, Weight: ws},
		{Name: "availability", Orientation: Benefit, Weight: wa},
		{Name: "distance", Orientation: Cost, Weight: wd},
	}
}

func alternatives(rows ...[]float64) []Alternative {
	out := make([]Alternative, len(rows))
	for i, r := range rows {
		out[i] = Alternative{ID: string(rune('A' + i)), Values: r}
	}
	return out
}

func mustMatrix(t *testing.T, criteria []Criterion, alts []Alternative) *Matrix {
	t.Helper()
	m, err := NewMatrix(criteria, alts)
	require.NoError(t, err)
	return m
}

func scores(r *Ranking) []float64 {
	out := make([]float64, len(r.Results))
	for i, res := range r.Results {
		out[i] = res.Score
	}
	return out
}

func ranks(r *Ranking) []int {
	out := make([]int, len(r.Results))
	for i, res := range r.Results {
		out[i] = res.Rank
	}
	return out
}

func TestScoreConcreteScenario(t *testing.T) {
	m := mustMatrix(t, pharmacyCriteria(0.45, 0.25, 0.30), alternatives(
		[]float64{88, 90, 2000},
		[]float64{76, 80, 500},
		[]float64{95, 60, 10000},
	))

	r, err := Score(m, Options{Normalization: Vector})
	require.NoError(t, err)

	want := []float64{0.8334367620847585, 0.8245978656450025, 0.16670220537804253}
	for i, s := range scores(r) {
		assert.InDelta(t, want[i], s, 1e-9, "alternative %d", i)
	}
	assert.Equal(t, []int{1, 2, 3}, ranks(r))
	// 500 m beats 10 km despite the lower raw service score.
	assert.Less(t, r.Results[1].Rank, r.Results[2].Rank)
	assert.Empty(t, r.DegenerateColumns)
	assert.NoError(t, r.DegenerateErr())
}

func TestScoreConcreteScenarioMinMax(t *testing.T) {
	m := mustMatrix(t, pharmacyCriteria(0.45, 0.25, 0.30), alternatives(
		[]float64{88, 90, 2000},
		[]float64{76, 80, 500},
		[]float64{95, 60, 10000},
	))

	r, err := Score(m, Options{Normalization: MinMax})
	require.NoError(t, err)

	want := []float64{0.7252231228470847, 0.42853533492627066, 0.5353876458420055}
	for i, s := range scores(r) {
		assert.InDelta(t, want[i], s, 1e-9, "alternative %d", i)
	}
	assert.Equal(t, MinMax, r.Normalization)
}

func TestScoreCostOrientation(t *testing.T) {
	for _, n := range []Normalization{Vector, MinMax} {
		t.Run(string(n), func(t *testing.T) {
			m := mustMatrix(t, []Criterion{{Name: "distance", Orientation: Cost, Weight: 1.0}},
				alternatives([]float64{10}, []float64{5}, []float64{1}))

			r, err := Score(m, Options{Normalization: n})
			require.NoError(t, err)
			assert.Equal(t, []int{3, 2, 1}, ranks(r))
			assert.InDelta(t, 0.0, r.Results[0].Score, 1e-12)
			assert.InDelta(t, 1.0, r.Results[2].Score, 1e-12)
		})
	}
}

func TestScoreSingleAlternativeUsesNeutralScore(t *testing.T) {
	m := mustMatrix(t, pharmacyCriteria(0.45, 0.25, 0.30), alternatives([]float64{88, 90, 2000}))

	r, err := Score(m, Options{Normalization: Vector})
	require.NoError(t, err)
	require.Len(t, r.Results, 1)
	assert.Equal(t, DefaultNeutralScore, r.Results[0].Score)
	assert.Equal(t, 1, r.Results[0].Rank)

	custom := 0.0
	r, err = Score(m, Options{Normalization: Vector, NeutralScore: &custom})
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.Results[0].Score)
}

func TestScoreIdenticalAlternatives(t *testing.T) {
	m := mustMatrix(t, pharmacyCriteria(0.45, 0.25, 0.30), alternatives(
		[]float64{80, 80, 1000},
		[]float64{80, 80, 1000},
		[]float64{80, 80, 1000},
	))

	r, err := Score(m, Options{Normalization: MinMax})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1}, ranks(r))
	for _, s := range scores(r) {
		assert.Equal(t, DefaultNeutralScore, s)
	}
	assert.Equal(t, []string{"service", "availability", "distance"}, r.DegenerateColumns)

	var dce *DegenerateColumnError
	err = r.DegenerateErr()
	require.True(t, errors.As(err, &dce))
	assert.True(t, errors.Is(err, ErrDegenerateColumn))
	assert.Len(t, dce.Columns, 3)
}

func TestScoreDegenerateColumnIsNeutralised(t *testing.T) {
	t.Run("minmax zero range", func(t *testing.T) {
		m := mustMatrix(t, pharmacyCriteria(0.45, 0.25, 0.30), alternatives(
			[]float64{88, 70, 2000},
			[]float64{76, 70, 500},
			[]float64{95, 70, 10000},
		))
		r, err := Score(m, Options{Normalization: MinMax})
		require.NoError(t, err)
		assert.Equal(t, []string{"availability"}, r.DegenerateColumns)
		for _, s := range scores(r) {
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	})

	t.Run("vector zero norm", func(t *testing.T) {
		m := mustMatrix(t, pharmacyCriteria(0.45, 0.25, 0.30), alternatives(
			[]float64{88, 0, 2000},
			[]float64{76, 0, 500},
		))
		r, err := Score(m, Options{Normalization: Vector})
		require.NoError(t, err)
		assert.Equal(t, []string{"availability"}, r.DegenerateColumns)
		for _, s := range scores(r) {
			assert.False(t, math.IsNaN(s))
		}
	})
}

func TestScoreNearMaxFloat(t *testing.T) {
	criteria := []Criterion{{Name: "volume", Orientation: Benefit, Weight: 1}}
	alts := alternatives([]float64{1.5e308}, []float64{-1.5e308}, []float64{0})

	for _, n := range []Normalization{Vector, MinMax} {
		t.Run(string(n), func(t *testing.T) {
			r, err := Score(mustMatrix(t, criteria, alts), Options{Normalization: n})
			require.NoError(t, err)
			assert.Empty(t, r.DegenerateColumns)
			got := scores(r)
			assert.InDelta(t, 1.0, got[0], 1e-12)
			assert.InDelta(t, 0.0, got[1], 1e-12)
			assert.InDelta(t, 0.5, got[2], 1e-12)
			assert.Equal(t, []int{1, 3, 2}, ranks(r))
		})
	}
}

func TestScoreEmptyInput(t *testing.T) {
	m := mustMatrix(t, pharmacyCriteria(0.45, 0.25, 0.30), nil)

	r, err := Score(m, Options{Normalization: Vector})
	require.NoError(t, err)
	assert.Empty(t, r.Results)
	assert.Empty(t, r.ByRank())

	_, err = Score(m, Options{Normalization: Vector, RequireAlternatives: true})
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestScoreInvalidWeights(t *testing.T) {
	tests := []struct {
		name    string
		weights [3]float64
	}{
		{"sum above one", [3]float64{0.5, 0.3, 0.3}},
		{"sum below one", [3]float64{0.3, 0.3, 0.3}},
		{"negative", [3]float64{1.2, -0.5, 0.3}},
		{"nan", [3]float64{math.NaN(), 0.5, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMatrix(t, pharmacyCriteria(tt.weights[0], tt.weights[1], tt.weights[2]),
				alternatives([]float64{88, 90, 2000}, []float64{76, 80, 500}))
			_, err := Score(m, Options{Normalization: Vector})
			assert.ErrorIs(t, err, ErrInvalidWeights)
		})
	}
}

func TestScoreWeightTolerance(t *testing.T) {
	// 0.1 + 0.2 + 0.7 is not exactly 1.0 in binary floating point.
	m := mustMatrix(t, pharmacyCriteria(0.1, 0.2, 0.7), alternatives([]float64{88, 90, 2000}, []float64{76, 80, 500}))
	_, err := Score(m, Options{Normalization: Vector})
	assert.NoError(t, err)

	m = mustMatrix(t, pharmacyCriteria(0.45, 0.25, 0.299), alternatives([]float64{88, 90, 2000}, []float64{76, 80, 500}))
	_, err = Score(m, Options{Normalization: Vector})
	assert.ErrorIs(t, err, ErrInvalidWeights)
	_, err = Score(m, Options{Normalization: Vector, WeightTolerance: 0.01})
	assert.NoError(t, err)
}

func TestScoreWithShapeMismatch(t *testing.T) {
	m := mustMatrix(t, pharmacyCriteria(0.45, 0.25, 0.30), alternatives([]float64{88, 90, 2000}))

	_, err := ScoreWith(m, []float64{0.5, 0.5}, []Orientation{Benefit, Benefit, Cost}, Options{Normalization: Vector})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = ScoreWith(m, []float64{0.45, 0.25, 0.30}, []Orientation{Benefit, Cost}, Options{Normalization: Vector})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = ScoreWith(m, []float64{0.45, 0.25, 0.30}, []Orientation{Benefit, Benefit, "sideways"}, Options{Normalization: Vector})
	assert.ErrorIs(t, err, ErrUnknownOrientation)
}

func TestScoreRequiresExplicitNormalization(t *testing.T) {
	m := mustMatrix(t, pharmacyCriteria(0.45, 0.25, 0.30), alternatives([]float64{88, 90, 2000}))
	_, err := Score(m, Options{})
	assert.ErrorIs(t, err, ErrUnknownNormalization)
}

func TestRankingByRank(t *testing.T) {
	m := mustMatrix(t, pharmacyCriteria(0.45, 0.25, 0.30), alternatives(
		[]float64{95, 60, 10000},
		[]float64{88, 90, 2000},
		[]float64{76, 80, 500},
	))
	r, err := Score(m, Options{Normalization: Vector})
	require.NoError(t, err)

	sorted := r.ByRank()
	require.Len(t, sorted, 3)
	assert.Equal(t, "B", sorted[0].ID)
	assert.Equal(t, "C", sorted[1].ID)
	assert.Equal(t, "A", sorted[2].ID)

	// input order view is untouched
	assert.Equal(t, "A", r.InInputOrder()[0].ID)
	assert.Equal(t, 0, r.Results[0].Index)
}

func TestMinRank(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   []int
	}{
		{"documented example", []float64{0.9, 0.7, 0.7, 0.5}, []int{1, 2, 2, 4}},
		{"unsorted input", []float64{0.5, 0.7, 0.9, 0.7}, []int{4, 2, 1, 2}},
		{"all tied", []float64{0.3, 0.3, 0.3}, []int{1, 1, 1}},
		{"within tolerance", []float64{0.7, 0.7 + 1e-14, 0.1}, []int{1, 1, 3}},
		{"empty", nil, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MinRank(tt.scores, 0))
		})
	}
}

func TestMinRankDoesNotChainTies(t *testing.T) {
	// Each neighbour is within tolerance but the ends are not.
	got := MinRank([]float64{1.0, 0.9, 0.8}, 0.15)
	assert.Equal(t, []int{1, 1, 3}, got)
}
