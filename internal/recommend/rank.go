package recommend

import (
	"time"

	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/insight"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/metrics"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/topsis"
)

// Row is one pharmacy of the joined table: sentiment scores plus distance.
type Row struct {
	Name           string  `json:"name"`
	Address        string  `json:"address,omitempty"`
	Service        float64 `json:"service"`
	Availability   float64 `json:"availability"`
	DistanceMeters float64 `json:"distance_meters"`
	DistanceText   string  `json:"distance_text,omitempty"`
}

// Entry is a ranked row ready for display.
type Entry struct {
	Name           string       `json:"name"`
	Address        string       `json:"address,omitempty"`
	Service        insight.Band `json:"service"`
	Availability   insight.Band `json:"availability"`
	DistanceMeters float64      `json:"distance_meters"`
	DistanceText   string       `json:"distance_text,omitempty"`
	Score          float64      `json:"score"`
	Rank           int          `json:"rank"`
	OnFrontier     bool         `json:"on_frontier"`
}

type RankOptions struct {
	Normalization   topsis.Normalization
	WeightTolerance float64
	Thresholds      insight.Thresholds
	Filter          insight.Filter
}

type Result struct {
	Entries           []Entry              `json:"entries"`
	Total             int                  `json:"total"`
	DegenerateColumns []string             `json:"degenerate_columns,omitempty"`
	Normalization     topsis.Normalization `json:"normalization"`
}

// Rank scores the joined rows and returns them sorted by rank. Filtering is
// applied after ranking, so ranks always refer to the full candidate set.
func Rank(rows []Row, w WeightSet, opts RankOptions) (*Result, error) {
	alts := make([]topsis.Alternative, len(rows))
	for i, r := range rows {
		alts[i] = topsis.Alternative{
			ID:     r.Name,
			Values: []float64{r.Service, r.Availability, r.DistanceMeters},
		}
	}
	m, err := topsis.NewMatrix(Criteria(w), alts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	ranking, err := topsis.Score(m, topsis.Options{
		Normalization:   opts.Normalization,
		WeightTolerance: opts.WeightTolerance,
	})
	metrics.TopsisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	frontier := make(map[int]bool)
	for _, i := range topsis.Frontier(m) {
		frontier[i] = true
	}

	res := &Result{
		Entries:           []Entry{},
		Total:             len(rows),
		DegenerateColumns: ranking.DegenerateColumns,
		Normalization:     ranking.Normalization,
	}
	for _, r := range ranking.ByRank() {
		row := rows[r.Index]
		e := Entry{
			Name:           row.Name,
			Address:        row.Address,
			Service:        opts.Thresholds.Band(insight.Service, row.Service),
			Availability:   opts.Thresholds.Band(insight.Availability, row.Availability),
			DistanceMeters: row.DistanceMeters,
			DistanceText:   row.DistanceText,
			Score:          r.Score,
			Rank:           r.Rank,
			OnFrontier:     frontier[r.Index],
		}
		if !opts.Filter.Keep(e.Service.Level, e.Availability.Level) {
			continue
		}
		res.Entries = append(res.Entries, e)
	}
	return res, nil
}
