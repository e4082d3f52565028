// Package sentiment loads the static per-pharmacy sentiment dataset.
package sentiment

import (
	"context"
	"errors"
	"fmt"
)

var ErrDuplicateName = errors.New("duplicate pharmacy name")

// Record holds the aspect sentiment scores of one pharmacy (observed 0-100).
type Record struct {
	Name         string  `json:"name"`
	Address      string  `json:"address,omitempty"`
	Service      float64 `json:"service"`
	Availability float64 `json:"availability"`
}

// Source is a read-only sentiment dataset.
type Source interface {
	Load(ctx context.Context) ([]Record, error)
}

// Index keys records by pharmacy name.
func Index(records []Record) (map[string]Record, error) {
	idx := make(map[string]Record, len(records))
	for _, r := range records {
		if _, ok := idx[r.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, r.Name)
		}
		idx[r.Name] = r
	}
	return idx, nil
}

// Static serves a fixed slice of records.
type Static []Record

func (s Static) Load(_ context.Context) ([]Record, error) {
	return append([]Record(nil), s...), nil
}
