package recommend

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/sentiment"
)

// Header cells of an uploaded joined table.
const (
	ColumnName         = "destination"
	ColumnAddress      = "address"
	ColumnService      = "service_facility"
	ColumnAvailability = "availability_price"
	ColumnDistance     = "distance_value"
	ColumnDistanceText = "distance_text"
)

// LoadTable parses a joined table. Rows with an empty name or a missing or
// non-numeric score or distance cell are returned as exclusions.
func LoadTable(r io.Reader) ([]Row, []Exclusion, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []Row{}, []Exclusion{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read table header: %v", ErrInvalidRequest, err)
	}
	pos, err := sentiment.HeaderIndex(header, ColumnName, ColumnService, ColumnAvailability, ColumnDistance)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	optional := func(name string) int {
		p, err := sentiment.HeaderIndex(header, name)
		if err != nil {
			return -1
		}
		return p[0]
	}
	addrPos, textPos := optional(ColumnAddress), optional(ColumnDistanceText)

	rows := []Row{}
	excluded := []Exclusion{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: read table line %d: %v", ErrInvalidRequest, line, err)
		}

		name := strings.TrimSpace(sentiment.Cell(rec, pos[0]))
		if name == "" {
			excluded = append(excluded, Exclusion{Name: fmt.Sprintf("line %d", line), Reason: "missing destination"})
			continue
		}
		var missing []string
		service, ok := sentiment.ParseScore(sentiment.Cell(rec, pos[1]))
		if !ok {
			missing = append(missing, ColumnService)
		}
		avail, ok := sentiment.ParseScore(sentiment.Cell(rec, pos[2]))
		if !ok {
			missing = append(missing, ColumnAvailability)
		}
		dist, ok := sentiment.ParseScore(sentiment.Cell(rec, pos[3]))
		if !ok {
			missing = append(missing, ColumnDistance)
		}
		if len(missing) > 0 {
			excluded = append(excluded, Exclusion{Name: name, Reason: "missing " + strings.Join(missing, ", ")})
			continue
		}

		rows = append(rows, Row{
			Name:           name,
			Address:        strings.TrimSpace(sentiment.Cell(rec, addrPos)),
			Service:        service,
			Availability:   avail,
			DistanceMeters: dist,
			DistanceText:   strings.TrimSpace(sentiment.Cell(rec, textPos)),
		})
	}
	return rows, excluded, nil
}

// RowInput is a joined row as submitted in a JSON body. A nil criterion field
// marks a missing value.
type RowInput struct {
	Name           string   `json:"name"`
	Address        string   `json:"address,omitempty"`
	Service        *float64 `json:"service"`
	Availability   *float64 `json:"availability"`
	DistanceMeters *float64 `json:"distance_meters"`
	DistanceText   string   `json:"distance_text,omitempty"`
}

// SplitRows applies the LoadTable exclusion rules to submitted rows.
func SplitRows(in []RowInput) ([]Row, []Exclusion) {
	rows := []Row{}
	excluded := []Exclusion{}
	for i, r := range in {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			excluded = append(excluded, Exclusion{Name: fmt.Sprintf("row %d", i+1), Reason: "missing destination"})
			continue
		}
		var missing []string
		if r.Service == nil {
			missing = append(missing, ColumnService)
		}
		if r.Availability == nil {
			missing = append(missing, ColumnAvailability)
		}
		if r.DistanceMeters == nil {
			missing = append(missing, ColumnDistance)
		}
		if len(missing) > 0 {
			excluded = append(excluded, Exclusion{Name: name, Reason: "missing " + strings.Join(missing, ", ")})
			continue
		}
		rows = append(rows, Row{
			Name:           name,
			Address:        strings.TrimSpace(r.Address),
			Service:        *r.Service,
			Availability:   *r.Availability,
			DistanceMeters: *r.DistanceMeters,
			DistanceText:   strings.TrimSpace(r.DistanceText),
		})
	}
	return rows, excluded
}
