package sentiment

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Columns names the CSV header cells holding each field.
type Columns struct {
	Name         string `yaml:"name"`
	Address      string `yaml:"address"`
	Service      string `yaml:"service"`
	Availability string `yaml:"availability"`
}

func DefaultColumns() Columns {
	return Columns{
		Name:         "destination",
		Address:      "address",
		Service:      "service_facility",
		Availability: "availability_price",
	}
}

// CSVSource reads the dataset from a CSV file with a header row.
type CSVSource struct {
	Path    string
	Columns Columns
}

func NewCSVSource(path string, cols Columns) *CSVSource {
	return &CSVSource{Path: path, Columns: cols}
}

func (s *CSVSource) Load(_ context.Context) ([]Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open sentiment csv: %w", err)
	}
	defer f.Close()

	records, _, err := ReadCSV(f, s.Columns)
	return records, err
}

// ReadCSV parses sentiment rows. Rows whose name is empty or whose score cells
// are empty or non-numeric are skipped; the number skipped is returned.
func ReadCSV(r io.Reader, cols Columns) ([]Record, int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return []Record{}, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}
	pos, err := HeaderIndex(header, cols.Name, cols.Service, cols.Availability)
	if err != nil {
		return nil, 0, err
	}
	addrPos := -1
	if cols.Address != "" {
		if p, err := HeaderIndex(header, cols.Address); err == nil {
			addrPos = p[0]
		}
	}

	var (
		out     []Record
		skipped int
		seen    = make(map[string]bool)
	)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read csv line %d: %w", line, err)
		}

		name := strings.TrimSpace(Cell(row, pos[0]))
		service, okS := ParseScore(Cell(row, pos[1]))
		avail, okA := ParseScore(Cell(row, pos[2]))
		if name == "" || !okS || !okA {
			skipped++
			continue
		}
		if seen[name] {
			return nil, 0, fmt.Errorf("%w: %s (line %d)", ErrDuplicateName, name, line)
		}
		seen[name] = true
		out = append(out, Record{
			Name:         name,
			Address:      strings.TrimSpace(Cell(row, addrPos)),
			Service:      service,
			Availability: avail,
		})
	}
	if out == nil {
		out = []Record{}
	}
	return out, skipped, nil
}

// HeaderIndex resolves column names to positions, case-insensitively.
func HeaderIndex(header []string, names ...string) ([]int, error) {
	lookup := make(map[string]int, len(header))
	for i, h := range header {
		lookup[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	out := make([]int, len(names))
	for i, n := range names {
		p, ok := lookup[strings.ToLower(n)]
		if !ok {
			return nil, fmt.Errorf("csv column %q not found", n)
		}
		out[i] = p
	}
	return out, nil
}

// Cell returns row[i], or "" when i is out of range.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// ParseScore parses a finite float. A single comma followed by one or two
// digits is read as a decimal mark, so "12,5" is 12.5; any other comma, as in
// "1,500" or "1,234.5", makes the cell non-numeric.
func ParseScore(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		frac := s[i+1:]
		if strings.ContainsAny(frac, ",.") || len(frac) < 1 || len(frac) > 2 || strings.Trim(frac, "0123456789") != "" {
			return 0, false
		}
		s = s[:i] + "." + frac
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
