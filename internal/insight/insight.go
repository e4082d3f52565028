// Package insight maps raw sentiment scores to qualitative bands.
package insight

import (
	"fmt"
	"strings"
)

type Level string

const (
	Excellent        Level = "excellent"
	Good             Level = "good"
	NeedsImprovement Level = "needs_improvement"
)

type Aspect string

const (
	Service      Aspect = "service"
	Availability Aspect = "availability"
)

// Thresholds are inclusive lower bounds for each band.
type Thresholds struct {
	Excellent float64 `json:"excellent" yaml:"excellent"`
	Good      float64 `json:"good" yaml:"good"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{Excellent: 88, Good: 76}
}

func (t Thresholds) Validate() error {
	if t.Good > t.Excellent {
		return fmt.Errorf("good threshold %.2f above excellent threshold %.2f", t.Good, t.Excellent)
	}
	return nil
}

// Classify returns the band for score.
func (t Thresholds) Classify(score float64) Level {
	switch {
	case score >= t.Excellent:
		return Excellent
	case score >= t.Good:
		return Good
	default:
		return NeedsImprovement
	}
}

var labels = map[Aspect]map[Level]string{
	Service: {
		Excellent:        "excellent service",
		Good:             "good service",
		NeedsImprovement: "service needs improvement",
	},
	Availability: {
		Excellent:        "complete stock, affordable prices",
		Good:             "fairly complete stock, fair prices",
		NeedsImprovement: "availability or price needs improvement",
	},
}

// Label returns the display text for an aspect's band.
func Label(a Aspect, l Level) string {
	if s, ok := labels[a][l]; ok {
		return s
	}
	return string(l)
}

// Band is a classified score ready for display.
type Band struct {
	Score float64 `json:"score"`
	Level Level   `json:"level"`
	Label string  `json:"label"`
}

func (t Thresholds) Band(a Aspect, score float64) Band {
	l := t.Classify(score)
	return Band{Score: score, Level: l, Label: Label(a, l)}
}

// Filter narrows a result list by insight band.
type Filter string

const (
	FilterNone         Filter = "none"
	FilterAll          Filter = "all"
	FilterService      Filter = "service"
	FilterAvailability Filter = "availability"
)

func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FilterNone:
		return FilterNone, nil
	case FilterAll, FilterService, FilterAvailability:
		return f, nil
	default:
		return "", fmt.Errorf("unknown insight filter %q", s)
	}
}

// Keep reports whether an entry with the given bands survives the filter.
// FilterAll keeps only entries excellent on both aspects; the aspect filters
// keep every entry that carries a band for that aspect.
func (f Filter) Keep(service, availability Level) bool {
	switch f {
	case FilterAll:
		return service == Excellent && availability == Excellent
	case FilterService:
		return validLevel(service)
	case FilterAvailability:
		return validLevel(availability)
	default:
		return true
	}
}

func validLevel(l Level) bool {
	return l == Excellent || l == Good || l == NeedsImprovement
}
