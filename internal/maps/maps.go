// Package maps resolves addresses to coordinates and looks up travel
// distances to pharmacies.
package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("address not found")
	ErrNotComputable = errors.New("distance not computable")
)

type TravelMode string

const (
	Driving   TravelMode = "driving"
	Walking   TravelMode = "walking"
	Bicycling TravelMode = "bicycling"
	Transit   TravelMode = "transit"
)

func ParseTravelMode(s string) (TravelMode, error) {
	switch m := TravelMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return Driving, nil
	case Driving, Walking, Bicycling, Transit:
		return m, nil
	default:
		return "", fmt.Errorf("unknown travel mode %q", s)
	}
}

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lng)
}

// Destination is a pharmacy to measure against. Coordinate takes precedence
// over Address, which takes precedence over Name.
type Destination struct {
	Name       string      `json:"name"`
	Address    string      `json:"address,omitempty"`
	Coordinate *Coordinate `json:"coordinate,omitempty"`
}

func (d Destination) query() string {
	switch {
	case d.Coordinate != nil:
		return d.Coordinate.String()
	case d.Address != "":
		return d.Name + ", " + d.Address
	default:
		return d.Name
	}
}

type Distance struct {
	Meters float64 `json:"meters"`
	Text   string  `json:"text"`
}

func (d Distance) Kilometers() float64 { return d.Meters / 1000 }

type Geocoder interface {
	Geocode(ctx context.Context, address string, mode TravelMode) (Coordinate, error)
}

type DistanceLookup interface {
	Distance(ctx context.Context, origin Coordinate, dest Destination, mode TravelMode) (Distance, error)
}
