package maps

import (
	"context"
	"fmt"
	"math"
)

const earthRadiusMeters = 6371008.8

// HaversineLookup measures great-circle distance. It needs a destination
// coordinate and ignores the travel mode.
type HaversineLookup struct{}

func (HaversineLookup) Distance(_ context.Context, origin Coordinate, dest Destination, _ TravelMode) (Distance, error) {
	if dest.Coordinate == nil {
		return Distance{}, fmt.Errorf("%w: %s has no coordinate", ErrNotComputable, dest.Name)
	}
	m := Haversine(origin, *dest.Coordinate)
	return Distance{Meters: m, Text: fmt.Sprintf("%.1f km", m/1000)}, nil
}

// Haversine returns the great-circle distance between a and b in meters.
func Haversine(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// StaticGeocoder resolves from a fixed address book.
type StaticGeocoder map[string]Coordinate

func (g StaticGeocoder) Geocode(_ context.Context, address string, _ TravelMode) (Coordinate, error) {
	c, ok := g[address]
	if !ok {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrNotFound, address)
	}
	return c, nil
}

// Geocoded fills in missing destination coordinates through Geocoder before
// delegating to Lookup.
type Geocoded struct {
	Geocoder Geocoder
	Lookup   DistanceLookup
}

func (g Geocoded) Distance(ctx context.Context, origin Coordinate, dest Destination, mode TravelMode) (Distance, error) {
	if dest.Coordinate == nil {
		c, err := g.Geocoder.Geocode(ctx, dest.query(), mode)
		if err != nil {
			return Distance{}, fmt.Errorf("%w: geocode %s: %v", ErrNotComputable, dest.Name, err)
		}
		dest.Coordinate = &c
	}
	return g.Lookup.Distance(ctx, origin, dest, mode)
}
