package recommend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/config"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/events"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/insight"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/maps"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/sentiment"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/topsis"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Maps: config.MapsConfig{Mode: "driving", MaxConcurrentLookups: 2},
		Scoring: config.ScoringConfig{
			Weights:         config.ScoringWeights{Service: 0.45, Availability: 0.25, Distance: 0.30},
			Normalization:   "vector",
			WeightTolerance: 1e-9,
		},
		Insight: insight.DefaultThresholds(),
	}
}

var origin = maps.Coordinate{Lat: -2.2096, Lng: 113.9135}

var testGeocoder = maps.StaticGeocoder{"Bundaran Besar": origin}

var testRecords = sentiment.Static{
	{Name: "Apotek Kimia Farma", Service: 88, Availability: 90},
	{Name: "Apotek K-24", Service: 76, Availability: 80},
	{Name: "Apotek Sehat", Service: 95, Availability: 60},
	{Name: "Apotek Tutup", Service: 99, Availability: 99},
}

// tableLookup serves distances from a fixed table; missing names fail.
type tableLookup struct {
	meters   map[string]float64
	delay    time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (l *tableLookup) Distance(ctx context.Context, _ maps.Coordinate, dest maps.Destination, _ maps.TravelMode) (maps.Distance, error) {
	n := l.inFlight.Add(1)
	defer l.inFlight.Add(-1)
	for {
		p := l.peak.Load()
		if n <= p || l.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if l.delay > 0 {
		select {
		case <-time.After(l.delay):
		case <-ctx.Done():
			return maps.Distance{}, ctx.Err()
		}
	}
	m, ok := l.meters[dest.Name]
	if !ok {
		return maps.Distance{}, fmt.Errorf("%w: %s", maps.ErrNotComputable, dest.Name)
	}
	return maps.Distance{Meters: m, Text: fmt.Sprintf("%.1f km", m/1000)}, nil
}

func newTableLookup() *tableLookup {
	return &tableLookup{meters: map[string]float64{
		"Apotek Kimia Farma": 2000,
		"Apotek K-24":        500,
		"Apotek Sehat":       10000,
	}}
}

type mockEvents struct {
	mock.Mock
	mu sync.Mutex
}

func (m *mockEvents) Publish(subject string, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	args := m.Called(subject, data)
	return args.Error(0)
}

func (m *mockEvents) Close() {}

type failingSource struct{}

func (failingSource) Load(context.Context) ([]sentiment.Record, error) {
	return nil, errors.New("connection refused")
}

func suffix(s string) interface{} {
	return mock.MatchedBy(func(subject string) bool { return strings.HasSuffix(subject, s) })
}

func TestRecommend(t *testing.T) {
	ev := &mockEvents{}
	ev.On("Publish", suffix(".computed"), mock.MatchedBy(func(e events.RankingComputedEvent) bool {
		return e.TopChoice == "Apotek Kimia Farma" && e.Alternatives == 3 && e.Excluded == 1
	})).Return(nil).Once()

	svc := NewService(testGeocoder, newTableLookup(), testRecords, ev, testConfig(), discardLogger())
	rec, err := svc.Recommend(context.Background(), Request{Address: "Bundaran Besar"})
	require.NoError(t, err)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", rec.ID.String())
	assert.Equal(t, origin, rec.Origin)
	assert.Equal(t, maps.Driving, rec.Mode)
	assert.Equal(t, topsis.Vector, rec.Normalization)
	require.Len(t, rec.Entries, 3)
	assert.Equal(t, "Apotek Kimia Farma", rec.Entries[0].Name)
	assert.Equal(t, "Apotek K-24", rec.Entries[1].Name)
	assert.Equal(t, "Apotek Sehat", rec.Entries[2].Name)
	assert.Equal(t, "0.5 km", rec.Entries[1].DistanceText)

	require.Len(t, rec.Excluded, 1)
	assert.Equal(t, "Apotek Tutup", rec.Excluded[0].Name)
	assert.Contains(t, rec.Excluded[0].Reason, "not computable")
	assert.False(t, rec.ComputedAt.IsZero())

	ev.AssertExpectations(t)
}

func TestRecommendOverrides(t *testing.T) {
	svc := NewService(testGeocoder, newTableLookup(), testRecords, events.Nop{}, testConfig(), discardLogger())
	rec, err := svc.Recommend(context.Background(), Request{
		Address:       "Bundaran Besar",
		Mode:          maps.Walking,
		Weights:       &WeightSet{Service: 1, Availability: 0, Distance: 0},
		Normalization: topsis.MinMax,
		Filter:        insight.FilterService,
	})
	require.NoError(t, err)
	assert.Equal(t, maps.Walking, rec.Mode)
	assert.Equal(t, topsis.MinMax, rec.Normalization)
	require.NotEmpty(t, rec.Entries)
	assert.Equal(t, "Apotek Sehat", rec.Entries[0].Name)
}

func TestRecommendRequestErrors(t *testing.T) {
	tests := []struct {
		name   string
		req    Request
		target error
	}{
		{"missing address", Request{}, ErrInvalidRequest},
		{"unknown address", Request{Address: "Atlantis"}, maps.ErrNotFound},
		{"bad mode", Request{Address: "Bundaran Besar", Mode: "teleport"}, ErrInvalidRequest},
		{"bad weights", Request{Address: "Bundaran Besar", Weights: &WeightSet{Service: 0.9, Availability: 0.9}}, topsis.ErrInvalidWeights},
		{"bad normalization", Request{Address: "Bundaran Besar", Normalization: "zscore"}, topsis.ErrUnknownNormalization},
		{"bad filter", Request{Address: "Bundaran Besar", Filter: "weird"}, ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &mockEvents{}
			ev.On("Publish", suffix(".failed"), mock.AnythingOfType("events.RankingFailedEvent")).Return(nil).Once()

			svc := NewService(testGeocoder, newTableLookup(), testRecords, ev, testConfig(), discardLogger())
			_, err := svc.Recommend(context.Background(), tt.req)
			if !errors.Is(err, tt.target) {
				t.Fatalf("expected %v, got %v", tt.target, err)
			}
			if !IsRequestError(err) {
				t.Errorf("expected request error classification for %v", err)
			}
			ev.AssertExpectations(t)
		})
	}
}

func TestRecommendSourceFailure(t *testing.T) {
	svc := NewService(testGeocoder, newTableLookup(), failingSource{}, nil, testConfig(), discardLogger())
	_, err := svc.Recommend(context.Background(), Request{Address: "Bundaran Besar"})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if IsRequestError(err) {
		t.Error("source failure should not be a request error")
	}
}

func TestRecommendPublishFailureIgnored(t *testing.T) {
	ev := &mockEvents{}
	ev.On("Publish", mock.Anything, mock.Anything).Return(errors.New("nats down"))

	svc := NewService(testGeocoder, newTableLookup(), testRecords, ev, testConfig(), discardLogger())
	_, err := svc.Recommend(context.Background(), Request{Address: "Bundaran Besar"})
	assert.NoError(t, err)
}

func TestRecommendBoundedConcurrency(t *testing.T) {
	defer leaktest.Check(t)()

	records := sentiment.Static{}
	lookup := &tableLookup{meters: map[string]float64{}, delay: 5 * time.Millisecond}
	for i := 0; i < 12; i++ {
		name := fmt.Sprintf("Apotek %02d", i)
		records = append(records, sentiment.Record{Name: name, Service: float64(60 + i), Availability: float64(90 - i)})
		lookup.meters[name] = float64(100 * (i + 1))
	}

	svc := NewService(testGeocoder, lookup, records, nil, testConfig(), discardLogger())
	rec, err := svc.Recommend(context.Background(), Request{Address: "Bundaran Besar"})
	require.NoError(t, err)
	assert.Len(t, rec.Entries, 12)
	assert.LessOrEqual(t, lookup.peak.Load(), int32(2))
}

func TestRecommendCancelled(t *testing.T) {
	defer leaktest.Check(t)()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lookup := newTableLookup()
	lookup.delay = time.Second
	svc := NewService(testGeocoder, lookup, testRecords, nil, testConfig(), discardLogger())
	_, err := svc.Recommend(ctx, Request{Address: "Bundaran Besar"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRankRows(t *testing.T) {
	svc := NewService(testGeocoder, newTableLookup(), testRecords, nil, testConfig(), discardLogger())
	res, err := svc.RankRows(sampleRows(), nil, "", "")
	require.NoError(t, err)
	require.Len(t, res.Entries, 3)
	assert.Equal(t, "Apotek Kimia Farma", res.Entries[0].Name)

	res, err = svc.RankRows(sampleRows(), nil, topsis.MinMax, "")
	require.NoError(t, err)
	assert.Equal(t, "Apotek Kimia Farma", res.Entries[0].Name)
	assert.InDelta(t, 0.7252231228470847, res.Entries[0].Score, 1e-9)

	_, err = svc.RankRows(sampleRows(), &WeightSet{Service: 2}, "", "")
	assert.ErrorIs(t, err, topsis.ErrInvalidWeights)
}
