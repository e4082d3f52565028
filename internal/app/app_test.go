package app

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/config"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/events"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/maps"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/sentiment"
)

func TestNewSourceCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sentiment.csv")
	require.NoError(t, os.WriteFile(path, []byte("destination,service_facility,availability_price\nApotek A,80,70\n"), 0o644))

	cfg := &config.Config{Sentiment: config.SentimentConfig{Source: "csv", Path: path, Columns: sentiment.DefaultColumns()}}
	src, closeFn, err := NewSource(context.Background(), cfg)
	require.NoError(t, err)
	defer closeFn()

	records, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Apotek A", records[0].Name)
}

func TestNewSourceErrors(t *testing.T) {
	for _, cfg := range []*config.Config{
		{Sentiment: config.SentimentConfig{Source: "excel"}},
		{Sentiment: config.SentimentConfig{Source: "postgres"}},
	} {
		_, _, err := NewSource(context.Background(), cfg)
		assert.Error(t, err, "source %q", cfg.Sentiment.Source)
	}
}

func TestNewMaps(t *testing.T) {
	_, _, err := NewMaps(&config.Config{Maps: config.MapsConfig{Provider: "google"}})
	assert.Error(t, err, "missing api key")

	geo, lookup, err := NewMaps(&config.Config{Maps: config.MapsConfig{Provider: "google", APIKey: "k"}})
	require.NoError(t, err)
	assert.IsType(t, &maps.HTTPClient{}, geo)
	assert.IsType(t, &maps.HTTPClient{}, lookup)

	_, lookup, err = NewMaps(&config.Config{Maps: config.MapsConfig{Provider: "haversine", APIKey: "k"}})
	require.NoError(t, err)
	assert.IsType(t, maps.Geocoded{}, lookup)

	_, _, err = NewMaps(&config.Config{Maps: config.MapsConfig{Provider: "osm", APIKey: "k"}})
	assert.Error(t, err)
}

func TestNewEventsDisabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ev := NewEvents(&config.Config{}, logger)
	assert.IsType(t, events.Nop{}, ev)
}
