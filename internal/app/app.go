// Package app assembles collaborators from configuration for the server and
// the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/config"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/events"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/maps"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/sentiment"
)

// NewSource opens the configured sentiment dataset. The returned close
// function is never nil.
func NewSource(ctx context.Context, cfg *config.Config) (sentiment.Source, func(), error) {
	switch cfg.Sentiment.Source {
	case "", "csv":
		return sentiment.NewCSVSource(cfg.Sentiment.Path, cfg.Sentiment.Columns), func() {}, nil
	case "postgres":
		if cfg.Database.URL == "" {
			return nil, nil, errors.New("postgres sentiment source requires database.url")
		}
		src, err := sentiment.NewPostgresSource(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { src.Close() }, nil
	case "sqlite":
		src, err := sentiment.NewSQLiteSource(cfg.Sentiment.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return src, func() { src.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown sentiment source %q", cfg.Sentiment.Source)
	}
}

// NewMaps builds the geocoder and distance lookup. The haversine provider
// still geocodes through the maps API but measures straight-line distance
// instead of calling the distance matrix.
func NewMaps(cfg *config.Config) (maps.Geocoder, maps.DistanceLookup, error) {
	if cfg.Maps.APIKey == "" {
		return nil, nil, errors.New("maps.api_key is required")
	}
	client := maps.NewHTTPClient(cfg.Maps.BaseURL, cfg.Maps.APIKey, cfg.Maps.Region, cfg.MapsTimeout())
	switch cfg.Maps.Provider {
	case "", "google":
		return client, client, nil
	case "haversine":
		return client, maps.Geocoded{Geocoder: client, Lookup: maps.HaversineLookup{}}, nil
	default:
		return nil, nil, fmt.Errorf("unknown maps provider %q", cfg.Maps.Provider)
	}
}

// NewEvents connects to NATS when configured, otherwise returns a no-op
// client. Connection failures degrade to no events.
func NewEvents(cfg *config.Config, logger *slog.Logger) events.Client {
	if cfg.Events.URL == "" {
		return events.Nop{}
	}
	nc, err := events.NewNATSClient(cfg.Events.URL, logger)
	if err != nil {
		logger.Warn("failed to connect to nats, running without events", "error", err)
		return events.Nop{}
	}
	logger.Info("connected to nats")
	return nc
}
