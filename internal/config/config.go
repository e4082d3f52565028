package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/insight"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/sentiment"
)

type Config struct {
	Server    ServerConfig       `yaml:"server"`
	Database  DatabaseConfig     `yaml:"database"`
	Sentiment SentimentConfig    `yaml:"sentiment"`
	Maps      MapsConfig         `yaml:"maps"`
	Events    EventsConfig       `yaml:"events"`
	Scoring   ScoringConfig      `yaml:"scoring"`
	Insight   insight.Thresholds `yaml:"insight"`
	Logging   LoggingConfig      `yaml:"logging"`
}

type ServerConfig struct {
	Port          int   `yaml:"port"`
	MetricsPort   int   `yaml:"metrics_port"`
	RateLimit     int   `yaml:"rate_limit_per_minute"`
	MaxUploadSize int64 `yaml:"max_upload_bytes"`
	// TrustClientID keys rate limiting on X-Client-ID instead of the remote
	// host. Enable only behind a proxy that sets the header.
	TrustClientID bool `yaml:"trust_client_id"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type SentimentConfig struct {
	// Source is one of csv, postgres, sqlite.
	Source     string            `yaml:"source"`
	Path       string            `yaml:"path"`
	SQLitePath string            `yaml:"sqlite_path"`
	Columns    sentiment.Columns `yaml:"columns"`
}

type MapsConfig struct {
	// Provider is google or haversine.
	Provider             string `yaml:"provider"`
	BaseURL              string `yaml:"base_url"`
	APIKey               string `yaml:"api_key"`
	Region               string `yaml:"region"`
	Mode                 string `yaml:"mode"`
	TimeoutMs            int    `yaml:"timeout_ms"`
	MaxConcurrentLookups int    `yaml:"max_concurrent_lookups"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type ScoringConfig struct {
	Weights         ScoringWeights `yaml:"weights"`
	Normalization   string         `yaml:"normalization"`
	WeightTolerance float64        `yaml:"weight_tolerance"`
}

type ScoringWeights struct {
	Service      float64 `yaml:"service"`
	Availability float64 `yaml:"availability"`
	Distance     float64 `yaml:"distance"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) MapsTimeout() time.Duration {
	return time.Duration(c.Maps.TimeoutMs) * time.Millisecond
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:          8700,
			MetricsPort:   8701,
			RateLimit:     120,
			MaxUploadSize: 10 << 20,
		},
		Sentiment: SentimentConfig{
			Source:  "csv",
			Path:    "data/sentiment.csv",
			Columns: sentiment.DefaultColumns(),
		},
		Maps: MapsConfig{
			Provider:             "google",
			Region:               "id",
			Mode:                 "driving",
			TimeoutMs:            10000,
			MaxConcurrentLookups: 8,
		},
		Scoring: ScoringConfig{
			Weights: ScoringWeights{
				Service:      0.45,
				Availability: 0.25,
				Distance:     0.30,
			},
			Normalization:   "vector",
			WeightTolerance: 1e-9,
		},
		Insight: insight.DefaultThresholds(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Insight.Validate(); err != nil {
		return nil, fmt.Errorf("insight thresholds: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("APOTEK_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("APOTEK_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("APOTEK_TRUST_CLIENT_ID"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.TrustClientID = b
		}
	}
	if v := os.Getenv("APOTEK_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("APOTEK_SENTIMENT_SOURCE"); v != "" {
		cfg.Sentiment.Source = v
	}
	if v := os.Getenv("APOTEK_SENTIMENT_PATH"); v != "" {
		cfg.Sentiment.Path = v
	}
	if v := os.Getenv("APOTEK_SQLITE_PATH"); v != "" {
		cfg.Sentiment.SQLitePath = v
	}
	if v := os.Getenv("APOTEK_MAPS_PROVIDER"); v != "" {
		cfg.Maps.Provider = v
	}
	if v := os.Getenv("APOTEK_MAPS_BASE_URL"); v != "" {
		cfg.Maps.BaseURL = v
	}
	if v := os.Getenv("APOTEK_MAPS_API_KEY"); v != "" {
		cfg.Maps.APIKey = v
	}
	if v := os.Getenv("APOTEK_MAPS_MODE"); v != "" {
		cfg.Maps.Mode = v
	}
	if v := os.Getenv("APOTEK_NATS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("APOTEK_NORMALIZATION"); v != "" {
		cfg.Scoring.Normalization = v
	}
	if v := os.Getenv("APOTEK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("APOTEK_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
