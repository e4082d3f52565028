package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/api"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/app"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/config"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/recommend"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logging.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sentiment dataset
	source, closeSource, err := app.NewSource(ctx, cfg)
	if err != nil {
		logger.Error("failed to open sentiment source", "source", cfg.Sentiment.Source, "error", err)
		os.Exit(1)
	}
	defer closeSource()
	logger.Info("sentiment source ready", "source", cfg.Sentiment.Source)

	// Maps
	geocoder, distances, err := app.NewMaps(cfg)
	if err != nil {
		logger.Error("failed to configure maps", "provider", cfg.Maps.Provider, "error", err)
		os.Exit(1)
	}

	// Events (optional)
	ev := app.NewEvents(cfg, logger)
	defer ev.Close()

	svc := recommend.NewService(geocoder, distances, source, ev, cfg, logger)

	// API server
	router := api.NewRouter(svc, source, cfg, logger)
	apiServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler:           api.NewMetricsRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
