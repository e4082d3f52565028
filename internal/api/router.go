package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/config"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/recommend"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/sentiment"
)

func NewRouter(svc *recommend.Service, src sentiment.Source, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(cfg.Server.RateLimit, cfg.Server.TrustClientID))

	rankings := NewRankingsHandler(svc, cfg, logger)
	pharmacies := NewPharmaciesHandler(src, cfg.Insight)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/recommendations", rankings.Recommend)
		r.Post("/rankings", rankings.RankTable)
		r.Post("/topsis", rankings.Topsis)
		r.Get("/pharmacies", pharmacies.List)
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
