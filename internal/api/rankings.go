package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/config"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/insight"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/maps"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/metrics"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/recommend"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/topsis"
)

type RankingsHandler struct {
	svc       *recommend.Service
	cfg       *config.Config
	maxUpload int64
	logger    *slog.Logger
}

func NewRankingsHandler(svc *recommend.Service, cfg *config.Config, logger *slog.Logger) *RankingsHandler {
	return &RankingsHandler{svc: svc, cfg: cfg, maxUpload: cfg.Server.MaxUploadSize, logger: logger}
}

func (h *RankingsHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommend.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUpload)).Decode(&req); err != nil {
		writeError(w, bodyStatus(err), "invalid request body")
		return
	}
	rec, err := h.svc.Recommend(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type RankTableRequest struct {
	Rows          []recommend.RowInput `json:"rows"`
	Weights       *recommend.WeightSet `json:"weights,omitempty"`
	Normalization topsis.Normalization `json:"normalization,omitempty"`
	Filter        insight.Filter       `json:"filter,omitempty"`
}

type RankTableResponse struct {
	*recommend.Result
	Excluded []recommend.Exclusion `json:"excluded"`
}

// RankTable ranks a joined table sent either as JSON or as a multipart CSV
// upload in the "file" field. Multipart requests carry weights, normalization
// and filter as form fields.
func (h *RankingsHandler) RankTable(w http.ResponseWriter, r *http.Request) {
	var (
		req      RankTableRequest
		rows     []recommend.Row
		excluded []recommend.Exclusion
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
		if err := r.ParseMultipartForm(h.maxUpload); err != nil {
			writeError(w, bodyStatus(err), "invalid multipart form")
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file field required")
			return
		}
		defer file.Close()

		rows, excluded, err = recommend.LoadTable(file)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if s := r.FormValue("weights"); s != "" {
			ws, err := recommend.ParseWeights(s)
			if err != nil {
				h.fail(w, r, err)
				return
			}
			req.Weights = &ws
		}
		req.Normalization = topsis.Normalization(r.FormValue("normalization"))
		req.Filter = insight.Filter(r.FormValue("filter"))
	} else {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUpload)).Decode(&req); err != nil {
			writeError(w, bodyStatus(err), "invalid request body")
			return
		}
		rows, excluded = recommend.SplitRows(req.Rows)
	}

	if len(excluded) > 0 {
		metrics.ExcludedAlternatives.Add(float64(len(excluded)))
	}
	res, err := h.svc.RankRows(rows, req.Weights, req.Normalization, req.Filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RankTableResponse{Result: res, Excluded: excluded})
}

type TopsisRequest struct {
	Criteria      []topsis.Criterion   `json:"criteria"`
	Alternatives  []topsis.Alternative `json:"alternatives"`
	Normalization topsis.Normalization `json:"normalization,omitempty"`
}

type TopsisResponse struct {
	Results           []topsis.Result      `json:"results"`
	Ranked            []topsis.Result      `json:"ranked"`
	DegenerateColumns []string             `json:"degenerate_columns"`
	Normalization     topsis.Normalization `json:"normalization"`
}

// Topsis exposes the scorer over an arbitrary decision matrix.
func (h *RankingsHandler) Topsis(w http.ResponseWriter, r *http.Request) {
	var req TopsisRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUpload)).Decode(&req); err != nil {
		writeError(w, bodyStatus(err), "invalid request body")
		return
	}
	if req.Normalization == "" {
		req.Normalization = topsis.Normalization(h.cfg.Scoring.Normalization)
	}
	norm, err := topsis.ParseNormalization(string(req.Normalization))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	m, err := topsis.NewMatrix(req.Criteria, req.Alternatives)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ranking, err := topsis.Score(m, topsis.Options{
		Normalization:   norm,
		WeightTolerance: h.cfg.Scoring.WeightTolerance,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	degenerate := ranking.DegenerateColumns
	if degenerate == nil {
		degenerate = []string{}
	}
	writeJSON(w, http.StatusOK, TopsisResponse{
		Results:           ranking.InInputOrder(),
		Ranked:            ranking.ByRank(),
		DegenerateColumns: degenerate,
		Normalization:     ranking.Normalization,
	})
}

func (h *RankingsHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("ranking failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, maps.ErrNotFound):
		return http.StatusUnprocessableEntity
	case recommend.IsRequestError(err):
		return http.StatusBadRequest
	case errors.Is(err, recommend.ErrSourceUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func bodyStatus(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
