package api

import (
	"net/http"

	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/insight"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/sentiment"
)

type PharmaciesHandler struct {
	source     sentiment.Source
	thresholds insight.Thresholds
}

func NewPharmaciesHandler(src sentiment.Source, t insight.Thresholds) *PharmaciesHandler {
	return &PharmaciesHandler{source: src, thresholds: t}
}

type Pharmacy struct {
	Name         string       `json:"name"`
	Address      string       `json:"address,omitempty"`
	Service      insight.Band `json:"service"`
	Availability insight.Band `json:"availability"`
}

func (h *PharmaciesHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.source.Load(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "sentiment source unavailable")
		return
	}
	out := make([]Pharmacy, 0, len(records))
	for _, rec := range records {
		out = append(out, Pharmacy{
			Name:         rec.Name,
			Address:      rec.Address,
			Service:      h.thresholds.Band(insight.Service, rec.Service),
			Availability: h.thresholds.Band(insight.Availability, rec.Availability),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
