package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/config"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/events"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/insight"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/maps"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/metrics"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/sentiment"
	"github.com/Kristania-Wijaya/MCDM-Apotek/internal/topsis"
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrSourceUnavailable = errors.New("sentiment source unavailable")
)

type Request struct {
	Address       string               `json:"address"`
	Mode          maps.TravelMode      `json:"mode,omitempty"`
	Weights       *WeightSet           `json:"weights,omitempty"`
	Normalization topsis.Normalization `json:"normalization,omitempty"`
	Filter        insight.Filter       `json:"filter,omitempty"`
}

// Exclusion records a pharmacy dropped before scoring.
type Exclusion struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type Recommendation struct {
	ID                uuid.UUID            `json:"id"`
	Address           string               `json:"address"`
	Origin            maps.Coordinate      `json:"origin"`
	Mode              maps.TravelMode      `json:"mode"`
	Weights           WeightSet            `json:"weights"`
	Normalization     topsis.Normalization `json:"normalization"`
	Entries           []Entry              `json:"entries"`
	Excluded          []Exclusion          `json:"excluded"`
	DegenerateColumns []string             `json:"degenerate_columns,omitempty"`
	ComputedAt        time.Time            `json:"computed_at"`
}

type Service struct {
	geocoder  maps.Geocoder
	distances maps.DistanceLookup
	source    sentiment.Source
	events    events.Client
	cfg       *config.Config
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(g maps.Geocoder, d maps.DistanceLookup, src sentiment.Source, ev events.Client, cfg *config.Config, logger *slog.Logger) *Service {
	if ev == nil {
		ev = events.Nop{}
	}
	return &Service{
		geocoder:  g,
		distances: d,
		source:    src,
		events:    ev,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// DefaultWeights returns the configured weight set.
func (s *Service) DefaultWeights() WeightSet {
	w := s.cfg.Scoring.Weights
	return WeightSet{Service: w.Service, Availability: w.Availability, Distance: w.Distance}
}

// RankOptions resolves per-request overrides against the configuration.
func (s *Service) RankOptions(norm topsis.Normalization, filter insight.Filter) (RankOptions, error) {
	if norm == "" {
		norm = topsis.Normalization(s.cfg.Scoring.Normalization)
	}
	n, err := topsis.ParseNormalization(string(norm))
	if err != nil {
		return RankOptions{}, err
	}
	f, err := insight.ParseFilter(string(filter))
	if err != nil {
		return RankOptions{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return RankOptions{
		Normalization:   n,
		WeightTolerance: s.cfg.Scoring.WeightTolerance,
		Thresholds:      s.cfg.Insight,
		Filter:          f,
	}, nil
}

// RankRows ranks an already joined table with request overrides applied.
func (s *Service) RankRows(rows []Row, w *WeightSet, norm topsis.Normalization, filter insight.Filter) (*Result, error) {
	weights := s.DefaultWeights()
	if w != nil {
		weights = *w
	}
	opts, err := s.RankOptions(norm, filter)
	if err != nil {
		metrics.RankingsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}
	res, err := Rank(rows, weights, opts)
	if err != nil {
		metrics.RankingsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return nil, err
	}
	metrics.RankingsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	return res, nil
}

// Recommend geocodes the origin, joins the sentiment dataset with travel
// distances and ranks the result. Pharmacies whose distance lookup fails are
// excluded and reported rather than failing the request.
func (s *Service) Recommend(ctx context.Context, req Request) (*Recommendation, error) {
	id := uuid.New()
	rec, err := s.recommend(ctx, id, req)
	if err != nil {
		outcome := metrics.OutcomeError
		if IsRequestError(err) {
			outcome = metrics.OutcomeInvalid
		}
		metrics.RankingsTotal.WithLabelValues(outcome).Inc()
		s.publish(events.SubjectRankingFailed(id.String()), events.RankingFailedEvent{
			RecommendationID: id.String(),
			Error:            err.Error(),
			Timestamp:        s.now().UTC(),
		})
		return nil, err
	}
	metrics.RankingsTotal.WithLabelValues(metrics.OutcomeOK).Inc()

	evt := events.RankingComputedEvent{
		RecommendationID: id.String(),
		Mode:             string(rec.Mode),
		Normalization:    string(rec.Normalization),
		Weights: events.Weights{
			Service:      rec.Weights.Service,
			Availability: rec.Weights.Availability,
			Distance:     rec.Weights.Distance,
		},
		Alternatives: len(rec.Entries),
		Excluded:     len(rec.Excluded),
		Timestamp:    rec.ComputedAt,
	}
	if len(rec.Entries) > 0 {
		evt.TopChoice = rec.Entries[0].Name
	}
	s.publish(events.SubjectRankingComputed(id.String()), evt)
	return rec, nil
}

func (s *Service) recommend(ctx context.Context, id uuid.UUID, req Request) (*Recommendation, error) {
	if req.Address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrInvalidRequest)
	}
	modeStr := string(req.Mode)
	if modeStr == "" {
		modeStr = s.cfg.Maps.Mode
	}
	mode, err := maps.ParseTravelMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	weights := s.DefaultWeights()
	if req.Weights != nil {
		weights = *req.Weights
	}
	if err := weights.Validate(s.cfg.Scoring.WeightTolerance); err != nil {
		return nil, err
	}
	opts, err := s.RankOptions(req.Normalization, req.Filter)
	if err != nil {
		return nil, err
	}

	origin, err := s.geocoder.Geocode(ctx, req.Address, mode)
	if err != nil {
		metrics.LookupFailures.WithLabelValues("geocoder").Inc()
		return nil, fmt.Errorf("geocode origin: %w", err)
	}

	records, err := s.source.Load(ctx)
	if err != nil {
		metrics.LookupFailures.WithLabelValues("sentiment").Inc()
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	rows, excluded, err := s.join(ctx, origin, records, mode)
	if err != nil {
		return nil, err
	}
	if len(excluded) > 0 {
		metrics.ExcludedAlternatives.Add(float64(len(excluded)))
		s.logger.Warn("pharmacies excluded", "recommendation_id", id, "count", len(excluded))
	}

	res, err := Rank(rows, weights, opts)
	if err != nil {
		return nil, err
	}

	s.logger.Info("recommendation computed",
		"recommendation_id", id,
		"mode", mode,
		"candidates", len(rows),
		"returned", len(res.Entries),
		"excluded", len(excluded),
	)

	return &Recommendation{
		ID:                id,
		Address:           req.Address,
		Origin:            origin,
		Mode:              mode,
		Weights:           weights,
		Normalization:     res.Normalization,
		Entries:           res.Entries,
		Excluded:          excluded,
		DegenerateColumns: res.DegenerateColumns,
		ComputedAt:        s.now().UTC(),
	}, nil
}

// join looks up every pharmacy's distance with bounded concurrency. A failed
// lookup excludes that pharmacy; only context cancellation aborts the join.
func (s *Service) join(ctx context.Context, origin maps.Coordinate, records []sentiment.Record, mode maps.TravelMode) ([]Row, []Exclusion, error) {
	dists := make([]maps.Distance, len(records))
	errs := make([]error, len(records))

	g, gctx := errgroup.WithContext(ctx)
	if n := s.cfg.Maps.MaxConcurrentLookups; n > 0 {
		g.SetLimit(n)
	}
	for i, r := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			dest := maps.Destination{Name: r.Name, Address: r.Address}
			dists[i], errs[i] = s.distances.Distance(gctx, origin, dest, mode)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	rows := make([]Row, 0, len(records))
	excluded := []Exclusion{}
	for i, r := range records {
		if errs[i] != nil {
			metrics.LookupFailures.WithLabelValues("distance").Inc()
			s.logger.Debug("distance lookup failed", "pharmacy", r.Name, "error", errs[i])
			excluded = append(excluded, Exclusion{Name: r.Name, Reason: errs[i].Error()})
			continue
		}
		rows = append(rows, Row{
			Name:           r.Name,
			Address:        r.Address,
			Service:        r.Service,
			Availability:   r.Availability,
			DistanceMeters: dists[i].Meters,
			DistanceText:   dists[i].Text,
		})
	}
	return rows, excluded, nil
}

func (s *Service) publish(subject string, evt interface{}) {
	if err := s.events.Publish(subject, evt); err != nil {
		s.logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}

// IsRequestError reports whether err stems from caller input rather than a
// collaborator failure.
func IsRequestError(err error) bool {
	for _, target := range []error{
		ErrInvalidRequest,
		maps.ErrNotFound,
		topsis.ErrInvalidWeights,
		topsis.ErrShapeMismatch,
		topsis.ErrNonFinite,
		topsis.ErrDuplicateAlternative,
		topsis.ErrDuplicateCriterion,
		topsis.ErrUnknownNormalization,
		topsis.ErrUnknownOrientation,
		topsis.ErrEmptyInput,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
