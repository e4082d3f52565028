// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RankingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apotek_rankings_total",
		Help: "Ranking requests by outcome.",
	}, []string{"outcome"})

	TopsisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "apotek_topsis_duration_seconds",
		Help:    "Time spent in the TOPSIS scorer.",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
	})

	LookupFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "apotek_lookup_failures_total",
		Help: "Collaborator lookups that failed, by collaborator.",
	}, []string{"collaborator"})

	ExcludedAlternatives = promauto.NewCounter(prometheus.CounterOpts{
		Name: "apotek_excluded_alternatives_total",
		Help: "Pharmacies dropped before scoring because of incomplete data.",
	})
)

const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)
