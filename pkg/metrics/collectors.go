package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	Generations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_generations_total",
			Help: "Generation calls per feature by outcome",
		},
		[]string{"feature", "outcome"},
	)

	GenerationTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_generation_tokens_total",
			Help: "Tokens consumed by generation calls per feature",
		},
		[]string{"feature", "kind"},
	)

	StructuringFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_structuring_fallbacks_total",
			Help: "Replies that degraded to a fallback structure",
		},
		[]string{"kind"},
	)

	RelayDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_relay_deliveries_total",
			Help: "Contact relay deliveries by relay and outcome",
		},
		[]string{"relay", "outcome"},
	)
)

// Generation outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeBlocked   = "blocked"
	OutcomeTruncated = "truncated"
	OutcomeError     = "error"
)
