// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookrec_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookrec_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RecommendationsTotal counts answered queries by outcome: similarity,
	// author, search, not_found or empty_query.
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookrec_recommendations_total",
			Help: "Recommendation queries by outcome",
		},
		[]string{"outcome"},
	)

	QuoteFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookrec_quote_fetches_total",
			Help: "Quote service lookups by result",
		},
		[]string{"result"},
	)

	// ArtifactRecords reports the size of each loaded artifact.
	ArtifactRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bookrec_artifact_records",
			Help: "Number of records in each loaded artifact",
		},
		[]string{"artifact"},
	)
)
