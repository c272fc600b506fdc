package tmdb

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks catalog requests per endpoint and outcome
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviecat_tmdb_requests_total",
			Help: "Total number of TMDB API requests",
		},
		[]string{"endpoint", "outcome"},
	)

	// RetriesTotal tracks retried requests per endpoint
	RetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviecat_tmdb_retries_total",
			Help: "Total number of TMDB API retries after server errors",
		},
		[]string{"endpoint"},
	)

	// RequestLatency tracks request latency
	RequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviecat_tmdb_request_latency_seconds",
			Help:    "TMDB API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

const (
	outcomeOK        = "ok"
	outcomeTransport = "transport_error"
	outcomeStatus    = "status_error"
	outcomeDecode    = "decode_error"
)
