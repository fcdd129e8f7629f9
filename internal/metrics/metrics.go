// Package metrics holds the Prometheus instruments shared across the app.
// All collectors are registered with the default registry, so mounting
// promhttp.Handler() in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Prediction outcomes recorded by the inference page.
const (
	OutcomeSuccess       = "success"
	OutcomeInvalid       = "invalid"
	OutcomeUpstreamError = "upstream_error"
	OutcomeBadToken      = "bad_token"
)

// Model-info cache results.
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupError = "error"
)

var (
	Predictions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abalone_predictions_total",
			Help: "Prediction form submissions by outcome.",
		}, []string{"outcome"})

	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "abalone_upstream_request_duration_seconds",
			Help:    "Latency of calls to the prediction API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint", "code"})

	ModelInfoLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abalone_model_info_lookups_total",
			Help: "Model-info cache lookups by result.",
		}, []string{"result"})

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served, by method, route pattern, and status.",
		}, []string{"method", "route", "code"})

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})
)

func init() {
	prometheus.MustRegister(
		Predictions,
		UpstreamDuration,
		ModelInfoLookups,
		HTTPRequests,
		HTTPDuration,
	)
}
