// Package metrics exposes the process Prometheus collectors and small
// helpers to record into them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatbot_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Pipeline Metrics
	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatbot_pipeline_stage_duration_seconds",
			Help:    "Duration of recommendation pipeline stages in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"}, // "fetch", "index", "respond"
	)

	PipelineErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_pipeline_errors_total",
			Help: "Total number of failed pipeline stages",
		},
		[]string{"stage"},
	)

	CatalogItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chatbot_catalog_items",
			Help: "Number of items in the most recent catalog fetch",
		},
		[]string{"kind"},
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_recommendations_total",
			Help: "Total number of answered recommendation requests",
		},
		[]string{"kind"},
	)
)

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRateLimitHit records a rejected request.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordStage records the duration and outcome of a pipeline stage.
func RecordStage(stage string, duration time.Duration, err error) {
	PipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if err != nil {
		PipelineErrors.WithLabelValues(stage).Inc()
	}
}

// SetCatalogItems records the size of the latest fetch for kind.
func SetCatalogItems(kind string, n int) {
	CatalogItems.WithLabelValues(kind).Set(float64(n))
}

// RecordRecommendation counts an answered request.
func RecordRecommendation(kind string) {
	RecommendationsTotal.WithLabelValues(kind).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
