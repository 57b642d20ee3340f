// Package metrics defines the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wizard_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	AnalysisRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_analysis_runs_total",
		Help: "Analysis trigger runs by action and outcome",
	}, []string{"action", "status"})

	HeatmapPointsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wizard_heatmap_points_generated_total",
		Help: "Heatmap points written by generate_heatmap",
	})

	OpenAIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_openai_requests_total",
		Help: "OpenAI API calls by endpoint and outcome",
	}, []string{"endpoint", "status"})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wizard_circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
	}, []string{"name"})

	ImageUploadFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wizard_image_upload_fallbacks_total",
		Help: "Generated images returned inline because storage upload failed",
	})

	AutosaveWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_autosave_writes_total",
		Help: "Debounced reflection saves by target and outcome",
	}, []string{"target", "status"})

	CanvasSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_canvas_saves_total",
		Help: "Lesson canvas saves by trigger (interval, manual) and outcome",
	}, []string{"trigger", "status"})
)
