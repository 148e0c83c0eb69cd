package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exposed by serve mode.
type Metrics struct {
	registry           *prometheus.Registry
	requestsTotal      prometheus.Counter
	errorsTotal        prometheus.Counter
	inspectionsTotal   prometheus.Counter
	inspectionFailures prometheus.Counter
	inspectionDuration prometheus.Histogram
}

// NewMetrics creates and registers the serve-mode collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enclens_http_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enclens_http_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	inspectionsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enclens_inspections_total",
		Help: "Total number of encoding inspections run",
	})
	inspectionFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enclens_inspection_failures_total",
		Help: "Total number of inspections that failed at the root fetch",
	})
	inspectionDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "enclens_inspection_duration_seconds",
		Help:    "Wall time of full encoding walks",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		inspectionsTotal,
		inspectionFailures,
		inspectionDuration,
	)

	return &Metrics{
		registry:           registry,
		requestsTotal:      requestsTotal,
		errorsTotal:        errorsTotal,
		inspectionsTotal:   inspectionsTotal,
		inspectionFailures: inspectionFailures,
		inspectionDuration: inspectionDuration,
	}
}

// Handler returns the /metrics scrape handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// statusRecorder captures the response status for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestMiddleware counts requests and error responses.
func (m *Metrics) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requestsTotal.Inc()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if rec.status >= 400 {
			m.errorsTotal.Inc()
		}
	})
}
