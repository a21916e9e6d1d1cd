// Package metrics exposes Prometheus instrumentation for the registry service.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Business metrics
	cellsCommitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheet_cells_committed_total",
			Help: "Total number of cell edits committed to the sheet",
		},
		[]string{"field"},
	)

	rowsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rows_classified_total",
			Help: "Total number of row classifications by resulting category",
		},
		[]string{"category"},
	)

	rosterLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_lookups_total",
			Help: "Total number of roster lookups by outcome",
		},
		[]string{"outcome"},
	)

	rosterEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "roster_entries",
			Help: "Number of entries currently loaded in the roster",
		},
	)

	exportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exports_generated_total",
			Help: "Total number of export files generated",
		},
		[]string{"format"},
	)

	reportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "report_aggregation_duration_seconds",
			Help:    "Quarterly report aggregation duration in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware creates HTTP metrics middleware
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath keeps metric cardinality bounded: uuid and numeric path
// segments (export file IDs, row positions, identifiers) collapse to one
// placeholder per route
func normalizePath(path string) string {
	if len(path) > 100 {
		return "/api/..."
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}
		if _, err := uuid.Parse(seg); err == nil {
			segments[i] = "{id}"
			continue
		}
		if _, err := strconv.Atoi(seg); err == nil {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

// --- Business metric helpers ---

// RecordCellCommit records a committed cell edit
func RecordCellCommit(field string) {
	cellsCommitted.WithLabelValues(field).Inc()
}

// RecordClassification records the category a row edit resolved to
func RecordClassification(category string) {
	rowsClassified.WithLabelValues(category).Inc()
}

// RecordRosterLookup records a roster lookup outcome
func RecordRosterLookup(found bool) {
	outcome := "miss"
	if found {
		outcome = "hit"
	}
	rosterLookups.WithLabelValues(outcome).Inc()
}

// RecordRosterSize records the number of loaded roster entries
func RecordRosterSize(count int) {
	rosterEntries.Set(float64(count))
}

// RecordExport records a generated export file
func RecordExport(format string) {
	exportsGenerated.WithLabelValues(format).Inc()
}

// RecordReportDuration records a quarterly aggregation duration
func RecordReportDuration(duration time.Duration) {
	reportDuration.Observe(duration.Seconds())
}
