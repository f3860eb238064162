package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/graphiti-systems/graphiti/internal/handlers"
	"github.com/graphiti-systems/graphiti/internal/logging"
)

// NewRouter constructs a ServeMux with the graphiti API routes
// registered, wrapped in request-ID and request-logging middleware.
func NewRouter(h *handlers.Handler, logger *logging.Logger) http.Handler {
	mux := http.NewServeMux()

	// Ingestion and hot-set queries
	mux.HandleFunc("/api/v1/events", h.HandleEvents)
	mux.HandleFunc("/api/v1/events/batch", h.HandleEventBatch)
	mux.HandleFunc("/api/v1/events/correlated", h.HandleCorrelated)
	mux.HandleFunc("/api/v1/enabled", h.HandleEnabled)

	// Derived views
	mux.HandleFunc("/api/v1/graph", h.HandleGraph)
	mux.HandleFunc("/api/v1/metrics", h.HandleMetrics)
	mux.HandleFunc("/api/v1/metrics/history", h.HandleMetricsHistory)
	mux.HandleFunc("/api/v1/filters", h.HandleFilters)
	mux.HandleFunc("/api/v1/focus", h.HandleFocus)
	mux.HandleFunc("/api/v1/selection", h.HandleSelection)

	// Cold tier
	mux.HandleFunc("/api/v1/archive", h.HandleArchive)
	mux.HandleFunc("/api/v1/archive/", h.HandleArchiveBatch)
	mux.HandleFunc("/api/v1/retention", h.HandleRetention)
	mux.HandleFunc("/api/v1/snapshots", h.HandleSnapshots)
	mux.HandleFunc("/api/v1/snapshots/", h.HandleSnapshot)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return RequestID(RequestLogging(logger)(mux))
}
