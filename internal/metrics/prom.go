package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/graphiti-systems/graphiti/internal/models"
)

var (
	// Ingestion metrics
	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphiti_events_ingested_total",
			Help: "Total number of events accepted by the engine",
		},
		[]string{"category"},
	)

	EventsDroppedDisabled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "graphiti_events_dropped_disabled_total",
			Help: "Events ignored because capture was disabled",
		},
	)

	// Archival metrics
	BatchesArchived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "graphiti_archive_batches_total",
			Help: "Total number of batches flushed to durable storage",
		},
	)

	ArchiveFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "graphiti_archive_failures_total",
			Help: "Archival writes that failed; the evicted events are lost",
		},
	)

	BatchesPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "graphiti_retention_batches_pruned_total",
			Help: "Archived batches deleted by retention policy",
		},
	)

	// Rolling metrics mirrored as gauges on each recompute
	HotEvents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphiti_hot_events",
			Help: "Current size of the in-memory event buffer",
		},
	)

	RequestsPerSecond = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphiti_requests_per_second",
			Help: "Events observed within the last second at recompute time",
		},
	)

	AvgLatency = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphiti_avg_latency_ms",
			Help: "Mean duration over traffic events in the hot buffer",
		},
	)

	ErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphiti_error_rate",
			Help: "Fraction of traffic events with status >= 400",
		},
	)

	ActiveAgents = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphiti_active_agents",
			Help: "Distinct agents seen within the last 30 seconds",
		},
	)

	ActiveTasks = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphiti_active_tasks",
			Help: "Distinct tasks currently in progress",
		},
	)
)

// Publish mirrors a snapshot to the Prometheus gauges.
func Publish(snap models.MetricsSnapshot) {
	HotEvents.Set(float64(snap.TotalEvents))
	RequestsPerSecond.Set(float64(snap.RequestsPerSecond))
	AvgLatency.Set(snap.AvgLatency)
	ErrorRate.Set(snap.ErrorRate)
	ActiveAgents.Set(float64(snap.ActiveAgents))
	ActiveTasks.Set(float64(snap.ActiveTasks))
}
