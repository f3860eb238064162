// Package metrics computes the rolling point-in-time statistics over the
// hot event set and keeps a bounded history of snapshots.
package metrics

import (
	"time"

	"github.com/graphiti-systems/graphiti/internal/models"
)

const (
	// requestWindow bounds the requests-per-second lookback.
	requestWindow = time.Second
	// activityWindow bounds the active-agent lookback.
	activityWindow = 30 * time.Second
	// DefaultHistoryCap is the default snapshot history bound
	// (about five minutes at 1Hz).
	DefaultHistoryCap = 300
)

// Compute derives a metrics snapshot from the hot event set. It is pure:
// identical inputs produce identical snapshots.
func Compute(events []models.Event, now time.Time) models.MetricsSnapshot {
	snap := models.MetricsSnapshot{
		Timestamp:   now,
		TotalEvents: len(events),
	}

	var (
		trafficCount   int
		trafficErrors  int
		latencySum     float64
		latencyCount   int
		agents         = make(map[string]struct{})
		tasksInFlight  = make(map[string]struct{})
		requestsCutoff = now.Add(-requestWindow)
		activityCutoff = now.Add(-activityWindow)
	)

	for i := range events {
		e := &events[i]

		// All categories count toward the request rate.
		if !e.Timestamp.Before(requestsCutoff) && !e.Timestamp.After(now) {
			snap.RequestsPerSecond++
		}

		if e.Category == models.CategoryTraffic {
			trafficCount++
			if e.Status != nil && *e.Status >= 400 {
				trafficErrors++
			}
			if e.Duration != nil {
				latencySum += *e.Duration
				latencyCount++
			}
		}

		if e.AgentID != "" && !e.Timestamp.Before(activityCutoff) {
			agents[e.AgentID] = struct{}{}
		}

		if e.Category == models.CategoryTask && e.TaskID != "" &&
			e.PayloadString("status") == "in_progress" {
			tasksInFlight[e.TaskID] = struct{}{}
		}
	}

	if latencyCount > 0 {
		snap.AvgLatency = latencySum / float64(latencyCount)
	}
	if trafficCount > 0 {
		snap.ErrorRate = float64(trafficErrors) / float64(trafficCount)
	}
	snap.ActiveAgents = len(agents)
	snap.ActiveTasks = len(tasksInFlight)

	return snap
}

// History is a bounded FIFO queue of metrics snapshots.
type History struct {
	cap   int
	snaps []models.MetricsSnapshot
}

// NewHistory returns a history bounded to capacity entries.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCap
	}
	return &History{cap: capacity}
}

// Append adds a snapshot, evicting the oldest once the bound is reached.
func (h *History) Append(snap models.MetricsSnapshot) {
	h.snaps = append(h.snaps, snap)
	if len(h.snaps) > h.cap {
		h.snaps = h.snaps[len(h.snaps)-h.cap:]
	}
}

// Snapshots returns a copy of the history, oldest first.
func (h *History) Snapshots() []models.MetricsSnapshot {
	out := make([]models.MetricsSnapshot, len(h.snaps))
	copy(out, h.snaps)
	return out
}

// Len returns the number of retained snapshots.
func (h *History) Len() int {
	return len(h.snaps)
}

// Reset drops all snapshots.
func (h *History) Reset() {
	h.snaps = nil
}
