package engine

import (
	"github.com/graphiti-systems/graphiti/internal/models"
)

// Enabled reports the capture gate.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// Events returns a copy of the hot event set in ingestion order.
func (e *Engine) Events() []models.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Event, len(e.events))
	copy(out, e.events)
	return out
}

// Graph returns the most recently derived node/edge sets.
func (e *Engine) Graph() models.Graph {
	e.mu.Lock()
	defer e.mu.Unlock()
	g := models.Graph{
		Nodes: make([]models.Node, len(e.graphState.Nodes)),
		Edges: make([]models.Edge, len(e.graphState.Edges)),
	}
	copy(g.Nodes, e.graphState.Nodes)
	copy(g.Edges, e.graphState.Edges)
	return g
}

// Metrics returns the most recent metrics snapshot.
func (e *Engine) Metrics() models.MetricsSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// MetricsHistory returns the bounded snapshot history, oldest first.
func (e *Engine) MetricsHistory() []models.MetricsSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Snapshots()
}

// Filters returns the active filters.
func (e *Engine) Filters() models.Filters {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters
}

// ViewState returns the active focus and selection.
func (e *Engine) ViewState() models.ViewState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewState
}

// DrilldownEvents returns the events behind the selected node.
func (e *Engine) DrilldownEvents() []models.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Event, len(e.drilldown))
	copy(out, e.drilldown)
	return out
}

// SetFilters replaces the active filters and schedules a recompute. It
// is a no-op while capture is disabled.
func (e *Engine) SetFilters(f models.Filters) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.enabled {
		return
	}
	e.filters = f
	e.scheduleRecomputeLocked()
}

// SetFocusedCorrelation restricts the derived graph to events indexed
// under key. An empty key removes the focus. No-op while disabled.
func (e *Engine) SetFocusedCorrelation(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.enabled {
		return
	}
	e.viewState.FocusedKey = key
	e.scheduleRecomputeLocked()
}

// SelectNode records the selection and resolves its drilldown events via
// the union of the node's correlation keys. An empty ID clears the
// selection. No-op while disabled.
func (e *Engine) SelectNode(nodeID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.enabled {
		return
	}

	e.viewState.SelectedNodeID = nodeID
	if nodeID == "" {
		e.drilldown = nil
		return
	}

	var keys []string
	for i := range e.graphState.Nodes {
		if e.graphState.Nodes[i].ID == nodeID {
			keys = e.graphState.Nodes[i].CorrelationKeys
			break
		}
	}
	e.drilldown = e.resolveLocked(e.index.Union(keys))
}

// GetCorrelatedEvents returns all hot events indexed under key, in
// ingestion order. IDs that were archived out of the hot buffer remain
// indexed but are silently excluded here; the cold tier is not searched.
func (e *Engine) GetCorrelatedEvents(key string) []models.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolveLocked(e.index.IDs(key))
}

// GetCorrelatedEventsByNode unions the ID sets of every correlation key
// on the node before resolving against the hot buffer.
func (e *Engine) GetCorrelatedEventsByNode(nodeID string) []models.Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.graphState.Nodes {
		if e.graphState.Nodes[i].ID == nodeID {
			return e.resolveLocked(e.index.Union(e.graphState.Nodes[i].CorrelationKeys))
		}
	}
	return nil
}

// resolveLocked filters the hot set down to the given ID set. Callers
// hold e.mu.
func (e *Engine) resolveLocked(ids map[string]struct{}) []models.Event {
	if len(ids) == 0 {
		return nil
	}
	out := make([]models.Event, 0, len(ids))
	for i := range e.events {
		if _, ok := ids[e.events[i].ID]; ok {
			out = append(out, e.events[i])
		}
	}
	return out
}

// CaptureSnapshot builds a named snapshot of the current hot set and
// view state. Persisting it is the caller's concern.
func (e *Engine) CaptureSnapshot(id, name string) models.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	events := make([]models.Event, len(e.events))
	copy(events, e.events)

	return models.Snapshot{
		ID:        id,
		Name:      name,
		CreatedAt: e.clock.Now(),
		Events:    events,
		Filters:   e.filters,
		ViewState: e.viewState,
	}
}
