package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/graphiti-systems/graphiti/internal/models"
)

// HandleGraph returns the derived node/edge sets.
func (h *Handler) HandleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	g := h.engine.Graph()
	if g.Nodes == nil {
		g.Nodes = []models.Node{}
	}
	if g.Edges == nil {
		g.Edges = []models.Edge{}
	}
	h.writeJSON(w, http.StatusOK, g)
}

// HandleMetrics returns the current rolling metrics snapshot.
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	h.writeJSON(w, http.StatusOK, h.engine.Metrics())
}

// HandleMetricsHistory returns the bounded snapshot history.
func (h *Handler) HandleMetricsHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"history": h.engine.MetricsHistory()})
}

// HandleFilters reads (GET) or replaces (PUT) the active filters.
func (h *Handler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, http.StatusOK, h.engine.Filters())
	case http.MethodPut:
		var f models.Filters
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid filters json")
			return
		}
		h.engine.SetFilters(f)
		h.writeJSON(w, http.StatusOK, f)
	default:
		methodNotAllowed(w)
	}
}

// HandleFocus sets the focused correlation key; empty clears it.
func (h *Handler) HandleFocus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}

	var body struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	h.engine.SetFocusedCorrelation(body.Key)
	h.writeJSON(w, http.StatusOK, h.engine.ViewState())
}

// HandleSelection selects a node and returns its drilldown events.
func (h *Handler) HandleSelection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}

	var body struct {
		NodeID string `json:"node_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	h.engine.SelectNode(body.NodeID)
	events := h.engine.DrilldownEvents()
	if events == nil {
		events = []models.Event{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"view_state": h.engine.ViewState(),
		"events":     events,
	})
}
