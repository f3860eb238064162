package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/graphiti-systems/graphiti/internal/models"
)

// HandleEvents accepts a single event (POST) or clears both storage
// tiers (DELETE).
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var ev models.Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid event json")
			return
		}
		h.engine.IngestEvent(ev)
		h.writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
	case http.MethodDelete:
		h.engine.ClearEvents(r.Context())
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
	default:
		methodNotAllowed(w)
	}
}

// HandleEventBatch accepts a JSON array of events, applied in order.
func (h *Handler) HandleEventBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var events []models.Event
	if err := json.NewDecoder(r.Body).Decode(&events); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid event batch json")
		return
	}

	h.engine.IngestBatch(events)
	h.writeJSON(w, http.StatusAccepted, map[string]any{
		"status": "accepted",
		"count":  len(events),
	})
}

// HandleCorrelated resolves a correlation key against the hot buffer.
func (h *Handler) HandleCorrelated(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		h.writeError(w, http.StatusBadRequest, "missing key parameter")
		return
	}

	events := h.engine.GetCorrelatedEvents(key)
	if events == nil {
		events = []models.Event{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// HandleEnabled reads (GET) or toggles (PUT) the capture gate.
func (h *Handler) HandleEnabled(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, http.StatusOK, map[string]bool{"enabled": h.engine.Enabled()})
	case http.MethodPut:
		var body struct {
			Enabled bool `json:"enabled"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		h.engine.SetEnabled(body.Enabled)
		h.writeJSON(w, http.StatusOK, map[string]bool{"enabled": body.Enabled})
	default:
		methodNotAllowed(w)
	}
}
