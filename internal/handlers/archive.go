package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/graphiti-systems/graphiti/internal/logging"
	"github.com/graphiti-systems/graphiti/internal/models"
	"github.com/graphiti-systems/graphiti/internal/settings"
)

// HandleArchive lists archived batches.
func (h *Handler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if h.batches == nil {
		h.writeError(w, http.StatusServiceUnavailable, "archive storage not configured")
		return
	}

	metas, err := h.batches.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list archived batches", logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to list batches")
		return
	}
	if metas == nil {
		metas = []models.BatchMeta{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"batches": metas})
}

// HandleArchiveBatch fetches one archived batch by ID.
func (h *Handler) HandleArchiveBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	if h.batches == nil {
		h.writeError(w, http.StatusServiceUnavailable, "archive storage not configured")
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/archive/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid batch id")
		return
	}

	batch, err := h.batches.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get archived batch", logging.BatchID(id), logging.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to get batch")
		return
	}
	if batch == nil {
		h.writeError(w, http.StatusNotFound, "batch not found")
		return
	}
	h.writeJSON(w, http.StatusOK, batch)
}

// HandleRetention reads (GET) or updates (PUT) the retention period. The
// new period is applied immediately and persisted optimistically.
func (h *Handler) HandleRetention(w http.ResponseWriter, r *http.Request) {
	if h.retention == nil {
		h.writeError(w, http.StatusServiceUnavailable, "retention not configured")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, http.StatusOK, map[string]string{"period": string(h.retention.Period())})
	case http.MethodPut:
		var body struct {
			Period string `json:"period"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		period := models.RetentionPeriod(body.Period)
		if !period.Valid() {
			h.writeError(w, http.StatusBadRequest, "invalid retention period")
			return
		}
		h.retention.SetPeriod(period)
		h.persistSetting(settings.KeyRetention, body.Period)
		h.writeJSON(w, http.StatusOK, map[string]string{"period": body.Period})
	default:
		methodNotAllowed(w)
	}
}

// HandleSnapshots lists (GET) or captures (POST) named snapshots.
func (h *Handler) HandleSnapshots(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		h.writeError(w, http.StatusServiceUnavailable, "snapshot storage not configured")
		return
	}

	switch r.Method {
	case http.MethodGet:
		metas, err := h.snapshots.List(r.Context())
		if err != nil {
			h.logger.Error("failed to list snapshots", logging.Error(err))
			h.writeError(w, http.StatusInternalServerError, "failed to list snapshots")
			return
		}
		if metas == nil {
			metas = []models.SnapshotMeta{}
		}
		h.writeJSON(w, http.StatusOK, map[string]any{"snapshots": metas})
	case http.MethodPost:
		var body struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if body.ID == "" {
			body.ID = uuid.New().String()
		}
		snap := h.engine.CaptureSnapshot(body.ID, body.Name)
		if err := h.snapshots.Put(r.Context(), snap); err != nil {
			h.logger.Error("failed to store snapshot", logging.Error(err))
			h.writeError(w, http.StatusInternalServerError, "failed to store snapshot")
			return
		}
		h.writeJSON(w, http.StatusCreated, models.SnapshotMeta{
			ID:        snap.ID,
			Name:      snap.Name,
			CreatedAt: snap.CreatedAt,
			Count:     len(snap.Events),
		})
	default:
		methodNotAllowed(w)
	}
}

// HandleSnapshot fetches (GET) or deletes (DELETE) one snapshot by ID.
func (h *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		h.writeError(w, http.StatusServiceUnavailable, "snapshot storage not configured")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/snapshots/")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing snapshot id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		snap, err := h.snapshots.Get(r.Context(), id)
		if err != nil {
			h.logger.Error("failed to get snapshot", logging.Error(err))
			h.writeError(w, http.StatusInternalServerError, "failed to get snapshot")
			return
		}
		if snap == nil {
			h.writeError(w, http.StatusNotFound, "snapshot not found")
			return
		}
		h.writeJSON(w, http.StatusOK, snap)
	case http.MethodDelete:
		if err := h.snapshots.Delete(r.Context(), id); err != nil {
			h.logger.Error("failed to delete snapshot", logging.Error(err))
			h.writeError(w, http.StatusInternalServerError, "failed to delete snapshot")
			return
		}
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w)
	}
}

// persistSetting writes a settings key optimistically; failures are
// logged and never surfaced.
func (h *Handler) persistSetting(key, value string) {
	if h.settings == nil {
		return
	}
	if err := h.settings.Set(context.Background(), key, value); err != nil {
		h.logger.Error("failed to persist setting", logging.Key(key), logging.Error(err))
	}
}
