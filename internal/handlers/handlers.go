// Package handlers exposes the engine surface over HTTP. Handlers only
// decode and encode JSON; events arrive pre-normalized and are not
// validated beyond that.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/graphiti-systems/graphiti/internal/archive"
	"github.com/graphiti-systems/graphiti/internal/engine"
	"github.com/graphiti-systems/graphiti/internal/logging"
	"github.com/graphiti-systems/graphiti/internal/settings"
)

// Handler carries the engine and stores behind the HTTP surface.
type Handler struct {
	engine    *engine.Engine
	snapshots archive.SnapshotStore
	batches   archive.BatchStore
	retention *archive.Retention
	settings  settings.Store
	logger    *logging.Logger
}

// New creates a Handler. snapshots, batches, retention, and settings may
// be nil when Redis is disabled; the corresponding endpoints then return
// 503.
func New(eng *engine.Engine, snapshots archive.SnapshotStore, batches archive.BatchStore, retention *archive.Retention, store settings.Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		engine:    eng,
		snapshots: snapshots,
		batches:   batches,
		retention: retention,
		settings:  store,
		logger:    logger.With(logging.Component("http")),
	}
}

// Health responds 200 unconditionally.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready responds 200 once the process is serving.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
}
