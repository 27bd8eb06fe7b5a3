package api

import (
	"net/http"

	"github.com/aviral1303/vectordb/storage/memory"
)

// ReplicationHandler serves the leader-side snapshot endpoint polled by
// followers (spec.md §6.4).
type ReplicationHandler struct {
	store *memory.Store
}

// NewReplicationHandler creates a ReplicationHandler.
func NewReplicationHandler(store *memory.Store) *ReplicationHandler {
	return &ReplicationHandler{store: store}
}

// Snapshot handles GET /api/v1/replication/snapshot.
func (h *ReplicationHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, h.store.Snapshot())
}
