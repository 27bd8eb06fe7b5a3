package api

import "net/http"

// HealthHandler serves liveness and root informational endpoints.
type HealthHandler struct {
	NodeRole string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(nodeRole string) *HealthHandler {
	return &HealthHandler{NodeRole: nodeRole}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{"status": "ok", "role": h.NodeRole})
}

// Root handles GET /.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	RespondJSON(w, http.StatusOK, map[string]string{"service": "vectordb", "role": h.NodeRole})
}
