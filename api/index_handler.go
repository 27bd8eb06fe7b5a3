package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/aviral1303/vectordb/models"
	"github.com/aviral1303/vectordb/services"
	"github.com/aviral1303/vectordb/storage/memory"
)

// IndexHandler serves the index:build and index:status actions of
// spec.md §6.1.
type IndexHandler struct {
	libraries *services.LibraryService
	index     *services.IndexService
	versions  *memory.VersionManager
	chunks    *memory.ChunkRepository
}

// NewIndexHandler creates an IndexHandler.
func NewIndexHandler(libraries *services.LibraryService, index *services.IndexService, versions *memory.VersionManager, chunks *memory.ChunkRepository) *IndexHandler {
	return &IndexHandler{libraries: libraries, index: index, versions: versions, chunks: chunks}
}

// IndexBuildRequest is the optional request body for POST index:build.
// index_type defaults to the library's configured default_index_type when
// omitted.
type IndexBuildRequest struct {
	IndexType models.IndexType `json:"index_type,omitempty"`
}

// IndexBuildResponse is the body of a POST index:build response.
type IndexBuildResponse struct {
	Status    string           `json:"status"`
	IndexType models.IndexType `json:"index_type"`
}

// IndexStatusResponse is the body of a GET index:status response.
type IndexStatusResponse struct {
	IndexType    string `json:"index_type"`
	Size         int    `json:"size"`
	DataVersion  int64  `json:"data_version"`
	IndexVersion int64  `json:"index_version"`
	Stale        bool   `json:"stale"`
	Building     bool   `json:"building"`
}

// Build handles POST /api/v1/libraries/{id}/index:build. It accepts an
// optional {"index_type": ...} body, falling back to the library's
// configured default_index_type when absent, and returns 202 immediately;
// the caller polls Status for completion (spec.md §6.1, §4.6).
func (h *IndexHandler) Build(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	lib, err := h.libraries.Get(id)
	if err != nil {
		WriteError(w, err)
		return
	}

	var req IndexBuildRequest
	if err := DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	indexType := req.IndexType
	if indexType == "" {
		indexType = lib.DefaultIndexType
	}
	if !indexType.Valid() {
		RespondError(w, http.StatusBadRequest, "unknown index_type")
		return
	}

	h.index.BuildIndexAsync(lib.ID, indexType, h.chunks)
	RespondJSON(w, http.StatusAccepted, IndexBuildResponse{Status: "building", IndexType: indexType})
}

// Status handles GET /api/v1/libraries/{id}/index:status.
func (h *IndexHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.libraries.Get(id); err != nil {
		WriteError(w, err)
		return
	}
	v := h.versions.Get(id)
	size := 0
	if idx, ok := h.index.GetIndex(id); ok {
		size = idx.Size()
	}
	RespondJSON(w, http.StatusOK, IndexStatusResponse{
		IndexType:    string(h.index.GetIndexType(id)),
		Size:         size,
		DataVersion:  v.DataVersion,
		IndexVersion: v.IndexVersion,
		Stale:        v.Stale(),
		Building:     h.index.IsBuilding(id),
	})
}
