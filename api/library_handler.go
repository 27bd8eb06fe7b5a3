package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/aviral1303/vectordb/models"
	"github.com/aviral1303/vectordb/services"
)

// LibraryHandler serves /api/v1/libraries (spec.md §6.1).
type LibraryHandler struct {
	libraries *services.LibraryService
}

// NewLibraryHandler creates a LibraryHandler.
func NewLibraryHandler(libraries *services.LibraryService) *LibraryHandler {
	return &LibraryHandler{libraries: libraries}
}

// LibraryRequest is the request body for library creation.
type LibraryRequest struct {
	Name               string            `json:"name"`
	Description        string            `json:"description,omitempty"`
	EmbeddingDimension int               `json:"embedding_dimension"`
	DefaultIndexType   models.IndexType  `json:"default_index_type"`
	Metadata           map[string]string `json:"metadata,omitempty"`
}

// LibraryUpdateRequest is the request body for a library PATCH.
type LibraryUpdateRequest struct {
	Name        *string           `json:"name,omitempty"`
	Description *string           `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// LibraryResponse is the JSON representation of a library.
type LibraryResponse struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Description        string            `json:"description,omitempty"`
	EmbeddingDimension int               `json:"embedding_dimension"`
	DefaultIndexType   models.IndexType  `json:"default_index_type"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func toLibraryResponse(lib *models.Library) LibraryResponse {
	return LibraryResponse{
		ID:                 lib.ID,
		Name:               lib.Name,
		Description:        lib.Description,
		EmbeddingDimension: lib.EmbeddingDimension,
		DefaultIndexType:   lib.DefaultIndexType,
		Metadata:           lib.Metadata,
		CreatedAt:          lib.CreatedAt,
		UpdatedAt:          lib.UpdatedAt,
	}
}

// Create handles POST /api/v1/libraries.
func (h *LibraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req LibraryRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lib, err := h.libraries.Create(req.Name, req.Description, req.EmbeddingDimension, req.DefaultIndexType, req.Metadata)
	if err != nil {
		WriteError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, toLibraryResponse(lib))
}

// List handles GET /api/v1/libraries.
func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	libs := h.libraries.List()
	out := make([]LibraryResponse, len(libs))
	for i, lib := range libs {
		out[i] = toLibraryResponse(lib)
	}
	RespondJSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/libraries/{id}.
func (h *LibraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	lib, err := h.libraries.Get(id)
	if err != nil {
		WriteError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, toLibraryResponse(lib))
}

// Update handles PATCH /api/v1/libraries/{id}.
func (h *LibraryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req LibraryUpdateRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lib, err := h.libraries.Update(id, models.LibraryUpdate{Name: req.Name, Description: req.Description, Metadata: req.Metadata})
	if err != nil {
		WriteError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, toLibraryResponse(lib))
}

// Delete handles DELETE /api/v1/libraries/{id}.
func (h *LibraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.libraries.Delete(id); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
