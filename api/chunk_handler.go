package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/aviral1303/vectordb/models"
	"github.com/aviral1303/vectordb/services"
)

// ChunkHandler serves /api/v1/libraries/{library_id}/chunks and its
// per-chunk routes (spec.md §6.1); listing can be narrowed to one document
// with the document_id query parameter.
type ChunkHandler struct {
	chunks *services.ChunkService
}

// NewChunkHandler creates a ChunkHandler.
func NewChunkHandler(chunks *services.ChunkService) *ChunkHandler {
	return &ChunkHandler{chunks: chunks}
}

// ChunkMetadataRequest mirrors models.ChunkMetadata for JSON requests.
type ChunkMetadataRequest struct {
	Tags             []string  `json:"tags,omitempty"`
	Author           string    `json:"author,omitempty"`
	Source           string    `json:"source,omitempty"`
	CreatedBy        string    `json:"created_by,omitempty"`
	ContentCreatedAt time.Time `json:"content_created_at,omitempty"`
}

func (r ChunkMetadataRequest) toModel() models.ChunkMetadata {
	return models.ChunkMetadata{
		Tags:             r.Tags,
		Author:           r.Author,
		Source:           r.Source,
		CreatedBy:        r.CreatedBy,
		ContentCreatedAt: r.ContentCreatedAt,
	}
}

// ChunkRequest is the request body for chunk creation.
type ChunkRequest struct {
	DocumentID string               `json:"document_id"`
	Text       string               `json:"text"`
	Embedding  []float64            `json:"embedding"`
	Metadata   ChunkMetadataRequest `json:"metadata,omitempty"`
}

// ChunkUpdateRequest is the request body for a chunk PATCH.
type ChunkUpdateRequest struct {
	Text      *string               `json:"text,omitempty"`
	Embedding []float64             `json:"embedding,omitempty"`
	Metadata  *ChunkMetadataRequest `json:"metadata,omitempty"`
}

// ChunkResponse is the JSON representation of a chunk.
type ChunkResponse struct {
	ID         string        `json:"id"`
	LibraryID  string        `json:"library_id"`
	DocumentID string        `json:"document_id"`
	Text       string        `json:"text"`
	Embedding  []float64     `json:"embedding"`
	Metadata   models.ChunkMetadata `json:"metadata,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func toChunkResponse(c *models.Chunk) ChunkResponse {
	return ChunkResponse{
		ID:         c.ID,
		LibraryID:  c.LibraryID,
		DocumentID: c.DocumentID,
		Text:       c.Text,
		Embedding:  c.Embedding,
		Metadata:   c.Metadata,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// Create handles POST /api/v1/libraries/{library_id}/chunks.
func (h *ChunkHandler) Create(w http.ResponseWriter, r *http.Request) {
	libraryID := mux.Vars(r)["library_id"]
	var req ChunkRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	c, err := h.chunks.Create(libraryID, req.DocumentID, req.Text, req.Embedding, req.Metadata.toModel())
	if err != nil {
		WriteError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, toChunkResponse(c))
}

// List handles GET /api/v1/libraries/{library_id}/chunks, optionally
// narrowed to a single document via ?document_id=.
func (h *ChunkHandler) List(w http.ResponseWriter, r *http.Request) {
	libraryID := mux.Vars(r)["library_id"]
	var chunks []*models.Chunk
	if docID := r.URL.Query().Get("document_id"); docID != "" {
		chunks = h.chunks.ListByDocument(docID)
	} else {
		chunks = h.chunks.ListByLibrary(libraryID)
	}
	out := make([]ChunkResponse, len(chunks))
	for i, c := range chunks {
		out[i] = toChunkResponse(c)
	}
	RespondJSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/libraries/{library_id}/chunks/{id}.
func (h *ChunkHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c, err := h.chunks.Get(id)
	if err != nil {
		WriteError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, toChunkResponse(c))
}

// Update handles PATCH /api/v1/libraries/{library_id}/chunks/{id}.
func (h *ChunkHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req ChunkUpdateRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	upd := models.ChunkUpdate{Text: req.Text, Embedding: req.Embedding}
	if req.Metadata != nil {
		m := req.Metadata.toModel()
		upd.Metadata = &m
	}
	c, err := h.chunks.Update(id, upd)
	if err != nil {
		WriteError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, toChunkResponse(c))
}

// Delete handles DELETE /api/v1/libraries/{library_id}/chunks/{id}.
func (h *ChunkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.chunks.Delete(id); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
