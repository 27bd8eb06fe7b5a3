package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/aviral1303/vectordb/models"
	"github.com/aviral1303/vectordb/services"
)

// DocumentHandler serves /api/v1/libraries/{library_id}/documents (spec.md §6.1).
type DocumentHandler struct {
	documents *services.DocumentService
}

// NewDocumentHandler creates a DocumentHandler.
func NewDocumentHandler(documents *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// DocumentRequest is the request body for document creation.
type DocumentRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// DocumentUpdateRequest is the request body for a document PATCH.
type DocumentUpdateRequest struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// DocumentResponse is the JSON representation of a document.
type DocumentResponse struct {
	ID          string            `json:"id"`
	LibraryID   string            `json:"library_id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func toDocumentResponse(doc *models.Document) DocumentResponse {
	return DocumentResponse{
		ID:          doc.ID,
		LibraryID:   doc.LibraryID,
		Title:       doc.Title,
		Description: doc.Description,
		Metadata:    doc.Metadata,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}

// Create handles POST /api/v1/libraries/{library_id}/documents.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	libraryID := mux.Vars(r)["library_id"]
	var req DocumentRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	doc, err := h.documents.Create(libraryID, req.Title, req.Description, req.Metadata)
	if err != nil {
		WriteError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, toDocumentResponse(doc))
}

// List handles GET /api/v1/libraries/{library_id}/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	libraryID := mux.Vars(r)["library_id"]
	docs := h.documents.ListByLibrary(libraryID)
	out := make([]DocumentResponse, len(docs))
	for i, doc := range docs {
		out[i] = toDocumentResponse(doc)
	}
	RespondJSON(w, http.StatusOK, out)
}

// Get handles GET /api/v1/libraries/{library_id}/documents/{id}.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	doc, err := h.documents.Get(id)
	if err != nil {
		WriteError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, toDocumentResponse(doc))
}

// Update handles PATCH /api/v1/libraries/{library_id}/documents/{id}.
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req DocumentUpdateRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	doc, err := h.documents.Update(id, models.DocumentUpdate{Title: req.Title, Description: req.Description, Metadata: req.Metadata})
	if err != nil {
		WriteError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, toDocumentResponse(doc))
}

// Delete handles DELETE /api/v1/libraries/{library_id}/documents/{id}.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.documents.Delete(id); err != nil {
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
