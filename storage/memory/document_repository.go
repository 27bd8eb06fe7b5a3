package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aviral1303/vectordb/models"
)

// DocumentRepository is a thread-safe in-memory map of documents with a
// library_id -> document_id secondary index (spec.md §4.5).
type DocumentRepository struct {
	mu        sync.RWMutex
	byID      map[string]*models.Document
	byLibrary map[string]map[string]struct{}
}

// NewDocumentRepository creates an empty repository.
func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		byID:      make(map[string]*models.Document),
		byLibrary: make(map[string]map[string]struct{}),
	}
}

// Create stores doc, failing ErrConflict if its id already exists.
func (r *DocumentRepository) Create(doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[doc.ID]; exists {
		return fmt.Errorf("%w: document %s", models.ErrConflict, doc.ID)
	}
	stored := *doc
	r.byID[doc.ID] = &stored
	r.indexLocked(doc.LibraryID, doc.ID)
	return nil
}

func (r *DocumentRepository) indexLocked(libraryID, docID string) {
	set, ok := r.byLibrary[libraryID]
	if !ok {
		set = make(map[string]struct{})
		r.byLibrary[libraryID] = set
	}
	set[docID] = struct{}{}
}

// Get returns a copy of the document with the given id.
func (r *DocumentRepository) Get(id string) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: document %s", models.ErrNotFound, id)
	}
	out := *doc
	return &out, nil
}

// ListByLibrary returns a snapshot copy of every document in libraryID.
func (r *DocumentRepository) ListByLibrary(libraryID string) []*models.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byLibrary[libraryID]
	out := make([]*models.Document, 0, len(ids))
	for id := range ids {
		if doc, ok := r.byID[id]; ok {
			copied := *doc
			out = append(out, &copied)
		}
	}
	return out
}

// Update applies the non-nil fields of upd to the document.
func (r *DocumentRepository) Update(id string, upd models.DocumentUpdate) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: document %s", models.ErrNotFound, id)
	}
	updated := *doc
	if upd.Title != nil {
		trimmed := strings.TrimSpace(*upd.Title)
		if trimmed == "" || len(trimmed) > 256 {
			return nil, fmt.Errorf("%w: title must be 1..256 characters after trimming", models.ErrValidation)
		}
		updated.Title = trimmed
	}
	if upd.Description != nil {
		if len(*upd.Description) > 2048 {
			return nil, fmt.Errorf("%w: description must be at most 2048 characters", models.ErrValidation)
		}
		updated.Description = *upd.Description
	}
	if upd.Metadata != nil {
		updated.Metadata = upd.Metadata
	}
	updated.UpdatedAt = time.Now().UTC()
	r.byID[id] = &updated
	out := updated
	return &out, nil
}

// Delete removes the document with the given id.
func (r *DocumentRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: document %s", models.ErrNotFound, id)
	}
	delete(r.byID, id)
	if set, ok := r.byLibrary[doc.LibraryID]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(r.byLibrary, doc.LibraryID)
		}
	}
	return nil
}

// ReplaceAll wholesale-swaps the repository's contents and rebuilds the
// secondary index, used by replication (spec.md §6.4).
func (r *DocumentRepository) ReplaceAll(documents []*models.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byID := make(map[string]*models.Document, len(documents))
	byLibrary := make(map[string]map[string]struct{})
	for _, doc := range documents {
		copied := *doc
		byID[doc.ID] = &copied
		set, ok := byLibrary[doc.LibraryID]
		if !ok {
			set = make(map[string]struct{})
			byLibrary[doc.LibraryID] = set
		}
		set[doc.ID] = struct{}{}
	}
	r.byID = byID
	r.byLibrary = byLibrary
}
