package services

import (
	"time"

	"github.com/aviral1303/vectordb/models"
	"github.com/aviral1303/vectordb/storage/memory"
)

// DocumentService enforces invariants on documents. It mutates the
// document repository and, when deleting a document, the chunk repository;
// it never touches a live index (spec.md §4.7).
type DocumentService struct {
	libraries *memory.LibraryRepository
	documents *memory.DocumentRepository
	chunks    *memory.ChunkRepository
	locks     *memory.LockRegistry
}

// NewDocumentService wires a document service to its repositories.
func NewDocumentService(libraries *memory.LibraryRepository, documents *memory.DocumentRepository, chunks *memory.ChunkRepository, locks *memory.LockRegistry) *DocumentService {
	return &DocumentService{libraries: libraries, documents: documents, chunks: chunks, locks: locks}
}

// Create validates that libraryID exists and inserts a new document under
// that library's write lock.
func (s *DocumentService) Create(libraryID, title, description string, metadata map[string]string) (*models.Document, error) {
	if _, err := s.libraries.Get(libraryID); err != nil {
		return nil, err
	}
	if err := models.ValidateNewDocument(title, description); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	doc := &models.Document{
		ID:          models.NewID(),
		LibraryID:   libraryID,
		Title:       title,
		Description: description,
		Metadata:    metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	lock := s.locks.Get(libraryID)
	var err error
	lock.WithLock(func() {
		err = s.documents.Create(doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Get returns the document with the given id.
func (s *DocumentService) Get(id string) (*models.Document, error) {
	return s.documents.Get(id)
}

// ListByLibrary returns every document in libraryID.
func (s *DocumentService) ListByLibrary(libraryID string) []*models.Document {
	return s.documents.ListByLibrary(libraryID)
}

// Update applies a partial update to a document under its library's write
// lock.
func (s *DocumentService) Update(id string, upd models.DocumentUpdate) (*models.Document, error) {
	doc, err := s.documents.Get(id)
	if err != nil {
		return nil, err
	}
	lock := s.locks.Get(doc.LibraryID)
	var updated *models.Document
	lock.WithLock(func() {
		updated, err = s.documents.Update(id, upd)
	})
	return updated, err
}

// Delete removes a document and cascades to its chunks, under its
// library's write lock.
func (s *DocumentService) Delete(id string) error {
	doc, err := s.documents.Get(id)
	if err != nil {
		return err
	}
	lock := s.locks.Get(doc.LibraryID)
	lock.WithLock(func() {
		for _, c := range s.chunks.ListByDocument(id) {
			_ = s.chunks.Delete(c.ID)
		}
		err = s.documents.Delete(id)
	})
	return err
}
