package services

import (
	"time"

	"github.com/aviral1303/vectordb/models"
	"github.com/aviral1303/vectordb/storage/memory"
)

// LibraryService enforces library-level invariants on top of
// LibraryRepository. It never touches a live index directly; deleting a
// library cascades into documents and chunks, which is the one place the
// index and version state for a library are abandoned (spec.md §4.7).
type LibraryService struct {
	libraries *memory.LibraryRepository
	documents *memory.DocumentRepository
	chunks    *memory.ChunkRepository
	locks     *memory.LockRegistry
	versions  *memory.VersionManager
	maxDim    int
}

// NewLibraryService wires a library service to its repositories and the
// operator-configured embedding dimension ceiling.
func NewLibraryService(
	libraries *memory.LibraryRepository,
	documents *memory.DocumentRepository,
	chunks *memory.ChunkRepository,
	locks *memory.LockRegistry,
	versions *memory.VersionManager,
	maxDim int,
) *LibraryService {
	return &LibraryService{
		libraries: libraries,
		documents: documents,
		chunks:    chunks,
		locks:     locks,
		versions:  versions,
		maxDim:    maxDim,
	}
}

// Create validates and inserts a new library.
func (s *LibraryService) Create(name, description string, dimension int, indexType models.IndexType, metadata map[string]string) (*models.Library, error) {
	if err := models.ValidateNewLibrary(name, description, dimension, indexType, s.maxDim); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	lib := &models.Library{
		ID:                 models.NewID(),
		Name:               name,
		Description:        description,
		EmbeddingDimension: dimension,
		DefaultIndexType:   indexType,
		Metadata:           metadata,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.libraries.Create(lib); err != nil {
		return nil, err
	}
	return lib, nil
}

// Get returns the library with the given id.
func (s *LibraryService) Get(id string) (*models.Library, error) {
	return s.libraries.Get(id)
}

// List returns every library.
func (s *LibraryService) List() []*models.Library {
	return s.libraries.List()
}

// Update applies a partial update to a library.
func (s *LibraryService) Update(id string, upd models.LibraryUpdate) (*models.Library, error) {
	return s.libraries.Update(id, upd)
}

// Delete removes a library and cascades the deletion to its documents and
// chunks. Per spec.md §9's resolved open question, the whole cascade runs
// under the library's write lock so no reader observes a partial cascade.
func (s *LibraryService) Delete(id string) error {
	if _, err := s.libraries.Get(id); err != nil {
		return err
	}
	lock := s.locks.Get(id)
	var cascadeErr error
	lock.WithLock(func() {
		for _, doc := range s.documents.ListByLibrary(id) {
			for _, c := range s.chunks.ListByDocument(doc.ID) {
				_ = s.chunks.Delete(c.ID)
			}
			_ = s.documents.Delete(doc.ID)
		}
		cascadeErr = s.libraries.Delete(id)
	})
	return cascadeErr
}
