package services

import (
	"fmt"
	"time"

	"github.com/aviral1303/vectordb/models"
	"github.com/aviral1303/vectordb/storage/memory"
)

// ChunkService is the only writer that touches a live index incrementally
// (spec.md §4.7). Every mutation runs under the owning library's write
// lock, spanning both the repository change and the index patch, per the
// write-lock-span open question SPEC_FULL.md resolves in §9.
type ChunkService struct {
	libraries *memory.LibraryRepository
	documents *memory.DocumentRepository
	chunks    *memory.ChunkRepository
	locks     *memory.LockRegistry
	versions  *memory.VersionManager
	index     *IndexService
}

// NewChunkService wires a chunk service to its repositories and the index
// service it drives incrementally.
func NewChunkService(
	libraries *memory.LibraryRepository,
	documents *memory.DocumentRepository,
	chunks *memory.ChunkRepository,
	locks *memory.LockRegistry,
	versions *memory.VersionManager,
	index *IndexService,
) *ChunkService {
	return &ChunkService{
		libraries: libraries,
		documents: documents,
		chunks:    chunks,
		locks:     locks,
		versions:  versions,
		index:     index,
	}
}

// Create validates that the library and document exist and that the
// embedding matches the library's dimension, inserts the chunk, bumps
// data_version, and patches the live index, all under the library's write
// lock.
func (s *ChunkService) Create(libraryID, documentID, text string, embedding []float64, metadata models.ChunkMetadata) (*models.Chunk, error) {
	lib, err := s.libraries.Get(libraryID)
	if err != nil {
		return nil, err
	}
	doc, err := s.documents.Get(documentID)
	if err != nil {
		return nil, err
	}
	if doc.LibraryID != libraryID {
		return nil, fmt.Errorf("%w: document %s does not belong to library %s", models.ErrValidation, documentID, libraryID)
	}
	if err := models.ValidateChunkText(text); err != nil {
		return nil, err
	}
	if err := models.ValidateEmbedding(embedding, lib.EmbeddingDimension); err != nil {
		return nil, err
	}
	metadata.Tags = models.NormalizeTags(metadata.Tags)
	now := time.Now().UTC()
	c := &models.Chunk{
		ID:         models.NewID(),
		LibraryID:  libraryID,
		DocumentID: documentID,
		Text:       text,
		Embedding:  embedding,
		Metadata:   metadata,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	lock := s.locks.Get(libraryID)
	lock.WithLock(func() {
		if err = s.chunks.Create(c); err != nil {
			return
		}
		s.versions.BumpData(libraryID)
		err = s.index.AddChunk(libraryID, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the chunk with the given id.
func (s *ChunkService) Get(id string) (*models.Chunk, error) {
	return s.chunks.Get(id)
}

// ListByLibrary returns every chunk in libraryID.
func (s *ChunkService) ListByLibrary(libraryID string) []*models.Chunk {
	return s.chunks.ListByLibrary(libraryID)
}

// ListByDocument returns every chunk in documentID.
func (s *ChunkService) ListByDocument(documentID string) []*models.Chunk {
	return s.chunks.ListByDocument(documentID)
}

// Update applies a partial update to a chunk under its library's write
// lock, re-validating the embedding dimension if the embedding changed and
// patching the live index in that case.
func (s *ChunkService) Update(id string, upd models.ChunkUpdate) (*models.Chunk, error) {
	existing, err := s.chunks.Get(id)
	if err != nil {
		return nil, err
	}
	embeddingChanged := upd.Embedding != nil
	if embeddingChanged {
		lib, err := s.libraries.Get(existing.LibraryID)
		if err != nil {
			return nil, err
		}
		if err := models.ValidateEmbedding(upd.Embedding, lib.EmbeddingDimension); err != nil {
			return nil, err
		}
	}

	lock := s.locks.Get(existing.LibraryID)
	var updated *models.Chunk
	lock.WithLock(func() {
		updated, err = s.chunks.Update(id, upd)
		if err != nil {
			return
		}
		s.versions.BumpData(existing.LibraryID)
		if embeddingChanged {
			err = s.index.UpdateChunk(existing.LibraryID, id, updated.Embedding)
		}
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a chunk, bumps data_version, and patches the live index,
// all under its library's write lock.
func (s *ChunkService) Delete(id string) error {
	existing, err := s.chunks.Get(id)
	if err != nil {
		return err
	}
	lock := s.locks.Get(existing.LibraryID)
	lock.WithLock(func() {
		if err = s.chunks.Delete(id); err != nil {
			return
		}
		s.versions.BumpData(existing.LibraryID)
		err = s.index.RemoveChunk(existing.LibraryID, id)
	})
	return err
}
