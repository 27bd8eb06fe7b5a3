package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/aviral1303/vectordb/models"
)

// ChunkRepository is a thread-safe in-memory map of chunks with both a
// library_id -> chunk_id and a document_id -> chunk_id secondary index
// (spec.md §4.5).
type ChunkRepository struct {
	mu         sync.RWMutex
	byID       map[string]*models.Chunk
	byLibrary  map[string]map[string]struct{}
	byDocument map[string]map[string]struct{}
}

// NewChunkRepository creates an empty repository.
func NewChunkRepository() *ChunkRepository {
	return &ChunkRepository{
		byID:       make(map[string]*models.Chunk),
		byLibrary:  make(map[string]map[string]struct{}),
		byDocument: make(map[string]map[string]struct{}),
	}
}

// Create stores c, failing ErrConflict if its id already exists.
func (r *ChunkRepository) Create(c *models.Chunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[c.ID]; exists {
		return fmt.Errorf("%w: chunk %s", models.ErrConflict, c.ID)
	}
	stored := *c
	r.byID[c.ID] = &stored
	addTo(r.byLibrary, c.LibraryID, c.ID)
	addTo(r.byDocument, c.DocumentID, c.ID)
	return nil
}

func addTo(index map[string]map[string]struct{}, key, id string) {
	set, ok := index[key]
	if !ok {
		set = make(map[string]struct{})
		index[key] = set
	}
	set[id] = struct{}{}
}

func removeFrom(index map[string]map[string]struct{}, key, id string) {
	set, ok := index[key]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(index, key)
	}
}

// Get returns a copy of the chunk with the given id.
func (r *ChunkRepository) Get(id string) (*models.Chunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: chunk %s", models.ErrNotFound, id)
	}
	out := *c
	return &out, nil
}

// ListByLibrary returns a snapshot copy of every chunk in libraryID.
func (r *ChunkRepository) ListByLibrary(libraryID string) []*models.Chunk {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked(r.byLibrary[libraryID])
}

// ListByDocument returns a snapshot copy of every chunk in documentID.
func (r *ChunkRepository) ListByDocument(documentID string) []*models.Chunk {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked(r.byDocument[documentID])
}

func (r *ChunkRepository) listLocked(ids map[string]struct{}) []*models.Chunk {
	out := make([]*models.Chunk, 0, len(ids))
	for id := range ids {
		if c, ok := r.byID[id]; ok {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out
}

// Update applies the non-nil fields of upd to the chunk.
func (r *ChunkRepository) Update(id string, upd models.ChunkUpdate) (*models.Chunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: chunk %s", models.ErrNotFound, id)
	}
	updated := *c
	if upd.Text != nil {
		if err := models.ValidateChunkText(*upd.Text); err != nil {
			return nil, err
		}
		updated.Text = *upd.Text
	}
	if upd.Embedding != nil {
		updated.Embedding = upd.Embedding
	}
	if upd.Metadata != nil {
		m := *upd.Metadata
		m.Tags = models.NormalizeTags(m.Tags)
		updated.Metadata = m
	}
	updated.UpdatedAt = time.Now().UTC()
	r.byID[id] = &updated
	out := updated
	return &out, nil
}

// Delete removes the chunk with the given id.
func (r *ChunkRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: chunk %s", models.ErrNotFound, id)
	}
	delete(r.byID, id)
	removeFrom(r.byLibrary, c.LibraryID, id)
	removeFrom(r.byDocument, c.DocumentID, id)
	return nil
}

// ReplaceAll wholesale-swaps the repository's contents and rebuilds both
// secondary indexes, used by replication (spec.md §6.4).
func (r *ChunkRepository) ReplaceAll(chunks []*models.Chunk) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byID := make(map[string]*models.Chunk, len(chunks))
	byLibrary := make(map[string]map[string]struct{})
	byDocument := make(map[string]map[string]struct{})
	for _, c := range chunks {
		copied := *c
		byID[c.ID] = &copied
		addTo(byLibrary, c.LibraryID, c.ID)
		addTo(byDocument, c.DocumentID, c.ID)
	}
	r.byID = byID
	r.byLibrary = byLibrary
	r.byDocument = byDocument
}
