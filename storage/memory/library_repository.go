package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aviral1303/vectordb/models"
)

// LibraryRepository is a thread-safe in-memory map of libraries, protected
// by its own internal mutex (spec.md §4.5). It does not validate
// cross-entity invariants; that is the service layer's job.
type LibraryRepository struct {
	mu   sync.RWMutex
	byID map[string]*models.Library
}

// NewLibraryRepository creates an empty repository.
func NewLibraryRepository() *LibraryRepository {
	return &LibraryRepository{byID: make(map[string]*models.Library)}
}

// Create stores lib, failing ErrConflict if its id already exists.
func (r *LibraryRepository) Create(lib *models.Library) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[lib.ID]; exists {
		return fmt.Errorf("%w: library %s", models.ErrConflict, lib.ID)
	}
	stored := *lib
	r.byID[lib.ID] = &stored
	return nil
}

// Get returns a copy of the library with the given id.
func (r *LibraryRepository) Get(id string) (*models.Library, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lib, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: library %s", models.ErrNotFound, id)
	}
	out := *lib
	return &out, nil
}

// List returns a snapshot copy of every library.
func (r *LibraryRepository) List() []*models.Library {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Library, 0, len(r.byID))
	for _, lib := range r.byID {
		copied := *lib
		out = append(out, &copied)
	}
	return out
}

// Update applies the non-nil fields of upd to the library, bumping
// UpdatedAt, and returns the updated copy.
func (r *LibraryRepository) Update(id string, upd models.LibraryUpdate) (*models.Library, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lib, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: library %s", models.ErrNotFound, id)
	}
	updated := *lib
	if upd.Name != nil {
		trimmed := strings.TrimSpace(*upd.Name)
		if trimmed == "" || len(trimmed) > 128 {
			return nil, fmt.Errorf("%w: name must be 1..128 characters after trimming", models.ErrValidation)
		}
		updated.Name = trimmed
	}
	if upd.Description != nil {
		if len(*upd.Description) > 1024 {
			return nil, fmt.Errorf("%w: description must be at most 1024 characters", models.ErrValidation)
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

// Delete removes the library with the given id.
func (r *LibraryRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("%w: library %s", models.ErrNotFound, id)
	}
	delete(r.byID, id)
	return nil
}

// ReplaceAll wholesale-swaps the repository's contents, used by
// replication (spec.md §6.4).
func (r *LibraryRepository) ReplaceAll(libraries []*models.Library) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fresh := make(map[string]*models.Library, len(libraries))
	for _, lib := range libraries {
		copied := *lib
		fresh[lib.ID] = &copied
	}
	r.byID = fresh
}
