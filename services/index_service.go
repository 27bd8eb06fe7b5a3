package services

import (
	"sync"

	"github.com/aviral1303/vectordb/index"
	"github.com/aviral1303/vectordb/logger"
	"github.com/aviral1303/vectordb/models"
	"github.com/aviral1303/vectordb/storage/memory"
)

// ChunkSource lists a library's chunks, used by IndexService to snapshot
// build input. *memory.ChunkRepository satisfies it.
type ChunkSource = interface {
	ListByLibrary(libraryID string) []*models.Chunk
}

// IndexService owns the live vector index for every library: which
// variant is installed, whether a build is in flight, and the index
// instance itself (spec.md §4.6). Its own mu protects only these three
// maps; the per-library RWLock from the registry is what actually
// serializes builds against readers and writers.
type IndexService struct {
	locks    *memory.LockRegistry
	versions *memory.VersionManager
	pool     *BuildWorkerPool

	mu         sync.Mutex
	indexes    map[string]index.VectorIndex
	indexTypes map[string]models.IndexType
	building   map[string]bool
}

// NewIndexService wires an index service to the shared lock registry,
// version manager, and build worker pool.
func NewIndexService(locks *memory.LockRegistry, versions *memory.VersionManager, pool *BuildWorkerPool) *IndexService {
	return &IndexService{
		locks:      locks,
		versions:   versions,
		pool:       pool,
		indexes:    make(map[string]index.VectorIndex),
		indexTypes: make(map[string]models.IndexType),
		building:   make(map[string]bool),
	}
}

// BuildIndex synchronously (re)builds libraryID's index as type t over the
// chunks currently in chunks (spec.md §4.6). It snapshots under the read
// lock, constructs the new index off-lock, then swaps it in under the
// write lock so queries never observe a half-built index. On failure the
// previous index, if any, is left untouched.
func (s *IndexService) BuildIndex(libraryID string, t models.IndexType, chunks ChunkSource) error {
	lock := s.locks.Get(libraryID)

	var snapshot []*models.Chunk
	var dataVersionAtSnapshot int64
	lock.WithRLock(func() {
		snapshot = chunks.ListByLibrary(libraryID)
		dataVersionAtSnapshot = s.versions.Get(libraryID).DataVersion
	})

	dim := 0
	vectors := make([][]float64, len(snapshot))
	ids := make([]string, len(snapshot))
	for i, c := range snapshot {
		vectors[i] = c.Embedding
		ids[i] = c.ID
		if dim == 0 {
			dim = len(c.Embedding)
		}
	}

	idx, err := index.New(t, dim)
	if err != nil {
		return err
	}
	if err := idx.Build(vectors, ids); err != nil {
		return err
	}

	lock.WithLock(func() {
		s.mu.Lock()
		s.indexes[libraryID] = idx
		s.indexTypes[libraryID] = t
		s.mu.Unlock()
		s.versions.SetIndexVersion(libraryID, dataVersionAtSnapshot)
	})
	logger.Info("index build complete: library=%s type=%s size=%d", libraryID, t, idx.Size())
	return nil
}

// BuildIndexAsync submits a background build job unless one is already in
// flight for libraryID, in which case it is a no-op (spec.md §4.6: "at
// most one concurrent build per library"). The building flag is always
// cleared when the job finishes, success or failure.
func (s *IndexService) BuildIndexAsync(libraryID string, t models.IndexType, chunks ChunkSource) {
	s.mu.Lock()
	if s.building[libraryID] {
		s.mu.Unlock()
		return
	}
	s.building[libraryID] = true
	s.mu.Unlock()

	s.pool.Submit(func() {
		defer func() {
			s.mu.Lock()
			delete(s.building, libraryID)
			s.mu.Unlock()
		}()
		if err := s.BuildIndex(libraryID, t, chunks); err != nil {
			s.pool.MarkFailed()
			logger.Error("background index build failed: library=%s type=%s err=%v", libraryID, t, err)
		}
	})
}

// RebuildAsyncUsingExistingType reads libraryID's current index type,
// defaulting to brute_force if none has been recorded, and delegates to
// BuildIndexAsync (spec.md §4.6).
func (s *IndexService) RebuildAsyncUsingExistingType(libraryID string, chunks ChunkSource) {
	t := s.GetIndexType(libraryID)
	if t == "" {
		t = models.IndexBruteForce
	}
	s.BuildIndexAsync(libraryID, t, chunks)
}

// AddChunk applies an incremental add to libraryID's live index, if one
// exists, and advances index_version to the current data_version. The
// caller must hold the library's write lock (spec.md §4.6/§4.7).
func (s *IndexService) AddChunk(libraryID string, c *models.Chunk) error {
	idx, ok := s.getIndex(libraryID)
	if !ok {
		return nil
	}
	if err := idx.Add(c.Embedding, c.ID); err != nil {
		return err
	}
	s.syncIndexVersion(libraryID)
	return nil
}

// RemoveChunk applies an incremental remove, mirroring AddChunk.
func (s *IndexService) RemoveChunk(libraryID, chunkID string) error {
	idx, ok := s.getIndex(libraryID)
	if !ok {
		return nil
	}
	if err := idx.Remove(chunkID); err != nil {
		return err
	}
	s.syncIndexVersion(libraryID)
	return nil
}

// UpdateChunk applies an incremental update, mirroring AddChunk.
func (s *IndexService) UpdateChunk(libraryID, chunkID string, embedding []float64) error {
	idx, ok := s.getIndex(libraryID)
	if !ok {
		return nil
	}
	if err := idx.Update(chunkID, embedding); err != nil {
		return err
	}
	s.syncIndexVersion(libraryID)
	return nil
}

func (s *IndexService) syncIndexVersion(libraryID string) {
	v := s.versions.Get(libraryID)
	s.versions.SetIndexVersion(libraryID, v.DataVersion)
}

// Search delegates to libraryID's live index, returning nil if none
// exists (spec.md §4.6).
func (s *IndexService) Search(libraryID string, query []float64, k int) []index.Result {
	idx, ok := s.getIndex(libraryID)
	if !ok {
		return nil
	}
	return idx.Search(query, k)
}

// GetIndex returns libraryID's live index, if any.
func (s *IndexService) GetIndex(libraryID string) (index.VectorIndex, bool) {
	return s.getIndex(libraryID)
}

func (s *IndexService) getIndex(libraryID string) (index.VectorIndex, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indexes[libraryID]
	return idx, ok
}

// GetIndexType returns the currently installed index type for libraryID,
// or "" if no index has ever been built.
func (s *IndexService) GetIndexType(libraryID string) models.IndexType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexTypes[libraryID]
}

// IsBuilding reports whether a background build is currently in flight
// for libraryID.
func (s *IndexService) IsBuilding(libraryID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.building[libraryID]
}
