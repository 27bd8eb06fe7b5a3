package services

import (
	"fmt"

	"github.com/aviral1303/vectordb/index"
	"github.com/aviral1303/vectordb/logger"
	"github.com/aviral1303/vectordb/models"
	"github.com/aviral1303/vectordb/storage/memory"
)

// QueryService implements kNN search with filter fallback and staleness
// policy (spec.md §4.8), under the library's read lock.
type QueryService struct {
	libraries      *memory.LibraryRepository
	chunks         *memory.ChunkRepository
	locks          *memory.LockRegistry
	versions       *memory.VersionManager
	index          *IndexService
	allowStaleRead bool
}

// NewQueryService wires a query service. allowStaleIndex mirrors spec.md
// §6.2's allow_stale_index configuration flag.
func NewQueryService(
	libraries *memory.LibraryRepository,
	chunks *memory.ChunkRepository,
	locks *memory.LockRegistry,
	versions *memory.VersionManager,
	index *IndexService,
	allowStaleIndex bool,
) *QueryService {
	return &QueryService{
		libraries:      libraries,
		chunks:         chunks,
		locks:          locks,
		versions:       versions,
		index:          index,
		allowStaleRead: allowStaleIndex,
	}
}

// ScoredChunk pairs a chunk with its query score.
type ScoredChunk struct {
	Chunk *models.Chunk
	Score float64
}

// KNN runs a k-nearest-neighbor search over libraryID, taking the filtered
// path when filter has any field set and the unfiltered path (with
// staleness policy) otherwise (spec.md §4.8).
func (s *QueryService) KNN(libraryID string, query []float64, k int, filter *models.ChunkFilter) ([]ScoredChunk, error) {
	if _, err := s.libraries.Get(libraryID); err != nil {
		return nil, err
	}

	lock := s.locks.Get(libraryID)
	var out []ScoredChunk
	var err error
	lock.WithRLock(func() {
		if !filter.IsEmpty() {
			out, err = s.knnFiltered(libraryID, query, k, filter)
			return
		}
		out, err = s.knnUnfiltered(libraryID, query, k)
	})
	return out, err
}

// knnFiltered snapshots the library's chunks, applies filter, and searches
// a transient brute-force index built over the filtered subset, never
// cached (spec.md §4.8.1).
func (s *QueryService) knnFiltered(libraryID string, query []float64, k int, filter *models.ChunkFilter) ([]ScoredChunk, error) {
	all := s.chunks.ListByLibrary(libraryID)
	matched := make([]*models.Chunk, 0, len(all))
	for _, c := range all {
		if filter.Matches(c) {
			matched = append(matched, c)
		}
	}
	return s.searchTransient(matched, query, k)
}

// knnUnfiltered implements spec.md §4.8.2's staleness policy.
func (s *QueryService) knnUnfiltered(libraryID string, query []float64, k int) ([]ScoredChunk, error) {
	stale := s.versions.IsStale(libraryID)
	if stale {
		logger.TraceIf("query", "library %s index stale, scheduling rebuild", libraryID)
		s.index.RebuildAsyncUsingExistingType(libraryID, s.chunks)
	}
	if stale && !s.allowStaleRead {
		return s.searchTransient(s.chunks.ListByLibrary(libraryID), query, k)
	}
	if _, ok := s.index.GetIndex(libraryID); !ok {
		return []ScoredChunk{}, nil
	}
	results := s.index.Search(libraryID, query, k)
	return s.hydrate(libraryID, results), nil
}

// searchTransient builds a one-shot brute-force index over chunks and
// searches it (spec.md's "transient index" concept, used by the filtered
// path and the stale-without-allow-stale path).
func (s *QueryService) searchTransient(chunks []*models.Chunk, query []float64, k int) ([]ScoredChunk, error) {
	byID := make(map[string]*models.Chunk, len(chunks))
	vectors := make([][]float64, len(chunks))
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		byID[c.ID] = c
		vectors[i] = c.Embedding
		ids[i] = c.ID
	}
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	bf, err := index.New(models.IndexBruteForce, dim)
	if err != nil {
		return nil, fmt.Errorf("building transient index: %w", err)
	}
	if err := bf.Build(vectors, ids); err != nil {
		return nil, fmt.Errorf("building transient index: %w", err)
	}
	results := bf.Search(query, k)
	out := make([]ScoredChunk, 0, len(results))
	for _, r := range results {
		if c, ok := byID[r.ID]; ok {
			out = append(out, ScoredChunk{Chunk: c, Score: r.Score})
		}
	}
	return out, nil
}

// hydrate resolves index results back to full chunk records, dropping any
// id whose chunk has since vanished from the repository (a benign race
// with the off-lock phase of a background rebuild).
func (s *QueryService) hydrate(libraryID string, results []index.Result) []ScoredChunk {
	out := make([]ScoredChunk, 0, len(results))
	for _, r := range results {
		c, err := s.chunks.Get(r.ID)
		if err != nil {
			continue
		}
		out = append(out, ScoredChunk{Chunk: c, Score: r.Score})
	}
	return out
}
