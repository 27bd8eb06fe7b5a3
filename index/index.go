// Package index implements the three vector index variants of spec.md
// §4.4: brute-force, KD-tree, and random-hyperplane LSH. All three share
// one capability set (VectorIndex) and one score semantics: cosine
// similarity in [-1, 1], computed over L2-normalized vectors.
//
// None of the variants are internally thread-safe (spec.md §5 "Indexes
// are not internally thread-safe; callers ... provide the lock"); callers
// in the services package (IndexService, QueryService) hold the owning
// library's RWLock around every call.
package index

import (
	"fmt"
	"sort"

	"github.com/aviral1303/vectordb/models"
)

// Result is one scored hit from a search.
type Result struct {
	ID    string
	Score float64
}

// VectorIndex is the unified capability set every index variant
// implements (spec.md §4.4).
type VectorIndex interface {
	// Build atomically replaces the index contents with vectors/ids.
	Build(vectors [][]float64, ids []string) error

	// Add inserts a new point, failing models.ErrDuplicate if id is
	// already present.
	Add(vector []float64, id string) error

	// Remove deletes a point, failing models.ErrNotFound if id is absent.
	Remove(id string) error

	// Update replaces the stored vector for id, failing models.ErrNotFound
	// if id is absent.
	Update(id string, vector []float64) error

	// Search returns up to k (id, score) pairs sorted by descending
	// score. Empty input or k <= 0 returns an empty, non-nil slice.
	Search(query []float64, k int) []Result

	// Size returns the number of indexed points.
	Size() int
}

// New constructs the index variant named by t. dimension is passed to the
// KD-tree only; the LSH variant sizes its hyperplanes from the first
// Build or Add, and brute force needs no dimension.
func New(t models.IndexType, dimension int) (VectorIndex, error) {
	switch t {
	case models.IndexBruteForce:
		return NewBruteForce(), nil
	case models.IndexKDTree:
		return NewKDTree(dimension), nil
	case models.IndexLSH:
		return NewLSH(DefaultLSHPlanes, DefaultLSHSeed), nil
	default:
		return nil, fmt.Errorf("%w: index type %q", models.ErrNotImplemented, t)
	}
}

// sortResultsDesc sorts by descending score and truncates to k. The sort is
// stable, so results with equal scores keep their input order.
func sortResultsDesc(results []Result, k int) []Result {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k < len(results) {
		results = results[:k]
	}
	return results
}
