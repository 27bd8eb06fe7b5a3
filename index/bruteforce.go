package index

import (
	"fmt"

	"github.com/aviral1303/vectordb/models"
)

// BruteForce is a flat array index: ids[i] and vectors[i] (L2-normalized)
// describe the same point, with pos giving O(1) id lookup. Removal uses
// swap-with-last + pop to stay O(1) at the cost of order stability
// (spec.md §4.4.1, §9).
type BruteForce struct {
	ids     []string
	vectors [][]float64
	pos     map[string]int
}

// NewBruteForce creates an empty brute-force index.
func NewBruteForce() *BruteForce {
	return &BruteForce{pos: make(map[string]int)}
}

// Build atomically replaces the index contents.
func (b *BruteForce) Build(vectors [][]float64, ids []string) error {
	fresh := NewBruteForce()
	for i, v := range vectors {
		fresh.appendPoint(Normalize(v), ids[i])
	}
	*b = *fresh
	return nil
}

func (b *BruteForce) appendPoint(normalized []float64, id string) {
	b.pos[id] = len(b.ids)
	b.ids = append(b.ids, id)
	b.vectors = append(b.vectors, normalized)
}

// Add appends a new point, failing models.ErrDuplicate if id exists.
func (b *BruteForce) Add(vector []float64, id string) error {
	if _, exists := b.pos[id]; exists {
		return fmt.Errorf("%w: id %s", models.ErrDuplicate, id)
	}
	b.appendPoint(Normalize(vector), id)
	return nil
}

// Remove deletes id via swap-with-last + pop.
func (b *BruteForce) Remove(id string) error {
	i, exists := b.pos[id]
	if !exists {
		return fmt.Errorf("%w: id %s", models.ErrNotFound, id)
	}
	last := len(b.ids) - 1
	b.ids[i] = b.ids[last]
	b.vectors[i] = b.vectors[last]
	b.pos[b.ids[i]] = i
	b.ids = b.ids[:last]
	b.vectors = b.vectors[:last]
	delete(b.pos, id)
	return nil
}

// Update replaces the stored vector for id.
func (b *BruteForce) Update(id string, vector []float64) error {
	i, exists := b.pos[id]
	if !exists {
		return fmt.Errorf("%w: id %s", models.ErrNotFound, id)
	}
	b.vectors[i] = Normalize(vector)
	return nil
}

// Search scans all vectors, computing dot products against the
// normalized query and returning the top k by descending score.
func (b *BruteForce) Search(query []float64, k int) []Result {
	if k <= 0 || len(query) == 0 || len(b.ids) == 0 {
		return []Result{}
	}
	q := Normalize(query)
	results := make([]Result, len(b.ids))
	for i, id := range b.ids {
		results[i] = Result{ID: id, Score: Dot(q, b.vectors[i])}
	}
	return sortResultsDesc(results, k)
}

// Size returns the number of indexed points.
func (b *BruteForce) Size() int {
	return len(b.ids)
}
