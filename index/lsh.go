package index

import (
	"fmt"
	"math/rand"

	"github.com/aviral1303/vectordb/models"
)

// DefaultLSHPlanes and DefaultLSHSeed are the defaults named in spec.md
// §4.4.3.
const (
	DefaultLSHPlanes = 24
	DefaultLSHSeed   = 1
)

// LSH is a random-hyperplane locality-sensitive-hashing index. Bucket keys
// are the concatenation of sign bits of <v, plane_i> (>= 0 -> 1). A query
// whose bucket is empty falls back to an exhaustive scan, guaranteeing
// non-empty results whenever data exists (spec.md §4.4.3).
type LSH struct {
	numPlanes int
	seed      int64
	dim       int
	planes    [][]float64
	vectors   map[string][]float64 // id -> normalized vector
	buckets   map[string][]string  // bucket key -> ids
	bucketOf  map[string]string    // id -> its current bucket key
}

// NewLSH creates an LSH index with the given plane count and seed. Planes
// are generated lazily on the first Build/Add once the vector dimension is
// known.
func NewLSH(numPlanes int, seed int64) *LSH {
	if numPlanes <= 0 {
		numPlanes = DefaultLSHPlanes
	}
	return &LSH{
		numPlanes: numPlanes,
		seed:      seed,
		vectors:   make(map[string][]float64),
		buckets:   make(map[string][]string),
		bucketOf:  make(map[string]string),
	}
}

// ensurePlanes (re)generates hyperplanes when the dimension changes, per
// spec.md §9 "planes MUST be regenerated on dimension change".
func (l *LSH) ensurePlanes(dim int) {
	if l.planes != nil && l.dim == dim {
		return
	}
	l.dim = dim
	rng := rand.New(rand.NewSource(l.seed))
	planes := make([][]float64, l.numPlanes)
	for i := range planes {
		raw := make([]float64, dim)
		for j := range raw {
			raw[j] = rng.NormFloat64()
		}
		planes[i] = Normalize(raw)
	}
	l.planes = planes
}

func (l *LSH) bucketKey(v []float64) string {
	key := make([]byte, len(l.planes))
	for i, plane := range l.planes {
		if Dot(v, plane) >= 0 {
			key[i] = '1'
		} else {
			key[i] = '0'
		}
	}
	return string(key)
}

// Build atomically replaces the index contents. Planes are regenerated
// only if the dimension changed (spec.md §4.4.3).
func (l *LSH) Build(vectors [][]float64, ids []string) error {
	if len(vectors) == 0 {
		l.vectors = make(map[string][]float64)
		l.buckets = make(map[string][]string)
		l.bucketOf = make(map[string]string)
		return nil
	}
	l.ensurePlanes(len(Normalize(vectors[0])))

	newVectors := make(map[string][]float64, len(ids))
	newBuckets := make(map[string][]string)
	newBucketOf := make(map[string]string, len(ids))
	for i, v := range vectors {
		n := Normalize(v)
		id := ids[i]
		newVectors[id] = n
		key := l.bucketKey(n)
		newBuckets[key] = append(newBuckets[key], id)
		newBucketOf[id] = key
	}
	l.vectors = newVectors
	l.buckets = newBuckets
	l.bucketOf = newBucketOf
	return nil
}

// Add inserts id, failing models.ErrDuplicate if it is already present.
func (l *LSH) Add(vector []float64, id string) error {
	if _, exists := l.vectors[id]; exists {
		return fmt.Errorf("%w: id %s", models.ErrDuplicate, id)
	}
	n := Normalize(vector)
	l.ensurePlanes(len(n))
	l.vectors[id] = n
	key := l.bucketKey(n)
	l.buckets[key] = append(l.buckets[key], id)
	l.bucketOf[id] = key
	return nil
}

// Remove deletes id, failing models.ErrNotFound if absent.
func (l *LSH) Remove(id string) error {
	if _, exists := l.vectors[id]; !exists {
		return fmt.Errorf("%w: id %s", models.ErrNotFound, id)
	}
	key := l.bucketOf[id]
	l.buckets[key] = removeID(l.buckets[key], id)
	if len(l.buckets[key]) == 0 {
		delete(l.buckets, key)
	}
	delete(l.vectors, id)
	delete(l.bucketOf, id)
	return nil
}

// Update replaces the stored vector for id, re-bucketing it.
func (l *LSH) Update(id string, vector []float64) error {
	if _, exists := l.vectors[id]; !exists {
		return fmt.Errorf("%w: id %s", models.ErrNotFound, id)
	}
	oldKey := l.bucketOf[id]
	l.buckets[oldKey] = removeID(l.buckets[oldKey], id)
	if len(l.buckets[oldKey]) == 0 {
		delete(l.buckets, oldKey)
	}
	n := Normalize(vector)
	l.vectors[id] = n
	newKey := l.bucketKey(n)
	l.buckets[newKey] = append(l.buckets[newKey], id)
	l.bucketOf[id] = newKey
	return nil
}

// Search hashes the query, ranks the matching bucket's candidates by
// cosine similarity, and falls back to an exhaustive scan when the bucket
// is empty (spec.md §4.4.3).
func (l *LSH) Search(query []float64, k int) []Result {
	if k <= 0 || len(query) == 0 || len(l.vectors) == 0 {
		return []Result{}
	}
	q := Normalize(query)
	if l.planes == nil {
		l.ensurePlanes(len(q))
	}
	key := l.bucketKey(q)
	candidates := l.buckets[key]
	if len(candidates) == 0 {
		candidates = l.allIDs()
	}
	results := make([]Result, len(candidates))
	for i, id := range candidates {
		results[i] = Result{ID: id, Score: Dot(q, l.vectors[id])}
	}
	return sortResultsDesc(results, k)
}

func (l *LSH) allIDs() []string {
	ids := make([]string, 0, len(l.vectors))
	for id := range l.vectors {
		ids = append(ids, id)
	}
	return ids
}

// Size returns the number of indexed points.
func (l *LSH) Size() int {
	return len(l.vectors)
}

func removeID(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
