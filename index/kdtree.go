package index

import (
	"fmt"
	"sort"

	"github.com/aviral1303/vectordb/models"
)

// KDTree is a balanced median-split kd-tree over L2-normalized vectors.
// add/remove/update are full rebuilds: index maintenance happens under the
// library's write lock (spec.md §5), so a rebuild's cost is paid once per
// mutation rather than amortized — acceptable because the kd-tree targets
// low-dimension workloads (spec.md §4.4.2).
type KDTree struct {
	dim    int
	points map[string][]float64 // id -> normalized vector, the rebuild source of truth
	root   *kdNode
}

type kdNode struct {
	point       []float64
	id          string
	axis        int
	left, right *kdNode
}

// NewKDTree creates an empty kd-tree expecting vectors of the given
// dimension (0 is fine; the first Build/Add fixes it).
func NewKDTree(dim int) *KDTree {
	return &KDTree{dim: dim, points: make(map[string][]float64)}
}

// Build atomically replaces the tree's contents.
func (t *KDTree) Build(vectors [][]float64, ids []string) error {
	points := make(map[string][]float64, len(ids))
	dim := t.dim
	for i, v := range vectors {
		n := Normalize(v)
		points[ids[i]] = n
		if dim == 0 {
			dim = len(n)
		}
	}
	t.points = points
	t.dim = dim
	t.rebuild()
	return nil
}

// Add inserts id, failing models.ErrDuplicate if it is already present,
// then rebuilds the tree.
func (t *KDTree) Add(vector []float64, id string) error {
	if _, exists := t.points[id]; exists {
		return fmt.Errorf("%w: id %s", models.ErrDuplicate, id)
	}
	n := Normalize(vector)
	if t.dim == 0 {
		t.dim = len(n)
	}
	t.points[id] = n
	t.rebuild()
	return nil
}

// Remove deletes id, failing models.ErrNotFound if absent, then rebuilds.
func (t *KDTree) Remove(id string) error {
	if _, exists := t.points[id]; !exists {
		return fmt.Errorf("%w: id %s", models.ErrNotFound, id)
	}
	delete(t.points, id)
	t.rebuild()
	return nil
}

// Update replaces the stored vector for id, failing models.ErrNotFound if
// absent, then rebuilds.
func (t *KDTree) Update(id string, vector []float64) error {
	if _, exists := t.points[id]; !exists {
		return fmt.Errorf("%w: id %s", models.ErrNotFound, id)
	}
	t.points[id] = Normalize(vector)
	t.rebuild()
	return nil
}

// Size returns the number of indexed points.
func (t *KDTree) Size() int {
	return len(t.points)
}

func (t *KDTree) rebuild() {
	if len(t.points) == 0 {
		t.root = nil
		return
	}
	items := make([]kdItem, 0, len(t.points))
	for id, v := range t.points {
		items = append(items, kdItem{id: id, vec: v})
	}
	t.root = buildKDNode(items, 0, t.dim)
}

type kdItem struct {
	id  string
	vec []float64
}

// buildKDNode sorts items by the axis at this depth and recurses on the
// median split (spec.md §4.4.2).
func buildKDNode(items []kdItem, depth, dim int) *kdNode {
	if len(items) == 0 {
		return nil
	}
	axis := depth % dim
	sort.Slice(items, func(i, j int) bool {
		return items[i].vec[axis] < items[j].vec[axis]
	})
	mid := len(items) / 2
	node := &kdNode{point: items[mid].vec, id: items[mid].id, axis: axis}
	node.left = buildKDNode(items[:mid], depth+1, dim)
	node.right = buildKDNode(items[mid+1:], depth+1, dim)
	return node
}

// Search performs the canonical kd-tree best-first traversal with branch
// pruning, returning up to k results by descending cosine similarity
// (spec.md §4.4.2).
func (t *KDTree) Search(query []float64, k int) []Result {
	if k <= 0 || len(query) == 0 || t.root == nil {
		return []Result{}
	}
	q := Normalize(query)
	heap := newBoundedHeap(k)
	searchKDNode(t.root, q, heap)
	return heap.toResultsByScore()
}

func searchKDNode(node *kdNode, query []float64, heap *boundedHeap) {
	if node == nil {
		return
	}
	heap.consider(node.id, sqDist(query, node.point))

	axis := node.axis
	diff := query[axis] - node.point[axis]
	near, far := node.left, node.right
	if diff >= 0 {
		near, far = node.right, node.left
	}
	searchKDNode(near, query, heap)
	if !heap.full() || diff*diff < heap.worst() {
		searchKDNode(far, query, heap)
	}
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// boundedHeap keeps at most k (distance^2, id) entries sorted ascending by
// distance^2, as spec.md §4.4.2 describes.
type boundedHeap struct {
	k       int
	entries []boundedEntry
}

type boundedEntry struct {
	id     string
	sqDist float64
}

func newBoundedHeap(k int) *boundedHeap {
	return &boundedHeap{k: k, entries: make([]boundedEntry, 0, k)}
}

func (h *boundedHeap) full() bool {
	return len(h.entries) >= h.k
}

func (h *boundedHeap) worst() float64 {
	if len(h.entries) == 0 {
		return 0
	}
	return h.entries[len(h.entries)-1].sqDist
}

func (h *boundedHeap) consider(id string, sqDist float64) {
	if !h.full() {
		h.entries = append(h.entries, boundedEntry{id: id, sqDist: sqDist})
		sort.Slice(h.entries, func(i, j int) bool { return h.entries[i].sqDist < h.entries[j].sqDist })
		return
	}
	if sqDist < h.worst() {
		h.entries[len(h.entries)-1] = boundedEntry{id: id, sqDist: sqDist}
		sort.Slice(h.entries, func(i, j int) bool { return h.entries[i].sqDist < h.entries[j].sqDist })
	}
}

// toResultsByScore converts distance^2 on the unit sphere to cosine
// similarity via cos_sim = 1 - d^2/2 (spec.md §4.4.2).
func (h *boundedHeap) toResultsByScore() []Result {
	out := make([]Result, len(h.entries))
	for i, e := range h.entries {
		out[i] = Result{ID: e.id, Score: 1 - e.sqDist/2}
	}
	return out
}
