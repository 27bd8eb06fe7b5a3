package index_test

import (
	"errors"
	"testing"

	"github.com/aviral1303/vectordb/index"
	"github.com/aviral1303/vectordb/models"
)

func TestLSHSearchReturnsNonEmptyOnEmptyBucket(t *testing.T) {
	l := index.NewLSH(4, 7)
	vectors := make([][]float64, 0, 20)
	ids := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		vectors = append(vectors, []float64{float64(i%3) - 1, float64((i+1)%3) - 1, 0.5})
		ids = append(ids, string(rune('a'+i)))
	}
	if err := l.Build(vectors, ids); err != nil {
		t.Fatalf("Build: %v", err)
	}

	// A query far outside the data's bucket distribution still must return
	// results via the exhaustive fallback (spec.md §4.4.3).
	results := l.Search([]float64{-5, -5, -5}, 3)
	if len(results) == 0 {
		t.Fatalf("want non-empty fallback results, got empty")
	}
}

func TestLSHAddDuplicate(t *testing.T) {
	l := index.NewLSH(4, 1)
	l.Build([][]float64{{1, 0}}, []string{"a"})
	err := l.Add([]float64{0, 1}, "a")
	if !errors.Is(err, models.ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
}

func TestLSHRemoveNotFound(t *testing.T) {
	l := index.NewLSH(4, 1)
	err := l.Remove("missing")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestLSHDeterministicBucketing(t *testing.T) {
	l1 := index.NewLSH(8, 42)
	l2 := index.NewLSH(8, 42)
	vectors := [][]float64{{1, 2, 3}, {3, 2, 1}}
	ids := []string{"x", "y"}
	l1.Build(vectors, ids)
	l2.Build(vectors, ids)

	r1 := l1.Search([]float64{1, 2, 3}, 2)
	r2 := l2.Search([]float64{1, 2, 3}, 2)
	if len(r1) != len(r2) {
		t.Fatalf("same seed produced different result counts: %v vs %v", r1, r2)
	}
	for i := range r1 {
		if r1[i].ID != r2[i].ID {
			t.Errorf("same seed produced different ordering at %d: %s vs %s", i, r1[i].ID, r2[i].ID)
		}
	}
}

func TestLSHRemoveThenSizeShrinks(t *testing.T) {
	l := index.NewLSH(4, 1)
	l.Build([][]float64{{1, 0}, {0, 1}}, []string{"a", "b"})
	if err := l.Remove("a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if l.Size() != 1 {
		t.Fatalf("want size 1 after remove, got %d", l.Size())
	}
}
