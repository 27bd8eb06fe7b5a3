package index_test

import (
	"errors"
	"testing"

	"github.com/aviral1303/vectordb/index"
	"github.com/aviral1303/vectordb/models"
)

func TestKDTreeSearchFindsNearest(t *testing.T) {
	tr := index.NewKDTree(2)
	vectors := [][]float64{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	ids := []string{"east", "north", "west", "south"}
	if err := tr.Build(vectors, ids); err != nil {
		t.Fatalf("Build: %v", err)
	}

	results := tr.Search([]float64{0.9, 0.1}, 1)
	if len(results) != 1 || results[0].ID != "east" {
		t.Fatalf("want east as nearest, got %v", results)
	}
}

func TestKDTreeAddDuplicate(t *testing.T) {
	tr := index.NewKDTree(2)
	tr.Build([][]float64{{1, 0}}, []string{"a"})
	err := tr.Add([]float64{0, 1}, "a")
	if !errors.Is(err, models.ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
}

func TestKDTreeRemoveNotFound(t *testing.T) {
	tr := index.NewKDTree(2)
	err := tr.Remove("missing")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestKDTreeRebuildsAfterMutation(t *testing.T) {
	tr := index.NewKDTree(2)
	tr.Build([][]float64{{1, 0}, {0, 1}}, []string{"a", "b"})
	if err := tr.Add([]float64{-1, 0}, "c"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if tr.Size() != 3 {
		t.Fatalf("want size 3, got %d", tr.Size())
	}
	results := tr.Search([]float64{-0.9, 0}, 1)
	if len(results) != 1 || results[0].ID != "c" {
		t.Fatalf("want c as nearest after add, got %v", results)
	}
}

func TestKDTreeSearchEmptyTree(t *testing.T) {
	tr := index.NewKDTree(2)
	if results := tr.Search([]float64{1, 0}, 3); len(results) != 0 {
		t.Fatalf("want empty results on empty tree, got %v", results)
	}
}

func TestKDTreeSearchBoundedByK(t *testing.T) {
	tr := index.NewKDTree(2)
	tr.Build([][]float64{{1, 0}, {0.9, 0.1}, {0, 1}, {-1, 0}}, []string{"a", "b", "c", "d"})
	results := tr.Search([]float64{1, 0}, 2)
	if len(results) != 2 {
		t.Fatalf("want 2 results, got %d", len(results))
	}
}
