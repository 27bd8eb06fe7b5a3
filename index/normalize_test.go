package index_test

import (
	"math"
	"testing"

	"github.com/aviral1303/vectordb/index"
)

func TestNormalizeUnitLength(t *testing.T) {
	n := index.Normalize([]float64{3, 4})
	got := math.Hypot(n[0], n[1])
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("want unit length, got %f", got)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	n := index.Normalize([]float64{0, 0, 0})
	for _, x := range n {
		if x != 0 {
			t.Fatalf("want all-zero output for zero input, got %v", n)
		}
	}
}

func TestCosineSimilarityIdentical(t *testing.T) {
	a := index.Normalize([]float64{1, 2, 3})
	got := index.CosineSimilarity(a, a)
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("want similarity 1 for identical vectors, got %f", got)
	}
}

func TestCosineSimilarityOrthogonal(t *testing.T) {
	a := index.Normalize([]float64{1, 0})
	b := index.Normalize([]float64{0, 1})
	got := index.CosineSimilarity(a, b)
	if math.Abs(got) > 1e-9 {
		t.Fatalf("want similarity 0 for orthogonal vectors, got %f", got)
	}
}
