package embedding_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aviral1303/vectordb/embedding"
)

func TestHashProviderIsDeterministic(t *testing.T) {
	p := embedding.NewHashProvider()
	ctx := context.Background()
	a, err := p.Embed(ctx, "the quick brown fox", 16)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, err := p.Embed(ctx, "the quick brown fox", 16)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("want identical output for identical input, got %v vs %v", a, b)
		}
	}
}

func TestHashProviderRespectsDimension(t *testing.T) {
	p := embedding.NewHashProvider()
	vec, err := p.Embed(context.Background(), "hello world", 8)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 8 {
		t.Fatalf("want length 8, got %d", len(vec))
	}
}

func TestHashProviderDifferentTextDiffers(t *testing.T) {
	p := embedding.NewHashProvider()
	ctx := context.Background()
	a, _ := p.Embed(ctx, "alpha", 32)
	b, _ := p.Embed(ctx, "beta", 32)
	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("want different embeddings for different text")
	}
}

type stubProvider struct {
	vec []float64
	err error
}

func (s stubProvider) Embed(context.Context, string, int) ([]float64, error) {
	return s.vec, s.err
}

func TestFallbackProviderUsesRemoteWhenHealthy(t *testing.T) {
	remote := stubProvider{vec: []float64{1, 2, 3}}
	p := embedding.NewFallbackProvider(remote)
	vec, err := p.Embed(context.Background(), "text", 3)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if vec[0] != 1 || vec[1] != 2 || vec[2] != 3 {
		t.Fatalf("want remote vector passed through, got %v", vec)
	}
}

func TestFallbackProviderFallsBackOnRemoteError(t *testing.T) {
	remote := stubProvider{err: errors.New("unreachable")}
	p := embedding.NewFallbackProvider(remote)
	vec, err := p.Embed(context.Background(), "text", 4)
	if err != nil {
		t.Fatalf("want fallback to swallow remote error, got %v", err)
	}
	if len(vec) != 4 {
		t.Fatalf("want fallback vector of requested dimension, got length %d", len(vec))
	}
}

func TestFallbackProviderFallsBackOnDimensionMismatch(t *testing.T) {
	remote := stubProvider{vec: []float64{1, 2}}
	p := embedding.NewFallbackProvider(remote)
	vec, err := p.Embed(context.Background(), "text", 5)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 5 {
		t.Fatalf("want fallback vector matching requested dimension, got length %d", len(vec))
	}
}

func TestFallbackProviderWithNoRemoteConfigured(t *testing.T) {
	p := embedding.NewFallbackProvider(nil)
	vec, err := p.Embed(context.Background(), "text", 4)
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 4 {
		t.Fatalf("want local fallback vector, got length %d", len(vec))
	}
}
