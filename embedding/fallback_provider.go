package embedding

import (
	"context"

	"github.com/aviral1303/vectordb/logger"
)

// FallbackProvider serves remote embeddings when a remote provider is
// configured and healthy, and the deterministic hash embedding otherwise
// (spec.md §7: embedding provider errors are swallowed and replaced by the
// local fallback, never surfaced to the caller).
type FallbackProvider struct {
	remote Provider
	local  *HashProvider
}

// NewFallbackProvider wraps remote (nil if no remote provider is
// configured) with the deterministic local fallback.
func NewFallbackProvider(remote Provider) *FallbackProvider {
	return &FallbackProvider{remote: remote, local: NewHashProvider()}
}

// Embed tries the remote provider first, if configured, falling back to
// the local hash embedding on any error.
func (p *FallbackProvider) Embed(ctx context.Context, text string, dimension int) ([]float64, error) {
	if p.remote != nil {
		vec, err := p.remote.Embed(ctx, text, dimension)
		if err == nil && len(vec) == dimension {
			return vec, nil
		}
		logger.Warn("embedding provider unavailable, using local fallback: %v", err)
	}
	return p.local.Embed(ctx, text, dimension)
}
