// Package embedding adapts free text into vectors for the chunk and query
// services (spec.md §4.9): a remote HTTP provider when configured, with a
// deterministic local fallback so the core never blocks on an external
// service.
package embedding

import "context"

// Provider maps text to an embedding vector of a fixed dimension.
type Provider interface {
	Embed(ctx context.Context, text string, dimension int) ([]float64, error)
}
