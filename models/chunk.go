package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ChunkMetadata carries the filterable, non-structural attributes of a
// chunk: a deduplicated tag set, the author, an upstream source label, and
// the user that created the chunk. ContentCreatedAt is the caller-supplied
// creation time of the underlying content (distinct from the chunk
// entity's own CreatedAt, which is when it was inserted into the library).
type ChunkMetadata struct {
	Tags             []string  `json:"tags,omitempty"`
	Author           string    `json:"author,omitempty"`
	Source           string    `json:"source,omitempty"`
	CreatedBy        string    `json:"created_by,omitempty"`
	ContentCreatedAt time.Time `json:"content_created_at,omitempty"`
}

// Chunk is the atomic unit of indexing and retrieval: a piece of text with
// an embedding vector whose length must equal the owning library's
// embedding dimension.
type Chunk struct {
	ID         string        `json:"id"`
	LibraryID  string        `json:"library_id"`
	DocumentID string        `json:"document_id"`
	Text       string        `json:"text"`
	Embedding  []float64     `json:"embedding"`
	Metadata   ChunkMetadata `json:"metadata,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// ChunkUpdate carries the optional fields accepted by PATCH. A nil
// Embedding leaves the stored embedding untouched; a non-nil Embedding
// (even an empty, always-invalid one) signals the caller wants it replaced
// and therefore re-validated against the library dimension.
type ChunkUpdate struct {
	Text      *string
	Embedding []float64
	Metadata  *ChunkMetadata
}

// NormalizeTags trims, drops empties, truncates to 64 characters, and
// deduplicates a tag list while preserving first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if len(tag) > 64 {
			tag = tag[:64]
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// ValidateChunkText validates the trimmed-non-empty invariant on chunk text.
func ValidateChunkText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text must not be empty", ErrValidation)
	}
	return nil
}

// ValidateEmbedding checks that embedding is a non-empty sequence of finite
// numbers whose length equals dimension (spec.md §3 Chunk, invariant 2).
func ValidateEmbedding(embedding []float64, dimension int) error {
	if len(embedding) == 0 {
		return fmt.Errorf("%w: embedding must not be empty", ErrValidation)
	}
	if len(embedding) != dimension {
		return fmt.Errorf("%w: embedding has length %d, library dimension is %d", ErrValidation, len(embedding), dimension)
	}
	for _, v := range embedding {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: embedding must contain only finite numbers", ErrValidation)
		}
	}
	return nil
}
