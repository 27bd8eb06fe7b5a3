package models

import (
	"fmt"
	"strings"
	"time"
)

// IndexType names one of the three vector index variants a library can be
// built with.
type IndexType string

const (
	IndexBruteForce IndexType = "brute_force"
	IndexKDTree     IndexType = "kd_tree"
	IndexLSH        IndexType = "lsh"
)

// Valid reports whether t is one of the known index variants.
func (t IndexType) Valid() bool {
	switch t {
	case IndexBruteForce, IndexKDTree, IndexLSH:
		return true
	default:
		return false
	}
}

// MaxEmbeddingDimensionCeiling is the absolute upper bound on a library's
// embedding dimension, independent of the configured max_embedding_dimension
// (which may lower, never raise, this ceiling).
const MaxEmbeddingDimensionCeiling = 4096

// Library is a namespace with a fixed embedding dimension that owns
// documents and, transitively, chunks.
type Library struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Description        string            `json:"description,omitempty"`
	EmbeddingDimension int               `json:"embedding_dimension"`
	DefaultIndexType   IndexType         `json:"default_index_type"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// LibraryUpdate carries the optional fields accepted by PATCH. Nil fields
// are left untouched by Repository.Update, matching spec.md §4.5 ("applies
// non-null fields").
type LibraryUpdate struct {
	Name        *string
	Description *string
	Metadata    map[string]string
}

// ValidateNewLibrary validates the fields of a library at creation time.
// maxDimension is the operator-configured ceiling (spec.md §6.2
// max_embedding_dimension); a value above MaxEmbeddingDimensionCeiling is
// clamped to that ceiling.
func ValidateNewLibrary(name, description string, dimension int, indexType IndexType, maxDimension int) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > 128 {
		return fmt.Errorf("%w: name must be 1..128 characters after trimming", ErrValidation)
	}
	if len(description) > 1024 {
		return fmt.Errorf("%w: description must be at most 1024 characters", ErrValidation)
	}
	if maxDimension > MaxEmbeddingDimensionCeiling {
		maxDimension = MaxEmbeddingDimensionCeiling
	}
	if dimension < 1 || dimension > maxDimension {
		return fmt.Errorf("%w: embedding_dimension must be in [1, %d]", ErrValidation, maxDimension)
	}
	if !indexType.Valid() {
		return fmt.Errorf("%w: unknown default_index_type %q", ErrValidation, indexType)
	}
	return nil
}
