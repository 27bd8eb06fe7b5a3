package models

import (
	"fmt"
	"strings"
	"time"
)

// Document is a titled container grouping chunks within a library. It
// belongs to exactly one library for its whole lifetime (LibraryID is
// immutable after creation).
type Document struct {
	ID          string            `json:"id"`
	LibraryID   string            `json:"library_id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// DocumentUpdate carries the optional fields accepted by PATCH.
type DocumentUpdate struct {
	Title       *string
	Description *string
	Metadata    map[string]string
}

// ValidateNewDocument validates title/description at creation time.
func ValidateNewDocument(title, description string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" || len(trimmed) > 256 {
		return fmt.Errorf("%w: title must be 1..256 characters after trimming", ErrValidation)
	}
	if len(description) > 2048 {
		return fmt.Errorf("%w: description must be at most 2048 characters", ErrValidation)
	}
	return nil
}
