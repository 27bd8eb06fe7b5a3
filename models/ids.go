package models

import "github.com/google/uuid"

// NewID generates a new opaque entity id. Libraries, documents, and chunks
// all share this id scheme.
func NewID() string {
	return uuid.NewString()
}
