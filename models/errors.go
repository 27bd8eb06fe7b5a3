// Package models defines the core data structures, sentinel errors, and
// validation rules shared by the repository, index, and service layers.
package models

import "errors"

// Sentinel errors returned by repositories, the index service, and the
// service layer. The HTTP boundary maps these to status codes with
// errors.Is, so wrapped errors (fmt.Errorf("...: %w", err)) still compare
// correctly.
var (
	// ErrNotFound is returned when a referenced entity is absent.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a create call supplies a duplicate id.
	ErrConflict = errors.New("resource already exists")

	// ErrValidation is returned for dimension mismatches, empty required
	// fields, and out-of-range values.
	ErrValidation = errors.New("validation failed")

	// ErrPermissionDenied is returned for writes attempted on a follower
	// node, or a snapshot request on a follower.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotImplemented is returned for an unsupported index type.
	ErrNotImplemented = errors.New("not implemented")

	// ErrDuplicate is returned by a vector index's add() when the id is
	// already present. Distinct from ErrConflict because it is a property
	// of the index contract (spec C4), not the repository contract (C5).
	ErrDuplicate = errors.New("duplicate id")
)
