// Package store persists tddflow records. The primary backend appends
// newline-delimited JSON under <root>/projects/<projectID>/<kind>.jsonl;
// a SQLite backend is available for larger installations.
package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateID indicates a record with the same ID already exists.
	ErrDuplicateID = errors.New("duplicate record id")

	// ErrStoreClosed indicates an operation on a closed store.
	ErrStoreClosed = errors.New("store is closed")

	// ErrUnsupportedBackend indicates an unknown backend name.
	ErrUnsupportedBackend = errors.New("unsupported storage backend")
)

// NotFoundError wraps ErrNotFound with the missing ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record with ID '%s' not found", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// DuplicateIDError wraps ErrDuplicateID with the colliding ID.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("record with ID '%s' already exists", e.ID)
}

func (e *DuplicateIDError) Unwrap() error {
	return ErrDuplicateID
}

// UnsupportedBackendError wraps ErrUnsupportedBackend with the name.
type UnsupportedBackendError struct {
	Name string
}

func (e *UnsupportedBackendError) Error() string {
	return fmt.Sprintf("backend '%s' is not supported (use jsonl or sqlite)", e.Name)
}

func (e *UnsupportedBackendError) Unwrap() error {
	return ErrUnsupportedBackend
}
