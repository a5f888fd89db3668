package store

import "errors"

var (
	// ErrNotFound is returned where an absent row is an error rather than
	// a nil result.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned by conditional writes when the guarded
	// version column moved underneath the caller.
	ErrConflict = errors.New("version conflict")
)
