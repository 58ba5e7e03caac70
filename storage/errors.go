package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when no corpus exists under a key.
	ErrNotFound = errors.New("corpus not found")

	// ErrInvalidKey is returned for empty or malformed corpus keys.
	ErrInvalidKey = errors.New("invalid corpus key")
)
