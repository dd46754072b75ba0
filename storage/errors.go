package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when a file does not exist.
	ErrNotFound = errors.New("file not found")
)
