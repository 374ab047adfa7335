package store

import "errors"

// Sentinel kinds for table errors.
var (
	// ErrNotFound means the key has no row in the table.
	ErrNotFound = errors.New("row not found")
)
