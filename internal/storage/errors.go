package storage

import "errors"

// Store errors. Cached astronomical values never change once computed, so
// every store is insert-only and a second insert for a key is ErrDuplicateKey.
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidInput = errors.New("invalid input")
)
