package domain

import "errors"

// Sentinel errors returned from use cases and mapped to HTTP statuses at the
// REST boundary.
var (
	ErrNotFound   = errors.New("item not in favorites")
	ErrValidation = errors.New("invalid item data")
)
