package domain

import "errors"

var (
	// ErrInvalidSelection signals a filter selection that cannot be applied.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrSessionNotFound signals a missing or expired session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrDatasetUnavailable signals that the base table could not be loaded.
	ErrDatasetUnavailable = errors.New("dataset unavailable")
)
