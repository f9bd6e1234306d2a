package ccmtfinder

import "github.com/shivrajanand/CCMT-ProgramFinder2024Dataset/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidSelection   = domain.ErrInvalidSelection
	ErrSessionNotFound    = domain.ErrSessionNotFound
	ErrDatasetUnavailable = domain.ErrDatasetUnavailable
)
