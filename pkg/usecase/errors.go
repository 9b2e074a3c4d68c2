package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// ErrConflict is returned when an update carries a lastUpdated stamp
	// that no longer matches the stored entity.
	ErrConflict = errors.New("entity was modified since it was read")
)
