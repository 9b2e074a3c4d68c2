package interfaces

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors returned by every repository backend so callers can
// branch with errors.Is regardless of the configured backend.
var (
	ErrNotFound      = goerr.New("not found")
	ErrAlreadyExists = goerr.New("already exists")
)
