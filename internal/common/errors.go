package common

import "errors"

var (
	// ErrStorage marks failures of the token persistence layer
	// (read, write or delete). Callers match it with errors.Is.
	ErrStorage = errors.New("storage error")

	// ErrNotAuthenticated is returned by operations that need an active session.
	ErrNotAuthenticated = errors.New("not authenticated")
)
