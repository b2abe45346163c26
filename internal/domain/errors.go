package domain

import "errors"

// The three expected error kinds every domain operation may fail with.
// Anything else reaching a handler is treated as an internal failure.
//
// Checks are always ordered existence before ownership before field
// validation, so callers can rely on which kind a given bad request yields.
var (
	// ErrNotFound: no entity with the given id exists.
	ErrNotFound = errors.New("not found")
	// ErrAccessDenied: the entity exists but belongs to a different user.
	ErrAccessDenied = errors.New("access denied")
	// ErrInvalidInput: externally supplied data failed validation.
	ErrInvalidInput = errors.New("invalid input")
)
