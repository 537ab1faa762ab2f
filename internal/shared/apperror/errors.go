// Package apperror defines the error kinds shared across features.
// Feature errors wrap one of these so the HTTP boundary can map them with errors.Is.
package apperror

import "errors"

var (
	// ErrNotFound indicates the requested entity or aggregate does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness or state conflict.
	ErrConflict = errors.New("conflict")

	// ErrBadRequest indicates malformed or contradictory input.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized indicates a missing or invalid identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates an identity without the required role.
	ErrForbidden = errors.New("forbidden")
)
