// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"fmt"

	"cartify_backend/internal/shared/apperror"
)

var (
	// ErrUserNotFound is returned when a user cannot be found by email or ID.
	ErrUserNotFound = fmt.Errorf("user not found: %w", apperror.ErrNotFound)

	// ErrEmailAlreadyExists is returned when attempting to create a user with an email that already exists.
	ErrEmailAlreadyExists = fmt.Errorf("email already exists: %w", apperror.ErrConflict)

	// ErrInvalidCredentials is returned for an unknown email or a wrong password.
	// Both cases share one error so callers cannot enumerate accounts.
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", apperror.ErrUnauthorized)

	// ErrWeakPassword is returned when a new password is shorter than minPasswordLength.
	ErrWeakPassword = fmt.Errorf("password must be at least %d characters long: %w", minPasswordLength, apperror.ErrBadRequest)

	// ErrSessionNotFound is returned when a session cannot be found by ID.
	ErrSessionNotFound = fmt.Errorf("session not found: %w", apperror.ErrUnauthorized)

	// ErrSessionRevoked is returned when attempting to use a revoked session.
	ErrSessionRevoked = fmt.Errorf("session has been revoked: %w", apperror.ErrUnauthorized)

	// ErrSessionExpired is returned when attempting to use an expired session.
	ErrSessionExpired = fmt.Errorf("session has expired: %w", apperror.ErrUnauthorized)
)
