// Package usecase implements the cart business logic on top of the Redis cart store.
package usecase

import (
	"fmt"

	"cartify_backend/internal/shared/apperror"
)

var (
	// ErrCartNotFound is returned when the user has no cart, or it has expired.
	ErrCartNotFound = fmt.Errorf("cart not found: %w", apperror.ErrNotFound)

	// ErrCartItemNotFound is returned when the cart has no line with the requested id.
	ErrCartItemNotFound = fmt.Errorf("cart item not found: %w", apperror.ErrNotFound)

	// ErrProductNotFound is returned when adding a product that does not exist or was deleted.
	ErrProductNotFound = fmt.Errorf("product not found: %w", apperror.ErrNotFound)

	// ErrInvalidCount is returned for a negative item quantity.
	ErrInvalidCount = fmt.Errorf("count must not be negative: %w", apperror.ErrBadRequest)

	// ErrConcurrentUpdate is returned when the cart kept changing underneath a mutation
	// until the retry budget ran out.
	ErrConcurrentUpdate = fmt.Errorf("cart was modified concurrently: %w", apperror.ErrConflict)
)
