// Package usecase implements the wishlist business logic.
package usecase

import (
	"fmt"

	"cartify_backend/internal/shared/apperror"
)

var (
	// ErrWishlistNotFound is returned when the user has never wishlisted anything.
	ErrWishlistNotFound = fmt.Errorf("wishlist not found: %w", apperror.ErrNotFound)

	// ErrProductNotFound is returned when adding a product that does not exist or was deleted.
	ErrProductNotFound = fmt.Errorf("product not found: %w", apperror.ErrNotFound)

	// ErrNotWishlisted is returned when removing a product that is not on the wishlist.
	ErrNotWishlisted = fmt.Errorf("product is not on the wishlist: %w", apperror.ErrNotFound)

	// ErrWishlistConflict is returned when a concurrent request created the wishlist first.
	ErrWishlistConflict = fmt.Errorf("wishlist was created concurrently, retry: %w", apperror.ErrConflict)
)
