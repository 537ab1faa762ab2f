// Package usecase implements the catalog business logic: products, brands and categories.
package usecase

import (
	"fmt"

	"cartify_backend/internal/shared/apperror"
)

var (
	// ErrProductNotFound is returned when no live product has the requested id.
	ErrProductNotFound = fmt.Errorf("product not found: %w", apperror.ErrNotFound)

	// ErrBrandNotFound is returned when no live brand has the requested id.
	ErrBrandNotFound = fmt.Errorf("brand not found: %w", apperror.ErrNotFound)

	// ErrCategoryNotFound is returned when no live category has the requested id.
	ErrCategoryNotFound = fmt.Errorf("category not found: %w", apperror.ErrNotFound)

	// ErrUnknownReference is returned when an input refers to a brand or category that does not exist.
	ErrUnknownReference = fmt.Errorf("referenced entity does not exist: %w", apperror.ErrBadRequest)

	// ErrConflictingSort is returned when the same field is requested ascending and descending.
	ErrConflictingSort = fmt.Errorf("cannot sort ascending and descending by the same field: %w", apperror.ErrBadRequest)

	// ErrInvalidSortField is returned for a sort field the catalog does not know.
	ErrInvalidSortField = fmt.Errorf("invalid sort field: %w", apperror.ErrBadRequest)

	// ErrInUse is returned when deleting a brand or category that live products still reference.
	ErrInUse = fmt.Errorf("still referenced by products: %w", apperror.ErrConflict)
)
