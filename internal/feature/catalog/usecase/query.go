package usecase

import (
	"fmt"
	"math"

	"cartify_backend/internal/feature/catalog/domain/entity"
	"cartify_backend/internal/platform/persistence/specification"
)

const (
	// DefaultPage is used when no page is requested.
	DefaultPage = 1
	// DefaultLimit is the page size used when no limit is requested.
	DefaultLimit = 30
	// MaxLimit caps the page size.
	MaxLimit = 40
)

// SortField is a product field a client may sort by.
type SortField string

const (
	SortTitle           SortField = "title"
	SortPrice           SortField = "price"
	SortSold            SortField = "sold"
	SortRatingsAverage  SortField = "ratingsAverage"
	SortRatingsQuantity SortField = "ratingsQuantity"
	SortQuantity        SortField = "quantity"
	SortCreationTime    SortField = "creationTime"
	SortUpdateTime      SortField = "updateTime"
)

var productSortColumns = map[SortField]specification.Column[*entity.Product]{
	SortTitle:           entity.ProductTitle,
	SortPrice:           entity.ProductPrice,
	SortSold:            entity.ProductSold,
	SortRatingsAverage:  entity.ProductRatingsAverage,
	SortRatingsQuantity: entity.ProductRatingsCount,
	SortQuantity:        entity.ProductQuantity,
	SortCreationTime:    entity.ProductCreatedAt,
	SortUpdateTime:      entity.ProductUpdatedAt,
}

// PageQuery is the keyword and paging part of every list request.
type PageQuery struct {
	Keyword string
	Page    int
	Limit   int
}

// Normalize applies the paging defaults and caps the limit.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

// ProductQuery filters, sorts and pages the product list.
// Unset filters and sort fields are ignored.
type ProductQuery struct {
	PageQuery
	BrandID     *int
	CategoryID  *int
	OrderBy     SortField
	OrderByDesc SortField
}

// Validate rejects unknown sort fields and the same field sorted both ways.
func (q ProductQuery) Validate() error {
	for _, f := range []SortField{q.OrderBy, q.OrderByDesc} {
		if f == "" {
			continue
		}
		if _, ok := productSortColumns[f]; !ok {
			return fmt.Errorf("%q: %w", f, ErrInvalidSortField)
		}
	}
	if q.OrderBy != "" && q.OrderBy == q.OrderByDesc {
		return ErrConflictingSort
	}
	return nil
}

// PagedList is one page of a list result.
type PagedList[T any] struct {
	Data  []T   `json:"data"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// TotalPages returns the number of pages of size Limit needed for Total items.
func (p *PagedList[T]) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(p.Total) / float64(p.Limit)))
}

// HasNextPage reports whether items exist after this page.
func (p *PagedList[T]) HasNextPage() bool {
	return int64(p.Page)*int64(p.Limit) < p.Total
}

// HasPreviousPage reports whether this is not the first page.
func (p *PagedList[T]) HasPreviousPage() bool {
	return p.Page > 1
}

func newPagedList[T any](data []T, q PageQuery, total int64) *PagedList[T] {
	if data == nil {
		data = []T{}
	}
	return &PagedList[T]{Data: data, Page: q.Page, Limit: q.Limit, Total: total}
}
