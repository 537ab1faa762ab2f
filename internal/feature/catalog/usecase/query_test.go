package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageQuery_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		in        PageQuery
		wantPage  int
		wantLimit int
	}{
		{"defaults", PageQuery{}, 1, 30},
		{"negative page", PageQuery{Page: -3, Limit: 5}, 1, 5},
		{"limit capped", PageQuery{Page: 2, Limit: 500}, 2, 40},
		{"limit at cap", PageQuery{Page: 1, Limit: 40}, 1, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestProductQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		q       ProductQuery
		wantErr error
	}{
		{"no sort", ProductQuery{}, nil},
		{"ascending and descending on different fields", ProductQuery{OrderBy: SortTitle, OrderByDesc: SortPrice}, nil},
		{"every known field", ProductQuery{OrderBy: SortUpdateTime, OrderByDesc: SortRatingsQuantity}, nil},
		{"same field", ProductQuery{OrderBy: SortSold, OrderByDesc: SortSold}, ErrConflictingSort},
		{"unknown field", ProductQuery{OrderBy: "Price"}, ErrInvalidSortField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPagedList_Metadata(t *testing.T) {
	tests := []struct {
		name      string
		list      PagedList[int]
		wantPages int
		wantNext  bool
		wantPrev  bool
	}{
		{"empty", PagedList[int]{Page: 1, Limit: 30, Total: 0}, 0, false, false},
		{"single partial page", PagedList[int]{Page: 1, Limit: 30, Total: 7}, 1, false, false},
		{"first of three", PagedList[int]{Page: 1, Limit: 10, Total: 25}, 3, true, false},
		{"last of three", PagedList[int]{Page: 3, Limit: 10, Total: 25}, 3, false, true},
		{"exact multiple", PagedList[int]{Page: 2, Limit: 10, Total: 20}, 2, false, true},
		{"zero limit", PagedList[int]{Page: 1, Limit: 0, Total: 5}, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantPages, tt.list.TotalPages())
			assert.Equal(t, tt.wantNext, tt.list.HasNextPage())
			assert.Equal(t, tt.wantPrev, tt.list.HasPreviousPage())
		})
	}
}

func TestProductListSpec(t *testing.T) {
	brandID := 4
	q := ProductQuery{
		PageQuery: PageQuery{Keyword: "air", Page: 3, Limit: 10},
		BrandID:   &brandID,
		OrderBy:   SortTitle,
	}

	s := productListSpec(q)

	assert.Len(t, s.Criteria(), 2, "the unset category filter is dropped")
	assert.Equal(t, []string{"Brand", "Category"}, s.Includes())
	assert.Equal(t, "title", s.OrderBy())
	assert.Empty(t, s.OrderByDesc())
	assert.Equal(t, 20, s.Skip())
	assert.Equal(t, 10, s.Take())
	assert.Len(t, productFilter(q).Includes(), 0)
}

func TestProductListSpec_DefaultOrder(t *testing.T) {
	tests := []struct {
		name     string
		q        ProductQuery
		wantAsc  string
		wantDesc string
	}{
		{"no sort falls back to id", ProductQuery{PageQuery: PageQuery{Page: 2, Limit: 10}}, "id", ""},
		{"desc only keeps the asc slot empty", ProductQuery{OrderByDesc: SortTitle}, "", "title"},
		{"asc wins over fallback", ProductQuery{OrderBy: SortTitle}, "title", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := productListSpec(tt.q)
			assert.Equal(t, tt.wantAsc, s.OrderBy())
			assert.Equal(t, tt.wantDesc, s.OrderByDesc())
		})
	}
}
