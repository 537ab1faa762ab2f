package dto

import "cartify_backend/internal/feature/catalog/usecase"

// PagedRes is the JSON envelope of every list endpoint.
type PagedRes[T any] struct {
	Data            []T   `json:"data"`
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	Total           int64 `json:"total"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// NewPagedRes maps every item of p with conv and copies the paging metadata.
func NewPagedRes[S, T any](p *usecase.PagedList[S], conv func(S) T) PagedRes[T] {
	data := make([]T, 0, len(p.Data))
	for _, s := range p.Data {
		data = append(data, conv(s))
	}
	return PagedRes[T]{
		Data:            data,
		Page:            p.Page,
		Limit:           p.Limit,
		Total:           p.Total,
		TotalPages:      p.TotalPages(),
		HasNextPage:     p.HasNextPage(),
		HasPreviousPage: p.HasPreviousPage(),
	}
}
