package dto

import (
	"time"

	"cartify_backend/internal/feature/catalog/domain/entity"
	"cartify_backend/internal/feature/catalog/usecase"
)

// ListQuery is bound from the query string of the brand and category lists.
type ListQuery struct {
	Keyword string `form:"keyword"`
	Page    int    `form:"page" binding:"omitempty,min=1"`
	Limit   int    `form:"limit" binding:"omitempty,min=1"`
}

func (q ListQuery) ToQuery() usecase.PageQuery {
	return usecase.PageQuery{Keyword: q.Keyword, Page: q.Page, Limit: q.Limit}
}

// BrandReq is the body of brand create and update requests.
type BrandReq struct {
	Name        string  `json:"name" binding:"required,min=3,max=200"`
	Image       *string `json:"image" binding:"omitempty,max=512"`
	CategoryIDs []int   `json:"categoryIds" binding:"omitempty,dive,gt=0"`
}

func (r BrandReq) ToInput() usecase.BrandInput {
	return usecase.BrandInput{Name: r.Name, Image: r.Image, CategoryIDs: r.CategoryIDs}
}

// BrandRes is the JSON shape of a brand. Categories is present only on single-brand reads.
type BrandRes struct {
	ID           int           `json:"id"`
	Name         string        `json:"name"`
	Slug         string        `json:"slug"`
	Image        *string       `json:"image"`
	Categories   []CategoryRes `json:"categories,omitempty"`
	CreatedAtUtc time.Time     `json:"createdAtUtc"`
	UpdatedAtUtc *time.Time    `json:"updatedAtUtc,omitempty"`
}

func NewBrandRes(b *entity.Brand) BrandRes {
	res := BrandRes{
		ID:           b.ID,
		Name:         b.Name,
		Slug:         b.Slug,
		Image:        b.Image,
		CreatedAtUtc: b.CreatedAtUtc,
		UpdatedAtUtc: b.UpdatedAtUtc,
	}
	for _, link := range b.Categories {
		if link.IsDeleted() || link.Category == nil {
			continue
		}
		res.Categories = append(res.Categories, NewCategoryRes(link.Category))
	}
	return res
}
