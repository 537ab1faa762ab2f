package dto

import (
	"time"

	"cartify_backend/internal/feature/catalog/domain/entity"
	"cartify_backend/internal/feature/catalog/usecase"
)

// CategoryReq is the body of category create and update requests.
type CategoryReq struct {
	Name  string  `json:"name" binding:"required,min=3,max=200"`
	Image *string `json:"image" binding:"omitempty,max=512"`
}

func (r CategoryReq) ToInput() usecase.CategoryInput {
	return usecase.CategoryInput{Name: r.Name, Image: r.Image}
}

// CategoryRes is the JSON shape of a category.
type CategoryRes struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Slug         string     `json:"slug"`
	Image        *string    `json:"image"`
	CreatedAtUtc time.Time  `json:"createdAtUtc"`
	UpdatedAtUtc *time.Time `json:"updatedAtUtc,omitempty"`
}

func NewCategoryRes(c *entity.Category) CategoryRes {
	return CategoryRes{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Image:        c.Image,
		CreatedAtUtc: c.CreatedAtUtc,
		UpdatedAtUtc: c.UpdatedAtUtc,
	}
}
