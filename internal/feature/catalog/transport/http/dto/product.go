// Package dto はcatalogフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"time"

	"cartify_backend/internal/feature/catalog/domain/entity"
	"cartify_backend/internal/feature/catalog/usecase"
)

// ProductListQuery is bound from the query string of GET /products.
type ProductListQuery struct {
	Keyword     string `form:"keyword"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	Limit       int    `form:"limit" binding:"omitempty,min=1"`
	Brand       *int   `form:"brand" binding:"omitempty,gt=0"`
	Category    *int   `form:"category" binding:"omitempty,gt=0"`
	OrderBy     string `form:"orderBy"`
	OrderByDesc string `form:"orderByDesc"`
}

// ToQuery converts the bound parameters into a usecase query.
func (q ProductListQuery) ToQuery() usecase.ProductQuery {
	return usecase.ProductQuery{
		PageQuery:   usecase.PageQuery{Keyword: q.Keyword, Page: q.Page, Limit: q.Limit},
		BrandID:     q.Brand,
		CategoryID:  q.Category,
		OrderBy:     usecase.SortField(q.OrderBy),
		OrderByDesc: usecase.SortField(q.OrderByDesc),
	}
}

// ProductReq is the body of product create and update requests.
type ProductReq struct {
	Title       string   `json:"title" binding:"required,min=3,max=200"`
	Description *string  `json:"description" binding:"omitempty,min=3,max=1000"`
	ImageCover  string   `json:"imageCover" binding:"required,max=512"`
	Images      []string `json:"images" binding:"omitempty,dive,max=512"`
	Price       float64  `json:"price" binding:"gte=0"`
	Quantity    int      `json:"quantity" binding:"gte=0"`
	BrandID     int      `json:"brandId" binding:"required,gt=0"`
	CategoryID  int      `json:"categoryId" binding:"required,gt=0"`
}

// ToInput converts the request into usecase input.
func (r ProductReq) ToInput() usecase.ProductInput {
	return usecase.ProductInput{
		Title:       r.Title,
		Description: r.Description,
		ImageCover:  r.ImageCover,
		Images:      r.Images,
		Price:       r.Price,
		Quantity:    r.Quantity,
		BrandID:     r.BrandID,
		CategoryID:  r.CategoryID,
	}
}

// ProductRes is the JSON shape of a product.
type ProductRes struct {
	ID             int          `json:"id"`
	Title          string       `json:"title"`
	Slug           string       `json:"slug"`
	Description    *string      `json:"description,omitempty"`
	Images         []string     `json:"images"`
	ImageCover     string       `json:"imageCover"`
	Sold           int          `json:"sold"`
	RatingsAverage float64      `json:"ratingsAverage"`
	RatingsCount   int          `json:"ratingsCount"`
	Price          float64      `json:"price"`
	Quantity       int          `json:"quantity"`
	Brand          *BrandRes    `json:"brand,omitempty"`
	Category       *CategoryRes `json:"category,omitempty"`
	CreatedAtUtc   time.Time    `json:"createdAtUtc"`
	UpdatedAtUtc   *time.Time   `json:"updatedAtUtc,omitempty"`
}

// NewProductRes maps a product and whatever relations were loaded with it.
func NewProductRes(p *entity.Product) ProductRes {
	res := ProductRes{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Description:    p.Description,
		Images:         p.Images,
		ImageCover:     p.ImageCover,
		Sold:           p.Sold,
		RatingsAverage: p.RatingsAverage,
		RatingsCount:   p.RatingsCount,
		Price:          p.Price,
		Quantity:       p.Quantity,
		CreatedAtUtc:   p.CreatedAtUtc,
		UpdatedAtUtc:   p.UpdatedAtUtc,
	}
	if res.Images == nil {
		res.Images = []string{}
	}
	if p.Brand != nil {
		b := NewBrandRes(p.Brand)
		res.Brand = &b
	}
	if p.Category != nil {
		c := NewCategoryRes(p.Category)
		res.Category = &c
	}
	return res
}
