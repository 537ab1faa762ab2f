// Package entity defines the catalog entities and the columns and relations
// their specifications may refer to.
package entity

import (
	"cartify_backend/internal/platform/persistence/specification"
	"cartify_backend/internal/shared/model"
)

// Product is a sellable catalog item. It belongs to exactly one brand and one category.
type Product struct {
	model.Base[int]

	Title       string   `gorm:"size:200;not null"`
	Slug        string   `gorm:"size:256;not null;index"`
	Description *string  `gorm:"size:1000"`
	Images      []string `gorm:"serializer:json"`
	ImageCover  string   `gorm:"size:512"`

	Sold           int     `gorm:"not null;default:0"`
	RatingsAverage float64 `gorm:"not null;default:0"`
	RatingsCount   int     `gorm:"not null;default:0"`
	Price          float64 `gorm:"type:decimal(10,2);not null"`
	Quantity       int     `gorm:"not null;default:0"`

	BrandID    int `gorm:"index;not null"`
	Brand      *Brand
	CategoryID int `gorm:"index;not null"`
	Category   *Category
}

// Filterable and sortable product columns.
const (
	ProductID             specification.Column[*Product] = "id"
	ProductTitle          specification.Column[*Product] = "title"
	ProductPrice          specification.Column[*Product] = "price"
	ProductSold           specification.Column[*Product] = "sold"
	ProductRatingsAverage specification.Column[*Product] = "ratings_average"
	ProductRatingsCount   specification.Column[*Product] = "ratings_count"
	ProductQuantity       specification.Column[*Product] = "quantity"
	ProductCreatedAt      specification.Column[*Product] = "created_at_utc"
	ProductUpdatedAt      specification.Column[*Product] = "updated_at_utc"
	ProductBrandID        specification.Column[*Product] = "brand_id"
	ProductCategoryID     specification.Column[*Product] = "category_id"
)

// Product relations.
const (
	ProductWithBrand    specification.Include[*Product] = "Brand"
	ProductWithCategory specification.Include[*Product] = "Category"
)
