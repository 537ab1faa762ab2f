package entity

import (
	"cartify_backend/internal/platform/persistence/specification"
	"cartify_backend/internal/shared/model"
)

// Category groups products by kind.
type Category struct {
	model.Base[int]

	Name  string  `gorm:"size:200;not null"`
	Slug  string  `gorm:"size:256;not null;index"`
	Image *string `gorm:"size:512"`
}

const (
	CategoryID   specification.Column[*Category] = "id"
	CategoryName specification.Column[*Category] = "name"
)

// Models lists the catalog tables for auto migration.
func Models() []any {
	return []any{&Brand{}, &Category{}, &BrandCategory{}, &Product{}}
}
