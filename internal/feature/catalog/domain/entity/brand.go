package entity

import (
	"cartify_backend/internal/platform/persistence/specification"
	"cartify_backend/internal/shared/model"

	"gorm.io/gorm"
)

// Brand groups products by manufacturer.
type Brand struct {
	model.Base[int]

	Name  string  `gorm:"size:200;not null"`
	Slug  string  `gorm:"size:256;not null;index"`
	Image *string `gorm:"size:512"`

	Categories []BrandCategory
}

// CategoryIDs returns the ids of the linked categories that are not soft deleted.
func (b *Brand) CategoryIDs() []int {
	ids := make([]int, 0, len(b.Categories))
	for _, bc := range b.Categories {
		if !bc.IsDeleted() {
			ids = append(ids, bc.CategoryID)
		}
	}
	return ids
}

const (
	BrandID   specification.Column[*Brand] = "id"
	BrandName specification.Column[*Brand] = "name"
)

// BrandWithCategories loads the brand's category links and the linked categories.
const BrandWithCategories specification.Include[*Brand] = "Categories.Category"

// BrandCategory links a brand to a category. The pair is the primary key.
type BrandCategory struct {
	BrandID    int `gorm:"primaryKey;autoIncrement:false"`
	Brand      *Brand
	CategoryID int `gorm:"primaryKey;autoIncrement:false"`
	Category   *Category

	model.Audit `gorm:"embedded"`
}

// BeforeCreate takes the brand id from Brand when the link was staged together
// with a brand that had no id yet.
func (bc *BrandCategory) BeforeCreate(*gorm.DB) error {
	if bc.BrandID == 0 && bc.Brand != nil {
		bc.BrandID = bc.Brand.ID
	}
	return nil
}
