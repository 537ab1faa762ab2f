// Package entity はwishlistフィーチャーのドメインエンティティを定義します。
package entity

import (
	catalog "cartify_backend/internal/feature/catalog/domain/entity"
	"cartify_backend/internal/platform/persistence/specification"
	"cartify_backend/internal/shared/model"

	"gorm.io/gorm"
)

// Wishlist belongs to exactly one user.
type Wishlist struct {
	model.Base[int]

	UserID   uint `gorm:"not null;uniqueIndex"`
	Products []WishlistedProduct
}

// ProductIDs returns the wishlisted products that are not soft deleted.
func (w *Wishlist) ProductIDs() []int {
	ids := make([]int, 0, len(w.Products))
	for _, wp := range w.Products {
		if !wp.IsDeleted() {
			ids = append(ids, wp.ProductID)
		}
	}
	return ids
}

// Link returns the live link to productID.
func (w *Wishlist) Link(productID int) (*WishlistedProduct, bool) {
	for i := range w.Products {
		wp := &w.Products[i]
		if wp.ProductID == productID && !wp.IsDeleted() {
			return wp, true
		}
	}
	return nil, false
}

const WishlistUserID specification.Column[*Wishlist] = "user_id"

// Relation paths of a wishlist.
const (
	WishlistWithProducts        specification.Include[*Wishlist] = "Products"
	WishlistWithProductBrand    specification.Include[*Wishlist] = "Products.Product.Brand"
	WishlistWithProductCategory specification.Include[*Wishlist] = "Products.Product.Category"
)

// WishlistedProduct links a product to a wishlist. Removing a product soft deletes
// the link; adding it again creates a new one.
type WishlistedProduct struct {
	model.Base[int]

	WishlistID int `gorm:"not null;index"`
	Wishlist   *Wishlist
	ProductID  int `gorm:"not null;index"`
	Product    *catalog.Product
}

// BeforeCreate takes the wishlist id from Wishlist when both were staged together.
func (wp *WishlistedProduct) BeforeCreate(*gorm.DB) error {
	if wp.WishlistID == 0 && wp.Wishlist != nil {
		wp.WishlistID = wp.Wishlist.ID
	}
	return nil
}

// Models returns the gorm models of the wishlist feature for migration.
func Models() []any {
	return []any{&Wishlist{}, &WishlistedProduct{}}
}
