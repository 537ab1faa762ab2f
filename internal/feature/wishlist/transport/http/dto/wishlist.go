// Package dto はwishlistフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	catalog "cartify_backend/internal/feature/catalog/domain/entity"
	catalogdto "cartify_backend/internal/feature/catalog/transport/http/dto"
)

// WishlistRes is the JSON shape of GET /wishlist.
type WishlistRes struct {
	Products []catalogdto.ProductRes `json:"products"`
	Count    int                     `json:"count"`
}

func NewWishlistRes(products []*catalog.Product) WishlistRes {
	res := WishlistRes{Products: make([]catalogdto.ProductRes, 0, len(products))}
	for _, p := range products {
		res.Products = append(res.Products, catalogdto.NewProductRes(p))
	}
	res.Count = len(res.Products)
	return res
}
