// Package dto はcartフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"math"
	"time"

	"cartify_backend/internal/feature/cart/usecase"
	catalogdto "cartify_backend/internal/feature/catalog/transport/http/dto"
)

// UpdateItemReq is the body of PATCH /cart.
type UpdateItemReq struct {
	ItemID   string `json:"itemId" binding:"required"`
	NewCount *int   `json:"newCount" binding:"required,gte=0"`
}

// CartItemRes is one cart line with the current product.
type CartItemRes struct {
	ID       string                `json:"id"`
	Product  catalogdto.ProductRes `json:"product"`
	Count    int                   `json:"count"`
	Subtotal float64               `json:"subtotal"`
}

// CartRes is the JSON shape of GET /cart.
type CartRes struct {
	ID           string        `json:"id"`
	CartItems    []CartItemRes `json:"cartItems"`
	TotalCount   int           `json:"totalCount"`
	TotalPrice   float64       `json:"totalPrice"`
	UpdatedAtUtc time.Time     `json:"updatedAtUtc"`
}

// NewCartRes maps a cart view and computes the totals from current product prices.
func NewCartRes(v *usecase.CartView) CartRes {
	res := CartRes{
		ID:           v.ID,
		CartItems:    make([]CartItemRes, 0, len(v.Lines)),
		UpdatedAtUtc: v.UpdatedAtUtc,
	}
	for _, l := range v.Lines {
		subtotal := roundCents(l.Product.Price * float64(l.Item.Count))
		res.CartItems = append(res.CartItems, CartItemRes{
			ID:       l.Item.ID,
			Product:  catalogdto.NewProductRes(l.Product),
			Count:    l.Item.Count,
			Subtotal: subtotal,
		})
		res.TotalCount += l.Item.Count
		res.TotalPrice += subtotal
	}
	res.TotalPrice = roundCents(res.TotalPrice)
	return res
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
