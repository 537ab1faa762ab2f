// Package entity はcartフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// CartItem is one product line in a cart. ID is generated by the service, not the store.
type CartItem struct {
	ID           string    `json:"id"`
	ProductID    int       `json:"productId"`
	Count        int       `json:"count"`
	UpdatedAtUtc time.Time `json:"updatedAtUtc"`
}

// Cart はユーザーごとのショッピングカートです。IDはユーザーIDと同じ値です。
// Versionは書き込みのたびに1ずつ増加します。
type Cart struct {
	ID           string     `json:"id"`
	CartItems    []CartItem `json:"cartItems"`
	UpdatedAtUtc time.Time  `json:"updatedAtUtc"`
	Version      int64      `json:"version"`
}

// NewCart returns an empty cart owned by userID.
func NewCart(userID string) *Cart {
	return &Cart{ID: userID, CartItems: []CartItem{}}
}

// Item returns the line with the given id.
func (c *Cart) Item(id string) (*CartItem, bool) {
	for i := range c.CartItems {
		if c.CartItems[i].ID == id {
			return &c.CartItems[i], true
		}
	}
	return nil, false
}

// ItemForProduct returns the line holding productID.
func (c *Cart) ItemForProduct(productID int) (*CartItem, bool) {
	for i := range c.CartItems {
		if c.CartItems[i].ProductID == productID {
			return &c.CartItems[i], true
		}
	}
	return nil, false
}

// RemoveItem drops the line with the given id and reports whether it was present.
func (c *Cart) RemoveItem(id string) bool {
	for i := range c.CartItems {
		if c.CartItems[i].ID == id {
			c.CartItems = append(c.CartItems[:i], c.CartItems[i+1:]...)
			return true
		}
	}
	return false
}

// ProductIDs returns the product of every line in cart order.
func (c *Cart) ProductIDs() []int {
	ids := make([]int, 0, len(c.CartItems))
	for _, it := range c.CartItems {
		ids = append(ids, it.ProductID)
	}
	return ids
}

// TotalCount is the number of units across all lines.
func (c *Cart) TotalCount() int {
	n := 0
	for _, it := range c.CartItems {
		n += it.Count
	}
	return n
}
