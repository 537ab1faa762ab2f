package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cartify_backend/internal/feature/cart/domain/entity"
	catalog "cartify_backend/internal/feature/catalog/domain/entity"

	"github.com/google/uuid"
)

// CartStore abstracts the key-value persistence of carts.
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type CartStore interface {
	// Get returns the user's cart, or nil when there is none.
	Get(ctx context.Context, userID string) (*entity.Cart, error)

	// Remove deletes the user's cart and reports whether one existed.
	Remove(ctx context.Context, userID string) (bool, error)

	// Mutate applies fn to the stored cart as one compare-and-swap write.
	Mutate(ctx context.Context, userID string, fn func(*entity.Cart) (*entity.Cart, error)) (*entity.Cart, error)
}

// ProductCatalog is the read side of the catalog that the cart depends on.
type ProductCatalog interface {
	Exists(ctx context.Context, id int) (bool, error)
	ProductsByIDs(ctx context.Context, ids []int) ([]*catalog.Product, error)
}

// CartLine is a cart item joined with the current state of its product.
type CartLine struct {
	Item    entity.CartItem
	Product *catalog.Product
}

// CartView is a cart as returned to its owner.
type CartView struct {
	ID           string
	Lines        []CartLine
	UpdatedAtUtc time.Time
	Version      int64
}

// cartUsecase はカートのユースケースを実装します。
type cartUsecase struct {
	store    CartStore
	products ProductCatalog
	now      func() time.Time
}

// NewCartUsecase はcartUsecaseの新しいインスタンスを生成します。
func NewCartUsecase(store CartStore, products ProductCatalog) *cartUsecase {
	return &cartUsecase{
		store:    store,
		products: products,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Get はユーザーのカートを商品の最新状態と結合して返します。
// 削除済みの商品は結果から除外されます。
func (u *cartUsecase) Get(ctx context.Context, userID string) (*CartView, error) {
	cart, err := u.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	products, err := u.products.ProductsByIDs(ctx, cart.ProductIDs())
	if err != nil {
		return nil, err
	}
	byID := make(map[int]*catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	view := &CartView{
		ID:           cart.ID,
		Lines:        make([]CartLine, 0, len(cart.CartItems)),
		UpdatedAtUtc: cart.UpdatedAtUtc,
		Version:      cart.Version,
	}
	for _, it := range cart.CartItems {
		p, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		view.Lines = append(view.Lines, CartLine{Item: it, Product: p})
	}
	return view, nil
}

// AddItem はカートに商品を1つ追加します。既に存在する場合は数量を1増やします。
// カートが存在しない場合は新規作成されます。
func (u *cartUsecase) AddItem(ctx context.Context, userID string, productID int) (*entity.Cart, error) {
	ok, err := u.products.Exists(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
	}

	return u.store.Mutate(ctx, userID, func(cart *entity.Cart) (*entity.Cart, error) {
		if cart == nil {
			cart = entity.NewCart(userID)
		}
		now := u.now()
		if it, found := cart.ItemForProduct(productID); found {
			it.Count++
			it.UpdatedAtUtc = now
			return cart, nil
		}

		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate cart item id: %w", err)
		}
		cart.CartItems = append(cart.CartItems, entity.CartItem{
			ID:           id.String(),
			ProductID:    productID,
			Count:        1,
			UpdatedAtUtc: now,
		})
		return cart, nil
	})
}

// UpdateItemCount は明細の数量を置き換えます。0を指定すると明細を削除します。
func (u *cartUsecase) UpdateItemCount(ctx context.Context, userID, itemID string, count int) (*entity.Cart, error) {
	if count < 0 {
		return nil, ErrInvalidCount
	}
	return u.store.Mutate(ctx, userID, func(cart *entity.Cart) (*entity.Cart, error) {
		if cart == nil {
			return nil, ErrCartNotFound
		}
		it, found := cart.Item(itemID)
		if !found {
			return nil, ErrCartItemNotFound
		}
		if count == 0 {
			cart.RemoveItem(itemID)
			return cart, nil
		}
		it.Count = count
		it.UpdatedAtUtc = u.now()
		return cart, nil
	})
}

// RemoveItem は明細をカートから削除します。
func (u *cartUsecase) RemoveItem(ctx context.Context, userID, itemID string) (*entity.Cart, error) {
	return u.store.Mutate(ctx, userID, func(cart *entity.Cart) (*entity.Cart, error) {
		if cart == nil {
			return nil, ErrCartNotFound
		}
		if !cart.RemoveItem(itemID) {
			return nil, ErrCartItemNotFound
		}
		return cart, nil
	})
}

// Clear はカートを削除します。カートが無くてもエラーにはなりません。
func (u *cartUsecase) Clear(ctx context.Context, userID string) error {
	existed, err := u.store.Remove(ctx, userID)
	if err != nil {
		return err
	}
	if !existed {
		slog.Debug("cart clear on missing cart", "user_id", userID)
	}
	return nil
}
