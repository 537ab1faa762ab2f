package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	catalog "cartify_backend/internal/feature/catalog/domain/entity"
	"cartify_backend/internal/feature/wishlist/domain/entity"
	"cartify_backend/internal/platform/db"
	"cartify_backend/internal/platform/persistence"
	"cartify_backend/internal/platform/persistence/specification"
	"cartify_backend/internal/shared/model"
)

// UnitOfWorkFactory mints a unit of work per operation.
type UnitOfWorkFactory interface {
	New() *persistence.UnitOfWork
}

// wishlistUsecase はウィッシュリストのユースケースを実装します。
type wishlistUsecase struct {
	uow UnitOfWorkFactory
}

// NewWishlistUsecase はwishlistUsecaseの新しいインスタンスを生成します。
func NewWishlistUsecase(uow UnitOfWorkFactory) *wishlistUsecase {
	return &wishlistUsecase{uow: uow}
}

func wishlistOf(userID uint) *specification.Specification[*entity.Wishlist] {
	return specification.New[*entity.Wishlist](specification.Equal(entity.WishlistUserID, userID)).
		AddRelatedDataInclude(entity.WishlistWithProducts)
}

func wishlistWithProductDetails(userID uint) *specification.Specification[*entity.Wishlist] {
	return specification.New[*entity.Wishlist](specification.Equal(entity.WishlistUserID, userID)).
		AddRelatedDataInclude(entity.WishlistWithProductBrand).
		AddRelatedDataInclude(entity.WishlistWithProductCategory)
}

// List はユーザーのウィッシュリストに登録された商品をブランド・カテゴリ付きで返します。
// 削除済みの商品は含まれません。
func (u *wishlistUsecase) List(ctx context.Context, userID uint) ([]*catalog.Product, error) {
	repo := persistence.GetOrCreateRepository[*entity.Wishlist, int](u.uow.New())
	w, err := repo.GetByIDSpec(ctx, wishlistWithProductDetails(userID))
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrWishlistNotFound
	}

	products := make([]*catalog.Product, 0, len(w.Products))
	for _, wp := range w.Products {
		// the preload leaves Product nil when the product was soft deleted
		if wp.Product != nil {
			products = append(products, wp.Product)
		}
	}
	return products, nil
}

// Add は商品をウィッシュリストに追加します。既に登録済みの場合は何もせずfalseを返します。
// ウィッシュリストが無い場合は同じトランザクションで作成します。
func (u *wishlistUsecase) Add(ctx context.Context, userID uint, productID int) (bool, error) {
	uow := u.uow.New()

	ok, err := persistence.GetOrCreateRepository[*catalog.Product, int](uow).Exists(ctx, productID)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, fmt.Errorf("product %d: %w", productID, ErrProductNotFound)
	}

	repo := persistence.GetOrCreateRepository[*entity.Wishlist, int](uow)
	links := persistence.GetOrCreateRepository[*entity.WishlistedProduct, int](uow)

	w, err := repo.GetSingle(ctx, wishlistOf(userID))
	if err != nil {
		return false, err
	}
	switch {
	case w == nil:
		w = &entity.Wishlist{UserID: userID}
		repo.Add(w)
		links.Add(&entity.WishlistedProduct{Wishlist: w, ProductID: productID})
	default:
		if _, found := w.Link(productID); found {
			return false, nil
		}
		links.Add(&entity.WishlistedProduct{WishlistID: w.ID, ProductID: productID})
	}

	if _, err := uow.SaveChanges(ctx, actorOf(userID)); err != nil {
		if db.IsDuplicateKey(err) {
			return false, ErrWishlistConflict
		}
		return false, fmt.Errorf("failed to add product %d to wishlist: %w", productID, err)
	}
	slog.Info("product wishlisted", "user_id", userID, "product_id", productID)
	return true, nil
}

// Remove はウィッシュリストから商品を外します（リンクは論理削除）。
func (u *wishlistUsecase) Remove(ctx context.Context, userID uint, productID int) error {
	uow := u.uow.New()
	repo := persistence.GetOrCreateRepository[*entity.Wishlist, int](uow)

	w, err := repo.GetSingle(ctx, wishlistOf(userID))
	if err != nil {
		return err
	}
	if w == nil {
		return ErrWishlistNotFound
	}
	link, found := w.Link(productID)
	if !found {
		return fmt.Errorf("product %d: %w", productID, ErrNotWishlisted)
	}

	persistence.GetOrCreateRepository[*entity.WishlistedProduct, int](uow).Remove(link)
	if _, err := uow.SaveChanges(ctx, actorOf(userID)); err != nil {
		return fmt.Errorf("failed to remove product %d from wishlist: %w", productID, err)
	}
	return nil
}

func actorOf(userID uint) model.Actor {
	return model.NewActor(strconv.FormatUint(uint64(userID), 10))
}
