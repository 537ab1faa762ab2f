package usecase

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"cartify_backend/internal/feature/catalog/domain/entity"
	"cartify_backend/internal/platform/cache"
	"cartify_backend/internal/platform/persistence"
	"cartify_backend/internal/shared/model"

	"github.com/gosimple/slug"
)

const brandsCacheKey = "brands"

// BrandInput carries the writable fields of a brand. CategoryIDs replaces the
// brand's category links.
type BrandInput struct {
	Name        string
	Image       *string
	CategoryIDs []int
}

// brandUsecase はブランドのユースケースを実装します。
// 一覧はRedisにキャッシュし、書き込み時に無効化します。
type brandUsecase struct {
	uow   UnitOfWorkFactory
	cache *cache.Store
}

// NewBrandUsecase はbrandUsecaseの新しいインスタンスを生成します。
// cacheがnilの場合はキャッシュしません。
func NewBrandUsecase(uow UnitOfWorkFactory, c *cache.Store) *brandUsecase {
	return &brandUsecase{uow: uow, cache: c}
}

// List はブランド一覧を名前順で返します。
func (u *brandUsecase) List(ctx context.Context, q PageQuery) (*PagedList[*entity.Brand], error) {
	q = q.Normalize()
	key := u.cache.Key(brandsCacheKey, "list", q.Keyword, strconv.Itoa(q.Page), strconv.Itoa(q.Limit))

	return cache.Remember(ctx, u.cache, key, func(ctx context.Context) (*PagedList[*entity.Brand], error) {
		repo := persistence.GetOrCreateRepository[*entity.Brand, int](u.uow.New())
		brands, err := repo.GetAll(ctx, brandListSpec(q))
		if err != nil {
			return nil, err
		}
		total, err := repo.Count(ctx, brandFilter(q))
		if err != nil {
			return nil, err
		}
		return newPagedList(brands, q, total), nil
	})
}

// Get はブランドを紐づくカテゴリ付きで取得します。
func (u *brandUsecase) Get(ctx context.Context, id int) (*entity.Brand, error) {
	repo := persistence.GetOrCreateRepository[*entity.Brand, int](u.uow.New())
	b, err := repo.GetByIDSpec(ctx, brandByIDSpec(id))
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBrandNotFound
	}
	return b, nil
}

// Create はブランドとカテゴリとの紐づけを1トランザクションで登録します。
func (u *brandUsecase) Create(ctx context.Context, actor model.Actor, in BrandInput) (*entity.Brand, error) {
	uow := u.uow.New()
	ids := uniqueIDs(in.CategoryIDs)
	if err := checkCategories(ctx, uow, ids); err != nil {
		return nil, err
	}

	b := &entity.Brand{Name: in.Name, Slug: slug.Make(in.Name), Image: in.Image}
	persistence.GetOrCreateRepository[*entity.Brand, int](uow).Add(b)
	for _, id := range ids {
		// BrandID is filled from Brand once the brand row has its id
		uow.Changes().Add(&entity.BrandCategory{Brand: b, CategoryID: id})
	}

	if _, err := uow.SaveChanges(ctx, actor); err != nil {
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}
	u.cache.Invalidate(ctx, brandsCacheKey)
	return u.Get(ctx, b.ID)
}

// Update は名前・画像を置き換え、カテゴリとの紐づけを同期します。
// 外れたカテゴリは論理削除し、再度紐づけられたカテゴリは復元します。
func (u *brandUsecase) Update(ctx context.Context, actor model.Actor, id int, in BrandInput) (*entity.Brand, error) {
	uow := u.uow.New()
	repo := persistence.GetOrCreateRepository[*entity.Brand, int](uow)

	// deleted links are needed to restore them instead of inserting duplicates
	b, err := repo.WithDeleted().GetSingle(ctx, brandByIDSpec(id))
	if err != nil {
		return nil, err
	}
	if b == nil || b.IsDeleted() {
		return nil, ErrBrandNotFound
	}

	ids := uniqueIDs(in.CategoryIDs)
	if err := checkCategories(ctx, uow, ids); err != nil {
		return nil, err
	}

	b.Name = in.Name
	b.Slug = slug.Make(in.Name)
	b.Image = in.Image
	repo.Update(b)
	syncCategoryLinks(uow.Changes(), b, ids)

	if _, err := uow.SaveChanges(ctx, actor); err != nil {
		return nil, fmt.Errorf("failed to update brand %d: %w", id, err)
	}
	u.cache.Invalidate(ctx, brandsCacheKey)
	return u.Get(ctx, id)
}

// Delete はブランドを論理削除します。有効な商品が参照している場合はErrInUseを返します。
func (u *brandUsecase) Delete(ctx context.Context, actor model.Actor, id int) error {
	uow := u.uow.New()
	repo := persistence.GetOrCreateRepository[*entity.Brand, int](uow)

	b, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrBrandNotFound
	}

	n, err := persistence.GetOrCreateRepository[*entity.Product, int](uow).Count(ctx, productsOfBrand(id))
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("brand %d: %w", id, ErrInUse)
	}

	repo.Remove(b)
	if _, err := uow.SaveChanges(ctx, actor); err != nil {
		return fmt.Errorf("failed to delete brand %d: %w", id, err)
	}
	u.cache.Invalidate(ctx, brandsCacheKey)
	return nil
}

// syncCategoryLinks stages the link changes that make b point at exactly ids.
func syncCategoryLinks(tracker *persistence.ChangeTracker, b *entity.Brand, ids []int) {
	existing := make(map[int]*entity.BrandCategory, len(b.Categories))
	for i := range b.Categories {
		link := &b.Categories[i]
		existing[link.CategoryID] = link
		if !link.IsDeleted() && !slices.Contains(ids, link.CategoryID) {
			tracker.Remove(link)
		}
	}

	for _, id := range ids {
		link, ok := existing[id]
		switch {
		case !ok:
			tracker.Add(&entity.BrandCategory{BrandID: b.ID, CategoryID: id})
		case link.IsDeleted():
			link.DeletedAtUtc = nil
			link.DeletedBy = nil
			tracker.Update(link)
		}
	}
}

// checkCategories ensures every id names a live category.
func checkCategories(ctx context.Context, uow *persistence.UnitOfWork, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := persistence.GetOrCreateRepository[*entity.Category, int](uow).Count(ctx, categoriesByIDsSpec(ids))
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return fmt.Errorf("category: %w", ErrUnknownReference)
	}
	return nil
}

func uniqueIDs(ids []int) []int {
	return slices.Compact(slices.Sorted(slices.Values(ids)))
}
