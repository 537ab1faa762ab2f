package usecase

import (
	"context"
	"fmt"
	"strconv"

	"cartify_backend/internal/feature/catalog/domain/entity"
	"cartify_backend/internal/platform/cache"
	"cartify_backend/internal/platform/persistence"
	"cartify_backend/internal/shared/model"

	"github.com/gosimple/slug"
)

const categoriesCacheKey = "categories"

// CategoryInput carries the writable fields of a category.
type CategoryInput struct {
	Name  string
	Image *string
}

// categoryUsecase はカテゴリのユースケースを実装します。
type categoryUsecase struct {
	uow   UnitOfWorkFactory
	cache *cache.Store
}

// NewCategoryUsecase はcategoryUsecaseの新しいインスタンスを生成します。
func NewCategoryUsecase(uow UnitOfWorkFactory, c *cache.Store) *categoryUsecase {
	return &categoryUsecase{uow: uow, cache: c}
}

// List はカテゴリ一覧を名前順で返します。結果はキャッシュされます。
func (u *categoryUsecase) List(ctx context.Context, q PageQuery) (*PagedList[*entity.Category], error) {
	q = q.Normalize()
	key := u.cache.Key(categoriesCacheKey, "list", q.Keyword, strconv.Itoa(q.Page), strconv.Itoa(q.Limit))

	return cache.Remember(ctx, u.cache, key, func(ctx context.Context) (*PagedList[*entity.Category], error) {
		repo := persistence.GetOrCreateRepository[*entity.Category, int](u.uow.New())
		categories, err := repo.GetAll(ctx, categoryListSpec(q))
		if err != nil {
			return nil, err
		}
		total, err := repo.Count(ctx, categoryFilter(q))
		if err != nil {
			return nil, err
		}
		return newPagedList(categories, q, total), nil
	})
}

func (u *categoryUsecase) Get(ctx context.Context, id int) (*entity.Category, error) {
	c, err := persistence.GetOrCreateRepository[*entity.Category, int](u.uow.New()).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

func (u *categoryUsecase) Create(ctx context.Context, actor model.Actor, in CategoryInput) (*entity.Category, error) {
	uow := u.uow.New()
	c := &entity.Category{Name: in.Name, Slug: slug.Make(in.Name), Image: in.Image}
	persistence.GetOrCreateRepository[*entity.Category, int](uow).Add(c)
	if _, err := uow.SaveChanges(ctx, actor); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	u.cache.Invalidate(ctx, categoriesCacheKey)
	return c, nil
}

func (u *categoryUsecase) Update(ctx context.Context, actor model.Actor, id int, in CategoryInput) (*entity.Category, error) {
	uow := u.uow.New()
	repo := persistence.GetOrCreateRepository[*entity.Category, int](uow)

	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}

	c.Name = in.Name
	c.Slug = slug.Make(in.Name)
	c.Image = in.Image
	repo.Update(c)
	if _, err := uow.SaveChanges(ctx, actor); err != nil {
		return nil, fmt.Errorf("failed to update category %d: %w", id, err)
	}
	u.cache.Invalidate(ctx, categoriesCacheKey)
	// brand responses embed categories
	u.cache.Invalidate(ctx, brandsCacheKey)
	return c, nil
}

// Delete はカテゴリを論理削除します。有効な商品が参照している場合はErrInUseを返します。
func (u *categoryUsecase) Delete(ctx context.Context, actor model.Actor, id int) error {
	uow := u.uow.New()
	repo := persistence.GetOrCreateRepository[*entity.Category, int](uow)

	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrCategoryNotFound
	}

	n, err := persistence.GetOrCreateRepository[*entity.Product, int](uow).Count(ctx, productsOfCategory(id))
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("category %d: %w", id, ErrInUse)
	}

	repo.Remove(c)
	if _, err := uow.SaveChanges(ctx, actor); err != nil {
		return fmt.Errorf("failed to delete category %d: %w", id, err)
	}
	u.cache.Invalidate(ctx, categoriesCacheKey)
	u.cache.Invalidate(ctx, brandsCacheKey)
	return nil
}
