package usecase

import (
	"context"
	"fmt"

	"cartify_backend/internal/feature/catalog/domain/entity"
	"cartify_backend/internal/platform/persistence"
	"cartify_backend/internal/shared/model"

	"github.com/gosimple/slug"
)

// UnitOfWorkFactory mints a unit of work per operation.
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type UnitOfWorkFactory interface {
	New() *persistence.UnitOfWork
}

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	Title       string
	Description *string
	ImageCover  string
	Images      []string
	Price       float64
	Quantity    int
	BrandID     int
	CategoryID  int
}

// productUsecase は商品のユースケースを実装します。
type productUsecase struct {
	uow UnitOfWorkFactory
}

// NewProductUsecase はproductUsecaseの新しいインスタンスを生成します。
func NewProductUsecase(uow UnitOfWorkFactory) *productUsecase {
	return &productUsecase{uow: uow}
}

// List はキーワード・ブランド・カテゴリで絞り込んだ商品をページ単位で返します。
func (u *productUsecase) List(ctx context.Context, q ProductQuery) (*PagedList[*entity.Product], error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q.PageQuery = q.PageQuery.Normalize()

	repo := persistence.GetOrCreateRepository[*entity.Product, int](u.uow.New())

	products, err := repo.GetAll(ctx, productListSpec(q))
	if err != nil {
		return nil, err
	}
	total, err := repo.Count(ctx, productFilter(q))
	if err != nil {
		return nil, err
	}
	return newPagedList(products, q.PageQuery, total), nil
}

// Get は商品をブランド・カテゴリ付きで取得します。
func (u *productUsecase) Get(ctx context.Context, id int) (*entity.Product, error) {
	repo := persistence.GetOrCreateRepository[*entity.Product, int](u.uow.New())
	p, err := repo.GetByIDSpec(ctx, productByIDSpec(id))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// Create は商品を登録し、ブランド・カテゴリ付きで返します。
func (u *productUsecase) Create(ctx context.Context, actor model.Actor, in ProductInput) (*entity.Product, error) {
	uow := u.uow.New()
	if err := checkReferences(ctx, uow, in.BrandID, in.CategoryID); err != nil {
		return nil, err
	}

	p := &entity.Product{}
	applyProductInput(p, in)

	repo := persistence.GetOrCreateRepository[*entity.Product, int](uow)
	repo.Add(p)
	if _, err := uow.SaveChanges(ctx, actor); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return u.Get(ctx, p.ID)
}

// Update は商品の書き込み可能な項目をすべて置き換えます。
func (u *productUsecase) Update(ctx context.Context, actor model.Actor, id int, in ProductInput) (*entity.Product, error) {
	uow := u.uow.New()
	repo := persistence.GetOrCreateRepository[*entity.Product, int](uow)

	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	if err := checkReferences(ctx, uow, in.BrandID, in.CategoryID); err != nil {
		return nil, err
	}

	applyProductInput(p, in)
	repo.Update(p)
	if _, err := uow.SaveChanges(ctx, actor); err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return u.Get(ctx, id)
}

// Delete は商品を論理削除します。
func (u *productUsecase) Delete(ctx context.Context, actor model.Actor, id int) error {
	uow := u.uow.New()
	repo := persistence.GetOrCreateRepository[*entity.Product, int](uow)

	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProductNotFound
	}

	repo.Remove(p)
	if _, err := uow.SaveChanges(ctx, actor); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

// Exists reports whether a live product has the given id.
func (u *productUsecase) Exists(ctx context.Context, id int) (bool, error) {
	return persistence.GetOrCreateRepository[*entity.Product, int](u.uow.New()).Exists(ctx, id)
}

// ProductsByIDs returns the live products among ids with their brand and category.
// Unknown and deleted ids are left out.
func (u *productUsecase) ProductsByIDs(ctx context.Context, ids []int) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return []*entity.Product{}, nil
	}
	ids = uniqueIDs(ids)
	repo := persistence.GetOrCreateRepository[*entity.Product, int](u.uow.New())
	return repo.GetAll(ctx, productsByIDsSpec(ids))
}

func applyProductInput(p *entity.Product, in ProductInput) {
	p.Title = in.Title
	p.Slug = slug.Make(in.Title)
	p.Description = in.Description
	p.ImageCover = in.ImageCover
	p.Images = in.Images
	p.Price = in.Price
	p.Quantity = in.Quantity
	p.BrandID = in.BrandID
	p.CategoryID = in.CategoryID
}

// checkReferences ensures the brand and category a product points at are live.
func checkReferences(ctx context.Context, uow *persistence.UnitOfWork, brandID, categoryID int) error {
	ok, err := persistence.GetOrCreateRepository[*entity.Brand, int](uow).Exists(ctx, brandID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("brand %d: %w", brandID, ErrUnknownReference)
	}

	ok, err = persistence.GetOrCreateRepository[*entity.Category, int](uow).Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("category %d: %w", categoryID, ErrUnknownReference)
	}
	return nil
}
