package usecase

import (
	"cartify_backend/internal/feature/catalog/domain/entity"
	"cartify_backend/internal/platform/persistence/specification"
)

// productFilter is shared by the list and the count so both see the same rows.
func productFilter(q ProductQuery) *specification.Specification[*entity.Product] {
	return specification.New[*entity.Product](
		specification.ContainsFold(entity.ProductTitle, q.Keyword),
		specification.OptionalEqual(entity.ProductBrandID, q.BrandID),
		specification.OptionalEqual(entity.ProductCategoryID, q.CategoryID),
	)
}

// productListSpec expects a validated, normalized query.
// Without a requested sort the page is ordered by id so that OFFSET paging is stable.
func productListSpec(q ProductQuery) *specification.Specification[*entity.Product] {
	s := productFilter(q).
		AddRelatedDataInclude(entity.ProductWithBrand).
		AddRelatedDataInclude(entity.ProductWithCategory)
	asc, hasAsc := productSortColumns[q.OrderBy]
	desc, hasDesc := productSortColumns[q.OrderByDesc]
	switch {
	case hasAsc:
		s.AddOrderBy(asc)
	case !hasDesc:
		s.AddOrderBy(entity.ProductID)
	}
	if hasDesc {
		s.AddOrderByDesc(desc)
	}
	return s.ApplyPagination(q.Page, q.Limit)
}

func productByIDSpec(id int) *specification.Specification[*entity.Product] {
	return specification.New[*entity.Product](specification.Equal(entity.ProductID, id)).
		AddRelatedDataInclude(entity.ProductWithBrand).
		AddRelatedDataInclude(entity.ProductWithCategory)
}

// productsByIDsSpec selects the live products among ids with brand and category.
func productsByIDsSpec(ids []int) *specification.Specification[*entity.Product] {
	return specification.New[*entity.Product](specification.In(entity.ProductID, ids)).
		AddRelatedDataInclude(entity.ProductWithBrand).
		AddRelatedDataInclude(entity.ProductWithCategory)
}

func productsOfBrand(brandID int) *specification.Specification[*entity.Product] {
	return specification.New[*entity.Product](specification.Equal(entity.ProductBrandID, brandID))
}

func productsOfCategory(categoryID int) *specification.Specification[*entity.Product] {
	return specification.New[*entity.Product](specification.Equal(entity.ProductCategoryID, categoryID))
}

func brandFilter(q PageQuery) *specification.Specification[*entity.Brand] {
	return specification.New[*entity.Brand](specification.ContainsFold(entity.BrandName, q.Keyword))
}

func brandListSpec(q PageQuery) *specification.Specification[*entity.Brand] {
	return brandFilter(q).
		AddOrderBy(entity.BrandName).
		ApplyPagination(q.Page, q.Limit)
}

func brandByIDSpec(id int) *specification.Specification[*entity.Brand] {
	return specification.New[*entity.Brand](specification.Equal(entity.BrandID, id)).
		AddRelatedDataInclude(entity.BrandWithCategories)
}

func categoryFilter(q PageQuery) *specification.Specification[*entity.Category] {
	return specification.New[*entity.Category](specification.ContainsFold(entity.CategoryName, q.Keyword))
}

func categoryListSpec(q PageQuery) *specification.Specification[*entity.Category] {
	return categoryFilter(q).
		AddOrderBy(entity.CategoryName).
		ApplyPagination(q.Page, q.Limit)
}

func categoriesByIDsSpec(ids []int) *specification.Specification[*entity.Category] {
	return specification.New[*entity.Category](specification.In(entity.CategoryID, ids))
}
