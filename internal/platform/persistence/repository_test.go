package persistence

import (
	"testing"

	"cartify_backend/internal/platform/persistence/specification"
	"cartify_backend/internal/shared/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetByID(t *testing.T) {
	db := setupTestDB(t)
	b, _ := seedBrandAndCategory(t, db)

	t.Run("found", func(t *testing.T) {
		repo := GetOrCreateRepository[*testBrand, int](newTestUnitOfWork(db))

		got, err := repo.GetByID(t.Context(), b.ID)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Nike", got.Name)
	})

	t.Run("absent is nil without error", func(t *testing.T) {
		repo := GetOrCreateRepository[*testBrand, int](newTestUnitOfWork(db))

		got, err := repo.GetByID(t.Context(), 9999)

		assert.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("same instance within a unit of work", func(t *testing.T) {
		repo := GetOrCreateRepository[*testBrand, int](newTestUnitOfWork(db))

		first, err := repo.GetByID(t.Context(), b.ID)
		require.NoError(t, err)
		second, err := repo.GetByID(t.Context(), b.ID)
		require.NoError(t, err)

		assert.Same(t, first, second)
	})
}

func TestRepository_GetSingleAndGetByIDSpec(t *testing.T) {
	db := setupTestDB(t)
	b, c := seedBrandAndCategory(t, db)
	seedProducts(t, db, b, c, 3)

	uow := newTestUnitOfWork(db)
	repo := GetOrCreateRepository[*testProduct, int](uow)
	spec := func() *specification.Specification[*testProduct] {
		return specification.New[*testProduct](specification.ContainsFold(productTitle, "PRODUCT 02")).
			AddRelatedDataInclude(productIncBrand)
	}

	snapshot, err := repo.GetByIDSpec(t.Context(), spec())
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, "Nike product 02", snapshot.Title)
	require.NotNil(t, snapshot.Brand)
	assert.Nil(t, uow.Changes().Entry(snapshot), "GetByIDSpec results are not tracked")

	tracked, err := repo.GetSingle(t.Context(), spec())
	require.NoError(t, err)
	require.NotNil(t, tracked)
	require.NotNil(t, uow.Changes().Entry(tracked))
	assert.Equal(t, Unchanged, uow.Changes().Entry(tracked).State())

	none, err := repo.GetSingle(t.Context(), specification.New[*testProduct](
		specification.ContainsFold(productTitle, "missing"),
	))
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestRepository_GetAllTrackingModes(t *testing.T) {
	db := setupTestDB(t)
	b, c := seedBrandAndCategory(t, db)
	seedProducts(t, db, b, c, 2)

	uow := newTestUnitOfWork(db)
	repo := GetOrCreateRepository[*testProduct, int](uow)

	untracked, err := repo.GetAll(t.Context(), nil)
	require.NoError(t, err)
	require.Len(t, untracked, 2)
	untracked[0].Title = "not saved"

	tracked, err := repo.GetAllTracked(t.Context(), specification.New[*testProduct]().AddOrderBy(productPrice))
	require.NoError(t, err)
	require.Len(t, tracked, 2)
	tracked[0].Price = 42

	n, err := uow.SaveChanges(t.Context(), model.NewActor("editor"))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "only the tracked instance is written")

	var titles []string
	require.NoError(t, db.Model(&testProduct{}).Order("id").Pluck("title", &titles).Error)
	assert.NotContains(t, titles, "not saved")

	var price float64
	require.NoError(t, db.Model(&testProduct{}).Where("id = ?", tracked[0].ID).Pluck("price", &price).Error)
	assert.Equal(t, 42.0, price)
}

func TestRepository_CountAndExists(t *testing.T) {
	db := setupTestDB(t)
	b, c := seedBrandAndCategory(t, db)
	seedProducts(t, db, b, c, 4)

	repo := GetOrCreateRepository[*testProduct, int](newTestUnitOfWork(db))

	n, err := repo.Count(t.Context(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	n, err = repo.Count(t.Context(), specification.New[*testProduct](specification.ContainsFold(productTitle, "03")))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	ok, err := repo.Exists(t.Context(), 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(t.Context(), 404)
	require.NoError(t, err)
	assert.False(t, ok)
}

// Removing an entity keeps the row with deletion stamps and hides it from every
// filtered read path.
func TestRepository_RemoveSoftDeletes(t *testing.T) {
	db := setupTestDB(t)
	b, c := seedBrandAndCategory(t, db)
	seedProducts(t, db, b, c, 2)

	uow := newTestUnitOfWork(db)
	repo := GetOrCreateRepository[*testProduct, int](uow)
	victim, err := repo.GetByID(t.Context(), 1)
	require.NoError(t, err)
	require.NotNil(t, victim)

	repo.Remove(victim)
	_, err = uow.SaveChanges(t.Context(), model.NewActor("admin-7"))
	require.NoError(t, err)

	var raw testProduct
	require.NoError(t, db.Where("id = ?", 1).First(&raw).Error, "row must still exist")
	assert.True(t, raw.IsDeleted())
	require.NotNil(t, raw.DeletedBy)
	assert.Equal(t, "admin-7", *raw.DeletedBy)
	assert.True(t, raw.DeletedAtUtc.Equal(fixedNow))

	fresh := GetOrCreateRepository[*testProduct, int](newTestUnitOfWork(db))

	got, err := fresh.GetByID(t.Context(), 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	all, err := fresh.GetAll(t.Context(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	n, err := fresh.Count(t.Context(), nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	ok, err := fresh.Exists(t.Context(), 1)
	require.NoError(t, err)
	assert.False(t, ok)

	deleted, err := fresh.WithDeleted().GetByID(t.Context(), 1)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.True(t, deleted.IsDeleted())
}

func TestRepository_WithDeletedSharesTracker(t *testing.T) {
	db := setupTestDB(t)
	uow := newTestUnitOfWork(db)
	repo := GetOrCreateRepository[*testBrand, int](uow)

	repo.WithDeleted().Add(&testBrand{Name: "Puma"})

	n, err := uow.SaveChanges(t.Context(), model.SystemActor())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
