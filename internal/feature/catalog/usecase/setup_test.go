package usecase

import (
	"testing"
	"time"

	"cartify_backend/internal/feature/catalog/domain/entity"
	"cartify_backend/internal/platform/cache"
	"cartify_backend/internal/platform/persistence"
	"cartify_backend/internal/shared/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	admin    = model.NewActor("1")
	fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
)

// setupTestDB はカタログのテーブルを持つインメモリSQLiteを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to initialize test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(entity.Models()...), "failed to migrate tables")
	return db
}

func newFactory(db *gorm.DB) *persistence.Factory {
	return persistence.NewFactory(db, persistence.NewAuditInterceptor().WithClock(func() time.Time { return fixedNow }))
}

// newTestCache returns a cache store backed by miniredis.
func newTestCache(t *testing.T) (*cache.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewStore(rdb, time.Minute, "catalog"), mr
}

// seedCatalog creates one brand and one category through the usecases.
func seedCatalog(t *testing.T, f *persistence.Factory) (*entity.Brand, *entity.Category) {
	t.Helper()
	ctx := t.Context()

	c, err := NewCategoryUsecase(f, nil).Create(ctx, admin, CategoryInput{Name: "Shoes"})
	require.NoError(t, err)
	b, err := NewBrandUsecase(f, nil).Create(ctx, admin, BrandInput{Name: "Nike", CategoryIDs: []int{c.ID}})
	require.NoError(t, err)
	return b, c
}

func productInput(title string, price float64, b *entity.Brand, c *entity.Category) ProductInput {
	return ProductInput{
		Title:      title,
		ImageCover: "products/" + title + ".png",
		Price:      price,
		Quantity:   10,
		BrandID:    b.ID,
		CategoryID: c.ID,
	}
}
