package persistence

import (
	"testing"
	"time"

	"cartify_backend/internal/platform/persistence/specification"
	"cartify_backend/internal/shared/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testBrand struct {
	model.Base[int]
	Name string `gorm:"size:64;not null"`
}

type testCategory struct {
	model.Base[int]
	Name string `gorm:"size:64;not null"`
}

type testProduct struct {
	model.Base[int]
	Title      string   `gorm:"size:128;not null"`
	Price      float64  `gorm:"not null"`
	Tags       []string `gorm:"serializer:json"`
	BrandID    int
	Brand      *testBrand
	CategoryID int
	Category   *testCategory
}

// testNote has no audit columns and is hard deleted.
type testNote struct {
	ID   int `gorm:"primaryKey"`
	Body string
}

func (n *testNote) KeyValue() (any, bool) { return n.ID, n.ID != 0 }

const (
	productTitle       specification.Column[*testProduct]  = "title"
	productPrice       specification.Column[*testProduct]  = "price"
	productBrandID     specification.Column[*testProduct]  = "brand_id"
	productIncBrand    specification.Include[*testProduct] = "Brand"
	productIncCategory specification.Include[*testProduct] = "Category"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

// setupTestDB prepares an in-memory SQLite database with the test tables.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to initialize test database")

	// every new connection to :memory: is a fresh database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(&testBrand{}, &testCategory{}, &testProduct{}, &testNote{})
	require.NoError(t, err, "failed to migrate tables")

	return db
}

// newTestUnitOfWork returns a unit of work with an audit interceptor on a fixed clock.
func newTestUnitOfWork(db *gorm.DB) *UnitOfWork {
	return NewUnitOfWork(db, NewAuditInterceptor().WithClock(func() time.Time { return fixedNow }))
}

// seedBrandAndCategory inserts one brand and one category through the unit of work.
func seedBrandAndCategory(t *testing.T, db *gorm.DB) (*testBrand, *testCategory) {
	t.Helper()

	uow := newTestUnitOfWork(db)
	b := &testBrand{Name: "Nike"}
	c := &testCategory{Name: "Shoes"}
	GetOrCreateRepository[*testBrand, int](uow).Add(b)
	GetOrCreateRepository[*testCategory, int](uow).Add(c)
	_, err := uow.SaveChanges(t.Context(), model.NewActor("seeder"))
	require.NoError(t, err)
	return b, c
}
