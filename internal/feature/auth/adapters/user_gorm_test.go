package adapters

import (
	"context"
	"testing"

	"cartify_backend/internal/feature/auth/domain/entity"
	"cartify_backend/internal/feature/auth/usecase"
	"cartify_backend/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), db.GormConfig(logger.Discard))
	require.NoError(t, err, "failed to initialize test database")

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(&entity.User{}), "failed to migrate table")
	return gdb
}

func newUser(email string) *entity.User {
	return &entity.User{Name: "Test User", Email: email, Password: "hashed_password"}
}

func TestUserGorm_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		user := newUser("test@example.com")

		err := repo.Create(context.Background(), user)

		require.NoError(t, err, "failed to create user")
		assert.NotZero(t, user.ID, "ID is not set")
		assert.False(t, user.CreatedAt.IsZero(), "CreatedAt is not set")
		assert.Equal(t, entity.RoleCustomer, user.Role, "role defaults to customer")
	})

	t.Run("duplicate email error", func(t *testing.T) {
		repo := NewUserGorm(setupTestDB(t))
		require.NoError(t, repo.Create(context.Background(), newUser("dup@example.com")))

		err := repo.Create(context.Background(), newUser("dup@example.com"))

		assert.ErrorIs(t, err, usecase.ErrEmailAlreadyExists)
	})
}

func TestUserGorm_Find(t *testing.T) {
	repo := NewUserGorm(setupTestDB(t))
	ctx := context.Background()
	created := newUser("find@example.com")
	require.NoError(t, repo.Create(ctx, created))

	tests := []struct {
		name    string
		find    func() (*entity.User, error)
		wantErr error
	}{
		{"by email", func() (*entity.User, error) { return repo.FindByEmail(ctx, "find@example.com") }, nil},
		{"by id", func() (*entity.User, error) { return repo.FindByID(ctx, created.ID) }, nil},
		{"unknown email", func() (*entity.User, error) { return repo.FindByEmail(ctx, "nobody@example.com") }, usecase.ErrUserNotFound},
		{"unknown id", func() (*entity.User, error) { return repo.FindByID(ctx, 999) }, usecase.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := tt.find()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, created.ID, u.ID)
			assert.Equal(t, "Test User", u.Name)
		})
	}
}

func TestUserGorm_Update(t *testing.T) {
	repo := NewUserGorm(setupTestDB(t))
	ctx := context.Background()
	a := newUser("a@example.com")
	b := newUser("b@example.com")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	phone := "+81-90-0000-0000"
	a.Name = "Alice"
	a.Phone = &phone
	a.Role = entity.RoleAdmin
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	require.NotNil(t, got.Phone)
	assert.Equal(t, phone, *got.Phone)
	assert.True(t, got.IsAdmin())

	b.Email = "a@example.com"
	assert.ErrorIs(t, repo.Update(ctx, b), usecase.ErrEmailAlreadyExists)

	ghost := newUser("ghost@example.com")
	ghost.ID = 404
	assert.ErrorIs(t, repo.Update(ctx, ghost), usecase.ErrUserNotFound)
}

func TestUserGorm_List(t *testing.T) {
	repo := NewUserGorm(setupTestDB(t))
	ctx := context.Background()

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	for _, email := range []string{"z@example.com", "a@example.com"} {
		require.NoError(t, repo.Create(ctx, newUser(email)))
	}

	users, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "z@example.com", users[0].Email, "ordered by id")
}
