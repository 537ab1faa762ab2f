// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"time"

	"cartify_backend/internal/app/router"
	authadapters "cartify_backend/internal/feature/auth/adapters"
	authentity "cartify_backend/internal/feature/auth/domain/entity"
	authhandler "cartify_backend/internal/feature/auth/transport/handler"
	authusecase "cartify_backend/internal/feature/auth/usecase"
	cartadapters "cartify_backend/internal/feature/cart/adapters"
	carthandler "cartify_backend/internal/feature/cart/transport/handler"
	cartusecase "cartify_backend/internal/feature/cart/usecase"
	catalogentity "cartify_backend/internal/feature/catalog/domain/entity"
	cataloghandler "cartify_backend/internal/feature/catalog/transport/handler"
	catalogusecase "cartify_backend/internal/feature/catalog/usecase"
	wishlistentity "cartify_backend/internal/feature/wishlist/domain/entity"
	wishlisthandler "cartify_backend/internal/feature/wishlist/transport/handler"
	wishlistusecase "cartify_backend/internal/feature/wishlist/usecase"
	"cartify_backend/internal/platform/cache"
	"cartify_backend/internal/platform/config"
	"cartify_backend/internal/platform/http/handler"
	jwtmw "cartify_backend/internal/platform/jwt"
	"cartify_backend/internal/platform/persistence"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const readinessTimeout = 2 * time.Second

// Container holds the wired handlers plus the services main needs directly.
type Container struct {
	Handlers router.Handlers
	Auth     AdminSeeder
}

// AdminSeeder creates or promotes the configured administrator.
type AdminSeeder interface {
	EnsureAdmin(ctx context.Context, name, email, password string) error
}

// NewContainer builds every repository, usecase and handler on top of db and rdb.
func NewContainer(cfg config.Config, db *gorm.DB, rdb *redis.Client) *Container {
	uow := NewUnitOfWorkFactory(db)

	// Repository
	userRepo := authadapters.NewUserGorm(db)
	sessionRepo := authadapters.NewSessionRedis(rdb, authadapters.DefaultSessionPrefix)
	cartStore := cartadapters.NewCartRedis(rdb, cfg.Cart.Expiry())
	catalogCache := cache.NewStore(rdb, cfg.CatalogCacheTTL, "catalog")

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo,
		jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL),
		authusecase.SessionConfig{
			RefreshTTL:         cfg.JWT.RefreshTokenTTL,
			MaxSessionsPerUser: cfg.JWT.MaxSessionsPerUser,
		})
	brandUC := catalogusecase.NewBrandUsecase(uow, catalogCache)
	categoryUC := catalogusecase.NewCategoryUsecase(uow, catalogCache)
	productUC := catalogusecase.NewProductUsecase(uow)
	cartUC := cartusecase.NewCartUsecase(cartStore, productUC)
	wishlistUC := wishlistusecase.NewWishlistUsecase(uow)

	// Handler
	return &Container{
		Handlers: router.Handlers{
			Auth:      authhandler.NewAuthHandler(authUC),
			Brand:     cataloghandler.NewBrandHandler(brandUC),
			Category:  cataloghandler.NewCategoryHandler(categoryUC),
			Product:   cataloghandler.NewProductHandler(productUC),
			Cart:      carthandler.NewCartHandler(cartUC),
			Wishlist:  wishlisthandler.NewWishlistHandler(wishlistUC),
			Readiness: NewReadiness(db, rdb),
		},
		Auth: authUC,
	}
}

// NewUnitOfWorkFactory returns the factory every relational usecase draws its unit of work from.
// Writes are stamped by the audit interceptor.
func NewUnitOfWorkFactory(db *gorm.DB) *persistence.Factory {
	return persistence.NewFactory(db, persistence.NewAuditInterceptor())
}

// NewReadiness checks the relational store and Redis.
func NewReadiness(db *gorm.DB, rdb *redis.Client) *handler.ReadinessHandler {
	return handler.NewReadinessHandler(map[string]handler.Pinger{
		"database": handler.PingFunc(func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
		"redis": handler.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}),
	}, readinessTimeout)
}

// Models lists every gorm model migrated at startup.
func Models() []any {
	models := []any{&authentity.User{}}
	models = append(models, catalogentity.Models()...)
	return append(models, wishlistentity.Models()...)
}
