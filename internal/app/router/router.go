// Package router wires every feature's handlers onto a single gin engine.
package router

import (
	"time"

	authhandler "cartify_backend/internal/feature/auth/transport/handler"
	carthandler "cartify_backend/internal/feature/cart/transport/handler"
	cataloghandler "cartify_backend/internal/feature/catalog/transport/handler"
	wishlisthandler "cartify_backend/internal/feature/wishlist/transport/handler"
	"cartify_backend/internal/platform/http/handler"
	jwtmw "cartify_backend/internal/platform/jwt"
	"cartify_backend/internal/platform/ratelimiter"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups the feature handlers mounted by NewRouter.
type Handlers struct {
	Auth      *authhandler.AuthHandler
	Brand     *cataloghandler.BrandHandler
	Category  *cataloghandler.CategoryHandler
	Product   *cataloghandler.ProductHandler
	Cart      *carthandler.CartHandler
	Wishlist  *wishlisthandler.WishlistHandler
	Readiness *handler.ReadinessHandler
}

// Options configures the middleware shared by all routes.
type Options struct {
	JWTSecret   string
	CORSOrigins []string

	// AuthLimiter throttles signup, login and refresh per client IP. nil disables it.
	AuthLimiter *ratelimiter.RateLimiter
}

func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// オリジン未指定の場合はCORSを無効にする
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	if h.Readiness != nil {
		r.GET("/readyz", h.Readiness.Ready)
	}

	authRequired := jwtmw.AuthRequired(opts.JWTSecret)
	adminRequired := jwtmw.AdminRequired()

	api := r.Group("/api/v1")

	var throttle gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if opts.AuthLimiter != nil {
		throttle = opts.AuthLimiter.Middleware()
	}

	// 認証不要
	auth := api.Group("/auth")
	{
		auth.POST("/signup", throttle, h.Auth.Signup)
		auth.POST("/login", throttle, h.Auth.Login)
		auth.POST("/refresh", throttle, h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}
	me := auth.Group("/me", authRequired)
	{
		me.GET("", h.Auth.Me)
		me.PUT("", h.Auth.UpdateProfile)
		me.PUT("/password", h.Auth.ChangePassword)
	}

	// カタログの参照は誰でも可能、更新は管理者のみ
	api.GET("/brands", h.Brand.List)
	api.GET("/brands/:id", h.Brand.Get)
	api.GET("/categories", h.Category.List)
	api.GET("/categories/:id", h.Category.Get)
	api.GET("/products", h.Product.List)
	api.GET("/products/:id", h.Product.Get)

	admin := api.Group("", authRequired, adminRequired)
	{
		admin.POST("/brands", h.Brand.Create)
		admin.PUT("/brands/:id", h.Brand.Update)
		admin.DELETE("/brands/:id", h.Brand.Delete)

		admin.POST("/categories", h.Category.Create)
		admin.PUT("/categories/:id", h.Category.Update)
		admin.DELETE("/categories/:id", h.Category.Delete)

		admin.POST("/products", h.Product.Create)
		admin.PUT("/products/:id", h.Product.Update)
		admin.DELETE("/products/:id", h.Product.Delete)

		admin.GET("/users", h.Auth.ListUsers)
	}

	// 認証必須のルート
	user := api.Group("", authRequired)
	{
		user.GET("/cart", h.Cart.Get)
		user.PUT("/cart/:productId", h.Cart.AddItem)
		user.PATCH("/cart", h.Cart.UpdateItem)
		user.DELETE("/cart/:itemId", h.Cart.RemoveItem)
		user.DELETE("/cart", h.Cart.Clear)

		user.GET("/wishlist", h.Wishlist.List)
		user.POST("/wishlist/:id", h.Wishlist.Add)
		user.DELETE("/wishlist/:id", h.Wishlist.Remove)
	}

	return r
}
