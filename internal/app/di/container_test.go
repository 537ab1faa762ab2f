package di

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cartify_backend/internal/app/router"
	"cartify_backend/internal/platform/config"
	"cartify_backend/internal/platform/db"
	"cartify_backend/internal/platform/ratelimiter"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret"

type testServer struct {
	t      *testing.T
	engine   *gin.Engine
	handlers router.Handlers
	mr       *miniredis.Miniredis
}

// newTestServer wires the real container on in-memory SQLite and miniredis.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), db.GormConfig(logger.Discard))
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(Models()...))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.Config{
		JWT:             config.JWTConfig{Secret: testSecret, AccessTokenTTL: time.Minute, RefreshTokenTTL: time.Hour, MaxSessionsPerUser: 3},
		Cart:            config.CartConfig{ExpiryDays: 7},
		CatalogCacheTTL: time.Minute,
	}
	c := NewContainer(cfg, gdb, rdb)
	require.NoError(t, c.Auth.EnsureAdmin(t.Context(), "Admin", "admin@cartify.test", "adminpass1"))

	engine := router.NewRouter(c.Handlers, router.Options{JWTSecret: testSecret})
	return &testServer{t: t, engine: engine, handlers: c.Handlers, mr: mr}
}

func (s *testServer) do(method, target, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	w, body := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	return body["accessToken"].(string)
}

func id(body map[string]any) int {
	return int(body["id"].(float64))
}

// TestContainer_ShoppingFlow は管理者によるカタログ登録から顧客のカート・ウィッシュリスト操作までを通しで検証します。
func TestContainer_ShoppingFlow(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	admin := s.login("admin@cartify.test", "adminpass1")

	w, category := s.do(http.MethodPost, "/api/v1/categories", admin, gin.H{"name": "Shoes"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, brand := s.do(http.MethodPost, "/api/v1/brands", admin, gin.H{"name": "Nike", "categoryIds": []int{id(category)}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w, product := s.do(http.MethodPost, "/api/v1/products", admin, gin.H{
		"title": "Air Max", "imageCover": "air-max.png", "price": 19.99, "quantity": 5,
		"brandId": id(brand), "categoryId": id(category),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	productID := id(product)

	w, _ = s.do(http.MethodPost, "/api/v1/auth/signup", "", gin.H{"name": "Carol", "email": "carol@cartify.test", "password": "password123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	carol := s.login("carol@cartify.test", "password123")

	// customers cannot edit the catalog
	w, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", productID), carol, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// cart
	w, _ = s.do(http.MethodGet, "/api/v1/cart", carol, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	for range 2 {
		w, _ = s.do(http.MethodPut, fmt.Sprintf("/api/v1/cart/%d", productID), carol, nil)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	}
	w, cart := s.do(http.MethodGet, "/api/v1/cart", carol, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, cart["totalCount"])
	assert.InDelta(t, 39.98, cart["totalPrice"], 0.001)
	assert.True(t, s.mr.Exists("cart:2"), "cart is keyed by user id")

	// wishlist
	w, _ = s.do(http.MethodPost, fmt.Sprintf("/api/v1/wishlist/%d", productID), carol, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	w, _ = s.do(http.MethodPost, fmt.Sprintf("/api/v1/wishlist/%d", productID), carol, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, wishlist := s.do(http.MethodGet, "/api/v1/wishlist", carol, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, wishlist["count"])

	// a deleted product drops out of the cart view
	w, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", productID), admin, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w, cart = s.do(http.MethodGet, "/api/v1/cart", carol, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, cart["cartItems"])

	w, _ = s.do(http.MethodDelete, "/api/v1/cart", carol, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, s.mr.Exists("cart:2"))
}

func TestContainer_RouteGuards(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method     string
		target     string
		wantStatus int
	}{
		{http.MethodGet, "/api/v1/products", http.StatusOK},
		{http.MethodGet, "/api/v1/brands", http.StatusOK},
		{http.MethodGet, "/api/v1/categories", http.StatusOK},
		{http.MethodPost, "/api/v1/products", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/cart", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/wishlist", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/auth/me", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/users", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			w, _ := s.do(tt.method, tt.target, "", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

// TestContainer_RefreshFlow はリフレッシュトークンのローテーションとログアウトを検証します。
func TestContainer_RefreshFlow(t *testing.T) {
	s := newTestServer(t)

	w, tokens := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "admin@cartify.test", "password": "adminpass1"})
	require.Equal(t, http.StatusOK, w.Code)
	refresh := tokens["refreshToken"].(string)

	w, rotated := s.do(http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refreshToken": refresh})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, refresh, rotated["refreshToken"])

	w, _ = s.do(http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refreshToken": refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "a rotated token cannot be used again")

	w, me := s.do(http.MethodGet, "/api/v1/auth/me", rotated["accessToken"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", me["role"])

	w, _ = s.do(http.MethodGet, "/api/v1/users", rotated["accessToken"].(string), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContainer_LoginIsThrottled(t *testing.T) {
	s := newTestServer(t)
	s.engine = router.NewRouter(s.handlers, router.Options{
		JWTSecret:   testSecret,
		AuthLimiter: ratelimiter.NewRateLimiter(2, time.Minute),
	})

	body := gin.H{"email": "admin@cartify.test", "password": "wrong-password"}
	for range 2 {
		w, _ := s.do(http.MethodPost, "/api/v1/auth/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w, _ := s.do(http.MethodPost, "/api/v1/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
