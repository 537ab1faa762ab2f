// Package config loads the service configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"fmt"
	"time"

	"cartify_backend/internal/platform/db"
	"cartify_backend/internal/platform/redis"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the complete runtime configuration.
type Config struct {
	Port        string   `env:"PORT" envDefault:"8080"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	DB    db.Config
	Redis redis.Config

	JWT  JWTConfig
	Cart CartConfig

	// AuthRateLimit is the number of signup, login and refresh calls a client IP
	// may make per minute. 0 disables the limit.
	AuthRateLimit int `env:"AUTH_RATE_LIMIT" envDefault:"10"`

	// CatalogCacheTTL bounds how long brand and category listings stay cached.
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`

	Admin AdminConfig
}

// JWTConfig configures access tokens and refresh sessions.
type JWTConfig struct {
	Secret             string        `env:"JWT_SECRET"`
	AccessTokenTTL     time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	RefreshTokenTTL    time.Duration `env:"JWT_REFRESH_TTL" envDefault:"720h"`
	MaxSessionsPerUser int           `env:"MAX_SESSIONS_PER_USER" envDefault:"5"`
}

// CartConfig configures the Redis cart store.
type CartConfig struct {
	ExpiryDays int `env:"CART_EXPIRY_DAYS" envDefault:"7"`
}

// Expiry returns the cart retention window.
func (c CartConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiryDays) * 24 * time.Hour
}

// AdminConfig seeds the first administrator. Seeding is skipped when Email is empty.
type AdminConfig struct {
	Name     string `env:"ADMIN_NAME" envDefault:"Administrator"`
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load reads .env (if any) and parses the process environment.
func Load() (Config, error) {
	// .env は任意。存在しなくてもエラーにしない
	_ = godotenv.Load()
	return parse(env.Options{})
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Cart.ExpiryDays < 0 {
		return Config{}, fmt.Errorf("CART_EXPIRY_DAYS must not be negative, got %d", cfg.Cart.ExpiryDays)
	}
	if cfg.AuthRateLimit < 0 {
		return Config{}, fmt.Errorf("AUTH_RATE_LIMIT must not be negative, got %d", cfg.AuthRateLimit)
	}
	return cfg, nil
}
