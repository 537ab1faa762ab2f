// Package cache provides a best-effort JSON read-through cache on Redis.
// A nil Store, or one with a nil client, is valid and never caches.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTTL = 5 * time.Minute
	scanCount  = 200
)

// Store namespaces keys and applies a single TTL.
type Store struct {
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// NewStore returns a Store. If ttl is 0 or negative it defaults to 5 minutes.
func NewStore(rdb *redis.Client, ttl time.Duration, namespace string) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if namespace == "" {
		namespace = "cache"
	}
	return &Store{rdb: rdb, ttl: ttl, namespace: namespace}
}

// Key joins parts under the namespace. Each part is query-escaped, so distinct parts
// always give distinct keys and never carry ':' or glob characters.
func (s *Store) Key(parts ...string) string {
	var b strings.Builder
	if s != nil {
		b.WriteString(s.namespace)
	}
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(safe(p))
	}
	return b.String()
}

// Remember returns the cached value for key or calls load and caches its result.
// Cache failures are logged and never returned; load errors are returned unchanged.
func Remember[T any](ctx context.Context, s *Store, key string, load func(ctx context.Context) (T, error)) (T, error) {
	if s == nil || s.rdb == nil {
		return load(ctx)
	}

	// 1) キャッシュを確認
	if b, err := s.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// 壊れたエントリは削除
		_ = s.rdb.Del(ctx, key).Err()
	} else if err != nil && err != redis.Nil {
		slog.Warn("cache read failed", "key", key, "error", err)
	}

	// 2) 元データにフォールバック
	out, err := load(ctx)
	if err != nil {
		return out, err
	}

	// 3) ベストエフォートで保存
	if b, err := json.Marshal(out); err == nil {
		if err := s.rdb.Set(ctx, key, b, s.ttl).Err(); err != nil {
			slog.Warn("cache write failed", "key", key, "error", err)
		}
	}
	return out, nil
}

// Invalidate deletes every key under the namespace that starts with the given parts.
// With no parts the whole namespace is cleared.
func (s *Store) Invalidate(ctx context.Context, parts ...string) {
	if s == nil || s.rdb == nil {
		return
	}
	prefix := s.Key(parts...)
	if err := s.deleteByPattern(ctx, prefix+":*"); err != nil {
		slog.Warn("cache invalidation failed", "prefix", prefix, "error", err)
	}
}

// deleteByPattern deletes all keys matching pattern using SCAN.
func (s *Store) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := s.rdb.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			return nil
		}
	}
}

func safe(s string) string {
	return url.QueryEscape(s)
}
