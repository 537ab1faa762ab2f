// Package adapters はcartフィーチャーの永続化アダプターを提供します。
package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cartify_backend/internal/feature/cart/domain/entity"
	"cartify_backend/internal/feature/cart/usecase"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultCartExpiry is the retention window of a cart that is not touched again.
	DefaultCartExpiry = 7 * 24 * time.Hour

	keyPrefix  = "cart"
	maxRetries = 10
)

// CartRedis はRedisを使用してusecase.CartStoreを実装します。
// カートはJSONとして "cart:{userId}" キーに丸ごと保存されます。
type CartRedis struct {
	client *redis.Client
	expiry time.Duration
	now    func() time.Time
}

// NewCartRedis creates a new CartRedis. A non-positive expiry falls back to DefaultCartExpiry.
func NewCartRedis(client *redis.Client, expiry time.Duration) *CartRedis {
	if expiry <= 0 {
		expiry = DefaultCartExpiry
	}
	return &CartRedis{
		client: client,
		expiry: expiry,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used for UpdatedAtUtc. Intended for tests.
func (r *CartRedis) WithClock(now func() time.Time) *CartRedis {
	r.now = now
	return r
}

// Expiry returns the retention window applied by Mutate.
func (r *CartRedis) Expiry() time.Duration {
	return r.expiry
}

// cartKey returns the Redis key for a user's cart.
func cartKey(userID string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, userID)
}

// Get returns the user's cart, or nil when there is none.
func (r *CartRedis) Get(ctx context.Context, userID string) (*entity.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return decode(data)
}

// Upsert stamps UpdatedAtUtc and overwrites the stored cart. The key expires expiry after now;
// a non-positive expiry removes the key since the cart would already be expired.
func (r *CartRedis) Upsert(ctx context.Context, cart *entity.Cart, expiry time.Duration) error {
	return r.write(ctx, r.client, cart, expiry)
}

// write は Upsert と Mutate 共通の書き込み。w にはクライアントかトランザクションのパイプラインを渡す。
func (r *CartRedis) write(ctx context.Context, w redis.Cmdable, cart *entity.Cart, expiry time.Duration) error {
	key := cartKey(cart.ID)
	if expiry <= 0 {
		return w.Del(ctx, key).Err()
	}

	cart.UpdatedAtUtc = r.now()
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}
	return w.Set(ctx, key, data, expiry).Err()
}

// Remove deletes the user's cart and reports whether one existed.
func (r *CartRedis) Remove(ctx context.Context, userID string) (bool, error) {
	n, err := r.client.Del(ctx, cartKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Mutate reads the cart, applies fn and writes the result back only if the key did not
// change in between (WATCH/MULTI). On a lost race the whole read-modify-write is retried.
// fn receives nil when the user has no cart. Returning a nil cart deletes the key.
// An error from fn aborts without writing and is returned unchanged.
func (r *CartRedis) Mutate(ctx context.Context, userID string, fn func(*entity.Cart) (*entity.Cart, error)) (*entity.Cart, error) {
	key := cartKey(userID)
	var result *entity.Cart

	txf := func(tx *redis.Tx) error {
		current, err := load(ctx, tx, key)
		if err != nil {
			return err
		}
		var version int64
		if current != nil {
			version = current.Version
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		if next == nil {
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Del(ctx, key)
				return nil
			})
			result = nil
			return err
		}

		next.ID = userID
		next.Version = version + 1

		// EXECは監視中のキーが変更されていればTxFailedErrで失敗する
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return r.write(ctx, pipe, next, r.expiry)
		})
		result = next
		return err
	}

	for range maxRetries {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, usecase.ErrConcurrentUpdate
}

func load(ctx context.Context, tx *redis.Tx, key string) (*entity.Cart, error) {
	data, err := tx.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return decode(data)
}

func decode(data []byte) (*entity.Cart, error) {
	var cart entity.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	if cart.CartItems == nil {
		cart.CartItems = []entity.CartItem{}
	}
	return &cart, nil
}
