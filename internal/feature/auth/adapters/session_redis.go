package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cartify_backend/internal/feature/auth/domain/entity"
	"cartify_backend/internal/feature/auth/usecase"

	"github.com/redis/go-redis/v9"
)

// DefaultSessionPrefix is the key namespace of refresh sessions.
const DefaultSessionPrefix = "session"

// revokedRetention keeps revoked sessions around so a reused refresh token can be detected.
const revokedRetention = 24 * time.Hour

// SessionRedis implements usecase.SessionRepository using Redis.
//
// Each session lives under "<prefix>:<id>" with a TTL equal to its remaining lifetime.
// The active sessions of a user are indexed in the sorted set "<prefix>:user:<id>",
// scored by creation time so the oldest one is always first.
type SessionRedis struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

var _ usecase.SessionRepository = (*SessionRedis)(nil)

// NewSessionRedis creates a new SessionRedis instance.
func NewSessionRedis(client *redis.Client, prefix string) *SessionRedis {
	if prefix == "" {
		prefix = DefaultSessionPrefix
	}
	return &SessionRedis{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// sessionKey returns the Redis key for a session.
func (r *SessionRedis) sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

// userSessionsKey returns the Redis key for a user's session index.
func (r *SessionRedis) userSessionsKey(userID uint) string {
	return fmt.Sprintf("%s:user:%d", r.prefix, userID)
}

// Create persists a new session and indexes it under its user.
func (r *SessionRedis) Create(ctx context.Context, session *entity.Session) error {
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(session.ID), data, ttl)
		pipe.ZAdd(ctx, r.userSessionsKey(session.UserID), redis.Z{
			Score:  float64(session.CreatedAt.UnixNano()),
			Member: session.ID,
		})
		return nil
	})
	return err
}

// FindByID retrieves a session by its ID, revoked ones included.
func (r *SessionRedis) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Revoke marks a session as revoked and drops it from the user's index.
// Revoking an already revoked session is a no-op.
func (r *SessionRedis) Revoke(ctx context.Context, id string) error {
	session, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if session.IsRevoked() {
		return nil
	}

	now := r.now()
	session.RevokedAt = &now
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(id), data, revokedRetention)
		pipe.ZRem(ctx, r.userSessionsKey(session.UserID), id)
		return nil
	})
	return err
}

// RevokeAllByUserID revokes every active session of a user.
func (r *SessionRedis) RevokeAllByUserID(ctx context.Context, userID uint) error {
	ids, err := r.client.ZRange(ctx, r.userSessionsKey(userID), 0, -1).Result()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := r.Revoke(ctx, id); err != nil && !errors.Is(err, usecase.ErrSessionNotFound) {
			return err
		}
	}
	// expired members are not revoked individually
	return r.client.Del(ctx, r.userSessionsKey(userID)).Err()
}

// CountByUserID returns the number of active sessions for a user.
// Index entries whose session already expired are pruned on the way.
func (r *SessionRedis) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	live, err := r.prune(ctx, userID)
	if err != nil {
		return 0, err
	}
	return int64(len(live)), nil
}

// DeleteOldestByUserID deletes the oldest active session for a user.
func (r *SessionRedis) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	live, err := r.prune(ctx, userID)
	if err != nil {
		return err
	}
	if len(live) == 0 {
		return nil
	}

	oldest := live[0]
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.sessionKey(oldest))
		pipe.ZRem(ctx, r.userSessionsKey(userID), oldest)
		return nil
	})
	return err
}

// prune returns the indexed session ids that still exist, oldest first,
// and removes the rest from the index.
func (r *SessionRedis) prune(ctx context.Context, userID uint) ([]string, error) {
	key := r.userSessionsKey(userID)
	ids, err := r.client.ZRange(ctx, key, 0, -1).Result()
	if err != nil || len(ids) == 0 {
		return nil, err
	}

	cmds := make([]*redis.IntCmd, len(ids))
	if _, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.Exists(ctx, r.sessionKey(id))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	live := make([]string, 0, len(ids))
	var gone []any
	for i, id := range ids {
		if cmds[i].Val() > 0 {
			live = append(live, id)
		} else {
			gone = append(gone, id)
		}
	}
	if len(gone) > 0 {
		if err := r.client.ZRem(ctx, key, gone...).Err(); err != nil {
			return nil, err
		}
	}
	return live, nil
}
