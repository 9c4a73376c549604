package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrSessionNotFound is returned for refresh tokens that were never stored,
// have expired, or were revoked.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps the refresh tokens that are still valid.
type SessionStore interface {
	Save(ctx context.Context, token string, userID uint, ttl time.Duration) error
	Lookup(ctx context.Context, token string) (uint, error)
	Revoke(ctx context.Context, token string) error
}

// RedisSessionStore stores sessions as expiring Redis keys.
type RedisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb}
}

func sessionKey(token string) string {
	return "session:" + token
}

func (s *RedisSessionStore) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	return s.rdb.Set(ctx, sessionKey(token), userID, ttl).Err()
}

func (s *RedisSessionStore) Lookup(ctx context.Context, token string) (uint, error) {
	v, err := s.rdb.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt session value %q: %w", v, err)
	}
	return uint(id), nil
}

// Revoke deletes the session. Revoking an unknown token is not an error.
func (s *RedisSessionStore) Revoke(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, sessionKey(token)).Err()
}
