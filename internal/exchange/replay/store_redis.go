// Package replay enforces single use of request nonces. A nonce that has
// already produced a presentation must never produce another one.
package replay

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"cardwallet/pkg/platform/sentinel"
)

// Redis key prefix for consumed nonces.
const usedNonceKeyPrefix = "vp:nonce:"

// RedisGuard is a Redis-backed nonce guard. This is the recommended
// implementation for distributed deployments where multiple wallet
// instances must share replay state.
type RedisGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGuard constructs a Redis-backed guard. The TTL should cover at
// least the presentation token validity window.
func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{client: client, ttl: ttl}
}

// MarkUsed atomically records the nonce. Returns sentinel.ErrAlreadyUsed
// when the nonce was consumed before.
func (g *RedisGuard) MarkUsed(ctx context.Context, nonce string) error {
	key := usedNonceKeyPrefix + nonce
	// SETNX with expiry: first writer wins, the key ages out after ttl.
	set, err := g.client.SetNX(ctx, key, "1", g.ttl).Result()
	if err != nil {
		return err
	}
	if !set {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}
