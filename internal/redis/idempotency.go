package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore claims request keys so a retried write runs at most once
// while the key is held.
type IdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewIdempotencyStore(client redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Claim returns true if the key was not held before this call.
func (s *IdempotencyStore) Claim(ctx context.Context, key string) (bool, error) {
	return s.client.SetNX(ctx, key, time.Now().Unix(), s.ttl).Result()
}

// Release frees a key whose write failed so the client may retry.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
