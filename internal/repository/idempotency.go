package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// IdempotencyRepository tracks consumed checkout idempotency keys in Redis.
type IdempotencyRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyRepository(rdb *redis.Client) *IdempotencyRepository {
	return &IdempotencyRepository{rdb: rdb, ttl: 24 * time.Hour}
}

// Claim marks the key as used and reports whether this caller won it. A
// second claim within the TTL returns false.
func (r *IdempotencyRepository) Claim(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("idempotent-key:%s", key)
	return r.rdb.SetNX(ctx, redisKey, "exists", r.ttl).Result()
}
