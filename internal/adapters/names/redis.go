// Package names resolves display names owned by the surrounding CRUD layer.
package names

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/dkeye/Presence/internal/domain"
)

const DefaultKey = "presence:display_names"

// RedisResolver reads display names from a redis hash (user id -> name)
// maintained by the CRUD layer.
type RedisResolver struct {
	client  redis.Cmdable
	key     string
	timeout time.Duration
}

func NewRedisResolver(client redis.Cmdable, key string, timeout time.Duration) *RedisResolver {
	if key == "" {
		key = DefaultKey
	}
	return &RedisResolver{client: client, key: key, timeout: timeout}
}

// DisplayName implements core.NameResolver. A missing field is not an error.
func (r *RedisResolver) DisplayName(ctx context.Context, id domain.UserID) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	name, err := r.client.HGet(ctx, r.key, string(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("hget %s: %w", r.key, err)
	}
	return name, nil
}
