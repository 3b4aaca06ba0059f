package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"auction-marketplace/internal/domain"
)

// RedisSessionStore resolves bearer tokens to identities. The HTTP layer uses
// it to build the explicit Identity passed into every engine operation; the
// engine itself never reads session state.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// Resolve returns the identity behind a session token, or nil when the token
// is unknown or expired.
func (r *RedisSessionStore) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	key := fmt.Sprintf("session:%s", token)

	result, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}

	return &domain.Identity{
		ID:   result["user_id"],
		Role: domain.Role(result["role"]),
	}, nil
}
