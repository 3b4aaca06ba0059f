package redis

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"auction-marketplace/internal/domain"
)

const eventChannel = "auction_events"

// RedisEventPublisher pushes admission and lifecycle events onto a pubsub
// channel for downstream consumers (analytics, archival). Nothing in this
// service subscribes; delivery is fire and forget.
type RedisEventPublisher struct {
	client *redis.Client
}

func NewRedisEventPublisher(client *redis.Client) *RedisEventPublisher {
	return &RedisEventPublisher{client: client}
}

func (r *RedisEventPublisher) PublishBidEvent(ctx context.Context, event *domain.BidEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.Publish(ctx, eventChannel, payload).Err()
}
