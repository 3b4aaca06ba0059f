package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"auction-marketplace/internal/domain"
)

// RedisHighBidCache holds the latest accepted bid per item for lock-free
// status reads. The MySQL ledger stays authoritative; staleness of at most
// one write is acceptable for reads, never for admission.
type RedisHighBidCache struct {
	client *redis.Client
}

func NewRedisHighBidCache(client *redis.Client) *RedisHighBidCache {
	return &RedisHighBidCache{client: client}
}

func (r *RedisHighBidCache) SetHighBid(ctx context.Context, itemID string, bid *domain.Bid) error {
	key := fmt.Sprintf("item:%s:high_bid", itemID)

	return r.client.HSet(ctx, key,
		"bid_id", bid.ID,
		"customer_id", bid.CustomerID,
		"seller_id", bid.SellerID,
		"amount", bid.Amount.String(),
		"bid_time", bid.BidTime.UnixNano(),
	).Err()
}

func (r *RedisHighBidCache) GetHighBid(ctx context.Context, itemID string) (*domain.Bid, error) {
	key := fmt.Sprintf("item:%s:high_bid", itemID)

	result, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}

	amount, err := decimal.NewFromString(result["amount"])
	if err != nil {
		return nil, fmt.Errorf("corrupt cached amount for item %s: %w", itemID, err)
	}

	var bidTime time.Time
	if raw := result["bid_time"]; raw != "" {
		nanos, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt cached bid time for item %s: %w", itemID, err)
		}
		bidTime = time.Unix(0, nanos).UTC()
	}

	return &domain.Bid{
		ID:         result["bid_id"],
		ItemID:     itemID,
		CustomerID: result["customer_id"],
		SellerID:   result["seller_id"],
		Amount:     amount,
		BidTime:    bidTime,
	}, nil
}
