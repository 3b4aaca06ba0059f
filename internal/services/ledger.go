package services

import (
	"context"

	"github.com/shopspring/decimal"

	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
)

// BidLedger is the ordered, append-only record of accepted bids per item.
// The bid repository is authoritative; the high-bid cache is refreshed after
// every append so status reads can stay off the database and outside the
// per-item lock.
type BidLedger struct {
	bids  domain.BidRepository
	cache domain.HighBidCache
	log   logger.Logger
}

func NewBidLedger(bids domain.BidRepository, cache domain.HighBidCache, log logger.Logger) *BidLedger {
	return &BidLedger{
		bids:  bids,
		cache: cache,
		log:   log,
	}
}

// CurrentHighBid returns the latest accepted bid for the item, or nil for an
// empty ledger. Because the ledger is strictly increasing, the latest bid is
// also the maximum.
func (l *BidLedger) CurrentHighBid(ctx context.Context, itemID string) (*domain.Bid, error) {
	bid, err := l.bids.HighestBid(ctx, itemID)
	if err != nil {
		return nil, &domain.CollaboratorError{Collaborator: "persistence", Err: err}
	}
	return bid, nil
}

// CachedHighBid serves lock-free status reads. It falls back to the
// repository on a cache miss and tolerates one-write staleness.
func (l *BidLedger) CachedHighBid(ctx context.Context, itemID string) (*domain.Bid, error) {
	bid, err := l.cache.GetHighBid(ctx, itemID)
	if err == nil && bid != nil {
		return bid, nil
	}
	if err != nil {
		l.log.Warn("High bid cache read failed, falling back to store", "item_id", itemID, "error", err)
	}
	return l.CurrentHighBid(ctx, itemID)
}

// Floor returns the minimum basis for the next bid: the current high bid
// amount, or the item's starting price when no bids exist.
func (l *BidLedger) Floor(ctx context.Context, item *domain.Item) (decimal.Decimal, error) {
	high, err := l.CurrentHighBid(ctx, item.ID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if high == nil {
		return item.StartingPrice, nil
	}
	return high.Amount, nil
}

// Append writes one accepted bid. It re-checks the monotonic invariant
// against the stored high bid as defense in depth: the validator should have
// rejected any non-increasing amount before we get here.
func (l *BidLedger) Append(ctx context.Context, bid *domain.Bid) error {
	high, err := l.CurrentHighBid(ctx, bid.ItemID)
	if err != nil {
		return err
	}
	if high != nil && !bid.Amount.GreaterThan(high.Amount) {
		return domain.ErrOrderingViolation
	}

	if err := l.bids.AppendBid(ctx, bid); err != nil {
		return &domain.CollaboratorError{Collaborator: "persistence", Err: err}
	}

	if err := l.cache.SetHighBid(ctx, bid.ItemID, bid); err != nil {
		// The repository committed; the cache will self-heal on the next read.
		l.log.Warn("Failed to refresh high bid cache", "item_id", bid.ItemID, "error", err)
	}

	return nil
}

// AllBids returns the item's ledger oldest first.
func (l *BidLedger) AllBids(ctx context.Context, itemID string) ([]*domain.Bid, error) {
	bids, err := l.bids.ListBidsByItem(ctx, itemID)
	if err != nil {
		return nil, &domain.CollaboratorError{Collaborator: "persistence", Err: err}
	}
	return bids, nil
}
