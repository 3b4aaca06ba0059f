package services

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"auction-marketplace/internal/clock"
	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"
)

// itemLocks serializes bid admission per item. Each item gets its own
// single-slot semaphore so two items never contend with each other; there is
// deliberately no global lock around admission.
type itemLocks struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newItemLocks() *itemLocks {
	return &itemLocks{slots: make(map[string]chan struct{})}
}

func (l *itemLocks) slot(itemID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot, ok := l.slots[itemID]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[itemID] = slot
	}
	return slot
}

// acquire blocks until the item's slot is free or ctx is done. A caller whose
// context is cancelled, before or while waiting, never enters the critical
// section: select picks randomly among ready cases, so a free slot could
// otherwise admit an already-dead caller.
func (l *itemLocks) acquire(ctx context.Context, itemID string) (release func(), err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slot := l.slot(itemID)
	select {
	case slot <- struct{}{}:
		return func() { <-slot }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// BiddingService is the admission coordinator: it makes the
// read-validate-append sequence atomic per item.
type BiddingService struct {
	items     domain.ItemRepository
	ledger    *BidLedger
	validator *BidValidator
	eventPub  domain.EventPublisher
	clk       clock.Clock
	locks     *itemLocks
	log       logger.Logger
}

func NewBiddingService(
	items domain.ItemRepository,
	ledger *BidLedger,
	validator *BidValidator,
	eventPub domain.EventPublisher,
	clk clock.Clock,
	log logger.Logger,
) *BiddingService {
	return &BiddingService{
		items:     items,
		ledger:    ledger,
		validator: validator,
		eventPub:  eventPub,
		clk:       clk,
		locks:     newItemLocks(),
		log:       log,
	}
}

// PlaceBid admits one bid attempt. Under the item's lock it reads the current
// phase and floor, runs the validator and appends on acceptance. BidTime is
// assigned inside the critical section so ledger order and timestamp order
// always agree. Validation rejections are returned as *BidRejectedError and
// are not system faults.
func (s *BiddingService) PlaceBid(ctx context.Context, proposed ProposedBid, bidder *domain.Identity) (*domain.Bid, error) {
	release, err := s.locks.acquire(ctx, proposed.ItemID)
	if err != nil {
		return nil, err
	}
	defer release()

	item, err := s.items.GetItem(ctx, proposed.ItemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return nil, err
		}
		return nil, &domain.CollaboratorError{Collaborator: "catalog", Err: err}
	}

	phase := domain.EffectivePhase(item, s.clk.Now())

	floor, err := s.ledger.Floor(ctx, item)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(proposed, item, phase, floor, bidder); err != nil {
		s.publishEvent(ctx, domain.BidRejected, proposed, bidder)
		return nil, err
	}

	bid := &domain.Bid{
		ID:         utils.GenerateID("bid"),
		ItemID:     item.ID,
		CustomerID: bidder.ID,
		SellerID:   item.SellerID,
		Amount:     proposed.Amount,
		BidTime:    s.clk.Now(),
	}

	if err := s.ledger.Append(ctx, bid); err != nil {
		if errors.Is(err, domain.ErrOrderingViolation) {
			// The validator passed but the append would not be strictly
			// increasing: the admission lock has been bypassed somewhere.
			s.log.Error("Ledger ordering violation during admission",
				"item_id", item.ID, "amount", bid.Amount.String())
		}
		return nil, err
	}

	s.log.Info("Bid accepted",
		"item_id", item.ID, "customer_id", bidder.ID, "amount", bid.Amount.String())
	s.publishEvent(ctx, domain.BidAccepted, proposed, bidder)

	return bid, nil
}

// HighBid serves the lock-free status read: the item's current high bid
// from the cache, falling back to the repository on a miss. The returned
// amount is the high bid's, or the starting price when the ledger is empty.
// It never takes the admission lock, so it may trail a concurrent append by
// one write.
func (s *BiddingService) HighBid(ctx context.Context, itemID string) (*domain.Bid, decimal.Decimal, error) {
	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return nil, decimal.Decimal{}, err
		}
		return nil, decimal.Decimal{}, &domain.CollaboratorError{Collaborator: "catalog", Err: err}
	}

	bid, err := s.ledger.CachedHighBid(ctx, itemID)
	if err != nil {
		return nil, decimal.Decimal{}, err
	}
	if bid == nil {
		return nil, item.StartingPrice, nil
	}
	return bid, bid.Amount, nil
}

func (s *BiddingService) publishEvent(ctx context.Context, eventType domain.BidEventType, proposed ProposedBid, bidder *domain.Identity) {
	userID := ""
	if bidder != nil {
		userID = bidder.ID
	}

	event := &domain.BidEvent{
		Type:      eventType,
		ItemID:    proposed.ItemID,
		UserID:    userID,
		Amount:    proposed.Amount,
		Timestamp: s.clk.Now(),
	}

	if err := s.eventPub.PublishBidEvent(ctx, event); err != nil {
		s.log.Warn("Failed to publish bid event",
			"item_id", proposed.ItemID, "type", string(eventType), "error", err)
	}
}
