package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"auction-marketplace/internal/domain"
)

type fakeItemRepo struct {
	mu        sync.Mutex
	items     map[string]*domain.Item
	failPhase map[string]error // item IDs whose phase update should fail
}

func newFakeItemRepo(items ...*domain.Item) *fakeItemRepo {
	repo := &fakeItemRepo{
		items:     make(map[string]*domain.Item),
		failPhase: make(map[string]error),
	}
	for _, item := range items {
		repo.items[item.ID] = item
	}
	return repo
}

func (r *fakeItemRepo) GetItem(_ context.Context, itemID string) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[itemID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) ListItems(_ context.Context) ([]*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]*domain.Item, 0, len(r.items))
	for _, item := range r.items {
		copied := *item
		items = append(items, &copied)
	}
	return items, nil
}

func (r *fakeItemRepo) UpdateAuctionPhase(_ context.Context, itemID string, phase domain.AuctionPhase) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.failPhase[itemID]; ok {
		return err
	}
	item, ok := r.items[itemID]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.AuctionPhase = phase
	return nil
}

func (r *fakeItemRepo) UpdateApproval(_ context.Context, itemID string, status domain.ItemStatus, approvedAt *time.Time, adminID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[itemID]
	if !ok {
		return domain.ErrItemNotFound
	}
	item.Status = status
	item.ApprovedAt = approvedAt
	item.AdminID = adminID
	return nil
}

func (r *fakeItemRepo) phase(itemID string) domain.AuctionPhase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[itemID].AuctionPhase
}

type fakeBidRepo struct {
	mu   sync.Mutex
	bids map[string][]*domain.Bid // itemID -> ledger, oldest first
}

func newFakeBidRepo() *fakeBidRepo {
	return &fakeBidRepo{bids: make(map[string][]*domain.Bid)}
}

func (r *fakeBidRepo) AppendBid(_ context.Context, bid *domain.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *bid
	r.bids[bid.ItemID] = append(r.bids[bid.ItemID], &copied)
	return nil
}

func (r *fakeBidRepo) GetBid(_ context.Context, bidID string) (*domain.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ledger := range r.bids {
		for _, bid := range ledger {
			if bid.ID == bidID {
				copied := *bid
				return &copied, nil
			}
		}
	}
	return nil, domain.ErrBidNotFound
}

func (r *fakeBidRepo) ListBidsByItem(_ context.Context, itemID string) ([]*domain.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ledger := r.bids[itemID]
	out := make([]*domain.Bid, 0, len(ledger))
	for _, bid := range ledger {
		copied := *bid
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeBidRepo) HighestBid(_ context.Context, itemID string) (*domain.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ledger := r.bids[itemID]
	if len(ledger) == 0 {
		return nil, nil
	}
	copied := *ledger[len(ledger)-1]
	return &copied, nil
}

func (r *fakeBidRepo) count(itemID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bids[itemID])
}

// seed installs a ledger directly, bypassing monotonicity checks. Used to
// model state left behind by administrative bid deletion.
func (r *fakeBidRepo) seed(itemID string, bids ...*domain.Bid) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bids[itemID] = append([]*domain.Bid{}, bids...)
}

type fakeHighBidCache struct {
	mu   sync.Mutex
	high map[string]*domain.Bid
}

func newFakeHighBidCache() *fakeHighBidCache {
	return &fakeHighBidCache{high: make(map[string]*domain.Bid)}
}

func (c *fakeHighBidCache) SetHighBid(_ context.Context, itemID string, bid *domain.Bid) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *bid
	c.high[itemID] = &copied
	return nil
}

func (c *fakeHighBidCache) GetHighBid(_ context.Context, itemID string) (*domain.Bid, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if bid, ok := c.high[itemID]; ok {
		copied := *bid
		return &copied, nil
	}
	return nil, nil
}

type fakeEventPublisher struct {
	mu     sync.Mutex
	events []*domain.BidEvent
}

func newFakeEventPublisher() *fakeEventPublisher {
	return &fakeEventPublisher{}
}

func (p *fakeEventPublisher) PublishBidEvent(_ context.Context, event *domain.BidEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakeEventPublisher) byType(eventType domain.BidEventType) []*domain.BidEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []*domain.BidEvent
	for _, event := range p.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

type fakeTransitionLog struct {
	mu      sync.Mutex
	entries []string
}

func newFakeTransitionLog() *fakeTransitionLog {
	return &fakeTransitionLog{}
}

func (l *fakeTransitionLog) RecordTransition(_ context.Context, itemID string, from, to domain.AuctionPhase, _ time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, fmt.Sprintf("%s:%s->%s", itemID, from, to))
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*domain.Payment // keyed by bid ID
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[string]*domain.Payment)}
}

func (r *fakePaymentRepo) CreatePayment(_ context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *payment
	r.payments[payment.BidID] = &copied
	return nil
}

func (r *fakePaymentRepo) GetPaymentByBid(_ context.Context, bidID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment, ok := r.payments[bidID]; ok {
		copied := *payment
		return &copied, nil
	}
	return nil, domain.ErrPaymentNotFound
}
