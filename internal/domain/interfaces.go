package domain

import (
	"context"
	"time"
)

// Repository interfaces
type ItemRepository interface {
	GetItem(ctx context.Context, itemID string) (*Item, error)
	ListItems(ctx context.Context) ([]*Item, error)
	UpdateAuctionPhase(ctx context.Context, itemID string, phase AuctionPhase) error
	UpdateApproval(ctx context.Context, itemID string, status ItemStatus, approvedAt *time.Time, adminID string) error
}

type BidRepository interface {
	AppendBid(ctx context.Context, bid *Bid) error
	GetBid(ctx context.Context, bidID string) (*Bid, error)
	ListBidsByItem(ctx context.Context, itemID string) ([]*Bid, error)
	HighestBid(ctx context.Context, itemID string) (*Bid, error)
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, payment *Payment) error
	GetPaymentByBid(ctx context.Context, bidID string) (*Payment, error)
}

type TransitionLog interface {
	RecordTransition(ctx context.Context, itemID string, from, to AuctionPhase, at time.Time) error
}

// Cache interfaces
type HighBidCache interface {
	SetHighBid(ctx context.Context, itemID string, bid *Bid) error
	GetHighBid(ctx context.Context, itemID string) (*Bid, error)
}

// Event interfaces
type EventPublisher interface {
	PublishBidEvent(ctx context.Context, event *BidEvent) error
}

// Identity interfaces
type SessionStore interface {
	Resolve(ctx context.Context, token string) (*Identity, error)
}

// Leader election interface
type LeaderElection interface {
	BecomeLeader(ctx context.Context, instanceID string) (bool, error)
	IsLeader(ctx context.Context, instanceID string) (bool, error)
	ReleaseLeadership(ctx context.Context, instanceID string) error
}
