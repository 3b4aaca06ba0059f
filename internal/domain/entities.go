package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is an auction subject owned by the catalog. The bidding engine reads it
// and writes only the auction phase and approval fields.
type Item struct {
	ID            string
	SellerID      string
	CategoryID    string
	Name          string
	StartingPrice decimal.Decimal
	BidIncrement  decimal.Decimal
	Status        ItemStatus
	ApprovedAt    *time.Time
	AdminID       string
	StartTime     *time.Time
	EndTime       *time.Time
	AuctionPhase  AuctionPhase
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ItemStatus is the administrative approval state of an item.
type ItemStatus string

const (
	ItemPending  ItemStatus = "pending"
	ItemApproved ItemStatus = "approved"
	ItemRejected ItemStatus = "rejected"
)

type AuctionPhase int

const (
	PhaseNotStarted AuctionPhase = iota
	PhaseActive
	PhaseEnded
)

func (p AuctionPhase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Bid is immutable after creation. SellerID is denormalized from the item at
// bid time for audit. BidTime is assigned when the bid is admitted, not when
// the request arrives, so ledger order and timestamp order always agree.
type Bid struct {
	ID         string
	ItemID     string
	CustomerID string
	SellerID   string
	Amount     decimal.Decimal
	BidTime    time.Time
}

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleSeller   Role = "SELLER"
	RoleAdmin    Role = "ADMIN"
)

// Identity is the authenticated caller, resolved by the session collaborator
// and passed explicitly into every engine operation.
type Identity struct {
	ID   string
	Role Role
}

// WinningOutcome is a read-only projection of a closed auction. Decided is
// false while the auction has not ended; Sold is false for an ended auction
// with an empty ledger.
type WinningOutcome struct {
	ItemID     string
	Decided    bool
	Sold       bool
	WinningBid *Bid
	WinnerID   string
}

type Payment struct {
	ID              string
	BidID           string
	CustomerID      string
	SellerID        string
	Amount          decimal.Decimal
	Status          PaymentStatus
	TransactionTime time.Time
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// BidEvent is published on the auction event channel after each admission
// decision so downstream consumers can react without polling.
type BidEvent struct {
	Type      BidEventType    `json:"type"`
	ItemID    string          `json:"item_id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

type BidEventType string

const (
	BidAccepted  BidEventType = "bid_accepted"
	BidRejected  BidEventType = "bid_rejected"
	AuctionEnded BidEventType = "auction_ended"
)
