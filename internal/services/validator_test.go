package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auction-marketplace/internal/domain"
)

func validationItem() *domain.Item {
	return &domain.Item{
		ID:            "item-1",
		SellerID:      "seller-1",
		StartingPrice: decimal.NewFromInt(100),
		BidIncrement:  decimal.NewFromInt(5),
		Status:        domain.ItemApproved,
	}
}

func customer(id string) *domain.Identity {
	return &domain.Identity{ID: id, Role: domain.RoleCustomer}
}

func requireRejection(t *testing.T, err error, reason domain.RejectionReason) *domain.BidRejectedError {
	t.Helper()
	rejection, ok := domain.AsRejection(err)
	require.True(t, ok, "expected a rejection, got %v", err)
	assert.Equal(t, reason, rejection.Reason)
	return rejection
}

func TestValidateAccepts(t *testing.T) {
	v := NewBidValidator()
	item := validationItem()

	err := v.Validate(
		ProposedBid{ItemID: item.ID, CustomerID: "cust-1", Amount: decimal.NewFromInt(105)},
		item, domain.PhaseActive, item.StartingPrice, customer("cust-1"))
	assert.NoError(t, err)
}

func TestValidateRejectionReasons(t *testing.T) {
	v := NewBidValidator()
	item := validationItem()
	floor := item.StartingPrice
	amount := decimal.NewFromInt(105)

	t.Run("not authenticated", func(t *testing.T) {
		err := v.Validate(ProposedBid{ItemID: item.ID, CustomerID: "cust-1", Amount: amount},
			item, domain.PhaseActive, floor, nil)
		requireRejection(t, err, domain.RejectNotAuthenticated)
	})

	t.Run("phase not active", func(t *testing.T) {
		err := v.Validate(ProposedBid{ItemID: item.ID, CustomerID: "cust-1", Amount: amount},
			item, domain.PhaseNotStarted, floor, customer("cust-1"))
		requireRejection(t, err, domain.RejectPhaseNotActive)

		err = v.Validate(ProposedBid{ItemID: item.ID, CustomerID: "cust-1", Amount: amount},
			item, domain.PhaseEnded, floor, customer("cust-1"))
		requireRejection(t, err, domain.RejectPhaseNotActive)
	})

	t.Run("self bid", func(t *testing.T) {
		seller := &domain.Identity{ID: "seller-1", Role: domain.RoleSeller}
		err := v.Validate(ProposedBid{ItemID: item.ID, CustomerID: "seller-1", Amount: amount},
			item, domain.PhaseActive, floor, seller)
		requireRejection(t, err, domain.RejectSelfBid)
	})

	t.Run("forbidden role", func(t *testing.T) {
		admin := &domain.Identity{ID: "admin-1", Role: domain.RoleAdmin}
		err := v.Validate(ProposedBid{ItemID: item.ID, CustomerID: "admin-1", Amount: amount},
			item, domain.PhaseActive, floor, admin)
		requireRejection(t, err, domain.RejectForbiddenRole)
	})

	t.Run("impersonation attempt", func(t *testing.T) {
		err := v.Validate(ProposedBid{ItemID: item.ID, CustomerID: "somebody-else", Amount: amount},
			item, domain.PhaseActive, floor, customer("cust-1"))
		requireRejection(t, err, domain.RejectImpersonationAttempt)
	})

	t.Run("bid too low reports exact minimum", func(t *testing.T) {
		err := v.Validate(ProposedBid{ItemID: item.ID, CustomerID: "cust-1", Amount: decimal.NewFromInt(104)},
			item, domain.PhaseActive, floor, customer("cust-1"))
		rejection := requireRejection(t, err, domain.RejectBidTooLow)
		assert.True(t, rejection.MinimumNextBid.Equal(decimal.NewFromInt(105)),
			"minimum must be floor + increment, got %s", rejection.MinimumNextBid)
	})
}

// The first matching reason wins: a request that violates several rules must
// always report the earliest one in the evaluation order.
func TestValidateReasonOrder(t *testing.T) {
	v := NewBidValidator()
	item := validationItem()
	low := decimal.NewFromInt(1)

	// Unauthenticated beats everything, including a closed phase.
	err := v.Validate(ProposedBid{ItemID: item.ID, CustomerID: "x", Amount: low},
		item, domain.PhaseEnded, item.StartingPrice, nil)
	requireRejection(t, err, domain.RejectNotAuthenticated)

	// Phase beats self-bid: the seller bidding on a not-started item.
	seller := &domain.Identity{ID: "seller-1", Role: domain.RoleSeller}
	err = v.Validate(ProposedBid{ItemID: item.ID, CustomerID: "seller-1", Amount: low},
		item, domain.PhaseNotStarted, item.StartingPrice, seller)
	requireRejection(t, err, domain.RejectPhaseNotActive)

	// Self-bid beats the amount check.
	err = v.Validate(ProposedBid{ItemID: item.ID, CustomerID: "seller-1", Amount: low},
		item, domain.PhaseActive, item.StartingPrice, seller)
	requireRejection(t, err, domain.RejectSelfBid)

	// Impersonation beats the amount check.
	err = v.Validate(ProposedBid{ItemID: item.ID, CustomerID: "mark", Amount: low},
		item, domain.PhaseActive, item.StartingPrice, customer("cust-1"))
	requireRejection(t, err, domain.RejectImpersonationAttempt)
}

// A low bid is rejected with PhaseNotActive, not BidTooLow, when the auction
// is closed: the amount is never consulted outside the active phase.
func TestValidatePhaseBeforeAmount(t *testing.T) {
	v := NewBidValidator()
	item := validationItem()

	err := v.Validate(ProposedBid{ItemID: item.ID, CustomerID: "cust-1", Amount: decimal.NewFromInt(1000000)},
		item, domain.PhaseNotStarted, item.StartingPrice, customer("cust-1"))
	requireRejection(t, err, domain.RejectPhaseNotActive)
}

// The increment comes from the item, never a hardcoded step of one.
func TestValidateUsesConfiguredIncrement(t *testing.T) {
	v := NewBidValidator()
	item := validationItem()
	item.BidIncrement = decimal.NewFromInt(25)

	err := v.Validate(ProposedBid{ItemID: item.ID, CustomerID: "cust-1", Amount: decimal.NewFromInt(101)},
		item, domain.PhaseActive, item.StartingPrice, customer("cust-1"))
	rejection := requireRejection(t, err, domain.RejectBidTooLow)
	assert.True(t, rejection.MinimumNextBid.Equal(decimal.NewFromInt(125)))

	err = v.Validate(ProposedBid{ItemID: item.ID, CustomerID: "cust-1", Amount: decimal.NewFromInt(125)},
		item, domain.PhaseActive, item.StartingPrice, customer("cust-1"))
	assert.NoError(t, err)
}
