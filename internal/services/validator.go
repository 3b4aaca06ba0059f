package services

import (
	"github.com/shopspring/decimal"

	"auction-marketplace/internal/domain"
)

// BidValidator is the pure accept/reject decision for one bid attempt. It
// holds no state and never blocks; the admission coordinator supplies the
// current phase and floor under the per-item lock.
type BidValidator struct{}

func NewBidValidator() *BidValidator {
	return &BidValidator{}
}

// ProposedBid is the caller's declared bid. CustomerID may differ from the
// authenticated identity, which is itself a rejection.
type ProposedBid struct {
	ItemID     string
	CustomerID string
	Amount     decimal.Decimal
}

// Validate checks the proposed bid against the item, its current phase and
// the effective floor. The reasons are evaluated in a fixed order and the
// first match wins, so error reporting is deterministic.
func (v *BidValidator) Validate(
	proposed ProposedBid,
	item *domain.Item,
	phase domain.AuctionPhase,
	floor decimal.Decimal,
	bidder *domain.Identity,
) error {
	if bidder == nil || bidder.ID == "" {
		return &domain.BidRejectedError{Reason: domain.RejectNotAuthenticated}
	}

	if phase != domain.PhaseActive {
		return &domain.BidRejectedError{Reason: domain.RejectPhaseNotActive}
	}

	if bidder.ID == item.SellerID {
		return &domain.BidRejectedError{Reason: domain.RejectSelfBid}
	}

	if bidder.Role != domain.RoleCustomer && bidder.Role != domain.RoleSeller {
		return &domain.BidRejectedError{Reason: domain.RejectForbiddenRole}
	}

	if proposed.CustomerID != bidder.ID {
		return &domain.BidRejectedError{Reason: domain.RejectImpersonationAttempt}
	}

	minNextBid := floor.Add(item.BidIncrement)
	if proposed.Amount.LessThan(minNextBid) {
		return &domain.BidRejectedError{
			Reason:         domain.RejectBidTooLow,
			MinimumNextBid: minNextBid,
		}
	}

	return nil
}
