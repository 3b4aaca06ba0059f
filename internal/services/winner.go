package services

import (
	"context"
	"errors"

	"auction-marketplace/internal/clock"
	"auction-marketplace/internal/domain"
)

// WinnerResolver determines the winning bid of a closed auction. It is a
// read-only projection and never mutates state.
type WinnerResolver struct {
	items  domain.ItemRepository
	ledger *BidLedger
	clk    clock.Clock
}

func NewWinnerResolver(items domain.ItemRepository, ledger *BidLedger, clk clock.Clock) *WinnerResolver {
	return &WinnerResolver{
		items:  items,
		ledger: ledger,
		clk:    clk,
	}
}

// Resolve returns the winning outcome for an item. An auction that has not
// ended yet yields an undecided outcome, not an error. An ended auction with
// an empty ledger is unsold.
func (r *WinnerResolver) Resolve(ctx context.Context, itemID string) (domain.WinningOutcome, error) {
	item, err := r.items.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return domain.WinningOutcome{}, err
		}
		return domain.WinningOutcome{}, &domain.CollaboratorError{Collaborator: "catalog", Err: err}
	}

	outcome := domain.WinningOutcome{ItemID: itemID}
	if domain.EffectivePhase(item, r.clk.Now()) != domain.PhaseEnded {
		return outcome, nil
	}
	outcome.Decided = true

	bids, err := r.ledger.AllBids(ctx, itemID)
	if err != nil {
		return domain.WinningOutcome{}, err
	}
	if len(bids) == 0 {
		return outcome, nil
	}

	// The monotonic ledger makes the last bid the maximum, so scanning for
	// the max is normally redundant. It matters only if an administrative
	// deletion ever broke monotonicity: strictly-greater comparison keeps the
	// earliest bid on a tie.
	winning := bids[0]
	for _, bid := range bids[1:] {
		if bid.Amount.GreaterThan(winning.Amount) {
			winning = bid
		}
	}

	outcome.Sold = true
	outcome.WinningBid = winning
	outcome.WinnerID = winning.CustomerID
	return outcome, nil
}

// IsWinner reports whether userID won the item's auction.
func (r *WinnerResolver) IsWinner(ctx context.Context, itemID, userID string) (bool, error) {
	outcome, err := r.Resolve(ctx, itemID)
	if err != nil {
		return false, err
	}
	return outcome.Sold && outcome.WinnerID == userID, nil
}
