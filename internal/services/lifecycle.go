package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auction-marketplace/internal/clock"
	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
)

// AuctionLifecycle owns the per-item phase and its transition rules. Phases
// move forward only: NotStarted -> Active -> Ended, and Ended is terminal.
type AuctionLifecycle struct {
	items       domain.ItemRepository
	transitions domain.TransitionLog
	eventPub    domain.EventPublisher
	clk         clock.Clock
	log         logger.Logger
}

func NewAuctionLifecycle(
	items domain.ItemRepository,
	transitions domain.TransitionLog,
	eventPub domain.EventPublisher,
	clk clock.Clock,
	log logger.Logger,
) *AuctionLifecycle {
	return &AuctionLifecycle{
		items:       items,
		transitions: transitions,
		eventPub:    eventPub,
		clk:         clk,
		log:         log,
	}
}

// SweepPhases walks every item, computes the clock phase and applies
// forward-only transitions. A failure on one item does not abort the rest of
// the batch; the count of applied transitions is returned either way.
func (lc *AuctionLifecycle) SweepPhases(ctx context.Context) (int, error) {
	items, err := lc.items.ListItems(ctx)
	if err != nil {
		return 0, &domain.CollaboratorError{Collaborator: "catalog", Err: err}
	}

	now := lc.clk.Now()
	transitioned := 0
	var failed []string

	for _, item := range items {
		applied, err := lc.advance(ctx, item, now)
		if err != nil {
			lc.log.Error("Phase sweep failed for item", "item_id", item.ID, "error", err)
			failed = append(failed, item.ID)
			continue
		}
		if applied {
			transitioned++
		}
	}

	if len(failed) > 0 {
		return transitioned, fmt.Errorf("phase sweep failed for %d of %d items: %v", len(failed), len(items), failed)
	}
	return transitioned, nil
}

// advance applies at most one forward transition for the item. Never
// downgrades: once stored as Ended the item stays Ended, even if its clock
// inputs were edited after the fact.
func (lc *AuctionLifecycle) advance(ctx context.Context, item *domain.Item, now time.Time) (bool, error) {
	if item.AuctionPhase == domain.PhaseEnded {
		return false, nil
	}

	target := domain.PhaseFor(item, now)
	if target <= item.AuctionPhase {
		return false, nil
	}

	if err := lc.items.UpdateAuctionPhase(ctx, item.ID, target); err != nil {
		return false, &domain.CollaboratorError{Collaborator: "catalog", Err: err}
	}

	if err := lc.transitions.RecordTransition(ctx, item.ID, item.AuctionPhase, target, now); err != nil {
		lc.log.Warn("Failed to record phase transition", "item_id", item.ID, "error", err)
	}

	lc.log.Info("Auction phase transitioned",
		"item_id", item.ID, "from", item.AuctionPhase.String(), "to", target.String())

	if target == domain.PhaseEnded {
		if err := lc.eventPub.PublishBidEvent(ctx, &domain.BidEvent{
			Type:      domain.AuctionEnded,
			ItemID:    item.ID,
			Timestamp: now,
		}); err != nil {
			lc.log.Warn("Failed to publish auction ended event", "item_id", item.ID, "error", err)
		}
	}

	item.AuctionPhase = target
	return true, nil
}

// SetApproval is invoked by the approval workflow. Approval recomputes the
// phase immediately instead of waiting for the next sweep, so an already-due
// item becomes active the instant it is approved. Rejection clears the
// approval audit fields. Only an admin caller may change approval.
func (lc *AuctionLifecycle) SetApproval(ctx context.Context, itemID string, approved bool, adminID string, caller *domain.Identity) error {
	if caller == nil || caller.Role != domain.RoleAdmin {
		return &domain.BidRejectedError{Reason: domain.RejectForbiddenRole}
	}

	item, err := lc.items.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return err
		}
		return &domain.CollaboratorError{Collaborator: "catalog", Err: err}
	}

	now := lc.clk.Now()
	if approved {
		item.Status = domain.ItemApproved
		item.ApprovedAt = &now
		item.AdminID = adminID
	} else {
		item.Status = domain.ItemRejected
		item.ApprovedAt = nil
		item.AdminID = ""
	}

	if err := lc.items.UpdateApproval(ctx, itemID, item.Status, item.ApprovedAt, item.AdminID); err != nil {
		return &domain.CollaboratorError{Collaborator: "catalog", Err: err}
	}

	// An active item may only stay active while approved. Revoking approval
	// pulls it back to not-started; an ended item is never reopened.
	if !approved && item.AuctionPhase == domain.PhaseActive {
		if err := lc.items.UpdateAuctionPhase(ctx, itemID, domain.PhaseNotStarted); err != nil {
			return &domain.CollaboratorError{Collaborator: "catalog", Err: err}
		}
		if err := lc.transitions.RecordTransition(ctx, itemID, item.AuctionPhase, domain.PhaseNotStarted, now); err != nil {
			lc.log.Warn("Failed to record phase transition", "item_id", itemID, "error", err)
		}
		item.AuctionPhase = domain.PhaseNotStarted
		return nil
	}

	_, err = lc.advance(ctx, item, now)
	return err
}
