package domain

import "time"

// PhaseFor computes the auction lifecycle phase of an item at a given instant.
// Pure and deterministic: identical inputs always produce identical results.
//
// An unapproved item is always not-started regardless of its timestamps. An
// item with no start time has nothing to run. The end bound is half-open:
// the auction is over the moment now reaches EndTime.
func PhaseFor(item *Item, now time.Time) AuctionPhase {
	if item.Status != ItemApproved {
		return PhaseNotStarted
	}
	if item.StartTime == nil || now.Before(*item.StartTime) {
		return PhaseNotStarted
	}
	if item.EndTime != nil && !now.Before(*item.EndTime) {
		return PhaseEnded
	}
	return PhaseActive
}

// EffectivePhase combines the clock with the stored phase. Ended is terminal:
// once an item is stored as ended it stays ended even if its timestamps or
// approval are edited afterwards, so resolved winners cannot be reopened.
func EffectivePhase(item *Item, now time.Time) AuctionPhase {
	if item.AuctionPhase == PhaseEnded {
		return PhaseEnded
	}
	return PhaseFor(item, now)
}
