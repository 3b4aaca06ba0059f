package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrItemNotFound    = errors.New("item not found")
	ErrBidNotFound     = errors.New("bid not found")
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrOrderingViolation means an append would break the strictly increasing
	// ledger. The validator prevents this under correct locking, so hitting it
	// indicates a bug in the admission path.
	ErrOrderingViolation = errors.New("bid ledger ordering violation")
)

// RejectionReason identifies why a bid was refused. These are user-facing and
// never treated as system faults.
type RejectionReason string

const (
	RejectNotAuthenticated     RejectionReason = "not_authenticated"
	RejectPhaseNotActive       RejectionReason = "phase_not_active"
	RejectSelfBid              RejectionReason = "self_bid"
	RejectForbiddenRole        RejectionReason = "forbidden_role"
	RejectImpersonationAttempt RejectionReason = "impersonation_attempt"
	RejectBidTooLow            RejectionReason = "bid_too_low"
)

// BidRejectedError is returned by the validator and propagated unchanged by
// the admission coordinator. MinimumNextBid is set only for RejectBidTooLow.
type BidRejectedError struct {
	Reason         RejectionReason
	MinimumNextBid decimal.Decimal
}

func (e *BidRejectedError) Error() string {
	if e.Reason == RejectBidTooLow {
		return fmt.Sprintf("bid rejected: %s, minimum next bid is %s", e.Reason, e.MinimumNextBid)
	}
	return fmt.Sprintf("bid rejected: %s", e.Reason)
}

// AsRejection unwraps err into a BidRejectedError if it is one.
func AsRejection(err error) (*BidRejectedError, bool) {
	var rej *BidRejectedError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// CollaboratorError wraps a catalog, persistence or cache failure so callers
// can distinguish a transient fault from a rejection.
type CollaboratorError struct {
	Collaborator string
	Err          error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s collaborator failure: %v", e.Collaborator, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}
