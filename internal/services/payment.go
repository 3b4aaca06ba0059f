package services

import (
	"context"
	"errors"

	"auction-marketplace/internal/clock"
	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"
)

// PaymentService materializes the winning outcome of an ended auction as an
// immutable payment record. The bidding engine itself never creates payments;
// this runs after the resolver reports a winner.
type PaymentService struct {
	payments domain.PaymentRepository
	bids     domain.BidRepository
	resolver *WinnerResolver
	clk      clock.Clock
	log      logger.Logger
}

func NewPaymentService(
	payments domain.PaymentRepository,
	bids domain.BidRepository,
	resolver *WinnerResolver,
	clk clock.Clock,
	log logger.Logger,
) *PaymentService {
	return &PaymentService{
		payments: payments,
		bids:     bids,
		resolver: resolver,
		clk:      clk,
		log:      log,
	}
}

var (
	ErrNotWinningBid   = errors.New("payment allowed only for the winning bid of an ended auction")
	ErrNotBidOwner     = errors.New("only the winning customer can pay for a bid")
	ErrAlreadyPaid     = errors.New("bid has already been paid")
	ErrPaymentNotAuthd = errors.New("payment requires an authenticated caller")
)

// CreatePayment settles the winning bid. Preconditions: the caller is the
// bid's customer, the auction has ended, the bid actually won, and no payment
// exists for it yet.
func (s *PaymentService) CreatePayment(ctx context.Context, bidID string, caller *domain.Identity) (*domain.Payment, error) {
	if caller == nil || caller.ID == "" {
		return nil, ErrPaymentNotAuthd
	}

	bid, err := s.bids.GetBid(ctx, bidID)
	if err != nil {
		if errors.Is(err, domain.ErrBidNotFound) {
			return nil, err
		}
		return nil, &domain.CollaboratorError{Collaborator: "persistence", Err: err}
	}

	if bid.CustomerID != caller.ID {
		return nil, ErrNotBidOwner
	}

	outcome, err := s.resolver.Resolve(ctx, bid.ItemID)
	if err != nil {
		return nil, err
	}
	if !outcome.Sold || outcome.WinningBid.ID != bid.ID {
		return nil, ErrNotWinningBid
	}

	existing, err := s.payments.GetPaymentByBid(ctx, bidID)
	if err != nil && !errors.Is(err, domain.ErrPaymentNotFound) {
		return nil, &domain.CollaboratorError{Collaborator: "persistence", Err: err}
	}
	if existing != nil {
		return nil, ErrAlreadyPaid
	}

	payment := &domain.Payment{
		ID:              utils.GenerateID("payment"),
		BidID:           bid.ID,
		CustomerID:      bid.CustomerID,
		SellerID:        bid.SellerID,
		Amount:          bid.Amount,
		Status:          domain.PaymentPending,
		TransactionTime: s.clk.Now(),
	}

	if err := s.payments.CreatePayment(ctx, payment); err != nil {
		return nil, &domain.CollaboratorError{Collaborator: "persistence", Err: err}
	}

	s.log.Info("Payment created",
		"payment_id", payment.ID, "bid_id", bid.ID, "amount", payment.Amount.String())
	return payment, nil
}
