package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auction-marketplace/internal/clock"
	"auction-marketplace/internal/domain"
	"auction-marketplace/pkg/logger"
)

func newPaymentFixture(items *fakeItemRepo, bids *fakeBidRepo) (*PaymentService, *fakePaymentRepo) {
	payments := newFakePaymentRepo()
	ledger := NewBidLedger(bids, newFakeHighBidCache(), logger.NewNop())
	resolver := NewWinnerResolver(items, ledger, clock.NewFixed(resolveNow))
	service := NewPaymentService(payments, bids, resolver, clock.NewFixed(resolveNow), logger.NewNop())
	return service, payments
}

func paymentLedger(t *testing.T) (*fakeItemRepo, *fakeBidRepo) {
	t.Helper()
	items := newFakeItemRepo(endedItem("item-1"))
	bids := newFakeBidRepo()
	bids.seed("item-1",
		winnerBid("bid-1", "item-1", "alice", 105, resolveNow.Add(-90*time.Minute)),
		winnerBid("bid-2", "item-1", "bob", 110, resolveNow.Add(-80*time.Minute)),
	)
	return items, bids
}

func TestCreatePaymentForWinningBid(t *testing.T) {
	service, repo := newPaymentFixture(paymentLedger(t))
	bob := customer("bob")

	payment, err := service.CreatePayment(context.Background(), "bid-2", bob)
	require.NoError(t, err)
	assert.Equal(t, "bid-2", payment.BidID)
	assert.Equal(t, "bob", payment.CustomerID)
	assert.Equal(t, "seller-1", payment.SellerID)
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(110)))
	assert.Equal(t, domain.PaymentPending, payment.Status)

	stored, err := repo.GetPaymentByBid(context.Background(), "bid-2")
	require.NoError(t, err)
	assert.Equal(t, payment.ID, stored.ID)
}

func TestCreatePaymentRejectsLosingBid(t *testing.T) {
	service, _ := newPaymentFixture(paymentLedger(t))

	_, err := service.CreatePayment(context.Background(), "bid-1", customer("alice"))
	assert.ErrorIs(t, err, ErrNotWinningBid)
}

func TestCreatePaymentRejectsWrongCaller(t *testing.T) {
	service, _ := newPaymentFixture(paymentLedger(t))

	_, err := service.CreatePayment(context.Background(), "bid-2", customer("alice"))
	assert.ErrorIs(t, err, ErrNotBidOwner)

	_, err = service.CreatePayment(context.Background(), "bid-2", nil)
	assert.ErrorIs(t, err, ErrPaymentNotAuthd)
}

func TestCreatePaymentRejectsDoublePayment(t *testing.T) {
	service, _ := newPaymentFixture(paymentLedger(t))
	bob := customer("bob")

	_, err := service.CreatePayment(context.Background(), "bid-2", bob)
	require.NoError(t, err)

	_, err = service.CreatePayment(context.Background(), "bid-2", bob)
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestCreatePaymentRequiresEndedAuction(t *testing.T) {
	start := resolveNow.Add(-time.Hour)
	end := resolveNow.Add(time.Hour)
	items := newFakeItemRepo(
		lifecycleItem("item-1", domain.ItemApproved, domain.PhaseActive, &start, &end),
	)
	bids := newFakeBidRepo()
	bids.seed("item-1", winnerBid("bid-1", "item-1", "alice", 105, resolveNow.Add(-time.Minute)))

	service, _ := newPaymentFixture(items, bids)

	_, err := service.CreatePayment(context.Background(), "bid-1", customer("alice"))
	assert.ErrorIs(t, err, ErrNotWinningBid, "an open auction has no payable winner yet")
}

func TestCreatePaymentUnknownBid(t *testing.T) {
	service, _ := newPaymentFixture(newFakeItemRepo(), newFakeBidRepo())

	_, err := service.CreatePayment(context.Background(), "ghost", customer("alice"))
	assert.ErrorIs(t, err, domain.ErrBidNotFound)
}
