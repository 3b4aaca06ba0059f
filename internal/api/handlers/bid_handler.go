package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"
)

type BidHandler struct {
	bidding  *services.BiddingService
	ledger   *services.BidLedger
	resolver *services.WinnerResolver
	log      logger.Logger
}

func NewBidHandler(
	bidding *services.BiddingService,
	ledger *services.BidLedger,
	resolver *services.WinnerResolver,
	log logger.Logger,
) *BidHandler {
	return &BidHandler{
		bidding:  bidding,
		ledger:   ledger,
		resolver: resolver,
		log:      log,
	}
}

type PlaceBidRequest struct {
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type BidResponse struct {
	BidID      string          `json:"bid_id"`
	ItemID     string          `json:"item_id"`
	CustomerID string          `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	BidTime    time.Time       `json:"bid_time"`
}

type RejectionResponse struct {
	Reason         string           `json:"reason"`
	MinimumNextBid *decimal.Decimal `json:"minimum_next_bid,omitempty"`
}

func (h *BidHandler) PlaceBid(c echo.Context) error {
	itemID := c.Param("id")

	var req PlaceBidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	bid, err := h.bidding.PlaceBid(c.Request().Context(), services.ProposedBid{
		ItemID:     itemID,
		CustomerID: req.CustomerID,
		Amount:     req.Amount,
	}, callerIdentity(c))
	if err != nil {
		return h.writeBidError(c, err)
	}

	return c.JSON(http.StatusCreated, BidResponse{
		BidID:      bid.ID,
		ItemID:     bid.ItemID,
		CustomerID: bid.CustomerID,
		Amount:     bid.Amount,
		BidTime:    bid.BidTime,
	})
}

func (h *BidHandler) ListBids(c echo.Context) error {
	itemID := c.Param("id")
	customerID := c.QueryParam("customer_id")

	bids, err := h.ledger.AllBids(c.Request().Context(), itemID)
	if err != nil {
		return h.writeBidError(c, err)
	}

	response := make([]BidResponse, 0, len(bids))
	for _, bid := range bids {
		if customerID != "" && bid.CustomerID != customerID {
			continue
		}
		response = append(response, BidResponse{
			BidID:      bid.ID,
			ItemID:     bid.ItemID,
			CustomerID: bid.CustomerID,
			Amount:     bid.Amount,
			BidTime:    bid.BidTime,
		})
	}

	return c.JSON(http.StatusOK, response)
}

type HighBidResponse struct {
	ItemID  string          `json:"item_id"`
	Amount  decimal.Decimal `json:"amount"`
	HasBids bool            `json:"has_bids"`
	Bid     *BidResponse    `json:"bid,omitempty"`
}

// HighBid is the cheap status read for live auction pages: it goes through
// the cache, not the admission lock, and may trail a concurrent bid by one
// write.
func (h *BidHandler) HighBid(c echo.Context) error {
	itemID := c.Param("id")

	bid, amount, err := h.bidding.HighBid(c.Request().Context(), itemID)
	if err != nil {
		return h.writeBidError(c, err)
	}

	response := HighBidResponse{
		ItemID:  itemID,
		Amount:  amount,
		HasBids: bid != nil,
	}
	if bid != nil {
		response.Bid = &BidResponse{
			BidID:      bid.ID,
			ItemID:     bid.ItemID,
			CustomerID: bid.CustomerID,
			Amount:     bid.Amount,
			BidTime:    bid.BidTime,
		}
	}

	return c.JSON(http.StatusOK, response)
}

type WinnerResponse struct {
	ItemID   string       `json:"item_id"`
	Decided  bool         `json:"decided"`
	Sold     bool         `json:"sold"`
	WinnerID string       `json:"winner_id,omitempty"`
	Bid      *BidResponse `json:"bid,omitempty"`
}

func (h *BidHandler) GetWinner(c echo.Context) error {
	itemID := c.Param("id")

	outcome, err := h.resolver.Resolve(c.Request().Context(), itemID)
	if err != nil {
		return h.writeBidError(c, err)
	}

	response := WinnerResponse{
		ItemID:   outcome.ItemID,
		Decided:  outcome.Decided,
		Sold:     outcome.Sold,
		WinnerID: outcome.WinnerID,
	}
	if outcome.WinningBid != nil {
		response.Bid = &BidResponse{
			BidID:      outcome.WinningBid.ID,
			ItemID:     outcome.WinningBid.ItemID,
			CustomerID: outcome.WinningBid.CustomerID,
			Amount:     outcome.WinningBid.Amount,
			BidTime:    outcome.WinningBid.BidTime,
		}
	}

	return c.JSON(http.StatusOK, response)
}

func (h *BidHandler) IsWinner(c echo.Context) error {
	itemID := c.Param("id")
	userID := c.Param("userID")

	won, err := h.resolver.IsWinner(c.Request().Context(), itemID, userID)
	if err != nil {
		return h.writeBidError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"item_id":   itemID,
		"user_id":   userID,
		"is_winner": won,
	})
}

func (h *BidHandler) writeBidError(c echo.Context, err error) error {
	if rejection, ok := domain.AsRejection(err); ok {
		response := RejectionResponse{Reason: string(rejection.Reason)}
		if rejection.Reason == domain.RejectBidTooLow {
			min := rejection.MinimumNextBid
			response.MinimumNextBid = &min
		}
		return c.JSON(http.StatusUnprocessableEntity, response)
	}

	switch {
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrBidNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrOrderingViolation):
		// Internal invariant failure: never expose the detail.
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
	}

	var collab *domain.CollaboratorError
	if errors.As(err, &collab) {
		h.log.Error("Collaborator failure", "collaborator", collab.Collaborator, "error", collab.Err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Temporarily unavailable, retry later"})
	}

	h.log.Error("Unhandled bid endpoint error", "error", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
}
