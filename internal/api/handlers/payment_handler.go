package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"
)

type PaymentHandler struct {
	payments *services.PaymentService
	log      logger.Logger
}

func NewPaymentHandler(payments *services.PaymentService, log logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		payments: payments,
		log:      log,
	}
}

type CreatePaymentRequest struct {
	BidID string `json:"bid_id"`
}

func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	payment, err := h.payments.CreatePayment(c.Request().Context(), req.BidID, callerIdentity(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPaymentNotAuthd):
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		case errors.Is(err, services.ErrNotBidOwner):
			return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
		case errors.Is(err, services.ErrNotWinningBid):
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.Is(err, services.ErrAlreadyPaid):
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrBidNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		h.log.Error("Failed to create payment", "bid_id", req.BidID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create payment"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"payment_id":       payment.ID,
		"bid_id":           payment.BidID,
		"amount":           payment.Amount,
		"status":           string(payment.Status),
		"transaction_time": payment.TransactionTime,
	})
}
