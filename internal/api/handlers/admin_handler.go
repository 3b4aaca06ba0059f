package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"auction-marketplace/internal/domain"
	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"
)

// AdminHandler exposes the approval workflow and the on-demand sweep.
type AdminHandler struct {
	lifecycle *services.AuctionLifecycle
	log       logger.Logger
}

func NewAdminHandler(lifecycle *services.AuctionLifecycle, log logger.Logger) *AdminHandler {
	return &AdminHandler{
		lifecycle: lifecycle,
		log:       log,
	}
}

type SetApprovalRequest struct {
	Approved bool   `json:"approved"`
	AdminID  string `json:"admin_id"`
}

func (h *AdminHandler) SetApproval(c echo.Context) error {
	itemID := c.Param("id")

	var req SetApprovalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	err := h.lifecycle.SetApproval(c.Request().Context(), itemID, req.Approved, req.AdminID, callerIdentity(c))
	if err != nil {
		if rejection, ok := domain.AsRejection(err); ok {
			return c.JSON(http.StatusForbidden, map[string]string{"error": string(rejection.Reason)})
		}
		if errors.Is(err, domain.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		h.log.Error("Failed to set approval", "item_id", itemID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to set approval"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"item_id":  itemID,
		"approved": req.Approved,
	})
}

// RunSweep triggers an immediate phase sweep, the same operation the cron
// schedule runs periodically.
func (h *AdminHandler) RunSweep(c echo.Context) error {
	caller := callerIdentity(c)
	if caller == nil || caller.Role != domain.RoleAdmin {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Only admins can run a sweep"})
	}

	count, err := h.lifecycle.SweepPhases(c.Request().Context())
	if err != nil {
		// Per-item failures are isolated; report what transitioned anyway.
		h.log.Error("Sweep completed with failures", "transitioned", count, "error", err)
		return c.JSON(http.StatusOK, map[string]interface{}{
			"transitioned": count,
			"partial":      true,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"transitioned": count,
	})
}
