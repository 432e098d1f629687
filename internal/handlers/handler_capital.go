package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kopesha/lending-backend/internal/apperrors"
	portssvc "github.com/kopesha/lending-backend/internal/core/ports/services"
	"github.com/kopesha/lending-backend/internal/core/services"
	"github.com/kopesha/lending-backend/internal/dto"
	"github.com/kopesha/lending-backend/internal/middleware"
)

// capitalHandler handles HTTP requests related to the capital pool.
type capitalHandler struct {
	disbursementService portssvc.DisbursementSvcFacade
}

// newCapitalHandler creates a new capitalHandler.
func newCapitalHandler(ds portssvc.DisbursementSvcFacade) *capitalHandler {
	return &capitalHandler{disbursementService: ds}
}

// registerCapitalRoutes registers routes related to the capital pool.
func registerCapitalRoutes(rg *gin.RouterGroup, disbursementService portssvc.DisbursementSvcFacade) {
	h := newCapitalHandler(disbursementService)

	capital := rg.Group("/capital")
	{
		capital.GET("", h.getCapitalAccount)
		capital.GET("/ledger", h.listLedgerEntries)
		capital.POST("/adjustments", h.adjustCapital)
	}
}

func (h *capitalHandler) getCapitalAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	account, err := h.disbursementService.GetCapitalAccount(c.Request.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Capital account not provisioned"})
		} else {
			logger.Error("Failed to get capital account from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve capital account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCapitalAccountResponse(account))
}

func (h *capitalHandler) listLedgerEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListLedgerEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.disbursementService.ListLedgerEntries(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list ledger entries from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ledger entries"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *capitalHandler) adjustCapital(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AdjustCapitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AdjustCapital", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		logger.Error("Staff ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("staff_id", staffID), slog.String("amount", req.Amount.String()))
	logger.Info("Received request to adjust capital")

	account, err := h.disbursementService.AdjustCapital(c.Request.Context(), req, staffID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAdjustmentZero):
			logger.Warn("Zero capital adjustment rejected")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInsufficientCapital), errors.Is(err, services.ErrBalanceWouldGoBelow):
			logger.Warn("Capital adjustment would make the balance negative", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrLockTimeout):
			logger.Warn("Lock wait timed out adjusting capital", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Capital adjustment is busy, retry shortly"})
		default:
			logger.Error("Failed to adjust capital", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to adjust capital"})
		}
		return
	}

	logger.Info("Capital adjusted successfully", slog.String("balance", account.Balance.String()))
	c.JSON(http.StatusOK, dto.ToCapitalAccountResponse(account))
}
