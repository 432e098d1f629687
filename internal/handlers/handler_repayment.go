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

// repaymentHandler handles HTTP requests related to repayments.
type repaymentHandler struct {
	repaymentService portssvc.RepaymentSvcFacade
}

// newRepaymentHandler creates a new repaymentHandler.
func newRepaymentHandler(rs portssvc.RepaymentSvcFacade) *repaymentHandler {
	return &repaymentHandler{repaymentService: rs}
}

// registerRepaymentRoutes registers routes related to repayments.
func registerRepaymentRoutes(rg *gin.RouterGroup, repaymentService portssvc.RepaymentSvcFacade) {
	h := newRepaymentHandler(repaymentService)

	loans := rg.Group("/loans")
	{
		loans.POST("/:id/repayments", h.recordRepayment)
		loans.GET("/:id/repayments", h.listRepayments)
	}
}

func (h *repaymentHandler) recordRepayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("id")

	var req dto.RecordRepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordRepayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		logger.Error("Staff ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("loan_id", loanID), slog.String("staff_id", staffID), slog.String("reference_code", req.ReferenceCode))
	logger.Info("Received request to record repayment")

	repayment, err := h.repaymentService.RecordRepayment(c.Request.Context(), loanID, req.Amount, req.PaymentMethod, req.ReferenceCode, staffID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		case errors.Is(err, apperrors.ErrDuplicateReference):
			logger.Warn("Duplicate repayment reference code", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAmountNotPositive), errors.Is(err, services.ErrReferenceMissing):
			logger.Warn("Validation error recording repayment", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrLoanNotRepayable):
			logger.Warn("Loan does not accept repayments", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrLockTimeout):
			logger.Warn("Lock wait timed out recording repayment", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Repayment recording is busy, retry shortly"})
		default:
			logger.Error("Failed to record repayment", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record repayment"})
		}
		return
	}

	logger.Info("Repayment recorded successfully", slog.String("repayment_id", repayment.RepaymentID))
	c.JSON(http.StatusCreated, dto.ToRepaymentResponse(repayment))
}

func (h *repaymentHandler) listRepayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("id")

	repayments, err := h.repaymentService.ListRepaymentsByLoan(c.Request.Context(), loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		} else {
			logger.Error("Failed to list repayments from service", slog.String("loan_id", loanID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list repayments"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRepaymentResponses(repayments))
}
