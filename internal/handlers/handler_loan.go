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

// loanHandler handles HTTP requests related to loans.
type loanHandler struct {
	loanService         portssvc.LoanSvcFacade
	disbursementService portssvc.DisbursementSvcFacade
}

// newLoanHandler creates a new loanHandler.
func newLoanHandler(ls portssvc.LoanSvcFacade, ds portssvc.DisbursementSvcFacade) *loanHandler {
	return &loanHandler{
		loanService:         ls,
		disbursementService: ds,
	}
}

// registerLoanRoutes registers routes related to loans.
func registerLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade, disbursementService portssvc.DisbursementSvcFacade) {
	h := newLoanHandler(loanService, disbursementService)

	loans := rg.Group("/loans")
	{
		loans.POST("", h.createLoan)
		loans.GET("", h.listLoans)
		loans.GET("/:id", h.getLoan)
		loans.GET("/:id/summary", h.getLoanSummary)
		loans.GET("/:id/activities", h.listActivities)
		loans.GET("/:id/schedule", h.listSchedule)
		loans.POST("/:id/verify", h.verifyLoan)
		loans.POST("/:id/approve", h.approveLoan)
		loans.POST("/:id/reject", h.rejectLoan)
		loans.POST("/:id/default", h.markDefaulted)
		loans.POST("/:id/disburse", h.disburseLoan)
	}
}

func (h *loanHandler) createLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateLoan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		logger.Error("Staff ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("staff_id", staffID), slog.String("customer_id", req.CustomerID))
	logger.Info("Received request to create loan")

	loan, err := h.loanService.CreateLoan(c.Request.Context(), req, staffID)
	if err != nil {
		if errors.Is(err, services.ErrCustomerMissing) || errors.Is(err, apperrors.ErrValidation) || errors.Is(err, services.ErrPrincipalNotPositive) {
			logger.Warn("Validation error creating loan", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create loan in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create loan"})
		}
		return
	}

	logger.Info("Loan created successfully", slog.String("loan_id", loan.LoanID))
	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

func (h *loanHandler) getLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("id")

	loan, err := h.loanService.GetLoanByID(c.Request.Context(), loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		} else {
			logger.Error("Failed to get loan from service", slog.String("loan_id", loanID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve loan"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

func (h *loanHandler) getLoanSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("id")

	summary, err := h.loanService.GetLoanSummary(c.Request.Context(), loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		} else {
			logger.Error("Failed to get loan summary from service", slog.String("loan_id", loanID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve loan summary"})
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *loanHandler) listLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListLoansParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.loanService.ListLoans(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list loans from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list loans"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *loanHandler) listActivities(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("id")

	activities, err := h.loanService.ListActivities(c.Request.Context(), loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		} else {
			logger.Error("Failed to list activities from service", slog.String("loan_id", loanID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list activities"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityResponses(activities))
}

func (h *loanHandler) listSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("id")

	entries, err := h.loanService.ListSchedule(c.Request.Context(), loanID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		} else {
			logger.Error("Failed to list schedule from service", slog.String("loan_id", loanID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list schedule"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToScheduleEntryResponses(entries))
}

// statusChange factors the shared shape of the manual lifecycle endpoints.
func (h *loanHandler) statusChange(c *gin.Context, action string, fn func(ctx *gin.Context, loanID, staffID, note string) error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("id")

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		logger.Error("Staff ID not found in context", slog.String("action", action))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.StatusChangeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	logger.Info("Received loan status change request", slog.String("loan_id", loanID), slog.String("action", action), slog.String("staff_id", staffID))

	if err := fn(c, loanID, staffID, req.Note); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		case errors.Is(err, apperrors.ErrInvalidTransition):
			logger.Warn("Illegal loan status transition", slog.String("loan_id", loanID), slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Loan status change failed", slog.String("loan_id", loanID), slog.String("action", action), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update loan"})
		}
	}
}

func (h *loanHandler) verifyLoan(c *gin.Context) {
	h.statusChange(c, "verify", func(ctx *gin.Context, loanID, staffID, note string) error {
		loan, err := h.loanService.VerifyLoan(ctx.Request.Context(), loanID, staffID, note)
		if err != nil {
			return err
		}
		ctx.JSON(http.StatusOK, dto.ToLoanResponse(loan))
		return nil
	})
}

func (h *loanHandler) approveLoan(c *gin.Context) {
	h.statusChange(c, "approve", func(ctx *gin.Context, loanID, staffID, note string) error {
		loan, err := h.loanService.ApproveLoan(ctx.Request.Context(), loanID, staffID, note)
		if err != nil {
			return err
		}
		ctx.JSON(http.StatusOK, dto.ToLoanResponse(loan))
		return nil
	})
}

func (h *loanHandler) rejectLoan(c *gin.Context) {
	h.statusChange(c, "reject", func(ctx *gin.Context, loanID, staffID, note string) error {
		loan, err := h.loanService.RejectLoan(ctx.Request.Context(), loanID, staffID, note)
		if err != nil {
			return err
		}
		ctx.JSON(http.StatusOK, dto.ToLoanResponse(loan))
		return nil
	})
}

func (h *loanHandler) markDefaulted(c *gin.Context) {
	h.statusChange(c, "default", func(ctx *gin.Context, loanID, staffID, note string) error {
		loan, err := h.loanService.MarkDefaulted(ctx.Request.Context(), loanID, staffID, note)
		if err != nil {
			return err
		}
		ctx.JSON(http.StatusOK, dto.ToLoanResponse(loan))
		return nil
	})
}

func (h *loanHandler) disburseLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("id")

	staffID, ok := middleware.GetStaffIDFromContext(c)
	if !ok {
		logger.Error("Staff ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("loan_id", loanID), slog.String("staff_id", staffID))
	logger.Info("Received request to disburse loan")

	loan, err := h.disbursementService.Disburse(c.Request.Context(), loanID, staffID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		case errors.Is(err, apperrors.ErrInvalidTransition):
			logger.Warn("Loan not in a disbursable status", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInsufficientCapital):
			logger.Warn("Insufficient capital for disbursement", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrDailyLimitExceeded):
			logger.Warn("Staff daily disbursement limit exceeded", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrLockTimeout):
			logger.Warn("Lock wait timed out during disbursement", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Disbursement is busy, retry shortly"})
		default:
			logger.Error("Failed to disburse loan", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to disburse loan"})
		}
		return
	}

	logger.Info("Loan disbursed successfully")
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}
