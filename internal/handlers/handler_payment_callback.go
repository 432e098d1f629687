package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/kopesha/lending-backend/internal/core/ports/services"
	"github.com/kopesha/lending-backend/internal/dto"
	"github.com/kopesha/lending-backend/internal/middleware"
	"github.com/kopesha/lending-backend/internal/platform/config"
)

// paymentCallbackHandler handles the gateway-facing callback endpoints. These
// routes are public: the gateway does not authenticate, it just delivers.
type paymentCallbackHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
	disbursementService   portssvc.DisbursementSvcFacade
}

// newPaymentCallbackHandler creates a new paymentCallbackHandler.
func newPaymentCallbackHandler(rs portssvc.ReconciliationSvcFacade, ds portssvc.DisbursementSvcFacade) *paymentCallbackHandler {
	return &paymentCallbackHandler{
		reconciliationService: rs,
		disbursementService:   ds,
	}
}

// registerPaymentCallbackRoutes sets up the rate limited callback routes.
func registerPaymentCallbackRoutes(r *gin.Engine, cfg *config.Config, reconciliationService portssvc.ReconciliationSvcFacade, disbursementService portssvc.DisbursementSvcFacade) {
	h := newPaymentCallbackHandler(reconciliationService, disbursementService)

	limitMiddleware := middleware.RateLimit(newCallbackRateLimiter(cfg.CallbackRateLimit))

	payments := r.Group("/api/v1/payments", limitMiddleware)
	{
		payments.POST("/confirmation", h.paymentConfirmation)
		payments.POST("/payout-result", h.payoutResult)
	}
}

// paymentConfirmation ingests an inbound payment notification. The response is
// a success ack regardless of outcome: a failure ack would only make the
// gateway redeliver a notification we already can't use.
func (h *paymentCallbackHandler) paymentConfirmation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var notification dto.PaymentNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		logger.Warn("Malformed payment notification", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, dto.SuccessAck())
		return
	}

	logger.Info("Received payment confirmation",
		slog.String("transaction_id", notification.TransactionID),
		slog.String("billing_reference", notification.BillingReference),
		slog.String("amount", notification.Amount.String()),
	)

	ack := h.reconciliationService.ReconcilePayment(c.Request.Context(), notification)
	c.JSON(http.StatusOK, ack)
}

// payoutResult ingests the payout collaborator's result callback.
func (h *paymentCallbackHandler) payoutResult(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var result dto.PayoutResult
	if err := c.ShouldBindJSON(&result); err != nil {
		logger.Warn("Malformed payout result", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, dto.SuccessAck())
		return
	}

	if err := h.disbursementService.HandlePayoutResult(c.Request.Context(), result); err != nil {
		logger.Error("Failed to handle payout result", slog.String("originator_id", result.OriginatorID), slog.String("error", err.Error()))
	}

	c.JSON(http.StatusOK, dto.SuccessAck())
}
