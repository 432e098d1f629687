package handlers

import (
	portssvc "github.com/kopesha/lending-backend/internal/core/ports/services"
	"github.com/kopesha/lending-backend/internal/middleware"
	"github.com/kopesha/lending-backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", GetHome)

	// Gateway-facing callback routes, rate limited per sender IP.
	registerPaymentCallbackRoutes(r, cfg, services.Reconciliation, services.Disbursement)

	// Staff-facing API v1 routes.
	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.StaffIdentityMiddleware())

	registerCustomerRoutes(v1, services.Customer)
	registerLoanRoutes(v1, services.Loan, services.Disbursement)
	registerRepaymentRoutes(v1, services.Repayment)
	registerCapitalRoutes(v1, services.Disbursement)
}

// newCallbackRateLimiter builds the per-IP limiter guarding the public
// callback endpoints. An unparseable format falls back to 30 per minute.
func newCallbackRateLimiter(format string) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(format)
	if err != nil {
		rate, _ = limiter.NewRateFromFormatted("30-M")
	}
	store := memory.NewStore()
	return limiter.New(store, rate)
}
