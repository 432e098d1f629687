package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/kopesha/lending-backend/internal/apperrors"
	"github.com/kopesha/lending-backend/internal/core/domain"
	portsrepo "github.com/kopesha/lending-backend/internal/core/ports/repositories"
	portssvc "github.com/kopesha/lending-backend/internal/core/ports/services"
	"github.com/kopesha/lending-backend/internal/dto"
	"github.com/kopesha/lending-backend/internal/middleware"
	"github.com/kopesha/lending-backend/internal/utils/phone"
)

// Payment method recorded for gateway-confirmed repayments.
const gatewayPaymentMethod = "MPESA"

// eligibleStatuses are the loan states a gateway payment can settle against.
var eligibleStatuses = []domain.LoanStatus{
	domain.LoanActive,
	domain.LoanOverdue,
	domain.LoanDisbursed,
}

// reconciliationService maps inbound payment notifications to loans. The
// identifiers arrive ambiguous and partial; matching runs a fixed precedence
// ladder and the allocator's reference-code guard makes redelivery harmless.
type reconciliationService struct {
	customerRepo portsrepo.CustomerRepositoryFacade
	repaymentSvc portssvc.RepaymentSvcFacade
}

// NewReconciliationService creates a new ReconciliationService.
func NewReconciliationService(
	customerRepo portsrepo.CustomerRepositoryFacade,
	repaymentSvc portssvc.RepaymentSvcFacade,
) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		customerRepo: customerRepo,
		repaymentSvc: repaymentSvc,
	}
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// ReconcilePayment matches the notification to at most one loan and forwards
// it to the repayment allocator. The ack is success regardless of outcome:
// a failure ack would only make the gateway redeliver, and redelivery cannot
// change the result.
func (s *reconciliationService) ReconcilePayment(ctx context.Context, notification dto.PaymentNotification) dto.PaymentAck {
	logger := middleware.GetLoggerFromCtx(ctx)

	candidates, err := s.customerRepo.FindReconciliationCandidates(ctx, eligibleStatuses)
	if err != nil {
		logger.Error("Failed to load reconciliation candidates", slog.String("transaction_id", notification.TransactionID), slog.String("error", err.Error()))
		return dto.SuccessAck()
	}

	match := matchNotification(candidates, notification)
	if match == nil {
		// Recorded for operator follow-up; the gateway must not retry on
		// "no match".
		logger.Warn("No loan matched inbound payment",
			slog.String("transaction_id", notification.TransactionID),
			slog.String("billing_reference", notification.BillingReference),
			slog.String("sender_phone", notification.SenderPhone),
			slog.String("amount", notification.Amount.String()),
		)
		return dto.SuccessAck()
	}

	_, err = s.repaymentSvc.RecordRepayment(ctx, match.Loan.LoanID, notification.Amount, gatewayPaymentMethod, notification.TransactionID, "")
	switch {
	case err == nil:
		logger.Info("Inbound payment reconciled",
			slog.String("transaction_id", notification.TransactionID),
			slog.String("loan_id", match.Loan.LoanID),
			slog.String("amount", notification.Amount.String()),
		)
	case errors.Is(err, apperrors.ErrDuplicateReference):
		logger.Info("Inbound payment already applied", slog.String("transaction_id", notification.TransactionID), slog.String("loan_id", match.Loan.LoanID))
	default:
		logger.Error("Failed to apply reconciled payment", slog.String("transaction_id", notification.TransactionID), slog.String("loan_id", match.Loan.LoanID), slog.String("error", err.Error()))
	}
	return dto.SuccessAck()
}

// matchNotification runs the matching precedence ladder over candidates
// ordered by loan creation time; within a tier the earliest loan wins.
//
//  1. Billing reference equals the customer's national ID.
//  2. Billing reference is a substring of the national ID.
//  3. Billing reference is a substring of the loan ID or customer ID.
//  4. Sender phone (canonical international form, then as received) is a
//     substring of the customer's phone.
func matchNotification(candidates []domain.ReconciliationCandidate, n dto.PaymentNotification) *domain.ReconciliationCandidate {
	ref := strings.TrimSpace(n.BillingReference)

	if ref != "" {
		for i := range candidates {
			if candidates[i].Customer.NationalID != "" && candidates[i].Customer.NationalID == ref {
				return &candidates[i]
			}
		}
		for i := range candidates {
			if candidates[i].Customer.NationalID != "" && strings.Contains(candidates[i].Customer.NationalID, ref) {
				return &candidates[i]
			}
		}
		for i := range candidates {
			if strings.Contains(candidates[i].Loan.LoanID, ref) || strings.Contains(candidates[i].Customer.CustomerID, ref) {
				return &candidates[i]
			}
		}
	}

	raw := strings.TrimSpace(n.SenderPhone)
	if raw == "" {
		return nil
	}
	canonical := phone.Normalize(raw)
	for i := range candidates {
		customerPhone := phone.Normalize(candidates[i].Customer.Phone)
		if strings.Contains(customerPhone, canonical) || strings.Contains(candidates[i].Customer.Phone, raw) {
			return &candidates[i]
		}
	}
	return nil
}
