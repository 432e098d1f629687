package services

import (
	"context"

	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RepaymentSvcFacade allocates incoming payments to loans. It never mutates
// the capital pool: principal returning is tracked per-loan, not pooled.
type RepaymentSvcFacade interface {
	// RecordRepayment persists a payment against a loan under the loan row
	// lock, settles covered schedule installments, and either closes the loan
	// (remaining balance <= 0) or re-runs the overdue recompute. A replayed
	// referenceCode fails with ErrDuplicateReference and changes nothing.
	RecordRepayment(ctx context.Context, loanID string, amount decimal.Decimal, method, referenceCode, staffID string) (*domain.Repayment, error)

	// ListRepaymentsByLoan retrieves all repayments recorded against a loan.
	ListRepaymentsByLoan(ctx context.Context, loanID string) ([]domain.Repayment, error)
}
