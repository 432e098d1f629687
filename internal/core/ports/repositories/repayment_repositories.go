package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RepaymentRepositoryFacade persists repayments and enforces the global
// uniqueness of external reference codes.
type RepaymentRepositoryFacade interface {
	// FindRepaymentByReference retrieves a repayment by its external reference
	// code, or ErrNotFound.
	FindRepaymentByReference(ctx context.Context, referenceCode string) (*domain.Repayment, error)

	// FindRepaymentsByLoanID retrieves all repayments recorded against a loan.
	FindRepaymentsByLoanID(ctx context.Context, loanID string) ([]domain.Repayment, error)

	// InsertRepaymentTx inserts a repayment within an existing transaction.
	// A reference code collision surfaces as ErrDuplicateReference.
	InsertRepaymentTx(ctx context.Context, tx pgx.Tx, repayment domain.Repayment) error

	// SumRepaymentsForLoanTx totals amount_paid for a loan within the transaction.
	SumRepaymentsForLoanTx(ctx context.Context, tx pgx.Tx, loanID string) (decimal.Decimal, error)
}

// ScheduleRepositoryFacade reads and settles repayment schedule entries.
type ScheduleRepositoryFacade interface {
	// FindScheduleByLoanID retrieves the schedule ordered by installment number.
	FindScheduleByLoanID(ctx context.Context, loanID string) ([]domain.RepaymentScheduleEntry, error)

	// FindScheduleByLoanIDTx is FindScheduleByLoanID within an existing transaction.
	FindScheduleByLoanIDTx(ctx context.Context, tx pgx.Tx, loanID string) ([]domain.RepaymentScheduleEntry, error)

	// MarkEntriesPaidTx flags the given schedule entries as paid.
	MarkEntriesPaidTx(ctx context.Context, tx pgx.Tx, entryIDs []string) error
}
