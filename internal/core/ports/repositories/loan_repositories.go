package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LoanReader defines read operations for loan data.
type LoanReader interface {
	// FindLoanByID retrieves a specific loan by its unique identifier.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListLoans retrieves a paginated list of loans using token-based pagination.
	ListLoans(ctx context.Context, limit int, nextToken *string) ([]domain.Loan, *string, error)

	// FindLoansByStatuses retrieves all loans currently in any of the given
	// statuses, ordered by creation time ascending.
	FindLoansByStatuses(ctx context.Context, statuses []domain.LoanStatus) ([]domain.Loan, error)
}

// LoanWriter defines write operations for loan data.
type LoanWriter interface {
	// SaveLoan persists a new loan.
	SaveLoan(ctx context.Context, loan domain.Loan) error

	// UpdateLoanStatusAndRate updates the status and current interest rate of a
	// loan. The caller is responsible for having validated the transition.
	UpdateLoanStatusAndRate(ctx context.Context, loanID string, status domain.LoanStatus, rate decimal.Decimal, updatedBy string, updatedAt time.Time) error
}

// LoanRepositoryFacade combines all loan-related repository interfaces.
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
}

// LoanRepositoryWithTx extends the facade with row-lock-scoped execution.
type LoanRepositoryWithTx interface {
	LoanRepositoryFacade

	// WithLoanForUpdate loads the loan under an exclusive row lock inside a
	// database transaction and invokes fn with it. All writes performed through
	// tx commit together with the lock release, or not at all. Lock waits are
	// bounded; on expiry the call fails with ErrLockTimeout and fn never runs.
	WithLoanForUpdate(ctx context.Context, loanID string, fn func(tx pgx.Tx, loan *domain.Loan) error) error

	// UpdateLoanStatusAndRateTx is UpdateLoanStatusAndRate within an existing transaction.
	UpdateLoanStatusAndRateTx(ctx context.Context, tx pgx.Tx, loanID string, status domain.LoanStatus, rate decimal.Decimal, updatedBy string, updatedAt time.Time) error
}
