package repositories

import (
	"context"
	"time"

	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DisbursementRecord bundles every row the disbursement atomic unit writes.
// All of them commit together or none do.
type DisbursementRecord struct {
	AccountID   string
	Loan        domain.Loan
	Entry       domain.LedgerEntry
	Activity    domain.LoanActivity
	Schedule    []domain.RepaymentScheduleEntry
	DisbursedAt time.Time
	StaffID     string
}

// CapitalReader defines read operations for the capital pool and its ledger.
type CapitalReader interface {
	// FindAccountByID retrieves a capital account by ID.
	FindAccountByID(ctx context.Context, accountID string) (*domain.CapitalAccount, error)

	// FindDefaultAccount retrieves the single provisioned capital pool.
	FindDefaultAccount(ctx context.Context) (*domain.CapitalAccount, error)

	// ListLedgerEntries retrieves a paginated list of ledger entries for an
	// account, newest first, using token-based pagination.
	ListLedgerEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// SumDisbursedByStaffSince totals the principal disbursed by one staff
	// member since the given time. Used for the per-staff daily limit.
	SumDisbursedByStaffSince(ctx context.Context, staffID string, since time.Time) (decimal.Decimal, error)
}

// CapitalWriter defines the ledger-mutating operations. Every method is a
// single database transaction holding an exclusive lock on the capital row.
type CapitalWriter interface {
	// RecordDisbursement executes the disbursement atomic unit: lock the
	// capital row, re-check the loan is APPROVED under the lock, verify the
	// balance covers the principal, debit it, append the ledger entry and
	// activity, move the loan to ACTIVE, and persist the repayment schedule.
	// Fails with ErrInvalidTransition, ErrInsufficientCapital or
	// ErrLockTimeout, leaving the pre-transaction state intact.
	RecordDisbursement(ctx context.Context, rec DisbursementRecord) error

	// AdjustBalance applies a signed manual adjustment with its ledger entry
	// under the capital lock. The balance may not go negative.
	AdjustBalance(ctx context.Context, entry domain.LedgerEntry) error
}

// CapitalRepositoryFacade combines capital ledger reads and writes.
type CapitalRepositoryFacade interface {
	CapitalReader
	CapitalWriter
}
