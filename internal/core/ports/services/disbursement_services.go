package services

import (
	"context"

	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/kopesha/lending-backend/internal/dto"
)

// DisbursementSvcFacade coordinates disbursement against the capital pool and
// exposes the pool's ledger.
type DisbursementSvcFacade interface {
	// Disburse pays out an APPROVED loan: capital lock, sufficiency check,
	// debit, ledger entry, APPROVED -> DISBURSED -> ACTIVE, activity and
	// schedule, all as one atomic unit. Fails with ErrInvalidTransition,
	// ErrInsufficientCapital or ErrLockTimeout (retryable).
	Disburse(ctx context.Context, loanID, staffID string) (*domain.Loan, error)

	// AdjustCapital applies a signed manual adjustment to the pool balance
	// with its matching ledger entry. The balance may not go negative.
	AdjustCapital(ctx context.Context, req dto.AdjustCapitalRequest, staffID string) (*domain.CapitalAccount, error)

	// GetCapitalAccount retrieves the capital pool.
	GetCapitalAccount(ctx context.Context) (*domain.CapitalAccount, error)

	// ListLedgerEntries retrieves a page of the pool's ledger, newest first.
	ListLedgerEntries(ctx context.Context, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error)

	// HandlePayoutResult records the payout collaborator's result callback.
	// A failed payout after the loan was marked disbursed is logged for manual
	// reversal; there is no automatic rollback.
	HandlePayoutResult(ctx context.Context, result dto.PayoutResult) error
}
