package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/kopesha/lending-backend/internal/core/domain"
)

// ActivityRepositoryFacade appends to and reads the per-loan narrative log.
// Activities are write-once; there are no update or delete operations.
type ActivityRepositoryFacade interface {
	// SaveActivity appends a loan activity row.
	SaveActivity(ctx context.Context, activity domain.LoanActivity) error

	// SaveActivityTx appends a loan activity row within an existing transaction.
	SaveActivityTx(ctx context.Context, tx pgx.Tx, activity domain.LoanActivity) error

	// ListActivitiesByLoanID retrieves a loan's activities, newest first.
	ListActivitiesByLoanID(ctx context.Context, loanID string) ([]domain.LoanActivity, error)
}
