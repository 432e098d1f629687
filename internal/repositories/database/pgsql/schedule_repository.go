package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kopesha/lending-backend/internal/core/domain"
	portsrepo "github.com/kopesha/lending-backend/internal/core/ports/repositories"
	"github.com/kopesha/lending-backend/internal/models"
	"github.com/kopesha/lending-backend/internal/utils/mapping"
)

const scheduleColumns = `entry_id, loan_id, installment_number, due_date, amount_due, is_paid`

type PgxScheduleRepository struct {
	BaseRepository
}

// newPgxScheduleRepository creates a new repository for repayment schedules.
func newPgxScheduleRepository(pool *pgxpool.Pool) portsrepo.ScheduleRepositoryFacade {
	return &PgxScheduleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ScheduleRepositoryFacade = (*PgxScheduleRepository)(nil)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PgxScheduleRepository) findScheduleByLoanID(ctx context.Context, db querier, loanID string) ([]domain.RepaymentScheduleEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM repayment_schedule WHERE loan_id = $1 ORDER BY installment_number ASC;`, scheduleColumns)

	rows, err := db.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to find schedule for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	var modelEntries []models.RepaymentScheduleEntry
	for rows.Next() {
		var m models.RepaymentScheduleEntry
		if scanErr := rows.Scan(&m.EntryID, &m.LoanID, &m.InstallmentNumber, &m.DueDate, &m.AmountDue, &m.IsPaid); scanErr != nil {
			return nil, fmt.Errorf("failed to scan schedule row: %w", scanErr)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule rows: %w", err)
	}

	return mapping.ToDomainScheduleEntrySlice(modelEntries), nil
}

// FindScheduleByLoanID retrieves the schedule ordered by installment number.
func (r *PgxScheduleRepository) FindScheduleByLoanID(ctx context.Context, loanID string) ([]domain.RepaymentScheduleEntry, error) {
	return r.findScheduleByLoanID(ctx, r.Pool, loanID)
}

// FindScheduleByLoanIDTx retrieves the schedule within an existing transaction.
func (r *PgxScheduleRepository) FindScheduleByLoanIDTx(ctx context.Context, tx pgx.Tx, loanID string) ([]domain.RepaymentScheduleEntry, error) {
	return r.findScheduleByLoanID(ctx, tx, loanID)
}

// MarkEntriesPaidTx flags the given schedule entries as paid.
func (r *PgxScheduleRepository) MarkEntriesPaidTx(ctx context.Context, tx pgx.Tx, entryIDs []string) error {
	if len(entryIDs) == 0 {
		return nil
	}

	_, err := tx.Exec(ctx, `UPDATE repayment_schedule SET is_paid = TRUE WHERE entry_id = ANY($1);`, entryIDs)
	if err != nil {
		return fmt.Errorf("failed to mark schedule entries paid: %w", err)
	}
	return nil
}
