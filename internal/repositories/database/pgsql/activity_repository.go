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

const activityColumns = `activity_id, loan_id, staff_id, action, note, created_at`

type PgxActivityRepository struct {
	BaseRepository
}

// newPgxActivityRepository creates a new repository for loan activity data.
func newPgxActivityRepository(pool *pgxpool.Pool) portsrepo.ActivityRepositoryFacade {
	return &PgxActivityRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ActivityRepositoryFacade = (*PgxActivityRepository)(nil)

func insertActivityTx(ctx context.Context, tx pgx.Tx, activity domain.LoanActivity) error {
	m := mapping.ToModelActivity(activity)
	query := fmt.Sprintf(`INSERT INTO loan_activity (%s) VALUES ($1, $2, $3, $4, $5, $6);`, activityColumns)
	_, err := tx.Exec(ctx, query, m.ActivityID, m.LoanID, m.StaffID, m.Action, m.Note, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity %s for loan %s: %w", m.ActivityID, m.LoanID, err)
	}
	return nil
}

// SaveActivity appends a loan activity row.
func (r *PgxActivityRepository) SaveActivity(ctx context.Context, activity domain.LoanActivity) error {
	m := mapping.ToModelActivity(activity)
	query := fmt.Sprintf(`INSERT INTO loan_activity (%s) VALUES ($1, $2, $3, $4, $5, $6);`, activityColumns)
	_, err := r.Pool.Exec(ctx, query, m.ActivityID, m.LoanID, m.StaffID, m.Action, m.Note, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save activity %s for loan %s: %w", m.ActivityID, m.LoanID, err)
	}
	return nil
}

// SaveActivityTx appends a loan activity row within an existing transaction.
func (r *PgxActivityRepository) SaveActivityTx(ctx context.Context, tx pgx.Tx, activity domain.LoanActivity) error {
	return insertActivityTx(ctx, tx, activity)
}

// ListActivitiesByLoanID retrieves a loan's activities, newest first.
func (r *PgxActivityRepository) ListActivitiesByLoanID(ctx context.Context, loanID string) ([]domain.LoanActivity, error) {
	query := fmt.Sprintf(`SELECT %s FROM loan_activity WHERE loan_id = $1 ORDER BY created_at DESC, activity_id DESC;`, activityColumns)

	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	var modelActivities []models.LoanActivity
	for rows.Next() {
		var m models.LoanActivity
		if scanErr := rows.Scan(&m.ActivityID, &m.LoanID, &m.StaffID, &m.Action, &m.Note, &m.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", scanErr)
		}
		modelActivities = append(modelActivities, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return mapping.ToDomainActivitySlice(modelActivities), nil
}
