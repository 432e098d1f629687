package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kopesha/lending-backend/internal/apperrors"
	"github.com/kopesha/lending-backend/internal/core/domain"
	portsrepo "github.com/kopesha/lending-backend/internal/core/ports/repositories"
	"github.com/kopesha/lending-backend/internal/models"
	"github.com/kopesha/lending-backend/internal/utils/mapping"
	"github.com/kopesha/lending-backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// loanLockTimeout bounds how long a transaction waits for the loan row lock
// before the database aborts the wait with SQLSTATE 55P03.
const loanLockTimeout = 3 * time.Second

const pgLockNotAvailable = "55P03"

const loanColumns = `loan_id, customer_id, principal, base_interest_rate, current_interest_rate, duration_months, loan_reason, status, disbursed_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxLoanRepository struct {
	BaseRepository
}

// newPgxLoanRepository creates a new repository for loan data.
func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryWithTx {
	return &PgxLoanRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LoanRepositoryWithTx = (*PgxLoanRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (models.Loan, error) {
	var m models.Loan
	err := row.Scan(
		&m.LoanID,
		&m.CustomerID,
		&m.Principal,
		&m.BaseInterestRate,
		&m.CurrentInterestRate,
		&m.DurationMonths,
		&m.LoanReason,
		&m.Status,
		&m.DisbursedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveLoan inserts a new loan.
func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	m := mapping.ToModelLoan(loan)

	query := `
		INSERT INTO loans (loan_id, customer_id, principal, base_interest_rate, current_interest_rate, duration_months, loan_reason, status, disbursed_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.LoanID,
		m.CustomerID,
		m.Principal,
		m.BaseInterestRate,
		m.CurrentInterestRate,
		m.DurationMonths,
		m.LoanReason,
		m.Status,
		m.DisbursedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: loan with ID %s already exists", apperrors.ErrDuplicate, m.LoanID)
		}
		return fmt.Errorf("failed to save loan %s: %w", m.LoanID, err)
	}
	return nil
}

// FindLoanByID retrieves a specific loan by its ID.
func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := fmt.Sprintf(`SELECT %s FROM loans WHERE loan_id = $1;`, loanColumns)

	m, err := scanLoan(r.Pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find loan by ID %s: %w", loanID, err)
	}

	d := mapping.ToDomainLoan(m)
	return &d, nil
}

// ListLoans retrieves a paginated list of loans using token-based pagination,
// newest first.
func (r *PgxLoanRepository) ListLoans(ctx context.Context, limit int, nextToken *string) ([]domain.Loan, *string, error) {
	args := []any{}
	query := fmt.Sprintf(`SELECT %s FROM loans`, loanColumns)

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastLoanID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` WHERE (created_at, loan_id) < ($1, $2)`
		args = append(args, lastCreatedAt, lastLoanID)
	}

	// Fetch one extra row to know whether another page exists.
	query += fmt.Sprintf(` ORDER BY created_at DESC, loan_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var modelLoans []models.Loan
	for rows.Next() {
		m, scanErr := scanLoan(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan loan row: %w", scanErr)
		}
		modelLoans = append(modelLoans, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating loan rows: %w", err)
	}

	var nextTokenVal *string
	if len(modelLoans) > limit {
		modelLoans = modelLoans[:limit]
		last := modelLoans[len(modelLoans)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.LoanID)
		nextTokenVal = &token
	}

	return mapping.ToDomainLoanSlice(modelLoans), nextTokenVal, nil
}

// FindLoansByStatuses retrieves all loans in any of the given statuses,
// oldest first.
func (r *PgxLoanRepository) FindLoansByStatuses(ctx context.Context, statuses []domain.LoanStatus) ([]domain.Loan, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	query := fmt.Sprintf(`SELECT %s FROM loans WHERE status = ANY($1) ORDER BY created_at ASC, loan_id ASC;`, loanColumns)

	rows, err := r.Pool.Query(ctx, query, statusStrings)
	if err != nil {
		return nil, fmt.Errorf("failed to find loans by statuses: %w", err)
	}
	defer rows.Close()

	var modelLoans []models.Loan
	for rows.Next() {
		m, scanErr := scanLoan(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan loan row: %w", scanErr)
		}
		modelLoans = append(modelLoans, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loan rows: %w", err)
	}

	return mapping.ToDomainLoanSlice(modelLoans), nil
}

// UpdateLoanStatusAndRate updates the status and current interest rate of a loan.
func (r *PgxLoanRepository) UpdateLoanStatusAndRate(ctx context.Context, loanID string, status domain.LoanStatus, rate decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	return r.updateStatusAndRate(ctx, r.Pool, loanID, status, rate, updatedBy, updatedAt)
}

// UpdateLoanStatusAndRateTx updates the status and rate within an existing transaction.
func (r *PgxLoanRepository) UpdateLoanStatusAndRateTx(ctx context.Context, tx pgx.Tx, loanID string, status domain.LoanStatus, rate decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	return r.updateStatusAndRate(ctx, tx, loanID, status, rate, updatedBy, updatedAt)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *PgxLoanRepository) updateStatusAndRate(ctx context.Context, db execer, loanID string, status domain.LoanStatus, rate decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE loans
		SET status = $2, current_interest_rate = $3, last_updated_by = $4, last_updated_at = $5
		WHERE loan_id = $1;
	`
	tag, err := db.Exec(ctx, query, loanID, string(status), rate, updatedBy, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update loan %s status: %w", loanID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// WithLoanForUpdate runs fn with the loan loaded under an exclusive row lock.
// The lock wait is bounded by loanLockTimeout; on expiry the call returns
// ErrLockTimeout without invoking fn. Writes through tx commit atomically
// with the lock release.
func (r *PgxLoanRepository) WithLoanForUpdate(ctx context.Context, loanID string, fn func(tx pgx.Tx, loan *domain.Loan) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	// SET LOCAL scopes the timeout to this transaction only.
	setTimeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", loanLockTimeout.Milliseconds())
	if _, err := tx.Exec(ctx, setTimeout); err != nil {
		return fmt.Errorf("failed to set lock timeout: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM loans WHERE loan_id = $1 FOR UPDATE;`, loanColumns)
	m, err := scanLoan(tx.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
			return fmt.Errorf("%w: loan %s", apperrors.ErrLockTimeout, loanID)
		}
		return fmt.Errorf("failed to lock loan %s: %w", loanID, err)
	}

	loan := mapping.ToDomainLoan(m)
	if err := fn(tx, &loan); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
