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

const ledgerEntryColumns = `entry_id, account_id, amount, entry_type, loan_id, note, created_at, created_by`

type PgxCapitalRepository struct {
	BaseRepository
}

// newPgxCapitalRepository creates a new repository for the capital pool and its ledger.
func newPgxCapitalRepository(pool *pgxpool.Pool) portsrepo.CapitalRepositoryFacade {
	return &PgxCapitalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CapitalRepositoryFacade = (*PgxCapitalRepository)(nil)

func scanCapitalAccount(row rowScanner) (models.CapitalAccount, error) {
	var m models.CapitalAccount
	err := row.Scan(
		&m.AccountID,
		&m.Name,
		&m.Balance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanLedgerEntry(row rowScanner) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.AccountID,
		&m.Amount,
		&m.EntryType,
		&m.LoanID,
		&m.Note,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	return m, err
}

// FindAccountByID retrieves a capital account by its ID.
func (r *PgxCapitalRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.CapitalAccount, error) {
	query := `
		SELECT account_id, name, balance, created_at, created_by, last_updated_at, last_updated_by
		FROM capital_accounts
		WHERE account_id = $1;
	`
	m, err := scanCapitalAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find capital account %s: %w", accountID, err)
	}

	d := mapping.ToDomainCapitalAccount(m)
	return &d, nil
}

// FindDefaultAccount retrieves the single provisioned capital pool.
func (r *PgxCapitalRepository) FindDefaultAccount(ctx context.Context) (*domain.CapitalAccount, error) {
	query := `
		SELECT account_id, name, balance, created_at, created_by, last_updated_at, last_updated_by
		FROM capital_accounts
		ORDER BY created_at ASC
		LIMIT 1;
	`
	m, err := scanCapitalAccount(r.Pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find default capital account: %w", err)
	}

	d := mapping.ToDomainCapitalAccount(m)
	return &d, nil
}

// ListLedgerEntries retrieves a paginated list of ledger entries for an
// account, newest first, using token-based pagination.
func (r *PgxCapitalRepository) ListLedgerEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := []any{accountID}
	query := fmt.Sprintf(`SELECT %s FROM ledger_entries WHERE account_id = $1`, ledgerEntryColumns)

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastEntryID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastEntryID)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, entry_id DESC LIMIT $%d;`, len(args)+1)
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list ledger entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var modelEntries []models.LedgerEntry
	for rows.Next() {
		m, scanErr := scanLedgerEntry(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan ledger entry row: %w", scanErr)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}

	var nextTokenVal *string
	if len(modelEntries) > limit {
		modelEntries = modelEntries[:limit]
		last := modelEntries[len(modelEntries)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		nextTokenVal = &token
	}

	return mapping.ToDomainLedgerEntrySlice(modelEntries), nextTokenVal, nil
}

// SumDisbursedByStaffSince totals the principal disbursed by one staff member
// since the given time. Disbursement entries are stored negative, so the sum
// is negated to yield the disbursed total.
func (r *PgxCapitalRepository) SumDisbursedByStaffSince(ctx context.Context, staffID string, since time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM ledger_entries
		WHERE entry_type = $1 AND created_by = $2 AND created_at >= $3;
	`
	var total decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, string(domain.EntryDisbursement), staffID, since).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum disbursements for staff %s: %w", staffID, err)
	}
	return total.Neg(), nil
}

// lockAccountBalance reads the account balance under an exclusive row lock.
func (r *PgxCapitalRepository) lockAccountBalance(ctx context.Context, tx pgx.Tx, accountID string) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT balance FROM capital_accounts WHERE account_id = $1 FOR UPDATE;`, accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, apperrors.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
			return decimal.Zero, fmt.Errorf("%w: capital account %s", apperrors.ErrLockTimeout, accountID)
		}
		return decimal.Zero, fmt.Errorf("failed to lock capital account %s: %w", accountID, err)
	}
	return balance, nil
}

func insertLedgerEntryTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	m := mapping.ToModelLedgerEntry(entry)
	query := fmt.Sprintf(`INSERT INTO ledger_entries (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`, ledgerEntryColumns)
	_, err := tx.Exec(ctx, query,
		m.EntryID,
		m.AccountID,
		m.Amount,
		m.EntryType,
		m.LoanID,
		m.Note,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry %s: %w", m.EntryID, err)
	}
	return nil
}

func updateAccountBalanceTx(ctx context.Context, tx pgx.Tx, accountID string, balance decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE capital_accounts
		SET balance = $2, last_updated_by = $3, last_updated_at = $4
		WHERE account_id = $1;
	`
	if _, err := tx.Exec(ctx, query, accountID, balance, updatedBy, updatedAt); err != nil {
		return fmt.Errorf("failed to update balance of capital account %s: %w", accountID, err)
	}
	return nil
}

// RecordDisbursement executes the disbursement atomic unit. The capital row
// lock is taken first, then the loan row lock, in that order everywhere, so
// concurrent disbursements serialize without deadlocking. The loan status is
// re-checked under the lock: only an APPROVED loan can be disbursed.
func (r *PgxCapitalRepository) RecordDisbursement(ctx context.Context, rec portsrepo.DisbursementRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	setTimeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", loanLockTimeout.Milliseconds())
	if _, err := tx.Exec(ctx, setTimeout); err != nil {
		return fmt.Errorf("failed to set lock timeout: %w", err)
	}

	balance, err := r.lockAccountBalance(ctx, tx, rec.AccountID)
	if err != nil {
		return err
	}

	// Re-read the loan status under its own lock: another request may have
	// disbursed it between the caller's check and this transaction.
	var currentStatus string
	err = tx.QueryRow(ctx, `SELECT status FROM loans WHERE loan_id = $1 FOR UPDATE;`, rec.Loan.LoanID).Scan(&currentStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
			return fmt.Errorf("%w: loan %s", apperrors.ErrLockTimeout, rec.Loan.LoanID)
		}
		return fmt.Errorf("failed to lock loan %s: %w", rec.Loan.LoanID, err)
	}
	if domain.LoanStatus(currentStatus) != domain.LoanApproved {
		return fmt.Errorf("%w: loan %s is %s, expected %s", apperrors.ErrInvalidTransition, rec.Loan.LoanID, currentStatus, domain.LoanApproved)
	}

	newBalance := balance.Add(rec.Entry.Amount)
	if newBalance.IsNegative() {
		return fmt.Errorf("%w: balance %s cannot cover %s", apperrors.ErrInsufficientCapital, balance.String(), rec.Entry.Amount.Neg().String())
	}

	if err := updateAccountBalanceTx(ctx, tx, rec.AccountID, newBalance, rec.StaffID, rec.DisbursedAt); err != nil {
		return err
	}
	if err := insertLedgerEntryTx(ctx, tx, rec.Entry); err != nil {
		return err
	}

	// Move the loan to ACTIVE and stamp the disbursement time.
	loanQuery := `
		UPDATE loans
		SET status = $2, disbursed_at = $3, last_updated_by = $4, last_updated_at = $5
		WHERE loan_id = $1;
	`
	if _, err := tx.Exec(ctx, loanQuery, rec.Loan.LoanID, string(domain.LoanActive), rec.DisbursedAt, rec.StaffID, rec.DisbursedAt); err != nil {
		return fmt.Errorf("failed to activate loan %s: %w", rec.Loan.LoanID, err)
	}

	if err := insertActivityTx(ctx, tx, rec.Activity); err != nil {
		return err
	}

	scheduleQuery := `
		INSERT INTO repayment_schedule (entry_id, loan_id, installment_number, due_date, amount_due, is_paid)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, entry := range rec.Schedule {
		m := mapping.ToModelScheduleEntry(entry)
		if _, err := tx.Exec(ctx, scheduleQuery, m.EntryID, m.LoanID, m.InstallmentNumber, m.DueDate, m.AmountDue, m.IsPaid); err != nil {
			return fmt.Errorf("failed to insert schedule entry %d for loan %s: %w", m.InstallmentNumber, m.LoanID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// AdjustBalance applies a signed manual adjustment with its ledger entry under
// the capital lock. The balance may not go negative.
func (r *PgxCapitalRepository) AdjustBalance(ctx context.Context, entry domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	setTimeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", loanLockTimeout.Milliseconds())
	if _, err := tx.Exec(ctx, setTimeout); err != nil {
		return fmt.Errorf("failed to set lock timeout: %w", err)
	}

	balance, err := r.lockAccountBalance(ctx, tx, entry.AccountID)
	if err != nil {
		return err
	}

	newBalance := balance.Add(entry.Amount)
	if newBalance.IsNegative() {
		return fmt.Errorf("%w: adjustment of %s would drive balance %s negative", apperrors.ErrInsufficientCapital, entry.Amount.String(), balance.String())
	}

	if err := updateAccountBalanceTx(ctx, tx, entry.AccountID, newBalance, entry.CreatedBy, entry.CreatedAt); err != nil {
		return err
	}
	if err := insertLedgerEntryTx(ctx, tx, entry); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}
