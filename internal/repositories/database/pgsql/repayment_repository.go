package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kopesha/lending-backend/internal/apperrors"
	"github.com/kopesha/lending-backend/internal/core/domain"
	portsrepo "github.com/kopesha/lending-backend/internal/core/ports/repositories"
	"github.com/kopesha/lending-backend/internal/models"
	"github.com/kopesha/lending-backend/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const repaymentColumns = `repayment_id, loan_id, amount_paid, payment_method, reference_code, payment_date, recorded_by`

type PgxRepaymentRepository struct {
	BaseRepository
}

// newPgxRepaymentRepository creates a new repository for repayment data.
func newPgxRepaymentRepository(pool *pgxpool.Pool) portsrepo.RepaymentRepositoryFacade {
	return &PgxRepaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RepaymentRepositoryFacade = (*PgxRepaymentRepository)(nil)

func scanRepayment(row rowScanner) (models.Repayment, error) {
	var m models.Repayment
	err := row.Scan(
		&m.RepaymentID,
		&m.LoanID,
		&m.AmountPaid,
		&m.PaymentMethod,
		&m.ReferenceCode,
		&m.PaymentDate,
		&m.RecordedBy,
	)
	return m, err
}

// FindRepaymentByReference retrieves a repayment by its external reference code.
func (r *PgxRepaymentRepository) FindRepaymentByReference(ctx context.Context, referenceCode string) (*domain.Repayment, error) {
	query := fmt.Sprintf(`SELECT %s FROM repayments WHERE reference_code = $1;`, repaymentColumns)

	m, err := scanRepayment(r.Pool.QueryRow(ctx, query, referenceCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find repayment by reference %s: %w", referenceCode, err)
	}

	d := mapping.ToDomainRepayment(m)
	return &d, nil
}

// FindRepaymentsByLoanID retrieves all repayments recorded against a loan,
// oldest first.
func (r *PgxRepaymentRepository) FindRepaymentsByLoanID(ctx context.Context, loanID string) ([]domain.Repayment, error) {
	query := fmt.Sprintf(`SELECT %s FROM repayments WHERE loan_id = $1 ORDER BY payment_date ASC, repayment_id ASC;`, repaymentColumns)

	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to find repayments for loan %s: %w", loanID, err)
	}
	defer rows.Close()

	var modelRepayments []models.Repayment
	for rows.Next() {
		m, scanErr := scanRepayment(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan repayment row: %w", scanErr)
		}
		modelRepayments = append(modelRepayments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating repayment rows: %w", err)
	}

	return mapping.ToDomainRepaymentSlice(modelRepayments), nil
}

// InsertRepaymentTx inserts a repayment within an existing transaction. The
// unique index on reference_code is the authoritative idempotency check; a
// violation surfaces as ErrDuplicateReference.
func (r *PgxRepaymentRepository) InsertRepaymentTx(ctx context.Context, tx pgx.Tx, repayment domain.Repayment) error {
	m := mapping.ToModelRepayment(repayment)

	query := fmt.Sprintf(`INSERT INTO repayments (%s) VALUES ($1, $2, $3, $4, $5, $6, $7);`, repaymentColumns)
	_, err := tx.Exec(ctx, query,
		m.RepaymentID,
		m.LoanID,
		m.AmountPaid,
		m.PaymentMethod,
		m.ReferenceCode,
		m.PaymentDate,
		m.RecordedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: reference code %s", apperrors.ErrDuplicateReference, m.ReferenceCode)
		}
		return fmt.Errorf("failed to insert repayment %s: %w", m.RepaymentID, err)
	}
	return nil
}

// SumRepaymentsForLoanTx totals amount_paid for a loan within the transaction.
func (r *PgxRepaymentRepository) SumRepaymentsForLoanTx(ctx context.Context, tx pgx.Tx, loanID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.QueryRow(ctx, `SELECT COALESCE(SUM(amount_paid), 0) FROM repayments WHERE loan_id = $1;`, loanID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum repayments for loan %s: %w", loanID, err)
	}
	return total, nil
}
