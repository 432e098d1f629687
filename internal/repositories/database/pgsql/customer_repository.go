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
)

type PgxCustomerRepository struct {
	BaseRepository
}

// newPgxCustomerRepository creates a new repository for customer data.
func newPgxCustomerRepository(pool *pgxpool.Pool) portsrepo.CustomerRepositoryFacade {
	return &PgxCustomerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

// SaveCustomer inserts a new customer.
func (r *PgxCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	m := mapping.ToModelCustomer(customer)

	query := `
		INSERT INTO customers (customer_id, full_name, phone, email, national_id, region, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CustomerID,
		m.FullName,
		m.Phone,
		m.Email,
		m.NationalID,
		m.Region,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: customer with national ID %s already exists", apperrors.ErrDuplicate, m.NationalID)
		}
		return fmt.Errorf("failed to save customer %s: %w", m.CustomerID, err)
	}
	return nil
}

// FindCustomerByID retrieves a customer by its ID.
func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `
		SELECT customer_id, full_name, phone, email, national_id, region, created_at, created_by, last_updated_at, last_updated_by
		FROM customers
		WHERE customer_id = $1;
	`
	var m models.Customer
	err := r.Pool.QueryRow(ctx, query, customerID).Scan(
		&m.CustomerID,
		&m.FullName,
		&m.Phone,
		&m.Email,
		&m.NationalID,
		&m.Region,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer by ID %s: %w", customerID, err)
	}

	d := mapping.ToDomainCustomer(m)
	return &d, nil
}

// FindReconciliationCandidates retrieves loans in the given statuses joined
// with their customers, ordered by loan creation time ascending so the oldest
// open loan wins a tie.
func (r *PgxCustomerRepository) FindReconciliationCandidates(ctx context.Context, statuses []domain.LoanStatus) ([]domain.ReconciliationCandidate, error) {
	if len(statuses) == 0 {
		return nil, nil
	}

	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	query := fmt.Sprintf(`
		SELECT l.%s,
		       c.customer_id, c.full_name, c.phone, c.email, c.national_id, c.region, c.created_at, c.created_by, c.last_updated_at, c.last_updated_by
		FROM loans l
		JOIN customers c ON c.customer_id = l.customer_id
		WHERE l.status = ANY($1)
		ORDER BY l.created_at ASC, l.loan_id ASC;
	`, "loan_id, l.customer_id, l.principal, l.base_interest_rate, l.current_interest_rate, l.duration_months, l.loan_reason, l.status, l.disbursed_at, l.created_at, l.created_by, l.last_updated_at, l.last_updated_by")

	rows, err := r.Pool.Query(ctx, query, statusStrings)
	if err != nil {
		return nil, fmt.Errorf("failed to find reconciliation candidates: %w", err)
	}
	defer rows.Close()

	var candidates []domain.ReconciliationCandidate
	for rows.Next() {
		var ml models.Loan
		var mc models.Customer
		scanErr := rows.Scan(
			&ml.LoanID,
			&ml.CustomerID,
			&ml.Principal,
			&ml.BaseInterestRate,
			&ml.CurrentInterestRate,
			&ml.DurationMonths,
			&ml.LoanReason,
			&ml.Status,
			&ml.DisbursedAt,
			&ml.CreatedAt,
			&ml.CreatedBy,
			&ml.LastUpdatedAt,
			&ml.LastUpdatedBy,
			&mc.CustomerID,
			&mc.FullName,
			&mc.Phone,
			&mc.Email,
			&mc.NationalID,
			&mc.Region,
			&mc.CreatedAt,
			&mc.CreatedBy,
			&mc.LastUpdatedAt,
			&mc.LastUpdatedBy,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan reconciliation candidate row: %w", scanErr)
		}
		candidates = append(candidates, domain.ReconciliationCandidate{
			Loan:     mapping.ToDomainLoan(ml),
			Customer: mapping.ToDomainCustomer(mc),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation candidate rows: %w", err)
	}

	return candidates, nil
}
