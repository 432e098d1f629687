package repositories

import (
	"context"

	"github.com/kopesha/lending-backend/internal/core/domain"
)

// CustomerRepositoryFacade persists borrowers and serves the reconciliation matcher.
type CustomerRepositoryFacade interface {
	// SaveCustomer persists a new customer.
	SaveCustomer(ctx context.Context, customer domain.Customer) error

	// FindCustomerByID retrieves a customer by ID.
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// FindReconciliationCandidates retrieves loans in the given statuses joined
	// with their customers, ordered by loan creation time ascending.
	FindReconciliationCandidates(ctx context.Context, statuses []domain.LoanStatus) ([]domain.ReconciliationCandidate, error)
}
