package services

import (
	"context"

	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/kopesha/lending-backend/internal/dto"
)

// CustomerSvcFacade manages borrower records.
type CustomerSvcFacade interface {
	// CreateCustomer registers a borrower.
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest, staffID string) (*domain.Customer, error)

	// GetCustomerByID retrieves a customer.
	GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)
}
