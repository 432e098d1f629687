package dto

import "github.com/kopesha/lending-backend/internal/core/domain"

// CreateCustomerRequest registers a borrower.
type CreateCustomerRequest struct {
	FullName   string `json:"fullName" binding:"required"`
	Phone      string `json:"phone" binding:"required,msisdn"`
	Email      string `json:"email"`
	NationalID string `json:"nationalID" binding:"required"`
	Region     string `json:"region"`
}

// CustomerResponse is the API representation of a customer.
type CustomerResponse struct {
	CustomerID string `json:"customerID"`
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Email      string `json:"email,omitempty"`
	NationalID string `json:"nationalID"`
	Region     string `json:"region,omitempty"`
}

// ToCustomerResponse converts a domain customer.
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID: c.CustomerID,
		FullName:   c.FullName,
		Phone:      c.Phone,
		Email:      c.Email,
		NationalID: c.NationalID,
		Region:     c.Region,
	}
}
