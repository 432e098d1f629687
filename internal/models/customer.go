package models

// Customer is the persistence representation of a borrower row.
type Customer struct {
	CustomerID string `json:"customerID"`
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	NationalID string `json:"nationalID"`
	Region     string `json:"region"`
	AuditFields
}
