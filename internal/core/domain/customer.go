package domain

// Customer is a borrower registered by field staff. NationalID and Phone are
// the identifiers the reconciliation matcher keys on.
type Customer struct {
	CustomerID string `json:"customerID"`
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	NationalID string `json:"nationalID"`
	Region     string `json:"region"`
	AuditFields
}
