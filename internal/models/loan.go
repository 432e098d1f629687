package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus mirrors the domain lifecycle states at the persistence layer.
type LoanStatus string

// Loan is the persistence representation of a loan row.
type Loan struct {
	LoanID              string          `json:"loanID"`
	CustomerID          string          `json:"customerID"`
	Principal           decimal.Decimal `json:"principal"`
	BaseInterestRate    decimal.Decimal `json:"baseInterestRate"`
	CurrentInterestRate decimal.Decimal `json:"currentInterestRate"`
	DurationMonths      int             `json:"durationMonths"`
	LoanReason          string          `json:"loanReason"`
	Status              LoanStatus      `json:"status"`
	DisbursedAt         *time.Time      `json:"disbursedAt"`
	AuditFields
}
