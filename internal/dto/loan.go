package dto

import (
	"time"

	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLoanRequest is the staff-facing payload for a new loan application.
// InterestRate is optional; when absent the configured default rate applies.
type CreateLoanRequest struct {
	CustomerID     string           `json:"customerID" binding:"required"`
	Principal      decimal.Decimal  `json:"principal" binding:"required"`
	InterestRate   *decimal.Decimal `json:"interestRate"`
	DurationMonths int              `json:"durationMonths" binding:"required,gt=0"`
	LoanReason     string           `json:"loanReason"`
}

// StatusChangeRequest carries the optional note for a manual status change
// (verify, approve, reject, default).
type StatusChangeRequest struct {
	Note string `json:"note"`
}

// LoanResponse is the API representation of a loan.
type LoanResponse struct {
	LoanID              string          `json:"loanID"`
	CustomerID          string          `json:"customerID"`
	Principal           decimal.Decimal `json:"principal"`
	BaseInterestRate    decimal.Decimal `json:"baseInterestRate"`
	CurrentInterestRate decimal.Decimal `json:"currentInterestRate"`
	DurationMonths      int             `json:"durationMonths"`
	LoanReason          string          `json:"loanReason,omitempty"`
	Status              string          `json:"status"`
	DisbursedAt         *time.Time      `json:"disbursedAt,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	CreatedBy           string          `json:"createdBy"`
}

// LoanSummaryResponse adds the derived money figures to a loan.
type LoanSummaryResponse struct {
	LoanResponse
	TotalRepayable   decimal.Decimal `json:"totalRepayable"`
	AmountPaid       decimal.Decimal `json:"amountPaid"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	IsOverdue        bool            `json:"isOverdue"`
}

// ListLoansParams holds pagination parameters for listing loans.
type ListLoansParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListLoansResponse is a page of loans plus the token for the next page.
type ListLoansResponse struct {
	Loans     []LoanResponse `json:"loans"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToLoanResponse converts a domain loan to its API representation.
func ToLoanResponse(loan *domain.Loan) LoanResponse {
	return LoanResponse{
		LoanID:              loan.LoanID,
		CustomerID:          loan.CustomerID,
		Principal:           loan.Principal,
		BaseInterestRate:    loan.BaseInterestRate,
		CurrentInterestRate: loan.CurrentInterestRate,
		DurationMonths:      loan.DurationMonths,
		LoanReason:          loan.LoanReason,
		Status:              string(loan.Status),
		DisbursedAt:         loan.DisbursedAt,
		CreatedAt:           loan.CreatedAt,
		CreatedBy:           loan.CreatedBy,
	}
}

// ToLoanResponses converts a slice of domain loans.
func ToLoanResponses(loans []domain.Loan) []LoanResponse {
	out := make([]LoanResponse, len(loans))
	for i := range loans {
		out[i] = ToLoanResponse(&loans[i])
	}
	return out
}
