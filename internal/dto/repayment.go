package dto

import (
	"time"

	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordRepaymentRequest is the staff-facing payload for a manually entered
// repayment (cash, bank transfer). ReferenceCode must be globally unique.
type RecordRepaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"paymentMethod" binding:"required"`
	ReferenceCode string          `json:"referenceCode" binding:"required"`
}

// RepaymentResponse is the API representation of a recorded repayment.
type RepaymentResponse struct {
	RepaymentID   string          `json:"repaymentID"`
	LoanID        string          `json:"loanID"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	PaymentMethod string          `json:"paymentMethod"`
	ReferenceCode string          `json:"referenceCode"`
	PaymentDate   time.Time       `json:"paymentDate"`
}

// ScheduleEntryResponse is the API representation of one installment.
type ScheduleEntryResponse struct {
	EntryID           string          `json:"entryID"`
	InstallmentNumber int             `json:"installmentNumber"`
	DueDate           time.Time       `json:"dueDate"`
	AmountDue         decimal.Decimal `json:"amountDue"`
	IsPaid            bool            `json:"isPaid"`
}

// ToRepaymentResponse converts a domain repayment to its API representation.
func ToRepaymentResponse(r *domain.Repayment) RepaymentResponse {
	return RepaymentResponse{
		RepaymentID:   r.RepaymentID,
		LoanID:        r.LoanID,
		AmountPaid:    r.AmountPaid,
		PaymentMethod: r.PaymentMethod,
		ReferenceCode: r.ReferenceCode,
		PaymentDate:   r.PaymentDate,
	}
}

// ToRepaymentResponses converts a slice of domain repayments.
func ToRepaymentResponses(repayments []domain.Repayment) []RepaymentResponse {
	out := make([]RepaymentResponse, len(repayments))
	for i := range repayments {
		out[i] = ToRepaymentResponse(&repayments[i])
	}
	return out
}

// ToScheduleEntryResponses converts a slice of schedule entries.
func ToScheduleEntryResponses(entries []domain.RepaymentScheduleEntry) []ScheduleEntryResponse {
	out := make([]ScheduleEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = ScheduleEntryResponse{
			EntryID:           e.EntryID,
			InstallmentNumber: e.InstallmentNumber,
			DueDate:           e.DueDate,
			AmountDue:         e.AmountDue,
			IsPaid:            e.IsPaid,
		}
	}
	return out
}
