package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Repayment is a single recorded payment against a loan. ReferenceCode is
// globally unique and acts as the idempotency key: the same external
// transaction can never be applied twice.
type Repayment struct {
	RepaymentID   string          `json:"repaymentID"`
	LoanID        string          `json:"loanID"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	PaymentMethod string          `json:"paymentMethod"`
	ReferenceCode string          `json:"referenceCode"`
	PaymentDate   time.Time       `json:"paymentDate"`
	RecordedBy    string          `json:"recordedBy"` // StaffID, empty for gateway payments
}

// RepaymentScheduleEntry is one installment of a loan's repayment plan.
// Unpaid entries with a due date in the past drive the overdue recompute.
type RepaymentScheduleEntry struct {
	EntryID           string          `json:"entryID"`
	LoanID            string          `json:"loanID"`
	InstallmentNumber int             `json:"installmentNumber"`
	DueDate           time.Time       `json:"dueDate"`
	AmountDue         decimal.Decimal `json:"amountDue"`
	IsPaid            bool            `json:"isPaid"`
}
