package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Repayment is the persistence representation of a repayment row.
// reference_code carries a unique constraint; violating it is how a replayed
// external transaction is detected.
type Repayment struct {
	RepaymentID   string          `json:"repaymentID"`
	LoanID        string          `json:"loanID"`
	AmountPaid    decimal.Decimal `json:"amountPaid"`
	PaymentMethod string          `json:"paymentMethod"`
	ReferenceCode string          `json:"referenceCode"`
	PaymentDate   time.Time       `json:"paymentDate"`
	RecordedBy    string          `json:"recordedBy"`
}

// RepaymentScheduleEntry is the persistence representation of one installment.
type RepaymentScheduleEntry struct {
	EntryID           string          `json:"entryID"`
	LoanID            string          `json:"loanID"`
	InstallmentNumber int             `json:"installmentNumber"`
	DueDate           time.Time       `json:"dueDate"`
	AmountDue         decimal.Decimal `json:"amountDue"`
	IsPaid            bool            `json:"isPaid"`
}
