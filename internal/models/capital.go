package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CapitalAccount is the persistence representation of the capital pool row.
// The table carries a CHECK (balance >= 0) constraint as a last line of
// defense behind the in-transaction sufficiency check.
type CapitalAccount struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	AuditFields
}

// LedgerEntry is the persistence representation of an append-only ledger row.
type LedgerEntry struct {
	EntryID   string          `json:"entryID"`
	AccountID string          `json:"accountID"`
	Amount    decimal.Decimal `json:"amount"`
	EntryType string          `json:"entryType"`
	LoanID    *string         `json:"loanID"`
	Note      string          `json:"note"`
	CreatedAt time.Time       `json:"createdAt"`
	CreatedBy string          `json:"createdBy"`
}
