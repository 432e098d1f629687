package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntryType classifies an append-only ledger entry.
type LedgerEntryType string

const (
	EntryDisbursement LedgerEntryType = "DISBURSEMENT"
	EntryAdjustment   LedgerEntryType = "ADJUSTMENT"
	EntryInjection    LedgerEntryType = "CAPITAL_INJECTION"
)

// CapitalAccount is the pool of disbursable funds. Its balance is, at every
// observable point, the exact sum of all signed ledger entries against it:
// a balance mutation and its ledger entry commit as one atomic write.
type CapitalAccount struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	AuditFields
}

// LedgerEntry is an immutable, signed movement against a capital account.
// Disbursements are negative; adjustments carry whatever sign the operator gave.
type LedgerEntry struct {
	EntryID   string          `json:"entryID"`
	AccountID string          `json:"accountID"`
	Amount    decimal.Decimal `json:"amount"`
	EntryType LedgerEntryType `json:"entryType"`
	LoanID    *string         `json:"loanID,omitempty"`
	Note      string          `json:"note"`
	CreatedAt time.Time       `json:"createdAt"`
	CreatedBy string          `json:"createdBy"`
}
