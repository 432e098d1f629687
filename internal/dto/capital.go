package dto

import (
	"time"

	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CapitalAccountResponse is the API representation of the capital pool.
type CapitalAccountResponse struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
}

// AdjustCapitalRequest is a signed manual adjustment against the pool.
type AdjustCapitalRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Note   string          `json:"note" binding:"required"`
}

// LedgerEntryResponse is the API representation of one ledger entry.
type LedgerEntryResponse struct {
	EntryID   string          `json:"entryID"`
	AccountID string          `json:"accountID"`
	Amount    decimal.Decimal `json:"amount"`
	EntryType string          `json:"entryType"`
	LoanID    *string         `json:"loanID,omitempty"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ListLedgerEntriesParams holds pagination parameters for the ledger listing.
type ListLedgerEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListLedgerEntriesResponse is a page of ledger entries plus the next token.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToCapitalAccountResponse converts a domain capital account.
func ToCapitalAccountResponse(a *domain.CapitalAccount) CapitalAccountResponse {
	return CapitalAccountResponse{
		AccountID: a.AccountID,
		Name:      a.Name,
		Balance:   a.Balance,
	}
}

// ToLedgerEntryResponses converts a slice of domain ledger entries.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = LedgerEntryResponse{
			EntryID:   e.EntryID,
			AccountID: e.AccountID,
			Amount:    e.Amount,
			EntryType: string(e.EntryType),
			LoanID:    e.LoanID,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		}
	}
	return out
}
