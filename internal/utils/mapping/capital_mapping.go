package mapping

import (
	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/kopesha/lending-backend/internal/models"
)

// ToDomainCapitalAccount converts a model CapitalAccount to its domain form.
func ToDomainCapitalAccount(m models.CapitalAccount) domain.CapitalAccount {
	return domain.CapitalAccount{
		AccountID:   m.AccountID,
		Name:        m.Name,
		Balance:     m.Balance,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:   d.EntryID,
		AccountID: d.AccountID,
		Amount:    d.Amount,
		EntryType: string(d.EntryType),
		LoanID:    d.LoanID,
		Note:      d.Note,
		CreatedAt: d.CreatedAt,
		CreatedBy: d.CreatedBy,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to its domain form.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:   m.EntryID,
		AccountID: m.AccountID,
		Amount:    m.Amount,
		EntryType: domain.LedgerEntryType(m.EntryType),
		LoanID:    m.LoanID,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
		CreatedBy: m.CreatedBy,
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries.
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
