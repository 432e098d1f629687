package mapping

import (
	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/kopesha/lending-backend/internal/models"
)

// ToModelLoan converts a domain Loan to a model Loan.
func ToModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:              d.LoanID,
		CustomerID:          d.CustomerID,
		Principal:           d.Principal,
		BaseInterestRate:    d.BaseInterestRate,
		CurrentInterestRate: d.CurrentInterestRate,
		DurationMonths:      d.DurationMonths,
		LoanReason:          d.LoanReason,
		Status:              models.LoanStatus(d.Status),
		DisbursedAt:         d.DisbursedAt,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLoan converts a model Loan to a domain Loan.
func ToDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:              m.LoanID,
		CustomerID:          m.CustomerID,
		Principal:           m.Principal,
		BaseInterestRate:    m.BaseInterestRate,
		CurrentInterestRate: m.CurrentInterestRate,
		DurationMonths:      m.DurationMonths,
		LoanReason:          m.LoanReason,
		Status:              domain.LoanStatus(m.Status),
		DisbursedAt:         m.DisbursedAt,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLoanSlice converts a slice of model Loans.
func ToDomainLoanSlice(ms []models.Loan) []domain.Loan {
	ds := make([]domain.Loan, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLoan(m)
	}
	return ds
}
