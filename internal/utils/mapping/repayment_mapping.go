package mapping

import (
	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/kopesha/lending-backend/internal/models"
)

// ToModelRepayment converts a domain Repayment to a model Repayment.
func ToModelRepayment(d domain.Repayment) models.Repayment {
	return models.Repayment{
		RepaymentID:   d.RepaymentID,
		LoanID:        d.LoanID,
		AmountPaid:    d.AmountPaid,
		PaymentMethod: d.PaymentMethod,
		ReferenceCode: d.ReferenceCode,
		PaymentDate:   d.PaymentDate,
		RecordedBy:    d.RecordedBy,
	}
}

// ToDomainRepayment converts a model Repayment to a domain Repayment.
func ToDomainRepayment(m models.Repayment) domain.Repayment {
	return domain.Repayment{
		RepaymentID:   m.RepaymentID,
		LoanID:        m.LoanID,
		AmountPaid:    m.AmountPaid,
		PaymentMethod: m.PaymentMethod,
		ReferenceCode: m.ReferenceCode,
		PaymentDate:   m.PaymentDate,
		RecordedBy:    m.RecordedBy,
	}
}

// ToDomainRepaymentSlice converts a slice of model Repayments.
func ToDomainRepaymentSlice(ms []models.Repayment) []domain.Repayment {
	ds := make([]domain.Repayment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainRepayment(m)
	}
	return ds
}

// ToModelScheduleEntry converts a domain schedule entry to its model.
func ToModelScheduleEntry(d domain.RepaymentScheduleEntry) models.RepaymentScheduleEntry {
	return models.RepaymentScheduleEntry{
		EntryID:           d.EntryID,
		LoanID:            d.LoanID,
		InstallmentNumber: d.InstallmentNumber,
		DueDate:           d.DueDate,
		AmountDue:         d.AmountDue,
		IsPaid:            d.IsPaid,
	}
}

// ToDomainScheduleEntry converts a model schedule entry to its domain form.
func ToDomainScheduleEntry(m models.RepaymentScheduleEntry) domain.RepaymentScheduleEntry {
	return domain.RepaymentScheduleEntry{
		EntryID:           m.EntryID,
		LoanID:            m.LoanID,
		InstallmentNumber: m.InstallmentNumber,
		DueDate:           m.DueDate,
		AmountDue:         m.AmountDue,
		IsPaid:            m.IsPaid,
	}
}

// ToDomainScheduleEntrySlice converts a slice of model schedule entries.
func ToDomainScheduleEntrySlice(ms []models.RepaymentScheduleEntry) []domain.RepaymentScheduleEntry {
	ds := make([]domain.RepaymentScheduleEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainScheduleEntry(m)
	}
	return ds
}
