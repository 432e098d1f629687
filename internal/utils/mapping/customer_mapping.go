package mapping

import (
	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/kopesha/lending-backend/internal/models"
)

// ToModelCustomer converts a domain Customer to a model Customer.
func ToModelCustomer(d domain.Customer) models.Customer {
	return models.Customer{
		CustomerID:  d.CustomerID,
		FullName:    d.FullName,
		Phone:       d.Phone,
		Email:       d.Email,
		NationalID:  d.NationalID,
		Region:      d.Region,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCustomer converts a model Customer to a domain Customer.
func ToDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID:  m.CustomerID,
		FullName:    m.FullName,
		Phone:       m.Phone,
		Email:       m.Email,
		NationalID:  m.NationalID,
		Region:      m.Region,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelActivity converts a domain LoanActivity to a model LoanActivity.
func ToModelActivity(d domain.LoanActivity) models.LoanActivity {
	return models.LoanActivity{
		ActivityID: d.ActivityID,
		LoanID:     d.LoanID,
		StaffID:    d.StaffID,
		Action:     d.Action,
		Note:       d.Note,
		CreatedAt:  d.CreatedAt,
	}
}

// ToDomainActivity converts a model LoanActivity to its domain form.
func ToDomainActivity(m models.LoanActivity) domain.LoanActivity {
	return domain.LoanActivity{
		ActivityID: m.ActivityID,
		LoanID:     m.LoanID,
		StaffID:    m.StaffID,
		Action:     m.Action,
		Note:       m.Note,
		CreatedAt:  m.CreatedAt,
	}
}

// ToDomainActivitySlice converts a slice of model LoanActivities.
func ToDomainActivitySlice(ms []models.LoanActivity) []domain.LoanActivity {
	ds := make([]domain.LoanActivity, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainActivity(m)
	}
	return ds
}
