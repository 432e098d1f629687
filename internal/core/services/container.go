package services

import (
	portsrepo "github.com/kopesha/lending-backend/internal/core/ports/repositories"
	portssvc "github.com/kopesha/lending-backend/internal/core/ports/services"
	"github.com/kopesha/lending-backend/internal/platform/config"
)

// NewServiceContainer wires all services with properly initialized dependencies.
// Config supplies the fallback values used when the settings store has no row
// for a key.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, cfg *config.Config) *portssvc.ServiceContainer {
	settingsSvc := NewSettingsService(repos.SettingsRepo)
	customerSvc := NewCustomerService(repos.CustomerRepo)

	loanSvc := NewLoanService(
		repos.LoanRepo,
		repos.ScheduleRepo,
		repos.RepaymentRepo,
		repos.CustomerRepo,
		repos.ActivityRepo,
		settingsSvc,
		cfg.DefaultInterestRate,
	)

	repaymentSvc := NewRepaymentService(
		repos.LoanRepo,
		repos.RepaymentRepo,
		repos.ScheduleRepo,
		repos.ActivityRepo,
		settingsSvc,
	)

	disbursementSvc := NewDisbursementService(
		repos.CapitalRepo,
		repos.LoanRepo,
		repos.ActivityRepo,
		settingsSvc,
		cfg.StaffDailyDisbursementLimit,
	)

	reconciliationSvc := NewReconciliationService(
		repos.CustomerRepo,
		repaymentSvc,
	)

	return &portssvc.ServiceContainer{
		Loan:           loanSvc,
		Disbursement:   disbursementSvc,
		Repayment:      repaymentSvc,
		Reconciliation: reconciliationSvc,
		Customer:       customerSvc,
		Settings:       settingsSvc,
	}
}
