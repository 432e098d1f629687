package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/kopesha/lending-backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	loanRepo := newPgxLoanRepository(dbPool)
	capitalRepo := newPgxCapitalRepository(dbPool)
	repaymentRepo := newPgxRepaymentRepository(dbPool)
	scheduleRepo := newPgxScheduleRepository(dbPool)
	customerRepo := newPgxCustomerRepository(dbPool)
	activityRepo := newPgxActivityRepository(dbPool)
	settingsRepo := newPgxSettingsRepository(dbPool)

	return portsrepo.RepositoryProvider{
		LoanRepo:      loanRepo,
		CapitalRepo:   capitalRepo,
		RepaymentRepo: repaymentRepo,
		ScheduleRepo:  scheduleRepo,
		CustomerRepo:  customerRepo,
		ActivityRepo:  activityRepo,
		SettingsRepo:  settingsRepo,
	}
}
