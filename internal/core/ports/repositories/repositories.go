package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	LoanRepo      LoanRepositoryWithTx
	CapitalRepo   CapitalRepositoryFacade
	RepaymentRepo RepaymentRepositoryFacade
	ScheduleRepo  ScheduleRepositoryFacade
	CustomerRepo  CustomerRepositoryFacade
	ActivityRepo  ActivityRepositoryFacade
	SettingsRepo  SettingsRepositoryFacade
}
