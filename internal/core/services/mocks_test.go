package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kopesha/lending-backend/internal/core/domain"
	portsrepo "github.com/kopesha/lending-backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- MockLoanRepository ---

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLoans(ctx context.Context, limit int, nextToken *string) ([]domain.Loan, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var loans []domain.Loan
	if args.Get(0) != nil {
		loans = args.Get(0).([]domain.Loan)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return loans, token, args.Error(2)
}

func (m *MockLoanRepository) FindLoansByStatuses(ctx context.Context, statuses []domain.LoanStatus) ([]domain.Loan, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) UpdateLoanStatusAndRate(ctx context.Context, loanID string, status domain.LoanStatus, rate decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, loanID, status, rate, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockLoanRepository) UpdateLoanStatusAndRateTx(ctx context.Context, tx pgx.Tx, loanID string, status domain.LoanStatus, rate decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, loanID, status, rate, updatedBy, updatedAt)
	return args.Error(0)
}

// WithLoanForUpdate is configured with Return(lockedLoan, lockErr). When
// lockErr is nil the callback runs against a copy of lockedLoan with a nil
// transaction, mirroring the way the real repository hands the row to fn.
func (m *MockLoanRepository) WithLoanForUpdate(ctx context.Context, loanID string, fn func(tx pgx.Tx, loan *domain.Loan) error) error {
	args := m.Called(ctx, loanID, fn)
	if args.Error(1) != nil {
		return args.Error(1)
	}
	loan := args.Get(0).(*domain.Loan)
	locked := *loan
	return fn(nil, &locked)
}

// --- MockCapitalRepository ---

type MockCapitalRepository struct {
	mock.Mock
}

func (m *MockCapitalRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.CapitalAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapitalAccount), args.Error(1)
}

func (m *MockCapitalRepository) FindDefaultAccount(ctx context.Context) (*domain.CapitalAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CapitalAccount), args.Error(1)
}

func (m *MockCapitalRepository) ListLedgerEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockCapitalRepository) SumDisbursedByStaffSince(ctx context.Context, staffID string, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, staffID, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockCapitalRepository) RecordDisbursement(ctx context.Context, rec portsrepo.DisbursementRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockCapitalRepository) AdjustBalance(ctx context.Context, entry domain.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// --- MockRepaymentRepository ---

type MockRepaymentRepository struct {
	mock.Mock
}

func (m *MockRepaymentRepository) FindRepaymentByReference(ctx context.Context, referenceCode string) (*domain.Repayment, error) {
	args := m.Called(ctx, referenceCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Repayment), args.Error(1)
}

func (m *MockRepaymentRepository) FindRepaymentsByLoanID(ctx context.Context, loanID string) ([]domain.Repayment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repayment), args.Error(1)
}

func (m *MockRepaymentRepository) InsertRepaymentTx(ctx context.Context, tx pgx.Tx, repayment domain.Repayment) error {
	args := m.Called(ctx, tx, repayment)
	return args.Error(0)
}

func (m *MockRepaymentRepository) SumRepaymentsForLoanTx(ctx context.Context, tx pgx.Tx, loanID string) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, loanID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- MockScheduleRepository ---

type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) FindScheduleByLoanID(ctx context.Context, loanID string) ([]domain.RepaymentScheduleEntry, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RepaymentScheduleEntry), args.Error(1)
}

func (m *MockScheduleRepository) FindScheduleByLoanIDTx(ctx context.Context, tx pgx.Tx, loanID string) ([]domain.RepaymentScheduleEntry, error) {
	args := m.Called(ctx, tx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RepaymentScheduleEntry), args.Error(1)
}

func (m *MockScheduleRepository) MarkEntriesPaidTx(ctx context.Context, tx pgx.Tx, entryIDs []string) error {
	args := m.Called(ctx, tx, entryIDs)
	return args.Error(0)
}

// --- MockCustomerRepository ---

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindReconciliationCandidates(ctx context.Context, statuses []domain.LoanStatus) ([]domain.ReconciliationCandidate, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciliationCandidate), args.Error(1)
}

// --- MockActivityRepository ---

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) SaveActivity(ctx context.Context, activity domain.LoanActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) SaveActivityTx(ctx context.Context, tx pgx.Tx, activity domain.LoanActivity) error {
	args := m.Called(ctx, tx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) ListActivitiesByLoanID(ctx context.Context, loanID string) ([]domain.LoanActivity, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanActivity), args.Error(1)
}

// --- MockSettingsRepository ---

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetSetting(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// --- MockRepaymentSvc ---

type MockRepaymentSvc struct {
	mock.Mock
}

func (m *MockRepaymentSvc) RecordRepayment(ctx context.Context, loanID string, amount decimal.Decimal, method, referenceCode, staffID string) (*domain.Repayment, error) {
	args := m.Called(ctx, loanID, amount, method, referenceCode, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Repayment), args.Error(1)
}

func (m *MockRepaymentSvc) ListRepaymentsByLoan(ctx context.Context, loanID string) ([]domain.Repayment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Repayment), args.Error(1)
}
