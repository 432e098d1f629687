package services

import (
	"context"

	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/kopesha/lending-backend/internal/dto"
)

// LoanSvcFacade owns the loan lifecycle outside of disbursement and repayment:
// intake, verification, approval, rejection, manual default, and the overdue
// recompute used by read paths.
type LoanSvcFacade interface {
	// CreateLoan registers a new application in UNVERIFIED status. When the
	// request carries no interest rate the configured default applies.
	CreateLoan(ctx context.Context, req dto.CreateLoanRequest, staffID string) (*domain.Loan, error)

	// GetLoanByID retrieves a loan.
	GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// GetLoanSummary retrieves a loan together with its derived money figures,
	// running the overdue recompute first so the figures reflect current state.
	GetLoanSummary(ctx context.Context, loanID string) (*dto.LoanSummaryResponse, error)

	// ListLoans retrieves a paginated list of loans.
	ListLoans(ctx context.Context, params dto.ListLoansParams) (*dto.ListLoansResponse, error)

	// VerifyLoan moves UNVERIFIED -> VERIFIED.
	VerifyLoan(ctx context.Context, loanID, staffID, note string) (*domain.Loan, error)

	// ApproveLoan moves VERIFIED -> APPROVED.
	ApproveLoan(ctx context.Context, loanID, staffID, note string) (*domain.Loan, error)

	// RejectLoan moves UNVERIFIED or VERIFIED -> REJECTED (terminal).
	RejectLoan(ctx context.Context, loanID, staffID, note string) (*domain.Loan, error)

	// MarkDefaulted moves ACTIVE or OVERDUE -> DEFAULTED (terminal, manual).
	MarkDefaulted(ctx context.Context, loanID, staffID, note string) (*domain.Loan, error)

	// RecomputeLoanStatus applies the overdue recompute rule to a loan and
	// persists any resulting status/rate change. Idempotent; safe to call
	// speculatively on read paths.
	RecomputeLoanStatus(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListActivities retrieves a loan's narrative log, newest first.
	ListActivities(ctx context.Context, loanID string) ([]domain.LoanActivity, error)

	// ListSchedule retrieves a loan's repayment schedule.
	ListSchedule(ctx context.Context, loanID string) ([]domain.RepaymentScheduleEntry, error)
}
