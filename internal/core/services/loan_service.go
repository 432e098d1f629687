package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kopesha/lending-backend/internal/apperrors"
	"github.com/kopesha/lending-backend/internal/core/domain"
	portsrepo "github.com/kopesha/lending-backend/internal/core/ports/repositories"
	portssvc "github.com/kopesha/lending-backend/internal/core/ports/services"
	"github.com/kopesha/lending-backend/internal/dto"
	"github.com/kopesha/lending-backend/internal/middleware"
	"github.com/kopesha/lending-backend/internal/utils/lending"
	"github.com/shopspring/decimal"
)

var (
	ErrPrincipalNotPositive = errors.New("loan principal must be positive")
	ErrCustomerMissing      = errors.New("loan customer not found")
)

// loanService owns the loan lifecycle outside of disbursement and repayment.
type loanService struct {
	loanRepo      portsrepo.LoanRepositoryWithTx
	scheduleRepo  portsrepo.ScheduleRepositoryFacade
	repaymentRepo portsrepo.RepaymentRepositoryFacade
	customerRepo  portsrepo.CustomerRepositoryFacade
	activityRepo  portsrepo.ActivityRepositoryFacade
	settingsSvc   portssvc.SettingsSvcFacade

	defaultInterestRate decimal.Decimal // config fallback when the settings store has no value
}

// NewLoanService creates a new LoanService.
func NewLoanService(
	loanRepo portsrepo.LoanRepositoryWithTx,
	scheduleRepo portsrepo.ScheduleRepositoryFacade,
	repaymentRepo portsrepo.RepaymentRepositoryFacade,
	customerRepo portsrepo.CustomerRepositoryFacade,
	activityRepo portsrepo.ActivityRepositoryFacade,
	settingsSvc portssvc.SettingsSvcFacade,
	defaultInterestRate decimal.Decimal,
) portssvc.LoanSvcFacade {
	return &loanService{
		loanRepo:            loanRepo,
		scheduleRepo:        scheduleRepo,
		repaymentRepo:       repaymentRepo,
		customerRepo:        customerRepo,
		activityRepo:        activityRepo,
		settingsSvc:         settingsSvc,
		defaultInterestRate: defaultInterestRate,
	}
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// CreateLoan registers a new application in UNVERIFIED status.
func (s *loanService) CreateLoan(ctx context.Context, req dto.CreateLoanRequest, staffID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Principal.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %s", ErrPrincipalNotPositive, req.Principal)
	}
	if req.DurationMonths <= 0 {
		return nil, fmt.Errorf("%w: duration must be at least one month", apperrors.ErrValidation)
	}

	if _, err := s.customerRepo.FindCustomerByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCustomerMissing, req.CustomerID)
		}
		return nil, fmt.Errorf("failed to fetch customer %s: %w", req.CustomerID, err)
	}

	// Base rate: request value, else the settings store, else the config default.
	rate := s.settingsSvc.GetDecimal(ctx, portssvc.SettingDefaultInterestRate, s.defaultInterestRate)
	if req.InterestRate != nil {
		rate = *req.InterestRate
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("%w: interest rate may not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	loan := domain.Loan{
		LoanID:              uuid.NewString(),
		CustomerID:          req.CustomerID,
		Principal:           req.Principal,
		BaseInterestRate:    rate,
		CurrentInterestRate: rate,
		DurationMonths:      req.DurationMonths,
		LoanReason:          req.LoanReason,
		Status:              domain.LoanUnverified,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     staffID,
			LastUpdatedAt: now,
			LastUpdatedBy: staffID,
		},
	}

	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		logger.Error("Failed to save loan", slog.String("error", err.Error()), slog.String("customer_id", req.CustomerID))
		return nil, fmt.Errorf("failed to save loan: %w", err)
	}

	s.appendActivity(ctx, loan.LoanID, staffID, domain.ActivityCreated, "Loan application created")

	logger.Info("Loan created", slog.String("loan_id", loan.LoanID), slog.String("customer_id", loan.CustomerID))
	return &loan, nil
}

// GetLoanByID retrieves a loan.
func (s *loanService) GetLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to find loan %s: %w", loanID, err)
	}
	return loan, nil
}

// GetLoanSummary returns the loan with its derived money figures. The overdue
// recompute runs first so the summary never shows a stale rate or status.
func (s *loanService) GetLoanSummary(ctx context.Context, loanID string) (*dto.LoanSummaryResponse, error) {
	loan, err := s.RecomputeLoanStatus(ctx, loanID)
	if err != nil {
		return nil, err
	}

	repayments, err := s.repaymentRepo.FindRepaymentsByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repayments for loan %s: %w", loanID, err)
	}
	entries, err := s.scheduleRepo.FindScheduleByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for loan %s: %w", loanID, err)
	}

	paid := decimal.Zero
	for _, r := range repayments {
		paid = paid.Add(r.AmountPaid)
	}
	total := lending.TotalRepayable(*loan)

	return &dto.LoanSummaryResponse{
		LoanResponse:     dto.ToLoanResponse(loan),
		TotalRepayable:   total,
		AmountPaid:       paid,
		RemainingBalance: total.Sub(paid),
		IsOverdue:        lending.IsOverdue(entries, time.Now().UTC()),
	}, nil
}

// ListLoans retrieves a paginated list of loans.
func (s *loanService) ListLoans(ctx context.Context, params dto.ListLoansParams) (*dto.ListLoansResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	loans, nextToken, err := s.loanRepo.ListLoans(ctx, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve loans: %w", err)
	}
	return &dto.ListLoansResponse{
		Loans:     dto.ToLoanResponses(loans),
		NextToken: nextToken,
	}, nil
}

// VerifyLoan moves UNVERIFIED -> VERIFIED.
func (s *loanService) VerifyLoan(ctx context.Context, loanID, staffID, note string) (*domain.Loan, error) {
	return s.transition(ctx, loanID, domain.LoanVerified, staffID, note, domain.ActivityVerified)
}

// ApproveLoan moves VERIFIED -> APPROVED.
func (s *loanService) ApproveLoan(ctx context.Context, loanID, staffID, note string) (*domain.Loan, error) {
	return s.transition(ctx, loanID, domain.LoanApproved, staffID, note, domain.ActivityApproved)
}

// RejectLoan moves UNVERIFIED or VERIFIED -> REJECTED.
func (s *loanService) RejectLoan(ctx context.Context, loanID, staffID, note string) (*domain.Loan, error) {
	return s.transition(ctx, loanID, domain.LoanRejected, staffID, note, domain.ActivityRejected)
}

// MarkDefaulted moves ACTIVE or OVERDUE -> DEFAULTED.
func (s *loanService) MarkDefaulted(ctx context.Context, loanID, staffID, note string) (*domain.Loan, error) {
	return s.transition(ctx, loanID, domain.LoanDefaulted, staffID, note, domain.ActivityDefaulted)
}

// transition applies a manual status change through the state machine and
// records the activity.
func (s *loanService) transition(ctx context.Context, loanID string, next domain.LoanStatus, staffID, note, action string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to find loan %s: %w", loanID, err)
	}

	if err := loan.TransitionTo(next); err != nil {
		logger.Warn("Rejected loan status change", slog.String("loan_id", loanID), slog.String("target_status", string(next)), slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.loanRepo.UpdateLoanStatusAndRate(ctx, loanID, loan.Status, loan.CurrentInterestRate, staffID, now); err != nil {
		logger.Error("Failed to persist loan status change", slog.String("loan_id", loanID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update loan %s: %w", loanID, err)
	}
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = staffID

	s.appendActivity(ctx, loanID, staffID, action, note)

	logger.Info("Loan status changed", slog.String("loan_id", loanID), slog.String("status", string(loan.Status)))
	return loan, nil
}

// RecomputeLoanStatus applies the overdue recompute rule and persists any
// resulting change. Idempotent for a given set of inputs.
func (s *loanService) RecomputeLoanStatus(ctx context.Context, loanID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to find loan %s: %w", loanID, err)
	}
	if loan.Status != domain.LoanActive && loan.Status != domain.LoanOverdue {
		return loan, nil
	}

	entries, err := s.scheduleRepo.FindScheduleByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for loan %s: %w", loanID, err)
	}

	resolution := lending.ResolveOverdueState(*loan, entries, s.penaltyRate(ctx), time.Now().UTC())
	if !resolution.Changed {
		return loan, nil
	}

	if err := loan.TransitionTo(resolution.Status); err != nil {
		return nil, err
	}
	loan.CurrentInterestRate = resolution.Rate

	now := time.Now().UTC()
	if err := s.loanRepo.UpdateLoanStatusAndRate(ctx, loanID, loan.Status, loan.CurrentInterestRate, "", now); err != nil {
		logger.Error("Failed to persist overdue recompute", slog.String("loan_id", loanID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to update loan %s: %w", loanID, err)
	}

	action := domain.ActivityReinstated
	if loan.Status == domain.LoanOverdue {
		action = domain.ActivityOverdue
	}
	s.appendActivity(ctx, loanID, "", action, fmt.Sprintf("Rate now %s%%", loan.CurrentInterestRate))

	logger.Info("Overdue recompute changed loan", slog.String("loan_id", loanID), slog.String("status", string(loan.Status)), slog.String("rate", loan.CurrentInterestRate.String()))
	return loan, nil
}

// penaltyRate reads the overdue penalty from the settings store. A nil return
// means the value is unavailable; the recompute then transitions status
// without touching the rate.
func (s *loanService) penaltyRate(ctx context.Context) *decimal.Decimal {
	penalty, err := s.settingsSvc.GetDecimalStrict(ctx, portssvc.SettingOverduePenaltyRate)
	if err != nil {
		return nil
	}
	return &penalty
}

// ListActivities retrieves a loan's narrative log.
func (s *loanService) ListActivities(ctx context.Context, loanID string) ([]domain.LoanActivity, error) {
	activities, err := s.activityRepo.ListActivitiesByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activities for loan %s: %w", loanID, err)
	}
	return activities, nil
}

// ListSchedule retrieves a loan's repayment schedule.
func (s *loanService) ListSchedule(ctx context.Context, loanID string) ([]domain.RepaymentScheduleEntry, error) {
	entries, err := s.scheduleRepo.FindScheduleByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedule for loan %s: %w", loanID, err)
	}
	return entries, nil
}

// appendActivity best-effort appends to the narrative log. Activity write
// failures are logged, not propagated: the log is a trail, not a ledger.
func (s *loanService) appendActivity(ctx context.Context, loanID, staffID, action, note string) {
	activity := domain.LoanActivity{
		ActivityID: uuid.NewString(),
		LoanID:     loanID,
		StaffID:    staffID,
		Action:     action,
		Note:       note,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.activityRepo.SaveActivity(ctx, activity); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to record loan activity", slog.String("loan_id", loanID), slog.String("action", action), slog.String("error", err.Error()))
	}
}
