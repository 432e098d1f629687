package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kopesha/lending-backend/internal/apperrors"
	"github.com/kopesha/lending-backend/internal/core/domain"
	portsrepo "github.com/kopesha/lending-backend/internal/core/ports/repositories"
	portssvc "github.com/kopesha/lending-backend/internal/core/ports/services"
	"github.com/kopesha/lending-backend/internal/middleware"
	"github.com/kopesha/lending-backend/internal/utils/lending"
	"github.com/shopspring/decimal"
)

var (
	ErrAmountNotPositive = errors.New("repayment amount must be positive")
	ErrReferenceMissing  = errors.New("repayment reference code is required")
	ErrLoanNotRepayable  = errors.New("loan does not accept repayments in its current status")
)

// repaymentService allocates payments to loans. All mutation happens under the
// loan row lock so two concurrent allocations can never both read a stale
// remaining balance.
type repaymentService struct {
	loanRepo      portsrepo.LoanRepositoryWithTx
	repaymentRepo portsrepo.RepaymentRepositoryFacade
	scheduleRepo  portsrepo.ScheduleRepositoryFacade
	activityRepo  portsrepo.ActivityRepositoryFacade
	settingsSvc   portssvc.SettingsSvcFacade
}

// NewRepaymentService creates a new RepaymentService.
func NewRepaymentService(
	loanRepo portsrepo.LoanRepositoryWithTx,
	repaymentRepo portsrepo.RepaymentRepositoryFacade,
	scheduleRepo portsrepo.ScheduleRepositoryFacade,
	activityRepo portsrepo.ActivityRepositoryFacade,
	settingsSvc portssvc.SettingsSvcFacade,
) portssvc.RepaymentSvcFacade {
	return &repaymentService{
		loanRepo:      loanRepo,
		repaymentRepo: repaymentRepo,
		scheduleRepo:  scheduleRepo,
		activityRepo:  activityRepo,
		settingsSvc:   settingsSvc,
	}
}

var _ portssvc.RepaymentSvcFacade = (*repaymentService)(nil)

// RecordRepayment persists a payment and recomputes the loan's position.
// The reference code is the idempotency key: a replay fails with
// ErrDuplicateReference before any state changes.
func (s *repaymentService) RecordRepayment(ctx context.Context, loanID string, amount decimal.Decimal, method, referenceCode, staffID string) (*domain.Repayment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: %s", ErrAmountNotPositive, amount)
	}
	if referenceCode == "" {
		return nil, ErrReferenceMissing
	}

	// Cheap pre-check so obvious replays never contend for the loan lock.
	// The unique constraint inside the transaction remains the real guard.
	if _, err := s.repaymentRepo.FindRepaymentByReference(ctx, referenceCode); err == nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrDuplicateReference, referenceCode)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check reference code %s: %w", referenceCode, err)
	}

	repayment := domain.Repayment{
		RepaymentID:   uuid.NewString(),
		LoanID:        loanID,
		AmountPaid:    amount,
		PaymentMethod: method,
		ReferenceCode: referenceCode,
		PaymentDate:   time.Now().UTC(),
		RecordedBy:    staffID,
	}

	err := s.loanRepo.WithLoanForUpdate(ctx, loanID, func(tx pgx.Tx, loan *domain.Loan) error {
		return s.allocate(ctx, tx, loan, repayment, staffID)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateReference) {
			logger.Info("Repayment replay ignored", slog.String("loan_id", loanID), slog.String("reference_code", referenceCode))
		} else {
			logger.Error("Failed to record repayment", slog.String("loan_id", loanID), slog.String("error", err.Error()))
		}
		return nil, err
	}

	logger.Info("Repayment recorded", slog.String("loan_id", loanID), slog.String("repayment_id", repayment.RepaymentID), slog.String("amount", amount.String()))
	return &repayment, nil
}

// allocate runs inside the loan-row transaction.
func (s *repaymentService) allocate(ctx context.Context, tx pgx.Tx, loan *domain.Loan, repayment domain.Repayment, staffID string) error {
	if loan.Status.IsTerminal() {
		return fmt.Errorf("%w: loan %s is %s", ErrLoanNotRepayable, loan.LoanID, loan.Status)
	}

	// Disbursed loans become active on their first touch; the DISBURSED ->
	// ACTIVE step is automatic and a repayment may arrive before anything
	// else has run it.
	if loan.Status == domain.LoanDisbursed {
		if err := loan.TransitionTo(domain.LoanActive); err != nil {
			return err
		}
	}
	if loan.Status != domain.LoanActive && loan.Status != domain.LoanOverdue {
		return fmt.Errorf("%w: loan %s is %s", ErrLoanNotRepayable, loan.LoanID, loan.Status)
	}

	if err := s.repaymentRepo.InsertRepaymentTx(ctx, tx, repayment); err != nil {
		return err
	}

	totalPaid, err := s.repaymentRepo.SumRepaymentsForLoanTx(ctx, tx, loan.LoanID)
	if err != nil {
		return fmt.Errorf("failed to sum repayments for loan %s: %w", loan.LoanID, err)
	}

	entries, err := s.scheduleRepo.FindScheduleByLoanIDTx(ctx, tx, loan.LoanID)
	if err != nil {
		return fmt.Errorf("failed to fetch schedule for loan %s: %w", loan.LoanID, err)
	}

	// Settle installments now covered by the cumulative paid amount.
	settled := lending.SettleSchedule(entries, totalPaid)
	if len(settled) > 0 {
		if err := s.scheduleRepo.MarkEntriesPaidTx(ctx, tx, settled); err != nil {
			return fmt.Errorf("failed to mark schedule entries paid: %w", err)
		}
		settledSet := make(map[string]struct{}, len(settled))
		for _, id := range settled {
			settledSet[id] = struct{}{}
		}
		for i := range entries {
			if _, ok := settledSet[entries[i].EntryID]; ok {
				entries[i].IsPaid = true
			}
		}
	}

	now := time.Now().UTC()
	remaining := lending.TotalRepayable(*loan).Sub(totalPaid)
	if remaining.LessThanOrEqual(decimal.Zero) {
		if err := loan.TransitionTo(domain.LoanClosed); err != nil {
			return err
		}
		if err := s.loanRepo.UpdateLoanStatusAndRateTx(ctx, tx, loan.LoanID, loan.Status, loan.CurrentInterestRate, staffID, now); err != nil {
			return fmt.Errorf("failed to close loan %s: %w", loan.LoanID, err)
		}
		if err := s.activityRepo.SaveActivityTx(ctx, tx, s.activity(loan.LoanID, staffID, domain.ActivityFullyRepaid, "Loan fully repaid")); err != nil {
			return err
		}
	} else {
		resolution := lending.ResolveOverdueState(*loan, entries, s.penaltyRate(ctx), now)
		if resolution.Changed {
			if err := loan.TransitionTo(resolution.Status); err != nil {
				return err
			}
			loan.CurrentInterestRate = resolution.Rate
			action := domain.ActivityReinstated
			if loan.Status == domain.LoanOverdue {
				action = domain.ActivityOverdue
			}
			if err := s.activityRepo.SaveActivityTx(ctx, tx, s.activity(loan.LoanID, "", action, fmt.Sprintf("Rate now %s%%", loan.CurrentInterestRate))); err != nil {
				return err
			}
		}
		// Persist even without a recompute change: a loan arriving as
		// DISBURSED was just promoted to ACTIVE above.
		if err := s.loanRepo.UpdateLoanStatusAndRateTx(ctx, tx, loan.LoanID, loan.Status, loan.CurrentInterestRate, staffID, now); err != nil {
			return fmt.Errorf("failed to update loan %s: %w", loan.LoanID, err)
		}
	}

	note := fmt.Sprintf("Repayment of %s via %s (ref %s)", repayment.AmountPaid, repayment.PaymentMethod, repayment.ReferenceCode)
	return s.activityRepo.SaveActivityTx(ctx, tx, s.activity(loan.LoanID, staffID, domain.ActivityRepayment, note))
}

func (s *repaymentService) penaltyRate(ctx context.Context) *decimal.Decimal {
	penalty, err := s.settingsSvc.GetDecimalStrict(ctx, portssvc.SettingOverduePenaltyRate)
	if err != nil {
		return nil
	}
	return &penalty
}

func (s *repaymentService) activity(loanID, staffID, action, note string) domain.LoanActivity {
	return domain.LoanActivity{
		ActivityID: uuid.NewString(),
		LoanID:     loanID,
		StaffID:    staffID,
		Action:     action,
		Note:       note,
		CreatedAt:  time.Now().UTC(),
	}
}

// ListRepaymentsByLoan retrieves all repayments recorded against a loan.
func (s *repaymentService) ListRepaymentsByLoan(ctx context.Context, loanID string) ([]domain.Repayment, error) {
	repayments, err := s.repaymentRepo.FindRepaymentsByLoanID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repayments for loan %s: %w", loanID, err)
	}
	return repayments, nil
}
