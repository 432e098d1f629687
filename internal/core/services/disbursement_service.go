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
	ErrDailyLimitExceeded  = errors.New("staff daily disbursement limit exceeded")
	ErrAdjustmentZero      = errors.New("capital adjustment amount may not be zero")
	ErrBalanceWouldGoBelow = errors.New("capital adjustment would make the balance negative")
)

// disbursementService coordinates payouts against the shared capital pool.
// The pool is the single point of serialization: the repository holds an
// exclusive lock on its row for the whole atomic unit.
type disbursementService struct {
	capitalRepo  portsrepo.CapitalRepositoryFacade
	loanRepo     portsrepo.LoanRepositoryWithTx
	activityRepo portsrepo.ActivityRepositoryFacade
	settingsSvc  portssvc.SettingsSvcFacade

	staffDailyLimit decimal.Decimal // config fallback; zero disables the check
}

// NewDisbursementService creates a new DisbursementService.
func NewDisbursementService(
	capitalRepo portsrepo.CapitalRepositoryFacade,
	loanRepo portsrepo.LoanRepositoryWithTx,
	activityRepo portsrepo.ActivityRepositoryFacade,
	settingsSvc portssvc.SettingsSvcFacade,
	staffDailyLimit decimal.Decimal,
) portssvc.DisbursementSvcFacade {
	return &disbursementService{
		capitalRepo:     capitalRepo,
		loanRepo:        loanRepo,
		activityRepo:    activityRepo,
		settingsSvc:     settingsSvc,
		staffDailyLimit: staffDailyLimit,
	}
}

var _ portssvc.DisbursementSvcFacade = (*disbursementService)(nil)

// Disburse pays out an APPROVED loan as one atomic unit. The status precondition
// is checked here for a fast failure and re-checked by the repository under the
// capital lock, which closes the race between two coordinators targeting the
// same loan.
func (s *disbursementService) Disburse(ctx context.Context, loanID, staffID string) (*domain.Loan, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to find loan %s: %w", loanID, err)
	}
	if loan.Status != domain.LoanApproved {
		return nil, fmt.Errorf("%w: loan %s is %s, expected %s", apperrors.ErrInvalidTransition, loanID, loan.Status, domain.LoanApproved)
	}

	account, err := s.capitalRepo.FindDefaultAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find capital account: %w", err)
	}

	if err := s.checkDailyLimit(ctx, staffID, loan.Principal); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := portsrepo.DisbursementRecord{
		AccountID: account.AccountID,
		Loan:      *loan,
		Entry: domain.LedgerEntry{
			EntryID:   uuid.NewString(),
			AccountID: account.AccountID,
			Amount:    loan.Principal.Neg(),
			EntryType: domain.EntryDisbursement,
			LoanID:    &loan.LoanID,
			Note:      fmt.Sprintf("Disbursement for loan %s", loan.LoanID),
			CreatedAt: now,
			CreatedBy: staffID,
		},
		Activity: domain.LoanActivity{
			ActivityID: uuid.NewString(),
			LoanID:     loan.LoanID,
			StaffID:    staffID,
			Action:     domain.ActivityDisbursement,
			Note:       fmt.Sprintf("Disbursed %s to customer %s", loan.Principal, loan.CustomerID),
			CreatedAt:  now,
		},
		Schedule:    lending.BuildSchedule(*loan, now, uuid.NewString),
		DisbursedAt: now,
		StaffID:     staffID,
	}

	if err := s.capitalRepo.RecordDisbursement(ctx, rec); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInsufficientCapital):
			logger.Warn("Disbursement blocked: insufficient capital", slog.String("loan_id", loanID), slog.String("principal", loan.Principal.String()))
		case errors.Is(err, apperrors.ErrLockTimeout):
			logger.Warn("Disbursement lock wait timed out", slog.String("loan_id", loanID))
		default:
			logger.Error("Failed to record disbursement", slog.String("loan_id", loanID), slog.String("error", err.Error()))
		}
		return nil, err
	}

	// DISBURSED -> ACTIVE is automatic; the repository persisted the final
	// state, so mirror it here.
	loan.Status = domain.LoanActive
	loan.DisbursedAt = &now
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = staffID

	logger.Info("Loan disbursed", slog.String("loan_id", loanID), slog.String("principal", loan.Principal.String()), slog.String("staff_id", staffID))
	return loan, nil
}

// checkDailyLimit enforces the per-staff daily disbursement cap. A limit of
// zero (unset) disables the check.
func (s *disbursementService) checkDailyLimit(ctx context.Context, staffID string, principal decimal.Decimal) error {
	limit := s.settingsSvc.GetDecimal(ctx, portssvc.SettingStaffDailyLimit, s.staffDailyLimit)
	if limit.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)
	disbursedToday, err := s.capitalRepo.SumDisbursedByStaffSince(ctx, staffID, startOfDay)
	if err != nil {
		return fmt.Errorf("failed to total today's disbursements for staff %s: %w", staffID, err)
	}
	if disbursedToday.Add(principal).GreaterThan(limit) {
		return fmt.Errorf("%w: %s disbursed today, limit %s", ErrDailyLimitExceeded, disbursedToday, limit)
	}
	return nil
}

// AdjustCapital applies a signed manual adjustment under the capital lock.
func (s *disbursementService) AdjustCapital(ctx context.Context, req dto.AdjustCapitalRequest, staffID string) (*domain.CapitalAccount, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.IsZero() {
		return nil, ErrAdjustmentZero
	}

	account, err := s.capitalRepo.FindDefaultAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find capital account: %w", err)
	}

	entry := domain.LedgerEntry{
		EntryID:   uuid.NewString(),
		AccountID: account.AccountID,
		Amount:    req.Amount,
		EntryType: domain.EntryAdjustment,
		Note:      req.Note,
		CreatedAt: time.Now().UTC(),
		CreatedBy: staffID,
	}
	if req.Amount.IsPositive() {
		entry.EntryType = domain.EntryInjection
	}

	if err := s.capitalRepo.AdjustBalance(ctx, entry); err != nil {
		logger.Error("Failed to adjust capital", slog.String("account_id", account.AccountID), slog.String("error", err.Error()))
		return nil, err
	}

	updated, err := s.capitalRepo.FindAccountByID(ctx, account.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read capital account: %w", err)
	}

	logger.Info("Capital adjusted", slog.String("account_id", account.AccountID), slog.String("amount", req.Amount.String()), slog.String("balance", updated.Balance.String()))
	return updated, nil
}

// GetCapitalAccount retrieves the capital pool.
func (s *disbursementService) GetCapitalAccount(ctx context.Context) (*domain.CapitalAccount, error) {
	account, err := s.capitalRepo.FindDefaultAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find capital account: %w", err)
	}
	return account, nil
}

// ListLedgerEntries retrieves a page of the pool's ledger.
func (s *disbursementService) ListLedgerEntries(ctx context.Context, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error) {
	account, err := s.capitalRepo.FindDefaultAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find capital account: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	entries, nextToken, err := s.capitalRepo.ListLedgerEntries(ctx, account.AccountID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve ledger entries: %w", err)
	}

	return &dto.ListLedgerEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// HandlePayoutResult records the payout collaborator's callback. A failed
// payout lands after the loan was already optimistically marked disbursed;
// reversal is a manual workflow, so this only leaves an operator trail.
func (s *disbursementService) HandlePayoutResult(ctx context.Context, result dto.PayoutResult) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if result.ResultCode == 0 {
		logger.Info("Payout confirmed", slog.String("transaction_id", result.TransactionID), slog.String("originator_id", result.OriginatorID))
		return nil
	}

	logger.Error("Payout failed after disbursement; manual reversal required",
		slog.Int("result_code", result.ResultCode),
		slog.String("transaction_id", result.TransactionID),
		slog.String("originator_id", result.OriginatorID),
	)

	// The originator ID carries the loan ID we sent with the payout request.
	if result.OriginatorID != "" {
		activity := domain.LoanActivity{
			ActivityID: uuid.NewString(),
			LoanID:     result.OriginatorID,
			Action:     domain.ActivityPayoutFailed,
			Note:       fmt.Sprintf("Payout failed with code %d (transaction %s), manual reversal required", result.ResultCode, result.TransactionID),
			CreatedAt:  time.Now().UTC(),
		}
		if err := s.activityRepo.SaveActivity(ctx, activity); err != nil {
			logger.Error("Failed to record payout failure activity", slog.String("loan_id", result.OriginatorID), slog.String("error", err.Error()))
		}
	}
	return nil
}
