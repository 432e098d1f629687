package domain

import (
	"fmt"
	"time"

	"github.com/kopesha/lending-backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanUnverified LoanStatus = "UNVERIFIED"
	LoanVerified   LoanStatus = "VERIFIED"
	LoanApproved   LoanStatus = "APPROVED"
	LoanDisbursed  LoanStatus = "DISBURSED"
	LoanActive     LoanStatus = "ACTIVE"
	LoanOverdue    LoanStatus = "OVERDUE"
	LoanClosed     LoanStatus = "CLOSED"
	LoanRejected   LoanStatus = "REJECTED"
	LoanDefaulted  LoanStatus = "DEFAULTED"
)

// legalTransitions is the single source of truth for the loan state machine.
// Every status write must go through Loan.TransitionTo; nothing else may touch
// the status field.
var legalTransitions = map[LoanStatus][]LoanStatus{
	LoanUnverified: {LoanVerified, LoanRejected},
	LoanVerified:   {LoanApproved, LoanRejected},
	LoanApproved:   {LoanDisbursed},
	LoanDisbursed:  {LoanActive},
	LoanActive:     {LoanOverdue, LoanClosed, LoanDefaulted},
	LoanOverdue:    {LoanActive, LoanClosed, LoanDefaulted},
	// CLOSED, REJECTED, DEFAULTED are terminal.
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	for _, allowed := range legalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (s LoanStatus) IsTerminal() bool {
	return len(legalTransitions[s]) == 0
}

// Loan is a single micro-loan. Principal and rates are fixed-point decimals;
// CurrentInterestRate equals BaseInterestRate unless an overdue penalty is in
// effect.
type Loan struct {
	LoanID              string          `json:"loanID"`
	CustomerID          string          `json:"customerID"`
	Principal           decimal.Decimal `json:"principal"`
	BaseInterestRate    decimal.Decimal `json:"baseInterestRate"`    // annual percent, set once at creation
	CurrentInterestRate decimal.Decimal `json:"currentInterestRate"` // base, or base + penalty while overdue
	DurationMonths      int             `json:"durationMonths"`
	LoanReason          string          `json:"loanReason"`
	Status              LoanStatus      `json:"status"`
	DisbursedAt         *time.Time      `json:"disbursedAt"`
	AuditFields
}

// TransitionTo mutates the loan status if the transition is legal, returning
// ErrInvalidTransition otherwise. The loan is untouched on failure.
func (l *Loan) TransitionTo(next LoanStatus) error {
	if !l.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s for loan %s", apperrors.ErrInvalidTransition, l.Status, next, l.LoanID)
	}
	l.Status = next
	return nil
}
