package domain_test

import (
	"testing"

	"github.com/kopesha/lending-backend/internal/apperrors"
	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestLoanStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from  domain.LoanStatus
		to    domain.LoanStatus
		legal bool
	}{
		{domain.LoanUnverified, domain.LoanVerified, true},
		{domain.LoanUnverified, domain.LoanRejected, true},
		{domain.LoanUnverified, domain.LoanApproved, false},
		{domain.LoanVerified, domain.LoanApproved, true},
		{domain.LoanVerified, domain.LoanRejected, true},
		{domain.LoanVerified, domain.LoanDisbursed, false},
		{domain.LoanApproved, domain.LoanDisbursed, true},
		{domain.LoanApproved, domain.LoanRejected, false},
		{domain.LoanApproved, domain.LoanActive, false},
		{domain.LoanDisbursed, domain.LoanActive, true},
		{domain.LoanDisbursed, domain.LoanClosed, false},
		{domain.LoanActive, domain.LoanOverdue, true},
		{domain.LoanActive, domain.LoanClosed, true},
		{domain.LoanActive, domain.LoanDefaulted, true},
		{domain.LoanActive, domain.LoanVerified, false},
		{domain.LoanOverdue, domain.LoanActive, true},
		{domain.LoanOverdue, domain.LoanClosed, true},
		{domain.LoanOverdue, domain.LoanDefaulted, true},
	}

	for _, tt := range tests {
		got := tt.from.CanTransitionTo(tt.to)
		assert.Equal(t, tt.legal, got, "%s -> %s", tt.from, tt.to)
	}
}

func TestLoanStatus_TerminalStatesAllowNothing(t *testing.T) {
	terminals := []domain.LoanStatus{domain.LoanClosed, domain.LoanRejected, domain.LoanDefaulted}
	all := []domain.LoanStatus{
		domain.LoanUnverified, domain.LoanVerified, domain.LoanApproved,
		domain.LoanDisbursed, domain.LoanActive, domain.LoanOverdue,
		domain.LoanClosed, domain.LoanRejected, domain.LoanDefaulted,
	}

	for _, terminal := range terminals {
		assert.True(t, terminal.IsTerminal(), "%s should be terminal", terminal)
		for _, next := range all {
			assert.False(t, terminal.CanTransitionTo(next), "%s -> %s must be illegal", terminal, next)
		}
	}

	assert.False(t, domain.LoanActive.IsTerminal())
	assert.False(t, domain.LoanOverdue.IsTerminal())
	assert.False(t, domain.LoanUnverified.IsTerminal())
}

func TestLoan_TransitionTo(t *testing.T) {
	loan := domain.Loan{LoanID: "loan-1", Status: domain.LoanUnverified}

	assert.NoError(t, loan.TransitionTo(domain.LoanVerified))
	assert.Equal(t, domain.LoanVerified, loan.Status)

	assert.NoError(t, loan.TransitionTo(domain.LoanApproved))
	assert.Equal(t, domain.LoanApproved, loan.Status)

	// Illegal jump leaves the loan untouched
	err := loan.TransitionTo(domain.LoanClosed)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, domain.LoanApproved, loan.Status)
}
