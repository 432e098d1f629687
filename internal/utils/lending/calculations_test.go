package lending_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/kopesha/lending-backend/internal/utils/lending"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLoan(principal string, rate string, months int, status domain.LoanStatus) domain.Loan {
	return domain.Loan{
		LoanID:              "loan-1",
		Principal:           decimal.RequireFromString(principal),
		BaseInterestRate:    decimal.RequireFromString(rate),
		CurrentInterestRate: decimal.RequireFromString(rate),
		DurationMonths:      months,
		Status:              status,
	}
}

func TestTotalRepayable(t *testing.T) {
	// 5000 at 25% annual over one month: 5000 + 5000*0.25/12 = 5104.17
	loan := makeLoan("5000", "25", 1, domain.LoanActive)
	assert.Equal(t, "5104.17", lending.TotalRepayable(loan).String())

	// A full year accrues the whole annual rate
	yearLoan := makeLoan("5000", "25", 12, domain.LoanActive)
	assert.Equal(t, "6250", lending.TotalRepayable(yearLoan).String())

	// The current rate drives the figure, not the base rate
	penalized := makeLoan("5000", "25", 12, domain.LoanOverdue)
	penalized.CurrentInterestRate = decimal.RequireFromString("35")
	assert.Equal(t, "6750", lending.TotalRepayable(penalized).String())
}

func TestRemainingBalance(t *testing.T) {
	loan := makeLoan("5000", "25", 1, domain.LoanActive)
	repayments := []domain.Repayment{
		{AmountPaid: decimal.RequireFromString("2000")},
		{AmountPaid: decimal.RequireFromString("1000.50")},
	}
	assert.Equal(t, "2103.67", lending.RemainingBalance(loan, repayments).String())

	// Overpayment goes negative rather than clamping
	repayments = append(repayments, domain.Repayment{AmountPaid: decimal.RequireFromString("3000")})
	assert.True(t, lending.RemainingBalance(loan, repayments).IsNegative())
}

func TestIsOverdue(t *testing.T) {
	today := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	assert.True(t, lending.IsOverdue([]domain.RepaymentScheduleEntry{
		{DueDate: yesterday, IsPaid: false},
	}, today))

	assert.False(t, lending.IsOverdue([]domain.RepaymentScheduleEntry{
		{DueDate: yesterday, IsPaid: true},
	}, today), "paid installments never count")

	assert.False(t, lending.IsOverdue([]domain.RepaymentScheduleEntry{
		{DueDate: tomorrow, IsPaid: false},
	}, today), "future installments never count")

	assert.False(t, lending.IsOverdue(nil, today))
}

func TestResolveOverdueState(t *testing.T) {
	today := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	pastDue := []domain.RepaymentScheduleEntry{{DueDate: today.AddDate(0, 0, -5), IsPaid: false}}
	allCurrent := []domain.RepaymentScheduleEntry{{DueDate: today.AddDate(0, 0, 5), IsPaid: false}}
	penalty := decimal.RequireFromString("10")

	t.Run("active loan past due gets penalty rate", func(t *testing.T) {
		loan := makeLoan("5000", "25", 3, domain.LoanActive)
		res := lending.ResolveOverdueState(loan, pastDue, &penalty, today)
		assert.True(t, res.Changed)
		assert.Equal(t, domain.LoanOverdue, res.Status)
		assert.Equal(t, "35", res.Rate.String())
	})

	t.Run("penalty unavailable still flips status", func(t *testing.T) {
		loan := makeLoan("5000", "25", 3, domain.LoanActive)
		res := lending.ResolveOverdueState(loan, pastDue, nil, today)
		assert.True(t, res.Changed)
		assert.Equal(t, domain.LoanOverdue, res.Status)
		assert.Equal(t, "25", res.Rate.String(), "rate untouched without a penalty value")
	})

	t.Run("overdue loan caught up restores base rate", func(t *testing.T) {
		loan := makeLoan("5000", "25", 3, domain.LoanOverdue)
		loan.CurrentInterestRate = decimal.RequireFromString("35")
		res := lending.ResolveOverdueState(loan, allCurrent, &penalty, today)
		assert.True(t, res.Changed)
		assert.Equal(t, domain.LoanActive, res.Status)
		assert.Equal(t, "25", res.Rate.String())
	})

	t.Run("idempotent when already overdue", func(t *testing.T) {
		loan := makeLoan("5000", "25", 3, domain.LoanOverdue)
		loan.CurrentInterestRate = decimal.RequireFromString("35")
		res := lending.ResolveOverdueState(loan, pastDue, &penalty, today)
		assert.False(t, res.Changed)
		assert.Equal(t, domain.LoanOverdue, res.Status)
		assert.Equal(t, "35", res.Rate.String())
	})

	t.Run("non-lifecycle statuses never change", func(t *testing.T) {
		for _, status := range []domain.LoanStatus{domain.LoanUnverified, domain.LoanApproved, domain.LoanClosed, domain.LoanDefaulted, domain.LoanRejected} {
			loan := makeLoan("5000", "25", 3, status)
			res := lending.ResolveOverdueState(loan, pastDue, &penalty, today)
			assert.False(t, res.Changed, "status %s", status)
			assert.Equal(t, status, res.Status)
		}
	})
}

func TestBuildSchedule(t *testing.T) {
	disbursedAt := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	counter := 0
	newID := func() string {
		counter++
		return fmt.Sprintf("entry-%d", counter)
	}

	loan := makeLoan("5000", "25", 3, domain.LoanActive)
	entries := lending.BuildSchedule(loan, disbursedAt, newID)
	require.Len(t, entries, 3)

	total := lending.TotalRepayable(loan)
	sum := decimal.Zero
	for i, e := range entries {
		assert.Equal(t, i+1, e.InstallmentNumber)
		assert.Equal(t, loan.LoanID, e.LoanID)
		assert.False(t, e.IsPaid)
		assert.True(t, e.DueDate.Equal(disbursedAt.AddDate(0, i+1, 0)), "installment %d due one month apart", i+1)
		sum = sum.Add(e.AmountDue)
	}
	assert.True(t, sum.Equal(total), "schedule must sum exactly to the total repayable: %s vs %s", sum, total)

	// The last installment absorbs the rounding remainder
	first := entries[0].AmountDue
	assert.True(t, entries[1].AmountDue.Equal(first))
	assert.True(t, entries[2].AmountDue.Equal(total.Sub(first.Mul(decimal.NewFromInt(2)))))
}

func TestSettleSchedule(t *testing.T) {
	hundred := decimal.RequireFromString("100")
	entries := []domain.RepaymentScheduleEntry{
		{EntryID: "e1", InstallmentNumber: 1, AmountDue: hundred},
		{EntryID: "e2", InstallmentNumber: 2, AmountDue: hundred},
		{EntryID: "e3", InstallmentNumber: 3, AmountDue: hundred},
	}

	assert.Nil(t, lending.SettleSchedule(entries, decimal.RequireFromString("99.99")), "below the first installment settles nothing")
	assert.Equal(t, []string{"e1"}, lending.SettleSchedule(entries, hundred))
	assert.Equal(t, []string{"e1", "e2"}, lending.SettleSchedule(entries, decimal.RequireFromString("250")))
	assert.Equal(t, []string{"e1", "e2", "e3"}, lending.SettleSchedule(entries, decimal.RequireFromString("300")))

	// Already settled installments are not re-reported
	entries[0].IsPaid = true
	assert.Equal(t, []string{"e2"}, lending.SettleSchedule(entries, decimal.RequireFromString("250")))
}
