package lending

import (
	"time"

	"github.com/kopesha/lending-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred      = decimal.NewFromInt(100)
	twelveMonths = decimal.NewFromInt(12)
)

// TotalRepayable computes principal + simple interest over the full duration,
// using the loan's current rate: principal * rate/100 * months/12.
// Recomputed on demand so a rate change (overdue penalty) is always reflected.
func TotalRepayable(loan domain.Loan) decimal.Decimal {
	interest := loan.Principal.
		Mul(loan.CurrentInterestRate).
		Div(hundred).
		Mul(decimal.NewFromInt(int64(loan.DurationMonths))).
		Div(twelveMonths)
	return loan.Principal.Add(interest).Round(2)
}

// RemainingBalance is what is still owed after the given repayments.
func RemainingBalance(loan domain.Loan, repayments []domain.Repayment) decimal.Decimal {
	paid := decimal.Zero
	for _, r := range repayments {
		paid = paid.Add(r.AmountPaid)
	}
	return TotalRepayable(loan).Sub(paid)
}

// IsOverdue reports whether any schedule entry is unpaid and past due as of today.
func IsOverdue(entries []domain.RepaymentScheduleEntry, today time.Time) bool {
	day := today.Truncate(24 * time.Hour)
	for _, e := range entries {
		if !e.IsPaid && e.DueDate.Before(day) {
			return true
		}
	}
	return false
}

// OverdueResolution is the outcome of applying the overdue recompute rule.
type OverdueResolution struct {
	Status  domain.LoanStatus
	Rate    decimal.Decimal
	Changed bool
}

// ResolveOverdueState applies the idempotent overdue recompute rule.
//
// Only ACTIVE and OVERDUE loans are eligible; terminal and pre-disbursement
// statuses resolve to no change. When the loan becomes overdue the rate is
// bumped to base + penalty; penaltyRate may be nil when the configured value
// is unavailable, in which case the status still transitions but the rate is
// left as-is. Leaving overdue restores the base rate. Calling this repeatedly
// with the same inputs always yields the same outcome.
func ResolveOverdueState(loan domain.Loan, entries []domain.RepaymentScheduleEntry, penaltyRate *decimal.Decimal, today time.Time) OverdueResolution {
	unchanged := OverdueResolution{Status: loan.Status, Rate: loan.CurrentInterestRate}
	if loan.Status != domain.LoanActive && loan.Status != domain.LoanOverdue {
		return unchanged
	}

	overdue := IsOverdue(entries, today)
	switch {
	case overdue && loan.Status != domain.LoanOverdue:
		rate := loan.CurrentInterestRate
		if penaltyRate != nil {
			rate = loan.BaseInterestRate.Add(*penaltyRate)
		}
		return OverdueResolution{Status: domain.LoanOverdue, Rate: rate, Changed: true}
	case !overdue && loan.Status == domain.LoanOverdue:
		return OverdueResolution{Status: domain.LoanActive, Rate: loan.BaseInterestRate, Changed: true}
	default:
		return unchanged
	}
}

// BuildSchedule splits the loan's total repayable into equal monthly
// installments starting one month after the given disbursement time. The last
// installment absorbs the rounding remainder so the schedule sums exactly to
// the total.
func BuildSchedule(loan domain.Loan, disbursedAt time.Time, newEntryID func() string) []domain.RepaymentScheduleEntry {
	total := TotalRepayable(loan)
	months := loan.DurationMonths
	if months <= 0 {
		return nil
	}

	installment := total.Div(decimal.NewFromInt(int64(months))).Round(2)
	entries := make([]domain.RepaymentScheduleEntry, months)
	allocated := decimal.Zero
	for i := 0; i < months; i++ {
		amount := installment
		if i == months-1 {
			amount = total.Sub(allocated)
		}
		allocated = allocated.Add(amount)
		entries[i] = domain.RepaymentScheduleEntry{
			EntryID:           newEntryID(),
			LoanID:            loan.LoanID,
			InstallmentNumber: i + 1,
			DueDate:           disbursedAt.AddDate(0, i+1, 0),
			AmountDue:         amount,
			IsPaid:            false,
		}
	}
	return entries
}

// SettleSchedule marks the oldest unpaid entries as paid while the cumulative
// amount paid covers them, returning the IDs of entries newly settled.
// Entries must be ordered by installment number.
func SettleSchedule(entries []domain.RepaymentScheduleEntry, totalPaid decimal.Decimal) []string {
	covered := decimal.Zero
	var settled []string
	for _, e := range entries {
		covered = covered.Add(e.AmountDue)
		if covered.GreaterThan(totalPaid) {
			break
		}
		if !e.IsPaid {
			settled = append(settled, e.EntryID)
		}
	}
	return settled
}
