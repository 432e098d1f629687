package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// Setting keys the core reads from the external settings store.
const (
	SettingDefaultInterestRate = "DEFAULT_INTEREST_RATE"
	SettingOverduePenaltyRate  = "OVERDUE_PENALTY_RATE"
	SettingStaffDailyLimit     = "STAFF_DAILY_DISBURSEMENT_LIMIT"
)

// SettingsSvcFacade reads configuration owned by the external settings store,
// falling back to configured defaults when a key is absent or malformed.
type SettingsSvcFacade interface {
	// GetDecimal returns the decimal value for key, or the fallback.
	GetDecimal(ctx context.Context, key string, fallback decimal.Decimal) decimal.Decimal

	// GetDecimalStrict returns the decimal value for key, or an error when the
	// key is absent or not a decimal. Used where "unavailable" must be
	// distinguished from a default (the overdue penalty rule).
	GetDecimalStrict(ctx context.Context, key string) (decimal.Decimal, error)
}
