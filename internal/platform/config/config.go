package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// DefaultInterestRate is the annual rate (percent) applied to new loans
	// when neither the request nor the settings store supplies one.
	DefaultInterestRate decimal.Decimal

	// StaffDailyDisbursementLimit caps the principal one staff member may
	// disburse per calendar day. Zero or negative disables the cap.
	StaffDailyDisbursementLimit decimal.Decimal

	// Gateway callback rate limiting, e.g. "30-M" for 30 requests per minute.
	CallbackRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("DEFAULT_INTEREST_RATE", "25")
	viper.SetDefault("STAFF_DAILY_DISBURSEMENT_LIMIT", "0")
	viper.SetDefault("CALLBACK_RATE_LIMIT", "30-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.CallbackRateLimit = viper.GetString("CALLBACK_RATE_LIMIT")

	defaultRateStr := viper.GetString("DEFAULT_INTEREST_RATE")
	defaultRate, err := decimal.NewFromString(defaultRateStr)
	if err != nil {
		defaultRate = decimal.NewFromInt(25)
		log.Printf("Warning: Invalid value for DEFAULT_INTEREST_RATE ('%s'). Defaulting to %s.\n", defaultRateStr, defaultRate.String())
	}
	cfg.DefaultInterestRate = defaultRate

	limitStr := viper.GetString("STAFF_DAILY_DISBURSEMENT_LIMIT")
	limit, err := decimal.NewFromString(limitStr)
	if err != nil {
		limit = decimal.Zero
		log.Printf("Warning: Invalid value for STAFF_DAILY_DISBURSEMENT_LIMIT ('%s'). Disabling the daily cap.\n", limitStr)
	}
	cfg.StaffDailyDisbursementLimit = limit

	return cfg, nil
}
