package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kopesha/lending-backend/internal/apperrors"
	portsrepo "github.com/kopesha/lending-backend/internal/core/ports/repositories"
	portssvc "github.com/kopesha/lending-backend/internal/core/ports/services"
	"github.com/kopesha/lending-backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// settingsService reads the external settings store with configured fallbacks.
type settingsService struct {
	settingsRepo portsrepo.SettingsRepositoryFacade
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(settingsRepo portsrepo.SettingsRepositoryFacade) portssvc.SettingsSvcFacade {
	return &settingsService{settingsRepo: settingsRepo}
}

var _ portssvc.SettingsSvcFacade = (*settingsService)(nil)

func (s *settingsService) GetDecimal(ctx context.Context, key string, fallback decimal.Decimal) decimal.Decimal {
	value, err := s.GetDecimalStrict(ctx, key)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Warn("Falling back to default for setting", slog.String("key", key), slog.String("error", err.Error()))
		}
		return fallback
	}
	return value
}

func (s *settingsService) GetDecimalStrict(ctx context.Context, key string) (decimal.Decimal, error) {
	raw, err := s.settingsRepo.GetSetting(ctx, key)
	if err != nil {
		return decimal.Zero, err
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: setting %s is not a decimal: %q", apperrors.ErrValidation, key, raw)
	}
	return value, nil
}
