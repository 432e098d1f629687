package repositories

import "context"

// SettingsRepositoryFacade reads the external settings store. The core treats
// settings as read-only lookups; every consumer carries a fallback value for
// when a key is absent.
type SettingsRepositoryFacade interface {
	// GetSetting retrieves the raw value for a key, or ErrNotFound.
	GetSetting(ctx context.Context, key string) (string, error)
}
