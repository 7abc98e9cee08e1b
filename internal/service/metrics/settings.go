package metrics

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/mamadbah2/farmbook/internal/domain/models"
)

// SettingsResolver resolves string settings, falling back to a caller
// supplied default when the key is missing. Resolving never writes.
type SettingsResolver interface {
	Resolve(ctx context.Context, key, fallback string) (string, error)
}

// SettingGetter is the storage lookup behind StoreSettings. It returns
// models.ErrNotFound for unknown keys.
type SettingGetter interface {
	GetSetting(ctx context.Context, key string) (string, error)
}

// StoreSettings resolves settings from persistent storage.
type StoreSettings struct {
	getter SettingGetter
}

// NewStoreSettings wraps a storage lookup.
func NewStoreSettings(getter SettingGetter) *StoreSettings {
	return &StoreSettings{getter: getter}
}

// Resolve implements SettingsResolver.
func (s *StoreSettings) Resolve(ctx context.Context, key, fallback string) (string, error) {
	value, err := s.getter.GetSetting(ctx, key)
	if errors.Is(err, models.ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve setting %s: %w", key, err)
	}
	return value, nil
}

// StaticSettings is an in-memory resolver.
type StaticSettings map[string]string

// Resolve implements SettingsResolver.
func (s StaticSettings) Resolve(_ context.Context, key, fallback string) (string, error) {
	if value, ok := s[key]; ok {
		return value, nil
	}
	return fallback, nil
}

// EggsPerRack reads the rack size. Unparseable values fall back to the
// default; out-of-range values are passed through unchanged since bounds are
// enforced when the setting is written.
func EggsPerRack(ctx context.Context, resolver SettingsResolver) (int, error) {
	raw, err := resolver.Resolve(ctx, models.SettingEggsPerRack, strconv.Itoa(models.DefaultEggsPerRack))
	if err != nil {
		return 0, err
	}
	return models.ParseIntOr(raw, models.DefaultEggsPerRack), nil
}
