//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"encoding/json"
	"strings"

	"chweb/internal/repository"
	"chweb/pkg/logger"
)

const (
	keyDefaultAction   = "defaultAction"
	keyEnableAnalytics = "enableAnalytics"

	fallbackDefaultAction = "REJECT"
)

// SettingInput is one item of a settings batch.
type SettingInput struct {
	Key   string
	Value json.RawMessage
}

type SettingsService interface {
	All(ctx context.Context) (map[string]json.RawMessage, error)
	Get(ctx context.Context, key string) (json.RawMessage, error)
	// SaveBatch updates existing keys in one transaction and returns the
	// keys it changed. Unknown keys are skipped.
	SaveBatch(ctx context.Context, items []SettingInput) ([]string, error)
	DefaultAction(ctx context.Context) (string, error)
	AnalyticsEnabled(ctx context.Context) (bool, error)
}

type settingsService struct {
	settings repository.SettingsRepository
	tx       repository.Transactor
}

func NewSettingsService(settings repository.SettingsRepository, tx repository.Transactor) SettingsService {
	return &settingsService{settings: settings, tx: tx}
}

func (s *settingsService) All(ctx context.Context) (map[string]json.RawMessage, error) {
	settings, err := s.settings.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]json.RawMessage, len(settings))
	for _, setting := range settings {
		out[setting.Key] = setting.Value
	}
	return out, nil
}

func (s *settingsService) Get(ctx context.Context, key string) (json.RawMessage, error) {
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, ErrNotFound
	}
	return setting.Value, nil
}

func (s *settingsService) SaveBatch(ctx context.Context, items []SettingInput) ([]string, error) {
	cleaned := make([]SettingInput, 0, len(items))
	for _, item := range items {
		item.Key = strings.TrimSpace(item.Key)
		if item.Key == "" || len(item.Value) == 0 || !json.Valid(item.Value) {
			return nil, ErrInvalid
		}
		cleaned = append(cleaned, item)
	}

	updated := make([]string, 0, len(cleaned))
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, item := range cleaned {
			ok, err := s.settings.UpdateExisting(ctx, item.Key, item.Value)
			if err != nil {
				return err
			}
			if !ok {
				logger.Debug("setting skipped", "module", "service", "action", "update", "resource", "setting", "result", "skipped", "key", item.Key)
				continue
			}
			updated = append(updated, item.Key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DefaultAction returns the configured default action, or "REJECT" when
// the setting is missing or not a JSON string.
func (s *settingsService) DefaultAction(ctx context.Context) (string, error) {
	setting, err := s.settings.Get(ctx, keyDefaultAction)
	if err != nil {
		return "", err
	}
	if setting == nil {
		return fallbackDefaultAction, nil
	}
	var action string
	if err := json.Unmarshal(setting.Value, &action); err != nil || action == "" {
		return fallbackDefaultAction, nil
	}
	return action, nil
}

// AnalyticsEnabled reports the enableAnalytics flag. Anything other than
// a JSON false counts as enabled.
func (s *settingsService) AnalyticsEnabled(ctx context.Context) (bool, error) {
	setting, err := s.settings.Get(ctx, keyEnableAnalytics)
	if err != nil {
		return false, err
	}
	if setting == nil {
		return true, nil
	}
	var enabled bool
	if err := json.Unmarshal(setting.Value, &enabled); err != nil {
		return true, nil
	}
	return enabled, nil
}
