package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Taka-cst/ShiftManager/internal/eligibility"
)

// SettingsRepository exposes key/value configuration rows.
type SettingsRepository interface {
	ListSettings(ctx context.Context, prefix string) (map[string]string, error)
	PutSettings(ctx context.Context, values map[string]string) error
}

// SettingsService reads and writes the weekday eligibility configuration.
// Every read goes to the repository so administrator changes apply to the
// next request.
type SettingsService struct {
	settings SettingsRepository
	logger   *slog.Logger
}

// NewSettingsService wires dependencies for the settings service.
func NewSettingsService(settings SettingsRepository) *SettingsService {
	return NewSettingsServiceWithLogger(settings, nil)
}

// NewSettingsServiceWithLogger wires dependencies with a specified logger.
func NewSettingsServiceWithLogger(settings SettingsRepository, logger *slog.Logger) *SettingsService {
	return &SettingsService{settings: settings, logger: defaultLogger(logger)}
}

// CurrentDayOfWeekSettings loads the weekday flags for any caller.
func (s *SettingsService) CurrentDayOfWeekSettings(ctx context.Context) (eligibility.Settings, error) {
	if s == nil {
		return eligibility.Settings{}, fmt.Errorf("SettingsService is nil")
	}
	if s.settings == nil {
		return eligibility.Settings{}, fmt.Errorf("settings repository not configured")
	}

	values, err := s.settings.ListSettings(ctx, eligibility.KeyPrefix)
	if err != nil {
		return eligibility.Settings{}, fmt.Errorf("load weekday settings: %w", err)
	}
	return eligibility.FromKeyValues(values), nil
}

// GetDayOfWeekSettings returns the weekday flags for administrators.
func (s *SettingsService) GetDayOfWeekSettings(ctx context.Context, principal Principal) (eligibility.Settings, error) {
	if s == nil {
		return eligibility.Settings{}, fmt.Errorf("SettingsService is nil")
	}
	if !principal.IsAdmin {
		return eligibility.Settings{}, ErrForbidden
	}
	return s.CurrentDayOfWeekSettings(ctx)
}

// UpdateDayOfWeekSettings replaces all seven weekday flags.
func (s *SettingsService) UpdateDayOfWeekSettings(ctx context.Context, principal Principal, settings eligibility.Settings) (result eligibility.Settings, err error) {
	if s == nil {
		err = fmt.Errorf("SettingsService is nil")
		return
	}
	if s.settings == nil {
		err = fmt.Errorf("settings repository not configured")
		return
	}

	logger := serviceLogger(ctx, s.logger, "SettingsService", "UpdateDayOfWeekSettings", "principal_id", principal.UserID)
	defer func() {
		logOutcome(ctx, logger, err, "weekday settings update failed", "weekday settings updated", "settings", result)
	}()

	if !principal.IsAdmin {
		err = ErrForbidden
		return
	}

	if err = s.settings.PutSettings(ctx, settings.KeyValues()); err != nil {
		return
	}

	result, err = s.CurrentDayOfWeekSettings(ctx)
	return
}
