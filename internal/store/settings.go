package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"restauranthub/internal/domain"
	apperrors "restauranthub/internal/errors"
)

func (s *Store) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

func (s *Store) SetNotificationPreference(ctx context.Context, key string, enabled bool) (domain.Settings, error) {
	return s.updateSettings(ctx, "notification", func(st *domain.Settings) error {
		return setFlag(st.Notifications, "notifications", key, enabled)
	})
}

func (s *Store) SetFacility(ctx context.Context, key string, enabled bool) (domain.Settings, error) {
	return s.updateSettings(ctx, "facility", func(st *domain.Settings) error {
		return setFlag(st.Facilities, "facilities", key, enabled)
	})
}

func (s *Store) SetServiceToggle(ctx context.Context, key string, enabled bool) (domain.Settings, error) {
	return s.updateSettings(ctx, "service", func(st *domain.Settings) error {
		return setFlag(st.Services, "services", key, enabled)
	})
}

// SetTableTypes replaces the configured table types. A type that an existing table
// still uses cannot be removed.
func (s *Store) SetTableTypes(ctx context.Context, types []string) (domain.Settings, error) {
	return s.updateSettings(ctx, "tableTypes", func(st *domain.Settings) error {
		seen := make(map[string]bool, len(types))
		cleaned := make([]string, 0, len(types))
		for _, t := range types {
			if t == "" {
				return apperrors.NewValidationError("table type must not be empty",
					apperrors.ValidationDetail{Field: "tableTypes", Message: "entries must not be empty"})
			}
			if seen[t] {
				continue
			}
			seen[t] = true
			cleaned = append(cleaned, t)
		}
		if len(cleaned) == 0 {
			return apperrors.NewValidationError("at least one table type is required",
				apperrors.ValidationDetail{Field: "tableTypes", Message: "must not be empty"})
		}

		for _, t := range s.tables {
			if !seen[t.Type] {
				return apperrors.NewConflictError(
					fmt.Sprintf("table type %s is still used by table %s", t.Type, t.Name))
			}
		}

		st.TableTypes = cleaned
		return nil
	})
}

func (s *Store) SetAdsSpend(ctx context.Context, amount decimal.Decimal) (domain.Settings, error) {
	return s.updateSettings(ctx, "adsSpend", func(st *domain.Settings) error {
		if amount.IsNegative() {
			return apperrors.NewValidationError("ads spend must not be negative",
				apperrors.ValidationDetail{Field: "adsSpend", Message: "must be zero or greater"})
		}
		st.AdsSpend = amount
		return nil
	})
}

func (s *Store) updateSettings(ctx context.Context, what string, apply func(*domain.Settings) error) (domain.Settings, error) {
	var updated domain.Settings

	err := s.mutate(func() ([]Event, error) {
		next := s.settings.Clone()
		if err := apply(&next); err != nil {
			return nil, err
		}

		if err := s.persistSettings(ctx, next); err != nil {
			return nil, err
		}
		s.settings = next
		updated = next.Clone()

		s.logger.Info("settings updated", zap.String("section", what))
		return []Event{s.event(EventSettingsUpdated, updated)}, nil
	})

	return updated, err
}

func setFlag(flags map[string]bool, field, key string, enabled bool) error {
	if key == "" {
		return apperrors.NewValidationError(field+" key is required",
			apperrors.ValidationDetail{Field: field, Message: "key must not be empty"})
	}
	flags[key] = enabled
	return nil
}
