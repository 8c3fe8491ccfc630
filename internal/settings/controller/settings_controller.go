package controller

import (
	"context"
	"net/http"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"restauranthub/internal/commons"
	"restauranthub/internal/domain"
	"restauranthub/internal/dto"
)

type SettingsStore interface {
	Settings() domain.Settings
	SetNotificationPreference(ctx context.Context, key string, enabled bool) (domain.Settings, error)
	SetFacility(ctx context.Context, key string, enabled bool) (domain.Settings, error)
	SetServiceToggle(ctx context.Context, key string, enabled bool) (domain.Settings, error)
	SetTableTypes(ctx context.Context, types []string) (domain.Settings, error)
	SetAdsSpend(ctx context.Context, amount decimal.Decimal) (domain.Settings, error)
}

type SettingsController struct {
	store  SettingsStore
	logger *zap.Logger
}

func NewSettingsController(store SettingsStore, logger *zap.Logger) *SettingsController {
	return &SettingsController{
		store:  store,
		logger: logger,
	}
}

func (c *SettingsController) Get(w http.ResponseWriter, r *http.Request) {
	commons.WriteJSON(w, http.StatusOK, c.store.Settings(), c.logger)
}

// Patch applies each present section in turn. Sections applied before a failing one
// stay applied.
func (c *SettingsController) Patch(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.SettingsPatchRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	ctx := r.Context()
	flags := []struct {
		values map[string]bool
		set    func(context.Context, string, bool) (domain.Settings, error)
	}{
		{req.Notifications, c.store.SetNotificationPreference},
		{req.Facilities, c.store.SetFacility},
		{req.Services, c.store.SetServiceToggle},
	}
	for _, f := range flags {
		for _, key := range sortedKeys(f.values) {
			if _, err := f.set(ctx, key, f.values[key]); err != nil {
				commons.WriteError(w, traceID, err, logger)
				return
			}
		}
	}

	if req.TableTypes != nil {
		if _, err := c.store.SetTableTypes(ctx, req.TableTypes); err != nil {
			commons.WriteError(w, traceID, err, logger)
			return
		}
	}
	if req.AdsSpend != nil {
		if _, err := c.store.SetAdsSpend(ctx, *req.AdsSpend); err != nil {
			commons.WriteError(w, traceID, err, logger)
			return
		}
	}

	commons.WriteJSON(w, http.StatusOK, c.store.Settings(), logger)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
