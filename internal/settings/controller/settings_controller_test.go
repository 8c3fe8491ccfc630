package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"restauranthub/internal/domain"
	"restauranthub/internal/store"
)

func newTestRouter() (http.Handler, *store.Store) {
	s := store.New(store.Repositories{}, zap.NewNop())
	c := NewSettingsController(s, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/api/settings", c.Get)
	r.Patch("/api/settings", c.Patch)
	return r, s
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestSettingsController_Get(t *testing.T) {
	h, _ := newTestRouter()

	rec := do(h, http.MethodGet, "/api/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var settings domain.Settings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.Equal(t, []string{"Normal"}, settings.TableTypes)
}

func TestSettingsController_Patch(t *testing.T) {
	h, s := newTestRouter()

	body := `{
		"notifications": {"payouts": false},
		"facilities": {"parking": true, "wifi": true},
		"tableTypes": ["Normal", "Booth"],
		"adsSpend": "2500"
	}`
	rec := do(h, http.MethodPatch, "/api/settings", body)
	require.Equal(t, http.StatusOK, rec.Code)

	settings := s.Settings()
	assert.False(t, settings.Notifications["payouts"])
	assert.True(t, settings.Notifications["newOrders"])
	assert.True(t, settings.Facilities["wifi"])
	assert.Equal(t, []string{"Normal", "Booth"}, settings.TableTypes)
	assert.Equal(t, "2500", settings.AdsSpend.String())
}

func TestSettingsController_Patch_RemovingUsedTableType(t *testing.T) {
	h, s := newTestRouter()
	_, err := s.AddTable(context.Background(), "T1", 2, "Normal")
	require.NoError(t, err)

	rec := do(h, http.MethodPatch, "/api/settings", `{"tableTypes": ["Booth"]}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, []string{"Normal"}, s.Settings().TableTypes)
}

func TestSettingsController_Patch_NegativeAdsSpend(t *testing.T) {
	h, _ := newTestRouter()

	rec := do(h, http.MethodPatch, "/api/settings", `{"adsSpend": "-1"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
