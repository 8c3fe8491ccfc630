package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "restauranthub/internal/errors"
)

type branchData struct {
	ID       string `json:"id"`
	IsOnline bool   `json:"isOnline"`
}

func TestGet_DecodesEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/branches/mainbranch", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":[{"id":"b1","isOnline":true}]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, zap.NewNop(), WithToken("secret"))

	got, err := Get[[]branchData](context.Background(), c, "/api/branches/mainbranch")
	require.NoError(t, err)
	assert.Equal(t, []branchData{{ID: "b1", IsOnline: true}}, got)
}

func TestPatch_SendsJSONBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]bool{"isOnline": false}, body)

		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"b1","isOnline":false}}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, zap.NewNop())

	got, err := Patch[branchData](context.Background(), c, "/api/branches/b1/toggle-online", map[string]bool{"isOnline": false})
	require.NoError(t, err)
	assert.False(t, got.IsOnline)
}

func TestDo_ContextTokenOverridesClientToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer from-request", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, zap.NewNop(), WithToken("static"))
	ctx := ContextWithToken(context.Background(), "from-request")

	_, err := Post[struct{}](ctx, c, "/api/auth/verify-token", nil)
	assert.NoError(t, err)
}

func TestDo_NonSuccessStatusCarriesServerMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Branch not found"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, zap.NewNop())

	_, err := Get[branchData](context.Background(), c, "/api/branches/mainbranch")

	ue, ok := apperrors.IsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, ue.Status)
	assert.Equal(t, "Branch not found", ue.Message)
}

func TestDo_NonJSONErrorFallsBackToStatusText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, zap.NewNop())

	_, err := Get[branchData](context.Background(), c, "/x")

	ue, ok := apperrors.IsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, "Bad Gateway", ue.Message)
}

func TestDo_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	c := NewClient(ts.URL, zap.NewNop(), WithTimeout(50*time.Millisecond))

	_, err := Get[branchData](context.Background(), c, "/slow")

	_, ok := apperrors.IsRequestTimeoutError(err)
	assert.True(t, ok, "expected timeout, got %v", err)
}

func TestDo_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := NewClient(url, zap.NewNop())

	_, err := Get[branchData](context.Background(), c, "/api/branches/mainbranch")

	_, ok := apperrors.IsNetworkError(err)
	assert.True(t, ok, "expected network error, got %v", err)
}

func TestCall_UnsuccessfulEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"Branch is locked"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, zap.NewNop())

	_, err := Patch[branchData](context.Background(), c, "/api/branches/b1/rush-hour", map[string]bool{"isRushHour": true})

	ue, ok := apperrors.IsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, "Branch is locked", ue.Message)
}
