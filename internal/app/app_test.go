package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"restauranthub/internal/auth"
	"restauranthub/internal/config"
)

func newApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func do(h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// Unit Tests

func TestNew_MemoryOnly(t *testing.T) {
	cfg := config.Default()
	cfg.Wallet.OpeningBalance = "2500.50"

	a := newApp(t, cfg)

	assert.Equal(t, "2500.5", a.Store().WalletBalance().String())
	assert.Nil(t, a.db)
	assert.Nil(t, a.branches)
	assert.Nil(t, a.settlement)
}

func TestNew_InvalidOpeningBalance(t *testing.T) {
	cfg := config.Default()
	cfg.Wallet.OpeningBalance = "lots"

	_, err := New(context.Background(), cfg, zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening balance")
}

func TestHandler_Healthz(t *testing.T) {
	a := newApp(t, config.Default())

	rec := do(a.Handler(), http.MethodGet, "/healthz", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHandler_OrderLifecycle(t *testing.T) {
	a := newApp(t, config.Default())
	h := a.Handler()

	rec := do(h, http.MethodPost, "/api/orders", `{
		"customer": "Arjun",
		"type": "Takeaway",
		"items": [{"id": "i1", "name": "Idli", "quantity": 3, "price": "40"}],
		"payment": {"method": "Cash", "status": "Pending"}
	}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = do(h, http.MethodGet, "/api/orders/"+created.ID, "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodGet, "/api/orders/ORD-missing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_BranchesWithoutUpstream(t *testing.T) {
	a := newApp(t, config.Default())

	rec := do(a.Handler(), http.MethodGet, "/api/branches", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(a.Handler(), http.MethodPost, "/api/branches/sync", "", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "NETWORK_ERROR")
}

func TestHandler_BranchSyncThroughUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/branches/mainbranch", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "data": [{"branchId": "br-1", "name": "Jayanagar", "isOnline": true}]}`))
	}))
	defer upstream.Close()

	cfg := config.Default()
	cfg.Upstream.BaseURL = upstream.URL
	a := newApp(t, cfg)

	rec := do(a.Handler(), http.MethodPost, "/api/branches/sync", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	branches := a.Store().Branches()
	require.Len(t, branches, 1)
	assert.Equal(t, "br-1", branches[0].ID)
}

func TestHandler_AuthGuard(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.Secret = "s3cret"
	a := newApp(t, cfg)
	h := a.Handler()

	rec := do(h, http.MethodGet, "/api/tables", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "jti-7",
			Subject:   "partner-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	rec = do(h, http.MethodGet, "/api/tables", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodPost, "/api/auth/verify-token", `{"token": "`+token+`"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodPost, "/api/auth/logout", "", token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(h, http.MethodGet, "/api/tables", "", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	cfg := config.Default()
	cfg.Server.Port = port
	cfg.Server.ShutdownTimeout = time.Second
	a := newApp(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/healthz", port))
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
