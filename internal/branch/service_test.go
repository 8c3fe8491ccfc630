package branch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"restauranthub/internal/apiclient"
	"restauranthub/internal/domain"
	apperrors "restauranthub/internal/errors"
	"restauranthub/internal/store"
)

type mockCache struct {
	GetFunc func(ctx context.Context, key string) ([]byte, error)
	SetFunc func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	return m.GetFunc(ctx, key)
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.SetFunc(ctx, key, value, ttl)
}

func writeEnvelope(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "ok", "data": data})
}

func newService(t *testing.T, handler http.HandlerFunc, cache Cache) (*Service, *store.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s := store.New(store.Repositories{}, zap.NewNop())
	api := apiclient.NewClient(srv.URL, zap.NewNop(), apiclient.WithTimeout(2*time.Second))
	return NewService(api, s, cache, time.Minute, zap.NewNop()), s
}

func seedBranch(s *store.Store, b domain.Branch) {
	s.SetBranches([]domain.Branch{b})
}

func TestService_Sync_MapsBranchIDs(t *testing.T) {
	var cached []byte
	cache := &mockCache{
		SetFunc: func(ctx context.Context, key string, value []byte, ttl time.Duration) error {
			assert.Equal(t, CacheKey, key)
			assert.Equal(t, time.Minute, ttl)
			cached = value
			return nil
		},
	}
	svc, s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/branches/mainbranch", r.URL.Path)
		writeEnvelope(w, []map[string]any{
			{"branchId": "br-1", "name": "Indiranagar", "isOnline": true},
			{"_id": "65f0c1", "name": "Koramangala", "isRushHour": true},
		})
	}, cache)

	branches, err := svc.Sync(context.Background())

	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, "br-1", branches[0].ID)
	assert.Equal(t, "65f0c1", branches[1].ID)
	assert.Len(t, s.Branches(), 2)
	assert.Equal(t, domain.RestaurantStatus{BranchID: "br-1", IsRestaurantOnline: true}, s.RestaurantStatus())
	assert.NotEmpty(t, cached)
}

func TestService_Sync_FallsBackToCache(t *testing.T) {
	cache := &mockCache{
		GetFunc: func(ctx context.Context, key string) ([]byte, error) {
			return []byte(`[{"branchId": "br-1", "name": "Indiranagar", "isOnline": true}]`), nil
		},
	}
	svc, s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, cache)

	branches, err := svc.Sync(context.Background())

	require.NoError(t, err)
	assert.Len(t, branches, 1)
	assert.Len(t, s.Branches(), 1)
}

func TestService_Sync_UpstreamErrorWithoutCache(t *testing.T) {
	svc, s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success": false, "message": "Invalid token"}`))
	}, nil)

	_, err := svc.Sync(context.Background())

	ue, ok := apperrors.IsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, ue.Status)
	assert.Equal(t, "Invalid token", ue.Message)
	assert.Empty(t, s.Branches())
}

func TestService_Sync_CacheMissReturnsUpstreamError(t *testing.T) {
	cache := &mockCache{
		GetFunc: func(ctx context.Context, key string) ([]byte, error) { return nil, ErrCacheMiss },
	}
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, cache)

	_, err := svc.Sync(context.Background())

	_, ok := apperrors.IsUpstreamError(err)
	assert.True(t, ok)
}

func TestService_SetOnline_AppliesServerConfirmedValue(t *testing.T) {
	svc, s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/branches/br-1/toggle-online", r.URL.Path)

		var body map[string]bool
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body["isOnline"])

		writeEnvelope(w, map[string]any{"id": "br-1", "name": "Indiranagar", "isOnline": false})
	}, nil)
	seedBranch(s, domain.Branch{ID: "br-1", IsOnline: true})

	b, err := svc.SetOnline(context.Background(), "br-1", true)

	require.NoError(t, err)
	assert.False(t, b.IsOnline)
	assert.False(t, s.RestaurantStatus().IsRestaurantOnline)
}

func TestService_SetRushHour_UsesRestaurantID(t *testing.T) {
	svc, s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/branches/rest-9/rush-hour", r.URL.Path)
		writeEnvelope(w, map[string]any{"id": "br-1", "isRushHour": true})
	}, nil)
	seedBranch(s, domain.Branch{ID: "br-1", RestaurantID: "rest-9"})

	b, err := svc.SetRushHour(context.Background(), "br-1", true)

	require.NoError(t, err)
	assert.True(t, b.IsRushHour)
	assert.True(t, s.RestaurantStatus().IsRushHour)
}

func TestService_SetOnline_FailureLeavesFlagUnchanged(t *testing.T) {
	svc, s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, nil)
	seedBranch(s, domain.Branch{ID: "br-1", IsOnline: true})

	_, err := svc.SetOnline(context.Background(), "br-1", false)

	assert.Error(t, err)
	assert.True(t, s.RestaurantStatus().IsRestaurantOnline)
}

func TestService_SetOnline_UnknownBranch(t *testing.T) {
	called := false
	svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	}, nil)

	_, err := svc.SetOnline(context.Background(), "br-404", true)

	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.False(t, called)
}

func TestService_SetOnline_DiscardsStaleResponse(t *testing.T) {
	firstArrived := make(chan struct{})
	release := make(chan struct{})

	svc, s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]bool
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["isOnline"] {
			close(firstArrived)
			<-release
		}
		writeEnvelope(w, map[string]any{"id": "br-1", "isOnline": body["isOnline"]})
	}, nil)
	seedBranch(s, domain.Branch{ID: "br-1", IsOnline: false})

	var wg sync.WaitGroup
	var first domain.Branch
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, firstErr = svc.SetOnline(context.Background(), "br-1", true)
	}()

	<-firstArrived
	second, err := svc.SetOnline(context.Background(), "br-1", false)
	require.NoError(t, err)
	assert.False(t, second.IsOnline)

	close(release)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.False(t, first.IsOnline)
	assert.False(t, s.RestaurantStatus().IsRestaurantOnline)
}

func TestService_SetOnline_FailedNewerRequestKeepsOlderConfirmation(t *testing.T) {
	firstArrived := make(chan struct{})
	release := make(chan struct{})

	svc, s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]bool
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if !body["isOnline"] {
			close(firstArrived)
			<-release
			writeEnvelope(w, map[string]any{"id": "br-1", "isOnline": false})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success": false, "message": "branch is locked"}`))
	}, nil)
	seedBranch(s, domain.Branch{ID: "br-1", IsOnline: true})

	var wg sync.WaitGroup
	var first domain.Branch
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, firstErr = svc.SetOnline(context.Background(), "br-1", false)
	}()

	<-firstArrived
	_, err := svc.SetOnline(context.Background(), "br-1", true)
	require.Error(t, err)

	close(release)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.False(t, first.IsOnline)
	assert.False(t, s.RestaurantStatus().IsRestaurantOnline)
}

func TestService_Sync_KeepsFlagConfirmedWhileListWasInFlight(t *testing.T) {
	listArrived := make(chan struct{})
	release := make(chan struct{})

	svc, s := newService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			close(listArrived)
			<-release
			writeEnvelope(w, []map[string]any{
				{"branchId": "br-1", "name": "Whitefield", "isOnline": false, "isRushHour": true},
			})
			return
		}
		writeEnvelope(w, map[string]any{"id": "br-1", "isOnline": true})
	}, nil)
	seedBranch(s, domain.Branch{ID: "br-1", Name: "Old name", IsOnline: false})

	var wg sync.WaitGroup
	var synced []domain.Branch
	var syncErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		synced, syncErr = svc.Sync(context.Background())
	}()

	<-listArrived
	toggled, err := svc.SetOnline(context.Background(), "br-1", true)
	require.NoError(t, err)
	assert.True(t, toggled.IsOnline)

	close(release)
	wg.Wait()

	require.NoError(t, syncErr)
	require.Len(t, synced, 1)
	assert.True(t, synced[0].IsOnline)

	b, err := s.Branch("br-1")
	require.NoError(t, err)
	assert.Equal(t, "Whitefield", b.Name)
	assert.True(t, b.IsOnline)
	assert.True(t, b.IsRushHour)
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(apperrors.NewNetworkError("GET", errors.New("refused"))))
	assert.True(t, retryable(apperrors.NewRequestTimeoutError("GET", context.DeadlineExceeded)))
	assert.True(t, retryable(apperrors.NewUpstreamError(503, "down")))
	assert.False(t, retryable(apperrors.NewUpstreamError(404, "missing")))
}
