package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"restauranthub/internal/domain"
	apperrors "restauranthub/internal/errors"
)

type mockBranchService struct {
	SyncFunc        func(ctx context.Context) ([]domain.Branch, error)
	SetOnlineFunc   func(ctx context.Context, id string, desired bool) (domain.Branch, error)
	SetRushHourFunc func(ctx context.Context, id string, desired bool) (domain.Branch, error)
}

func (m *mockBranchService) Sync(ctx context.Context) ([]domain.Branch, error) {
	return m.SyncFunc(ctx)
}

func (m *mockBranchService) SetOnline(ctx context.Context, id string, desired bool) (domain.Branch, error) {
	return m.SetOnlineFunc(ctx, id, desired)
}

func (m *mockBranchService) SetRushHour(ctx context.Context, id string, desired bool) (domain.Branch, error) {
	return m.SetRushHourFunc(ctx, id, desired)
}

type mockBranchReader struct {
	branches []domain.Branch
}

func (m *mockBranchReader) Branches() []domain.Branch { return m.branches }

func (m *mockBranchReader) RestaurantStatus() domain.RestaurantStatus {
	if len(m.branches) == 0 {
		return domain.RestaurantStatus{}
	}
	return domain.RestaurantStatus{BranchID: m.branches[0].ID, IsRestaurantOnline: m.branches[0].IsOnline}
}

func newTestRouter(svc BranchService, reader BranchReader) http.Handler {
	c := NewBranchController(svc, reader, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/api/branches", c.List)
	r.Get("/api/branches/status", c.Status)
	r.Post("/api/branches/sync", c.Sync)
	r.Patch("/api/branches/{id}/online", c.ToggleOnline)
	r.Patch("/api/branches/{id}/rush-hour", c.ToggleRushHour)
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestBranchController_ToggleOnline(t *testing.T) {
	svc := &mockBranchService{
		SetOnlineFunc: func(ctx context.Context, id string, desired bool) (domain.Branch, error) {
			assert.Equal(t, "br-1", id)
			assert.True(t, desired)
			return domain.Branch{ID: id, IsOnline: true}, nil
		},
	}
	h := newTestRouter(svc, &mockBranchReader{})

	rec := do(h, http.MethodPatch, "/api/branches/br-1/online", `{"isOnline": true}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isOnline":true`)
}

func TestBranchController_ToggleOnline_MissingFlag(t *testing.T) {
	h := newTestRouter(&mockBranchService{}, &mockBranchReader{})

	rec := do(h, http.MethodPatch, "/api/branches/br-1/online", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBranchController_ToggleRushHour_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"timeout", apperrors.NewRequestTimeoutError("PATCH rush-hour", context.DeadlineExceeded), http.StatusGatewayTimeout, "REQUEST_TIMEOUT"},
		{"network", apperrors.NewNetworkError("PATCH rush-hour", context.Canceled), http.StatusBadGateway, "NETWORK_ERROR"},
		{"upstream 404", apperrors.NewUpstreamError(404, "Branch not found"), http.StatusNotFound, "UPSTREAM_ERROR"},
		{"upstream 500", apperrors.NewUpstreamError(500, "boom"), http.StatusBadGateway, "UPSTREAM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBranchService{
				SetRushHourFunc: func(ctx context.Context, id string, desired bool) (domain.Branch, error) {
					return domain.Branch{}, tt.err
				},
			}
			h := newTestRouter(svc, &mockBranchReader{})

			rec := do(h, http.MethodPatch, "/api/branches/br-1/rush-hour", `{"isRushHour": true}`)

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.code)
		})
	}
}

func TestBranchController_ListAndStatus(t *testing.T) {
	reader := &mockBranchReader{branches: []domain.Branch{{ID: "br-1", IsOnline: true}}}
	h := newTestRouter(&mockBranchService{}, reader)

	rec := do(h, http.MethodGet, "/api/branches", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "br-1")

	rec = do(h, http.MethodGet, "/api/branches/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isRestaurantOnline":true`)
}

func TestBranchController_Sync(t *testing.T) {
	svc := &mockBranchService{
		SyncFunc: func(ctx context.Context) ([]domain.Branch, error) {
			return []domain.Branch{{ID: "br-1"}, {ID: "br-2"}}, nil
		},
	}
	h := newTestRouter(svc, &mockBranchReader{})

	rec := do(h, http.MethodPost, "/api/branches/sync", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "br-2")
}
