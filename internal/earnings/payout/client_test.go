package payout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"restauranthub/internal/apiclient"
	"restauranthub/internal/domain"
	apperrors "restauranthub/internal/errors"
)

func TestPayoutStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payouts/w-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"w-1","status":"COMPLETED","reference":"UTR42"}`))
	}))
	defer ts.Close()

	c := NewClient(apiclient.NewClient(ts.URL, zap.NewNop()))

	st, err := c.PayoutStatus(context.Background(), "w-1")
	require.NoError(t, err)

	outcome, done := st.Outcome()
	assert.True(t, done)
	assert.Equal(t, domain.WithdrawalStatusCompleted, outcome)
	assert.Equal(t, "UTR42", st.Reference)
}

func TestPayoutStatus_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"payout not found"}`))
	}))
	defer ts.Close()

	c := NewClient(apiclient.NewClient(ts.URL, zap.NewNop()))

	_, err := c.PayoutStatus(context.Background(), "w-1")

	ue, ok := apperrors.IsUpstreamError(err)
	require.True(t, ok)
	assert.Equal(t, "payout not found", ue.Message)
}

func TestStatus_Outcome(t *testing.T) {
	tests := []struct {
		status string
		want   domain.WithdrawalStatus
		done   bool
	}{
		{"completed", domain.WithdrawalStatusCompleted, true},
		{"SUCCESS", domain.WithdrawalStatusCompleted, true},
		{"failed", domain.WithdrawalStatusFailed, true},
		{"Reversed", domain.WithdrawalStatusFailed, true},
		{"processing", domain.WithdrawalStatusProcessing, false},
		{"", domain.WithdrawalStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got, done := Status{Status: tt.status}.Outcome()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.done, done)
		})
	}
}
