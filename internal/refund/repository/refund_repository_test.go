package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restauranthub/internal/domain"
	"restauranthub/internal/testutil"
)

// Unit Tests

func TestNewMySQLRefundRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLRefundRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func TestRefundRepository_SaveAndDecide(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRefundRepository(db)
	ctx := context.Background()

	refund := domain.RefundRequest{
		ID:           "RF-1",
		OrderID:      "ORD-7",
		CustomerName: "Ravi",
		Reason:       "Cold food",
		Photos:       []domain.RefundPhoto{{URL: "https://img/1.jpg", Hint: "soup"}},
		Items:        []string{"Tomato Soup"},
		Amount:       decimal.RequireFromString("180"),
		CostSplit:    domain.CostSplit{Restaurant: decimal.RequireFromString("90"), Crevings: decimal.RequireFromString("90")},
		Status:       domain.RefundStatusPending,
		CreatedAt:    time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, refund))

	decided := time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)
	refund.Status = domain.RefundStatusApproved
	refund.DecidedAt = &decided
	require.NoError(t, repo.Save(ctx, refund))

	refunds, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	got := refunds[0]
	assert.Equal(t, domain.RefundStatusApproved, got.Status)
	require.NotNil(t, got.DecidedAt)
	assert.True(t, decided.Equal(*got.DecidedAt))
	assert.Equal(t, []string{"Tomato Soup"}, got.Items)
	assert.Equal(t, "soup", got.Photos[0].Hint)
	assert.True(t, got.CostSplit.Crevings.Equal(decimal.RequireFromString("90")))
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []string{}, nonNil[string](nil))
}
