package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"restauranthub/internal/domain"
	"restauranthub/internal/infrastructure/mysql"
	"restauranthub/internal/testutil"
)

// Unit Tests

func TestNewMySQLWalletRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLWalletRepository(db, mysql.NewTxRunner(db, 3, zap.NewNop()))

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func newIntegrationRepo(t *testing.T) *MySQLWalletRepository {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	return NewMySQLWalletRepository(db, mysql.NewTxRunner(db, 3, zap.NewNop()))
}

func TestWalletRepository_Balance_NoRow(t *testing.T) {
	repo := newIntegrationRepo(t)

	balance, ok, err := repo.Balance(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, balance.IsZero())
}

func TestWalletRepository_SetOpeningBalance_KeepsExisting(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetOpeningBalance(ctx, decimal.RequireFromString("5000")))
	require.NoError(t, repo.SetOpeningBalance(ctx, decimal.RequireFromString("10")))

	balance, ok, err := repo.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, balance.Equal(decimal.RequireFromString("5000")))
}

func TestWalletRepository_SaveWithdrawal(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	w := domain.Withdrawal{
		ID:          "WD-1",
		Amount:      decimal.RequireFromString("1200"),
		Status:      domain.WithdrawalStatusProcessing,
		RequestedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.SaveWithdrawal(ctx, w, decimal.RequireFromString("3800")))

	settled := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	w.Status = domain.WithdrawalStatusCompleted
	w.Reference = "UTR-991"
	w.SettledAt = &settled
	require.NoError(t, repo.SaveWithdrawal(ctx, w, decimal.RequireFromString("3800")))

	withdrawals, err := repo.FindWithdrawals(ctx)
	require.NoError(t, err)
	require.Len(t, withdrawals, 1)
	assert.Equal(t, domain.WithdrawalStatusCompleted, withdrawals[0].Status)
	assert.Equal(t, "UTR-991", withdrawals[0].Reference)
	require.NotNil(t, withdrawals[0].SettledAt)

	balance, _, err := repo.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.RequireFromString("3800")))
}
