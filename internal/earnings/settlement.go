package earnings

import (
	"context"
	"time"

	"go.uber.org/zap"

	"restauranthub/internal/domain"
	"restauranthub/internal/earnings/payout"
	apperrors "restauranthub/internal/errors"
)

type WithdrawalStore interface {
	ProcessingWithdrawals() []domain.Withdrawal
	SettleWithdrawal(ctx context.Context, id string, outcome domain.WithdrawalStatus, reference string) (domain.Withdrawal, error)
}

type PayoutGateway interface {
	PayoutStatus(ctx context.Context, withdrawalID string) (payout.Status, error)
}

// SettlementWorker polls the payout gateway for Processing withdrawals and
// records their outcome.
type SettlementWorker struct {
	store    WithdrawalStore
	gateway  PayoutGateway
	interval time.Duration
	logger   *zap.Logger
}

func NewSettlementWorker(store WithdrawalStore, gateway PayoutGateway, interval time.Duration, logger *zap.Logger) *SettlementWorker {
	return &SettlementWorker{
		store:    store,
		gateway:  gateway,
		interval: interval,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled.
func (w *SettlementWorker) Run(ctx context.Context) error {
	w.logger.Info("settlement worker started", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("settlement worker stopped")
			return nil
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce checks every Processing withdrawal once and returns how many were settled.
func (w *SettlementWorker) RunOnce(ctx context.Context) int {
	settled := 0
	for _, wd := range w.store.ProcessingWithdrawals() {
		if ctx.Err() != nil {
			return settled
		}

		logger := w.logger.With(zap.String("withdrawalId", wd.ID))

		st, err := w.gateway.PayoutStatus(ctx, wd.ID)
		if err != nil {
			logger.Warn("payout status unavailable", zap.Error(err))
			continue
		}

		outcome, done := st.Outcome()
		if !done {
			continue
		}

		if _, err := w.store.SettleWithdrawal(ctx, wd.ID, outcome, st.Reference); err != nil {
			// A settlement callback may have won the race.
			if _, ok := apperrors.IsInvalidTransitionError(err); ok {
				logger.Debug("withdrawal already settled")
				continue
			}
			logger.Error("failed to settle withdrawal", zap.Error(err))
			continue
		}
		settled++
	}
	return settled
}
