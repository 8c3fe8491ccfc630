package branch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"restauranthub/internal/domain"
)

type Syncer interface {
	Sync(ctx context.Context) ([]domain.Branch, error)
}

// ResyncWorker refreshes the branch list on a fixed interval so changes made on
// other devices reach the dashboard.
type ResyncWorker struct {
	syncer   Syncer
	interval time.Duration
	logger   *zap.Logger
}

func NewResyncWorker(syncer Syncer, interval time.Duration, logger *zap.Logger) *ResyncWorker {
	return &ResyncWorker{
		syncer:   syncer,
		interval: interval,
		logger:   logger,
	}
}

// Run syncs until ctx is cancelled. Failures are logged and retried on the next tick.
func (w *ResyncWorker) Run(ctx context.Context) error {
	w.logger.Info("branch resync worker started", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("branch resync worker stopped")
			return nil
		case <-ticker.C:
			if _, err := w.syncer.Sync(ctx); err != nil && ctx.Err() == nil {
				w.logger.Warn("branch resync failed", zap.Error(err))
			}
		}
	}
}
