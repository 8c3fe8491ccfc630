package mysql

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

const TxTimeout = 5 * time.Second

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Backoff intervals: attempt 1 (0ms), attempt 2 (100ms), attempt 3 (200ms).
var backoffs = []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

// TxRunner runs units of work in a repeatable-read transaction and retries them
// when MySQL reports a deadlock or a lock wait timeout.
type TxRunner struct {
	db          TransactionManager
	maxAttempts int
	logger      *zap.Logger
	sleep       func(time.Duration)
}

func NewTxRunner(db TransactionManager, maxAttempts int, logger *zap.Logger) *TxRunner {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &TxRunner{db: db, maxAttempts: maxAttempts, logger: logger, sleep: time.Sleep}
}

func (r *TxRunner) Run(ctx context.Context, op string, fn func(ctx context.Context, tx *sql.Tx) error) error {
	var err error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !IsDeadlockError(err) || attempt == r.maxAttempts {
			return err
		}

		base := backoffs[min(attempt-1, len(backoffs)-1)]
		// Jitter: ±20% of backoff base
		jitter := time.Duration(float64(base) * (rand.Float64()*0.4 - 0.2))
		r.logger.Warn("deadlock detected, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", r.maxAttempts),
		)
		r.sleep(base + jitter)
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	txCtx, cancel := context.WithTimeout(ctx, TxTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	// MySQL ignores rollback if already committed.
	defer tx.Rollback()

	if err := fn(txCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit transaction", zap.Error(err))
		return err
	}
	return nil
}

func IsDeadlockError(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
