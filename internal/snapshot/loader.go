// Package snapshot reads the persisted state the store is hydrated from at startup.
package snapshot

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"restauranthub/internal/domain"
	"restauranthub/internal/errors"
)

type OrderFinder interface {
	FindAll(ctx context.Context) ([]domain.Order, error)
}

type TableFinder interface {
	FindAll(ctx context.Context) ([]domain.Table, error)
}

type RefundFinder interface {
	FindAll(ctx context.Context) ([]domain.RefundRequest, error)
}

type WalletFinder interface {
	Balance(ctx context.Context) (decimal.Decimal, bool, error)
	SetOpeningBalance(ctx context.Context, balance decimal.Decimal) error
	FindWithdrawals(ctx context.Context) ([]domain.Withdrawal, error)
}

type SettingsFinder interface {
	Find(ctx context.Context) (*domain.Settings, error)
}

type Loader struct {
	orders   OrderFinder
	tables   TableFinder
	refunds  RefundFinder
	wallet   WalletFinder
	settings SettingsFinder
	logger   *zap.Logger
}

func NewLoader(orders OrderFinder, tables TableFinder, refunds RefundFinder, wallet WalletFinder, settings SettingsFinder, logger *zap.Logger) *Loader {
	return &Loader{
		orders:   orders,
		tables:   tables,
		refunds:  refunds,
		wallet:   wallet,
		settings: settings,
		logger:   logger,
	}
}

// Load reads every repository concurrently. When no wallet row exists yet it is
// seeded with openingBalance.
func (l *Loader) Load(ctx context.Context, openingBalance decimal.Decimal) (domain.Snapshot, error) {
	var snap domain.Snapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		orders, err := l.orders.FindAll(ctx)
		snap.Orders = orders
		return err
	})
	g.Go(func() error {
		tables, err := l.tables.FindAll(ctx)
		snap.Tables = tables
		return err
	})
	g.Go(func() error {
		refunds, err := l.refunds.FindAll(ctx)
		snap.Refunds = refunds
		return err
	})
	g.Go(func() error {
		withdrawals, err := l.wallet.FindWithdrawals(ctx)
		snap.Withdrawals = withdrawals
		return err
	})
	g.Go(func() error {
		balance, ok, err := l.wallet.Balance(ctx)
		if err != nil {
			return err
		}
		if !ok {
			l.logger.Info("seeding wallet with opening balance", zap.String("balance", openingBalance.String()))
			if err := l.wallet.SetOpeningBalance(ctx, openingBalance); err != nil {
				return err
			}
			balance = openingBalance
		}
		snap.WalletBalance = balance
		return nil
	})
	g.Go(func() error {
		settings, err := l.settings.Find(ctx)
		if _, ok := errors.IsNotFoundError(err); ok {
			return nil
		}
		snap.Settings = settings
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}
