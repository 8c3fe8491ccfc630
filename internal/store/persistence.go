package store

import (
	"context"

	"github.com/shopspring/decimal"

	"restauranthub/internal/domain"
	apperrors "restauranthub/internal/errors"
)

// OrderRepository persists an order together with the tables whose status changed
// as part of the same mutation.
type OrderRepository interface {
	Save(ctx context.Context, order domain.Order, tables []domain.Table) error
}

type TableRepository interface {
	Save(ctx context.Context, table domain.Table) error
	SaveAll(ctx context.Context, tables []domain.Table) error
	Delete(ctx context.Context, id string) error
}

type RefundRepository interface {
	Save(ctx context.Context, refund domain.RefundRequest) error
}

type WalletRepository interface {
	SaveWithdrawal(ctx context.Context, withdrawal domain.Withdrawal, balance decimal.Decimal) error
}

type SettingsRepository interface {
	Save(ctx context.Context, settings domain.Settings) error
}

// Repositories are the write-through targets of the store. A nil field keeps that
// part of the state in memory only.
type Repositories struct {
	Orders   OrderRepository
	Tables   TableRepository
	Refunds  RefundRepository
	Wallet   WalletRepository
	Settings SettingsRepository
}

func (s *Store) persistOrder(ctx context.Context, order domain.Order, tables []domain.Table) error {
	if s.repos.Orders == nil {
		return nil
	}
	if err := s.repos.Orders.Save(ctx, order, tables); err != nil {
		return apperrors.NewInternalError("persisting order "+order.ID, err)
	}
	return nil
}

func (s *Store) persistTable(ctx context.Context, table domain.Table) error {
	if s.repos.Tables == nil {
		return nil
	}
	if err := s.repos.Tables.Save(ctx, table); err != nil {
		return apperrors.NewInternalError("persisting table "+table.ID, err)
	}
	return nil
}

func (s *Store) persistTables(ctx context.Context, tables []domain.Table) error {
	if s.repos.Tables == nil {
		return nil
	}
	if err := s.repos.Tables.SaveAll(ctx, tables); err != nil {
		return apperrors.NewInternalError("persisting table series", err)
	}
	return nil
}

func (s *Store) deleteTable(ctx context.Context, id string) error {
	if s.repos.Tables == nil {
		return nil
	}
	if err := s.repos.Tables.Delete(ctx, id); err != nil {
		return apperrors.NewInternalError("deleting table "+id, err)
	}
	return nil
}

func (s *Store) persistRefund(ctx context.Context, refund domain.RefundRequest) error {
	if s.repos.Refunds == nil {
		return nil
	}
	if err := s.repos.Refunds.Save(ctx, refund); err != nil {
		return apperrors.NewInternalError("persisting refund "+refund.ID, err)
	}
	return nil
}

func (s *Store) persistWithdrawal(ctx context.Context, w domain.Withdrawal, balance decimal.Decimal) error {
	if s.repos.Wallet == nil {
		return nil
	}
	if err := s.repos.Wallet.SaveWithdrawal(ctx, w, balance); err != nil {
		return apperrors.NewInternalError("persisting withdrawal "+w.ID, err)
	}
	return nil
}

func (s *Store) persistSettings(ctx context.Context, settings domain.Settings) error {
	if s.repos.Settings == nil {
		return nil
	}
	if err := s.repos.Settings.Save(ctx, settings); err != nil {
		return apperrors.NewInternalError("persisting settings", err)
	}
	return nil
}
