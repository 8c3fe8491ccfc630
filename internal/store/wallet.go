package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"restauranthub/internal/domain"
	apperrors "restauranthub/internal/errors"
)

// InitiateWithdrawal debits amount from the wallet and records a Processing
// withdrawal. The balance is untouched when the call fails.
func (s *Store) InitiateWithdrawal(ctx context.Context, amount decimal.Decimal) (domain.Withdrawal, error) {
	var created domain.Withdrawal

	err := s.mutate(func() ([]Event, error) {
		if !amount.IsPositive() {
			return nil, apperrors.NewValidationError("withdrawal amount must be greater than zero",
				apperrors.ValidationDetail{Field: "amount", Message: "must be greater than zero"})
		}
		if amount.GreaterThan(s.balance) {
			return nil, apperrors.NewInsufficientBalanceError(amount.String(), s.balance.String())
		}

		w := domain.Withdrawal{
			ID:          s.newID(),
			Amount:      amount,
			Status:      domain.WithdrawalStatusProcessing,
			RequestedAt: s.now(),
		}
		balance := s.balance.Sub(amount)

		if err := s.persistWithdrawal(ctx, w, balance); err != nil {
			return nil, err
		}
		s.balance = balance
		s.withdrawals = append(s.withdrawals, w)
		created = w

		s.logger.Info("withdrawal initiated",
			zap.String("withdrawalId", w.ID),
			zap.String("amount", amount.String()),
			zap.String("balance", balance.String()),
		)
		return []Event{s.event(EventWithdrawalInitiated, w)}, nil
	})

	return created, err
}

// SettleWithdrawal moves a Processing withdrawal to Completed or Failed. A failed
// withdrawal credits its amount back to the wallet.
func (s *Store) SettleWithdrawal(ctx context.Context, id string, outcome domain.WithdrawalStatus, reference string) (domain.Withdrawal, error) {
	var settled domain.Withdrawal

	err := s.mutate(func() ([]Event, error) {
		if !outcome.IsOutcome() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("outcome must be Completed or Failed, got %q", outcome),
				apperrors.ValidationDetail{Field: "status", Message: "must be Completed or Failed"})
		}

		idx := s.withdrawalIndex(id)
		if idx < 0 {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("withdrawal %s not found", id))
		}

		w := s.withdrawals[idx]
		if w.Status != domain.WithdrawalStatusProcessing {
			return nil, apperrors.NewInvalidTransitionError("withdrawal", string(w.Status), string(outcome))
		}
		now := s.now()
		w.Status = outcome
		w.Reference = reference
		w.SettledAt = &now

		balance := s.balance
		if outcome == domain.WithdrawalStatusFailed {
			balance = balance.Add(w.Amount)
		}

		if err := s.persistWithdrawal(ctx, w, balance); err != nil {
			return nil, err
		}
		s.balance = balance
		s.withdrawals[idx] = w
		settled = w

		s.logger.Info("withdrawal settled",
			zap.String("withdrawalId", id),
			zap.String("outcome", string(outcome)),
			zap.String("balance", balance.String()),
		)
		return []Event{s.event(EventWithdrawalSettled, w)}, nil
	})

	return settled, err
}

func (s *Store) WalletBalance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

func (s *Store) Wallet() domain.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Wallet{
		Balance:     s.balance,
		Withdrawals: append([]domain.Withdrawal{}, s.withdrawals...),
	}
}

// ProcessingWithdrawals lists withdrawals still awaiting an outcome.
func (s *Store) ProcessingWithdrawals() []domain.Withdrawal {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Withdrawal
	for _, w := range s.withdrawals {
		if w.Status == domain.WithdrawalStatusProcessing {
			out = append(out, w)
		}
	}
	return out
}

func (s *Store) withdrawalIndex(id string) int {
	for i := range s.withdrawals {
		if s.withdrawals[i].ID == id {
			return i
		}
	}
	return -1
}
