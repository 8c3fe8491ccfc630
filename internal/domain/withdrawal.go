package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalStatusProcessing WithdrawalStatus = "Processing"
	WithdrawalStatusCompleted  WithdrawalStatus = "Completed"
	WithdrawalStatusFailed     WithdrawalStatus = "Failed"
)

func (s WithdrawalStatus) IsOutcome() bool {
	return s == WithdrawalStatusCompleted || s == WithdrawalStatusFailed
}

type Withdrawal struct {
	ID          string           `json:"id"`
	Amount      decimal.Decimal  `json:"amount"`
	Status      WithdrawalStatus `json:"status"`
	Reference   string           `json:"reference,omitempty"`
	RequestedAt time.Time        `json:"requestedAt"`
	SettledAt   *time.Time       `json:"settledAt,omitempty"`
}

type Wallet struct {
	Balance     decimal.Decimal `json:"balance"`
	Withdrawals []Withdrawal    `json:"withdrawals"`
}
