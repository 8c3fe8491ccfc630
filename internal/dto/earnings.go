package dto

import (
	"github.com/shopspring/decimal"

	"restauranthub/internal/domain"
	"restauranthub/internal/earnings"
)

type EarningsResponse struct {
	earnings.Summary
	WalletBalance decimal.Decimal `json:"walletBalance"`
}

type WithdrawalRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type SettlementRequest struct {
	Status    domain.WithdrawalStatus `json:"status"`
	Reference string                  `json:"reference"`
}
