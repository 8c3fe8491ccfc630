package domain

import "github.com/shopspring/decimal"

// Snapshot is the persisted state the store is hydrated from.
type Snapshot struct {
	Orders        []Order
	Tables        []Table
	Refunds       []RefundRequest
	Withdrawals   []Withdrawal
	WalletBalance decimal.Decimal
	Settings      *Settings
	NextOrderSeq  int
}
