package dto

import (
	"github.com/shopspring/decimal"

	"restauranthub/internal/domain"
)

type CreateRefundRequest struct {
	ID           string               `json:"id"`
	OrderID      string               `json:"orderId"`
	CustomerName string               `json:"customerName"`
	Reason       string               `json:"reason"`
	Photos       []domain.RefundPhoto `json:"photos"`
	Items        []string             `json:"items"`
	Amount       decimal.Decimal      `json:"amount"`
	CostSplit    domain.CostSplit     `json:"costSplit"`
}

func (r CreateRefundRequest) ToDomain() domain.RefundRequest {
	return domain.RefundRequest{
		ID:           r.ID,
		OrderID:      r.OrderID,
		CustomerName: r.CustomerName,
		Reason:       r.Reason,
		Photos:       r.Photos,
		Items:        r.Items,
		Amount:       r.Amount,
		CostSplit:    r.CostSplit,
	}
}

type RefundDecisionRequest struct {
	Decision domain.RefundStatus `json:"decision"`
}

type RefundsResponse struct {
	Refunds []domain.RefundRequest `json:"refunds"`
}
