package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RefundStatus string

const (
	RefundStatusPending  RefundStatus = "Pending"
	RefundStatusApproved RefundStatus = "Approved"
	RefundStatusRejected RefundStatus = "Rejected"
)

// IsDecision reports whether s is an outcome a partner may choose.
func (s RefundStatus) IsDecision() bool {
	return s == RefundStatusApproved || s == RefundStatusRejected
}

type RefundPhoto struct {
	URL  string `json:"url"`
	Hint string `json:"hint"`
}

// CostSplit is how the refund amount is shared between the restaurant and the platform.
type CostSplit struct {
	Restaurant decimal.Decimal `json:"restaurant"`
	Crevings   decimal.Decimal `json:"crevings"`
}

type RefundRequest struct {
	ID           string          `json:"id"`
	OrderID      string          `json:"orderId"`
	CustomerName string          `json:"customerName"`
	Reason       string          `json:"reason"`
	Photos       []RefundPhoto   `json:"photos"`
	Items        []string        `json:"items"`
	Amount       decimal.Decimal `json:"amount"`
	CostSplit    CostSplit       `json:"costSplit"`
	Status       RefundStatus    `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	DecidedAt    *time.Time      `json:"decidedAt,omitempty"`
}

func (r RefundRequest) Clone() RefundRequest {
	c := r
	if r.Photos != nil {
		c.Photos = append([]RefundPhoto(nil), r.Photos...)
	}
	if r.Items != nil {
		c.Items = append([]string(nil), r.Items...)
	}
	if r.DecidedAt != nil {
		at := *r.DecidedAt
		c.DecidedAt = &at
	}
	return c
}
