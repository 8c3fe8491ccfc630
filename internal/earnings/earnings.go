// Package earnings aggregates revenue and payouts from the order history and
// drives withdrawal settlement.
package earnings

import (
	"time"

	"github.com/shopspring/decimal"

	"restauranthub/internal/domain"
)

var (
	deliveryGSTRate = decimal.RequireFromString("0.05")
	adsGSTRate      = decimal.RequireFromString("0.18")
)

type Summary struct {
	From            *time.Time      `json:"from,omitempty"`
	To              *time.Time      `json:"to,omitempty"`
	OrderCount      int             `json:"orderCount"`
	DeliveryRevenue decimal.Decimal `json:"deliveryRevenue"`
	TakeawayRevenue decimal.Decimal `json:"takeawayRevenue"`
	DineInRevenue   decimal.Decimal `json:"dineInRevenue"`
	BookingCharges  decimal.Decimal `json:"bookingCharges"`
	WalkInRevenue   decimal.Decimal `json:"walkInRevenue"`
	GSTOnDelivery   decimal.Decimal `json:"gstOnDelivery"`
	AdsSpend        decimal.Decimal `json:"adsSpend"`
	GSTOnAds        decimal.Decimal `json:"gstOnAds"`
	Refunds         decimal.Decimal `json:"refunds"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	NetPayout       decimal.Decimal `json:"netPayout"`
}

// Period bounds the orders and refunds an aggregation covers. A nil bound is open.
// Orders are matched on CreatedAt, refunds on DecidedAt.
type Period struct {
	From *time.Time
	To   *time.Time
}

func (p Period) contains(t time.Time) bool {
	if p.From != nil && t.Before(*p.From) {
		return false
	}
	if p.To != nil && !t.Before(*p.To) {
		return false
	}
	return true
}

// Compute is the single earnings computation every endpoint reports. Cancelled
// and Rejected orders never count. Walk-in takeaway is collected at the counter,
// so it is listed and then deducted from the payout.
func Compute(orders []domain.Order, refunds []domain.RefundRequest, adsSpend decimal.Decimal, period Period) Summary {
	s := Summary{
		From:            period.From,
		To:              period.To,
		DeliveryRevenue: decimal.Zero,
		TakeawayRevenue: decimal.Zero,
		DineInRevenue:   decimal.Zero,
		BookingCharges:  decimal.Zero,
		WalkInRevenue:   decimal.Zero,
		Refunds:         decimal.Zero,
		AdsSpend:        adsSpend,
	}

	for _, o := range orders {
		if o.Status == domain.OrderStatusCancelled || o.Status == domain.OrderStatusRejected {
			continue
		}
		if !period.contains(o.CreatedAt) {
			continue
		}
		s.OrderCount++

		switch {
		case o.IsBooking():
			s.BookingCharges = s.BookingCharges.Add(o.Total)
		case o.Type == domain.OrderTypeDelivery:
			s.DeliveryRevenue = s.DeliveryRevenue.Add(o.Total)
		case o.Type == domain.OrderTypeTakeaway && o.IsOffline():
			s.WalkInRevenue = s.WalkInRevenue.Add(o.Total)
		case o.Type == domain.OrderTypeTakeaway:
			s.TakeawayRevenue = s.TakeawayRevenue.Add(o.Total)
		case o.Type == domain.OrderTypeDineIn:
			s.DineInRevenue = s.DineInRevenue.Add(o.Total)
		}
	}

	for _, r := range refunds {
		if r.Status != domain.RefundStatusApproved {
			continue
		}
		if r.DecidedAt != nil && !period.contains(*r.DecidedAt) {
			continue
		}
		s.Refunds = s.Refunds.Add(r.CostSplit.Restaurant)
	}

	s.GSTOnDelivery = s.DeliveryRevenue.Mul(deliveryGSTRate)
	s.GSTOnAds = adsSpend.Mul(adsGSTRate)

	s.TotalRevenue = s.DeliveryRevenue.
		Add(s.TakeawayRevenue).
		Add(s.DineInRevenue).
		Add(s.BookingCharges)
	s.TotalDeductions = s.GSTOnDelivery.
		Add(adsSpend).
		Add(s.GSTOnAds).
		Add(s.Refunds).
		Add(s.WalkInRevenue)
	s.NetPayout = s.TotalRevenue.Sub(s.TotalDeductions)

	return s
}
