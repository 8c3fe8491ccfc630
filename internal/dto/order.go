package dto

import (
	"github.com/shopspring/decimal"

	"restauranthub/internal/domain"
)

type OrderItemRequest struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

// CreateOrderRequest is the body of a manual order and of an offered platform order.
type CreateOrderRequest struct {
	Customer        string                 `json:"customer"`
	CustomerDetails domain.CustomerDetails `json:"customerDetails"`
	Items           []OrderItemRequest     `json:"items"`
	Type            domain.OrderType       `json:"type"`
	Status          domain.OrderStatus     `json:"status"`
	Date            string                 `json:"date"`
	Time            string                 `json:"time"`
	PrepTime        string                 `json:"prepTime"`
	Total           decimal.Decimal        `json:"total"`
	Payment         domain.Payment         `json:"payment"`
	Source          domain.OrderSource     `json:"source"`
	Tables          []string               `json:"tables"`
}

func (r CreateOrderRequest) ToDomain() domain.Order {
	items := make([]domain.OrderItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = domain.OrderItem{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Category: item.Category,
		}
	}

	return domain.Order{
		Customer:        r.Customer,
		CustomerDetails: r.CustomerDetails,
		Items:           items,
		Type:            r.Type,
		Kind:            domain.OrderKindRegular,
		Status:          r.Status,
		Date:            r.Date,
		Time:            r.Time,
		PrepTime:        r.PrepTime,
		Total:           r.Total,
		Payment:         r.Payment,
		Source:          r.Source,
		Tables:          r.Tables,
	}
}

type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

type AcceptOrderRequest struct {
	PrepTime string `json:"prepTime"`
}

type OrderResponse struct {
	domain.Order
	NextStatuses []domain.OrderStatus `json:"nextStatuses"`
}

func NewOrderResponse(o domain.Order) OrderResponse {
	next := domain.NextStatuses(o)
	if next == nil {
		next = []domain.OrderStatus{}
	}
	return OrderResponse{Order: o, NextStatuses: next}
}

type OrdersResponse struct {
	Total   int                        `json:"total"`
	Buckets map[string][]OrderResponse `json:"buckets"`
}

type IncomingOrdersResponse struct {
	Drafts []domain.Draft[domain.Order] `json:"drafts"`
}
