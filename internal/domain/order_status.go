package domain

import (
	apperrors "restauranthub/internal/errors"
)

type OrderStatus string

const (
	OrderStatusNew            OrderStatus = "New"
	OrderStatusPreparing      OrderStatus = "Preparing"
	OrderStatusReady          OrderStatus = "Ready"
	OrderStatusOutForDelivery OrderStatus = "OutForDelivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
	OrderStatusCancelled      OrderStatus = "Cancelled"
	OrderStatusRejected       OrderStatus = "Rejected"
)

// orderTransitions maps a status to the statuses it may move to.
// Terminal statuses have no entry.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusNew:            {OrderStatusPreparing, OrderStatusRejected},
	OrderStatusPreparing:      {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:          {OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusOutForDelivery: {OrderStatusDelivered, OrderStatusCancelled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusPreparing, OrderStatusReady, OrderStatusOutForDelivery,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRejected:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusRejected:
		return true
	}
	return false
}

// ValidateTransition checks whether order may move to next.
// OutForDelivery is only reachable for delivery orders.
func ValidateTransition(order Order, next OrderStatus) error {
	invalid := apperrors.NewInvalidTransitionError("order", string(order.Status), string(next))

	if next == OrderStatusOutForDelivery && order.Type != OrderTypeDelivery {
		return invalid
	}

	for _, s := range orderTransitions[order.Status] {
		if s == next {
			return nil
		}
	}
	return invalid
}

// NextStatuses lists the statuses order may move to from its current status.
func NextStatuses(order Order) []OrderStatus {
	var next []OrderStatus
	for _, s := range orderTransitions[order.Status] {
		if s == OrderStatusOutForDelivery && order.Type != OrderTypeDelivery {
			continue
		}
		next = append(next, s)
	}
	return next
}
