package store

import "restauranthub/internal/domain"

// OrderBucket is the dashboard column an order is shown in.
type OrderBucket string

const (
	BucketNew            OrderBucket = "new"
	BucketPreparing      OrderBucket = "preparing"
	BucketReady          OrderBucket = "ready"
	BucketOutForDelivery OrderBucket = "outForDelivery"
	BucketDelivered      OrderBucket = "delivered"
	BucketClosed         OrderBucket = "closed"
	BucketBookings       OrderBucket = "bookings"
)

// GroupOrders splits orders into dashboard buckets. Bookings get their own bucket
// whatever their status; Cancelled and Rejected orders share the closed bucket.
func GroupOrders(orders []domain.Order) map[OrderBucket][]domain.Order {
	groups := map[OrderBucket][]domain.Order{
		BucketNew:            {},
		BucketPreparing:      {},
		BucketReady:          {},
		BucketOutForDelivery: {},
		BucketDelivered:      {},
		BucketClosed:         {},
		BucketBookings:       {},
	}

	for _, o := range orders {
		b := bucketOf(o)
		groups[b] = append(groups[b], o)
	}
	return groups
}

func bucketOf(o domain.Order) OrderBucket {
	if o.IsBooking() {
		return BucketBookings
	}
	switch o.Status {
	case domain.OrderStatusNew:
		return BucketNew
	case domain.OrderStatusPreparing:
		return BucketPreparing
	case domain.OrderStatusReady:
		return BucketReady
	case domain.OrderStatusOutForDelivery:
		return BucketOutForDelivery
	case domain.OrderStatusDelivered:
		return BucketDelivered
	default:
		return BucketClosed
	}
}

// OrderFilter narrows an order list. Zero fields match everything.
type OrderFilter struct {
	Status domain.OrderStatus
	Type   domain.OrderType
	Kind   domain.OrderKind
	Source domain.OrderSource
}

func FilterOrders(orders []domain.Order, f OrderFilter) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.Type != "" && o.Type != f.Type {
			continue
		}
		if f.Kind != "" && o.Kind != f.Kind {
			continue
		}
		if f.Source != "" && o.Source != f.Source {
			continue
		}
		out = append(out, o)
	}
	return out
}

func ComputeOccupancy(tables []domain.Table) domain.TableOccupancy {
	occupied := 0
	for _, t := range tables {
		if t.Status == domain.TableStatusOccupied {
			occupied++
		}
	}
	return domain.TableOccupancy{
		Total:     len(tables),
		Occupied:  occupied,
		Available: len(tables) - occupied,
	}
}
