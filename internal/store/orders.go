package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"restauranthub/internal/domain"
	apperrors "restauranthub/internal/errors"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// AddOrder admits a manually entered order. The initial status must be New or
// Preparing; an empty status defaults to Preparing. A zero total is computed from
// the items, a non-zero total must match them.
func (s *Store) AddOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	var created domain.Order

	err := s.mutate(func() ([]Event, error) {
		if order.Status == "" {
			order.Status = domain.OrderStatusPreparing
		}
		if order.Status != domain.OrderStatusNew && order.Status != domain.OrderStatusPreparing {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("initial status must be New or Preparing, got %s", order.Status),
				apperrors.ValidationDetail{Field: "status", Message: "must be New or Preparing"},
			)
		}
		if order.Kind == domain.OrderKindBooking {
			return nil, apperrors.NewValidationError("bookings are created from a pending booking",
				apperrors.ValidationDetail{Field: "kind", Message: "must be Regular"})
		}

		o, err := s.prepareOrder(order)
		if err != nil {
			return nil, err
		}

		changed, err := s.claimTables(o)
		if err != nil {
			return nil, err
		}

		o.ID = s.nextOrderID()
		if err := s.persistOrder(ctx, o, changed); err != nil {
			return nil, err
		}

		s.commitTables(changed)
		s.orders = append(s.orders, o)
		created = o.Clone()

		s.logger.Info("order added",
			zap.String("orderId", o.ID),
			zap.String("type", string(o.Type)),
			zap.String("source", string(o.Source)),
			zap.String("total", o.Total.String()),
		)
		return append([]Event{s.event(EventOrderCreated, created)}, s.tableEvents(changed)...), nil
	})

	return created, err
}

// OfferOrder places an incoming platform order in the incoming box. The order is
// not part of the collection until AcceptNewOrder commits it.
func (s *Store) OfferOrder(order domain.Order) (domain.Draft[domain.Order], error) {
	var draft domain.Draft[domain.Order]

	err := s.mutate(func() ([]Event, error) {
		order.Status = domain.OrderStatusNew
		order.Kind = domain.OrderKindRegular
		order.ID = ""

		o, err := s.prepareOrder(order)
		if err != nil {
			return nil, err
		}
		if err := s.checkTablesExist(o.Tables); err != nil {
			return nil, err
		}

		draft = domain.Draft[domain.Order]{ID: s.newID(), Payload: o, OfferedAt: s.now()}
		s.incoming[draft.ID] = draft
		s.incomingOrder = append(s.incomingOrder, draft.ID)

		s.logger.Info("order offered", zap.String("draftId", draft.ID), zap.String("customer", o.Customer))
		return []Event{s.event(EventOrderOffered, draft)}, nil
	})

	return draft, err
}

// AcceptNewOrder commits an incoming draft as a Preparing order with the given prep time.
func (s *Store) AcceptNewOrder(ctx context.Context, draftID, prepTime string) (domain.Order, error) {
	var accepted domain.Order

	err := s.mutate(func() ([]Event, error) {
		if prepTime == "" {
			return nil, apperrors.NewValidationError("prep time is required",
				apperrors.ValidationDetail{Field: "prepTime", Message: "must not be empty"})
		}

		draft, ok := s.incoming[draftID]
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("incoming order %s not found", draftID))
		}

		o := draft.Payload.Clone()
		if err := domain.ValidateTransition(o, domain.OrderStatusPreparing); err != nil {
			return nil, err
		}
		o.Status = domain.OrderStatusPreparing
		o.PrepTime = prepTime
		o.UpdatedAt = s.now()

		changed, err := s.claimTables(o)
		if err != nil {
			return nil, err
		}

		o.ID = s.nextOrderID()
		if err := s.persistOrder(ctx, o, changed); err != nil {
			return nil, err
		}

		s.commitTables(changed)
		s.orders = append(s.orders, o)
		s.removeIncoming(draftID)
		accepted = o.Clone()

		s.logger.Info("incoming order accepted",
			zap.String("draftId", draftID),
			zap.String("orderId", o.ID),
			zap.String("prepTime", prepTime),
		)
		return append([]Event{s.event(EventOrderAccepted, accepted)}, s.tableEvents(changed)...), nil
	})

	return accepted, err
}

// DeclineNewOrder discards an incoming draft.
func (s *Store) DeclineNewOrder(draftID string) error {
	return s.mutate(func() ([]Event, error) {
		draft, ok := s.incoming[draftID]
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("incoming order %s not found", draftID))
		}
		s.removeIncoming(draftID)

		s.logger.Info("incoming order declined", zap.String("draftId", draftID))
		return []Event{s.event(EventOrderDeclined, draft)}, nil
	})
}

// UpdateOrderStatus moves an order along its lifecycle. When the order reaches a
// terminal status its tables are released unless another active order holds them.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, next domain.OrderStatus) (domain.Order, error) {
	var updated domain.Order

	err := s.mutate(func() ([]Event, error) {
		if !next.Valid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown order status %q", next),
				apperrors.ValidationDetail{Field: "status", Message: "unknown status"})
		}

		idx := s.orderIndex(id)
		if idx < 0 {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
		}

		o := s.orders[idx].Clone()
		if err := domain.ValidateTransition(o, next); err != nil {
			return nil, err
		}
		from := o.Status
		o.Status = next
		o.UpdatedAt = s.now()

		var released []domain.Table
		if next.IsTerminal() {
			released = s.releasableTables(o)
		}

		if err := s.persistOrder(ctx, o, released); err != nil {
			return nil, err
		}

		s.commitTables(released)
		s.orders[idx] = o
		updated = o.Clone()

		s.logger.Info("order status updated",
			zap.String("orderId", id),
			zap.String("from", string(from)),
			zap.String("to", string(next)),
			zap.Int("tablesReleased", len(released)),
		)
		return append([]Event{s.event(EventOrderStatusChanged, updated)}, s.tableEvents(released)...), nil
	})

	return updated, err
}

func (s *Store) Order(id string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.orderIndex(id)
	if idx < 0 {
		return domain.Order{}, apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	return s.orders[idx].Clone(), nil
}

func (s *Store) Orders() []domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o.Clone())
	}
	return out
}

// IncomingDrafts lists the offered orders in the order they arrived.
func (s *Store) IncomingDrafts() []domain.Draft[domain.Order] {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Draft[domain.Order], 0, len(s.incomingOrder))
	for _, id := range s.incomingOrder {
		d := s.incoming[id]
		d.Payload = d.Payload.Clone()
		out = append(out, d)
	}
	return out
}

// prepareOrder validates the payload and fills defaults. It does not touch state.
func (s *Store) prepareOrder(order domain.Order) (domain.Order, error) {
	o := order.Clone()

	if !o.Type.Valid() {
		return o, apperrors.NewValidationError(fmt.Sprintf("unknown order type %q", o.Type),
			apperrors.ValidationDetail{Field: "type", Message: "must be Delivery, Takeaway or Dine-in"})
	}
	if len(o.Items) == 0 {
		return o, apperrors.NewValidationError("order must contain at least one item",
			apperrors.ValidationDetail{Field: "items", Message: "must not be empty"})
	}

	var details []apperrors.ValidationDetail
	for i, item := range o.Items {
		if item.Name == "" {
			details = append(details, apperrors.ValidationDetail{
				Field: fmt.Sprintf("items[%d].name", i), Message: "must not be empty"})
		}
		if item.Quantity <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field: fmt.Sprintf("items[%d].quantity", i), Message: "must be greater than zero"})
		}
		if item.Price.IsNegative() {
			details = append(details, apperrors.ValidationDetail{
				Field: fmt.Sprintf("items[%d].price", i), Message: "must not be negative"})
		}
	}
	if len(details) > 0 {
		return o, apperrors.NewValidationError("invalid order items", details...)
	}

	if len(o.Tables) > 0 && o.Type != domain.OrderTypeDineIn {
		return o, apperrors.NewValidationError("only dine-in orders can hold tables",
			apperrors.ValidationDetail{Field: "tables", Message: "must be empty unless type is Dine-in"})
	}

	itemsTotal := o.ItemsTotal()
	if o.Total.IsZero() {
		o.Total = itemsTotal
	} else if !o.Total.Equal(itemsTotal) {
		return o, apperrors.NewValidationError(
			fmt.Sprintf("total %s does not match items total %s", o.Total, itemsTotal),
			apperrors.ValidationDetail{Field: "total", Message: "must equal the sum of price times quantity"},
		)
	}

	if o.Kind == "" {
		o.Kind = domain.OrderKindRegular
	}
	if o.Source == "" {
		o.Source = domain.OrderSourceOnline
	}
	if o.Customer == "" {
		o.Customer = o.CustomerDetails.Name
	}

	now := s.now()
	if o.Date == "" {
		o.Date = now.Format(dateLayout)
	}
	if o.Time == "" {
		o.Time = now.Format(timeLayout)
	}
	o.CreatedAt = now
	o.UpdatedAt = now

	return o, nil
}

func (s *Store) orderIndex(id string) int {
	for i := range s.orders {
		if s.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) removeIncoming(draftID string) {
	delete(s.incoming, draftID)
	for i, id := range s.incomingOrder {
		if id == draftID {
			s.incomingOrder = append(s.incomingOrder[:i], s.incomingOrder[i+1:]...)
			return
		}
	}
}
