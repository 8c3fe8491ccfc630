package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"restauranthub/internal/domain"
	apperrors "restauranthub/internal/errors"
)

const (
	bookingItemID   = "booking"
	bookingItemName = "Table Booking"
)

// HoldBooking stores a pending reservation until it is confirmed or released.
// Tables are not claimed while the booking is held.
func (s *Store) HoldBooking(pending domain.PendingBooking) (domain.Draft[domain.PendingBooking], error) {
	var draft domain.Draft[domain.PendingBooking]

	err := s.mutate(func() ([]Event, error) {
		var details []apperrors.ValidationDetail
		if pending.Name == "" {
			details = append(details, apperrors.ValidationDetail{Field: "name", Message: "must not be empty"})
		}
		if pending.PartySize <= 0 {
			details = append(details, apperrors.ValidationDetail{Field: "partySize", Message: "must be greater than zero"})
		}
		if len(pending.Tables) == 0 {
			details = append(details, apperrors.ValidationDetail{Field: "tables", Message: "at least one table is required"})
		}
		if len(details) > 0 {
			return nil, apperrors.NewValidationError("invalid booking", details...)
		}
		if err := s.checkTablesExist(pending.Tables); err != nil {
			return nil, err
		}

		pending.Tables = append([]string(nil), pending.Tables...)
		draft = domain.Draft[domain.PendingBooking]{ID: s.newID(), Payload: pending, OfferedAt: s.now()}
		s.bookings[draft.ID] = draft
		s.bookingOrder = append(s.bookingOrder, draft.ID)

		s.logger.Info("booking held", zap.String("draftId", draft.ID), zap.Int("partySize", pending.PartySize))
		return []Event{s.event(EventBookingHeld, draft)}, nil
	})

	return draft, err
}

// ReleaseBooking drops a held booking without creating an order.
func (s *Store) ReleaseBooking(draftID string) error {
	return s.mutate(func() ([]Event, error) {
		draft, ok := s.bookings[draftID]
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("pending booking %s not found", draftID))
		}
		s.removeBooking(draftID)

		s.logger.Info("booking released", zap.String("draftId", draftID))
		return []Event{s.event(EventBookingReleased, draft)}, nil
	})
}

// AddBooking confirms a held booking. It creates a Dine-in booking order carrying one
// line item priced at fee and marks every referenced table Occupied.
func (s *Store) AddBooking(ctx context.Context, draftID string, fee decimal.Decimal) (domain.Order, error) {
	var created domain.Order

	err := s.mutate(func() ([]Event, error) {
		if fee.IsNegative() {
			return nil, apperrors.NewValidationError("booking fee must not be negative",
				apperrors.ValidationDetail{Field: "fee", Message: "must be zero or greater"})
		}

		draft, ok := s.bookings[draftID]
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("pending booking %s not found", draftID))
		}
		pending := draft.Payload

		o, err := s.prepareOrder(domain.Order{
			Customer:        pending.Name,
			CustomerDetails: domain.CustomerDetails{Name: pending.Name, Phone: pending.Phone},
			Items: []domain.OrderItem{{
				ID:       bookingItemID,
				Name:     bookingItemName,
				Quantity: 1,
				Price:    fee,
				Category: domain.CategoryBooking,
			}},
			Type:    domain.OrderTypeDineIn,
			Kind:    domain.OrderKindBooking,
			Status:  domain.OrderStatusPreparing,
			Date:    pending.Date,
			Time:    pending.Time,
			Total:   fee,
			Payment: domain.Payment{Method: "Online", Status: "Paid"},
			Source:  domain.OrderSourceOnline,
			Tables:  pending.Tables,
		})
		if err != nil {
			return nil, err
		}

		claimed, err := s.claimTables(o)
		if err != nil {
			return nil, err
		}
		capacity := 0
		for _, t := range claimed {
			capacity += t.Capacity
		}
		if pending.PartySize > capacity {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("party of %d exceeds the combined capacity %d of the selected tables", pending.PartySize, capacity),
				apperrors.ValidationDetail{Field: "partySize", Message: "must not exceed the table capacity"},
			)
		}

		o.ID = s.nextOrderID()
		if err := s.persistOrder(ctx, o, claimed); err != nil {
			return nil, err
		}

		s.commitTables(claimed)
		s.orders = append(s.orders, o)
		s.removeBooking(draftID)
		created = o.Clone()

		s.logger.Info("booking confirmed",
			zap.String("draftId", draftID),
			zap.String("orderId", o.ID),
			zap.Strings("tables", o.Tables),
			zap.String("fee", fee.String()),
		)
		return append([]Event{s.event(EventBookingConfirmed, created)}, s.tableEvents(claimed)...), nil
	})

	return created, err
}

func (s *Store) PendingBookings() []domain.Draft[domain.PendingBooking] {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Draft[domain.PendingBooking], 0, len(s.bookingOrder))
	for _, id := range s.bookingOrder {
		d := s.bookings[id]
		d.Payload.Tables = append([]string(nil), d.Payload.Tables...)
		out = append(out, d)
	}
	return out
}

func (s *Store) removeBooking(draftID string) {
	delete(s.bookings, draftID)
	for i, id := range s.bookingOrder {
		if id == draftID {
			s.bookingOrder = append(s.bookingOrder[:i], s.bookingOrder[i+1:]...)
			return
		}
	}
}
