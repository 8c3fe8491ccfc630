package store

import (
	"time"

	"go.uber.org/zap"
)

type EventType string

const (
	EventOrderOffered        EventType = "order.offered"
	EventOrderAccepted       EventType = "order.accepted"
	EventOrderDeclined       EventType = "order.declined"
	EventOrderCreated        EventType = "order.created"
	EventOrderStatusChanged  EventType = "order.status_changed"
	EventTableCreated        EventType = "table.created"
	EventTableUpdated        EventType = "table.updated"
	EventTableDeleted        EventType = "table.deleted"
	EventBookingHeld         EventType = "booking.held"
	EventBookingReleased     EventType = "booking.released"
	EventBookingConfirmed    EventType = "booking.confirmed"
	EventRefundReceived      EventType = "refund.received"
	EventRefundDecided       EventType = "refund.decided"
	EventWithdrawalInitiated EventType = "withdrawal.initiated"
	EventWithdrawalSettled   EventType = "withdrawal.settled"
	EventBranchesSynced      EventType = "branch.synced"
	EventBranchUpdated       EventType = "branch.updated"
	EventSettingsUpdated     EventType = "settings.updated"
)

type Event struct {
	Type    EventType `json:"type"`
	At      time.Time `json:"at"`
	Payload any       `json:"payload"`
}

// Listener receives committed changes. It runs on the mutating goroutine after the
// store lock is released and must not block.
type Listener func(Event)

func (s *Store) Subscribe(l Listener) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Store) emit(events ...Event) {
	if len(events) == 0 {
		return
	}

	s.listenersMu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.listenersMu.RUnlock()

	for _, e := range events {
		s.logger.Debug("store event", zap.String("type", string(e.Type)))
		for _, l := range listeners {
			l(e)
		}
	}
}
