// Package store holds the restaurant's in-process state: orders, tables, branches,
// refunds, the wallet and settings, plus the transient drafts awaiting confirmation.
//
// State is private. Every mutation validates its input against the current state,
// writes through to the configured repositories and only then commits in memory,
// so a failed call never leaves partial changes behind.
package store

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"restauranthub/internal/domain"
)

type Store struct {
	mu sync.Mutex

	orders      []domain.Order
	tables      []domain.Table
	branches    []domain.Branch
	refunds     []domain.RefundRequest
	withdrawals []domain.Withdrawal
	balance     decimal.Decimal
	settings    domain.Settings

	incoming      map[string]domain.Draft[domain.Order]
	incomingOrder []string
	bookings      map[string]domain.Draft[domain.PendingBooking]
	bookingOrder  []string

	orderSeq int

	repos  Repositories
	logger *zap.Logger

	listenersMu sync.RWMutex
	listeners   []Listener

	now   func() time.Time
	newID func() string
}

func New(repos Repositories, logger *zap.Logger) *Store {
	return &Store{
		settings: domain.DefaultSettings(),
		balance:  decimal.Zero,
		incoming: make(map[string]domain.Draft[domain.Order]),
		bookings: make(map[string]domain.Draft[domain.PendingBooking]),
		repos:    repos,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

// Hydrate replaces the committed state with a persisted snapshot. Drafts are kept.
func (s *Store) Hydrate(snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = make([]domain.Order, 0, len(snap.Orders))
	maxSeq := snap.NextOrderSeq
	for _, o := range snap.Orders {
		s.orders = append(s.orders, o.Clone())
		if n := orderSeqOf(o.ID); n > maxSeq {
			maxSeq = n
		}
	}
	s.orderSeq = maxSeq

	s.tables = append([]domain.Table(nil), snap.Tables...)

	s.refunds = make([]domain.RefundRequest, 0, len(snap.Refunds))
	for _, r := range snap.Refunds {
		s.refunds = append(s.refunds, r.Clone())
	}

	s.withdrawals = append([]domain.Withdrawal(nil), snap.Withdrawals...)
	s.balance = snap.WalletBalance

	if snap.Settings != nil {
		s.settings = snap.Settings.Clone()
	}

	s.logger.Info("store hydrated",
		zap.Int("orders", len(s.orders)),
		zap.Int("tables", len(s.tables)),
		zap.Int("refunds", len(s.refunds)),
		zap.Int("withdrawals", len(s.withdrawals)),
		zap.String("walletBalance", s.balance.String()),
	)
}

// mutate runs fn under the store lock and dispatches the resulting events after
// the lock is released.
func (s *Store) mutate(fn func() ([]Event, error)) error {
	events, err := func() ([]Event, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn()
	}()
	if err != nil {
		return err
	}
	s.emit(events...)
	return nil
}

func (s *Store) event(typ EventType, payload any) Event {
	return Event{Type: typ, At: s.now(), Payload: payload}
}

func (s *Store) nextOrderID() string {
	s.orderSeq++
	return fmt.Sprintf("ORD-%d", s.orderSeq)
}

func orderSeqOf(id string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(id, "ORD-"))
	if err != nil {
		return 0
	}
	return n
}
