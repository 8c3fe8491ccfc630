package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restauranthub/internal/domain"
	apperrors "restauranthub/internal/errors"
)

func seedTable(t *testing.T, s *Store, id string, capacity int) {
	t.Helper()
	tables := s.Tables()
	tables = append(tables, domain.Table{ID: id, Name: id, Capacity: capacity, Type: "Normal", Status: domain.TableStatusAvailable})
	s.Hydrate(domain.Snapshot{Tables: tables, Orders: s.Orders(), WalletBalance: s.WalletBalance()})
}

func TestAddBooking_CreatesBookingOrderAndOccupiesTable(t *testing.T) {
	s := newTestStore(t)
	seedTable(t, s, "T1", 4)

	draft, err := s.HoldBooking(domain.PendingBooking{
		Name:      "Alice",
		Date:      "2026-03-20",
		Time:      "19:30",
		PartySize: 2,
		Tables:    []string{"T1"},
	})
	require.NoError(t, err)

	o, err := s.AddBooking(context.Background(), draft.ID, dec("100"))
	require.NoError(t, err)

	assert.Equal(t, domain.OrderTypeDineIn, o.Type)
	assert.Equal(t, domain.OrderKindBooking, o.Kind)
	assert.Equal(t, domain.OrderStatusPreparing, o.Status)
	assert.Equal(t, "Alice", o.Customer)
	assert.Equal(t, "2026-03-20", o.Date)
	require.Len(t, o.Items, 1)
	assert.Equal(t, domain.CategoryBooking, o.Items[0].Category)
	assert.True(t, o.Items[0].Price.Equal(dec("100")))
	assert.True(t, o.Total.Equal(dec("100")))

	table, err := s.Table("T1")
	require.NoError(t, err)
	assert.Equal(t, domain.TableStatusOccupied, table.Status)
	assert.Empty(t, s.PendingBookings())
}

func TestAddBooking_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, s *Store)
		pending domain.PendingBooking
		fee     string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "party exceeds capacity",
			pending: domain.PendingBooking{Name: "Bob", PartySize: 6, Tables: []string{"T1"}},
			fee:     "100",
			check: func(t *testing.T, err error) {
				_, ok := apperrors.IsValidationError(err)
				assert.True(t, ok)
			},
		},
		{
			name: "table already occupied",
			setup: func(t *testing.T, s *Store) {
				occupied := domain.TableStatusOccupied
				_, err := s.UpdateTable(context.Background(), "T1", domain.TablePatch{Status: &occupied})
				require.NoError(t, err)
			},
			pending: domain.PendingBooking{Name: "Bob", PartySize: 2, Tables: []string{"T1"}},
			fee:     "100",
			check: func(t *testing.T, err error) {
				ce, ok := apperrors.IsConflictError(err)
				require.True(t, ok)
				assert.Equal(t, apperrors.CodeTableInUse, ce.Code)
			},
		},
		{
			name: "table deleted while held",
			setup: func(t *testing.T, s *Store) {
				require.NoError(t, s.DeleteTable(context.Background(), "T1"))
			},
			pending: domain.PendingBooking{Name: "Bob", PartySize: 2, Tables: []string{"T1"}},
			fee:     "100",
			check: func(t *testing.T, err error) {
				_, ok := apperrors.IsNotFoundError(err)
				assert.True(t, ok)
			},
		},
		{
			name:    "negative fee",
			pending: domain.PendingBooking{Name: "Bob", PartySize: 2, Tables: []string{"T1"}},
			fee:     "-5",
			check: func(t *testing.T, err error) {
				_, ok := apperrors.IsValidationError(err)
				assert.True(t, ok)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			seedTable(t, s, "T1", 4)
			draft, err := s.HoldBooking(tt.pending)
			require.NoError(t, err)
			if tt.setup != nil {
				tt.setup(t, s)
			}

			_, err = s.AddBooking(context.Background(), draft.ID, dec(tt.fee))

			tt.check(t, err)
			assert.Empty(t, s.Orders())
			assert.Len(t, s.PendingBookings(), 1)
		})
	}
}

func TestAddBooking_CombinesCapacityAcrossTables(t *testing.T) {
	s := newTestStore(t)
	seedTable(t, s, "T1", 4)
	seedTable(t, s, "T2", 4)

	draft, err := s.HoldBooking(domain.PendingBooking{Name: "Team", PartySize: 8, Tables: []string{"T1", "T2"}})
	require.NoError(t, err)

	_, err = s.AddBooking(context.Background(), draft.ID, dec("250"))
	require.NoError(t, err)

	assert.Equal(t, domain.TableOccupancy{Total: 2, Occupied: 2, Available: 0}, s.TableOccupancy())
}

func TestHoldBooking_Validation(t *testing.T) {
	s := newTestStore(t)
	seedTable(t, s, "T1", 4)

	_, err := s.HoldBooking(domain.PendingBooking{Name: "", PartySize: 0})
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Details, 3)

	_, err = s.HoldBooking(domain.PendingBooking{Name: "Bob", PartySize: 2, Tables: []string{"T9"}})
	_, ok = apperrors.IsNotFoundError(err)
	assert.True(t, ok)

	assert.Empty(t, s.PendingBookings())
}

func TestReleaseBooking(t *testing.T) {
	s := newTestStore(t)
	seedTable(t, s, "T1", 4)
	draft, err := s.HoldBooking(domain.PendingBooking{Name: "Bob", PartySize: 2, Tables: []string{"T1"}})
	require.NoError(t, err)

	require.NoError(t, s.ReleaseBooking(draft.ID))
	assert.Empty(t, s.PendingBookings())
	assert.Empty(t, s.Orders())

	_, err = s.AddBooking(context.Background(), draft.ID, dec("100"))
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestBookingOrders_GroupedSeparately(t *testing.T) {
	s := newTestStore(t)
	seedTable(t, s, "T1", 4)
	draft, err := s.HoldBooking(domain.PendingBooking{Name: "Alice", PartySize: 2, Tables: []string{"T1"}})
	require.NoError(t, err)
	_, err = s.AddBooking(context.Background(), draft.ID, dec("100"))
	require.NoError(t, err)
	_, err = s.AddOrder(context.Background(), domain.Order{
		Type:  domain.OrderTypeTakeaway,
		Items: []domain.OrderItem{item("Wrap", 1, "120")},
	})
	require.NoError(t, err)

	groups := GroupOrders(s.Orders())

	assert.Len(t, groups[BucketBookings], 1)
	assert.Len(t, groups[BucketPreparing], 1)
}
