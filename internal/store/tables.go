package store

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"restauranthub/internal/domain"
	apperrors "restauranthub/internal/errors"
)

// MaxTableSeries bounds how many tables one series call may create.
const MaxTableSeries = 500

func (s *Store) AddTable(ctx context.Context, name string, capacity int, tableType string) (domain.Table, error) {
	var created domain.Table

	err := s.mutate(func() ([]Event, error) {
		t := domain.Table{
			ID:       s.newID(),
			Name:     name,
			Capacity: capacity,
			Type:     tableType,
			Status:   domain.TableStatusAvailable,
		}
		if err := s.validateTable(t, nil); err != nil {
			return nil, err
		}

		if err := s.persistTable(ctx, t); err != nil {
			return nil, err
		}
		s.tables = append(s.tables, t)
		created = t

		s.logger.Info("table added", zap.String("tableId", t.ID), zap.String("name", t.Name), zap.Int("capacity", t.Capacity))
		return []Event{s.event(EventTableCreated, t)}, nil
	})

	return created, err
}

// AddTableSeries creates the tables prefix+start through prefix+end. Every table is
// validated before any is stored, so either all are created or none.
func (s *Store) AddTableSeries(ctx context.Context, prefix string, start, end, capacity int, tableType string) ([]domain.Table, error) {
	var created []domain.Table

	err := s.mutate(func() ([]Event, error) {
		if start > end {
			return nil, apperrors.NewInvalidRangeError(start, end)
		}
		if count := end - start + 1; count > MaxTableSeries {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("series of %d tables exceeds the limit of %d", count, MaxTableSeries),
				apperrors.ValidationDetail{Field: "end", Message: fmt.Sprintf("at most %d tables per series", MaxTableSeries)},
			)
		}

		batch := make([]domain.Table, 0, end-start+1)
		for i := start; i <= end; i++ {
			t := domain.Table{
				ID:       s.newID(),
				Name:     prefix + strconv.Itoa(i),
				Capacity: capacity,
				Type:     tableType,
				Status:   domain.TableStatusAvailable,
			}
			if err := s.validateTable(t, batch); err != nil {
				return nil, err
			}
			batch = append(batch, t)
		}

		if err := s.persistTables(ctx, batch); err != nil {
			return nil, err
		}
		s.tables = append(s.tables, batch...)
		created = append([]domain.Table(nil), batch...)

		s.logger.Info("table series added",
			zap.String("prefix", prefix),
			zap.Int("start", start),
			zap.Int("end", end),
			zap.Int("count", len(batch)),
		)

		events := make([]Event, 0, len(batch))
		for _, t := range batch {
			events = append(events, s.event(EventTableCreated, t))
		}
		return events, nil
	})

	return created, err
}

// UpdateTable applies patch to the table. A status patch is a manual override and
// is accepted even while an order holds the table.
func (s *Store) UpdateTable(ctx context.Context, id string, patch domain.TablePatch) (domain.Table, error) {
	var updated domain.Table

	err := s.mutate(func() ([]Event, error) {
		idx := s.tableIndex(id)
		if idx < 0 {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("table %s not found", id))
		}

		t := s.tables[idx]
		if patch.Name != nil {
			t.Name = *patch.Name
		}
		if patch.Capacity != nil {
			t.Capacity = *patch.Capacity
		}
		if patch.Type != nil {
			t.Type = *patch.Type
		}
		if patch.Status != nil {
			if !patch.Status.Valid() {
				return nil, apperrors.NewValidationError(fmt.Sprintf("unknown table status %q", *patch.Status),
					apperrors.ValidationDetail{Field: "status", Message: "must be Available or Occupied"})
			}
			t.Status = *patch.Status
		}
		if err := s.validateTable(t, nil); err != nil {
			return nil, err
		}

		if err := s.persistTable(ctx, t); err != nil {
			return nil, err
		}
		s.tables[idx] = t
		updated = t

		s.logger.Info("table updated", zap.String("tableId", id))
		return []Event{s.event(EventTableUpdated, t)}, nil
	})

	return updated, err
}

// DeleteTable removes a table no active order references.
func (s *Store) DeleteTable(ctx context.Context, id string) error {
	return s.mutate(func() ([]Event, error) {
		idx := s.tableIndex(id)
		if idx < 0 {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("table %s not found", id))
		}
		for _, o := range s.orders {
			if o.IsActive() && o.UsesTable(id) {
				return nil, apperrors.NewTableInUseError(id)
			}
		}

		if err := s.deleteTable(ctx, id); err != nil {
			return nil, err
		}
		t := s.tables[idx]
		s.tables = append(s.tables[:idx], s.tables[idx+1:]...)

		s.logger.Info("table deleted", zap.String("tableId", id))
		return []Event{s.event(EventTableDeleted, t)}, nil
	})
}

func (s *Store) Table(id string) (domain.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.tableIndex(id)
	if idx < 0 {
		return domain.Table{}, apperrors.NewNotFoundError(fmt.Sprintf("table %s not found", id))
	}
	return s.tables[idx], nil
}

func (s *Store) Tables() []domain.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Table{}, s.tables...)
}

// TableOccupancy is recomputed from the table list on every call.
func (s *Store) TableOccupancy() domain.TableOccupancy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ComputeOccupancy(s.tables)
}

// validateTable checks t against the settings and the existing tables plus pending,
// a batch not yet stored.
func (s *Store) validateTable(t domain.Table, pending []domain.Table) error {
	if t.Name == "" {
		return apperrors.NewValidationError("table name is required",
			apperrors.ValidationDetail{Field: "name", Message: "must not be empty"})
	}
	if t.Capacity <= 0 {
		return apperrors.NewInvalidCapacityError(t.Capacity)
	}
	if !s.settings.HasTableType(t.Type) {
		return apperrors.NewValidationError(fmt.Sprintf("unknown table type %q", t.Type),
			apperrors.ValidationDetail{Field: "type", Message: "must be one of the configured table types"})
	}

	for _, other := range s.tables {
		if other.ID != t.ID && other.Name == t.Name {
			return apperrors.NewConflictError(fmt.Sprintf("table named %s already exists", t.Name))
		}
	}
	for _, other := range pending {
		if other.Name == t.Name {
			return apperrors.NewConflictError(fmt.Sprintf("table named %s already exists", t.Name))
		}
	}
	return nil
}

func (s *Store) tableIndex(id string) int {
	for i := range s.tables {
		if s.tables[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) checkTablesExist(ids []string) error {
	for _, id := range ids {
		if s.tableIndex(id) < 0 {
			return apperrors.NewNotFoundError(fmt.Sprintf("table %s not found", id))
		}
	}
	return nil
}

// claimTables returns copies of the order's tables marked Occupied. Nothing is
// committed; the caller applies the result with commitTables.
func (s *Store) claimTables(o domain.Order) ([]domain.Table, error) {
	if len(o.Tables) == 0 {
		return nil, nil
	}

	claimed := make([]domain.Table, 0, len(o.Tables))
	seen := make(map[string]bool, len(o.Tables))
	for _, id := range o.Tables {
		if seen[id] {
			continue
		}
		seen[id] = true

		idx := s.tableIndex(id)
		if idx < 0 {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("table %s not found", id))
		}
		t := s.tables[idx]
		if t.Status == domain.TableStatusOccupied {
			return nil, apperrors.NewTableInUseError(id)
		}
		t.Status = domain.TableStatusOccupied
		claimed = append(claimed, t)
	}
	return claimed, nil
}

// releasableTables returns copies of the order's tables set Available, skipping
// tables another active order still holds.
func (s *Store) releasableTables(o domain.Order) []domain.Table {
	var released []domain.Table
	for _, id := range o.Tables {
		idx := s.tableIndex(id)
		if idx < 0 || s.tables[idx].Status != domain.TableStatusOccupied {
			continue
		}
		if s.heldByOther(id, o.ID) {
			continue
		}
		t := s.tables[idx]
		t.Status = domain.TableStatusAvailable
		released = append(released, t)
	}
	return released
}

func (s *Store) heldByOther(tableID, orderID string) bool {
	for _, o := range s.orders {
		if o.ID != orderID && o.IsActive() && o.UsesTable(tableID) {
			return true
		}
	}
	return false
}

func (s *Store) commitTables(changed []domain.Table) {
	for _, t := range changed {
		if idx := s.tableIndex(t.ID); idx >= 0 {
			s.tables[idx] = t
		}
	}
}

func (s *Store) tableEvents(changed []domain.Table) []Event {
	events := make([]Event, 0, len(changed))
	for _, t := range changed {
		events = append(events, s.event(EventTableUpdated, t))
	}
	return events
}
