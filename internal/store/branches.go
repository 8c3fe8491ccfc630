package store

import (
	"fmt"

	"go.uber.org/zap"

	"restauranthub/internal/domain"
	apperrors "restauranthub/internal/errors"
)

// SetBranches replaces the branch list with the upstream view. The first branch is
// the primary one the restaurant status is read from.
func (s *Store) SetBranches(branches []domain.Branch) {
	_ = s.mutate(func() ([]Event, error) {
		s.branches = append([]domain.Branch(nil), branches...)
		s.logger.Info("branches replaced", zap.Int("count", len(branches)))
		return []Event{s.event(EventBranchesSynced, append([]domain.Branch(nil), branches...))}, nil
	})
}

// ApplyBranchOnline records the server-confirmed online flag of a branch.
func (s *Store) ApplyBranchOnline(id string, isOnline bool) (domain.Branch, error) {
	return s.applyBranch(id, func(b *domain.Branch) { b.IsOnline = isOnline })
}

// ApplyBranchRushHour records the server-confirmed rush-hour flag of a branch.
func (s *Store) ApplyBranchRushHour(id string, isRushHour bool) (domain.Branch, error) {
	return s.applyBranch(id, func(b *domain.Branch) { b.IsRushHour = isRushHour })
}

func (s *Store) applyBranch(id string, apply func(*domain.Branch)) (domain.Branch, error) {
	var updated domain.Branch

	err := s.mutate(func() ([]Event, error) {
		idx := s.branchIndex(id)
		if idx < 0 {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("branch %s not found", id))
		}
		apply(&s.branches[idx])
		updated = s.branches[idx]

		s.logger.Info("branch updated",
			zap.String("branchId", id),
			zap.Bool("isOnline", updated.IsOnline),
			zap.Bool("isRushHour", updated.IsRushHour),
		)
		return []Event{s.event(EventBranchUpdated, updated)}, nil
	})

	return updated, err
}

func (s *Store) Branches() []domain.Branch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Branch{}, s.branches...)
}

func (s *Store) Branch(id string) (domain.Branch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.branchIndex(id)
	if idx < 0 {
		return domain.Branch{}, apperrors.NewNotFoundError(fmt.Sprintf("branch %s not found", id))
	}
	return s.branches[idx], nil
}

// RestaurantStatus reports the flags of the primary branch. It is the zero value
// until branches have been loaded.
func (s *Store) RestaurantStatus() domain.RestaurantStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.branches) == 0 {
		return domain.RestaurantStatus{}
	}
	b := s.branches[0]
	return domain.RestaurantStatus{
		BranchID:           b.ID,
		IsRestaurantOnline: b.IsOnline,
		IsRushHour:         b.IsRushHour,
	}
}

func (s *Store) branchIndex(id string) int {
	for i := range s.branches {
		if s.branches[i].ID == id {
			return i
		}
	}
	return -1
}
