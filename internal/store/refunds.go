package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"restauranthub/internal/domain"
	apperrors "restauranthub/internal/errors"
)

// SeedRefund admits a refund request raised outside the dashboard. It always
// enters as Pending.
func (s *Store) SeedRefund(ctx context.Context, refund domain.RefundRequest) (domain.RefundRequest, error) {
	var seeded domain.RefundRequest

	err := s.mutate(func() ([]Event, error) {
		r := refund.Clone()
		if r.ID == "" {
			r.ID = s.newID()
		}
		if s.refundIndex(r.ID) >= 0 {
			return nil, apperrors.NewConflictError(fmt.Sprintf("refund %s already exists", r.ID))
		}
		if r.OrderID == "" {
			return nil, apperrors.NewValidationError("refund must reference an order",
				apperrors.ValidationDetail{Field: "orderId", Message: "must not be empty"})
		}
		if r.Amount.IsNegative() || r.CostSplit.Restaurant.IsNegative() || r.CostSplit.Crevings.IsNegative() {
			return nil, apperrors.NewValidationError("refund amounts must not be negative",
				apperrors.ValidationDetail{Field: "amount", Message: "must be zero or greater"})
		}
		r.Status = domain.RefundStatusPending
		r.DecidedAt = nil
		if r.CreatedAt.IsZero() {
			r.CreatedAt = s.now()
		}

		if err := s.persistRefund(ctx, r); err != nil {
			return nil, err
		}
		s.refunds = append(s.refunds, r)
		seeded = r.Clone()

		s.logger.Info("refund received", zap.String("refundId", r.ID), zap.String("orderId", r.OrderID))
		return []Event{s.event(EventRefundReceived, seeded)}, nil
	})

	return seeded, err
}

// HandleRefundRequest records the partner's decision. A request is decided once;
// any later decision fails with an invalid transition.
func (s *Store) HandleRefundRequest(ctx context.Context, id string, decision domain.RefundStatus) (domain.RefundRequest, error) {
	var decided domain.RefundRequest

	err := s.mutate(func() ([]Event, error) {
		if !decision.IsDecision() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("decision must be Approved or Rejected, got %q", decision),
				apperrors.ValidationDetail{Field: "decision", Message: "must be Approved or Rejected"})
		}

		idx := s.refundIndex(id)
		if idx < 0 {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("refund %s not found", id))
		}

		r := s.refunds[idx].Clone()
		if r.Status != domain.RefundStatusPending {
			return nil, apperrors.NewInvalidTransitionError("refund", string(r.Status), string(decision))
		}
		now := s.now()
		r.Status = decision
		r.DecidedAt = &now

		if err := s.persistRefund(ctx, r); err != nil {
			return nil, err
		}
		s.refunds[idx] = r
		decided = r.Clone()

		s.logger.Info("refund decided", zap.String("refundId", id), zap.String("decision", string(decision)))
		return []Event{s.event(EventRefundDecided, decided)}, nil
	})

	return decided, err
}

func (s *Store) Refunds() []domain.RefundRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.RefundRequest, 0, len(s.refunds))
	for _, r := range s.refunds {
		out = append(out, r.Clone())
	}
	return out
}

func (s *Store) refundIndex(id string) int {
	for i := range s.refunds {
		if s.refunds[i].ID == id {
			return i
		}
	}
	return -1
}
