package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"restauranthub/internal/commons"
	"restauranthub/internal/domain"
	"restauranthub/internal/dto"
)

type RefundStore interface {
	SeedRefund(ctx context.Context, refund domain.RefundRequest) (domain.RefundRequest, error)
	HandleRefundRequest(ctx context.Context, id string, decision domain.RefundStatus) (domain.RefundRequest, error)
	Refunds() []domain.RefundRequest
}

type RefundController struct {
	store  RefundStore
	logger *zap.Logger
}

func NewRefundController(store RefundStore, logger *zap.Logger) *RefundController {
	return &RefundController{
		store:  store,
		logger: logger,
	}
}

// List returns refund requests, optionally filtered by ?status=.
func (c *RefundController) List(w http.ResponseWriter, r *http.Request) {
	status := domain.RefundStatus(r.URL.Query().Get("status"))

	refunds := c.store.Refunds()
	if status != "" {
		filtered := make([]domain.RefundRequest, 0, len(refunds))
		for _, rr := range refunds {
			if rr.Status == status {
				filtered = append(filtered, rr)
			}
		}
		refunds = filtered
	}

	commons.WriteJSON(w, http.StatusOK, dto.RefundsResponse{Refunds: refunds}, c.logger)
}

// Create admits a refund request raised by a customer on the platform.
func (c *RefundController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateRefundRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	refund, err := c.store.SeedRefund(r.Context(), req.ToDomain())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, refund, logger)
}

func (c *RefundController) Decide(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.RefundDecisionRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	refund, err := c.store.HandleRefundRequest(r.Context(), chi.URLParam(r, "id"), req.Decision)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	logger.Info("refund decided", zap.String("refundId", refund.ID), zap.String("decision", string(refund.Status)))
	commons.WriteJSON(w, http.StatusOK, refund, logger)
}
