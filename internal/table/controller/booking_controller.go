package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"restauranthub/internal/commons"
	"restauranthub/internal/domain"
	"restauranthub/internal/dto"
)

type BookingStore interface {
	HoldBooking(pending domain.PendingBooking) (domain.Draft[domain.PendingBooking], error)
	ReleaseBooking(draftID string) error
	AddBooking(ctx context.Context, draftID string, fee decimal.Decimal) (domain.Order, error)
	PendingBookings() []domain.Draft[domain.PendingBooking]
}

type BookingController struct {
	store  BookingStore
	logger *zap.Logger
}

func NewBookingController(store BookingStore, logger *zap.Logger) *BookingController {
	return &BookingController{
		store:  store,
		logger: logger,
	}
}

func (c *BookingController) ListPending(w http.ResponseWriter, r *http.Request) {
	commons.WriteJSON(w, http.StatusOK, dto.PendingBookingsResponse{Drafts: c.store.PendingBookings()}, c.logger)
}

// Hold keeps a booking aside until the fee is collected. Tables are not claimed yet.
func (c *BookingController) Hold(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.HoldBookingRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	draft, err := c.store.HoldBooking(req.ToDomain())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, draft, logger)
}

func (c *BookingController) Confirm(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.ConfirmBookingRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	o, err := c.store.AddBooking(r.Context(), chi.URLParam(r, "draftId"), req.Fee)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	logger.Info("booking confirmed", zap.String("orderId", o.ID), zap.Strings("tables", o.Tables))
	commons.WriteJSON(w, http.StatusCreated, dto.NewOrderResponse(o), logger)
}

func (c *BookingController) Release(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	if err := c.store.ReleaseBooking(chi.URLParam(r, "draftId")); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
