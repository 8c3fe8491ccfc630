package controller

import (
	"context"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"restauranthub/internal/commons"
	"restauranthub/internal/domain"
	"restauranthub/internal/dto"
	apperrors "restauranthub/internal/errors"
	"restauranthub/internal/store"
)

type OrderStore interface {
	AddOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	OfferOrder(order domain.Order) (domain.Draft[domain.Order], error)
	AcceptNewOrder(ctx context.Context, draftID, prepTime string) (domain.Order, error)
	DeclineNewOrder(draftID string) error
	UpdateOrderStatus(ctx context.Context, id string, next domain.OrderStatus) (domain.Order, error)
	Order(id string) (domain.Order, error)
	Orders() []domain.Order
	IncomingDrafts() []domain.Draft[domain.Order]
}

type OrderController struct {
	store  OrderStore
	logger *zap.Logger
}

func NewOrderController(store OrderStore, logger *zap.Logger) *OrderController {
	return &OrderController{
		store:  store,
		logger: logger,
	}
}

// List returns orders grouped into dashboard buckets, optionally filtered by
// status and type.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	filter := store.OrderFilter{
		Status: domain.OrderStatus(r.URL.Query().Get("status")),
		Type:   domain.OrderType(r.URL.Query().Get("type")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		commons.WriteError(w, traceID, apperrors.NewValidationError("unknown status filter",
			apperrors.ValidationDetail{Field: "status", Message: "unknown order status"}), c.logger)
		return
	}
	if filter.Type != "" && !filter.Type.Valid() {
		commons.WriteError(w, traceID, apperrors.NewValidationError("unknown type filter",
			apperrors.ValidationDetail{Field: "type", Message: "must be Delivery, Takeaway or Dine-in"}), c.logger)
		return
	}

	orders := store.FilterOrders(c.store.Orders(), filter)
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })

	buckets := make(map[string][]dto.OrderResponse)
	for bucket, grouped := range store.GroupOrders(orders) {
		out := make([]dto.OrderResponse, 0, len(grouped))
		for _, o := range grouped {
			out = append(out, dto.NewOrderResponse(o))
		}
		buckets[string(bucket)] = out
	}

	commons.WriteJSON(w, http.StatusOK, dto.OrdersResponse{Total: len(orders), Buckets: buckets}, c.logger)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	o, err := c.store.Order(chi.URLParam(r, "id"))
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewOrderResponse(o), c.logger)
}

// Create admits a manually entered order, typically a walk-in.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateOrderRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	o, err := c.store.AddOrder(r.Context(), req.ToDomain())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.NewOrderResponse(o), logger)
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.UpdateOrderStatusRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	o, err := c.store.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, dto.NewOrderResponse(o), logger)
}

func (c *OrderController) ListIncoming(w http.ResponseWriter, r *http.Request) {
	commons.WriteJSON(w, http.StatusOK, dto.IncomingOrdersResponse{Drafts: c.store.IncomingDrafts()}, c.logger)
}

// Offer receives an order from the platform into the incoming box.
func (c *OrderController) Offer(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateOrderRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	draft, err := c.store.OfferOrder(req.ToDomain())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, draft, logger)
}

func (c *OrderController) Accept(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.AcceptOrderRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	o, err := c.store.AcceptNewOrder(r.Context(), chi.URLParam(r, "draftId"), req.PrepTime)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, dto.NewOrderResponse(o), logger)
}

func (c *OrderController) Decline(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	if err := c.store.DeclineNewOrder(chi.URLParam(r, "draftId")); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
