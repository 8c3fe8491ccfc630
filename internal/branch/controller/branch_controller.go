package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"restauranthub/internal/commons"
	"restauranthub/internal/domain"
	"restauranthub/internal/dto"
	apperrors "restauranthub/internal/errors"
)

type BranchService interface {
	Sync(ctx context.Context) ([]domain.Branch, error)
	SetOnline(ctx context.Context, id string, desired bool) (domain.Branch, error)
	SetRushHour(ctx context.Context, id string, desired bool) (domain.Branch, error)
}

type BranchReader interface {
	Branches() []domain.Branch
	RestaurantStatus() domain.RestaurantStatus
}

type BranchController struct {
	service BranchService
	store   BranchReader
	logger  *zap.Logger
}

func NewBranchController(service BranchService, store BranchReader, logger *zap.Logger) *BranchController {
	return &BranchController{
		service: service,
		store:   store,
		logger:  logger,
	}
}

func (c *BranchController) List(w http.ResponseWriter, r *http.Request) {
	commons.WriteJSON(w, http.StatusOK, c.store.Branches(), c.logger)
}

func (c *BranchController) Status(w http.ResponseWriter, r *http.Request) {
	commons.WriteJSON(w, http.StatusOK, c.store.RestaurantStatus(), c.logger)
}

func (c *BranchController) Sync(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	branches, err := c.service.Sync(r.Context())
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, branches, c.logger)
}

func (c *BranchController) ToggleOnline(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.ToggleOnlineRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}
	if req.IsOnline == nil {
		commons.WriteError(w, traceID, apperrors.NewValidationError("isOnline is required",
			apperrors.ValidationDetail{Field: "isOnline", Message: "must be true or false"}), logger)
		return
	}

	b, err := c.service.SetOnline(r.Context(), chi.URLParam(r, "id"), *req.IsOnline)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, b, logger)
}

func (c *BranchController) ToggleRushHour(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.RushHourRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}
	if req.IsRushHour == nil {
		commons.WriteError(w, traceID, apperrors.NewValidationError("isRushHour is required",
			apperrors.ValidationDetail{Field: "isRushHour", Message: "must be true or false"}), logger)
		return
	}

	b, err := c.service.SetRushHour(r.Context(), chi.URLParam(r, "id"), *req.IsRushHour)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, b, logger)
}
