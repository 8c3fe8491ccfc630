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

type TableStore interface {
	AddTable(ctx context.Context, name string, capacity int, tableType string) (domain.Table, error)
	AddTableSeries(ctx context.Context, prefix string, start, end, capacity int, tableType string) ([]domain.Table, error)
	UpdateTable(ctx context.Context, id string, patch domain.TablePatch) (domain.Table, error)
	DeleteTable(ctx context.Context, id string) error
	Tables() []domain.Table
	TableOccupancy() domain.TableOccupancy
}

type TableController struct {
	store  TableStore
	logger *zap.Logger
}

func NewTableController(store TableStore, logger *zap.Logger) *TableController {
	return &TableController{
		store:  store,
		logger: logger,
	}
}

func (c *TableController) List(w http.ResponseWriter, r *http.Request) {
	commons.WriteJSON(w, http.StatusOK, dto.TablesResponse{
		Tables:    c.store.Tables(),
		Occupancy: c.store.TableOccupancy(),
	}, c.logger)
}

func (c *TableController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateTableRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	t, err := c.store.AddTable(r.Context(), req.Name, req.Capacity, req.Type)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, t, logger)
}

// CreateSeries adds prefix+start .. prefix+end in one go.
func (c *TableController) CreateSeries(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateTableSeriesRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	tables, err := c.store.AddTableSeries(r.Context(), req.Prefix, req.Start, req.End, req.Capacity, req.Type)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	logger.Info("table series created", zap.String("prefix", req.Prefix), zap.Int("count", len(tables)))
	commons.WriteJSON(w, http.StatusCreated, tables, logger)
}

func (c *TableController) Update(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.UpdateTableRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	t, err := c.store.UpdateTable(r.Context(), chi.URLParam(r, "id"), req.ToPatch())
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, t, logger)
}

func (c *TableController) Delete(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	if err := c.store.DeleteTable(r.Context(), chi.URLParam(r, "id")); err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
