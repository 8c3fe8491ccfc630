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
	"restauranthub/internal/earnings"
)

type EarningsStore interface {
	Orders() []domain.Order
	Refunds() []domain.RefundRequest
	Settings() domain.Settings
	Wallet() domain.Wallet
	InitiateWithdrawal(ctx context.Context, amount decimal.Decimal) (domain.Withdrawal, error)
	SettleWithdrawal(ctx context.Context, id string, outcome domain.WithdrawalStatus, reference string) (domain.Withdrawal, error)
}

type EarningsController struct {
	store  EarningsStore
	logger *zap.Logger
}

func NewEarningsController(store EarningsStore, logger *zap.Logger) *EarningsController {
	return &EarningsController{
		store:  store,
		logger: logger,
	}
}

// Summary reports earnings over ?from=&to=, both optional.
func (c *EarningsController) Summary(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())

	period, err := earnings.ParsePeriod(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		commons.WriteError(w, traceID, err, c.logger)
		return
	}

	summary := earnings.Compute(c.store.Orders(), c.store.Refunds(), c.store.Settings().AdsSpend, period)

	commons.WriteJSON(w, http.StatusOK, dto.EarningsResponse{Summary: summary, WalletBalance: c.store.Wallet().Balance}, c.logger)
}

func (c *EarningsController) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	commons.WriteJSON(w, http.StatusOK, c.store.Wallet(), c.logger)
}

func (c *EarningsController) Withdraw(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.WithdrawalRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	withdrawal, err := c.store.InitiateWithdrawal(r.Context(), req.Amount)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusCreated, withdrawal, logger)
}

// Settle is the payout gateway callback reporting the outcome of a withdrawal.
func (c *EarningsController) Settle(w http.ResponseWriter, r *http.Request) {
	traceID := commons.TraceID(r.Context())
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.SettlementRequest
	if err := commons.DecodeJSON(r, &req); err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	withdrawal, err := c.store.SettleWithdrawal(r.Context(), chi.URLParam(r, "id"), req.Status, req.Reference)
	if err != nil {
		commons.WriteError(w, traceID, err, logger)
		return
	}

	commons.WriteJSON(w, http.StatusOK, withdrawal, logger)
}
