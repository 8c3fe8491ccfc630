package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"restauranthub/internal/auth"
	branchctrl "restauranthub/internal/branch/controller"
	earningsctrl "restauranthub/internal/earnings/controller"
	orderctrl "restauranthub/internal/order/controller"
	refundctrl "restauranthub/internal/refund/controller"
	settingsctrl "restauranthub/internal/settings/controller"
	tablectrl "restauranthub/internal/table/controller"
)

type Handlers struct {
	Orders   *orderctrl.OrderController
	Tables   *tablectrl.TableController
	Bookings *tablectrl.BookingController
	Refunds  *refundctrl.RefundController
	Earnings *earningsctrl.EarningsController
	Branches *branchctrl.BranchController
	Settings *settingsctrl.SettingsController
	Feed     http.HandlerFunc

	// Auth guards everything under /api except token verification. Nil leaves the
	// API open.
	Auth *auth.Authenticator
}

func NewRouter(h Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(Trace)
	r.Use(RequestLogger(logger))
	r.Use(Recoverer(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		if h.Auth != nil {
			r.Post("/auth/verify-token", h.Auth.VerifyToken)
		}

		r.Group(func(r chi.Router) {
			if h.Auth != nil {
				r.Use(h.Auth.Middleware)
				r.Post("/auth/logout", h.Auth.Logout)
			}

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.Orders.List)
				r.Post("/", h.Orders.Create)
				r.Get("/incoming", h.Orders.ListIncoming)
				r.Post("/incoming", h.Orders.Offer)
				r.Post("/incoming/{draftId}/accept", h.Orders.Accept)
				r.Post("/incoming/{draftId}/decline", h.Orders.Decline)
				r.Get("/{id}", h.Orders.Get)
				r.Patch("/{id}/status", h.Orders.UpdateStatus)
			})

			r.Route("/tables", func(r chi.Router) {
				r.Get("/", h.Tables.List)
				r.Post("/", h.Tables.Create)
				r.Post("/series", h.Tables.CreateSeries)
				r.Patch("/{id}", h.Tables.Update)
				r.Delete("/{id}", h.Tables.Delete)
			})

			r.Route("/bookings/pending", func(r chi.Router) {
				r.Get("/", h.Bookings.ListPending)
				r.Post("/", h.Bookings.Hold)
				r.Post("/{draftId}/confirm", h.Bookings.Confirm)
				r.Post("/{draftId}/release", h.Bookings.Release)
			})

			r.Route("/refunds", func(r chi.Router) {
				r.Get("/", h.Refunds.List)
				r.Post("/", h.Refunds.Create)
				r.Post("/{id}/decision", h.Refunds.Decide)
			})

			r.Route("/earnings", func(r chi.Router) {
				r.Get("/", h.Earnings.Summary)
				r.Get("/withdrawals", h.Earnings.ListWithdrawals)
				r.Post("/withdrawals", h.Earnings.Withdraw)
				r.Post("/withdrawals/{id}/settlement", h.Earnings.Settle)
			})

			r.Route("/branches", func(r chi.Router) {
				r.Get("/", h.Branches.List)
				r.Get("/status", h.Branches.Status)
				r.Post("/sync", h.Branches.Sync)
				r.Patch("/{id}/online", h.Branches.ToggleOnline)
				r.Patch("/{id}/rush-hour", h.Branches.ToggleRushHour)
			})

			r.Get("/settings", h.Settings.Get)
			r.Patch("/settings", h.Settings.Patch)

			if h.Feed != nil {
				r.Get("/ws", h.Feed)
			}
		})
	})

	return r
}
