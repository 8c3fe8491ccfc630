// Package app assembles the store, its persistence, the outer adapters and the
// HTTP API into one runnable process.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"restauranthub/internal/apiclient"
	"restauranthub/internal/auth"
	"restauranthub/internal/branch"
	branchctrl "restauranthub/internal/branch/controller"
	"restauranthub/internal/config"
	"restauranthub/internal/domain"
	"restauranthub/internal/earnings"
	earningsctrl "restauranthub/internal/earnings/controller"
	"restauranthub/internal/earnings/payout"
	earningsrepo "restauranthub/internal/earnings/repository"
	"restauranthub/internal/infrastructure/events"
	"restauranthub/internal/infrastructure/mysql"
	"restauranthub/internal/infrastructure/redis"
	"restauranthub/internal/notify"
	"restauranthub/internal/order"
	refundctrl "restauranthub/internal/refund/controller"
	refundrepo "restauranthub/internal/refund/repository"
	"restauranthub/internal/server"
	settingsctrl "restauranthub/internal/settings/controller"
	settingsrepo "restauranthub/internal/settings/repository"
	"restauranthub/internal/snapshot"
	"restauranthub/internal/store"
	tablectrl "restauranthub/internal/table/controller"
	tablerepo "restauranthub/internal/table/repository"
)

const forwarderBuffer = 256

type App struct {
	cfg    *config.Config
	logger *zap.Logger

	store     *store.Store
	db        *sql.DB
	redis     *goredis.Client
	publisher events.Publisher
	forwarder *notify.Forwarder
	hub       *notify.Hub

	branches   *branch.Service
	resync     *branch.ResyncWorker
	settlement *earnings.SettlementWorker

	handler http.Handler
	server  *server.Server
}

// New connects every configured backend, hydrates the store and builds the router.
// Resources opened before a failure are released.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (_ *App, err error) {
	openingBalance, err := decimal.NewFromString(cfg.Wallet.OpeningBalance)
	if err != nil {
		return nil, fmt.Errorf("parsing wallet opening balance: %w", err)
	}

	a := &App{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	repos, loader, err := a.connectDatabase(ctx)
	if err != nil {
		return nil, err
	}
	a.store = store.New(repos, logger)

	snap := domain.Snapshot{WalletBalance: openingBalance}
	if loader != nil {
		snap, err = loader.Load(ctx, openingBalance)
		if err != nil {
			return nil, fmt.Errorf("loading snapshot: %w", err)
		}
	}
	a.store.Hydrate(snap)

	if cfg.Redis.URL != "" {
		a.redis, err = redis.Connect(ctx, cfg.Redis.URL, logger)
		if err != nil {
			return nil, err
		}
	}

	a.publisher, err = events.NewPublisher(cfg.Events, logger)
	if err != nil {
		return nil, err
	}
	a.forwarder = notify.NewForwarder(a.publisher, forwarderBuffer, logger)
	a.hub = notify.NewHub(logger)
	a.store.Subscribe(a.hub.Handle)
	a.store.Subscribe(a.forwarder.Handle)

	a.buildBranches()
	a.buildSettlement()

	a.handler = server.NewRouter(a.handlers(), logger)
	a.server = server.New(cfg.Server, a.handler, logger)
	return a, nil
}

func (a *App) connectDatabase(ctx context.Context) (store.Repositories, *snapshot.Loader, error) {
	if !a.cfg.Database.Enabled {
		a.logger.Warn("database disabled, state is kept in memory only")
		return store.Repositories{}, nil, nil
	}

	db, err := mysql.NewConnection(ctx, a.cfg.Database)
	if err != nil {
		return store.Repositories{}, nil, fmt.Errorf("connecting to database: %w", err)
	}
	a.db = db
	a.logger.Info("database connected")

	if err := mysql.Migrate(ctx, db); err != nil {
		return store.Repositories{}, nil, fmt.Errorf("migrating database: %w", err)
	}

	tx := mysql.NewTxRunner(db, a.cfg.Database.MaxRetryAttempts, a.logger)
	orders := order.NewRepository(db, tx)
	tables := tablerepo.NewMySQLTableRepository(db, tx)
	refunds := refundrepo.NewMySQLRefundRepository(db)
	wallet := earningsrepo.NewMySQLWalletRepository(db, tx)
	settings := settingsrepo.NewMySQLSettingsRepository(db)

	repos := store.Repositories{
		Orders:   orders,
		Tables:   tables,
		Refunds:  refunds,
		Wallet:   wallet,
		Settings: settings,
	}
	loader := snapshot.NewLoader(orders, tables, refunds, wallet, settings, a.logger)
	return repos, loader, nil
}

func (a *App) buildBranches() {
	upstream := a.cfg.Upstream
	if upstream.BaseURL == "" {
		a.logger.Warn("upstream base url not set, branch bridge disabled")
		return
	}

	api := apiclient.NewClient(upstream.BaseURL, a.logger,
		apiclient.WithToken(upstream.Token),
		apiclient.WithTimeout(upstream.Timeout),
	)

	var cache branch.Cache
	if a.redis != nil {
		cache = branch.NewRedisCache(a.redis)
	}
	a.branches = branch.NewService(api, a.store, cache, a.cfg.Redis.BranchCacheTTL, a.logger)
	if a.cfg.Workers.BranchResyncInterval > 0 {
		a.resync = branch.NewResyncWorker(a.branches, a.cfg.Workers.BranchResyncInterval, a.logger)
	}
}

func (a *App) buildSettlement() {
	if a.cfg.Payout.BaseURL == "" || a.cfg.Workers.SettlementInterval <= 0 {
		a.logger.Warn("payout gateway not configured, withdrawals settle through the callback only")
		return
	}
	api := apiclient.NewClient(a.cfg.Payout.BaseURL, a.logger, apiclient.WithTimeout(a.cfg.Payout.Timeout))
	a.settlement = earnings.NewSettlementWorker(a.store, payout.NewClient(api), a.cfg.Workers.SettlementInterval, a.logger)
}

func (a *App) handlers() server.Handlers {
	h := server.Handlers{
		Orders:   order.NewModule(a.store, a.logger),
		Tables:   tablectrl.NewTableController(a.store, a.logger),
		Bookings: tablectrl.NewBookingController(a.store, a.logger),
		Refunds:  refundctrl.NewRefundController(a.store, a.logger),
		Earnings: earningsctrl.NewEarningsController(a.store, a.logger),
		Settings: settingsctrl.NewSettingsController(a.store, a.logger),
		Feed:     a.hub.ServeWS,
	}

	var svc branchctrl.BranchService = disabledBranches{}
	if a.branches != nil {
		svc = a.branches
	}
	h.Branches = branchctrl.NewBranchController(svc, a.store, a.logger)

	if a.cfg.Auth.Secret != "" {
		var denylist auth.Denylist = auth.NewMemoryDenylist()
		if a.redis != nil {
			denylist = auth.NewRedisDenylist(a.redis)
		}
		h.Auth = auth.NewAuthenticator(a.cfg.Auth.Secret, denylist, a.logger)
	} else {
		a.logger.Warn("auth secret not set, API is unauthenticated")
	}
	return h
}

func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) Store() *store.Store {
	return a.store
}

// Run serves the API and the background workers until ctx is cancelled, then
// shuts the server down within the configured timeout.
func (a *App) Run(ctx context.Context) error {
	if a.branches != nil {
		if _, err := a.branches.Sync(ctx); err != nil {
			a.logger.Warn("initial branch sync failed", zap.Error(err))
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(a.server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return a.forwarder.Run(gctx) })
	if a.resync != nil {
		g.Go(func() error { return a.resync.Run(gctx) })
	}
	if a.settlement != nil {
		g.Go(func() error { return a.settlement.Run(gctx) })
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) Close() error {
	var errs []error
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
