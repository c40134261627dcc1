package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/damon-houk/artha-ledger/internal/application/service"
	"github.com/damon-houk/artha-ledger/internal/config"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/api"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/cache"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/db"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/handler"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/logger"
	"github.com/damon-houk/artha-ledger/internal/infrastructure/middleware"
	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
)

// app owns the database and the HTTP server of one running process
type app struct {
	db     *badger.DB
	store  *service.LedgerStore
	server *http.Server
	logger logger.Logger
}

// newApp opens the database and wires every service and route. If any step
// after opening the database fails, the database is closed before returning.
func newApp(cfg *config.Config, log logger.Logger) (a *app, err error) {
	badgerDB, err := db.OpenBadger(cfg.DataDir, true)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if closeErr := badgerDB.Close(); closeErr != nil {
				log.Error("Error closing BadgerDB", map[string]interface{}{"error": closeErr.Error()})
			}
		}
	}()

	// Initialize repositories
	ledgerRepo := db.NewBadgerLedgerRepository(badgerDB, log.WithField("component", "repository"))

	// Initialize the ledger
	loc := cfg.Location()
	store := service.NewLedgerStore(ledgerRepo, log.WithField("component", "ledger"),
		service.WithClock(func() time.Time { return time.Now().In(loc) }),
		service.WithSeed(cfg.SeedLedger),
	)
	if err := store.Load(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	// Initialize API clients
	advisor := api.NewOpenAIAdvisor(api.AdvisorConfig{
		APIKey:  cfg.AdviceAPIKey,
		BaseURL: cfg.AdviceBaseURL,
		Model:   cfg.AdviceModel,
		Timeout: cfg.AdviceTimeout,
	}, log.WithField("component", "advisor"))

	// Initialize services
	dashboardService := service.NewDashboardService(store, cache.NewDashboardCache(), log.WithField("component", "dashboard"))
	adviceService := service.NewAdviceService(store, advisor, log.WithField("component", "advice"))

	rateLimit, err := middleware.RateLimitMiddleware(cfg.AdviceRateLimit, log)
	if err != nil {
		return nil, fmt.Errorf("failed to configure rate limiting: %w", err)
	}

	// Initialize handlers
	txHandler := handler.NewTransactionHandler(store, dashboardService, log)
	adviceHandler := handler.NewAdviceHandler(adviceService, rateLimit, log)

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.LoggingMiddleware(log))
	txHandler.RegisterRoutes(router)
	adviceHandler.RegisterRoutes(router)

	return &app{
		db:    badgerDB,
		store: store,
		server: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: log,
	}, nil
}

// serve runs the HTTP server until it is shut down
func (a *app) serve() error {
	a.logger.Info("Server listening", map[string]interface{}{"addr": a.server.Addr})
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// shutdown stops the HTTP server and closes the database
func (a *app) shutdown(ctx context.Context) error {
	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("graceful shutdown failed: %w", err))
	}
	if err := a.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("error closing BadgerDB: %w", err))
	}
	return errors.Join(errs...)
}
