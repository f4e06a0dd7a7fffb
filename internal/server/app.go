// Package server initializes and runs the Nite OS backend: database and
// migrations, the loyalty services, the optional analytics sink and the
// HTTP API server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nitelabs/niteos/internal/logging"
	"github.com/nitelabs/niteos/internal/server/analytics"
	"github.com/nitelabs/niteos/internal/server/config"
	"github.com/nitelabs/niteos/internal/server/httpapi"
	"github.com/nitelabs/niteos/internal/server/metrics"
	"github.com/nitelabs/niteos/internal/server/repositories/repomanager"
	"github.com/nitelabs/niteos/internal/server/services"
	"github.com/nitelabs/niteos/internal/server/userlock"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	events  *analytics.Sink
	catalog *services.CatalogService
	api     *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	var events *analytics.Sink
	if cfg.MongoURI != "" {
		events, err = analytics.Connect(ctx, cfg.MongoURI, logger)
		if err != nil {
			return nil, fmt.Errorf("analytics init error: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.New(registry)

	guard := userlock.New(cfg.LockTimeout)

	nitecoin := services.NewNitecoinService(db, repos, guard, collector, logger)
	checkout := services.NewCheckoutService(db, repos, nitecoin, guard, collector, logger)
	accounts := services.NewAccountService(db, repos, nitecoin, cfg.DemoGrant, logger)
	catalog := services.NewCatalogService(db, repos, logger)

	api := httpapi.NewServer(cfg, checkout, nitecoin, accounts, catalog, events, registry, logger)

	return &App{
		config:  cfg,
		logger:  logger,
		db:      db,
		events:  events,
		catalog: catalog,
		api:     api,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	if err := app.catalog.SeedFeed(ctx); err != nil {
		app.logger.Warn(ctx, "feed seeding failed", "error", err)
	}

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.api.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddrHTTP)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "http shutdown error", "error", err)
	}
	if err := app.events.Close(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "analytics shutdown error", "error", err)
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "error", err)
	}

	return nil
}
