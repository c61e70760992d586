package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/mobileshop/billing/internal/app"
	"github.com/mobileshop/billing/internal/catalog"
	"github.com/mobileshop/billing/internal/invoices"
	"github.com/mobileshop/billing/internal/ledger"
	"github.com/mobileshop/billing/internal/numbering"
	"github.com/mobileshop/billing/internal/observability"
	"github.com/mobileshop/billing/internal/platform/cache"
	"github.com/mobileshop/billing/internal/platform/db"
	"github.com/mobileshop/billing/internal/refresh"
	"github.com/mobileshop/billing/internal/schema"
	"github.com/mobileshop/billing/internal/settings"
	"github.com/mobileshop/billing/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	schemaManager := schema.NewManager(schema.NewPGStore(pool), logger)
	database, err := schemaManager.Open(ctx)
	if err != nil {
		logger.Error("open database", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database ready", slog.Int("version", database.Version), slog.Any("created", database.Created))

	metrics := observability.NewMetrics()

	settingsStore := settings.NewStore(redisClient, logger)
	if _, err := settingsStore.Load(ctx); err != nil {
		logger.Warn("load settings, using defaults", slog.Any("error", err))
	}

	catalogService := catalog.NewService(catalog.NewRepository(pool), logger, catalog.ServiceConfig{
		StockRetries: cfg.StockUpdateRetries,
	})
	ledgerService := ledger.NewService(ledger.NewRepository(pool), logger, metrics)
	refreshSignal := refresh.NewSignal(redisClient, logger, time.Now)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	invoiceService := invoices.NewService(invoices.NewRepository(pool), invoices.ServiceDeps{
		Schema:    schemaManager,
		Ledger:    ledgerService,
		Stock:     catalogService,
		Numbers:   numbering.NewIssuer(redisClient, time.Now),
		Refresh:   refreshSignal,
		Settings:  settingsStore,
		Integrity: jobClient,
		Metrics:   metrics,
	}, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		Metrics:         metrics,
		CatalogHandler:  catalog.NewHandler(logger, catalogService),
		InvoicesHandler: invoices.NewHandler(logger, invoiceService),
		LedgerHandler:   ledger.NewHandler(logger, ledgerService),
		SettingsHandler: settings.NewHandler(logger, settingsStore),
		RefreshHandler:  refresh.NewHandler(logger, refreshSignal),
		JobHandler:      jobs.NewHandler(inspector, logger),
		Readiness: map[string]app.Pinger{
			"postgres": pool,
			"redis": app.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
		},
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
