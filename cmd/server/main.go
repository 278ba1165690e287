package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mamadbah2/stocksync/internal/config"
	"github.com/mamadbah2/stocksync/internal/repository/memory"
	"github.com/mamadbah2/stocksync/internal/repository/mongodb"
	"github.com/mamadbah2/stocksync/internal/repository/sheets"
	"github.com/mamadbah2/stocksync/internal/scheduler"
	"github.com/mamadbah2/stocksync/internal/server/handlers"
	"github.com/mamadbah2/stocksync/internal/server/router"
	inventorysvc "github.com/mamadbah2/stocksync/internal/service/inventory"
	reportingsvc "github.com/mamadbah2/stocksync/internal/service/reporting"
	"github.com/mamadbah2/stocksync/pkg/clients/tally"
	"github.com/mamadbah2/stocksync/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	var store inventorysvc.ProductStore
	if cfg.MongoDB.URI != "" {
		connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.MongoDB.ProductsCollection)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		store = mongoRepo
	} else {
		baseLogger.Warn("MONGODB_URI not set, products are kept in memory and lost on restart")
		store = memory.NewProductRepository(memory.DefaultMaxBatchSize)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := inventorysvc.Options{
		ReplaceOnUnreadable: cfg.Sync.ReplaceOnUnreadable,
		Metrics:             inventorysvc.NewMetrics(registry),
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		opts.Publisher = reportingsvc.NewService(sheetsRepo, cfg.Sheets.StockRange, logger.Named(baseLogger, "svc.reporting"))
		baseLogger.Info("stock snapshot publishing enabled", zap.String("range", cfg.Sheets.StockRange))
	}

	if !cfg.Sync.ReplaceOnUnreadable {
		baseLogger.Info("unreadable stock exports will leave the catalog untouched")
	}

	tallyClient := tally.NewClient(cfg.Tally, baseLogger.Named("client.tally"))
	syncSvc := inventorysvc.NewService(tallyClient, store, opts, baseLogger.Named("svc.inventory"))

	syncHandler := handlers.NewSyncHandler(syncSvc, tallyClient, baseLogger.Named("handlers.sync"))
	engine := router.New(syncHandler, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), baseLogger.Named("router"))

	// Initialize Scheduler
	sched, err := scheduler.NewScheduler(cfg.Sync, syncSvc, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("tally_url", cfg.Tally.URL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
