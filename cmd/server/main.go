package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	procurementapp "github.com/venueops/backend/internal/application/procurement"
	reconapp "github.com/venueops/backend/internal/application/reconciliation"
	stockapp "github.com/venueops/backend/internal/application/stock"
	"github.com/venueops/backend/internal/infrastructure/cache"
	"github.com/venueops/backend/internal/infrastructure/config"
	"github.com/venueops/backend/internal/infrastructure/event"
	"github.com/venueops/backend/internal/infrastructure/logger"
	"github.com/venueops/backend/internal/infrastructure/persistence"
	"github.com/venueops/backend/internal/interfaces/http/handler"
	"github.com/venueops/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting venueops backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	log.Info("database connected")

	// Repositories
	stockRepo := persistence.NewGormProductStockRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	taskRepo := persistence.NewGormRestockTaskRepository(db.DB)
	ruleRepo := persistence.NewGormReplenishmentRuleRepository(db.DB)
	sessionRepo := persistence.NewGormSessionRepository(db.DB)
	warehouseStock := persistence.NewGormWarehouseStockReader(db.DB)
	metricCatalog := persistence.NewGormMetricCatalog(db.DB)

	// Transaction scopes
	stockScope := persistence.NewGormStockTransactionScope(db.DB)
	reconScope := persistence.NewGormReconciliationTransactionScope(db.DB)

	// Application services
	stockService := stockapp.NewStockService(stockScope, stockRepo, movementRepo, taskRepo)
	replenishmentService := stockapp.NewReplenishmentService(ruleRepo, warehouseStock, stockScope, log)
	sessionService := reconapp.NewSessionService(reconScope, sessionRepo, log)
	sessionService.SetMetricCatalog(metricCatalog)
	suggestionService := procurementapp.NewSuggestionService(stockRepo, movementRepo, log)

	// State cache (nil when disabled)
	stateCache, err := cache.NewStateCacheFactory(cfg.Cache, cfg.Redis, cache.WithLogger(log)).CreateCache()
	if err != nil {
		log.Fatal("failed to create state cache", zap.Error(err))
	}
	if stateCache != nil {
		stockService.SetStateCache(stateCache)
	}

	// Event bus with the after-commit alert handler
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(stockapp.NewLowFrontStockHandler(log))
	stockService.SetEventPublisher(eventBus)
	replenishmentService.SetEventPublisher(eventBus)
	sessionService.SetEventPublisher(eventBus)

	// Handlers and router
	engine := router.New(cfg, log, router.Handlers{
		Stock:          handler.NewStockHandler(stockService),
		Task:           handler.NewTaskHandler(stockService),
		Reconciliation: handler.NewReconciliationHandler(sessionService),
		Procurement:    handler.NewProcurementHandler(suggestionService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Replenishment.Enabled {
		go runReplenishmentLoop(rootCtx, replenishmentService, cfg.Replenishment.Interval, log)
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	log.Info("server exited")
}

// runReplenishmentLoop periodically evaluates replenishment rules until the
// context is cancelled. One batch runs immediately at startup.
func runReplenishmentLoop(ctx context.Context, svc *stockapp.ReplenishmentService, interval time.Duration, log *zap.Logger) {
	log.Info("replenishment loop started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := svc.EvaluateRules(ctx); err != nil {
			log.Error("replenishment batch failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			log.Info("replenishment loop stopped")
			return
		case <-ticker.C:
		}
	}
}
