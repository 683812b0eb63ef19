package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apppayroll "github.com/fabworks/backend/internal/application/payroll"
	appsync "github.com/fabworks/backend/internal/application/sync"
	"github.com/fabworks/backend/internal/infrastructure/config"
	"github.com/fabworks/backend/internal/infrastructure/logger"
	"github.com/fabworks/backend/internal/infrastructure/persistence"
	"github.com/fabworks/backend/internal/infrastructure/remote"
	"github.com/fabworks/backend/internal/infrastructure/scheduler"
	"github.com/fabworks/backend/internal/interfaces/http/handler"
	"github.com/fabworks/backend/internal/interfaces/http/middleware"
	"github.com/fabworks/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting sync backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Remote accounting/payroll API client
	remoteClient, err := remote.NewClient(&remote.Config{
		BaseURL:        cfg.Remote.BaseURL,
		Token:          cfg.Remote.Token,
		TimeoutSeconds: cfg.Remote.TimeoutSeconds,
		PageSize:       cfg.Remote.PageSize,
	})
	if err != nil {
		log.Fatal("Failed to configure remote client", zap.Error(err))
	}

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	contactRepo := persistence.NewGormContactPersonRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	salesDocRepo := persistence.NewGormSalesDocumentRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	stockItemRepo := persistence.NewGormStockItemRepository(db.DB)
	ledgerAccountRepo := persistence.NewGormLedgerAccountRepository(db.DB)
	payItemRepo := persistence.NewGormPayItemRepository(db.DB)
	timeEntryRepo := persistence.NewGormTimeEntryRepository(db.DB)
	watermarkRepo := persistence.NewGormWatermarkRepository(db.DB)
	errorRecordRepo := persistence.NewGormErrorRecordRepository(db.DB)

	// Sync engine
	audit := appsync.NewAuditGateway(errorRecordRepo, log)
	resolver := appsync.NewResolver(audit)
	registry := appsync.NewRegistry(
		appsync.NewAccountsModule(ledgerAccountRepo, audit),
		appsync.NewCustomersModule(customerRepo, contactRepo, resolver, audit),
		appsync.NewProjectsModule(projectRepo, resolver, audit),
		appsync.NewSalesDocumentsModule(salesDocRepo),
		appsync.NewPurchaseOrdersModule(purchaseOrderRepo),
		appsync.NewStockItemsModule(stockItemRepo, audit),
		appsync.NewPayItemsModule(payItemRepo, audit),
	)
	orchestrator := appsync.NewOrchestrator(remoteClient, watermarkRepo, registry, audit, appsync.Config{
		InitialLookback: cfg.Sync.InitialLookback,
		MaxRetries:      cfg.Sync.MaxRetries,
		RetryBaseDelay:  cfg.Sync.RetryBaseDelay,
	}, log)
	pusher := appsync.NewDocumentPusher(remoteClient, salesDocRepo, purchaseOrderRepo, customerRepo, audit, log)
	poster := apppayroll.NewPoster(timeEntryRepo, remoteClient, audit, log)

	// Background sync trigger (if enabled)
	var trigger *scheduler.SyncTrigger
	if cfg.Scheduler.Enabled {
		triggerConfig := scheduler.DefaultSyncTriggerConfig()
		triggerConfig.Interval = cfg.Scheduler.Interval
		trigger, err = scheduler.NewSyncTrigger(triggerConfig, orchestrator, log)
		if err != nil {
			log.Fatal("Failed to create sync trigger", zap.Error(err))
		}
		if err := trigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start sync trigger", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := trigger.Stop(stopCtx); err != nil {
				log.Error("Error stopping sync trigger", zap.Error(err))
			}
		}()
		log.Info("Sync trigger started", zap.Duration("interval", triggerConfig.Interval))
	}

	// HTTP handlers
	var hinter handler.SyncHinter
	if trigger != nil {
		hinter = trigger
	}
	syncHandler := handler.NewSyncHandler(orchestrator, hinter, watermarkRepo, audit)
	documentsHandler := handler.NewDocumentsHandler(pusher)
	payrollHandler := handler.NewPayrollHandler(poster)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(syncHandler).
		Register(documentsHandler).
		Register(payrollHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
