package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	appsync "github.com/fabworks/backend/internal/application/sync"
	domainsync "github.com/fabworks/backend/internal/domain/sync"
	"github.com/fabworks/backend/internal/infrastructure/config"
	"github.com/fabworks/backend/internal/infrastructure/logger"
	"github.com/fabworks/backend/internal/infrastructure/persistence"
	"github.com/fabworks/backend/internal/infrastructure/remote"
)

// syncrun executes a single sync run from the command line and prints the
// per-entity results as JSON. It is meant for operators: cron-driven full
// syncs, targeted re-syncs of one entity type, and deep syncs over an
// explicit window after a remote-side correction.
func main() {
	var (
		entityType  = flag.String("entity-type", "", "restrict the run to one entity type (e.g. customers, sales_documents)")
		windowStart = flag.String("window-start", "", "deep-sync window start (RFC3339)")
		windowEnd   = flag.String("window-end", "", "deep-sync window end (RFC3339)")
		timeout     = flag.Duration("timeout", 30*time.Minute, "overall run timeout")
		logLevel    = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  *logLevel,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	opts, err := buildOptions(*entityType, *windowStart, *windowEnd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(*logLevel))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	remoteClient, err := remote.NewClient(&remote.Config{
		BaseURL:        cfg.Remote.BaseURL,
		Token:          cfg.Remote.Token,
		TimeoutSeconds: cfg.Remote.TimeoutSeconds,
		PageSize:       cfg.Remote.PageSize,
	})
	if err != nil {
		log.Fatal("Failed to configure remote client", zap.Error(err))
	}

	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	contactRepo := persistence.NewGormContactPersonRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	salesDocRepo := persistence.NewGormSalesDocumentRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	stockItemRepo := persistence.NewGormStockItemRepository(db.DB)
	ledgerAccountRepo := persistence.NewGormLedgerAccountRepository(db.DB)
	payItemRepo := persistence.NewGormPayItemRepository(db.DB)
	watermarkRepo := persistence.NewGormWatermarkRepository(db.DB)
	errorRecordRepo := persistence.NewGormErrorRecordRepository(db.DB)

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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := orchestrator.Run(ctx, opts)
	if err != nil {
		log.Fatal("Sync run failed", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatal("Failed to encode run result", zap.Error(err))
	}

	if result.Failed() {
		os.Exit(1)
	}
}

func buildOptions(entityType, windowStart, windowEnd string) (appsync.Options, error) {
	var opts appsync.Options

	if entityType != "" {
		et := domainsync.EntityType(entityType)
		if !et.IsValid() {
			return opts, fmt.Errorf("unknown entity type %q", entityType)
		}
		opts.EntityType = &et
	}

	if (windowStart == "") != (windowEnd == "") {
		return opts, fmt.Errorf("-window-start and -window-end must be given together")
	}
	if windowStart != "" {
		start, err := time.Parse(time.RFC3339, windowStart)
		if err != nil {
			return opts, fmt.Errorf("invalid -window-start: %w", err)
		}
		end, err := time.Parse(time.RFC3339, windowEnd)
		if err != nil {
			return opts, fmt.Errorf("invalid -window-end: %w", err)
		}
		w := domainsync.Window{Start: start, End: end}
		if err := w.Validate(); err != nil {
			return opts, fmt.Errorf("invalid window: %w", err)
		}
		opts.Window = &w
	}

	return opts, nil
}
