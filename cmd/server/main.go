package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/layerfarm/internal/config"
	"github.com/mamadbah2/layerfarm/internal/repository/gormdb"
	"github.com/mamadbah2/layerfarm/internal/repository/mongodb"
	"github.com/mamadbah2/layerfarm/internal/repository/sheets"
	"github.com/mamadbah2/layerfarm/internal/scheduler"
	"github.com/mamadbah2/layerfarm/internal/server/handlers"
	"github.com/mamadbah2/layerfarm/internal/server/router"
	"github.com/mamadbah2/layerfarm/internal/service/analysis"
	"github.com/mamadbah2/layerfarm/internal/service/farm"
	"github.com/mamadbah2/layerfarm/internal/service/finance"
	"github.com/mamadbah2/layerfarm/internal/service/inventory"
	"github.com/mamadbah2/layerfarm/internal/service/notify"
	"github.com/mamadbah2/layerfarm/internal/service/permissions"
	"github.com/mamadbah2/layerfarm/internal/service/reporting"
	"github.com/mamadbah2/layerfarm/internal/service/sales"
	"github.com/mamadbah2/layerfarm/internal/service/sequence"
	"github.com/mamadbah2/layerfarm/pkg/clients/anthropic"
	"github.com/mamadbah2/layerfarm/pkg/clients/completion"
	"github.com/mamadbah2/layerfarm/pkg/clients/gemini"
	"github.com/mamadbah2/layerfarm/pkg/clients/openai"
	whatsappclient "github.com/mamadbah2/layerfarm/pkg/clients/whatsapp"
	"github.com/mamadbah2/layerfarm/pkg/logger"
	"github.com/mamadbah2/layerfarm/pkg/metrics"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := gormdb.Open(cfg.Database, baseLogger.Named("repo.sql"))
	if err != nil {
		baseLogger.Fatal("failed to open database", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			baseLogger.Error("failed to close database", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			baseLogger.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	permissionSvc := permissions.NewService(store, baseLogger.Named("svc.permissions"))
	if err := permissionSvc.EnsureDefaults(ctx); err != nil {
		baseLogger.Fatal("failed to seed permissions", zap.Error(err))
	}

	var records analysis.RecordStore = store
	if cfg.Analysis.Store == config.StoreMongoDB {
		mongoRepo, err := mongodb.NewAnalysisRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		records = mongoRepo
	}

	var mirror farm.DailyLogMirror
	if cfg.SheetsEnabled() {
		sheetsMirror, err := sheets.NewDailyLogMirror(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets mirror", zap.Error(err))
		}
		mirror = sheetsMirror
	}

	aiClient := newCompletionClient(ctx, cfg.AI, baseLogger)

	var m *metrics.Metrics
	if cfg.Server.MetricsEnabled {
		m = metrics.New()
	}

	farmSvc := farm.NewService(store, mirror, baseLogger.Named("svc.farm"))
	inventorySvc := inventory.NewService(store)
	salesSvc := sales.NewService(store, sequence.NewService(store), baseLogger.Named("svc.sales"))
	financeSvc := finance.NewService(store, baseLogger.Named("svc.finance"))
	analysisSvc := analysis.NewService(store, records, aiClient, analysis.Options{
		Provider: cfg.AI.Provider,
		Timeout:  cfg.AI.Timeout,
	}, m, baseLogger.Named("svc.analysis"))
	reportingSvc := reporting.NewService(store, baseLogger.Named("svc.reporting"))

	var notifier notify.Notifier
	if cfg.WhatsAppEnabled() {
		notifier = notify.NewWhatsAppNotifier(whatsappclient.NewClient(cfg.WhatsApp), cfg.WhatsApp.DigestRecipient, baseLogger.Named("svc.notify"))
	} else {
		baseLogger.Warn("whatsapp credentials missing, notifications are only logged")
		notifier = notify.NewLogNotifier(baseLogger.Named("svc.notify"))
	}

	engine := router.New(router.Handlers{
		Farm:          handlers.NewFarmHandler(farmSvc, baseLogger.Named("handlers.farm")),
		Inventory:     handlers.NewInventoryHandler(inventorySvc, baseLogger.Named("handlers.inventory")),
		Sales:         handlers.NewSalesHandler(salesSvc, baseLogger.Named("handlers.sales")),
		Finance:       handlers.NewFinanceHandler(financeSvc, baseLogger.Named("handlers.finance")),
		Analysis:      handlers.NewAnalysisHandler(analysisSvc, baseLogger.Named("handlers.analysis")),
		Reports:       handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.reports")),
		Permissions:   handlers.NewPermissionHandler(permissionSvc, baseLogger.Named("handlers.permissions")),
		Notifications: handlers.NewNotificationHandler(notifier, baseLogger.Named("handlers.notifications")),
	}, router.Options{
		JWTSecret:  cfg.Auth.JWTSecret,
		Authorizer: permissionSvc,
		Metrics:    m,
		Ready: func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return store.Ping(pingCtx)
		},
	}, baseLogger.Named("router"))

	if cfg.Auth.JWTSecret == "" {
		baseLogger.Warn("AUTH_JWT_SECRET empty, permission gate disabled")
	}

	if cfg.Reporting.DigestEnabled {
		var analyzer scheduler.Analyzer
		if analysisSvc.Available() {
			analyzer = analysisSvc
		}
		sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, analyzer, notifier, m, baseLogger.Named("scheduler"))
		if err != nil {
			baseLogger.Fatal("failed to init scheduler", zap.Error(err))
		}
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     engine,
		ReadTimeout: 15 * time.Second,
		// Analysis calls wait on the completion provider.
		WriteTimeout: cfg.AI.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
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

// newCompletionClient returns nil when no API key is configured, which
// turns the analysis endpoints into 503s.
func newCompletionClient(ctx context.Context, cfg config.AIConfig, log *zap.Logger) completion.Client {
	if cfg.APIKey == "" {
		log.Warn("AI_API_KEY missing, analysis disabled", zap.String("provider", cfg.Provider))
		return nil
	}

	var client completion.Client
	switch cfg.Provider {
	case config.ProviderAnthropic:
		client = anthropic.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout)
	case config.ProviderGemini:
		g, err := gemini.NewClient(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)
		if err != nil {
			log.Error("failed to init gemini client, analysis disabled", zap.Error(err))
			return nil
		}
		client = g
	default:
		client = openai.NewClient(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout)
	}

	log.Info("completion client enabled", zap.String("provider", cfg.Provider), zap.String("model", cfg.Model))
	return client
}
