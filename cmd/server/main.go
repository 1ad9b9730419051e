package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/imscloud/ims/internal/config"
	"github.com/imscloud/ims/internal/repository"
	appscriptrepo "github.com/imscloud/ims/internal/repository/appscript"
	"github.com/imscloud/ims/internal/repository/cache"
	"github.com/imscloud/ims/internal/repository/mock"
	"github.com/imscloud/ims/internal/repository/mongodb"
	"github.com/imscloud/ims/internal/repository/sheets"
	"github.com/imscloud/ims/internal/scheduler"
	"github.com/imscloud/ims/internal/server/handlers"
	"github.com/imscloud/ims/internal/server/router"
	reportingsvc "github.com/imscloud/ims/internal/service/reporting"
	whatsappsvc "github.com/imscloud/ims/internal/service/whatsapp"
	appscriptclient "github.com/imscloud/ims/pkg/clients/appscript"
	whatsappclient "github.com/imscloud/ims/pkg/clients/whatsapp"
	"github.com/imscloud/ims/pkg/logger"
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

	rows, err := newRowSource(ctx, cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init data source", zap.String("source", cfg.Source.Kind), zap.Error(err))
	}

	var invalidator handlers.CacheInvalidator
	if cfg.Cache.Enabled() {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Cache.Addr, Password: cfg.Cache.Password, DB: cfg.Cache.DB})
		defer func() { _ = redisClient.Close() }()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			baseLogger.Warn("redis unreachable, cache will fall back to the source", zap.Error(err))
		}
		rows = cache.NewCachedSource(rows, redisClient, cfg.Cache.TTL, baseLogger.Named("repo.cache"))
		baseLogger.Info("row cache enabled", zap.String("addr", cfg.Cache.Addr), zap.Duration("ttl", cfg.Cache.TTL))
	}

	store := repository.NewStore(rows, baseLogger.Named("repo.store"))
	if cfg.Cache.Enabled() {
		invalidator = store
	}

	policy, err := reportingsvc.ParseMatchPolicy(cfg.Reporting.StockMatch)
	if err != nil {
		baseLogger.Fatal("invalid stock match policy", zap.Error(err))
	}

	reportingSvc := reportingsvc.NewService(store, baseLogger.Named("svc.reporting"), reportingsvc.Options{
		CurrencySymbol: cfg.Reporting.CurrencySymbol,
		MatchPolicy:    policy,
		Location:       cfg.Location(),
	})

	var snapshots scheduler.SnapshotStore
	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		snapshots = mongoRepo
	} else {
		baseLogger.Warn("mongodb not configured, dashboard snapshots disabled")
	}

	routes := router.Handlers{
		Reports: handlers.NewReportHandler(reportingSvc, invalidator, baseLogger.Named("handlers.reports")),
	}

	var messenger scheduler.Messenger
	if cfg.WhatsApp.AccessToken != "" {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(whatsClient, baseLogger.Named("svc.whatsapp"))
		routes.Notify = handlers.NewNotifyHandler(messagingSvc, baseLogger.Named("handlers.notify"))
		if cfg.WhatsApp.Enabled() {
			messenger = messagingSvc
		}
	} else {
		baseLogger.Warn("whatsapp not configured, summaries will not be sent")
	}

	engine := router.New(routes, cfg.Server.GinMode, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(scheduler.Config{
		Schedule:  cfg.Reporting.CronSchedule,
		Location:  cfg.Location(),
		Recipient: cfg.WhatsApp.RecipientID,
	}, reportingSvc, snapshots, messenger, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("source", cfg.Source.Kind))
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

func newRowSource(ctx context.Context, cfg *config.Config, base *zap.Logger) (repository.RowSource, error) {
	switch cfg.Source.Kind {
	case config.SourceSheets:
		reader, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, base.Named("repo.sheets"))
		if err != nil {
			return nil, err
		}
		return sheets.NewRowSource(reader), nil
	case config.SourceAppsScript:
		return appscriptrepo.NewRowSource(appscriptclient.NewClient(cfg.AppsScript)), nil
	case config.SourceMock:
		return mock.NewRowSource(cfg.Source.MockDataFile, base.Named("repo.mock")), nil
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.Source.Kind)
	}
}
