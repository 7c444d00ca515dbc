package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"dekugames/internal/amqp"
	"dekugames/internal/backend"
	"dekugames/internal/cache"
	"dekugames/internal/catalog"
	"dekugames/internal/cli"
	"dekugames/internal/core"
	"dekugames/internal/covers"
	apphttp "dekugames/internal/http"
	"dekugames/internal/jobs"
	"dekugames/internal/log"
	"dekugames/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel, log.ComponentApp)

	startCtx, startCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startCancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err.Error())
		os.Exit(1)
	}
	inv, err := backend.NewFactory(logger.Logger).CreateBackend(startCtx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize inventory backend", log.FieldError, err.Error(), "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer inv.Close()

	catalogSvc := services.NewCatalogService(inv.Backend, services.CatalogConfig{
		TTL:             cfg.CatalogTTL,
		FetchTimeout:    cfg.FetchTimeout,
		ResultCacheSize: cfg.ResultCacheSize,
		Options: catalog.Options{
			Overlap:  cfg.Overlap(),
			Lang:     cfg.Language(),
			PageSize: cfg.PageSize,
		},
	})

	accountRate, itemRate := cfg.Rates()
	pricing := core.Pricing{AccountRate: accountRate, ItemRate: itemRate}

	// The audit trail is optional; the storefront runs without a broker.
	var publisher services.IntentPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, purchase intents will not be audited", log.FieldError, err.Error())
		} else {
			publisher = amqpClient
			defer amqpClient.Close()
		}
	}

	purchaseSvc, err := services.NewPurchaseService(catalogSvc, publisher, services.PurchaseConfig{
		Channel:          core.Channel(cfg.PurchaseChannel),
		WhatsAppPhone:    cfg.WhatsAppPhone,
		TelegramUsername: cfg.TelegramUsername,
		Pricing:          pricing,
	})
	if err != nil {
		logger.Error("Failed to initialize purchase service", log.FieldError, err.Error())
		os.Exit(1)
	}

	store, closeStore, err := openCoverStore(startCtx, cfg.CoversBucket, cfg.CoversPrefix, cfg.CoversDir)
	if err != nil {
		logger.Error("Failed to open cover store", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer closeStore()

	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:              ":" + cfg.Port,
		PageSize:          cfg.PageSize,
		DefaultCountry:    cfg.DefaultCountry,
		SupportEmail:      cfg.SupportEmail,
		Pricing:           pricing,
		RequestsPerMinute: cfg.RequestsPerMinute,
		Logger:            logger,
	}, catalogSvc, purchaseSvc, store)
	if err != nil {
		logger.Error("Failed to initialize HTTP server", log.FieldError, err.Error())
		os.Exit(1)
	}

	cacheLogger := logger.WithComponent(log.ComponentCache)
	caches := cache.NewManager(func(removed int) {
		cacheLogger.Debug("Cache cleanup completed", "removed", removed)
	})
	caches.Register(catalogSvc.ResultCache())

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
	})

	// Warm the snapshot so the first visitor does not pay for the fetch.
	if err := catalogSvc.Refresh(startCtx); err != nil {
		logger.Warn("Initial catalog load failed", log.FieldError, err.Error())
	}

	scheduler := jobs.NewScheduler(catalogSvc, caches, jobs.Config{
		RefreshEvery: cfg.CatalogRefresh,
		CleanupEvery: 5 * time.Minute,
	})
	if err := scheduler.Start(ctx); err != nil {
		logger.Error("Failed to start scheduler", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer scheduler.Stop()

	logger.Info("Starting dekugames server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"overlap", string(cfg.Overlap()),
		"purchase_channel", cfg.PurchaseChannel,
		"amqp", publisher != nil)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}

// openCoverStore prefers the bucket when one is configured.
func openCoverStore(ctx context.Context, bucket, prefix, dir string) (covers.AssetStore, func(), error) {
	if bucket != "" {
		gcs, err := covers.NewGCSStore(ctx, bucket, prefix)
		if err != nil {
			return nil, nil, err
		}
		return gcs, func() { _ = gcs.Close() }, nil
	}
	local, err := covers.NewDirStore(dir)
	if err != nil {
		return nil, nil, err
	}
	return local, func() {}, nil
}
