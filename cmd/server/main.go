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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	_ "businessathi/docs"
	"businessathi/internal/cache"
	"businessathi/internal/config"
	"businessathi/internal/handler"
	"businessathi/internal/logger"
	"businessathi/internal/metrics"
	"businessathi/internal/port"
	"businessathi/internal/repository/postgres"
	"businessathi/internal/router"
	"businessathi/internal/service"
	s3storage "businessathi/internal/storage/s3"
)

// @title           Businessathi Reporting API
// @version         1.0
// @description     Invoice filtering, statistics and CSV/XLSX export for GST and Local invoices.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	// A missing .env is fine outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.Output = cfg.Log.Output
	lg, err := logger.Setup(logCfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(ctx, &cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	invoiceRepo := postgres.NewInvoiceRepo(db)
	customerRepo := postgres.NewCustomerRepo(db)
	productRepo := postgres.NewProductRepo(db)

	// Lookup cache degrades to no caching when Redis is unreachable.
	var lookupCache port.LookupCache = cache.Noop{}
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedis(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			lg.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, lookups will not be cached")
		} else {
			lookupCache = redisCache
			defer redisCache.Close()
		}
	}

	// Export archive is optional.
	var archive port.ObjectStorage
	if cfg.Export.ArchiveEnabled {
		archive, err = s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Initialize services
	opts := service.NewReportOptions(cfg.Report, cfg.Redis)
	authSvc := service.NewAuthService(cfg.JWT)
	reportSvc := service.NewReportService(invoiceRepo, customerRepo, productRepo, lookupCache, opts, lg)
	statsSvc := service.NewStatsService(invoiceRepo, time.Now, lg)
	exportSvc := service.NewExportService(invoiceRepo, customerRepo, productRepo, archive, opts, service.ArchiveOptions{
		Enabled: cfg.Export.ArchiveEnabled,
		Bucket:  cfg.S3.Bucket,
		Prefix:  cfg.Export.ArchivePrefix,
	}, time.Now, lg)

	// Setup router
	routerOpts := router.Options{
		CORSOrigins:     cfg.CORS.AllowedOrigins,
		ExportRateLimit: cfg.Export.RateLimit,
		Swagger:         cfg.Server.Environment != "production",
	}
	if cfg.Metrics.Enabled {
		metrics.Register(prometheus.DefaultRegisterer)
		routerOpts.Metrics = promhttp.Handler()
	}
	r, err := router.Setup(routerOpts, lg, authSvc, router.Handlers{
		Invoice: handler.NewInvoiceHandler(reportSvc, statsSvc),
		Master:  handler.NewMasterHandler(reportSvc),
		Export:  handler.NewExportHandler(exportSvc),
		Health:  handler.NewHealthHandler(db),
	})
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		lg.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	lg.Info().Msg("server stopped")
	return nil
}
