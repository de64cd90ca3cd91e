package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	_ "github.com/noah-isme/admissions-portal-api/api/swagger"
	"github.com/noah-isme/admissions-portal-api/internal/handler"
	"github.com/noah-isme/admissions-portal-api/internal/middleware"
	"github.com/noah-isme/admissions-portal-api/internal/repository"
	"github.com/noah-isme/admissions-portal-api/internal/service"
	"github.com/noah-isme/admissions-portal-api/pkg/cache"
	"github.com/noah-isme/admissions-portal-api/pkg/config"
	"github.com/noah-isme/admissions-portal-api/pkg/database"
	"github.com/noah-isme/admissions-portal-api/pkg/export"
	"github.com/noah-isme/admissions-portal-api/pkg/jobs"
	"github.com/noah-isme/admissions-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/admissions-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/admissions-portal-api/pkg/middleware/requestid"
	"github.com/noah-isme/admissions-portal-api/pkg/response"
	"github.com/noah-isme/admissions-portal-api/pkg/storage"
)

// @title Admissions Portal API
// @version 1.0.0
// @description Application intake, admin review and institutional content
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	metrics := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cfg.Stats.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, statistics cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, "admissions:", logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	cacheSvc := service.NewCacheService(nil, metrics, cfg.Stats.CacheTTL, logr, false)
	if cacheRepo != nil {
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Stats.CacheTTL, logr, true)
	}

	backend, err := newStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer backend.Close() //nolint:errcheck

	attachments := service.NewAttachmentService(backend, metrics, logr, service.AttachmentConfig{
		MaxFileSize: cfg.Uploads.MaxFileSize,
	})

	cleanupQueue := jobs.NewQueue("attachment-cleanup", service.NewAttachmentCleanupHandler(attachments, metrics), jobs.QueueConfig{
		Workers:     cfg.Cleanup.Workers,
		MaxRetries:  cfg.Cleanup.Retries,
		RetryDelay:  5 * time.Second,
		Logger:      logr,
		OnExhausted: service.CleanupExhausted(metrics, logr),
	})
	cleanupQueue.Start(ctx)
	defer cleanupQueue.Stop()

	validate := service.NewValidator()
	exporter := service.NewExportService(export.NewCSVExporter(), export.NewPDFExporter())

	adminRepo := repository.NewAdminRepository(db)
	authSvc := service.NewAuthService(adminRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		ResetTokenExpiry:   cfg.JWT.ResetExpiration,
		Issuer:             cfg.JWT.Issuer,
		DefaultAdminEmail:  cfg.Admin.DefaultEmail,
		DefaultAdminPasswd: cfg.Admin.DefaultPassword,
	})
	if cfg.Admin.AutoSeed {
		if err := authSvc.EnsureDefaultAdmin(ctx); err != nil {
			logr.Warn("default admin seed failed", zap.Error(err))
		}
	}

	applicationSvc := service.NewApplicationService(
		repository.NewApplicationRepository(db),
		attachments,
		service.ApplicationServiceDeps{
			Cache:    cacheSvc,
			Metrics:  metrics,
			Cleanup:  cleanupQueue,
			Signer:   storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL),
			Audit:    adminRepo,
			Exporter: exporter,
		},
		validate,
		logr,
		service.ApplicationServiceConfig{APIPrefix: cfg.APIPrefix, StatsTTL: cfg.Stats.CacheTTL},
	)

	deps := routeDeps{
		cfg:           cfg,
		logger:        logr,
		tokens:        authSvc,
		audit:         adminRepo,
		auth:          handler.NewAuthHandler(authSvc),
		applications:  handler.NewApplicationHandler(applicationSvc),
		documents:     handler.NewDocumentHandler(service.NewDocumentService(repository.NewDocumentRepository(db), validate, logr)),
		gallery:       handler.NewGalleryHandler(service.NewGalleryService(repository.NewGalleryRepository(db), validate, logr)),
		leaders:       handler.NewLeaderHandler(service.NewLeaderService(repository.NewLeaderRepository(db), validate, logr)),
		events:        handler.NewEventHandler(service.NewEventService(repository.NewEventRepository(db), validate, logr)),
		notifications: handler.NewNotificationHandler(service.NewNotificationService(repository.NewNotificationRepository(db), adminRepo, validate, logr)),
		contacts:      handler.NewContactHandler(service.NewContactService(repository.NewContactRepository(db), adminRepo, exporter, validate, logr)),
		platform:      handler.NewMetricsHandler(metrics, readinessChecks(db, cacheRepo)),
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = 32 << 20
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())
	r.Use(response.Debug(cfg.Debug()))

	registerRoutes(r, deps)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	switch cfg.Uploads.Driver {
	case config.StorageDriverGCS:
		return storage.NewGCSStorage(ctx, cfg.Uploads.GCSBucket, cfg.Uploads.GCSCredentials, "applications")
	case config.StorageDriverLocal, "":
		return storage.NewLocalStorage(cfg.Uploads.Dir)
	default:
		return nil, fmt.Errorf("unknown uploads driver %q", cfg.Uploads.Driver)
	}
}

func readinessChecks(db *sqlx.DB, cacheRepo *repository.CacheRepository) map[string]handler.Pinger {
	checks := map[string]handler.Pinger{"postgres": db}
	if cacheRepo != nil {
		checks["redis"] = cacheRepo
	}
	return checks
}
