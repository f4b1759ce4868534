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
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/kickoff-coach-api/api/swagger"
	"github.com/noah-isme/kickoff-coach-api/internal/handler"
	"github.com/noah-isme/kickoff-coach-api/internal/repository"
	"github.com/noah-isme/kickoff-coach-api/internal/seed"
	"github.com/noah-isme/kickoff-coach-api/internal/service"
	"github.com/noah-isme/kickoff-coach-api/pkg/cache"
	"github.com/noah-isme/kickoff-coach-api/pkg/config"
	"github.com/noah-isme/kickoff-coach-api/pkg/database"
	"github.com/noah-isme/kickoff-coach-api/pkg/export"
	"github.com/noah-isme/kickoff-coach-api/pkg/jobs"
	"github.com/noah-isme/kickoff-coach-api/pkg/logger"
)

// @title Kickoff Coach API
// @version 1.0.0
// @description Soccer coaching marketplace: coaches, lessons, bookings and reviews.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

type entityStore interface {
	repository.Store
	repository.CompanyInfoStore
}

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]handler.ReadinessCheck{}

	store, closeStore, err := openStore(ctx, cfg, logr, checks)
	if err != nil {
		logr.Fatal("failed to open store", zap.Error(err))
	}
	defer closeStore()

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	cacheRepo := repository.NewCacheRepository(nil)
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, listing cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client)
			checks["cache"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		}
	}
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	validate := validator.New()

	notifier := service.NewInquiryNotifier(cfg.Company.Email, logr)
	queue := jobs.NewQueue("inquiry-notifications", notifier.Handle, jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()

	authSvc := service.NewAuthService(store, cacheSvc, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	coachSvc := service.NewCoachService(store, cacheSvc, validate, logr)
	lessonSvc := service.NewLessonService(store, cacheSvc, validate, logr)
	reviewSvc := service.NewReviewService(store, cacheSvc, metrics, validate, logr)
	bookingSvc := service.NewBookingService(store, metrics, export.NewCSVExporter(), export.NewPDFExporter(cfg.Export.PDFFontPath), validate, logr)
	inquirySvc := service.NewInquiryService(store, queue, validate, logr)
	companySvc := service.NewCompanyInfoService(store, validate, logr, map[string]string{
		"company_name": cfg.Company.Name,
		"email":        cfg.Company.Email,
		"phone":        cfg.Company.Phone,
	})
	dashboardSvc := service.NewDashboardService(store, metrics, logr)

	if cfg.Storage.Seed {
		err := seed.Run(ctx, seed.Deps{
			Store:   store,
			Auth:    authSvc,
			Coaches: coachSvc,
			Lessons: lessonSvc,
			Reviews: reviewSvc,
		}, seed.Options{AdminPassword: cfg.Storage.SeedAdminPassword}, logr)
		if err != nil {
			logr.Fatal("failed to seed data", zap.Error(err))
		}
	}

	r := newRouter(cfg, logr, metrics, authSvc, store, handlers{
		auth:      handler.NewAuthHandler(authSvc),
		coaches:   handler.NewCoachHandler(coachSvc),
		lessons:   handler.NewLessonHandler(lessonSvc),
		bookings:  handler.NewBookingHandler(bookingSvc),
		reviews:   handler.NewReviewHandler(reviewSvc),
		inquiries: handler.NewInquiryHandler(inquirySvc),
		company:   handler.NewCompanyInfoHandler(companySvc),
		dashboard: handler.NewDashboardHandler(dashboardSvc),
		metrics:   handler.NewMetricsHandler(metrics, checks),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("storage", cfg.Storage.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore builds the entity store selected by STORAGE_DRIVER and registers
// its readiness check.
func openStore(ctx context.Context, cfg *config.Config, logr *zap.Logger, checks map[string]handler.ReadinessCheck) (entityStore, func(), error) {
	if cfg.Storage.Driver != config.StoragePostgres {
		checks["store"] = func(context.Context) error { return nil }
		return repository.NewMemoryStore(), func() {}, nil
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	store := repository.NewPostgresStore(db)
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	checks["store"] = db.PingContext
	logr.Info("postgres store ready", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))
	return store, func() { _ = db.Close() }, nil
}
