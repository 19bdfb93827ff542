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
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/KentHall303/ct-dispatch-api/api/swagger"
	"github.com/KentHall303/ct-dispatch-api/internal/handler"
	"github.com/KentHall303/ct-dispatch-api/internal/middleware"
	"github.com/KentHall303/ct-dispatch-api/internal/models"
	"github.com/KentHall303/ct-dispatch-api/internal/repository"
	"github.com/KentHall303/ct-dispatch-api/internal/service"
	"github.com/KentHall303/ct-dispatch-api/pkg/cache"
	"github.com/KentHall303/ct-dispatch-api/pkg/config"
	"github.com/KentHall303/ct-dispatch-api/pkg/database"
	"github.com/KentHall303/ct-dispatch-api/pkg/jobs"
	"github.com/KentHall303/ct-dispatch-api/pkg/logger"
	corsmiddleware "github.com/KentHall303/ct-dispatch-api/pkg/middleware/cors"
	reqidmiddleware "github.com/KentHall303/ct-dispatch-api/pkg/middleware/requestid"
	"github.com/KentHall303/ct-dispatch-api/pkg/storage"
)

// @title CT Dispatch API
// @version 0.1.0
// @description Time-lane dispatch board backend
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, board caching disabled", "error", err)
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()

	appointmentRepo := repository.NewAppointmentRepository(db, metricsSvc)
	subcontractorRepo := repository.NewSubcontractorRepository(db, metricsSvc)
	userRepo := repository.NewUserRepository(db, metricsSvc)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Board.CacheTTL, logr, cfg.Board.CacheEnabled && redisClient != nil)
	boardSvc := service.NewBoardService(appointmentRepo, subcontractorRepo, cacheSvc, metricsSvc, logr, cfg.Board)
	dispatchSvc := service.NewDispatchService(appointmentRepo, subcontractorRepo, boardSvc, nil, logr)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, subcontractorRepo, boardSvc, nil, logr)
	subcontractorSvc := service.NewSubcontractorService(subcontractorRepo, boardSvc, logr)
	sweepSvc := service.NewSweepService(appointmentRepo, boardSvc, metricsSvc, logr)
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "ct-dispatch-api",
	})

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc = service.NewExportService(appointmentRepo, subcontractorRepo, store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
		}, logr, nil, nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := cron.New()
	if cfg.Sweep.Enabled {
		sweepQueue := jobs.NewQueue("overdue-sweep", func(ctx context.Context, _ jobs.Job) error {
			_, err := sweepSvc.Run(ctx)
			return err
		}, jobs.QueueConfig{Workers: cfg.Sweep.Workers, Logger: logr})
		sweepQueue.Start(ctx)
		defer sweepQueue.Stop()

		if _, err := scheduler.AddFunc(cfg.Sweep.Schedule, func() {
			if err := sweepQueue.Enqueue(jobs.Job{Kind: "overdue-sweep"}); err != nil {
				logr.Warn("failed to enqueue overdue sweep", zap.Error(err))
			}
		}); err != nil {
			logr.Sugar().Fatalw("invalid sweep schedule", "schedule", cfg.Sweep.Schedule, "error", err)
		}
	}
	if exportSvc != nil && cfg.Exports.CleanupInterval > 0 {
		if _, err := scheduler.AddFunc(fmt.Sprintf("@every %s", cfg.Exports.CleanupInterval), exportSvc.Cleanup); err != nil {
			logr.Warn("failed to schedule export cleanup", zap.Error(err))
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	r := buildRouter(cfg, logr, authSvc, boardSvc, dispatchSvc, appointmentSvc, subcontractorSvc, exportSvc, metricsSvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func buildRouter(
	cfg *config.Config,
	logr *zap.Logger,
	authSvc *service.AuthService,
	boardSvc *service.BoardService,
	dispatchSvc *service.DispatchService,
	appointmentSvc *service.AppointmentService,
	subcontractorSvc *service.SubcontractorService,
	exportSvc *service.ExportService,
	metricsSvc *service.MetricsService,
) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(authSvc)
	boardHandler := handler.NewBoardHandler(boardSvc)
	dispatchHandler := handler.NewDispatchHandler(dispatchSvc)
	appointmentHandler := handler.NewAppointmentHandler(appointmentSvc)
	subcontractorHandler := handler.NewSubcontractorHandler(subcontractorSvc)

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.GET("/auth/me", authHandler.Me)
	authed.GET("/status", metricsHandler.Status)

	authed.GET("/dispatch/board", boardHandler.GetDay)
	authed.POST("/dispatch/appointments/:id/drop", dispatchHandler.Drop)
	authed.POST("/dispatch/appointments/:id/resize", dispatchHandler.Resize)

	authed.GET("/appointments", appointmentHandler.List)
	authed.POST("/appointments", appointmentHandler.Create)
	authed.GET("/appointments/:id", appointmentHandler.Get)
	authed.PATCH("/appointments/:id", appointmentHandler.Update)
	authed.DELETE("/appointments/:id", appointmentHandler.Delete)

	authed.GET("/subcontractors", subcontractorHandler.List)
	authed.GET("/subcontractors/:id", subcontractorHandler.Get)

	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	admin.POST("/subcontractors", subcontractorHandler.Create)
	admin.PATCH("/subcontractors/:id", subcontractorHandler.Update)

	if exportSvc != nil {
		exportHandler := handler.NewExportHandler(exportSvc)
		authed.POST("/exports/daysheet", exportHandler.Generate)
		// token carries its own authentication
		api.GET("/exports/download/:token", exportHandler.Download)
	}

	return r
}
