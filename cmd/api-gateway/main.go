package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/student-records-api/internal/admin"
	"github.com/noah-isme/student-records-api/internal/handler"
	"github.com/noah-isme/student-records-api/internal/repository"
	"github.com/noah-isme/student-records-api/internal/service"
	"github.com/noah-isme/student-records-api/pkg/cache"
	"github.com/noah-isme/student-records-api/pkg/config"
	"github.com/noah-isme/student-records-api/pkg/database"
	"github.com/noah-isme/student-records-api/pkg/logger"
	"github.com/noah-isme/student-records-api/pkg/storage"
)

// @title Student Records API
// @version 1.0.0
// @description Student, teacher, course and mark administration with bulk mark upload and dashboard statistics.
// @BasePath /api/v1
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(context.Background(), db.DB); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Dashboard.CacheEnabled {
		redisClient, err = cache.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
			redisClient = nil
		}
	}

	registry, err := admin.Default()
	if err != nil {
		logr.Fatal("failed to load admin registry", zap.Error(err))
	}

	uploads, err := storage.NewLocalStorage(cfg.Import.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare upload storage", zap.Error(err))
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	validate := validator.New()

	addressRepo := repository.NewAddressRepository(db)
	streamRepo := repository.NewStreamRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	programRepo := repository.NewProgramRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	markRepo := repository.NewMarkRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, redisClient != nil)
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	importSvc := service.NewMarkImportService(service.MarkImportParams{
		Students:  studentRepo,
		Courses:   courseRepo,
		Marks:     markRepo,
		Storage:   uploads,
		Dashboard: dashboardSvc,
		Metrics:   metricsSvc,
		Logger:    logr,
		Config: service.MarkImportConfig{
			AllowedExtensions: cfg.Import.AllowedExtensions,
			MaxFileSize:       cfg.Import.MaxFileSizeBytes,
			Atomic:            cfg.Import.Atomic,
		},
	})
	exportSvc := service.NewExportService(studentRepo, markRepo, nil, nil, cfg.Exports.PDFTitle, logr)

	handlers := routeHandlers{
		Addresses: handler.NewAddressHandler(service.NewAddressService(addressRepo, validate, logr), registry),
		Streams:   handler.NewStreamHandler(service.NewStreamService(streamRepo, validate, logr), registry),
		Courses:   handler.NewCourseHandler(service.NewCourseService(courseRepo, validate, logr), registry),
		Programs:  handler.NewProgramHandler(service.NewProgramService(programRepo, validate, logr), registry),
		Students:  handler.NewStudentHandler(service.NewStudentService(studentRepo, validate, logr), registry),
		Teachers:  handler.NewTeacherHandler(service.NewTeacherService(teacherRepo, validate, logr), registry),
		Marks:     handler.NewMarkHandler(service.NewMarkService(markRepo, dashboardSvc, validate, logr), registry),
		Upload:    handler.NewMarkUploadHandler(importSvc),
		Exports:   handler.NewExportHandler(exportSvc),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
		Admin:     handler.NewAdminHandler(registry),
		Metrics:   handler.NewMetricsHandler(metricsSvc, db),
	}

	r := newRouter(cfg, logr, metricsSvc, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "import_atomic", importSvc.Atomic())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
