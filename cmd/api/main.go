// @title           Study Group API
// @version         1.0
// @description     스터디 모집 및 멤버십 관리 API

// @contact.name   API Support
// @contact.url    https://moyeora.kr/support
// @contact.email  support@moyeora.kr

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8004
// @BasePath  /api/studies

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"study-group-api/internal/client"
	"study-group-api/internal/config"
	"study-group-api/internal/database"
	"study-group-api/internal/job"
	"study-group-api/internal/metrics"
	"study-group-api/internal/repository"
	"study-group-api/internal/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("Starting Study Group Service",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
		zap.String("noti_api_url", cfg.NotiAPI.BaseURL),
	)

	// Initialize database (실패해도 앱은 시작됨 - pod 생존 보장)
	dbConfig := database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	db, err := database.New(dbConfig)
	if err != nil {
		logger.Warn("⚠️  Failed to connect to database on startup, will retry in background",
			zap.Error(err))
		// 백그라운드에서 DB 연결 재시도 (5초 간격)
		database.NewAsync(dbConfig, 5*time.Second)
	} else {
		logger.Info("Database connected successfully")

		// Run auto migration (DB 연결된 경우만)
		if err := database.SafeAutoMigrateWithRetry(db, logger, 3); err != nil {
			logger.Warn("Failed to run database migrations", zap.Error(err))
		} else {
			logger.Info("Database migrations completed")
		}
	}

	// Initialize Redis (optional; view-count dedup degrades without it)
	if err := database.InitRedis(*cfg, logger); err != nil {
		logger.Warn("Failed to connect to Redis, view-count dedup disabled", zap.Error(err))
	}
	redisClient := database.GetRedis()

	// Initialize metrics
	m := metrics.NewWithLogger(logger)
	logger.Info("Metrics initialized")

	if db != nil {
		database.RegisterMetricsCallbacks(db, m)
		dbStatsDone := database.StartDBStatsCollector(db, m)
		defer close(dbStatsDone)

		collector := metrics.NewBusinessMetricsCollector(db, m, logger)
		collector.Start()
		defer collector.Stop()
	}

	// Initialize notification client
	var notiClient client.NotificationClient
	if cfg.NotiAPI.BaseURL != "" {
		notiClient = client.NewNotificationClient(cfg.NotiAPI.BaseURL, cfg.NotiAPI.APIKey, cfg.NotiAPI.Timeout, logger, m)
		logger.Info("Notification client initialized",
			zap.String("noti_api_url", cfg.NotiAPI.BaseURL),
		)
	} else {
		notiClient = client.NewNoOpNotificationClient()
		logger.Warn("Notification API not configured, events will be marked dispatched without delivery")
	}

	// Background jobs: outbox dispatch every minute, expiry sweep hourly
	scheduler := cron.New()
	if db != nil {
		outboxJob := job.NewOutboxJob(repository.NewOutboxRepository(db), notiClient, logger)
		expiryJob := job.NewExpiryJob(repository.NewStudyRepository(db), logger)

		if _, err := scheduler.AddJob("@every 1m", outboxJob); err != nil {
			logger.Error("Failed to schedule outbox job", zap.Error(err))
		}
		if _, err := scheduler.AddJob("@hourly", expiryJob); err != nil {
			logger.Error("Failed to schedule expiry job", zap.Error(err))
		}
		scheduler.Start()
		logger.Info("Background jobs scheduled")
	}

	// Setup router with all dependencies
	r := router.Setup(router.Config{
		DB:        db,
		Redis:     redisClient,
		Logger:    logger,
		JWTSecret: cfg.JWT.Secret,
		BasePath:  cfg.Server.BasePath,
		Metrics:   m,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Study Group Service started successfully",
			zap.String("address", srv.Addr),
			zap.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Server.Port)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Stop scheduled jobs, let a running job finish
	<-scheduler.Stop().Done()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
