package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medguide/config"
	deliveryHttp "medguide/internal/delivery/http"
	"medguide/internal/delivery/http/handler"
	"medguide/internal/delivery/http/middleware"
	"medguide/internal/domain/gateway"
	domainRepo "medguide/internal/domain/repository"
	"medguide/internal/infrastructure/cache"
	"medguide/internal/infrastructure/classifier"
	"medguide/internal/infrastructure/database"
	"medguide/internal/infrastructure/llm"
	"medguide/internal/infrastructure/monitoring"
	"medguide/internal/infrastructure/notifier"
	"medguide/internal/infrastructure/storage"
	"medguide/internal/infrastructure/translator"
	"medguide/internal/repository"
	"medguide/internal/service"
	"medguide/internal/usecase"
	"medguide/pkg/jwt"
	"medguide/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Kafka       *notifier.KafkaNotifier
	Server      *http.Server
}

// collaborators are the optional external services; each is nil when not configured.
type collaborators struct {
	notifier   gateway.Notifier
	artifacts  *classifier.HTTPArtifacts
	translator gateway.Translator
	chatModel  gateway.ChatModel
	archive    gateway.ArchiveStore
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	// Setup logger
	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	if err := monitoring.InitSentry(cfg.Sentry.DSN, cfg.App.Env); err != nil {
		logrus.Warnf("Sentry disabled: %v", err)
	}

	// Initialize database
	gormLevel := logger.Warn
	if !cfg.IsProduction() {
		gormLevel = logger.Info
	}
	db, dialect, err := database.Open(cfg.DB, gormLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Infof("Database connected successfully (%s)", dialect.Name())

	bookingRepo := repository.NewBookingRepository(dialect)
	predictionRepo := repository.NewPredictionRepository(dialect)
	auditLogRepo := repository.NewAuditLogRepository()
	for name, ensure := range map[string]func(*gorm.DB) error{
		"bookings":    bookingRepo.EnsureSchema,
		"predictions": predictionRepo.EnsureSchema,
		"audit_logs":  auditLogRepo.EnsureSchema,
	} {
		if err := ensure(db); err != nil {
			return nil, fmt.Errorf("failed to prepare %s table: %w", name, err)
		}
	}

	// Initialize Redis
	var chatMemory domainRepo.ChatMemoryRepository
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	switch {
	case err == nil:
		app.RedisClient = redisClient
		chatMemory = repository.NewRedisChatMemory(redisClient, cfg.Redis.HistoryWindow*4, cfg.Redis.SessionTTL)
		logrus.Info("Redis connected successfully")
	case errors.Is(err, cache.ErrNotConfigured):
		chatMemory = repository.NewInMemoryChatMemory(cfg.Redis.HistoryWindow*4, cfg.Redis.SessionTTL)
		logrus.Info("Redis not configured, chat memory kept in process")
	default:
		return nil, err
	}

	deps := initializeCollaborators(cfg, app)

	// Initialize all layers
	app.Server = initializeServer(cfg, db, repositories{
		bookings:    bookingRepo,
		predictions: predictionRepo,
		auditLogs:   auditLogRepo,
		chatMemory:  chatMemory,
	}, deps)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

func initializeCollaborators(cfg *config.Config, app *App) collaborators {
	var deps collaborators
	httpClient := &http.Client{Timeout: cfg.App.ExternalCallTimeout * 2}

	// Booking notifiers
	var notifiers notifier.Multi
	if cfg.SMTP.Host != "" {
		email, err := notifier.NewEmailNotifier(cfg.SMTP)
		if err != nil {
			logrus.Warnf("Email notifications disabled: %v", err)
		} else {
			notifiers = append(notifiers, email)
		}
	}
	if len(cfg.Kafka.Brokers) > 0 {
		app.Kafka = notifier.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.BookingTopic)
		notifiers = append(notifiers, app.Kafka)
	}
	if len(notifiers) > 0 {
		deps.notifier = notifiers
	}

	// Classifier artifacts
	if cfg.Classifier.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ExternalCallTimeout)
		artifacts, err := classifier.NewHTTPArtifacts(ctx, cfg.Classifier.URL, httpClient)
		cancel()
		if err != nil {
			logrus.Warnf("Disease prediction disabled: %v", err)
		} else {
			deps.artifacts = artifacts
			logrus.Infof("Classifier loaded with %d input columns", len(artifacts.Info().FeatureNames))
		}
	}

	if cfg.Translator.URL != "" {
		deps.translator = translator.NewHTTPTranslator(cfg.Translator.URL, cfg.Translator.APIKey, httpClient)
	}

	if cfg.LLM.APIKey != "" {
		deps.chatModel = llm.NewChatClient(cfg.LLM, httpClient)
	}

	if cfg.S3.Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ExternalCallTimeout)
		archive, err := storage.NewS3Archive(ctx, cfg.S3)
		cancel()
		if err != nil {
			logrus.Warnf("Export archive disabled: %v", err)
		} else {
			deps.archive = archive
		}
	}

	return deps
}

type repositories struct {
	bookings    domainRepo.BookingRepository
	predictions domainRepo.PredictionRepository
	auditLogs   domainRepo.AuditLogRepository
	chatMemory  domainRepo.ChatMemoryRepository
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, repos repositories, deps collaborators) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.NewMetrics(registry)

	// Initialize services
	auditService := service.NewAuditService(log, repos.auditLogs)

	// The classifier gateways stay nil interfaces when the model server is absent.
	var (
		preprocessor gateway.Preprocessor
		predictor    gateway.Classifier
	)
	if deps.artifacts != nil {
		preprocessor, predictor = deps.artifacts, deps.artifacts
	}

	timeout := cfg.App.ExternalCallTimeout

	// Initialize usecases
	intakeUsecase := usecase.NewIntakeUsecase(db, log, customValidator, repos.bookings, deps.notifier, metrics, timeout)
	predictionUsecase := usecase.NewPredictionUsecase(db, log, customValidator, repos.predictions, preprocessor, predictor, metrics, timeout)
	recordUsecase := usecase.NewRecordUsecase(db, log, repos.bookings, repos.predictions, auditService)
	dashboardUsecase := usecase.NewDashboardUsecase(db, log, customValidator, repos.bookings, repos.predictions)
	exportUsecase := usecase.NewExportUsecase(db, log, repos.bookings, repos.predictions, deps.archive, auditService, timeout)
	authUsecase := usecase.NewAuthUsecase(db, log, cfg.Admin, jwtService, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, repos.auditLogs)
	assistantUsecase := usecase.NewAssistantUsecase(log, deps.chatModel, deps.translator, repos.chatMemory, cfg.Redis.HistoryWindow, timeout)

	// Initialize handlers
	bookingHandler := handler.NewBookingHandler(intakeUsecase, recordUsecase)
	predictionHandler := handler.NewPredictionHandler(predictionUsecase, recordUsecase)
	assistantHandler := handler.NewAssistantHandler(assistantUsecase, customValidator)
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	dashboardHandler := handler.NewDashboardHandler(dashboardUsecase)
	exportHandler := handler.NewExportHandler(exportUsecase)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSAllowedOrigin)
	metricsMiddleware := middleware.NewMetricsMiddleware(metrics)

	// Initialize router
	router := deliveryHttp.NewRouter(
		bookingHandler,
		predictionHandler,
		assistantHandler,
		authHandler,
		dashboardHandler,
		exportHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		metricsMiddleware,
		metrics.Handler(),
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, kafka) and flushes pending error reports
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}

	if app.Kafka != nil {
		if err := app.Kafka.Close(); err != nil {
			logrus.Warnf("Failed to close Kafka writer: %v", err)
		}
	}

	monitoring.FlushSentry()
}
