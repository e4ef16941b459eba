package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-queue/config"
	deliveryHttp "clinic-queue/internal/delivery/http"
	"clinic-queue/internal/delivery/http/handler"
	"clinic-queue/internal/delivery/http/middleware"
	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/infrastructure/cache"
	"clinic-queue/internal/infrastructure/database"
	"clinic-queue/internal/infrastructure/realtime"
	"clinic-queue/internal/repository"
	"clinic-queue/internal/service"
	"clinic-queue/internal/usecase"
	"clinic-queue/pkg/jwt"
	"clinic-queue/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const dayLockTTL = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	if err := entity.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logrus.Info("Database schema migrated")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize all layers
	server, err := initializeServer(cfg, db, redisClient)
	if err != nil {
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, error) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	queueRepo := repository.NewQueueRepository()
	settingsRepo := repository.NewPracticeSettingsRepository()
	activityRepo := repository.NewActivityLogRepository()

	// Initialize services
	slotService := service.NewQueueSlotService(db, redisClient, log)
	if err := slotService.SyncOnStartup(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to sync slot counters: %w", err)
	}
	dayLocker := service.NewRedisDayLocker(redisClient, dayLockTTL)
	activityService := service.NewActivityService(log, activityRepo)
	broadcaster := newBroadcaster(cfg, log)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, jwtService, redisClient)
	queueUsecase := usecase.NewQueueUsecase(db, log, queueRepo, settingsRepo, slotService, activityService)
	adminUsecase := usecase.NewQueueAdminUsecase(db, log, queueRepo, slotService, activityService, broadcaster, dayLocker)
	slotUsecase := usecase.NewSlotUsecase(db, log, queueRepo, settingsRepo)
	settingsUsecase := usecase.NewSettingsUsecase(db, log, settingsRepo)
	activityUsecase := usecase.NewActivityUsecase(db, log, activityRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	queueHandler := handler.NewQueueHandler(queueUsecase, slotUsecase, customValidator)
	adminQueueHandler := handler.NewAdminQueueHandler(adminUsecase, customValidator)
	settingsHandler := handler.NewSettingsHandler(settingsUsecase, customValidator)
	activityHandler := handler.NewActivityHandler(activityUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware()

	// Initialize router
	router := deliveryHttp.NewRouter(authHandler, queueHandler, adminQueueHandler, settingsHandler, activityHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}, nil
}

// newBroadcaster returns the PubNub broadcaster when keys are configured,
// otherwise a no-op so queue operations work without realtime.
func newBroadcaster(cfg *config.Config, log *logrus.Logger) service.Broadcaster {
	broadcaster, err := realtime.NewPubNubBroadcaster(cfg.PubNub)
	if err != nil {
		log.Warnf("Realtime broadcast disabled: %v", err)
		return service.NoopBroadcaster{}
	}
	log.Info("Realtime broadcast enabled")
	return broadcaster
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

// Close closes all connections (database, redis, etc.)
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
}
