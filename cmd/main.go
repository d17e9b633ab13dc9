package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/qconnect/clinic-api/config"
	"github.com/qconnect/clinic-api/internal/handler"
	"github.com/qconnect/clinic-api/internal/repository"
	"github.com/qconnect/clinic-api/internal/router"
	"github.com/qconnect/clinic-api/internal/service"
	"github.com/qconnect/clinic-api/pkg/circuit"
	"github.com/qconnect/clinic-api/pkg/database"
	"github.com/qconnect/clinic-api/pkg/logger"
	"github.com/qconnect/clinic-api/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize Zap logger
	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", "1.0.0"),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	if err := database.Seed(db); err != nil {
		// Seed data may already exist, keep starting.
		logger.GetLogger().Error("Failed to seed database", zap.Error(err))
	} else {
		logger.GetLogger().Info("Database seeded successfully")
	}

	redisClient := redis.NewClient(redis.Config{
		Host:         config.Redis.Host,
		Port:         config.Redis.Port,
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		Enabled:      config.Redis.Enabled,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
	}, logger.GetLogger())
	defer redisClient.Close()

	logger.GetLogger().Info("Redis client initialized",
		zap.Bool("enabled", redisClient.IsEnabled()),
	)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	queueRepo := repository.NewQueueRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)

	// Services
	tokenService := service.NewTokenService(config.Auth.Secret, config.Auth.AccessTokenTTL, config.Auth.RefreshTokenTTL)
	authService := service.NewAuthService(userRepo, tokenRepo, tokenService)
	userService := service.NewUserService(userRepo, tokenRepo)
	doctorService := service.NewDoctorService(doctorRepo)
	queueService := service.NewQueueService(queueRepo, doctorRepo)

	smtpBreaker := circuit.NewBreaker("smtp", circuit.DefaultConfig(), logger.GetLogger())
	emailService, err := service.NewEmailService(config.Email, smtpBreaker)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize email service", zap.Error(err))
	}

	appointmentService := service.NewAppointmentService(appointmentRepo, queueRepo, userRepo, emailService)
	uploadService := service.NewUploadService(config.Storage)
	metricsService := service.NewMetricsService(redisClient)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, config)
	userHandler := handler.NewUserHandler(userService)
	doctorHandler := handler.NewDoctorHandler(doctorService)
	queueHandler := handler.NewQueueHandler(queueService)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService)
	uploadHandler := handler.NewUploadHandler(uploadService)
	emailHandler := handler.NewEmailHandler(emailService)
	healthHandler := handler.NewHealthHandler(db, redisClient)
	adminHandler := handler.NewAdminHandler(metricsService, tokenRepo)

	engine := router.NewRouter(
		authHandler,
		userHandler,
		doctorHandler,
		queueHandler,
		appointmentHandler,
		uploadHandler,
		emailHandler,
		healthHandler,
		adminHandler,

		tokenService,
		metricsService,
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:         ":" + config.App.Port,
		Handler:      engine,
		ReadTimeout:  config.App.Timeout,
		WriteTimeout: config.App.Timeout,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Forced shutdown", zap.Error(err))
	}
}
