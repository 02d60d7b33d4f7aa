package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/roomcare/housekeeping-backend/internal/config"
	"github.com/roomcare/housekeeping-backend/internal/database"
	"github.com/roomcare/housekeeping-backend/internal/handlers"
	"github.com/roomcare/housekeeping-backend/internal/metrics"
	"github.com/roomcare/housekeeping-backend/internal/middleware"
	"github.com/roomcare/housekeeping-backend/internal/realtime"
	"github.com/roomcare/housekeeping-backend/internal/services"
	"github.com/roomcare/housekeeping-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting housekeeping scheduling backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	loc, err := cfg.Scheduling.Location()
	if err != nil {
		logger.Fatalf("Failed to load facility timezone: %v", err)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	applied, err := database.MigrateUp(db.DB.DB)
	if err != nil {
		logger.Fatalf("Failed to apply migrations: %v", err)
	}
	logger.WithField("applied", applied).Info("Database migrations up to date")

	store := database.NewStore(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	recorder := metrics.NewPrometheus()
	hub := realtime.NewHub(cfg.Realtime.SendBuffer, recorder, logger)
	calendar := services.NewCalendar(loc, nil)

	notificationService := services.NewNotificationService(store.Notifications(), store.Users(), hub, calendar, logger)
	availabilityService := services.NewAvailabilityService(store, calendar, logger)
	requestService := services.NewHousekeepingRequestService(
		store,
		availabilityService,
		notificationService,
		calendar,
		recorder,
		services.HousekeepingRequestConfig{
			GuestDailyLimit: cfg.Scheduling.GuestDailyLimit,
			AdminOfficeRoom: cfg.Scheduling.AdminOfficeRoom,
		},
		logger,
	)
	scheduleService := services.NewScheduleService(store, logger)
	deliveryService := services.NewDeliveryAssignmentService(store, notificationService, calendar, recorder, logger)
	sweepService := services.NewCheckoutSweepService(store, calendar, recorder, logger)

	cronService := services.NewCronService(sweepService, cfg.Scheduling.CheckoutSweepSpec, logger)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}
	logger.Info("Cron service started")

	logger.Info("Services initialized")

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 1 && cfg.CORS.AllowedOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", handlers.NewHealthHandler(store, version, logger).Health)
	router.GET("/metrics", gin.WrapH(recorder.Handler()))

	handlers.RegisterRoutes(router, handlers.Handlers{
		Requests:   handlers.NewHousekeepingRequestHandler(requestService, availabilityService, logger),
		Tasks:      handlers.NewHousekeeperTaskHandler(requestService, logger),
		Schedules:  handlers.NewScheduleHandler(scheduleService, logger),
		Deliveries: handlers.NewDeliveryHandler(deliveryService, logger),
		Cron:       handlers.NewAdminCronHandler(cronService, logger),
		Realtime:   handlers.NewRealtimeHandler(hub, cfg.Realtime.AllowedOrigins, logger),
	}, jwtService, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	logger.Info("Stopping cron service...")
	cronService.Stop()

	// Websocket connections are hijacked and not drained by Shutdown
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}
