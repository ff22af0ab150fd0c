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

	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.ApiService/controllers"
	container "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Container"
	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Engine/analytics"
	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Engine/dashboard"
	"gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Engine/triggers"
	implementation "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Repository/Implementation"

	// Auth imports
	authService "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.ApiService/implementation/auth"
	jwt "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.ApiService/implementation/jwt"
	authMiddleware "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.ApiService/middleware"
	api_models "gitlab.com/wavesense1/wsn.presence_server/src/production/WSN.Models/api"
)

func main() {
	// Initialize dependency injection container
	ctr, err := container.NewApiContainer()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize container: %v", err))
	}
	defer ctr.Shutdown(context.Background())

	logger := ctr.GetLogger()
	logger.Info("Starting API Service")

	// Initialize the key-value store
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := ctr.GetKVStore(ctx)
	if err != nil {
		logger.FatalWithError(err, "Failed to initialize key-value store")
	}

	// Create repositories
	metricRepo := implementation.NewKVMetricRepository(store)
	alertRepo := implementation.NewKVAlertRepository(store)
	userRepo := implementation.NewKVUserRepository(store)
	deviceRepo := implementation.NewKVDeviceRepository(store)

	// Get configuration
	config := ctr.GetConfig()

	// Initialize JWT service for token validation
	jwtConfig := api_models.Config{
		SecretKey:           config.Auth.JWTSecretKey,
		AccessTokenDuration: config.Auth.AccessTokenDuration,
		Issuer:              config.Auth.JWTIssuer,
	}
	jwtService := jwt.NewService(jwtConfig)

	// Create auth middleware
	authMiddlewareInstance := authMiddleware.NewAuthMiddleware(jwtService)

	// Initialize auth service
	authServiceInstance := authService.NewService(userRepo, jwtService, config.Auth.PasswordMinLength)

	// Initialize engines
	triggerEngine := triggers.New(deviceRepo, userRepo, alertRepo, logger)
	aggregator := analytics.New(metricRepo)
	composer := dashboard.New(metricRepo, deviceRepo, alertRepo, aggregator)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Configure CORS from config
	corsConfig := cors.Config{
		AllowOrigins:     config.CORS.AllowedOrigins,
		AllowMethods:     config.CORS.AllowedMethods,
		AllowHeaders:     config.CORS.AllowedHeaders,
		ExposeHeaders:    config.CORS.ExposedHeaders,
		AllowCredentials: config.CORS.AllowCredentials,
		MaxAge:           time.Duration(config.CORS.MaxAge) * time.Second,
	}
	router.Use(cors.New(corsConfig))

	// Create controllers and register routes
	userController := controllers.NewUserController(authServiceInstance, userRepo, logger, authMiddlewareInstance)
	metricController := controllers.NewMetricController(metricRepo, triggerEngine, composer, logger, authMiddlewareInstance)
	alertController := controllers.NewAlertController(alertRepo, logger, authMiddlewareInstance)
	deviceController := controllers.NewDeviceController(deviceRepo, logger, authMiddlewareInstance)
	dashboardController := controllers.NewDashboardController(composer, aggregator, logger, authMiddlewareInstance)
	healthController := controllers.NewHealthController(store)

	userController.RegisterRoutes(router)
	metricController.RegisterRoutes(router)
	alertController.RegisterRoutes(router)
	deviceController.RegisterRoutes(router)
	dashboardController.RegisterRoutes(router)
	healthController.RegisterRoutes(router)

	// Get port from configuration
	port := config.Server.Port

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
		IdleTimeout:  config.Server.IdleTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		logger.Info("HTTP server starting on port " + port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithError(err, "Failed to start HTTP server")
		}
	}()

	logger.Info("API service running... press Ctrl+C to stop")

	// Wait for shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("Shutting down...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithError(err, "Server forced to shutdown")
	}
}
