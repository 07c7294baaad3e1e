package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"klarpakke/internal/ai"
	"klarpakke/internal/config"
	"klarpakke/internal/database"
	"klarpakke/internal/handlers"
	"klarpakke/internal/logger"
	"klarpakke/internal/middleware"
	"klarpakke/internal/notify"
	"klarpakke/internal/quotes"
	"klarpakke/internal/services"
	"klarpakke/internal/validator"
	"klarpakke/internal/webflow"
)

// @title           Klarpakke API
// @version         1.0
// @description     Klarpakke generates AI trading signals, gates them behind a daily risk budget, and mirrors approved signals into the marketing site's CMS collection.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Optional Telegram notifier
	notifier, err := notify.NewTelegram(appConfig.TelegramToken, appConfig.TelegramChatID)
	if err != nil {
		return fmt.Errorf("failed to create telegram notifier: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	httpClient := &http.Client{Timeout: appConfig.HTTPTimeout}

	userService := services.NewUserService(db)
	signalService := services.NewSignalService(db, appConfig.CleanupDelay)
	riskService := services.NewRiskService(db, appConfig.RiskCeilingUSD)

	// Components with missing upstream credentials stay nil; their
	// endpoints report CONFIG_MISSING instead of calling nowhere.
	var generatorService *services.GeneratorService
	if err := appConfig.RequireAI(); err == nil {
		aiClient := ai.NewClient(appConfig.AIBaseURL, appConfig.AIAPIKey, appConfig.AIModel, httpClient)
		generatorService = services.NewGeneratorService(signalService, riskService, aiClient, notifier, appConfig.RiskPerSignalUSD)
	} else {
		log.Warnf("Signal generation disabled: %v", err)
	}

	var syncService *services.SyncService
	if err := appConfig.RequireWebflow(); err == nil {
		collection := webflow.NewClient(appConfig.WebflowBaseURL, appConfig.WebflowToken, appConfig.WebflowCollectionID, httpClient)
		syncService = services.NewSyncService(signalService, collection, appConfig.SyncBatchSize, appConfig.SyncDelay)
	} else {
		log.Warnf("Signal sync disabled: %v", err)
	}

	quoteProvider := quotes.NewCoinGecko(appConfig.QuotesBaseURL, httpClient)
	positionService := services.NewPositionService(db, quoteProvider, appConfig.SyncDelay)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, appConfig.JWTSecret, appConfig.JWTExpirationDur)
	signalHandler := handlers.NewSignalHandler(signalService, notifier)
	configHandler := handlers.NewConfigHandler(appConfig)
	pipelineHandler := handlers.NewPipelineHandler(generatorService, syncService, signalService, positionService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	v1.GET("/public/config", configHandler.GetPublicConfig)

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// The approval dashboard posts decisions from the browser with the
	// pipeline key. Decisions propagate to the public collection, so the
	// endpoint is never open.
	v1.POST("/signals/decide", middleware.PipelineAuthMiddleware(appConfig.PipelineAPIKey), signalHandler.Decide)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(appConfig.JWTSecret))

	protected.GET("/profile", authHandler.GetProfile)
	protected.GET("/signals", signalHandler.ListSignals)
	protected.GET("/signals/:id", signalHandler.GetSignal)

	// Scheduler-facing pipeline triggers
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(appConfig.PipelineAPIKey))
	pipeline.POST("/generate", pipelineHandler.Generate)
	pipeline.POST("/sync", pipelineHandler.Sync)
	pipeline.POST("/cleanup", pipelineHandler.Cleanup)
	pipeline.POST("/positions/refresh", pipelineHandler.RefreshPositions)

	log.Infof("Starting Klarpakke backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
