package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitplanner-backend/config"
	"fitplanner-backend/handlers"
	"fitplanner-backend/logger"
	"fitplanner-backend/repository"
	"fitplanner-backend/service"
	"fitplanner-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	if err := logger.Configure(logger.Options{Level: cfg.Logging.Level, File: cfg.Logging.File}); err != nil {
		logger.Warn("logger configured with errors", "error", err)
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Warn("JWT_SECRET is not set, authenticated routes will fail")
	}

	ctx := context.Background()

	// Initialize user store
	users, closeUsers, err := repository.NewUserRepository(ctx, repository.UserStoreConfig{
		Type:        repository.UserStoreType(cfg.Users.Type),
		FilePath:    cfg.Users.FilePath,
		SQLitePath:  cfg.Users.SQLitePath,
		DatabaseURL: cfg.Users.DatabaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize user store", "type", cfg.Users.Type, "error", err)
		os.Exit(1)
	}
	defer closeUsers()
	logger.Info("user store initialized", "type", cfg.Users.Type)

	// Initialize state storage
	backend, err := storage.NewStorage(storage.StorageConfig{
		Type:          storage.StorageType(cfg.State.Type),
		LocalPath:     cfg.State.LocalPath,
		S3Bucket:      cfg.State.S3Bucket,
		S3Region:      cfg.State.S3Region,
		AWSAccessKey:  cfg.State.AWSAccessKey,
		AWSSecretKey:  cfg.State.AWSSecretKey,
		RedisAddr:     cfg.State.RedisAddr,
		RedisPassword: cfg.State.RedisPassword,
		RedisDB:       cfg.State.RedisDB,
	})
	if err != nil {
		logger.Error("failed to initialize storage", "type", cfg.State.Type, "error", err)
		os.Exit(1)
	}
	if closer, ok := backend.(io.Closer); ok {
		defer closer.Close()
	}
	logger.Info("storage initialized", "type", cfg.State.Type)

	// Initialize generation clients. The server-wide client serves users who
	// have not supplied their own key.
	retryPolicy := service.RetryPolicy{
		Timeout:        cfg.Generation.Timeout,
		MaxAttempts:    cfg.Generation.MaxAttempts,
		InitialBackoff: cfg.Generation.InitialBackoff,
		MaxBackoff:     cfg.Generation.MaxBackoff,
	}
	newGenerationClient := func() *service.GenerationClient {
		return service.NewGenerationClient(
			service.GenerationWithFactory(service.GeminiFactory(cfg.Gemini.Model)),
			service.GenerationWithRetryPolicy(retryPolicy),
		)
	}
	generationClient := newGenerationClient()
	defer generationClient.Reset()
	if cfg.Gemini.APIKey != "" {
		if err := generationClient.Initialize(ctx, cfg.Gemini.APIKey); err != nil {
			logger.Warn("failed to initialize Gemini from GEMINI_API_KEY", "error", err)
		} else {
			logger.Info("Gemini client initialized", "model", cfg.Gemini.Model)
		}
	} else {
		logger.Info("GEMINI_API_KEY not set, users supply their own key from the settings endpoint")
	}

	// Initialize services
	credentialService := service.NewCredentialService(service.CredentialWithUserRepository(users))
	tokenService := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	planOrchestrator := service.NewPlanOrchestrator(
		service.OrchestratorWithStore(storage.NewKVStore(backend, cfg.State.MaxValueBytes)),
		service.OrchestratorWithGenerationClient(generationClient),
		service.OrchestratorWithClientFactory(newGenerationClient),
		service.OrchestratorWithNoticeDuration(cfg.Server.NoticeDuration),
		service.OrchestratorWithSessionTTL(cfg.Server.SessionTTL),
	)
	checkoutService := service.NewCheckoutService(
		service.CheckoutWithSecretKey(cfg.Billing.SecretKey),
		service.CheckoutWithPriceID(cfg.Billing.PriceID),
		service.CheckoutWithWebhookSecret(cfg.Billing.WebhookSecret),
		service.CheckoutWithClientBaseURL(cfg.Billing.ClientBaseURL),
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(credentialService, tokenService)
	settingsHandler := handlers.NewSettingsHandler(planOrchestrator)
	planHandler := handlers.NewPlanHandler(planOrchestrator)
	paymentHandler := handlers.NewPaymentHandler(checkoutService)

	// Setup Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth endpoints
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// Catalog
		api.GET("/options", handlers.GetOptions)

		// Billing endpoints
		api.POST("/create-checkout-session", paymentHandler.CreateCheckoutSession)
		api.POST("/webhook", paymentHandler.Webhook)

		protected := api.Group("")
		protected.Use(handlers.AuthMiddleware(tokenService))
		{
			protected.GET("/me", authHandler.Me)

			// Settings endpoints
			protected.GET("/settings/api-key", settingsHandler.GetAPIKeyStatus)
			protected.PUT("/settings/api-key", settingsHandler.SetAPIKey)
			protected.DELETE("/settings/api-key", settingsHandler.ClearAPIKey)

			// Plan endpoints
			protected.GET("/plan/state", planHandler.GetState)
			protected.PUT("/plan/profile", planHandler.UpdateProfile)
			protected.PUT("/plan/workout-filters", planHandler.UpdateWorkoutFilters)
			protected.PUT("/plan/diet-filters", planHandler.UpdateDietFilters)
			protected.POST("/plan/generate", planHandler.GeneratePlan)
			protected.POST("/plan/grocery-list", planHandler.GenerateGroceryList)
			protected.POST("/plan/articles", planHandler.GenerateArticle)
			protected.POST("/plan/workout/days/:day/exercises/:index/swap", planHandler.SwapExercise)
			protected.POST("/plan/nutrition/days/:day/meals/:index/swap", planHandler.SwapMeal)
			protected.GET("/plan/export/workout", planHandler.ExportWorkout)
			protected.GET("/plan/export/nutrition", planHandler.ExportNutrition)
			protected.DELETE("/plan/notice", planHandler.DismissNotice)
			protected.DELETE("/plan", planHandler.Reset)
		}
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Stripe-Signature"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsHandler.Handler(r),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shut down", "error", err)
	}
	logger.Info("server stopped")
}
