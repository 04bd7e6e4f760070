package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/agropricing/waitlist-api/pkg/api"
	"github.com/agropricing/waitlist-api/pkg/clients/brevo"
	"github.com/agropricing/waitlist-api/pkg/config"
	"github.com/agropricing/waitlist-api/pkg/events"
	"github.com/agropricing/waitlist-api/pkg/logger"
	"github.com/agropricing/waitlist-api/pkg/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	// Initialize API clients
	brevoClient := brevo.NewClient(cfg.Brevo.APIKey, cfg.Brevo.BaseURL, cfg.Brevo.Timeout)

	// Initialize services
	waitlistService := services.NewWaitlistService(services.Dependencies{
		Brevo:  brevoClient,
		Config: cfg,
		Logger: appLogger,
		Events: events.NewLogSink(appLogger),
	})
	if !waitlistService.ProviderConfigured() {
		appLogger.Warnw("BREVO_API_KEY is not set, submissions will be rejected")
	}

	gin.SetMode(cfg.Server.GinMode)
	handlers := api.NewHandlers(waitlistService, appLogger)
	router := api.NewRouter(cfg, handlers, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Brevo.Timeout*2 + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		appLogger.Infow("Server starting",
			"port", cfg.Server.Port,
			"environment", cfg.Server.Environment,
			"list_id", cfg.Brevo.ListID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalw("Error starting server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorw("Forced shutdown", "error", err)
	}

	appLogger.Info("Server exited")
}
