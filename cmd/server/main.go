package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "driveshare-backend/internal/api/http"
	"driveshare-backend/internal/config"
	"driveshare-backend/internal/jobs"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/repository/postgres"
	"driveshare-backend/internal/scheduler"
	"driveshare-backend/internal/security"
	"driveshare-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	withScheduler := flag.Bool("with-scheduler", true, "Run the expiry sweep scheduler inside the server process")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Driveshare API Server...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Token Manager
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		7*24*time.Hour,
	)

	// Initialize Services
	emailService := service.NewEmailService(
		cfg.Email.APIKey,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
	)

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pushPublisher, err := service.NewFCMPublisher(initCtx, cfg.Push.CredentialsFile)
	cancel()
	if err != nil {
		logger.Error("Failed to initialize push publisher", "error", err)
		log.Fatalf("Failed to initialize push publisher: %v", err)
	}

	notificationCenter := service.NewNotificationCenter(
		store.NotificationRepository,
		store.UserRepository,
		pushPublisher,
	)

	authService := service.NewAuthService(store.UserRepository, tokenManager)

	rentalService := service.NewRentalService(
		store.RentalRepository,
		store.VehicleRepository,
		store.UserRepository,
		store.ExpiryRepository,
		emailService,
		notificationCenter,
		cfg.DepositTimeout(),
		cfg.OwnerDecisionTimeout(),
	)

	contractService := service.NewContractService(
		store.ContractRepository,
		store.RentalRepository,
		store.VehicleRepository,
		store.UserRepository,
		authService,
		emailService,
		notificationCenter,
	)

	// Initialize HTTP handlers and router
	handlers := &httpapi.Handlers{
		Auth:         httpapi.NewAuthHandler(authService),
		Rental:       httpapi.NewRentalHandler(rentalService),
		Contract:     httpapi.NewContractHandler(contractService),
		Notification: httpapi.NewNotificationHandler(notificationCenter),
	}
	router := httpapi.NewRouter(handlers, tokenManager)

	// Optionally run the expiry sweep in-process. Deployments that run the
	// dedicated cronjob binary start the server with -with-scheduler=false.
	var cronScheduler *scheduler.Scheduler
	if *withScheduler {
		jobRunner := jobs.NewJobRunner(db, store, &jobs.Services{Rental: rentalService}, cfg)
		cronScheduler = scheduler.NewScheduler(jobRunner)
		cronScheduler.Start()
	}

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down server...")
	if cronScheduler != nil {
		cronScheduler.Stop()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
