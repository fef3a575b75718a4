package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"driveshare-backend/internal/config"
	"driveshare-backend/internal/jobs"
	"driveshare-backend/internal/logger"
	"driveshare-backend/internal/repository/postgres"
	"driveshare-backend/internal/scheduler"
	"driveshare-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'sweep-expired-rentals', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Driveshare Cronjob Runner...", "log_level", cfg.Log.Level)

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

	// Initialize Services
	emailService := service.NewEmailService(
		cfg.Email.APIKey,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
	)

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	pushPublisher, err := service.NewFCMPublisher(initCtx, cfg.Push.CredentialsFile)
	if err != nil {
		logger.Error("Failed to initialize push publisher", "error", err)
		log.Fatalf("Failed to initialize push publisher: %v", err)
	}

	notificationCenter := service.NewNotificationCenter(
		store.NotificationRepository,
		store.UserRepository,
		pushPublisher,
	)

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

	jobServices := &jobs.Services{
		Rental: rentalService,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(db, store, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "sweep-expired-rentals":
		jobRunner.SweepExpiredRentals()
	case "all":
		jobRunner.RunAllJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - sweep-expired-rentals\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
