package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"innsync-backend/internal/config"
	"innsync-backend/internal/jobs"
	"innsync-backend/internal/logger"
	"innsync-backend/internal/repository/postgres"
	"innsync-backend/internal/scheduler"
	"innsync-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'mark-no-shows', 'audit-reminders', 'all-nightly')")
	flag.Parse()

	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting InnSync Cronjob Runner...", "log_level", cfg.Log.Level)

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
	notifier := service.NewNotifier(
		store.Notifications,
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
		cfg.SMTP.OpsEmail,
	)
	businessDaySvc := service.NewBusinessDayService(cfg.Hotel.DefaultDayCutoff, cfg.Hotel.DefaultTimezone)
	nightAuditSvc := service.NewNightAuditService(store.Closures, notifier)
	availabilitySvc := service.NewAvailabilityService()
	roomStateSvc := service.NewRoomStateService(store.Rooms, store.Reservations)
	offerRule := service.NewOfferTimeRule(store.Offers)
	folioSvc := service.NewFolioService(
		store,
		store.Folios,
		offerRule,
		businessDaySvc,
		nightAuditSvc,
		cfg.Billing.TaxRatePercent,
	)
	reservationSvc := service.NewReservationService(
		store,
		store.Reservations,
		availabilitySvc,
		roomStateSvc,
		folioSvc,
		businessDaySvc,
		nightAuditSvc,
		notifier,
	)

	jobRunner := jobs.NewJobRunner(db, store, &jobs.Services{
		Reservation: reservationSvc,
		BusinessDay: businessDaySvc,
		NightAudit:  nightAuditSvc,
		Notifier:    notifier,
	}, cfg)

	// One-shot execution for manual runs and container init jobs
	if *runOnce != "" {
		switch *runOnce {
		case "mark-no-shows":
			jobRunner.MarkNoShows()
		case "audit-reminders":
			jobRunner.SendNightAuditReminders()
		case "all-nightly":
			jobRunner.RunAllNightlyJobs()
		default:
			log.Fatalf("Unknown job: %s", *runOnce)
		}
		logger.Info("Run-once job finished", "job", *runOnce)
		return
	}

	// Start the scheduler
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()

	// Block until interrupted
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Received shutdown signal", "signal", sig.String())

	sched.Stop()
}
