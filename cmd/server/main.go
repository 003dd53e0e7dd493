package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	httpapi "innsync-backend/internal/api/http"
	"innsync-backend/internal/config"
	"innsync-backend/internal/logger"
	"innsync-backend/internal/repository/postgres"
	"innsync-backend/internal/security"
	"innsync-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Local .env is optional; environment variables win over the YAML file.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting InnSync Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
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

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)
	authMiddleware := httpapi.NewAuthMiddleware(tokenManager)

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
	conflictSvc := service.NewConflictService(store.Reservations, store.Rooms, notifier)
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

	// Initialize HTTP API
	router := httpapi.NewRouter(
		authMiddleware,
		httpapi.NewReservationHandler(reservationSvc),
		httpapi.NewFolioHandler(folioSvc),
		httpapi.NewHotelHandler(store.Registry, businessDaySvc, nightAuditSvc, availabilitySvc, conflictSvc),
		httpapi.NewRoomHandler(roomStateSvc),
	)

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server stopped", "error", err)
		log.Fatalf("HTTP server stopped: %v", err)
	}
}
