package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "github.com/Hacnine/CarHiveBackend/internal/api/http"
	"github.com/Hacnine/CarHiveBackend/internal/config"
	"github.com/Hacnine/CarHiveBackend/internal/logger"
	"github.com/Hacnine/CarHiveBackend/internal/repository/postgres"
	"github.com/Hacnine/CarHiveBackend/internal/security"
	"github.com/Hacnine/CarHiveBackend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting CarHive API server...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	tokens := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName)
	gateway := service.NewSimulatedGateway()
	audit := service.NewAuditRecorder(store.AuditRepository)

	authSvc := service.NewAuthService(store.UserRepository, tokens)
	availabilitySvc := service.NewAvailabilityService(store.VehicleRepository, store.BookingRepository)
	vehicleSvc := service.NewVehicleService(store.VehicleRepository, store.LocationRepository)
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.VehicleRepository,
		store.LocationRepository,
		store.PriceRuleRepository,
		store.UserRepository,
		store.PaymentRepository,
		gateway,
		emailSvc,
		audit,
		cfg.Booking,
	)

	// Initialize HTTP handlers
	authHandler := httpapi.NewAuthHandler(authSvc)
	vehicleHandler := httpapi.NewVehicleHandler(vehicleSvc, availabilitySvc)
	bookingHandler := httpapi.NewBookingHandler(bookingSvc, audit)

	router := httpapi.NewRouter(tokens, authHandler, vehicleHandler, bookingHandler)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
