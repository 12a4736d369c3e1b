package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/finpath/finpath/internal/cache"
	"github.com/finpath/finpath/internal/config"
	"github.com/finpath/finpath/internal/email"
	"github.com/finpath/finpath/internal/handler"
	"github.com/finpath/finpath/internal/integrations/rates"
	"github.com/finpath/finpath/internal/middleware"
	"github.com/finpath/finpath/internal/repository"
	"github.com/finpath/finpath/internal/service"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Redis is optional; without it every assessment is recomputed.
	store, err := cache.New(cfg.RedisAddr)
	if err != nil {
		logger.Warnf("Running without cache: %v", err)
		store = nil
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	ratesClient := rates.NewClient(cfg, logger)
	mailer := email.NewSender(cfg, logger)
	svc := service.NewService(repo, logger, cfg, store, ratesClient, mailer)
	h := handler.NewHandler(svc)

	// Refresh the benchmark key rate once a day so request paths serve
	// it from cache.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@daily", func() {
		if _, err := svc.RefreshBenchmarkRate(context.Background()); err != nil {
			logger.Warnf("Scheduled key rate refresh failed: %v", err)
		}
	}); err != nil {
		logger.Fatalf("Failed to schedule key rate refresh: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/benchmark-rate", h.BenchmarkRate).Methods("GET")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/profiles", h.CreateProfile).Methods("POST")
	authRouter.HandleFunc("/profiles", h.ListProfiles).Methods("GET")
	authRouter.HandleFunc("/profiles/{id}", h.GetProfile).Methods("GET")
	authRouter.HandleFunc("/assess", h.Assess).Methods("POST")
	authRouter.HandleFunc("/simulate", h.Simulate).Methods("POST")
	authRouter.HandleFunc("/achievements", h.Achievements).Methods("POST")
	authRouter.HandleFunc("/reports/email", h.EmailReport).Methods("POST")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
