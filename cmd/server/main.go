package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creatorblue32/bonsai-medical/internal/api"
	"github.com/creatorblue32/bonsai-medical/internal/config"
	"github.com/creatorblue32/bonsai-medical/internal/content"
	"github.com/creatorblue32/bonsai-medical/internal/db"
	"github.com/creatorblue32/bonsai-medical/internal/logger"
	"github.com/creatorblue32/bonsai-medical/internal/repository/sqlite"
	"github.com/creatorblue32/bonsai-medical/internal/services"
	"github.com/creatorblue32/bonsai-medical/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Bonsai Medical Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("flush_worker_count=%d", cfg.FlushWorkers)
	log.Debug("flush_queue_size=%d", cfg.FlushQueueSize)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Load the embedded question bank
	log.Debug("loading question bank")
	bank, err := content.Load()
	if err != nil {
		log.Error("failed to load question bank: %v", err)
		os.Exit(1)
	}
	log.Info("question bank loaded: %d questions in %d decks", len(bank.Questions()), len(bank.Decks()))

	// Repositories
	profileRepo := sqlite.NewProfileRepository(database.DB)
	stateRepo := sqlite.NewCardStateRepository(database)
	logRepo := sqlite.NewReviewLogRepository(database.DB)

	// Review flush pool
	flushPool := worker.NewPool(cfg.FlushWorkers, cfg.FlushQueueSize)

	// Initialize services
	profileService := services.NewProfileService(profileRepo)
	studyService := services.NewStudyService(bank, stateRepo, logRepo, flushPool)

	srv := &api.Server{
		ProfileService: profileService,
		StudyService:   studyService,
		Bank:           bank,
	}

	ctx, cancel := context.WithCancel(context.Background())
	flushPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	// Shutdown HTTP server
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Drain the flush pool so no completed review is lost
	log.Debug("stopping flush pool")
	flushPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("Bonsai Medical Server Stopped")
	log.Info("===========================================")
}
