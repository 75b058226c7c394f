package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"phishshield/internal/api"
	"phishshield/internal/api/handlers"
	"phishshield/internal/config"
	"phishshield/internal/domain/services"
	"phishshield/internal/infrastructure/cache"
	"phishshield/internal/infrastructure/database"
	"phishshield/internal/infrastructure/database/repository"
	"phishshield/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.New(logger.Config{
			Level:      cfg.Logger.Level,
			Format:     cfg.Logger.Format,
			TimeFormat: cfg.Logger.TimeFormat,
		})
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting PhishShield")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional Redis cache (scan cache + rate limiting)
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	// Threat log: Postgres when configured, in-memory otherwise
	var threatLog services.ThreatLog
	if cfg.Database.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to PostgreSQL, using in-memory threat log")
			threatLog = services.NewMemoryThreatLog()
		} else {
			defer db.Close()
			repo := repository.NewThreatLogRepository(db.Pool())
			if err := repo.EnsureSchema(ctx); err != nil {
				log.Fatal().Err(err).Msg("failed to prepare threat log schema")
			}
			threatLog = repo
			log.Info().Msg("threat log backed by PostgreSQL")
		}
	} else {
		threatLog = services.NewMemoryThreatLog()
		log.Info().Msg("threat log held in memory")
	}

	// Scan service wires the four detection engines and the risk scorer
	scanService := services.NewScanService(threatLog, redisCache, log)

	// Initialize handlers
	deps := handlers.Dependencies{
		ScanService: scanService,
		ThreatLog:   threatLog,
		Cache:       redisCache,
		Logger:      log,
	}
	h := handlers.NewHandlers(deps)

	// Create router
	router := api.NewRouter(*cfg, h, redisCache, log)
	httpHandler := router.Setup()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}
