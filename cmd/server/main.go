package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/battlepets/engine/internal/auth"
	"github.com/battlepets/engine/internal/config"
	"github.com/battlepets/engine/internal/database"
	"github.com/battlepets/engine/internal/httpapi"
	"github.com/battlepets/engine/internal/jobs"
	"github.com/battlepets/engine/internal/services"
	"github.com/battlepets/engine/internal/websocket"
	"github.com/battlepets/engine/pkg/logger"
)

func main() {
	log := initializeLogger()

	cfg := loadConfiguration(log)
	logConfiguration(log, cfg)
	warnDevelopmentMode(log, cfg)

	db, repos := initializeDatabase(cfg, log)
	defer closeDatabase(db, log)

	jwtManager := initializeAuthManager(cfg, log)

	battles := services.NewBattleService()
	log.Info().Msg("Battle session registry initialized")

	jobQueue := initializeJobQueue(cfg, repos, log)
	if jobQueue != nil {
		defer stopJobQueue(jobQueue, log)
	}

	initializeWebSocket(jwtManager, log)

	handler := setupHTTPServer(cfg, battles, repos, log)

	runServer(cfg, handler, log)

	log.Info().Msg("Server shutdown complete")
}

// initializeLogger creates and configures the logger
func initializeLogger() *logger.LoggerV2 {
	logConfig := logger.ConfigV2{
		Level:        getEnvOrDefault("LOG_LEVEL", "info"),
		Pretty:       getEnvOrDefault("LOG_PRETTY", "false") == "true",
		CallerInfo:   true,
		StackTrace:   true,
		ServiceName:  "battlepets-engine",
		Environment:  getEnvOrDefault("ENVIRONMENT", getEnvOrDefault("ENV", "production")),
		TimeFormat:   time.RFC3339Nano,
		SamplingRate: 1.0,
		Fields: logger.Fields{
			"version": "1.0.0",
			"pid":     os.Getpid(),
		},
	}

	log, err := logger.NewV2(logConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.Info().
		Str("service", logConfig.ServiceName).
		Str("environment", logConfig.Environment).
		Msg("Starting battle pets engine")

	return log
}

// loadConfiguration loads and validates the configuration
func loadConfiguration(log *logger.LoggerV2) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	return cfg
}

// logConfiguration logs the configuration details
func logConfiguration(log *logger.LoggerV2, cfg *config.Config) {
	log.Info().
		Str("database_host", cfg.Database.Host).
		Str("server_port", cfg.Server.Port).
		Int("battle_max_rounds", cfg.Battle.MaxRounds).
		Msg("Configuration loaded successfully")
}

// warnDevelopmentMode warns if running in development mode
func warnDevelopmentMode(log *logger.LoggerV2, cfg *config.Config) {
	if cfg.Server.Environment == "development" {
		log.Warn().Msg("SERVER IS RUNNING IN DEVELOPMENT MODE - NOT SUITABLE FOR PRODUCTION")
	}
}

// initializeDatabase initializes the database connection
func initializeDatabase(cfg *config.Config, log *logger.LoggerV2) (*database.DB, *database.Repositories) {
	log.Info().Msg("Initializing database connection")
	db, repos, err := database.Initialize(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	log.Info().Msg("Database initialized successfully")
	return db, repos
}

// closeDatabase closes the database connection
func closeDatabase(db *database.DB, log *logger.LoggerV2) {
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close database connection")
	}
}

// initializeAuthManager creates the JWT manager
func initializeAuthManager(cfg *config.Config, log *logger.LoggerV2) *auth.JWTManager {
	jwtManager := auth.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenDuration,
		cfg.Auth.RefreshTokenDuration,
	)
	log.Info().Msg("JWT manager initialized")
	return jwtManager
}

// initializeJobQueue wires the asynq-backed background queue. A queue
// that fails to connect (Redis unavailable) is logged and skipped
// rather than treated as fatal, since ability smoke tests and cleanup
// sweeps aren't required for the HTTP API to serve battles.
func initializeJobQueue(cfg *config.Config, repos *database.Repositories, log *logger.LoggerV2) *jobs.JobQueue {
	queue, err := jobs.NewJobQueue(&cfg.Redis, log)
	if err != nil {
		log.Warn().Err(err).Msg("Job queue unavailable, background jobs disabled")
		return nil
	}

	handlers := jobs.NewJobHandlers(log, repos.Pets, repos.BattleSessions, repos.RefreshTokens)
	handlers.RegisterAll(queue)

	if err := queue.Start(); err != nil {
		log.Warn().Err(err).Msg("Failed to start job queue, background jobs disabled")
		return nil
	}

	log.Info().Msg("Job queue started")
	return queue
}

func stopJobQueue(queue *jobs.JobQueue, log *logger.LoggerV2) {
	if err := queue.Stop(); err != nil {
		log.Error().Err(err).Msg("Failed to stop job queue")
	}
}

// initializeWebSocket starts the WebSocket hub's broadcast loop and gives
// it the JWT manager used to authenticate spectator connections.
func initializeWebSocket(jwtManager *auth.JWTManager, log *logger.LoggerV2) {
	websocket.GetHub()
	websocket.SetJWTManager(jwtManager)
	log.Info().Msg("WebSocket hub started")
}

// setupHTTPServer configures the HTTP server with all middleware and routes
func setupHTTPServer(
	cfg *config.Config,
	battles *services.BattleService,
	repos *database.Repositories,
	log *logger.LoggerV2,
) http.Handler {
	r := httpapi.NewRouter(battles, cfg.Battle.MaxRounds, repos.Pets)
	r.GET("/ws", gin.WrapF(websocket.HandleWebSocket))
	log.Info().Msg("Routes configured")

	allowedOrigins := []string{"http://localhost:3000", "http://localhost:8080"}
	if cfg.Server.Environment == "production" {
		allowedOrigins = []string{"https://yourdomain.com"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	})

	return c.Handler(r)
}

// runServer starts the HTTP server and handles graceful shutdown
func runServer(
	cfg *config.Config,
	handler http.Handler,
	log *logger.LoggerV2,
) {
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("address", srv.Addr).
			Msg("HTTP server starting")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	log.Info().Str("port", cfg.Server.Port).Msg("Battle pets engine is running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
}

// getEnvOrDefault gets an environment variable with a fallback value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
