package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"heroxi-backend/internal/config"
	"heroxi-backend/internal/container"
	"heroxi-backend/internal/handler"
	"heroxi-backend/internal/middleware"
	"heroxi-backend/pkg/errors"
	"heroxi-backend/pkg/logger"
)

// Resources holds all resources that need cleanup
type Resources struct {
	container *container.Container
	server    *http.Server
	log       *logger.Logger
	mu        sync.Mutex
	closed    bool
}

// Cleanup gracefully closes all resources
func (r *Resources) Cleanup(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error

	r.log.Info("Starting graceful shutdown...")

	// Shutdown HTTP server first to stop accepting new requests
	if r.server != nil {
		r.log.Info("Shutting down HTTP server...")
		if err := r.server.Shutdown(ctx); err != nil {
			r.log.WithError(err).Error("Failed to shutdown HTTP server")
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		} else {
			r.log.Info("HTTP server shutdown complete")
		}
	}

	if r.container != nil {
		healthCtx, healthCancel := context.WithTimeout(ctx, 2*time.Second)
		if err := r.container.RedisClient.Health(healthCtx); err != nil {
			r.log.WithError(err).Warn("Redis health check failed before closing")
		}
		if r.container.HasDatabase() {
			if err := r.container.DB.Health(healthCtx); err != nil {
				r.log.WithError(err).Warn("Database health check failed before closing")
			}
		}
		healthCancel()

		r.container.Close()
		r.log.Info("Store connections closed")
	}

	if len(errs) > 0 {
		r.log.WithField("error_count", len(errs)).Error("Cleanup completed with errors")
		return fmt.Errorf("cleanup completed with %d errors: %v", len(errs), errs)
	}

	r.log.Info("Graceful shutdown completed successfully")
	return nil
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"port":              cfg.Port,
		"log_level":         cfg.LogLevel,
		"environment":       cfg.Environment,
		"rate_limit":        cfg.RateLimitRequests,
		"rate_limit_window": cfg.RateLimitWindow.String(),
		"streak_timezone":   cfg.StreakTimezone,
		"mock_generator":    cfg.UseMockGenerator,
	}).Info("Starting heroxi-backend server")

	// Create dependency injection container
	c, err := container.New(context.Background(), cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to create container")
	}

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        setupRouter(c),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	resources := &Resources{
		container: c,
		server:    server,
		log:       log,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := resources.Cleanup(cleanupCtx); err != nil {
			log.WithError(err).Error("Cleanup completed with errors")
		}
	}()

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info("Server starting on port " + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Server error occurred")
			serverErrChan <- err
		}
	}()

	select {
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErrChan:
		log.WithError(err).Error("Server failed, initiating shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := resources.Cleanup(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown completed with errors")
		os.Exit(1)
	}

	log.Info("Application shutdown complete")
}

// setupRouter configures and returns the HTTP router
func setupRouter(c *container.Container) *chi.Mux {
	cfg := c.GetConfig()
	log := c.GetLogger()
	services := c.Services

	r := chi.NewRouter()

	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.AllowedOrigins)))
	r.Use(middleware.RequestID())
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics(c.Metrics))
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	checks := map[string]handler.HealthChecker{"redis": c.GetRedisClient()}
	if c.HasDatabase() {
		checks["postgres"] = c.DB
	}
	healthHandler := handler.NewHealthHandler(checks, log)
	lineupHandler := handler.NewLineupHandler(services.Lineup, log)
	leaderboardHandler := handler.NewLeaderboardHandler(services.Leaderboard, services.Streak, log)

	r.Get("/health", healthHandler.Check)
	r.Handle("/metrics", c.Metrics.Handler())

	if c.HasTokens() {
		authHandler := handler.NewAuthHandler(c.Tokens, log)
		r.Post("/auth/anonymous", authHandler.Anonymous)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/leaderboard/{metric}", leaderboardHandler.GetLeaderboard)

		// Every gated action consumes one unit of the caller's window
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(services.RateLimiter, log))

			lineupHandler.RegisterRoutes(r)
			r.Get("/streak", leaderboardHandler.GetStreak)

			if services.Team != nil {
				handler.NewTeamHandler(services.Team, log).RegisterRoutes(r)
			}
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		errors.WriteJSON(w, errors.NewNotFoundError("Endpoint not found"), middleware.GetRequestID(req.Context()))
	})

	log.Info("Router configured successfully")
	return r
}
