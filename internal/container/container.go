package container

import (
	"context"
	"fmt"

	"heroxi-backend/internal/config"
	"heroxi-backend/internal/repository"
	"heroxi-backend/internal/service"
	"heroxi-backend/internal/service/auth"
	"heroxi-backend/internal/service/generator"
	"heroxi-backend/pkg/database"
	"heroxi-backend/pkg/logger"
	"heroxi-backend/pkg/metrics"
	"heroxi-backend/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	Metrics     *metrics.Metrics
	RedisClient *redis.Client
	DB          *database.PostgresDB
	Tokens      *auth.TokenService
	Services    *service.Services
}

// New creates a new dependency injection container. The counter store is
// required; saved teams and anonymous auth are skipped when unconfigured.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required for the counter store")
	}

	redisClient, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger.Named("redis"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.WithField("key_prefix", redisClient.KeyBuilder.GetPrefix()).Info("Redis client initialized successfully")

	c := &Container{
		Config:      cfg,
		Logger:      log,
		Metrics:     metrics.New(),
		RedisClient: redisClient,
	}

	gen, err := newGenerator(ctx, cfg, log)
	if err != nil {
		_ = redisClient.Close()
		return nil, err
	}

	counters := repository.NewCounterRepository(redisClient)
	rank := service.NewRankService(counters, c.Metrics, log)
	streak, err := service.NewStreakService(counters, rank, cfg.StreakTimezone, c.Metrics, log)
	if err != nil {
		_ = redisClient.Close()
		return nil, err
	}
	leaderboard := service.NewLeaderboardService(counters, log)

	c.Services = &service.Services{
		RateLimiter: service.NewRateLimiter(counters, cfg.RateLimitRequests, cfg.RateLimitWindow, c.Metrics, log),
		Streak:      streak,
		Rank:        rank,
		Leaderboard: leaderboard,
		Lineup:      service.NewLineupService(gen, streak, leaderboard, c.Metrics, log),
	}

	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL, database.PoolOptions{
			MaxConns:        int32(cfg.DBMaxConns),
			MinConns:        int32(cfg.DBMinConns),
			MaxConnLifetime: cfg.DBMaxConnLifetime,
			MaxConnIdleTime: cfg.DBMaxConnIdleTime,
			ConnectTimeout:  cfg.DBConnectTimeout,
		})
		if err != nil {
			_ = redisClient.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db
		c.Services.Team = service.NewTeamService(repository.NewTeamRepository(db), log)
		log.Info("Database connection initialized successfully")
	} else {
		log.Warn("DATABASE_URL not configured, saved-team routes disabled")
	}

	if cfg.AuthTokenSecret != "" {
		tokens, err := auth.NewTokenService(cfg.AuthTokenSecret, cfg.AuthTokenTTL, log)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Tokens = tokens
	} else {
		log.Warn("AUTH_TOKEN_SECRET not configured, anonymous auth disabled")
	}

	return c, nil
}

func newGenerator(ctx context.Context, cfg *config.Config, log *logger.Logger) (generator.Generator, error) {
	if cfg.UseMockGenerator {
		log.Info("Using mock text generator")
		return generator.NewMock(), nil
	}
	gen, err := generator.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini generator: %w", err)
	}
	log.WithField("model", cfg.GeminiModel).Info("Using Gemini text generator")
	return gen, nil
}

// Close releases the store connections
func (c *Container) Close() {
	if c.DB != nil {
		c.DB.Close()
	}
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetRedisClient returns the Redis client
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}

// HasDatabase returns true if the saved-team store is available
func (c *Container) HasDatabase() bool {
	return c.DB != nil
}

// HasTokens returns true if anonymous auth is available
func (c *Container) HasTokens() bool {
	return c.Tokens != nil
}
