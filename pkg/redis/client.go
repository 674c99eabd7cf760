package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"heroxi-backend/pkg/logger"
)

// Nil is returned by reads of absent keys or members
const Nil = redis.Nil

// Script and Pipeliner are re-exported so callers do not import go-redis directly
type (
	Script    = redis.Script
	Pipeliner = redis.Pipeliner
	Z         = redis.Z
	ZRangeBy  = redis.ZRangeBy
	IntCmd    = redis.IntCmd
)

type Client struct {
	rdb        *redis.Client
	KeyBuilder *KeyBuilder
	log        *zap.Logger
}

// Namespaces for the counter store
const (
	KeyRateLimit   = "rateLimits:%s"  // rateLimits:{identity}
	KeyUser        = "users:%s"       // users:{identity}
	KeyLeaderboard = "leaderboard:%s" // leaderboard:{metric}
)

// NewClient creates a new Redis client
func NewClient(redisURL string, environment string, log *zap.Logger) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = 50
	opts.MinIdleConns = 5
	// Writes are not idempotent (increments); never retry them at the driver level.
	opts.MaxRetries = -1
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if log == nil {
		log = zap.NewNop()
	}

	return &Client{rdb: rdb, KeyBuilder: NewKeyBuilder(environment), log: log}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// HGetAll gets all fields from a hash
func (c *Client) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	start := time.Now()
	m, err := c.rdb.HGetAll(ctx, key).Result()
	c.logOp("redis_hgetall", key, time.Since(start), err, zap.Int("fields", len(m)))
	return m, err
}

// NewScript wraps a Lua script; Run loads it by SHA and falls back to EVAL
func NewScript(src string) *Script {
	return redis.NewScript(src)
}

// RunScript executes script atomically and returns its integer array reply
func (c *Client) RunScript(ctx context.Context, script *Script, keys []string, args ...interface{}) ([]int64, error) {
	start := time.Now()
	vals, err := script.Run(ctx, c.rdb, keys, args...).Int64Slice()
	key := ""
	if len(keys) > 0 {
		key = keys[0]
	}
	c.logOp("redis_script", key, time.Since(start), err, zap.Int("keys", len(keys)))
	return vals, err
}

// TxPipelined runs fn inside MULTI/EXEC without watching any key
func (c *Client) TxPipelined(ctx context.Context, fn func(pipe Pipeliner) error) error {
	start := time.Now()
	cmds, err := c.rdb.TxPipelined(ctx, fn)
	c.logOp("redis_tx_pipelined", "", time.Since(start), err, zap.Int("commands", len(cmds)))
	return err
}

// ZCount counts sorted-set members with scores in [min, max]; use "(" for exclusive bounds
func (c *Client) ZCount(ctx context.Context, key, min, max string) (int64, error) {
	start := time.Now()
	n, err := c.rdb.ZCount(ctx, key, min, max).Result()
	c.logOp("redis_zcount", key, time.Since(start), err, zap.Int64("result", n))
	return n, err
}

// ZRevRank returns the 0-based descending rank of member, or Nil if absent
func (c *Client) ZRevRank(ctx context.Context, key, member string) (int64, error) {
	start := time.Now()
	rank, err := c.rdb.ZRevRank(ctx, key, member).Result()
	if err == redis.Nil {
		c.logOp("redis_zrevrank", key, time.Since(start), nil, zap.Bool("found", false))
		return 0, err
	}
	c.logOp("redis_zrevrank", key, time.Since(start), err, zap.Int64("rank", rank))
	return rank, err
}

// ZRevRangeByScoreWithScores returns members in descending score order within the range
func (c *Client) ZRevRangeByScoreWithScores(ctx context.Context, key string, opt *ZRangeBy) ([]Z, error) {
	start := time.Now()
	zs, err := c.rdb.ZRevRangeByScoreWithScores(ctx, key, opt).Result()
	c.logOp("redis_zrevrangebyscore", key, time.Since(start), err, zap.Int("members", len(zs)))
	return zs, err
}

// Health checks the Redis connection
func (c *Client) Health(ctx context.Context) error {
	start := time.Now()
	err := c.rdb.Ping(ctx).Err()
	dur := time.Since(start)
	if err != nil {
		c.log.Info("redis_ping",
			zap.Duration("duration", dur),
			zap.Error(err))
	} else {
		c.log.Debug("redis_ping", zap.Duration("duration", dur))
	}
	return err
}

// logOp logs errors at info and successes at debug, never logging the full key
func (c *Client) logOp(op, key string, dur time.Duration, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("key", redactKey(key)),
		zap.Duration("duration", dur))
	if err != nil && err != redis.Nil {
		c.log.Info(op, append(fields, zap.Error(err))...)
		return
	}
	c.log.Debug(op, fields...)
}

// redactKey replaces the identity segment of "{env}:{namespace}:{identity}"
// with its short hash. Leaderboard keys carry a metric name and are kept.
func redactKey(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 3 || parts[1] == "leaderboard" {
		return key
	}
	return parts[0] + ":" + parts[1] + ":" + logger.HashIdentity(parts[2])
}
