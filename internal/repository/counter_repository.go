package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"heroxi-backend/internal/config"
	"heroxi-backend/internal/domain"
	"heroxi-backend/pkg/redis"
)

// Hash field names read back from user documents
const (
	fieldTotalCompleted     = config.MetricTotalCompleted
	fieldLastCompletionDate = "lastCompletionDate"
)

// admitScript runs the fixed window in one round trip.
// KEYS[1] rate-limit hash; ARGV now ms, window ms, limit.
// Returns {admitted, requestCount, windowStart}.
var admitScript = redis.NewScript(`
local raw = redis.call('HMGET', KEYS[1], 'requestCount', 'windowStart')
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
if raw[1] or raw[2] then
  local count = tonumber(raw[1])
  local start = tonumber(raw[2])
  if count == nil or start == nil then
    return redis.error_reply('corrupt counter record')
  end
  if now - start < window then
    if count >= limit then
      return {0, count, start}
    end
    return {1, redis.call('HINCRBY', KEYS[1], 'requestCount', 1), start}
  end
end
redis.call('HSET', KEYS[1], 'requestCount', 1, 'windowStart', ARGV[1])
return {1, 1, now}
`)

// completionScript credits one calendar day.
// KEYS[1] user hash, KEYS[2] totalCompleted index; ARGV today, yesterday, identity.
// Returns {credited, totalCompleted}.
var completionScript = redis.NewScript(`
local raw = redis.call('HMGET', KEYS[1], 'totalCompleted', 'lastCompletionDate')
local last = raw[2]
local total = 0
if last then
  total = tonumber(raw[1] or '0')
  if total == nil then
    return redis.error_reply('corrupt counter record')
  end
  if last == ARGV[1] then
    return {0, total}
  end
end
local nextTotal = 1
if last == ARGV[2] then
  nextTotal = total + 1
end
redis.call('HSET', KEYS[1], 'totalCompleted', nextTotal, 'lastCompletionDate', ARGV[1])
redis.call('ZADD', KEYS[2], nextTotal, ARGV[3])
return {1, nextTotal}
`)

// CounterRepository implements the counter store on Redis hashes and sorted sets
type CounterRepository struct {
	redis *redis.Client
}

// NewCounterRepository creates a new counter repository
func NewCounterRepository(redisClient *redis.Client) *CounterRepository {
	return &CounterRepository{redis: redisClient}
}

// Admit applies the fixed window for identity in a single script
func (r *CounterRepository) Admit(ctx context.Context, identity string, now time.Time, window time.Duration, limit int64) (*domain.RateLimitRecord, bool, error) {
	vals, err := r.redis.RunScript(ctx, admitScript,
		[]string{r.redis.KeyBuilder.KeyRateLimit(identity)},
		now.UnixMilli(), window.Milliseconds(), limit)
	if err != nil {
		return nil, false, scriptError("admit", err)
	}
	if len(vals) != 3 {
		return nil, false, fmt.Errorf("admit: %w: unexpected reply length %d", domain.ErrCorruptRecord, len(vals))
	}

	return &domain.RateLimitRecord{
		RequestCount: vals[1],
		WindowStart:  time.UnixMilli(vals[2]),
	}, vals[0] == 1, nil
}

// GetCompletion retrieves the streak record for an identity
func (r *CounterRepository) GetCompletion(ctx context.Context, identity string) (*domain.CompletionRecord, error) {
	fields, err := r.redis.HGetAll(ctx, r.redis.KeyBuilder.KeyUser(identity))
	if err != nil {
		return nil, storeError("get completion", err)
	}
	record, err := parseCompletion(fields)
	if err != nil {
		return nil, fmt.Errorf("get completion: %w", err)
	}
	return record, nil
}

// RecordCompletion credits today for identity and mirrors the streak into its index
func (r *CounterRepository) RecordCompletion(ctx context.Context, identity, today, yesterday string) (*domain.CompletionRecord, bool, error) {
	vals, err := r.redis.RunScript(ctx, completionScript,
		[]string{
			r.redis.KeyBuilder.KeyUser(identity),
			r.redis.KeyBuilder.KeyLeaderboard(config.MetricTotalCompleted),
		},
		today, yesterday, identity)
	if err != nil {
		return nil, false, scriptError("record completion", err)
	}
	if len(vals) != 2 {
		return nil, false, fmt.Errorf("record completion: %w: unexpected reply length %d", domain.ErrCorruptRecord, len(vals))
	}

	return &domain.CompletionRecord{
		TotalCompleted:     vals[1],
		LastCompletionDate: today,
	}, vals[0] == 1, nil
}

// CountGreaterThan counts identities whose metric is strictly greater than value
func (r *CounterRepository) CountGreaterThan(ctx context.Context, metric string, value int64) (int64, error) {
	n, err := r.redis.ZCount(ctx, r.redis.KeyBuilder.KeyLeaderboard(metric),
		"("+strconv.FormatInt(value, 10), "+inf")
	if err != nil {
		return 0, storeError("count greater than", err)
	}
	return n, nil
}

// IncrementMetric atomically bumps an identity's metric field and its index entry
func (r *CounterRepository) IncrementMetric(ctx context.Context, identity, metric string, delta int64) (int64, error) {
	key := r.redis.KeyBuilder.KeyUser(identity)
	boardKey := r.redis.KeyBuilder.KeyLeaderboard(metric)

	var incr *redis.IntCmd
	err := r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.HIncrBy(ctx, key, metric, delta)
		pipe.ZIncrBy(ctx, boardKey, float64(delta), identity)
		return nil
	})
	if err != nil {
		return 0, storeError("increment metric", err)
	}
	return incr.Val(), nil
}

// GetMetric returns an identity's metric value, zero when absent
func (r *CounterRepository) GetMetric(ctx context.Context, identity, metric string) (int64, error) {
	fields, err := r.redis.HGetAll(ctx, r.redis.KeyBuilder.KeyUser(identity))
	if err != nil {
		return 0, storeError("get metric", err)
	}
	v, err := parseInt(fields, metric)
	if err != nil {
		return 0, fmt.Errorf("get metric: %w", err)
	}
	return v, nil
}

// PageDescending returns up to limit eligible entries after cursor
func (r *CounterRepository) PageDescending(ctx context.Context, metric string, limit int, cursor string) ([]domain.LeaderboardEntry, error) {
	boardKey := r.redis.KeyBuilder.KeyLeaderboard(metric)

	var offset int64
	if cursor != "" {
		rank, err := r.redis.ZRevRank(ctx, boardKey, cursor)
		switch {
		case errors.Is(err, redis.Nil):
			// Cursor identity is gone; serve from the top.
		case err != nil:
			return nil, storeError("resolve cursor", err)
		default:
			offset = rank + 1
		}
	}

	zs, err := r.redis.ZRevRangeByScoreWithScores(ctx, boardKey, &redis.ZRangeBy{
		Min:    "(0",
		Max:    "+inf",
		Offset: offset,
		Count:  int64(limit),
	})
	if err != nil {
		return nil, storeError("page leaderboard", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, domain.LeaderboardEntry{
			Identity:    member,
			MetricValue: int64(z.Score),
		})
	}
	return entries, nil
}

func parseCompletion(fields map[string]string) (*domain.CompletionRecord, error) {
	date, ok := fields[fieldLastCompletionDate]
	if !ok {
		// Users documents may hold only metric fields (e.g. wins).
		return nil, nil
	}
	total, err := parseInt(fields, fieldTotalCompleted)
	if err != nil {
		return nil, err
	}
	return &domain.CompletionRecord{
		TotalCompleted:     total,
		LastCompletionDate: date,
	}, nil
}

func parseInt(fields map[string]string, field string) (int64, error) {
	raw, ok := fields[field]
	if !ok || raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: field %s: %v", domain.ErrCorruptRecord, field, err)
	}
	return v, nil
}

// scriptError separates a corrupt record reported by a script from a store failure
func scriptError(op string, err error) error {
	if strings.Contains(err.Error(), domain.ErrCorruptRecord.Error()) {
		return fmt.Errorf("%s: %w", op, domain.ErrCorruptRecord)
	}
	return storeError(op, err)
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}
