package service

import (
	"context"
	"fmt"
	"time"

	"heroxi-backend/internal/domain"
	"heroxi-backend/internal/repository"
	"heroxi-backend/pkg/logger"
	"heroxi-backend/pkg/metrics"
)

// rateLimiter implements a per-identity fixed window on the counter store
type rateLimiter struct {
	repo    repository.RateLimitRepository
	limit   int64
	window  time.Duration
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewRateLimiter creates a new fixed-window rate limiter
func NewRateLimiter(repo repository.RateLimitRepository, limit int, window time.Duration, m *metrics.Metrics, log *logger.Logger) RateLimiter {
	log.WithFields(map[string]interface{}{
		"limit":  limit,
		"window": window.String(),
	}).Info("Initialized rate limiter")

	return &rateLimiter{
		repo:    repo,
		limit:   int64(limit),
		window:  window,
		metrics: m,
		logger:  log.Component("rate_limiter"),
	}
}

// Admit applies the fixed-window policy for one request. The read and the
// write happen in one atomic store call, so concurrent requests from the same
// identity never overcount and never fail on contention.
func (s *rateLimiter) Admit(ctx context.Context, identity string, now time.Time) (*domain.RateLimitDecision, error) {
	if identity == "" {
		return nil, domain.ErrUnauthorized
	}

	log := s.logger.WithIdentity(identity)

	record, allowed, err := s.repo.Admit(ctx, identity, now, s.window, s.limit)
	if err != nil {
		s.metrics.RateLimitDecision("error")
		log.WithError(err).Error("Failed to admit request")
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	decision := s.decision(allowed, record.RequestCount, record.WindowStart, now)
	decision.Identity = identity
	if allowed {
		s.metrics.RateLimitDecision("allowed")
	} else {
		s.metrics.RateLimitDecision("denied")
		log.WithFields(map[string]interface{}{
			"request_count": decision.RequestCount,
			"retry_after":   decision.RetryAfter.String(),
		}).Warn("Rate limit exceeded")
	}
	return decision, nil
}

func (s *rateLimiter) decision(allowed bool, count int64, windowStart, now time.Time) *domain.RateLimitDecision {
	resetAt := windowStart.Add(s.window)
	remaining := s.limit - count
	if remaining < 0 {
		remaining = 0
	}

	d := &domain.RateLimitDecision{
		Allowed:      allowed,
		RequestCount: count,
		Limit:        s.limit,
		Remaining:    remaining,
		WindowStart:  windowStart,
		ResetAt:      resetAt,
	}
	if !allowed {
		d.RetryAfter = resetAt.Sub(now)
	}
	return d
}
