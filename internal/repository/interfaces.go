package repository

import (
	"context"
	"time"

	"heroxi-backend/internal/domain"
)

// RateLimitRepository stores per-identity fixed-window counters ("rateLimits" namespace)
type RateLimitRepository interface {
	// Admit applies the fixed window atomically at now. A stale or absent
	// record opens a fresh window; a full window is left untouched. It returns
	// the record as it stands after the call and whether the request fits.
	Admit(ctx context.Context, identity string, now time.Time, window time.Duration, limit int64) (*domain.RateLimitRecord, bool, error)
}

// CompletionRepository stores per-identity streak records ("users" namespace)
type CompletionRepository interface {
	// GetCompletion retrieves the streak record for an identity; nil when absent
	GetCompletion(ctx context.Context, identity string) (*domain.CompletionRecord, error)

	// RecordCompletion credits today atomically: nothing when today is already
	// credited, streak+1 when the last credit was yesterday, otherwise 1. The
	// totalCompleted index is written with the record. The bool reports whether
	// a credit was written.
	RecordCompletion(ctx context.Context, identity, today, yesterday string) (*domain.CompletionRecord, bool, error)
}

// MetricRepository answers aggregate queries over per-identity metrics
type MetricRepository interface {
	// CountGreaterThan counts identities whose metric is strictly greater than value
	CountGreaterThan(ctx context.Context, metric string, value int64) (int64, error)

	// IncrementMetric atomically adds delta to an identity's metric and returns the new value
	IncrementMetric(ctx context.Context, identity, metric string, delta int64) (int64, error)

	// GetMetric returns an identity's metric value; zero when absent
	GetMetric(ctx context.Context, identity, metric string) (int64, error)

	// PageDescending returns up to limit entries with value > 0, in descending
	// order, starting after cursor; an unknown cursor starts from the top
	PageDescending(ctx context.Context, metric string, limit int, cursor string) ([]domain.LeaderboardEntry, error)
}

// TeamRepository stores saved-team documents
type TeamRepository interface {
	// Upsert creates or merges a team document keyed by user ID
	Upsert(ctx context.Context, team *domain.Team) error

	// GetByUserID retrieves a team; nil when absent
	GetByUserID(ctx context.Context, userID string) (*domain.Team, error)
}
