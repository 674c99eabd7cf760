package service

import (
	"context"
	"fmt"

	"heroxi-backend/internal/config"
	"heroxi-backend/internal/domain"
	"heroxi-backend/internal/repository"
	"heroxi-backend/pkg/logger"
)

// Leaderboard page sizes
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// leaderboardService pages the sorted metric indexes and applies metric events
type leaderboardService struct {
	repo   repository.MetricRepository
	logger *logger.Logger
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(repo repository.MetricRepository, log *logger.Logger) LeaderboardService {
	return &leaderboardService{
		repo:   repo,
		logger: log.Component("leaderboard"),
	}
}

// Page returns one page of identities with metric > 0 in descending order.
// NextCursor is set only when the page is full.
func (s *leaderboardService) Page(ctx context.Context, metric string, limit int, cursor string) (*domain.LeaderboardPage, error) {
	if !config.IsMetricField(metric) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMetric, metric)
	}

	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}

	entries, err := s.repo.PageDescending(ctx, metric, limit, cursor)
	if err != nil {
		s.logger.WithError(err).WithField("metric", metric).Error("Failed to page leaderboard")
		return nil, fmt.Errorf("failed to page leaderboard: %w", err)
	}

	page := &domain.LeaderboardPage{
		Metric:  metric,
		Entries: entries,
	}
	if len(entries) == limit {
		page.NextCursor = entries[len(entries)-1].Identity
	}
	return page, nil
}

// IncrementMetric adds delta to identity's metric; delta must be positive
func (s *leaderboardService) IncrementMetric(ctx context.Context, identity, metric string, delta int64) (int64, error) {
	if identity == "" {
		return 0, domain.ErrUnauthorized
	}
	if !config.IsMetricField(metric) || metric == config.MetricTotalCompleted {
		// totalCompleted is owned by the streak tracker.
		return 0, fmt.Errorf("%w: %q is not an event metric", domain.ErrInvalidMetric, metric)
	}
	if delta <= 0 {
		return 0, fmt.Errorf("%w: metric delta must be positive", domain.ErrValidation)
	}

	value, err := s.repo.IncrementMetric(ctx, identity, metric, delta)
	if err != nil {
		s.logger.WithIdentity(identity).WithError(err).Error("Failed to increment metric")
		return 0, fmt.Errorf("failed to increment metric: %w", err)
	}
	return value, nil
}

// MetricOf reads identity's value for metric
func (s *leaderboardService) MetricOf(ctx context.Context, identity, metric string) (int64, error) {
	if identity == "" {
		return 0, domain.ErrUnauthorized
	}
	if !config.IsMetricField(metric) {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidMetric, metric)
	}

	value, err := s.repo.GetMetric(ctx, identity, metric)
	if err != nil {
		return 0, fmt.Errorf("failed to read metric: %w", err)
	}
	return value, nil
}
