package service

import (
	"context"
	"fmt"

	"heroxi-backend/internal/config"
	"heroxi-backend/internal/domain"
	"heroxi-backend/internal/repository"
	"heroxi-backend/pkg/logger"
	"heroxi-backend/pkg/metrics"
)

// rankService computes ranks from the sorted metric index
type rankService struct {
	repo    repository.MetricRepository
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewRankService creates a new rank calculator
func NewRankService(repo repository.MetricRepository, m *metrics.Metrics, log *logger.Logger) RankService {
	return &rankService{
		repo:    repo,
		metrics: m,
		logger:  log.Component("rank"),
	}
}

// RankOf returns 1 + |{ids : metric(id) > value}|. Equal values share a rank.
func (s *rankService) RankOf(ctx context.Context, identity, metric string, value int64) (int64, error) {
	if !config.IsMetricField(metric) {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidMetric, metric)
	}

	ahead, err := s.repo.CountGreaterThan(ctx, metric, value)
	if err != nil {
		return 0, fmt.Errorf("failed to compute rank: %w", err)
	}

	s.metrics.RankComputed()
	s.logger.WithIdentity(identity).WithFields(map[string]interface{}{
		"metric": metric,
		"value":  value,
		"rank":   ahead + 1,
	}).Debug("Computed rank")

	return ahead + 1, nil
}
