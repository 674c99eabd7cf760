package service

import (
	"context"
	"fmt"
	"time"

	"heroxi-backend/internal/config"
	"heroxi-backend/internal/domain"
	"heroxi-backend/internal/repository"
	"heroxi-backend/pkg/logger"
	"heroxi-backend/pkg/metrics"
)

// streakService tracks consecutive-day completions in one fixed timezone
type streakService struct {
	repo     repository.CompletionRepository
	rank     RankService
	location *time.Location
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewStreakService creates a new streak tracker for the named IANA timezone
func NewStreakService(repo repository.CompletionRepository, rank RankService, timezone string, m *metrics.Metrics, log *logger.Logger) (StreakService, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load streak timezone %q: %w", timezone, err)
	}

	return &streakService{
		repo:     repo,
		rank:     rank,
		location: loc,
		metrics:  m,
		logger:   log.Component("streak"),
	}, nil
}

// RecordCompletion credits identity for the calendar day containing referenceNow
func (s *streakService) RecordCompletion(ctx context.Context, identity string, referenceNow time.Time) (*domain.CompletionResult, error) {
	if identity == "" {
		return nil, domain.ErrUnauthorized
	}

	today, yesterday := s.calendarDays(referenceNow)
	log := s.logger.WithIdentity(identity).WithField("date", today)

	record, written, err := s.repo.RecordCompletion(ctx, identity, today, yesterday)
	if err != nil {
		log.WithError(err).Error("Failed to record completion")
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}

	s.metrics.StreakCredit(written)
	if !written {
		log.Debug("Completion already credited today")
		return &domain.CompletionResult{Credited: false, Date: today}, nil
	}

	result := &domain.CompletionResult{
		Credited:  true,
		NewStreak: record.TotalCompleted,
		Date:      today,
	}

	rank, err := s.rank.RankOf(ctx, identity, config.MetricTotalCompleted, record.TotalCompleted)
	if err != nil {
		// The credit is committed; rank is advisory.
		log.WithError(err).Warn("Failed to compute rank after credit")
	} else {
		result.NewRank = &rank
	}

	log.WithField("streak", record.TotalCompleted).Info("Completion credited")
	return result, nil
}

// GetStreak returns the stored streak record for identity
func (s *streakService) GetStreak(ctx context.Context, identity string) (*domain.CompletionRecord, error) {
	if identity == "" {
		return nil, domain.ErrUnauthorized
	}

	record, err := s.repo.GetCompletion(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	return record, nil
}

// calendarDays returns today and yesterday as YYYY-MM-DD in the tracker's timezone
func (s *streakService) calendarDays(now time.Time) (string, string) {
	local := now.In(s.location)
	y, m, d := local.Date()
	// Noon avoids landing in a DST gap when stepping back a day.
	prev := time.Date(y, m, d-1, 12, 0, 0, 0, s.location)
	return local.Format(domain.DateLayout), prev.Format(domain.DateLayout)
}
