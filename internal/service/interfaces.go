package service

import (
	"context"
	"time"

	"heroxi-backend/internal/domain"
)

// RateLimiter defines the fixed-window admission contract
type RateLimiter interface {
	// Admit decides whether identity may make one more request at now.
	// A denial is a decision, not an error; errors are ErrUnauthorized or ErrStoreUnavailable.
	Admit(ctx context.Context, identity string, now time.Time) (*domain.RateLimitDecision, error)
}

// StreakService defines the daily-completion streak operations
type StreakService interface {
	// RecordCompletion credits at most one completion per calendar day
	RecordCompletion(ctx context.Context, identity string, referenceNow time.Time) (*domain.CompletionResult, error)

	// GetStreak returns the current streak record; nil when the identity never completed
	GetStreak(ctx context.Context, identity string) (*domain.CompletionRecord, error)
}

// RankService defines the rank-by-aggregate computation
type RankService interface {
	// RankOf returns 1 + the number of identities whose metric exceeds value
	RankOf(ctx context.Context, identity, metric string, value int64) (int64, error)
}

// LeaderboardService defines leaderboard paging and metric events
type LeaderboardService interface {
	// Page returns up to limit entries after cursor in descending metric order
	Page(ctx context.Context, metric string, limit int, cursor string) (*domain.LeaderboardPage, error)

	// IncrementMetric applies an aggregate metric event for identity
	IncrementMetric(ctx context.Context, identity, metric string, delta int64) (int64, error)

	// MetricOf returns identity's current value for metric; zero when absent
	MetricOf(ctx context.Context, identity, metric string) (int64, error)
}

// LineupService defines the generated-text lineup actions
type LineupService interface {
	RateLineup(ctx context.Context, identity string, req *domain.LineupRequest) (*domain.RatingResult, error)
	SimulateMatch(ctx context.Context, identity string, req *domain.MatchSimulationRequest) (*domain.MatchSimulationResult, error)
	PersonalityTest(ctx context.Context, identity string, req *domain.LineupRequest) (*domain.PersonalityResult, error)
	DailyChallenge(ctx context.Context, identity string, req *domain.LineupRequest, now time.Time) (*domain.DailyChallengeResult, error)
}

// TeamService defines saved-team operations
type TeamService interface {
	SaveTeam(ctx context.Context, req *domain.SaveTeamRequest) (*domain.Team, error)
	GetTeam(ctx context.Context, userID string) (*domain.Team, error)
}

// Services aggregates all service interfaces
type Services struct {
	RateLimiter RateLimiter
	Streak      StreakService
	Rank        RankService
	Leaderboard LeaderboardService
	Lineup      LineupService
	Team        TeamService
}
