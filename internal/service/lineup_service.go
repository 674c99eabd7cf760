package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"heroxi-backend/internal/config"
	"heroxi-backend/internal/domain"
	"heroxi-backend/internal/service/generator"
	"heroxi-backend/pkg/logger"
	"heroxi-backend/pkg/metrics"
)

// OutcomeWin is the match outcome that credits the wins metric
const OutcomeWin = "win"

const dailyChallengeMessage = "Congratulations! You've completed today's challenge with your selected XI. Your team shows great potential for teamwork and strategy. Keep up the good work!"

var ratingPattern = regexp.MustCompile(`^\s*(?:Rating:\s*)?(-?\d+(?:\.\d+)?)(?:\s*/\s*10\b)?`)

// lineupService runs the generated-text actions and reports their results
type lineupService struct {
	generator   generator.Generator
	streak      StreakService
	leaderboard LeaderboardService
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

// NewLineupService creates a new lineup service
func NewLineupService(gen generator.Generator, streak StreakService, leaderboard LeaderboardService, m *metrics.Metrics, log *logger.Logger) LineupService {
	return &lineupService{
		generator:   gen,
		streak:      streak,
		leaderboard: leaderboard,
		metrics:     m,
		logger:      log.Component("lineup"),
	}
}

// RateLineup rates an XI and splits the response into rating and analysis
func (s *lineupService) RateLineup(ctx context.Context, identity string, req *domain.LineupRequest) (*domain.RatingResult, error) {
	if strings.TrimSpace(req.LineupText) == "" {
		return nil, fmt.Errorf("%w: lineup text is required", domain.ErrValidation)
	}

	text, err := s.generate(ctx, identity, generator.RatingPrompt(req.LineupText))
	if err != nil {
		return nil, err
	}

	return ExtractRating(text), nil
}

// SimulateMatch simulates a match and credits a win when the caller reports one
func (s *lineupService) SimulateMatch(ctx context.Context, identity string, req *domain.MatchSimulationRequest) (*domain.MatchSimulationResult, error) {
	if strings.TrimSpace(req.EnglandLineup) == "" || strings.TrimSpace(req.OpponentName) == "" {
		return nil, fmt.Errorf("%w: England lineup and opponent name are required", domain.ErrValidation)
	}

	text, err := s.generate(ctx, identity, generator.MatchPrompt(req.EnglandLineup, req.OpponentName))
	if err != nil {
		return nil, err
	}

	result := &domain.MatchSimulationResult{Result: text}
	if req.Outcome == OutcomeWin {
		wins, err := s.leaderboard.IncrementMetric(ctx, identity, config.MetricWins, 1)
		if err != nil {
			return nil, err
		}
		result.Wins = &wins
	}
	return result, nil
}

// PersonalityTest describes the manager who would pick the XI
func (s *lineupService) PersonalityTest(ctx context.Context, identity string, req *domain.LineupRequest) (*domain.PersonalityResult, error) {
	if strings.TrimSpace(req.LineupText) == "" {
		return nil, fmt.Errorf("%w: lineup text is required", domain.ErrValidation)
	}

	text, err := s.generate(ctx, identity, generator.PersonalityPrompt(req.LineupText))
	if err != nil {
		return nil, err
	}
	return &domain.PersonalityResult{Analysis: text}, nil
}

// DailyChallenge completes today's challenge and reports it to the streak tracker
func (s *lineupService) DailyChallenge(ctx context.Context, identity string, req *domain.LineupRequest, now time.Time) (*domain.DailyChallengeResult, error) {
	if strings.TrimSpace(req.LineupText) == "" {
		return nil, fmt.Errorf("%w: lineup text is required", domain.ErrValidation)
	}

	completion, err := s.streak.RecordCompletion(ctx, identity, now)
	if err != nil {
		return nil, err
	}

	return &domain.DailyChallengeResult{
		ChallengeResult: dailyChallengeMessage,
		Credited:        completion.Credited,
		Streak:          completion.NewStreak,
		Rank:            completion.NewRank,
		Date:            completion.Date,
	}, nil
}

func (s *lineupService) generate(ctx context.Context, identity string, prompt generator.Prompt) (string, error) {
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.metrics.GeneratorRequest(string(prompt.Kind), "error")
		s.logger.WithIdentity(identity).WithError(err).WithField("prompt", string(prompt.Kind)).Error("Generation failed")
		if errors.Is(err, domain.ErrProviderFailure) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	s.metrics.GeneratorRequest(string(prompt.Kind), "ok")
	return text, nil
}

// ExtractRating reads a leading signed decimal, optionally labelled "Rating:"
// and optionally followed by "/10".
// Rating is nil when absent and Analysis holds the remaining text.
func ExtractRating(text string) *domain.RatingResult {
	match := ratingPattern.FindStringSubmatchIndex(text)
	if match == nil {
		return &domain.RatingResult{Analysis: strings.TrimSpace(text)}
	}

	rating, err := strconv.ParseFloat(text[match[2]:match[3]], 64)
	if err != nil {
		return &domain.RatingResult{Analysis: strings.TrimSpace(text)}
	}

	analysis := strings.TrimSpace(strings.TrimLeft(text[match[1]:], " .:-–"))
	return &domain.RatingResult{Rating: &rating, Analysis: analysis}
}
