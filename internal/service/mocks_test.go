package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"heroxi-backend/internal/domain"
	"heroxi-backend/internal/repository"
	"heroxi-backend/internal/service/generator"
	"heroxi-backend/pkg/logger"
	"heroxi-backend/pkg/metrics"
	"heroxi-backend/pkg/redis"
)

// accountingFixture wires the accounting services to a miniredis-backed store
type accountingFixture struct {
	mr          *miniredis.Miniredis
	repo        *repository.CounterRepository
	metrics     *metrics.Metrics
	limiter     RateLimiter
	rank        RankService
	streak      StreakService
	leaderboard LeaderboardService
}

func newAccountingFixture(t *testing.T) *accountingFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.NewClient("redis://"+mr.Addr(), "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	log := logger.NewNop()
	m := metrics.New()
	repo := repository.NewCounterRepository(client)
	rank := NewRankService(repo, m, log)
	streak, err := NewStreakService(repo, rank, "Europe/London", m, log)
	require.NoError(t, err)

	return &accountingFixture{
		mr:          mr,
		repo:        repo,
		metrics:     m,
		limiter:     NewRateLimiter(repo, 5, time.Hour, m, log),
		rank:        rank,
		streak:      streak,
		leaderboard: NewLeaderboardService(repo, log),
	}
}

// MockRateLimitRepository is a testify mock for repository.RateLimitRepository
type MockRateLimitRepository struct {
	mock.Mock
}

func (m *MockRateLimitRepository) Admit(ctx context.Context, identity string, now time.Time, window time.Duration, limit int64) (*domain.RateLimitRecord, bool, error) {
	args := m.Called(ctx, identity, now, window, limit)
	record, _ := args.Get(0).(*domain.RateLimitRecord)
	return record, args.Bool(1), args.Error(2)
}

// MockCompletionRepository is a testify mock for repository.CompletionRepository
type MockCompletionRepository struct {
	mock.Mock
}

func (m *MockCompletionRepository) GetCompletion(ctx context.Context, identity string) (*domain.CompletionRecord, error) {
	args := m.Called(ctx, identity)
	record, _ := args.Get(0).(*domain.CompletionRecord)
	return record, args.Error(1)
}

func (m *MockCompletionRepository) RecordCompletion(ctx context.Context, identity, today, yesterday string) (*domain.CompletionRecord, bool, error) {
	args := m.Called(ctx, identity, today, yesterday)
	record, _ := args.Get(0).(*domain.CompletionRecord)
	return record, args.Bool(1), args.Error(2)
}

// MockRankService is a testify mock for RankService
type MockRankService struct {
	mock.Mock
}

func (m *MockRankService) RankOf(ctx context.Context, identity, metric string, value int64) (int64, error) {
	args := m.Called(ctx, identity, metric, value)
	return args.Get(0).(int64), args.Error(1)
}

// MockGenerator is a testify mock for generator.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt generator.Prompt) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockTeamRepository is a testify mock for repository.TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Upsert(ctx context.Context, team *domain.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) GetByUserID(ctx context.Context, userID string) (*domain.Team, error) {
	args := m.Called(ctx, userID)
	team, _ := args.Get(0).(*domain.Team)
	return team, args.Error(1)
}
