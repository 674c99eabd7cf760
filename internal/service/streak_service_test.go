package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"heroxi-backend/internal/config"
	"heroxi-backend/internal/domain"
	"heroxi-backend/pkg/logger"
)

func londonNoon(t *testing.T, date string) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	d, err := time.ParseInLocation(domain.DateLayout, date, loc)
	require.NoError(t, err)
	return d.Add(12 * time.Hour)
}

func TestStreakService_Scenario(t *testing.T) {
	f := newAccountingFixture(t)
	ctx := context.Background()

	steps := []struct {
		date         string
		wantCredited bool
		wantStreak   int64
	}{
		{date: "2024-01-10", wantCredited: true, wantStreak: 1},
		{date: "2024-01-11", wantCredited: true, wantStreak: 2},
		{date: "2024-01-11", wantCredited: false},
		{date: "2024-01-13", wantCredited: true, wantStreak: 1},
	}

	for _, step := range steps {
		res, err := f.streak.RecordCompletion(ctx, "U2", londonNoon(t, step.date))
		require.NoError(t, err, step.date)
		assert.Equal(t, step.wantCredited, res.Credited, step.date)
		assert.Equal(t, step.wantStreak, res.NewStreak, step.date)
		assert.Equal(t, step.date, res.Date)
		if step.wantCredited {
			require.NotNil(t, res.NewRank, step.date)
			assert.Equal(t, int64(1), *res.NewRank)
		} else {
			assert.Nil(t, res.NewRank)
		}
	}

	record, err := f.streak.GetStreak(ctx, "U2")
	require.NoError(t, err)
	assert.Equal(t, &domain.CompletionRecord{TotalCompleted: 1, LastCompletionDate: "2024-01-13"}, record)
}

func TestStreakService_Continuity(t *testing.T) {
	f := newAccountingFixture(t)
	ctx := context.Background()

	var streaks []int64
	for _, date := range []string{"2024-02-28", "2024-02-29", "2024-03-01"} {
		res, err := f.streak.RecordCompletion(ctx, "leap", londonNoon(t, date))
		require.NoError(t, err)
		streaks = append(streaks, res.NewStreak)
	}
	assert.Equal(t, []int64{1, 2, 3}, streaks)

	streaks = nil
	for _, date := range []string{"2024-05-01", "2024-05-03"} {
		res, err := f.streak.RecordCompletion(ctx, "gap", londonNoon(t, date))
		require.NoError(t, err)
		streaks = append(streaks, res.NewStreak)
	}
	assert.Equal(t, []int64{1, 1}, streaks)
}

func TestStreakService_IdempotentSameDay(t *testing.T) {
	f := newAccountingFixture(t)
	ctx := context.Background()
	morning := londonNoon(t, "2024-01-10").Add(-11 * time.Hour)

	first, err := f.streak.RecordCompletion(ctx, "me", morning)
	require.NoError(t, err)
	second, err := f.streak.RecordCompletion(ctx, "me", morning.Add(22*time.Hour))
	require.NoError(t, err)

	assert.True(t, first.Credited)
	assert.Equal(t, int64(1), first.NewStreak)
	assert.False(t, second.Credited)

	record, err := f.streak.GetStreak(ctx, "me")
	require.NoError(t, err)
	assert.Equal(t, int64(1), record.TotalCompleted)
}

func TestStreakService_DayBoundaryUsesFixedTimezone(t *testing.T) {
	f := newAccountingFixture(t)
	ctx := context.Background()

	// 23:30 UTC on 10 June is 00:30 BST on 11 June.
	res, err := f.streak.RecordCompletion(ctx, "tz", time.Date(2024, 6, 10, 23, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2024-06-11", res.Date)

	// The same instant expressed in another zone lands on the same day.
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	res, err = f.streak.RecordCompletion(ctx, "tz", time.Date(2024, 6, 11, 8, 30, 0, 0, tokyo))
	require.NoError(t, err)
	assert.False(t, res.Credited)
	assert.Equal(t, "2024-06-11", res.Date)
}

func TestStreakService_CalendarDaysAcrossDST(t *testing.T) {
	svc, err := NewStreakService(new(MockCompletionRepository), new(MockRankService), "Europe/London", nil, logger.NewNop())
	require.NoError(t, err)
	s := svc.(*streakService)

	// Clocks go forward at 01:00 UTC on 31 March 2024.
	today, yesterday := s.calendarDays(time.Date(2024, 3, 31, 0, 30, 0, 0, time.UTC))
	assert.Equal(t, "2024-03-31", today)
	assert.Equal(t, "2024-03-30", yesterday)

	today, yesterday = s.calendarDays(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-01-01", today)
	assert.Equal(t, "2023-12-31", yesterday)
}

func TestStreakService_RankReflectsOthers(t *testing.T) {
	f := newAccountingFixture(t)
	ctx := context.Background()

	for _, date := range []string{"2024-01-08", "2024-01-09", "2024-01-10"} {
		_, err := f.streak.RecordCompletion(ctx, "leader", londonNoon(t, date))
		require.NoError(t, err)
	}

	res, err := f.streak.RecordCompletion(ctx, "newcomer", londonNoon(t, "2024-01-10"))
	require.NoError(t, err)
	require.NotNil(t, res.NewRank)
	assert.Equal(t, int64(2), *res.NewRank)
}

func TestStreakService_RankFailureKeepsCredit(t *testing.T) {
	repo := new(MockCompletionRepository)
	rank := new(MockRankService)
	repo.On("RecordCompletion", mock.Anything, "me", "2024-01-10", "2024-01-09").
		Return(&domain.CompletionRecord{TotalCompleted: 4, LastCompletionDate: "2024-01-10"}, true, nil).Once()
	rank.On("RankOf", mock.Anything, "me", config.MetricTotalCompleted, int64(4)).
		Return(int64(0), domain.ErrStoreUnavailable).Once()

	svc, err := NewStreakService(repo, rank, "Europe/London", nil, logger.NewNop())
	require.NoError(t, err)

	res, err := svc.RecordCompletion(context.Background(), "me", londonNoon(t, "2024-01-10"))
	require.NoError(t, err)
	assert.True(t, res.Credited)
	assert.Equal(t, int64(4), res.NewStreak)
	assert.Nil(t, res.NewRank)
}

func TestStreakService_AlreadyCreditedSkipsRank(t *testing.T) {
	repo := new(MockCompletionRepository)
	rank := new(MockRankService)
	repo.On("RecordCompletion", mock.Anything, "me", "2024-01-10", "2024-01-09").
		Return(&domain.CompletionRecord{TotalCompleted: 1, LastCompletionDate: "2024-01-10"}, false, nil).Once()

	svc, err := NewStreakService(repo, rank, "Europe/London", nil, logger.NewNop())
	require.NoError(t, err)

	res, err := svc.RecordCompletion(context.Background(), "me", londonNoon(t, "2024-01-10"))
	require.NoError(t, err)
	assert.False(t, res.Credited)
	assert.Equal(t, "2024-01-10", res.Date)
	repo.AssertNumberOfCalls(t, "RecordCompletion", 1)
	rank.AssertNotCalled(t, "RankOf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStreakService_CorruptRecord(t *testing.T) {
	f := newAccountingFixture(t)
	f.mr.HSet("test:users:me", "totalCompleted", "lots", "lastCompletionDate", "2024-01-09")

	_, err := f.streak.RecordCompletion(context.Background(), "me", londonNoon(t, "2024-01-10"))
	assert.ErrorIs(t, err, domain.ErrCorruptRecord)
	assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestStreakService_Errors(t *testing.T) {
	f := newAccountingFixture(t)

	_, err := f.streak.RecordCompletion(context.Background(), "", time.Now())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	f.mr.Close()
	_, err = f.streak.RecordCompletion(context.Background(), "me", time.Now())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = NewStreakService(nil, nil, "Nowhere/Special", nil, logger.NewNop())
	assert.Error(t, err)
}

func TestStreakService_ConcurrentSameDayCreditsOnce(t *testing.T) {
	f := newAccountingFixture(t)
	ctx := context.Background()
	now := londonNoon(t, "2024-01-10")

	results := make(chan *domain.CompletionResult, 10)
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			res, err := f.streak.RecordCompletion(ctx, "racer", now)
			if err != nil {
				errs <- err
				return
			}
			results <- res
		}()
	}

	credited := 0
	for i := 0; i < 10; i++ {
		select {
		case res := <-results:
			if res.Credited {
				credited++
			}
		case err := <-errs:
			require.NoError(t, err, "contention must not surface as a store failure")
		}
	}

	assert.Equal(t, 1, credited)
	record, err := f.streak.GetStreak(ctx, "racer")
	require.NoError(t, err)
	assert.Equal(t, int64(1), record.TotalCompleted)
}
