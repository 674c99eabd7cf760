package domain

import (
	"time"
)

// DateLayout is the calendar-date format used for completion records
const DateLayout = "2006-01-02"

// RateLimitRecord is the per-identity fixed-window counter document
type RateLimitRecord struct {
	RequestCount int64     `json:"request_count"`
	WindowStart  time.Time `json:"window_start"`
}

// RateLimitDecision is the outcome of admitting a single request
type RateLimitDecision struct {
	Identity     string        `json:"-"`
	Allowed      bool          `json:"allowed"`
	RequestCount int64         `json:"request_count"`
	Limit        int64         `json:"limit"`
	Remaining    int64         `json:"remaining"`
	WindowStart  time.Time     `json:"window_start"`
	ResetAt      time.Time     `json:"reset_at"`
	RetryAfter   time.Duration `json:"retry_after"`
}

// CompletionRecord is the per-identity daily streak document
type CompletionRecord struct {
	TotalCompleted     int64  `json:"total_completed"`
	LastCompletionDate string `json:"last_completion_date"`
}

// CompletionResult is returned by the streak tracker for every completion report
type CompletionResult struct {
	Credited  bool   `json:"credited"`
	NewStreak int64  `json:"new_streak,omitempty"`
	NewRank   *int64 `json:"new_rank,omitempty"`
	Date      string `json:"date"`
}

// LeaderboardEntry is one row of a leaderboard page
type LeaderboardEntry struct {
	Identity    string `json:"identity"`
	MetricValue int64  `json:"metric_value"`
}

// LeaderboardPage is a finite, non-restartable page of a leaderboard
type LeaderboardPage struct {
	Metric     string             `json:"metric"`
	Entries    []LeaderboardEntry `json:"entries"`
	NextCursor string             `json:"next_cursor,omitempty"`
}
