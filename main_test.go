package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heroxi-backend/internal/config"
	"heroxi-backend/internal/container"
	"heroxi-backend/pkg/logger"
)

func newTestServer(t *testing.T, limit int, secret string) (*httptest.Server, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	cfg := &config.Config{
		Environment:       "test",
		AllowedOrigins:    []string{"*"},
		RedisURL:          "redis://" + mr.Addr(),
		RateLimitRequests: limit,
		RateLimitWindow:   time.Hour,
		StreakTimezone:    "Europe/London",
		UseMockGenerator:  true,
		AuthTokenSecret:   secret,
		AuthTokenTTL:      time.Hour,
	}

	c, err := container.New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(c.Close)

	srv := httptest.NewServer(setupRouter(c))
	t.Cleanup(srv.Close)
	return srv, mr
}

func send(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRouter_RateLimitedActions(t *testing.T) {
	srv, _ := newTestServer(t, 2, "")
	url := srv.URL + "/api/v1/rate-my-xi"

	first := send(t, http.MethodPost, url, "token-a", `{"lineupText":"Pickford"}`)
	require.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, "2", first.Header.Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header.Get("X-RateLimit-Remaining"))

	var rating struct {
		Rating   *float64 `json:"rating"`
		Analysis string   `json:"analysis"`
	}
	require.NoError(t, json.NewDecoder(first.Body).Decode(&rating))
	require.NotNil(t, rating.Rating)
	assert.Equal(t, 8.5, *rating.Rating)

	second := send(t, http.MethodPost, srv.URL+"/api/v1/personality-test", "token-a", `{"lineupText":"Pickford"}`)
	assert.Equal(t, http.StatusOK, second.StatusCode)

	third := send(t, http.MethodPost, url, "token-a", `{"lineupText":"Pickford"}`)
	assert.Equal(t, http.StatusTooManyRequests, third.StatusCode)
	assert.NotEmpty(t, third.Header.Get("Retry-After"))

	other := send(t, http.MethodPost, url, "token-b", `{"lineupText":"Pickford"}`)
	assert.Equal(t, http.StatusOK, other.StatusCode)

	missing := send(t, http.MethodPost, url, "", `{"lineupText":"Pickford"}`)
	assert.Equal(t, http.StatusUnauthorized, missing.StatusCode)
}

func TestRouter_DailyChallengeAndLeaderboard(t *testing.T) {
	srv, _ := newTestServer(t, 10, "")

	resp := send(t, http.MethodPost, srv.URL+"/api/v1/daily-challenge", "token-a", `{"lineupText":"Pickford"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var challenge struct {
		Credited bool   `json:"credited"`
		Streak   int64  `json:"streak"`
		Rank     *int64 `json:"rank"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&challenge))
	assert.True(t, challenge.Credited)
	assert.Equal(t, int64(1), challenge.Streak)
	require.NotNil(t, challenge.Rank)
	assert.Equal(t, int64(1), *challenge.Rank)

	again := send(t, http.MethodPost, srv.URL+"/api/v1/daily-challenge", "token-a", `{"lineupText":"Pickford"}`)
	require.Equal(t, http.StatusOK, again.StatusCode)
	var repeat struct {
		Credited bool `json:"credited"`
	}
	require.NoError(t, json.NewDecoder(again.Body).Decode(&repeat))
	assert.False(t, repeat.Credited)

	streak := send(t, http.MethodGet, srv.URL+"/api/v1/streak", "token-a", "")
	require.Equal(t, http.StatusOK, streak.StatusCode)
	var status struct {
		Streak int64 `json:"streak"`
		Wins   int64 `json:"wins"`
	}
	require.NoError(t, json.NewDecoder(streak.Body).Decode(&status))
	assert.Equal(t, int64(1), status.Streak)
	assert.Zero(t, status.Wins)

	// Public and not rate-limited
	board := send(t, http.MethodGet, srv.URL+"/api/v1/leaderboard/totalCompleted", "", "")
	require.Equal(t, http.StatusOK, board.StatusCode)
	var page struct {
		Entries []struct {
			Identity    string `json:"identity"`
			MetricValue int64  `json:"metric_value"`
		} `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(board.Body).Decode(&page))
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "token-a", page.Entries[0].Identity)
	assert.Equal(t, int64(1), page.Entries[0].MetricValue)
}

func TestRouter_StoreDown(t *testing.T) {
	srv, mr := newTestServer(t, 5, "")
	mr.Close()

	resp := send(t, http.MethodPost, srv.URL+"/api/v1/rate-my-xi", "token-a", `{"lineupText":"Pickford"}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	health := send(t, http.MethodGet, srv.URL+"/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, health.StatusCode)
}

func TestRouter_Ambient(t *testing.T) {
	srv, _ := newTestServer(t, 5, "secret")

	health := send(t, http.MethodGet, srv.URL+"/health", "", "")
	assert.Equal(t, http.StatusOK, health.StatusCode)
	assert.NotEmpty(t, health.Header.Get("X-Request-ID"))

	anon := send(t, http.MethodPost, srv.URL+"/auth/anonymous", "", "")
	require.Equal(t, http.StatusOK, anon.StatusCode)
	var token struct {
		UID   string `json:"uid"`
		Token string `json:"customToken"`
	}
	require.NoError(t, json.NewDecoder(anon.Body).Decode(&token))
	assert.NotEmpty(t, token.Token)

	// The issued token is usable as a rate-limit identity
	resp := send(t, http.MethodPost, srv.URL+"/api/v1/personality-test", token.Token, `{"lineupText":"Pickford"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Teams are not mounted without a database
	teams := send(t, http.MethodGet, srv.URL+"/api/v1/teams/user-1", "token-a", "")
	assert.Equal(t, http.StatusNotFound, teams.StatusCode)

	metricsResp := send(t, http.MethodGet, srv.URL+"/metrics", "", "")
	require.Equal(t, http.StatusOK, metricsResp.StatusCode)
	buf := new(strings.Builder)
	_, err := io.Copy(buf, metricsResp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "heroxi_rate_limit_decisions_total")
}
