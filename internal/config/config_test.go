package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "")
	t.Setenv("RATE_LIMIT_WINDOW", "")
	t.Setenv("STREAK_TIMEZONE", "")
	t.Setenv("USE_MOCK_GENERATOR", "")
	t.Setenv("DB_MAX_CONNS", "")
	t.Setenv("DB_MIN_CONNS", "")
	t.Setenv("DB_CONNECT_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.RateLimitRequests)
	assert.Equal(t, time.Hour, cfg.RateLimitWindow)
	assert.Equal(t, "Europe/London", cfg.StreakTimezone)
	assert.True(t, cfg.UseMockGenerator)
	assert.Equal(t, 10, cfg.DBMaxConns)
	assert.Equal(t, 2, cfg.DBMinConns)
	assert.Equal(t, time.Hour, cfg.DBMaxConnLifetime)
	assert.Equal(t, 30*time.Minute, cfg.DBMaxConnIdleTime)
	assert.Equal(t, 5*time.Second, cfg.DBConnectTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_REQUESTS", "10")
	t.Setenv("RATE_LIMIT_WINDOW", "10m")
	t.Setenv("STREAK_TIMEZONE", "UTC")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("DB_MAX_CONNS", "25")
	t.Setenv("DB_MIN_CONNS", "0")
	t.Setenv("DB_CONNECT_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.RateLimitRequests)
	assert.Equal(t, 10*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, "UTC", cfg.StreakTimezone)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 25, cfg.DBMaxConns)
	assert.Equal(t, 0, cfg.DBMinConns)
	assert.Equal(t, 2*time.Second, cfg.DBConnectTimeout)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			RateLimitRequests: 5,
			RateLimitWindow:   time.Hour,
			StreakTimezone:    "Europe/London",
			UseMockGenerator:  true,
			DBMaxConns:        10,
			DBMinConns:        2,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}, wantErr: false},
		{name: "zero limit", mutate: func(c *Config) { c.RateLimitRequests = 0 }, wantErr: true},
		{name: "negative window", mutate: func(c *Config) { c.RateLimitWindow = -time.Second }, wantErr: true},
		{name: "unknown timezone", mutate: func(c *Config) { c.StreakTimezone = "Mars/Olympus" }, wantErr: true},
		{name: "zero pool size", mutate: func(c *Config) { c.DBMaxConns = 0 }, wantErr: true},
		{name: "min above max", mutate: func(c *Config) { c.DBMinConns = 11 }, wantErr: true},
		{name: "real generator without key", mutate: func(c *Config) { c.UseMockGenerator = false }, wantErr: true},
		{name: "real generator with key", mutate: func(c *Config) {
			c.UseMockGenerator = false
			c.GeminiAPIKey = "key"
		}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsMetricField(t *testing.T) {
	assert.True(t, IsMetricField("totalCompleted"))
	assert.True(t, IsMetricField("wins"))
	assert.False(t, IsMetricField("requestCount"))
	assert.False(t, IsMetricField(""))
}
