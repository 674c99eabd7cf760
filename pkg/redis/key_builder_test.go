package redis

import (
	"testing"
)

func TestKeyBuilder_Environment_Prefixes(t *testing.T) {
	tests := []struct {
		name           string
		environment    string
		expectedPrefix string
	}{
		{
			name:           "Production environment should use prod prefix",
			environment:    "production",
			expectedPrefix: "prod",
		},
		{
			name:           "Development environment should use staging prefix",
			environment:    "development",
			expectedPrefix: "staging",
		},
		{
			name:           "Staging environment should use staging prefix",
			environment:    "staging",
			expectedPrefix: "staging",
		},
		{
			name:           "Test environment should use test prefix",
			environment:    "test",
			expectedPrefix: "test",
		},
		{
			name:           "Unknown environment should default to prod prefix",
			environment:    "unknown",
			expectedPrefix: "prod",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			if kb.GetPrefix() != tt.expectedPrefix {
				t.Errorf("NewKeyBuilder(%s).GetPrefix() = %s, want %s",
					tt.environment, kb.GetPrefix(), tt.expectedPrefix)
			}
		})
	}
}

func TestKeyBuilder_KeyGeneration(t *testing.T) {
	kb := NewKeyBuilder("production")

	tests := []struct {
		name     string
		method   func() string
		expected string
	}{
		{
			name:     "RateLimit key",
			method:   func() string { return kb.KeyRateLimit("uid-123") },
			expected: "prod:rateLimits:uid-123",
		},
		{
			name:     "User key",
			method:   func() string { return kb.KeyUser("uid-123") },
			expected: "prod:users:uid-123",
		},
		{
			name:     "Leaderboard key",
			method:   func() string { return kb.KeyLeaderboard("wins") },
			expected: "prod:leaderboard:wins",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.method(); got != tt.expected {
				t.Errorf("got %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestKeyBuilder_NamespacesDoNotCollide(t *testing.T) {
	kb := NewKeyBuilder("staging")

	identity := "same-identity"
	if kb.KeyRateLimit(identity) == kb.KeyUser(identity) {
		t.Fatal("rate-limit and user documents must live in separate namespaces")
	}
}
