package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	switch environment {
	case "development", "staging":
		prefix = "staging"
	case "test":
		prefix = "test"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyRateLimit returns the rate-limit document key for an identity
func (kb *KeyBuilder) KeyRateLimit(identity string) string {
	return kb.BuildKey(fmt.Sprintf(KeyRateLimit, identity))
}

// KeyUser returns the user (completion + metrics) document key for an identity
func (kb *KeyBuilder) KeyUser(identity string) string {
	return kb.BuildKey(fmt.Sprintf(KeyUser, identity))
}

// KeyLeaderboard returns the sorted index key for a metric field
func (kb *KeyBuilder) KeyLeaderboard(metric string) string {
	return kb.BuildKey(fmt.Sprintf(KeyLeaderboard, metric))
}
