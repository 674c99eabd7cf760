package domain

import "errors"

// Sentinel errors shared across the service layer; handlers translate them
// into caller-visible outcomes through pkg/errors.FromDomain.
var (
	ErrUnauthorized     = errors.New("missing or empty identity credential")
	ErrRateLimited      = errors.New("request quota exhausted for current window")
	ErrStoreUnavailable = errors.New("counter store unavailable")
	ErrCorruptRecord    = errors.New("corrupt counter record")
	ErrProviderFailure  = errors.New("generative-text provider failed")
	ErrInvalidMetric    = errors.New("unknown metric field")
	ErrTeamNotFound     = errors.New("team not found")
	ErrValidation       = errors.New("invalid request")
)
