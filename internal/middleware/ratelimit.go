package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"heroxi-backend/internal/service"
	"heroxi-backend/pkg/errors"
	"heroxi-backend/pkg/logger"
)

// RateLimit admits each request through the fixed-window limiter keyed by the
// raw bearer credential. The credential is not validated here.
func RateLimit(limiter service.RateLimiter, log *logger.Logger) func(http.Handler) http.Handler {
	return rateLimit(limiter, log, time.Now)
}

func rateLimit(limiter service.RateLimiter, log *logger.Logger, now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := BearerIdentity(r)
			if !ok {
				writeErrorResponse(w, r, errors.NewAuthenticationError("Unauthorized: No token provided."), log)
				return
			}

			decision, err := limiter.Admit(r.Context(), identity, now())
			if err != nil {
				writeErrorResponse(w, r, errors.FromDomain(err), log)
				return
			}

			setRateLimitHeaders(w, decision.Limit, decision.Remaining, decision.ResetAt)

			if !decision.Allowed {
				retryAfter := int64(math.Ceil(decision.RetryAfter.Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))

				appErr := errors.NewRateLimitError("Too many requests. Please try again later.")
				appErr.Details = map[string]interface{}{
					"status":      "rate_limited",
					"retry_after": retryAfter,
				}
				writeErrorResponse(w, r, appErr, log)
				return
			}

			ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerIdentity extracts the raw credential from "Authorization: Bearer <cred>"
func BearerIdentity(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}

	identity := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if identity == "" {
		return "", false
	}
	return identity, true
}

func setRateLimitHeaders(w http.ResponseWriter, limit, remaining int64, resetAt time.Time) {
	w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
}
