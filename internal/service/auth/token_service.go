package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"heroxi-backend/internal/domain"
	"heroxi-backend/pkg/logger"
)

const issuer = "heroxi-backend"

// AnonymousToken is issued to a caller without an account
type AnonymousToken struct {
	UID       string    `json:"uid"`
	Token     string    `json:"customToken"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenService issues and verifies HS256 anonymous tokens
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	logger *logger.Logger
}

// NewTokenService creates a new token service
func NewTokenService(secret string, ttl time.Duration, log *logger.Logger) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		logger: log.Component("auth"),
	}, nil
}

// IssueAnonymous creates uid anon-<unix millis> and signs a token for it
func (s *TokenService) IssueAnonymous() (*AnonymousToken, error) {
	now := s.now()
	uid := fmt.Sprintf("anon-%d", now.UnixMilli())
	expiresAt := now.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   uid,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.logger.WithError(err).Error("Failed to sign anonymous token")
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.WithField("uid", uid).Info("Issued anonymous token")
	return &AnonymousToken{UID: uid, Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks a token's signature and expiry and returns its subject
func (s *TokenService) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", domain.ErrUnauthorized)
	}
	return claims.Subject, nil
}
