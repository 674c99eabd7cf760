package handler

import (
	"net/http"

	"heroxi-backend/internal/service/auth"
	"heroxi-backend/pkg/errors"
	"heroxi-backend/pkg/logger"
)

// AuthHandler issues anonymous credentials
type AuthHandler struct {
	tokens *auth.TokenService
	logger *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(tokens *auth.TokenService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		tokens: tokens,
		logger: log,
	}
}

// Anonymous handles POST /auth/anonymous
func (h *AuthHandler) Anonymous(w http.ResponseWriter, r *http.Request) {
	token, err := h.tokens.IssueAnonymous()
	if err != nil {
		respondError(w, r, errors.NewInternalError("Failed to authenticate anonymously.", err), h.logger)
		return
	}
	respondJSON(w, http.StatusOK, token)
}
