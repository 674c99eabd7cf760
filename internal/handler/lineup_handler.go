package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"heroxi-backend/internal/domain"
	"heroxi-backend/internal/middleware"
	"heroxi-backend/internal/service"
	"heroxi-backend/pkg/logger"
)

// LineupHandler handles the generated-text lineup actions
type LineupHandler struct {
	lineupService service.LineupService
	logger        *logger.Logger
	now           func() time.Time
}

// NewLineupHandler creates a new lineup handler
func NewLineupHandler(lineupService service.LineupService, log *logger.Logger) *LineupHandler {
	return &LineupHandler{
		lineupService: lineupService,
		logger:        log,
		now:           time.Now,
	}
}

// RegisterRoutes mounts the lineup actions; callers wrap r with the rate limiter
func (h *LineupHandler) RegisterRoutes(r chi.Router) {
	r.Post("/rate-my-xi", h.RateMyXI)
	r.Post("/simulate-match", h.SimulateMatch)
	r.Post("/personality-test", h.PersonalityTest)
	r.Post("/daily-challenge", h.DailyChallenge)
}

// RateMyXI handles POST /api/v1/rate-my-xi
func (h *LineupHandler) RateMyXI(w http.ResponseWriter, r *http.Request) {
	var req domain.LineupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	result, err := h.lineupService.RateLineup(r.Context(), middleware.GetIdentity(r.Context()), &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// SimulateMatch handles POST /api/v1/simulate-match
func (h *LineupHandler) SimulateMatch(w http.ResponseWriter, r *http.Request) {
	var req domain.MatchSimulationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	result, err := h.lineupService.SimulateMatch(r.Context(), middleware.GetIdentity(r.Context()), &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// PersonalityTest handles POST /api/v1/personality-test
func (h *LineupHandler) PersonalityTest(w http.ResponseWriter, r *http.Request) {
	var req domain.LineupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	result, err := h.lineupService.PersonalityTest(r.Context(), middleware.GetIdentity(r.Context()), &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// DailyChallenge handles POST /api/v1/daily-challenge
func (h *LineupHandler) DailyChallenge(w http.ResponseWriter, r *http.Request) {
	var req domain.LineupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	result, err := h.lineupService.DailyChallenge(r.Context(), middleware.GetIdentity(r.Context()), &req, h.now())
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
