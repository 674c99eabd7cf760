package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"heroxi-backend/internal/config"
	"heroxi-backend/internal/domain"
	"heroxi-backend/internal/middleware"
	"heroxi-backend/internal/service"
	"heroxi-backend/pkg/logger"
)

// LeaderboardHandler serves leaderboard pages and the caller's streak
type LeaderboardHandler struct {
	leaderboardService service.LeaderboardService
	streakService      service.StreakService
	logger             *logger.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboardService service.LeaderboardService, streakService service.StreakService, log *logger.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		streakService:      streakService,
		logger:             log,
	}
}

// StreakResponse is the caller's current streak and win count
type StreakResponse struct {
	Streak             int64  `json:"streak"`
	LastCompletionDate string `json:"lastCompletionDate,omitempty"`
	Wins               int64  `json:"wins"`
}

// GetLeaderboard handles GET /api/v1/leaderboard/{metric}?limit=&cursor=
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	metric := chi.URLParam(r, "metric")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, domain.ErrValidation, h.logger)
			return
		}
		limit = parsed
	}

	page, err := h.leaderboardService.Page(r.Context(), metric, limit, r.URL.Query().Get("cursor"))
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// GetStreak handles GET /api/v1/streak
func (h *LeaderboardHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	record, err := h.streakService.GetStreak(r.Context(), identity)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	wins, err := h.leaderboardService.MetricOf(r.Context(), identity, config.MetricWins)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	resp := StreakResponse{Wins: wins}
	if record != nil {
		resp.Streak = record.TotalCompleted
		resp.LastCompletionDate = record.LastCompletionDate
	}
	respondJSON(w, http.StatusOK, resp)
}
