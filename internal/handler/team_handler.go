package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"heroxi-backend/internal/domain"
	"heroxi-backend/internal/service"
	"heroxi-backend/pkg/logger"
)

// TeamHandler handles saved-team requests
type TeamHandler struct {
	teamService service.TeamService
	logger      *logger.Logger
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService service.TeamService, log *logger.Logger) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		logger:      log,
	}
}

// RegisterRoutes mounts the team routes
func (h *TeamHandler) RegisterRoutes(r chi.Router) {
	r.Post("/teams", h.SaveTeam)
	r.Get("/teams/{userId}", h.GetTeam)
}

// SaveTeam handles POST /api/v1/teams
func (h *TeamHandler) SaveTeam(w http.ResponseWriter, r *http.Request) {
	var req domain.SaveTeamRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	team, err := h.teamService.SaveTeam(r.Context(), &req)
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Team saved successfully!",
		"team":    team,
	})
}

// GetTeam handles GET /api/v1/teams/{userId}
func (h *TeamHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.teamService.GetTeam(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondError(w, r, err, h.logger)
		return
	}
	respondJSON(w, http.StatusOK, team)
}
