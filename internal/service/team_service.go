package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"heroxi-backend/internal/domain"
	"heroxi-backend/internal/repository"
	"heroxi-backend/pkg/logger"
)

// teamService stores and loads saved teams
type teamService struct {
	repo   repository.TeamRepository
	logger *logger.Logger
}

// NewTeamService creates a new team service
func NewTeamService(repo repository.TeamRepository, log *logger.Logger) TeamService {
	return &teamService{
		repo:   repo,
		logger: log.Component("team"),
	}
}

// SaveTeam validates and upserts a team keyed by its owner
func (s *teamService) SaveTeam(ctx context.Context, req *domain.SaveTeamRequest) (*domain.Team, error) {
	if strings.TrimSpace(req.TeamName) == "" ||
		strings.TrimSpace(req.Formation) == "" ||
		strings.TrimSpace(req.UserID) == "" ||
		isEmptyJSON(req.Lineup) {
		return nil, fmt.Errorf("%w: team name, formation, lineup, and userId are required", domain.ErrValidation)
	}
	if !json.Valid(req.Lineup) {
		return nil, fmt.Errorf("%w: lineup must be valid JSON", domain.ErrValidation)
	}

	team := &domain.Team{
		UserID:    req.UserID,
		TeamName:  req.TeamName,
		Formation: req.Formation,
		Lineup:    req.Lineup,
	}
	if err := s.repo.Upsert(ctx, team); err != nil {
		s.logger.WithError(err).WithField("user_id", req.UserID).Error("Failed to save team")
		return nil, fmt.Errorf("failed to save team: %w", err)
	}

	s.logger.WithField("user_id", req.UserID).Info("Team saved")
	return team, nil
}

// GetTeam loads a saved team; ErrTeamNotFound when absent
func (s *teamService) GetTeam(ctx context.Context, userID string) (*domain.Team, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: userId is required", domain.ErrValidation)
	}

	team, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	if team == nil {
		return nil, domain.ErrTeamNotFound
	}
	return team, nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "[]", "{}", `""`:
		return true
	}
	return false
}
