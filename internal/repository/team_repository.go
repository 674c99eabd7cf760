package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"heroxi-backend/internal/domain"
	"heroxi-backend/pkg/database"
)

// teamRepository handles saved-team documents with PostgreSQL
type teamRepository struct {
	db *database.PostgresDB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *database.PostgresDB) TeamRepository {
	return &teamRepository{
		db: db,
	}
}

// Upsert creates a team or merges the non-empty fields into the existing row.
// created_at is kept from the first save.
func (r *teamRepository) Upsert(ctx context.Context, team *domain.Team) error {
	query := `
		INSERT INTO teams (user_id, team_name, formation, lineup, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			team_name = COALESCE(NULLIF(EXCLUDED.team_name, ''), teams.team_name),
			formation = COALESCE(NULLIF(EXCLUDED.formation, ''), teams.formation),
			lineup = COALESCE(EXCLUDED.lineup, teams.lineup),
			updated_at = NOW()
		RETURNING team_name, formation, lineup, created_at, updated_at
	`

	var lineup []byte
	if len(team.Lineup) > 0 {
		lineup = team.Lineup
	}

	err := r.db.Pool.QueryRow(ctx, query,
		team.UserID,
		team.TeamName,
		team.Formation,
		lineup,
	).Scan(&team.TeamName, &team.Formation, &team.Lineup, &team.CreatedAt, &team.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}

	return nil
}

// GetByUserID retrieves a team by owner; nil when absent
func (r *teamRepository) GetByUserID(ctx context.Context, userID string) (*domain.Team, error) {
	query := `
		SELECT user_id, team_name, formation, lineup, created_at, updated_at
		FROM teams
		WHERE user_id = $1
	`

	team := &domain.Team{}
	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(
		&team.UserID,
		&team.TeamName,
		&team.Formation,
		&team.Lineup,
		&team.CreatedAt,
		&team.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return team, nil
}
