package domain

import (
	"encoding/json"
	"time"
)

// Team represents a user's saved lineup document
type Team struct {
	UserID    string          `json:"user_id" db:"user_id"`
	TeamName  string          `json:"team_name" db:"team_name"`
	Formation string          `json:"formation" db:"formation"`
	Lineup    json.RawMessage `json:"lineup" db:"lineup"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// SaveTeamRequest represents the body of a save-team call
type SaveTeamRequest struct {
	TeamName  string          `json:"teamName"`
	Formation string          `json:"formation"`
	Lineup    json.RawMessage `json:"lineup"`
	UserID    string          `json:"userId"`
}
