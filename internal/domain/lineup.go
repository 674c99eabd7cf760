package domain

// LineupRequest carries a free-text XI used by rating, personality and challenge prompts
type LineupRequest struct {
	LineupText string `json:"lineupText"`
}

// MatchSimulationRequest carries the XI and opponent for a simulated match.
// Outcome is optional; "win" credits the caller's wins metric.
type MatchSimulationRequest struct {
	EnglandLineup string `json:"englandLineup"`
	OpponentName  string `json:"opponentName"`
	Outcome       string `json:"outcome,omitempty"`
}

// RatingResult is the parsed outcome of a rate-my-xi generation
type RatingResult struct {
	Rating   *float64 `json:"rating"`
	Analysis string   `json:"analysis"`
}

// MatchSimulationResult is the outcome of a simulate-match generation
type MatchSimulationResult struct {
	Result string `json:"result"`
	Wins   *int64 `json:"wins,omitempty"`
}

// PersonalityResult is the outcome of a personality-test generation
type PersonalityResult struct {
	Analysis string `json:"analysis"`
}

// DailyChallengeResult combines the challenge text with the streak outcome
type DailyChallengeResult struct {
	ChallengeResult string `json:"challengeResult"`
	Credited        bool   `json:"credited"`
	Streak          int64  `json:"streak,omitempty"`
	Rank            *int64 `json:"rank,omitempty"`
	Date            string `json:"date"`
}
