package generator

import (
	"context"
	"fmt"
	"strings"
)

// Kind identifies which prompt a generation request was built from
type Kind string

const (
	KindRating      Kind = "rating"
	KindMatch       Kind = "match"
	KindPersonality Kind = "personality"
)

// Prompt is a single generation request
type Prompt struct {
	Kind Kind
	Text string
}

// Generator produces free text for a prompt. Implementations return an error
// wrapping domain.ErrProviderFailure on timeouts or empty responses.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}

// RatingPrompt asks for a -3..10 rating followed by a short analysis
func RatingPrompt(lineupText string) Prompt {
	return Prompt{Kind: KindRating, Text: strings.TrimSpace(fmt.Sprintf(`
I've got this football XI with formation and roles:
%s

Rate the team objectively from -3 to 10 (negatives allowed). Start with the rating, then briefly analyze player fit, tactical fit, strengths, weaknesses, and key tactical observations. Use an analytical tone, and add a light football joke or witty comment if it fits naturally. Limit to about 150 words.
`, lineupText))}
}

// MatchPrompt asks for a three-paragraph match summary against opponentName
func MatchPrompt(englandLineup, opponentName string) Prompt {
	return Prompt{Kind: KindMatch, Text: strings.TrimSpace(fmt.Sprintf(`
Simulate a football match between England (Lineup: %s) and %s.

Generate a brief match summary in 3 paragraphs:
1. Brief pre-match analysis of strengths/weaknesses.
2. Minute-by-minute highlights with goal scorers and key events.
3. Final score, winner, and a witty football remark.

Keep it under 200 words. Return plain text only.
`, englandLineup, opponentName))}
}

// PersonalityPrompt asks for a manager personality read of the XI
func PersonalityPrompt(lineupText string) Prompt {
	return Prompt{Kind: KindPersonality, Text: strings.TrimSpace(fmt.Sprintf(`
Analyze the personality traits of a football manager who would select the following XI and formation:
%s

Provide a fun, insightful summary of their managerial style, strengths, and quirks. Keep it under 150 words.
`, lineupText))}
}
