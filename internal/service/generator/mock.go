package generator

import (
	"context"
	"fmt"
	"regexp"
)

// Mock returns canned responses without calling a provider
type Mock struct{}

// NewMock creates a mock generator
func NewMock() *Mock {
	return &Mock{}
}

var opponentPattern = regexp.MustCompile(`\) and (.+)\.\n`)

// Generate returns a fixed response for the prompt's kind
func (m *Mock) Generate(ctx context.Context, prompt Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch prompt.Kind {
	case KindRating:
		return "8.5 This mock analysis suggests a strong team with good tactical fit, but perhaps a slight weakness in aerial duels. Still, a solid 8.5! They're almost as good as my imaginary team that always wins. Almost. 😉", nil
	case KindMatch:
		opponent := "their opponents"
		if match := opponentPattern.FindStringSubmatch(prompt.Text); match != nil {
			opponent = match[1]
		}
		return fmt.Sprintf("Mock simulation: England played against %s and the match ended in a 1-1 draw. Both teams showed great spirit, but neither could clinch the victory.", opponent), nil
	case KindPersonality:
		return "Based on your England XI selection, you exhibit a strategic mindset with a preference for balanced gameplay. Your choices suggest you're a team player who values both defensive stability and creative attacking options. You likely approach challenges methodically but aren't afraid to take calculated risks.", nil
	default:
		return "", fmt.Errorf("mock generator: unknown prompt kind %q", prompt.Kind)
	}
}
