package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"heroxi-backend/internal/domain"
	"heroxi-backend/pkg/logger"
)

const geminiTimeout = 30 * time.Second

// Gemini generates text through the Google Gen AI SDK
type Gemini struct {
	client *genai.Client
	model  string
	logger *logger.Logger
}

// NewGemini creates a Gemini generator authenticated with an API key
func NewGemini(ctx context.Context, apiKey, model string, log *logger.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  model,
		logger: log.Component("gemini"),
	}, nil
}

// Generate sends prompt as a single user turn and returns the response text
func (g *Gemini) Generate(ctx context.Context, prompt Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, geminiTimeout)
	defer cancel()

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt.Text), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.8),
		MaxOutputTokens: 512,
	})
	log := g.logger.WithFields(map[string]interface{}{
		"prompt":   string(prompt.Kind),
		"model":    g.model,
		"duration": time.Since(start).String(),
	})
	if err != nil {
		log.WithError(err).Error("Gemini request failed")
		return "", fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		log.Error("Gemini returned an empty response")
		return "", fmt.Errorf("%w: empty response", domain.ErrProviderFailure)
	}

	log.Debug("Gemini request completed")
	return text, nil
}
