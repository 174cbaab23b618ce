package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/gossip-village/pkg/prompts"
	"google.golang.org/genai"
)

const DefaultGeminiTemperature float32 = 0.9

// GeminiCompleter talks to Gemini through the Gen AI SDK, either with an API
// key or through Vertex AI.
type GeminiCompleter struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// GeminiConfig selects the backend: APIKey for the Gemini API, or Project and
// Location for Vertex AI.
type GeminiConfig struct {
	APIKey   string
	Project  string
	Location string
	Model    string
}

func NewGeminiCompleter(ctx context.Context, cfg GeminiConfig, logger *slog.Logger) (*GeminiCompleter, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.APIKey == "" {
		cc = &genai.ClientConfig{
			Project:  cfg.Project,
			Location: cfg.Location,
			Backend:  genai.BackendVertexAI,
		}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiCompleter{client: client, model: cfg.Model, logger: logger}, nil
}

func (g *GeminiCompleter) Name() string {
	return "gemini/" + g.model
}

func (g *GeminiCompleter) Complete(ctx context.Context, p prompts.Prompt) (string, error) {
	temp := DefaultGeminiTemperature
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}
	if p.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: p.System}},
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(p.User), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini returned no text")
	}
	return text, nil
}

func extractText(res *genai.GenerateContentResponse) string {
	if res == nil || len(res.Candidates) == 0 {
		return ""
	}
	for _, c := range res.Candidates {
		if c.Content == nil {
			continue
		}
		var out string
		for _, p := range c.Content.Parts {
			out += p.Text
		}
		if out != "" {
			return out
		}
	}
	return ""
}
