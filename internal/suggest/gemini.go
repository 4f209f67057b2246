package suggest

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/genai"

	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
)

const systemPrompt = `You help a board game group plan a play session.
Given the game, the players' preferences and the candidate locations, pick one
location from the candidates and a time that suits the preferences.
Answer with JSON only.`

// GeminiConfig configures the Gemini-backed suggester.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Gemini implements Suggester with Google's Gemini API.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewGemini creates a Gemini suggester.
func NewGemini(ctx context.Context, cfg GeminiConfig, logger *slog.Logger) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, domainerrors.Validation("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "create gemini client")
	}

	return &Gemini{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// Suggest sends one request to the model.
func (g *Gemini) Suggest(ctx context.Context, req Request) (*Suggestion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(req)), generateConfig())
	if err != nil {
		g.logger.Warn("suggestion request failed", "model", g.model, "error", err)
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "request suggestion")
	}

	s, err := parseSuggestion(resp.Text())
	if err != nil {
		return nil, err
	}

	g.logger.Info("suggestion generated",
		"model", g.model,
		"game", req.GameName,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return s, nil
}

func generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.4),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    suggestionSchema(),
	}
}

func suggestionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"time":      {Type: genai.TypeString, Description: "Suggested date and time, human readable"},
			"location":  {Type: genai.TypeString, Description: "One of the candidate locations"},
			"reasoning": {Type: genai.TypeString, Description: "Short explanation for the players"},
		},
		Required:         []string{"time", "location", "reasoning"},
		PropertyOrdering: []string{"time", "location", "reasoning"},
	}
}
