package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/gamesync/gamesync-server/internal/config"
	"github.com/gamesync/gamesync-server/internal/logger"
	"github.com/gamesync/gamesync-server/internal/suggest"
)

// ProvideSuggester provides the AI suggestion client, or a disabled stand-in
// when no API key is configured.
func ProvideSuggester(i do.Injector) (suggest.Suggester, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.SuggestionsEnabled() {
		log.Info("AI suggestions disabled (GEMINI_API_KEY not set)")
		return suggest.Disabled{}, nil
	}

	client, err := suggest.NewGemini(context.Background(), suggest.GeminiConfig{
		APIKey:  cfg.Suggest.APIKey,
		Model:   cfg.Suggest.Model,
		Timeout: cfg.Suggest.Timeout,
	}, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("AI suggestions enabled", "model", cfg.Suggest.Model)
	return client, nil
}
