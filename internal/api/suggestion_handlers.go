package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gamesync/gamesync-server/internal/suggest"
)

func (s *Server) registerSuggestionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "suggestSession",
		Method:      http.MethodPost,
		Path:        "/api/v1/suggestions",
		Summary:     "Suggest time and place",
		Description: "Asks the AI suggestion service for a session time and location. Rate limited per user.",
		Tags:        []string{"Suggestions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSuggest)
}

// SuggestInput wraps the suggestion request for Huma.
type SuggestInput struct {
	Body struct {
		GameName    string   `json:"game_name" doc:"Game the group wants to play"`
		Preferences []string `json:"preferences,omitempty" doc:"Free-text player preferences"`
		Locations   []string `json:"locations" doc:"Candidate locations" minItems:"1"`
	}
}

// SuggestOutput wraps the suggestion for Huma.
type SuggestOutput struct {
	Body *suggest.Suggestion
}

func (s *Server) handleSuggest(ctx context.Context, input *SuggestInput) (*SuggestOutput, error) {
	actor, err := GetActor(ctx)
	if err != nil {
		return nil, toAPIError(err)
	}
	if err := s.checkRateLimit(ctx, s.suggestLimiter, actor.UserID); err != nil {
		return nil, toAPIError(err)
	}

	res, err := s.services.Suggestions.Suggest(ctx, actor, suggest.Request{
		GameName:    input.Body.GameName,
		Preferences: input.Body.Preferences,
		Locations:   input.Body.Locations,
	})
	if err != nil {
		return nil, toAPIError(err)
	}
	return &SuggestOutput{Body: res}, nil
}
