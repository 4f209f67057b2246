package service

import (
	"context"
	"log/slog"

	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
	"github.com/gamesync/gamesync-server/internal/suggest"
)

// SuggestionService asks the configured model for a session time and place.
type SuggestionService struct {
	suggester suggest.Suggester
	logger    *slog.Logger
}

// NewSuggestionService creates a new suggestion service.
func NewSuggestionService(suggester suggest.Suggester, logger *slog.Logger) *SuggestionService {
	return &SuggestionService{suggester: suggester, logger: logger}
}

// Suggest proposes a time and location. The call is made once; failures are
// returned to the caller as is.
func (s *SuggestionService) Suggest(ctx context.Context, actor Actor, req suggest.Request) (*suggest.Suggestion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res, err := s.suggester.Suggest(ctx, req)
	if err != nil {
		if !domainerrors.Is(err, domainerrors.ErrUnavailable) {
			s.logger.Warn("suggestion failed", "user_id", actor.UserID, "error", err)
		}
		return nil, err
	}
	return res, nil
}
