// Package suggest asks a generative model to propose a time and place for a
// play session.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
)

// Request is the input to a suggestion.
type Request struct {
	GameName    string   `json:"game_name"`
	Preferences []string `json:"preferences"` // Free-text player preferences
	Locations   []string `json:"locations"`   // Candidate locations
}

// Suggestion is the model's proposal.
type Suggestion struct {
	Time      string `json:"time"`
	Location  string `json:"location"`
	Reasoning string `json:"reasoning"`
}

// Suggester produces session suggestions. Calls are not retried.
type Suggester interface {
	Suggest(ctx context.Context, req Request) (*Suggestion, error)
}

// Disabled is the Suggester used when no model is configured.
type Disabled struct{}

// Suggest always reports the feature as unavailable.
func (Disabled) Suggest(context.Context, Request) (*Suggestion, error) {
	return nil, domainerrors.Unavailable("suggestions are not configured")
}

// Validate checks a request before it is sent anywhere.
func (r Request) Validate() error {
	if strings.TrimSpace(r.GameName) == "" {
		return domainerrors.Validation("game name is required")
	}
	if len(nonEmpty(r.Locations)) == 0 {
		return domainerrors.Validation("at least one location is required")
	}
	return nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// buildPrompt renders the user prompt for a request.
func buildPrompt(req Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Game: %s\n", strings.TrimSpace(req.GameName))

	prefs := nonEmpty(req.Preferences)
	if len(prefs) == 0 {
		b.WriteString("Player preferences: none given\n")
	} else {
		b.WriteString("Player preferences:\n")
		for _, p := range prefs {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}

	b.WriteString("Candidate locations:\n")
	for _, l := range nonEmpty(req.Locations) {
		fmt.Fprintf(&b, "- %s\n", l)
	}
	return b.String()
}

// parseSuggestion decodes the model's JSON answer.
func parseSuggestion(text string) (*Suggestion, error) {
	text = strings.TrimSpace(text)
	// Some models wrap JSON in a code fence even when asked not to.
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var s Suggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &s); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "decode suggestion")
	}
	if s.Time == "" || s.Location == "" {
		return nil, domainerrors.Unavailable("suggestion is missing time or location")
	}
	return &s, nil
}
