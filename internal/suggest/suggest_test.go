package suggest

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
)

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"valid", Request{GameName: "Wingspan", Locations: []string{"Cafe"}}, false},
		{"blank game", Request{GameName: "  ", Locations: []string{"Cafe"}}, true},
		{"no locations", Request{GameName: "Wingspan"}, true},
		{"blank locations", Request{GameName: "Wingspan", Locations: []string{" ", ""}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(Request{
		GameName:    " Wingspan ",
		Preferences: []string{"weekday evenings", " "},
		Locations:   []string{"Board Game Cafe", "Alex's place"},
	})

	assert.Contains(t, prompt, "Game: Wingspan\n")
	assert.Contains(t, prompt, "- weekday evenings\n")
	assert.Contains(t, prompt, "- Board Game Cafe\n")
	assert.Contains(t, prompt, "- Alex's place\n")
	assert.NotContains(t, prompt, "- \n")
}

func TestBuildPrompt_NoPreferences(t *testing.T) {
	prompt := buildPrompt(Request{GameName: "Catan", Locations: []string{"Library"}})
	assert.Contains(t, prompt, "Player preferences: none given")
}

func TestParseSuggestion(t *testing.T) {
	s, err := parseSuggestion(`{"time":"Friday 7pm","location":"Cafe","reasoning":"Everyone is free"}`)
	require.NoError(t, err)
	assert.Equal(t, &Suggestion{Time: "Friday 7pm", Location: "Cafe", Reasoning: "Everyone is free"}, s)
}

func TestParseSuggestion_CodeFence(t *testing.T) {
	s, err := parseSuggestion("```json\n{\"time\":\"Sat noon\",\"location\":\"Park\",\"reasoning\":\"\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Park", s.Location)
}

func TestParseSuggestion_Invalid(t *testing.T) {
	for _, text := range []string{"", "not json", `{"time":"Friday"}`} {
		_, err := parseSuggestion(text)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrUnavailable), text)
	}
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Suggest(context.Background(), Request{GameName: "Catan"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnavailable))
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiConfig{}, slog.New(slog.DiscardHandler))
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestGemini_RejectsInvalidRequestBeforeCalling(t *testing.T) {
	g, err := NewGemini(context.Background(), GeminiConfig{APIKey: "test-key"}, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	_, err = g.Suggest(context.Background(), Request{})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestSuggestionSchema(t *testing.T) {
	schema := suggestionSchema()
	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.ElementsMatch(t, []string{"time", "location", "reasoning"}, schema.Required)
	for _, key := range schema.Required {
		assert.Contains(t, schema.Properties, key)
	}
}
