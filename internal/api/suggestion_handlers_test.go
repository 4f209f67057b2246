package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
	"github.com/gamesync/gamesync-server/internal/suggest"
)

func suggestBody() map[string]any {
	return map[string]any{
		"game_name":   "Azul",
		"preferences": []string{"weekend evenings"},
		"locations":   []string{"Community Hall", "Cafe"},
	}
}

func TestSuggestions_ReturnsSuggestion(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/suggestions", bearer(ts.memberToken), suggestBody())
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	s := testEnvelope[suggest.Suggestion](t, resp.Body.Bytes()).Data
	assert.Equal(t, "Community Hall", s.Location)
	assert.Equal(t, "Saturday 19:00", s.Time)
	assert.Equal(t, 1, ts.suggester.calls)
}

func TestSuggestions_ServiceUnavailable(t *testing.T) {
	ts := setupTestServer(t)
	ts.suggester.err = domainerrors.Unavailable("suggestions are not configured")

	resp := ts.api.Post("/api/v1/suggestions", bearer(ts.memberToken), suggestBody())
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, "UNAVAILABLE", testEnvelope[any](t, resp.Body.Bytes()).Code)
	assert.Equal(t, 1, ts.suggester.calls, "no retry")
}

func TestSuggestions_RateLimitedPerUser(t *testing.T) {
	ts := setupTestServer(t)

	for range 3 {
		resp := ts.api.Post("/api/v1/suggestions", bearer(ts.memberToken), suggestBody())
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Post("/api/v1/suggestions", bearer(ts.memberToken), suggestBody())
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMITED", testEnvelope[any](t, resp.Body.Bytes()).Code)

	// Another user has their own budget.
	resp = ts.api.Post("/api/v1/suggestions", bearer(ts.adminToken), suggestBody())
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestSuggestions_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/suggestions", suggestBody())
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Zero(t, ts.suggester.calls)
}
