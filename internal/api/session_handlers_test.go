package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamesync/gamesync-server/internal/domain"
)

func (ts *testServer) createSession(t *testing.T, token, gameID string, maxPlayers int) domain.PlaySession {
	t.Helper()
	resp := ts.api.Post("/api/v1/sessions", bearer(token), map[string]any{
		"game_id":      gameID,
		"scheduled_at": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"location":     "Community Hall",
		"max_players":  maxPlayers,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	return testEnvelope[domain.PlaySession](t, resp.Body.Bytes()).Data
}

func TestSessions_CreateJoinLeave(t *testing.T) {
	ts := setupTestServer(t)
	game := ts.createGame(t, "Azul")

	session := ts.createSession(t, ts.adminToken, game.ID, 0)
	assert.Equal(t, 5, session.MaxPlayers, "falls back to the game's maximum")
	require.Len(t, session.PlayerIDs, 1)

	resp := ts.api.Post("/api/v1/sessions/"+session.ID+"/join", bearer(ts.memberToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Len(t, testEnvelope[domain.PlaySession](t, resp.Body.Bytes()).Data.PlayerIDs, 2)

	resp = ts.api.Post("/api/v1/sessions/"+session.ID+"/leave", bearer(ts.memberToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Len(t, testEnvelope[domain.PlaySession](t, resp.Body.Bytes()).Data.PlayerIDs, 1)
}

func TestSessions_JoinFull(t *testing.T) {
	ts := setupTestServer(t)
	game := ts.createGame(t, "Patchwork")
	session := ts.createSession(t, ts.adminToken, game.ID, 1)

	resp := ts.api.Post("/api/v1/sessions/"+session.ID+"/join", bearer(ts.memberToken))
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, "CONFLICT", testEnvelope[any](t, resp.Body.Bytes()).Code)
}

func TestSessions_CreateInPast(t *testing.T) {
	ts := setupTestServer(t)
	game := ts.createGame(t, "Azul")

	resp := ts.api.Post("/api/v1/sessions", bearer(ts.memberToken), map[string]any{
		"game_id":      game.ID,
		"scheduled_at": time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
		"location":     "Cafe",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSessions_CancelOnlyByHost(t *testing.T) {
	ts := setupTestServer(t)
	game := ts.createGame(t, "Azul")
	session := ts.createSession(t, ts.adminToken, game.ID, 0)

	resp := ts.api.Delete("/api/v1/sessions/"+session.ID, bearer(ts.memberToken))
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Delete("/api/v1/sessions/"+session.ID, bearer(ts.adminToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, domain.SessionCancelled, testEnvelope[domain.PlaySession](t, resp.Body.Bytes()).Data.Status)

	resp = ts.api.Get("/api/v1/sessions", bearer(ts.memberToken))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, testEnvelope[struct {
		Sessions []domain.PlaySession `json:"sessions"`
	}](t, resp.Body.Bytes()).Data.Sessions)
}

func TestSessions_GetUnknown(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/sessions/session-missing", bearer(ts.memberToken))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
