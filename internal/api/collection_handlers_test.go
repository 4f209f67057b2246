package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamesync/gamesync-server/internal/domain"
)

func TestCollections_OwnedClearsWishlist(t *testing.T) {
	ts := setupTestServer(t)
	game := ts.createGame(t, "Azul")

	resp := ts.api.Put("/api/v1/collections/wishlist/games/"+game.ID, bearer(ts.memberToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, []string{game.ID}, testEnvelope[domain.Collection](t, resp.Body.Bytes()).Data.GameIDs)

	resp = ts.api.Put("/api/v1/collections/owned/games/"+game.ID, bearer(ts.memberToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/collections/wishlist", bearer(ts.memberToken))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, testEnvelope[domain.Collection](t, resp.Body.Bytes()).Data.GameIDs)

	resp = ts.api.Delete("/api/v1/collections/owned/games/"+game.ID, bearer(ts.memberToken))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Empty(t, testEnvelope[domain.Collection](t, resp.Body.Bytes()).Data.GameIDs)
}

func TestCollections_PerUser(t *testing.T) {
	ts := setupTestServer(t)
	game := ts.createGame(t, "Azul")

	resp := ts.api.Put("/api/v1/collections/owned/games/"+game.ID, bearer(ts.memberToken))
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/collections/owned", bearer(ts.adminToken))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, testEnvelope[domain.Collection](t, resp.Body.Bytes()).Data.GameIDs)
}

func TestCollections_UnknownKindAndGame(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/collections/favourites", bearer(ts.memberToken))
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Put("/api/v1/collections/owned/games/game-missing", bearer(ts.memberToken))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
