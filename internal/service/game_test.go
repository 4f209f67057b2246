package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamesync/gamesync-server/internal/domain"
	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
	"github.com/gamesync/gamesync-server/internal/search"
	"github.com/gamesync/gamesync-server/internal/taxonomy"
)

func TestGameService_CreateEnsuresTags(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	g, err := env.games.Create(ctx, CreateGameRequest{
		Name:       "Twilight Imperium",
		MinPlayers: 3,
		MaxPlayers: 6,
		Tags:       []string{"theme:Space", "Era:Future", "theme:Space"},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.TagRef{
		{Category: domain.CategoryTheme, Name: "Space"},
		{Category: "era", Name: "Future"},
	}, g.Tags, "refs are normalized and deduplicated")

	tags, err := env.tags.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	// A second game reuses the existing records.
	env.createGame(t, "Eclipse", "theme:Space")
	tags, err = env.tags.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestGameService_CreateValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateGameRequest
	}{
		{"blank name", CreateGameRequest{Name: " "}},
		{"max below min", CreateGameRequest{Name: "X", MinPlayers: 4, MaxPlayers: 2}},
		{"bad tag", CreateGameRequest{Name: "X", Tags: []string{"nocolon"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.games.Create(ctx, tt.req)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
		})
	}
}

func TestGameService_ListFilters(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.createGame(t, "Wingspan", "theme:Nature", "mechanics:Engine Building")
	env.createGame(t, "Terraforming Mars", "theme:Space", "mechanics:Engine Building")
	env.createGame(t, "Cosmic Encounter", "theme:Space")

	games, err := env.games.List(ctx, GameFilter{})
	require.NoError(t, err)
	assert.Len(t, games, 3)

	games, err = env.games.List(ctx, GameFilter{Tags: []domain.TagRef{
		{Category: domain.CategoryTheme, Name: "Space"},
		{Category: domain.CategoryMechanics, Name: "Engine Building"},
	}})
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Terraforming Mars", games[0].Name)

	games, err = env.games.List(ctx, GameFilter{Search: "cosmic"})
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "Cosmic Encounter", games[0].Name)
}

func TestGameService_FilterBadges(t *testing.T) {
	env := setupTestEnv(t)

	badges := env.games.FilterBadges([]domain.TagRef{
		{Category: domain.CategoryMechanics, Name: "Drafting"},
		{Category: domain.CategoryTheme, Name: "Space"},
	})
	assert.Equal(t, []taxonomy.Badge{
		{Category: domain.CategoryTheme, Name: "Space"},
		{Category: domain.CategoryMechanics, Name: "Drafting"},
	}, badges)
}

func TestGameService_Update(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	gameID := env.createGame(t, "Catan", "type:Strategy")

	g, err := env.games.Update(ctx, gameID, UpdateGameRequest{
		Description:     ptr("Trade and build"),
		PlayTimeMinutes: ptr(90),
	})
	require.NoError(t, err)
	assert.Equal(t, "Trade and build", g.Description)

	stored, err := env.games.Get(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, 90, stored.PlayTimeMinutes)
	assert.Equal(t, "Catan", stored.Name)
	assert.Len(t, stored.Tags, 1, "update never touches tags")

	_, err = env.games.Update(ctx, gameID, UpdateGameRequest{MaxPlayers: ptr(1)})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	_, err = env.games.Update(ctx, "game-missing", UpdateGameRequest{Name: ptr("X")})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestGameService_SetTags(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	gameID := env.createGame(t, "Catan", "type:Strategy")

	g, err := env.games.SetTags(ctx, gameID, SetTagsRequest{Tags: []string{"mechanics:Trading", "theme:Island"}})
	require.NoError(t, err)
	assert.Equal(t, []domain.TagRef{
		{Category: domain.CategoryMechanics, Name: "Trading"},
		{Category: domain.CategoryTheme, Name: "Island"},
	}, g.Tags)

	res, err := env.games.Search(ctx, search.Params{Query: "trading"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)
	assert.Equal(t, gameID, res.Hits[0].ID)
}

func TestGameService_DeleteRemovesFromCollections(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	gameID := env.createGame(t, "Catan")
	keepID := env.createGame(t, "Carcassonne")
	_, err := env.collections.Add(ctx, member.UserID, domain.CollectionOwned, gameID)
	require.NoError(t, err)
	_, err = env.collections.Add(ctx, member.UserID, domain.CollectionOwned, keepID)
	require.NoError(t, err)

	require.NoError(t, env.games.Delete(ctx, gameID))

	_, err = env.games.Get(ctx, gameID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	owned, err := env.collections.Get(ctx, member.UserID, domain.CollectionOwned)
	require.NoError(t, err)
	assert.Equal(t, []string{keepID}, owned.GameIDs)

	count, err := env.index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestGameService_DeleteIsAtomic(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	gameID := env.createGame(t, "Catan")
	_, err := env.collections.Add(ctx, member.UserID, domain.CollectionWishlist, gameID)
	require.NoError(t, err)

	env.store.FailBatches(1)
	err = env.games.Delete(ctx, gameID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrStore))

	_, err = env.games.Get(ctx, gameID)
	require.NoError(t, err)
	wishlist, err := env.collections.Get(ctx, member.UserID, domain.CollectionWishlist)
	require.NoError(t, err)
	assert.Equal(t, []string{gameID}, wishlist.GameIDs)
}
