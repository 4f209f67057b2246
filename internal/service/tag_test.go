package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/gamesync/gamesync-server/internal/catalog"
	"github.com/gamesync/gamesync-server/internal/domain"
	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
	"github.com/gamesync/gamesync-server/internal/search"
	"github.com/gamesync/gamesync-server/internal/taxonomy"
)

func TestTagService_Bootstrap(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.tags.Bootstrap(ctx, true))
	tags, err := env.tags.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, tags)
	assert.Equal(t, domain.CategoryTheme, tags[0].Category, "list follows category display order")

	// Seeding twice creates nothing new.
	require.NoError(t, env.tags.Bootstrap(ctx, true))
	again, err := env.tags.List(ctx)
	require.NoError(t, err)
	assert.Len(t, again, len(tags))
}

func TestTagService_BootstrapKeepsOrphanedCategories(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.createGame(t, "Azul", "player-count:2-4")
	tags, err := env.tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	_, err = env.tags.Delete(ctx, tags[0].ID)
	require.NoError(t, err)

	// A restart starts from an empty registry over the same store.
	logger := slog.New(slog.DiscardHandler)
	cat := catalog.New(env.store, logger)
	manager := taxonomy.NewManager(env.store, taxonomy.NewRegistry(), language.English, logger)
	restarted := NewTagService(cat, manager, env.index, logger)
	require.NoError(t, restarted.Bootstrap(ctx, false))

	categorized, err := restarted.Categorized(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2-4"}, categorized["player-count"])
}

func TestTagService_Create(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	tag, err := env.tags.Create(ctx, CreateTagRequest{Category: "Player Count", Name: "Two Player"})
	require.NoError(t, err)
	assert.Equal(t, domain.Category("player-count"), tag.Category)

	_, err = env.tags.Create(ctx, CreateTagRequest{Category: "player-count", Name: "Two Player"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))

	_, err = env.tags.Create(ctx, CreateTagRequest{Category: "theme", Name: "  "})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	keys := make([]domain.Category, 0)
	for _, c := range env.tags.Categories() {
		keys = append(keys, c.Key)
	}
	assert.Contains(t, keys, domain.Category("player-count"))
}

func TestTagService_RenameCascadesAndReindexes(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	g1 := env.createGame(t, "7 Wonders", "mechanics:Drafting", "theme:Ancient")
	g2 := env.createGame(t, "Sushi Go", "mechanics:Drafting")
	env.createGame(t, "Pandemic", "interaction:Cooperative")

	// Warm the cache so the rename has to bypass it.
	_, err := env.games.List(ctx, GameFilter{})
	require.NoError(t, err)

	tags, err := env.tags.List(ctx)
	require.NoError(t, err)
	var drafting domain.Tag
	for _, tg := range tags {
		if tg.Name == "Drafting" {
			drafting = tg
		}
	}
	require.NotEmpty(t, drafting.ID)

	res, err := env.tags.Rename(ctx, drafting.ID, "Card Drafting")
	require.NoError(t, err)
	assert.Equal(t, 2, res.UpdatedTagCount)
	assert.ElementsMatch(t, []string{g1, g2}, res.AffectedGameIDs)

	// Catalog reflects the commit.
	cardDrafting := domain.TagRef{Category: domain.CategoryMechanics, Name: "Card Drafting"}
	filtered, err := env.games.List(ctx, GameFilter{Tags: []domain.TagRef{cardDrafting}})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	categorized, err := env.tags.Categorized(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Card Drafting"}, categorized[domain.CategoryMechanics])

	// Search index reflects the commit.
	found, err := env.games.Search(ctx, search.Params{Tags: []domain.TagRef{cardDrafting}})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), found.Total)
}

func TestTagService_RenameUnknownTag(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.tags.Rename(context.Background(), "tag-missing", "Anything")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestTagService_RenameFailureLeavesEverything(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.createGame(t, "Sushi Go", "mechanics:Drafting")
	tags, err := env.tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	env.store.FailBatches(1)
	_, err = env.tags.Rename(ctx, tags[0].ID, "Card Drafting")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrStore))

	after, err := env.tags.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Drafting", after[0].Name)

	categorized, err := env.tags.Categorized(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Drafting"}, categorized[domain.CategoryMechanics])
}

func TestTagService_DeleteKeepsGameValues(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	env.createGame(t, "Pandemic", "interaction:Cooperative")
	env.createGame(t, "Spirit Island", "interaction:Cooperative")
	tags, err := env.tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	res, err := env.tags.Delete(ctx, tags[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.OrphanedGameCount)

	remaining, err := env.tags.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	categorized, err := env.tags.Categorized(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cooperative"}, categorized[domain.CategoryInteraction])

	_, err = env.tags.Delete(ctx, tags[0].ID)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}
