package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/gamesync/gamesync-server/internal/auth"
	"github.com/gamesync/gamesync-server/internal/catalog"
	"github.com/gamesync/gamesync-server/internal/docstore/memstore"
	"github.com/gamesync/gamesync-server/internal/search"
	"github.com/gamesync/gamesync-server/internal/taxonomy"
)

// testEnv wires every service over an in-memory store and index.
type testEnv struct {
	store       *memstore.Store
	catalog     *catalog.Catalog
	index       *search.GameIndex
	tokens      *auth.TokenService
	tags        *TagService
	games       *GameService
	sessions    *PlaySessionService
	collections *CollectionService
	users       *UserService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	st := memstore.New()
	cat := catalog.New(st, logger)
	manager := taxonomy.NewManager(st, taxonomy.NewRegistry(), language.English, logger)

	index, err := search.NewGameIndex(search.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	key := make([]byte, auth.KeyLength)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	return &testEnv{
		store:       st,
		catalog:     cat,
		index:       index,
		tokens:      tokens,
		tags:        NewTagService(cat, manager, index, logger),
		games:       NewGameService(st, cat, manager, index, logger),
		sessions:    NewPlaySessionService(st, logger),
		collections: NewCollectionService(st, logger),
		users:       NewUserService(st, tokens, logger),
	}
}

func ptr[T any](v T) *T { return &v }

var (
	admin  = Actor{UserID: "user-admin", Admin: true}
	member = Actor{UserID: "user-member"}
	other  = Actor{UserID: "user-other"}
)

func (e *testEnv) createGame(t *testing.T, name string, tags ...string) string {
	t.Helper()
	g, err := e.games.Create(context.Background(), CreateGameRequest{
		Name:       name,
		MinPlayers: 2,
		MaxPlayers: 4,
		Tags:       tags,
	})
	require.NoError(t, err)
	return g.ID
}
