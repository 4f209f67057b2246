package catalog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamesync/gamesync-server/internal/docstore"
	"github.com/gamesync/gamesync-server/internal/docstore/memstore"
	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
)

// countingStore counts ReadAll calls per collection.
type countingStore struct {
	*memstore.Store
	reads sync.Map
}

func (s *countingStore) ReadAll(ctx context.Context, collection string) ([]docstore.Document, error) {
	n, _ := s.reads.LoadOrStore(collection, new(atomic.Int64))
	n.(*atomic.Int64).Add(1)
	return s.Store.ReadAll(ctx, collection)
}

func (s *countingStore) readCount(collection string) int64 {
	n, ok := s.reads.Load(collection)
	if !ok {
		return 0
	}
	return n.(*atomic.Int64).Load()
}

func newTestCatalog(t *testing.T) (*Catalog, *countingStore) {
	t.Helper()
	st := &countingStore{Store: memstore.New()}
	require.NoError(t, st.Put(docstore.Games, "game-1", map[string]any{
		"name": "Azul",
		"tags": []any{map[string]any{"category": "theme", "name": "Tiles"}},
	}))
	require.NoError(t, st.Put(docstore.Tags, "tag-1", map[string]any{"category": "theme", "name": "Tiles"}))
	return New(st, slog.New(slog.DiscardHandler)), st
}

func TestGames_LoadsOnce(t *testing.T) {
	c, st := newTestCatalog(t)
	ctx := context.Background()

	for range 3 {
		games, err := c.Games(ctx)
		require.NoError(t, err)
		require.Len(t, games, 1)
		assert.Equal(t, "Azul", games[0].Name)
		assert.Equal(t, "game-1", games[0].ID)
	}
	assert.Equal(t, int64(1), st.readCount(docstore.Games))
}

func TestInvalidate_Reloads(t *testing.T) {
	c, st := newTestCatalog(t)
	ctx := context.Background()

	_, err := c.Tags(ctx)
	require.NoError(t, err)

	require.NoError(t, st.Put(docstore.Tags, "tag-2", map[string]any{"category": "theme", "name": "Space"}))
	tags, err := c.Tags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 1, "cached until invalidated")

	c.Invalidate()
	tags, err = c.Tags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
	assert.Equal(t, int64(2), st.readCount(docstore.Tags))
}

func TestGames_ReturnsCopy(t *testing.T) {
	c, _ := newTestCatalog(t)
	ctx := context.Background()

	games, err := c.Games(ctx)
	require.NoError(t, err)
	games[0].Name = "mutated"

	again, err := c.Games(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Azul", again[0].Name)
}

func TestGames_ConcurrentLoadsCollapse(t *testing.T) {
	c, st := newTestCatalog(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			_, err := c.Games(ctx)
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	assert.LessOrEqual(t, st.readCount(docstore.Games), int64(20))
	games, err := c.Games(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}

func TestSnapshot(t *testing.T) {
	c, _ := newTestCatalog(t)

	snap, err := c.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Games, 1)
	assert.Len(t, snap.Tags, 1)
}

func TestFresh_BypassesCache(t *testing.T) {
	c, st := newTestCatalog(t)
	ctx := context.Background()

	_, err := c.Snapshot(ctx)
	require.NoError(t, err)
	require.NoError(t, st.Put(docstore.Games, "game-2", map[string]any{"name": "Catan"}))

	snap, err := c.Fresh(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Games, 2)
}

func TestGames_StoreErrorNotCached(t *testing.T) {
	st := memstore.New()
	c := New(st, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Games(ctx)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrStore))

	games, err := c.Games(context.Background())
	require.NoError(t, err)
	assert.Empty(t, games)
}
