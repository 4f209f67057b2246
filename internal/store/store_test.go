package store

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamesync/gamesync-server/internal/docstore"
	"github.com/gamesync/gamesync-server/internal/docstore/storetest"
)

// setupTestStore creates a temporary store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "gamesync-store-test-*")
	require.NoError(t, err)

	s, err := New(tmpDir, nil)
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return s, cleanup
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) docstore.Store {
		s, cleanup := setupTestStore(t)
		t.Cleanup(cleanup)
		return s
	})
}

func TestNew_CreatesDatabase(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NotNil(t, s.db)
}

func TestReadAll_DoesNotLeakAcrossPrefixes(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	// "games" must not match a hypothetical "games2" collection.
	_, err := s.Create(ctx, "games2", map[string]any{"name": "Other"})
	require.NoError(t, err)
	_, err = s.Create(ctx, docstore.Games, map[string]any{"name": "Azul"})
	require.NoError(t, err)

	docs, err := s.ReadAll(ctx, docstore.Games)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Azul", docs[0].Fields["name"])
}

func TestData_SurvivesReopen(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()

	s, err := New(tmpDir, nil)
	require.NoError(t, err)
	docID, err := s.Create(ctx, docstore.Tags, map[string]any{"category": "theme", "name": "Space"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = New(tmpDir, nil)
	require.NoError(t, err)
	defer s.Close()

	doc, err := s.Get(ctx, docstore.Tags, docID)
	require.NoError(t, err)
	assert.Equal(t, "Space", doc.Fields["name"])
}

func TestAtomicBatch_ManyGames(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	var ops []docstore.Op
	for i := range 200 {
		docID, err := s.Create(ctx, docstore.Games, map[string]any{"name": fmt.Sprintf("Game %d", i)})
		require.NoError(t, err)
		ops = append(ops, docstore.UpdateOp(docstore.Games, docID, map[string]any{"tags": []any{}}))
	}

	require.NoError(t, s.AtomicBatch(ctx, ops))

	docs, err := s.ReadAll(ctx, docstore.Games)
	require.NoError(t, err)
	for _, doc := range docs {
		assert.Contains(t, doc.Fields, "tags")
	}
}
