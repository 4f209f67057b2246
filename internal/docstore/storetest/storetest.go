// Package storetest holds the behavior tests every docstore.Store backend must pass.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamesync/gamesync-server/internal/docstore"
)

// Factory opens a fresh, empty store. It should register its own cleanup.
type Factory func(t *testing.T) docstore.Store

// Run executes the conformance suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("CreateGetReadAll", func(t *testing.T) { testCreateGetReadAll(t, newStore(t)) })
	t.Run("UpdateMerges", func(t *testing.T) { testUpdateMerges(t, newStore(t)) })
	t.Run("MissingDocuments", func(t *testing.T) { testMissingDocuments(t, newStore(t)) })
	t.Run("BatchCommitsAll", func(t *testing.T) { testBatchCommitsAll(t, newStore(t)) })
	t.Run("BatchRollsBackOnMissing", func(t *testing.T) { testBatchRollsBackOnMissing(t, newStore(t)) })
	t.Run("TransformReadsCurrentFields", func(t *testing.T) { testTransformReadsCurrentFields(t, newStore(t)) })
	t.Run("TransformErrorRollsBack", func(t *testing.T) { testTransformErrorRollsBack(t, newStore(t)) })
	t.Run("BatchRejectsInvalidOp", func(t *testing.T) { testBatchRejectsInvalidOp(t, newStore(t)) })
	t.Run("CollectionsAreIsolated", func(t *testing.T) { testCollectionsAreIsolated(t, newStore(t)) })
	t.Run("CanceledContext", func(t *testing.T) { testCanceledContext(t, newStore(t)) })
}

func testCreateGetReadAll(t *testing.T, s docstore.Store) {
	ctx := context.Background()

	id1, err := s.Create(ctx, docstore.Tags, map[string]any{"category": "theme", "name": "Space"})
	require.NoError(t, err)
	id2, err := s.Create(ctx, docstore.Tags, map[string]any{"category": "mechanics", "name": "Drafting"})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	doc, err := s.Get(ctx, docstore.Tags, id1)
	require.NoError(t, err)
	assert.Equal(t, id1, doc.ID)
	assert.Equal(t, "Space", doc.Fields["name"])
	assert.NotContains(t, doc.Fields, "id")

	docs, err := s.ReadAll(ctx, docstore.Tags)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	empty, err := s.ReadAll(ctx, docstore.Games)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testUpdateMerges(t *testing.T, s docstore.Store) {
	ctx := context.Background()

	docID, err := s.Create(ctx, docstore.Tags, map[string]any{"category": "mechanics", "name": "Drafting"})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, docstore.Tags, docID, map[string]any{"name": "Card Drafting"}))

	doc, err := s.Get(ctx, docstore.Tags, docID)
	require.NoError(t, err)
	assert.Equal(t, "Card Drafting", doc.Fields["name"])
	assert.Equal(t, "mechanics", doc.Fields["category"], "untouched fields are kept")
}

func testMissingDocuments(t *testing.T, s docstore.Store) {
	ctx := context.Background()

	_, err := s.Get(ctx, docstore.Tags, "tag-missing")
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	err = s.Update(ctx, docstore.Tags, "tag-missing", map[string]any{"name": "x"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	err = s.Delete(ctx, docstore.Tags, "tag-missing")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func testBatchCommitsAll(t *testing.T, s docstore.Store) {
	ctx := context.Background()

	tagID, err := s.Create(ctx, docstore.Tags, map[string]any{"category": "mechanics", "name": "Drafting"})
	require.NoError(t, err)
	gameID, err := s.Create(ctx, docstore.Games, map[string]any{
		"name": "Sushi Go",
		"tags": []any{map[string]any{"category": "mechanics", "name": "Drafting"}},
	})
	require.NoError(t, err)
	doomedID, err := s.Create(ctx, docstore.Games, map[string]any{"name": "Doomed"})
	require.NoError(t, err)

	err = s.AtomicBatch(ctx, []docstore.Op{
		docstore.UpdateOp(docstore.Tags, tagID, map[string]any{"name": "Card Drafting"}),
		docstore.UpdateOp(docstore.Games, gameID, map[string]any{
			"tags": []any{map[string]any{"category": "mechanics", "name": "Card Drafting"}},
		}),
		docstore.DeleteOp(docstore.Games, doomedID),
	})
	require.NoError(t, err)

	tag, err := s.Get(ctx, docstore.Tags, tagID)
	require.NoError(t, err)
	assert.Equal(t, "Card Drafting", tag.Fields["name"])

	game, err := s.Get(ctx, docstore.Games, gameID)
	require.NoError(t, err)
	assert.Equal(t, "Sushi Go", game.Fields["name"])
	tags, ok := game.Fields["tags"].([]any)
	require.True(t, ok)
	require.Len(t, tags, 1)
	assert.Equal(t, "Card Drafting", tags[0].(map[string]any)["name"])

	_, err = s.Get(ctx, docstore.Games, doomedID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func testBatchRollsBackOnMissing(t *testing.T, s docstore.Store) {
	ctx := context.Background()

	tagID, err := s.Create(ctx, docstore.Tags, map[string]any{"category": "mechanics", "name": "Drafting"})
	require.NoError(t, err)

	err = s.AtomicBatch(ctx, []docstore.Op{
		docstore.UpdateOp(docstore.Tags, tagID, map[string]any{"name": "Card Drafting"}),
		docstore.UpdateOp(docstore.Games, "game-missing", map[string]any{"tags": []any{}}),
	})
	require.ErrorIs(t, err, docstore.ErrNotFound)

	tag, err := s.Get(ctx, docstore.Tags, tagID)
	require.NoError(t, err)
	assert.Equal(t, "Drafting", tag.Fields["name"], "no op of a failed batch may land")
}

func testTransformReadsCurrentFields(t *testing.T, s docstore.Store) {
	ctx := context.Background()

	gameID, err := s.Create(ctx, docstore.Games, map[string]any{"name": "Sushi Go", "plays": float64(1)})
	require.NoError(t, err)
	require.NoError(t, s.Update(ctx, docstore.Games, gameID, map[string]any{"plays": float64(2)}))

	increment := func(fields map[string]any) (map[string]any, error) {
		return map[string]any{"plays": fields["plays"].(float64) + 1}, nil
	}
	unchanged := func(map[string]any) (map[string]any, error) { return nil, nil }
	require.NoError(t, s.AtomicBatch(ctx, []docstore.Op{
		docstore.TransformOp(docstore.Games, gameID, increment),
		docstore.TransformOp(docstore.Games, gameID, increment),
		docstore.TransformOp(docstore.Games, gameID, unchanged),
	}))

	doc, err := s.Get(ctx, docstore.Games, gameID)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Sushi Go", "plays": float64(4)}, doc.Fields)
}

func testTransformErrorRollsBack(t *testing.T, s docstore.Store) {
	ctx := context.Background()

	tagID, err := s.Create(ctx, docstore.Tags, map[string]any{"name": "Drafting"})
	require.NoError(t, err)
	gameID, err := s.Create(ctx, docstore.Games, map[string]any{"name": "Sushi Go"})
	require.NoError(t, err)

	failed := errors.New("cannot rewrite")
	err = s.AtomicBatch(ctx, []docstore.Op{
		docstore.UpdateOp(docstore.Tags, tagID, map[string]any{"name": "Card Drafting"}),
		docstore.TransformOp(docstore.Games, gameID, func(map[string]any) (map[string]any, error) {
			return nil, failed
		}),
	})
	require.ErrorIs(t, err, failed)

	doc, err := s.Get(ctx, docstore.Tags, tagID)
	require.NoError(t, err)
	assert.Equal(t, "Drafting", doc.Fields["name"])
}

func testBatchRejectsInvalidOp(t *testing.T, s docstore.Store) {
	ctx := context.Background()

	tagID, err := s.Create(ctx, docstore.Tags, map[string]any{"name": "Space"})
	require.NoError(t, err)

	err = s.AtomicBatch(ctx, []docstore.Op{
		docstore.UpdateOp(docstore.Tags, tagID, map[string]any{"name": "Outer Space"}),
		{Collection: docstore.Tags, ID: tagID, Kind: "upsert"},
	})
	require.ErrorIs(t, err, docstore.ErrInvalidOp)

	tag, err := s.Get(ctx, docstore.Tags, tagID)
	require.NoError(t, err)
	assert.Equal(t, "Space", tag.Fields["name"])
}

func testCollectionsAreIsolated(t *testing.T, s docstore.Store) {
	ctx := context.Background()

	gameID, err := s.Create(ctx, docstore.Games, map[string]any{"name": "Azul"})
	require.NoError(t, err)

	_, err = s.Get(ctx, docstore.Tags, gameID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	tags, err := s.ReadAll(ctx, docstore.Tags)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func testCanceledContext(t *testing.T, s docstore.Store) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ReadAll(ctx, docstore.Games)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.Create(ctx, docstore.Games, map[string]any{"name": "Azul"})
	assert.ErrorIs(t, err, context.Canceled)
}
