package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamesync/gamesync-server/internal/domain"
)

func TestEncodeDecode_Game(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	game := domain.Game{
		Entity:     domain.Entity{ID: "game-1", CreatedAt: created, UpdatedAt: created},
		Name:       "Sushi Go",
		MinPlayers: 2,
		MaxPlayers: 5,
		Tags:       []domain.TagRef{{Category: domain.CategoryMechanics, Name: "Drafting"}},
	}

	fields, err := Encode(game)
	require.NoError(t, err)
	assert.NotContains(t, fields, "id")
	assert.Equal(t, "Sushi Go", fields["name"])

	var got domain.Game
	require.NoError(t, Decode(Document{ID: "game-1", Fields: fields}, &got))
	assert.Equal(t, game.ID, got.ID)
	assert.Equal(t, game.Tags, got.Tags)
	assert.True(t, created.Equal(got.CreatedAt))
}

func TestDecodeAll(t *testing.T) {
	docs := []Document{
		{ID: "tag-1", Fields: map[string]any{"category": "theme", "name": "Space"}},
		{ID: "tag-2", Fields: map[string]any{"category": "mechanics", "name": "Drafting"}},
	}

	tags, err := DecodeAll[domain.Tag](docs)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "tag-2", tags[1].ID)
	assert.Equal(t, domain.CategoryMechanics, tags[1].Category)
}

func TestMerge(t *testing.T) {
	base := map[string]any{"name": "Drafting", "category": "mechanics"}
	out := Merge(base, map[string]any{"name": "Card Drafting", "id": "ignored"})

	assert.Equal(t, map[string]any{"name": "Card Drafting", "category": "mechanics"}, out)
	assert.Equal(t, "Drafting", base["name"], "base must not be modified")
}

func TestValidateOps(t *testing.T) {
	assert.NoError(t, ValidateOps([]Op{UpdateOp(Tags, "tag-1", nil), DeleteOp(Games, "game-1")}))
	assert.ErrorIs(t, ValidateOps([]Op{{Collection: Tags, Kind: OpUpdate}}), ErrInvalidOp)
	assert.ErrorIs(t, ValidateOps([]Op{{Collection: Tags, ID: "x", Kind: "upsert"}}), ErrInvalidOp)
	assert.ErrorIs(t, ValidateOps([]Op{{Collection: Games, ID: "game-1", Kind: OpTransform}}), ErrInvalidOp)
}

func TestNewID_UsesCollectionPrefix(t *testing.T) {
	gameID, err := NewID(Games)
	require.NoError(t, err)
	assert.Regexp(t, `^game-`, gameID)

	other, err := NewID("widgets")
	require.NoError(t, err)
	assert.Regexp(t, `^doc-`, other)
}

func TestNotFound_Wraps(t *testing.T) {
	err := NotFound(Tags, "tag-9")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "tags/tag-9")
}
