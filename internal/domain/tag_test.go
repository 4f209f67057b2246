package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTagRef(t *testing.T) {
	ref, err := ParseTagRef("mechanics:Card Drafting")
	require.NoError(t, err)
	assert.Equal(t, TagRef{Category: CategoryMechanics, Name: "Card Drafting"}, ref)
	assert.Equal(t, "mechanics:Card Drafting", ref.String())

	ref, err = ParseTagRef("theme:Time: Travel")
	require.NoError(t, err)
	assert.Equal(t, "Time: Travel", ref.Name)

	for _, bad := range []string{"", "theme", "theme:", ":Space", " : "} {
		_, err := ParseTagRef(bad)
		assert.Error(t, err, bad)
	}
}

func TestTag_Ref(t *testing.T) {
	tag := Tag{Entity: Entity{ID: "tag-1"}, Category: CategoryTheme, Name: "Space"}
	assert.Equal(t, TagRef{Category: CategoryTheme, Name: "Space"}, tag.Ref())
}

func TestGame_ReplaceTag(t *testing.T) {
	drafting := TagRef{Category: CategoryMechanics, Name: "Drafting"}
	space := TagRef{Category: CategoryTheme, Name: "Space"}
	renamed := TagRef{Category: CategoryMechanics, Name: "Card Drafting"}

	g := Game{Tags: []TagRef{drafting, space, drafting}}
	out, n := g.ReplaceTag(drafting, renamed)

	assert.Equal(t, 2, n)
	assert.Equal(t, []TagRef{renamed, space, renamed}, out)
	assert.Equal(t, []TagRef{drafting, space, drafting}, g.Tags, "original must not be mutated")
}

func TestGame_ReplaceTag_CaseSensitive(t *testing.T) {
	g := Game{Tags: []TagRef{{Category: CategoryTheme, Name: "space"}}}
	_, n := g.ReplaceTag(TagRef{Category: CategoryTheme, Name: "Space"}, TagRef{Category: CategoryTheme, Name: "Outer Space"})
	assert.Zero(t, n)
}

func TestGame_TagNames(t *testing.T) {
	g := Game{Tags: []TagRef{
		{Category: CategoryTheme, Name: "Space"},
		{Category: CategoryMechanics, Name: "Drafting"},
		{Category: CategoryTheme, Name: "Trains"},
	}}
	assert.Equal(t, []string{"Space", "Trains"}, g.TagNames(CategoryTheme))
	assert.Empty(t, g.TagNames(CategoryInteraction))
	assert.True(t, g.HasTag(TagRef{Category: CategoryMechanics, Name: "Drafting"}))
	assert.False(t, g.HasTag(TagRef{Category: CategoryTheme, Name: "Drafting"}))
}

func TestGame_AcceptsPlayers(t *testing.T) {
	g := Game{MinPlayers: 2, MaxPlayers: 4}
	assert.False(t, g.AcceptsPlayers(1))
	assert.True(t, g.AcceptsPlayers(3))
	assert.False(t, g.AcceptsPlayers(5))
	assert.True(t, (&Game{}).AcceptsPlayers(12))
}
