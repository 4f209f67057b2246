package taxonomy

import (
	"context"

	"github.com/gamesync/gamesync-server/internal/domain"
)

// DefaultTags is the starter vocabulary for the built-in categories.
// Administrators can rename or delete any of them after setup.
var DefaultTags = []domain.TagRef{
	{Category: domain.CategoryTheme, Name: "Fantasy"},
	{Category: domain.CategoryTheme, Name: "Science Fiction"},
	{Category: domain.CategoryTheme, Name: "Space"},
	{Category: domain.CategoryTheme, Name: "Horror"},
	{Category: domain.CategoryTheme, Name: "Economic"},
	{Category: domain.CategoryTheme, Name: "Historical"},
	{Category: domain.CategoryType, Name: "Party"},
	{Category: domain.CategoryType, Name: "Strategy"},
	{Category: domain.CategoryType, Name: "Family"},
	{Category: domain.CategoryType, Name: "Abstract"},
	{Category: domain.CategoryMechanics, Name: "Deck Building"},
	{Category: domain.CategoryMechanics, Name: "Drafting"},
	{Category: domain.CategoryMechanics, Name: "Worker Placement"},
	{Category: domain.CategoryMechanics, Name: "Area Control"},
	{Category: domain.CategoryMechanics, Name: "Tile Placement"},
	{Category: domain.CategoryMechanics, Name: "Dice Rolling"},
	{Category: domain.CategoryInteraction, Name: "Cooperative"},
	{Category: domain.CategoryInteraction, Name: "Competitive"},
	{Category: domain.CategoryInteraction, Name: "Team Based"},
	{Category: domain.CategoryInteraction, Name: "Solo"},
}

// SeedDefaults ensures every default tag exists. It returns the number of
// records created and the full tag list after seeding.
func (m *Manager) SeedDefaults(ctx context.Context, existing []domain.Tag) (int, []domain.Tag, error) {
	tags := append([]domain.Tag(nil), existing...)
	created := 0
	for _, ref := range DefaultTags {
		t, isNew, err := m.EnsureTag(ctx, ref, tags)
		if err != nil {
			return created, tags, err
		}
		if isNew {
			created++
			tags = append(tags, t)
		}
	}
	return created, tags, nil
}
