// Package search provides full-text search over the game library using Bleve.
package search

import (
	"github.com/gamesync/gamesync-server/internal/domain"
)

// openMaxPlayers stands in for "no upper bound" so range queries stay simple.
const openMaxPlayers = 1_000_000

// GameDocument is the indexed form of a game.
type GameDocument struct {
	ID              string
	Name            string
	Description     string
	Tags            []string // "category:name", exact-match
	TagNames        []string // Names only, full-text
	Categories      []string
	MinPlayers      int
	MaxPlayers      int
	PlayTimeMinutes int
	CreatedAt       int64
}

// NewGameDocument converts a game for indexing.
func NewGameDocument(g *domain.Game) *GameDocument {
	doc := &GameDocument{
		ID:              g.ID,
		Name:            g.Name,
		Description:     g.Description,
		MinPlayers:      g.MinPlayers,
		MaxPlayers:      g.MaxPlayers,
		PlayTimeMinutes: g.PlayTimeMinutes,
		CreatedAt:       g.CreatedAt.Unix(),
	}
	if doc.MaxPlayers == 0 {
		doc.MaxPlayers = openMaxPlayers
	}

	seenCategory := make(map[domain.Category]bool)
	for _, t := range g.Tags {
		doc.Tags = append(doc.Tags, t.String())
		doc.TagNames = append(doc.TagNames, t.Name)
		if !seenCategory[t.Category] {
			seenCategory[t.Category] = true
			doc.Categories = append(doc.Categories, string(t.Category))
		}
	}
	return doc
}

// ToMap converts the document to a map with field names matching the index mapping.
func (d *GameDocument) ToMap() map[string]any {
	return map[string]any{
		"id":                d.ID,
		"name":              d.Name,
		"description":       d.Description,
		"tags":              d.Tags,
		"tag_names":         d.TagNames,
		"categories":        d.Categories,
		"min_players":       float64(d.MinPlayers),
		"max_players":       float64(d.MaxPlayers),
		"play_time_minutes": float64(d.PlayTimeMinutes),
		"created_at":        float64(d.CreatedAt),
	}
}
