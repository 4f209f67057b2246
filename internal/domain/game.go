package domain

import "slices"

// Game is a board game in the shared library.
type Game struct {
	Entity
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	MinPlayers      int      `json:"min_players,omitempty"`
	MaxPlayers      int      `json:"max_players,omitempty"`
	PlayTimeMinutes int      `json:"play_time_minutes,omitempty"`
	ImageURL        string   `json:"image_url,omitempty"`
	Tags            []TagRef `json:"tags"`
}

// HasTag reports whether the game embeds the given tag value.
func (g *Game) HasTag(ref TagRef) bool {
	return slices.Contains(g.Tags, ref)
}

// TagNames returns the names of the game's tags in category c, in game order.
func (g *Game) TagNames(c Category) []string {
	var names []string
	for _, t := range g.Tags {
		if t.Category == c {
			names = append(names, t.Name)
		}
	}
	return names
}

// ReplaceTag returns a copy of the game's tag list with every entry equal to
// from replaced by to. Order and all other entries are preserved.
// The second result is the number of entries replaced.
func (g *Game) ReplaceTag(from, to TagRef) ([]TagRef, int) {
	out := make([]TagRef, len(g.Tags))
	replaced := 0
	for i, t := range g.Tags {
		if t == from {
			t = to
			replaced++
		}
		out[i] = t
	}
	return out, replaced
}

// AcceptsPlayers reports whether n players fall inside the game's player range.
// Zero bounds are treated as open.
func (g *Game) AcceptsPlayers(n int) bool {
	if g.MinPlayers > 0 && n < g.MinPlayers {
		return false
	}
	if g.MaxPlayers > 0 && n > g.MaxPlayers {
		return false
	}
	return true
}
