package domain

import "slices"

// CollectionKind distinguishes a user's owned games from their wishlist.
type CollectionKind string

const (
	CollectionOwned    CollectionKind = "owned"
	CollectionWishlist CollectionKind = "wishlist"
)

// Valid reports whether k is a known collection kind.
func (k CollectionKind) Valid() bool {
	return k == CollectionOwned || k == CollectionWishlist
}

// Collection is a user's personal list of games. Each user has at most one per kind.
type Collection struct {
	Entity
	UserID  string         `json:"user_id"`
	Kind    CollectionKind `json:"kind"`
	GameIDs []string       `json:"game_ids"`
}

// AddGame adds a game ID to the collection if not already present.
func (c *Collection) AddGame(gameID string) bool {
	if slices.Contains(c.GameIDs, gameID) {
		return false // Already present
	}
	c.GameIDs = append(c.GameIDs, gameID)
	return true
}

// RemoveGame removes a game ID from the collection.
func (c *Collection) RemoveGame(gameID string) bool {
	i := slices.Index(c.GameIDs, gameID)
	if i < 0 {
		return false
	}
	c.GameIDs = slices.Delete(c.GameIDs, i, i+1)
	return true
}

// ContainsGame checks if a game ID is in this collection.
func (c *Collection) ContainsGame(gameID string) bool {
	return slices.Contains(c.GameIDs, gameID)
}
