package domain

import (
	"slices"
	"time"
)

// SessionStatus is the lifecycle state of a play session.
type SessionStatus string

const (
	// SessionScheduled is an open session players may join.
	SessionScheduled SessionStatus = "scheduled"
	// SessionCancelled sessions keep their record but accept no changes.
	SessionCancelled SessionStatus = "cancelled"
)

// PlaySession is a scheduled meetup to play one game.
// The host is always the first entry in PlayerIDs.
type PlaySession struct {
	Entity
	GameID      string        `json:"game_id"`
	HostID      string        `json:"host_id"`
	ScheduledAt time.Time     `json:"scheduled_at"`
	Location    string        `json:"location"`
	MaxPlayers  int           `json:"max_players"`
	PlayerIDs   []string      `json:"player_ids"`
	Notes       string        `json:"notes,omitempty"`
	Status      SessionStatus `json:"status"`
}

// IsCancelled reports whether the session was cancelled.
func (s *PlaySession) IsCancelled() bool {
	return s.Status == SessionCancelled
}

// IsFull reports whether the session has no free seats.
func (s *PlaySession) IsFull() bool {
	return s.MaxPlayers > 0 && len(s.PlayerIDs) >= s.MaxPlayers
}

// HasPlayer reports whether userID has joined the session.
func (s *PlaySession) HasPlayer(userID string) bool {
	return slices.Contains(s.PlayerIDs, userID)
}

// AddPlayer adds userID if not already present.
func (s *PlaySession) AddPlayer(userID string) bool {
	if s.HasPlayer(userID) {
		return false
	}
	s.PlayerIDs = append(s.PlayerIDs, userID)
	return true
}

// RemovePlayer removes userID from the session.
func (s *PlaySession) RemovePlayer(userID string) bool {
	i := slices.Index(s.PlayerIDs, userID)
	if i < 0 {
		return false
	}
	s.PlayerIDs = slices.Delete(s.PlayerIDs, i, i+1)
	return true
}
