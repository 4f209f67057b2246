package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gamesync/gamesync-server/internal/docstore"
	"github.com/gamesync/gamesync-server/internal/domain"
	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
	"github.com/gamesync/gamesync-server/internal/validation"
)

// PlaySessionService schedules play sessions and manages who is attending.
type PlaySessionService struct {
	store     docstore.Store
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time

	// Serializes read-modify-write of player lists.
	mu sync.Mutex
}

// NewPlaySessionService creates a new play session service.
func NewPlaySessionService(store docstore.Store, logger *slog.Logger) *PlaySessionService {
	return &PlaySessionService{
		store:     store,
		validator: validation.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// CreateSessionRequest contains fields for scheduling a session.
type CreateSessionRequest struct {
	GameID      string    `json:"game_id" validate:"notblank"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Location    string    `json:"location" validate:"notblank,max=200"`
	MaxPlayers  int       `json:"max_players" validate:"gte=0,lte=100"`
	Notes       string    `json:"notes" validate:"max=2000"`
}

// Create schedules a session hosted by actor. The host is the first player.
// A zero MaxPlayers falls back to the game's maximum.
func (s *PlaySessionService) Create(ctx context.Context, actor Actor, req CreateSessionRequest) (*domain.PlaySession, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if !req.ScheduledAt.After(s.now()) {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"scheduled_at": "must be in the future",
		})
	}

	game, err := getRecord[domain.Game](ctx, s.store, docstore.Games, req.GameID)
	if err != nil {
		return nil, err
	}

	maxPlayers := req.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = game.MaxPlayers
	}

	session := &domain.PlaySession{
		GameID:      game.ID,
		HostID:      actor.UserID,
		ScheduledAt: req.ScheduledAt.UTC(),
		Location:    req.Location,
		MaxPlayers:  maxPlayers,
		PlayerIDs:   []string{actor.UserID},
		Notes:       req.Notes,
		Status:      domain.SessionScheduled,
	}
	now := s.now()
	session.CreatedAt, session.UpdatedAt = now, now

	session.ID, err = createRecord(ctx, s.store, docstore.Sessions, session)
	if err != nil {
		return nil, err
	}

	s.logger.Info("play session created",
		"session_id", session.ID,
		"game_id", game.ID,
		"host_id", actor.UserID,
		"scheduled_at", session.ScheduledAt,
	)
	return session, nil
}

// Get returns a single session.
func (s *PlaySessionService) Get(ctx context.Context, sessionID string) (*domain.PlaySession, error) {
	return getRecord[domain.PlaySession](ctx, s.store, docstore.Sessions, sessionID)
}

// ListUpcoming returns scheduled sessions that have not started, soonest first.
func (s *PlaySessionService) ListUpcoming(ctx context.Context) ([]domain.PlaySession, error) {
	sessions, err := listRecords[domain.PlaySession](ctx, s.store, docstore.Sessions)
	if err != nil {
		return nil, err
	}

	now := s.now()
	upcoming := slices.DeleteFunc(sessions, func(ps domain.PlaySession) bool {
		return ps.IsCancelled() || !ps.ScheduledAt.After(now)
	})
	slices.SortFunc(upcoming, func(a, b domain.PlaySession) int {
		return a.ScheduledAt.Compare(b.ScheduledAt)
	})
	return upcoming, nil
}

// Join adds actor to a session. Joining twice is a no-op.
func (s *PlaySessionService) Join(ctx context.Context, actor Actor, sessionID string) (*domain.PlaySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCancelled() {
		return nil, domainerrors.Conflict("session was cancelled")
	}
	if session.HasPlayer(actor.UserID) {
		return session, nil
	}
	if session.IsFull() {
		return nil, domainerrors.Conflictf("session is full (%d players)", session.MaxPlayers)
	}

	session.AddPlayer(actor.UserID)
	if err := s.savePlayers(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("player joined session", "session_id", sessionID, "user_id", actor.UserID, "players", len(session.PlayerIDs))
	return session, nil
}

// Leave removes actor from a session. The host leaving cancels it.
func (s *PlaySessionService) Leave(ctx context.Context, actor Actor, sessionID string) (*domain.PlaySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCancelled() {
		return session, nil
	}
	if session.HostID == actor.UserID {
		return s.cancel(ctx, session)
	}
	if !session.RemovePlayer(actor.UserID) {
		return session, nil
	}

	if err := s.savePlayers(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("player left session", "session_id", sessionID, "user_id", actor.UserID, "players", len(session.PlayerIDs))
	return session, nil
}

// Cancel cancels a session. Only the host or an admin may cancel.
func (s *PlaySessionService) Cancel(ctx context.Context, actor Actor, sessionID string) (*domain.PlaySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.HostID != actor.UserID && !actor.Admin {
		return nil, domainerrors.Forbidden("only the host or an admin can cancel a session")
	}
	if session.IsCancelled() {
		return session, nil
	}
	return s.cancel(ctx, session)
}

func (s *PlaySessionService) cancel(ctx context.Context, session *domain.PlaySession) (*domain.PlaySession, error) {
	session.Status = domain.SessionCancelled
	session.UpdatedAt = s.now()
	if err := updateFields(ctx, s.store, docstore.Sessions, session.ID, map[string]any{
		"status":     session.Status,
		"updated_at": session.UpdatedAt,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("play session cancelled", "session_id", session.ID)
	return session, nil
}

func (s *PlaySessionService) savePlayers(ctx context.Context, session *domain.PlaySession) error {
	session.UpdatedAt = s.now()
	return updateFields(ctx, s.store, docstore.Sessions, session.ID, map[string]any{
		"player_ids": session.PlayerIDs,
		"updated_at": session.UpdatedAt,
	})
}
