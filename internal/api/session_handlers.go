package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gamesync/gamesync-server/internal/domain"
	"github.com/gamesync/gamesync-server/internal/service"
)

func (s *Server) registerSessionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createSession",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions",
		Summary:     "Schedule session",
		Description: "Schedules a play session hosted by the caller",
		Tags:        []string{"Sessions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions",
		Summary:     "List upcoming sessions",
		Description: "Returns scheduled sessions that have not started, soonest first",
		Tags:        []string{"Sessions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSessions)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSession",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Get session",
		Description: "Returns a play session by ID",
		Tags:        []string{"Sessions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "joinSession",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/join",
		Summary:     "Join session",
		Description: "Takes a seat in the session. Joining twice is a no-op.",
		Tags:        []string{"Sessions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleJoinSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "leaveSession",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/leave",
		Summary:     "Leave session",
		Description: "Gives up a seat. The host leaving cancels the session.",
		Tags:        []string{"Sessions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLeaveSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "cancelSession",
		Method:      http.MethodDelete,
		Path:        "/api/v1/sessions/{id}",
		Summary:     "Cancel session",
		Description: "Cancels a session. Host or admin only.",
		Tags:        []string{"Sessions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCancelSession)
}

// === DTOs ===

// CreateSessionInput wraps the schedule request for Huma.
type CreateSessionInput struct {
	Body struct {
		GameID      string    `json:"game_id" doc:"Game to play"`
		ScheduledAt time.Time `json:"scheduled_at" doc:"Start time, must be in the future"`
		Location    string    `json:"location" doc:"Where to meet" maxLength:"200"`
		MaxPlayers  int       `json:"max_players,omitempty" minimum:"0" doc:"Seat limit; 0 uses the game's maximum"`
		Notes       string    `json:"notes,omitempty" doc:"Free-text notes"`
	}
}

// SessionIDInput addresses a single session.
type SessionIDInput struct {
	ID string `path:"id" doc:"Session ID"`
}

// SessionOutput wraps a single session for Huma.
type SessionOutput struct {
	Body *domain.PlaySession
}

// ListSessionsOutput wraps the session list for Huma.
type ListSessionsOutput struct {
	Body struct {
		Sessions []domain.PlaySession `json:"sessions" doc:"Upcoming sessions"`
	}
}

// === Handlers ===

func (s *Server) handleCreateSession(ctx context.Context, input *CreateSessionInput) (*SessionOutput, error) {
	actor, err := GetActor(ctx)
	if err != nil {
		return nil, toAPIError(err)
	}

	session, err := s.services.Sessions.Create(ctx, actor, service.CreateSessionRequest{
		GameID:      input.Body.GameID,
		ScheduledAt: input.Body.ScheduledAt,
		Location:    input.Body.Location,
		MaxPlayers:  input.Body.MaxPlayers,
		Notes:       input.Body.Notes,
	})
	if err != nil {
		return nil, toAPIError(err)
	}
	return &SessionOutput{Body: session}, nil
}

func (s *Server) handleListSessions(ctx context.Context, _ *struct{}) (*ListSessionsOutput, error) {
	if _, err := GetActor(ctx); err != nil {
		return nil, toAPIError(err)
	}

	sessions, err := s.services.Sessions.ListUpcoming(ctx)
	if err != nil {
		return nil, toAPIError(err)
	}

	resp := &ListSessionsOutput{}
	resp.Body.Sessions = sessions
	return resp, nil
}

func (s *Server) handleGetSession(ctx context.Context, input *SessionIDInput) (*SessionOutput, error) {
	if _, err := GetActor(ctx); err != nil {
		return nil, toAPIError(err)
	}

	session, err := s.services.Sessions.Get(ctx, input.ID)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &SessionOutput{Body: session}, nil
}

func (s *Server) handleJoinSession(ctx context.Context, input *SessionIDInput) (*SessionOutput, error) {
	return s.sessionAction(ctx, input.ID, s.services.Sessions.Join)
}

func (s *Server) handleLeaveSession(ctx context.Context, input *SessionIDInput) (*SessionOutput, error) {
	return s.sessionAction(ctx, input.ID, s.services.Sessions.Leave)
}

func (s *Server) handleCancelSession(ctx context.Context, input *SessionIDInput) (*SessionOutput, error) {
	return s.sessionAction(ctx, input.ID, s.services.Sessions.Cancel)
}

// sessionAction runs a membership change on behalf of the caller.
func (s *Server) sessionAction(
	ctx context.Context,
	sessionID string,
	action func(context.Context, service.Actor, string) (*domain.PlaySession, error),
) (*SessionOutput, error) {
	actor, err := GetActor(ctx)
	if err != nil {
		return nil, toAPIError(err)
	}

	session, err := action(ctx, actor, sessionID)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &SessionOutput{Body: session}, nil
}
