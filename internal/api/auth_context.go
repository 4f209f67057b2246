package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
	"github.com/gamesync/gamesync-server/internal/service"
)

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	actorKey    ctxKey = "actor"
	clientIPKey ctxKey = "clientIP"
)

// authMiddleware validates Bearer tokens and stores the actor in context.
// Requests without a valid token continue anonymously; handlers decide.
func authMiddleware(users *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := users.Authenticate(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetActor returns the authenticated actor from context.
func GetActor(ctx context.Context) (service.Actor, error) {
	actor, ok := ctx.Value(actorKey).(service.Actor)
	if !ok || actor.UserID == "" {
		return service.Actor{}, huma.Error401Unauthorized("Authentication required")
	}
	return actor, nil
}

// RequireAdmin validates the caller is authenticated and currently an admin.
// The role is re-read from the store so a demoted user loses access before
// their token expires.
func (s *Server) RequireAdmin(ctx context.Context) (service.Actor, error) {
	actor, err := GetActor(ctx)
	if err != nil {
		return service.Actor{}, toAPIError(err)
	}

	user, err := s.services.Users.Get(ctx, actor.UserID)
	if err != nil {
		return service.Actor{}, huma.Error401Unauthorized("User not found")
	}
	if !user.IsAdmin() {
		return service.Actor{}, toAPIError(domainerrors.Forbidden("Admin access required"))
	}

	actor.Admin = true
	return actor, nil
}
