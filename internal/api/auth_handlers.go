package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gamesync/gamesync-server/internal/color"
	"github.com/gamesync/gamesync-server/internal/domain"
	"github.com/gamesync/gamesync-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register",
		Description: "Creates an account. The first account on a server becomes admin.",
		Tags:        []string{"Auth"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Login",
		Description: "Exchanges email and password for an access token",
		Tags:        []string{"Auth"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/me",
		Summary:     "Current user",
		Description: "Returns the authenticated user",
		Tags:        []string{"Auth"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)
}

// === DTOs ===

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body struct {
		Email       string `json:"email" doc:"Email address" format:"email"`
		Password    string `json:"password" doc:"Password, at least 8 characters" minLength:"8"`
		DisplayName string `json:"display_name" doc:"Name shown to other players"`
	}
}

// UserResponse contains user data in API responses.
type UserResponse struct {
	ID          string    `json:"id" doc:"User ID"`
	Email       string    `json:"email" doc:"Email address"`
	DisplayName string    `json:"display_name" doc:"Display name"`
	Role        string    `json:"role" doc:"admin or member"`
	AvatarColor string    `json:"avatar_color" doc:"Stable avatar color as #RRGGBB"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
}

// UserOutput wraps the user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body struct {
		Email    string `json:"email" doc:"Email address"`
		Password string `json:"password" doc:"Password"`
	}
}

// LoginResponse contains a fresh access token.
type LoginResponse struct {
	AccessToken string       `json:"access_token" doc:"PASETO v4.local access token"`
	TokenType   string       `json:"token_type" doc:"Always Bearer"`
	ExpiresAt   time.Time    `json:"expires_at" doc:"Token expiry"`
	User        UserResponse `json:"user" doc:"Authenticated user"`
}

// LoginOutput wraps the login response for Huma.
type LoginOutput struct {
	Body LoginResponse
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*UserOutput, error) {
	if err := s.checkRateLimit(ctx, s.authRateLimiter, ""); err != nil {
		return nil, toAPIError(err)
	}

	user, err := s.services.Users.Register(ctx, service.RegisterRequest{
		Email:       input.Body.Email,
		Password:    input.Body.Password,
		DisplayName: input.Body.DisplayName,
	})
	if err != nil {
		return nil, toAPIError(err)
	}
	return &UserOutput{Body: toUserResponse(user)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	if err := s.checkRateLimit(ctx, s.authRateLimiter, ""); err != nil {
		return nil, toAPIError(err)
	}

	res, err := s.services.Users.Login(ctx, service.LoginRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, toAPIError(err)
	}

	return &LoginOutput{Body: LoginResponse{
		AccessToken: res.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   res.ExpiresAt,
		User:        toUserResponse(res.User),
	}}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *struct{}) (*UserOutput, error) {
	actor, err := GetActor(ctx)
	if err != nil {
		return nil, toAPIError(err)
	}

	user, err := s.services.Users.Get(ctx, actor.UserID)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &UserOutput{Body: toUserResponse(user)}, nil
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.Name(),
		Role:        string(u.Role),
		AvatarColor: color.ForUser(u.ID),
		CreatedAt:   u.CreatedAt,
	}
}
