package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gamesync/gamesync-server/internal/auth"
	"github.com/gamesync/gamesync-server/internal/docstore"
	"github.com/gamesync/gamesync-server/internal/domain"
	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
	"github.com/gamesync/gamesync-server/internal/validation"
)

// UserService registers users and issues access tokens.
type UserService struct {
	store     docstore.Store
	tokens    *auth.TokenService
	validator *validation.Validator
	logger    *slog.Logger

	// Serializes registration so email uniqueness and first-user-admin hold.
	mu sync.Mutex
}

// NewUserService creates a new user service.
func NewUserService(store docstore.Store, tokens *auth.TokenService, logger *slog.Logger) *UserService {
	return &UserService{
		store:     store,
		tokens:    tokens,
		validator: validation.New(),
		logger:    logger,
	}
}

// RegisterRequest contains fields for creating an account.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"display_name" validate:"notblank,max=100"`
}

// Register creates an account. The first account on a server becomes admin.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := listRecords[domain.User](ctx, s.store, docstore.Users)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == req.Email {
			return nil, domainerrors.AlreadyExists("an account with this email already exists")
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	user := &domain.User{
		Email:        req.Email,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: hash,
		Role:         domain.RoleMember,
	}
	if len(users) == 0 {
		user.Role = domain.RoleAdmin
	}
	user.InitTimestamps()

	user.ID, err = createRecord(ctx, s.store, docstore.Users, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return sanitize(user), nil
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is a successful login.
type LoginResult struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// Login checks credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	users, err := listRecords[domain.User](ctx, s.store, docstore.Users)
	if err != nil {
		return nil, err
	}

	var user *domain.User
	for i := range users {
		if users[i].Email == req.Email {
			user = &users[i]
			break
		}
	}

	// Same error for unknown email and wrong password.
	if user == nil || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		s.logger.Info("login failed", "email", req.Email)
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	token, expires, err := s.tokens.Issue(user)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "issue access token")
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return &LoginResult{User: sanitize(user), AccessToken: token, ExpiresAt: expires}, nil
}

// Get returns a user without the password hash.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := getRecord[domain.User](ctx, s.store, docstore.Users, userID)
	if err != nil {
		return nil, err
	}
	return sanitize(user), nil
}

// Authenticate verifies an access token and returns the actor it names.
func (s *UserService) Authenticate(token string) (Actor, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return Actor{}, domainerrors.Unauthorized("invalid or expired token")
	}
	if claims.UserID == "" {
		return Actor{}, domainerrors.Unauthorized("token has no subject")
	}
	return Actor{UserID: claims.UserID, Admin: claims.IsAdmin()}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sanitize(u *domain.User) *domain.User {
	out := *u
	out.PasswordHash = ""
	return &out
}
