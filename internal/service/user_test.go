package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamesync/gamesync-server/internal/domain"
	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
	"github.com/gamesync/gamesync-server/internal/suggest"
)

func register(t *testing.T, env *testEnv, email string) *domain.User {
	t.Helper()
	u, err := env.users.Register(context.Background(), RegisterRequest{
		Email:       email,
		Password:    "correct horse battery",
		DisplayName: "Player",
	})
	require.NoError(t, err)
	return u
}

func TestUserService_FirstUserIsAdmin(t *testing.T) {
	env := setupTestEnv(t)

	first := register(t, env, "first@example.com")
	second := register(t, env, "second@example.com")

	assert.Equal(t, domain.RoleAdmin, first.Role)
	assert.Equal(t, domain.RoleMember, second.Role)
	assert.Empty(t, first.PasswordHash, "hash never leaves the service")
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	env := setupTestEnv(t)
	register(t, env, "ada@example.com")

	_, err := env.users.Register(context.Background(), RegisterRequest{
		Email:       "  ADA@example.com ",
		Password:    "another password",
		DisplayName: "Ada",
	})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestUserService_LoginAndAuthenticate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	u := register(t, env, "ada@example.com")

	res, err := env.users.Login(ctx, LoginRequest{Email: "Ada@Example.com", Password: "correct horse battery"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)
	assert.NotEmpty(t, res.AccessToken)

	actor, err := env.users.Authenticate(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, Actor{UserID: u.ID, Admin: true}, actor)

	_, err = env.users.Authenticate("v4.local.garbage")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))
}

func TestUserService_LoginFailures(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	register(t, env, "ada@example.com")

	_, err := env.users.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong password"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))

	_, err = env.users.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_Get(t *testing.T) {
	env := setupTestEnv(t)
	u := register(t, env, "ada@example.com")

	got, err := env.users.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Empty(t, got.PasswordHash)

	_, err = env.users.Get(context.Background(), "user-missing")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

type fakeSuggester struct {
	calls int
	err   error
}

func (f *fakeSuggester) Suggest(_ context.Context, req suggest.Request) (*suggest.Suggestion, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &suggest.Suggestion{Time: "Friday 7pm", Location: req.Locations[0], Reasoning: "first choice"}, nil
}

func TestSuggestionService(t *testing.T) {
	fake := &fakeSuggester{}
	svc := NewSuggestionService(fake, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	res, err := svc.Suggest(ctx, member, suggest.Request{GameName: "Azul", Locations: []string{"Cafe"}})
	require.NoError(t, err)
	assert.Equal(t, "Cafe", res.Location)

	_, err = svc.Suggest(ctx, member, suggest.Request{GameName: "Azul"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	assert.Equal(t, 1, fake.calls, "invalid requests never reach the model")
}

func TestSuggestionService_NoRetry(t *testing.T) {
	fake := &fakeSuggester{err: errors.New("model overloaded")}
	svc := NewSuggestionService(fake, slog.New(slog.DiscardHandler))

	_, err := svc.Suggest(context.Background(), member, suggest.Request{GameName: "Azul", Locations: []string{"Cafe"}})
	assert.Error(t, err)
	assert.Equal(t, 1, fake.calls)
}
