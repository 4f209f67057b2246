package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/gamesync/gamesync-server/internal/errors"
	"github.com/gamesync/gamesync-server/internal/validation"
)

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=1024"`
	DisplayName string `json:"display_name" validate:"notblank"`
}

type gameRequest struct {
	Name       string   `json:"name" validate:"notblank,max=200"`
	MinPlayers int      `json:"min_players" validate:"gte=0,lte=100"`
	MaxPlayers int      `json:"max_players,omitempty" validate:"omitempty,gtefield=MinPlayers"`
	Tags       []string `json:"tags" validate:"dive,tagref"`
}

func details(t *testing.T, err error) map[string]string {
	t.Helper()
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
	fields, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	return fields
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(registerRequest{
		Email:       "ada@example.com",
		Password:    "password123",
		DisplayName: "Ada",
	}))
	assert.NoError(t, v.Validate(gameRequest{
		Name:       "Wingspan",
		MinPlayers: 1,
		MaxPlayers: 5,
		Tags:       []string{"theme:Nature", "mechanics:Engine Building"},
	}))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       any
		wantField string
		wantMsg   string
	}{
		{"missing email", registerRequest{Password: "password123", DisplayName: "A"}, "email", "is required"},
		{"bad email", registerRequest{Email: "nope", Password: "password123", DisplayName: "A"}, "email", "must be a valid email address"},
		{"short password", registerRequest{Email: "a@b.co", Password: "short", DisplayName: "A"}, "password", "must be at least 8 characters"},
		{"blank display name", registerRequest{Email: "a@b.co", Password: "password123", DisplayName: "   "}, "display_name", "is required"},
		{"bad tag", gameRequest{Name: "Catan", Tags: []string{"Trading"}}, "tags[0]", `must look like "category:name"`},
		{"max below min", gameRequest{Name: "Catan", MinPlayers: 3, MaxPlayers: 2}, "max_players", "must be greater than or equal to MinPlayers"},
		{"too many players", gameRequest{Name: "Catan", MinPlayers: 101}, "min_players", "must be less than or equal to 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
			assert.Equal(t, tt.wantMsg, details(t, err)[tt.wantField])
		})
	}
}

func TestValidator_MultipleErrors(t *testing.T) {
	v := validation.New()

	err := v.Validate(registerRequest{})
	fields := details(t, err)
	assert.Len(t, fields, 3)
}
