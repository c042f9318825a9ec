package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchside/quote-api/internal/auth"
	"github.com/pitchside/quote-api/internal/config"
	"github.com/pitchside/quote-api/internal/domain"
)

func newTokenManager(ttlSeconds int) *auth.TokenManager {
	return auth.NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-secret-keep-it-long-enough",
		TokenTTL:  ttlSeconds,
	})
}

func testUser() *domain.User {
	return &domain.User{
		ID:          "user-1",
		Email:       "sales@example.com",
		DisplayName: "Pat Sales",
		Roles:       []string{"sales"},
		TeamID:      "team-1",
	}
}

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := newTokenManager(3600)

	token, err := tm.IssueToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userCtx, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userCtx.UserID)
	assert.Equal(t, "Pat Sales", userCtx.DisplayName)
	assert.Equal(t, "sales@example.com", userCtx.Email)
	assert.Equal(t, domain.TeamID("team-1"), userCtx.TeamID)
	require.Len(t, userCtx.Roles, 1)
	assert.Equal(t, domain.RoleSales, userCtx.Roles[0])
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := newTokenManager(-60) // already expired at issue time

	token, err := tm.IssueToken(testUser())
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	tm := newTokenManager(3600)
	other := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret: "a-different-secret-entirely",
		TokenTTL:  3600,
	})

	token, err := tm.IssueToken(testUser())
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	tm := newTokenManager(3600)

	_, err := tm.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_RejectsMissingSubject(t *testing.T) {
	tm := newTokenManager(3600)

	user := testUser()
	user.ID = ""
	token, err := tm.IssueToken(user)
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_TTLRespected(t *testing.T) {
	tm := newTokenManager(1)

	token, err := tm.IssueToken(testUser())
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}
