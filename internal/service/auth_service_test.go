package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"devicehub-api/internal/models"
)

func newTestAuthService(t *testing.T) (*AuthService, *memUserRepo, *memTokenCache) {
	t.Helper()
	users := newMemUserRepo()
	tokens := newMemTokenCache()
	svc, err := NewAuthService(users, tokens, "test-secret", time.Hour)
	require.NoError(t, err)
	return svc, users, tokens
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := NewAuthService(newMemUserRepo(), newMemTokenCache(), "", time.Hour)
	assert.Error(t, err)
}

func TestAuthService_Register(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice@example.com", "alice", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)

	// パスワードは平文では保存されない
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice@example.com", "alice2", "password456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	svc, _, tokens := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)

	// 発行したトークンはキャッシュされる
	cached, err := tokens.GetToken(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, token, cached)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAuthService_Verify_RoundTrip(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice@example.com", "alice", "password123")
	require.NoError(t, err)
	_, token, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	identity, err := svc.Verify(ctx, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, identity.UserID)
	assert.Equal(t, models.RoleUser, identity.Role)
	assert.False(t, identity.IsAdmin())
}

func TestAuthService_Verify_Invalid(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		header string
	}{
		{"empty", ""},
		{"no scheme", "some-token"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Verify(ctx, tc.header)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestAuthService_Verify_WrongSecret(t *testing.T) {
	svc, users, tokens := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "alice", "password123")
	require.NoError(t, err)
	_, token, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)

	other, err := NewAuthService(users, tokens, "another-secret", time.Hour)
	require.NoError(t, err)
	_, err = other.Verify(ctx, "Bearer "+token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_GetUser_NotFound(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	_, err := svc.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
