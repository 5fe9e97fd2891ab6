package auth

import (
	"context"
	"testing"

	"github.com/phrazzld/taskdeck/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(t *testing.T, cfg config.AuthConfig) (*Authenticator, *InMemorySessionStore) {
	t.Helper()

	sessions := NewInMemorySessionStore()
	tokens := newHMACJWTService([]byte(testSecret), 0, fixedClock(fixedTime))

	a, err := NewAuthenticator(cfg, tokens, sessions, nil)
	require.NoError(t, err)
	return a, sessions
}

func TestAuthenticator_Login(t *testing.T) {
	t.Parallel()

	cfg := config.AuthConfig{Username: "admin", Password: "1234"}

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid", "admin", "1234", nil},
		{"username is trimmed", "  admin ", "1234", nil},
		{"wrong password", "admin", "12345", ErrInvalidCredentials},
		{"wrong username", "root", "1234", ErrInvalidCredentials},
		{"username case matters", "Admin", "1234", ErrInvalidCredentials},
		{"password is not trimmed", "admin", " 1234", ErrInvalidCredentials},
		{"empty", "", "", ErrInvalidCredentials},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, sessions := newTestAuthenticator(t, cfg)

			token, err := a.Login(context.Background(), tc.username, tc.password)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, token)
				assert.Equal(t, 0, sessions.Len())
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, 1, sessions.Len())

			session, err := a.Authenticate(context.Background(), token)
			require.NoError(t, err)
			assert.Equal(t, "admin", session.Username)
		})
	}
}

func TestAuthenticator_PasswordHash(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	a, _ := newTestAuthenticator(t, config.AuthConfig{
		Username:     "admin",
		Password:     "ignored",
		PasswordHash: hash,
	})

	_, err = a.Login(context.Background(), "admin", "ignored")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, err := a.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestAuthenticator_TokensAreIndependent(t *testing.T) {
	t.Parallel()

	a, sessions := newTestAuthenticator(t, config.AuthConfig{Username: "admin", Password: "1234"})
	ctx := context.Background()

	first, err := a.Login(ctx, "admin", "1234")
	require.NoError(t, err)
	second, err := a.Login(ctx, "admin", "1234")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, sessions.Len())

	require.NoError(t, a.Logout(ctx, first))

	_, err = a.Authenticate(ctx, first)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = a.Authenticate(ctx, second)
	assert.NoError(t, err)
}

func TestAuthenticator_Authenticate(t *testing.T) {
	t.Parallel()

	a, _ := newTestAuthenticator(t, config.AuthConfig{Username: "admin", Password: "1234"})
	ctx := context.Background()

	_, err := a.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = a.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// A well-signed token for a session this process never created.
	tokens := newHMACJWTService([]byte(testSecret), 0, fixedClock(fixedTime))
	orphan, err := tokens.GenerateToken(ctx, "unknown-session", "admin")
	require.NoError(t, err)

	_, err = a.Authenticate(ctx, orphan)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	err = a.Logout(ctx, orphan)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestNewAuthenticator_NilDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewAuthenticator(config.AuthConfig{}, nil, NewInMemorySessionStore(), nil)
	assert.Error(t, err)

	tokens := newHMACJWTService([]byte(testSecret), 0, fixedClock(fixedTime))
	_, err = NewAuthenticator(config.AuthConfig{}, tokens, nil, nil)
	assert.Error(t, err)
}

func TestPlainVerifier(t *testing.T) {
	t.Parallel()

	assert.NoError(t, PlainVerifier{}.Compare("1234", "1234"))
	assert.ErrorIs(t, PlainVerifier{}.Compare("1234", "123"), ErrPasswordMismatch)
}
