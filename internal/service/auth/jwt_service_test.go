package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/taskdeck/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

var fixedTime = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("short secret", func(t *testing.T) {
		_, err := NewJWTService(config.AuthConfig{JWTSecret: "short"})
		require.Error(t, err)
	})

	t.Run("empty secret gets a random key", func(t *testing.T) {
		first, err := NewJWTService(config.AuthConfig{})
		require.NoError(t, err)
		second, err := NewJWTService(config.AuthConfig{})
		require.NoError(t, err)

		token, err := first.GenerateToken(context.Background(), "sess-1", "admin")
		require.NoError(t, err)

		_, err = first.ValidateToken(context.Background(), token)
		require.NoError(t, err)

		_, err = second.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	lifetime := 60 * time.Minute
	svc := newHMACJWTService([]byte(testSecret), lifetime, fixedClock(fixedTime))

	token, err := svc.GenerateToken(context.Background(), "sess-1", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(lifetime).Unix(), claims.ExpiresAt.Unix())
}

func TestGenerateToken_NoExpiry(t *testing.T) {
	t.Parallel()

	svc := newHMACJWTService([]byte(testSecret), 0, fixedClock(fixedTime))
	token, err := svc.GenerateToken(context.Background(), "sess-1", "admin")
	require.NoError(t, err)

	later := newHMACJWTService([]byte(testSecret), 0, fixedClock(fixedTime.AddDate(5, 0, 0)))
	claims, err := later.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.IsZero())
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	lifetime := 60 * time.Minute
	wrongSecret := "wrong-secret-that-is-long-enough-for-testing"

	tests := []struct {
		name      string
		setupFunc func() (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func() (JWTService, string) {
				svc := newHMACJWTService([]byte(testSecret), lifetime, fixedClock(fixedTime))
				token, _ := svc.GenerateToken(context.Background(), "sess", "admin")
				return svc, token
			},
		},
		{
			name: "expired token",
			setupFunc: func() (JWTService, string) {
				gen := newHMACJWTService([]byte(testSecret), lifetime, fixedClock(fixedTime))
				token, _ := gen.GenerateToken(context.Background(), "sess", "admin")
				return newHMACJWTService([]byte(testSecret), lifetime, fixedClock(fixedTime.Add(3*time.Hour))), token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "token without expiry rejected when lifetime is set",
			setupFunc: func() (JWTService, string) {
				gen := newHMACJWTService([]byte(testSecret), 0, fixedClock(fixedTime))
				token, _ := gen.GenerateToken(context.Background(), "sess", "admin")
				return newHMACJWTService([]byte(testSecret), lifetime, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong signature",
			setupFunc: func() (JWTService, string) {
				gen := newHMACJWTService([]byte(wrongSecret), lifetime, fixedClock(fixedTime))
				token, _ := gen.GenerateToken(context.Background(), "sess", "admin")
				return newHMACJWTService([]byte(testSecret), lifetime, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "malformed token",
			setupFunc: func() (JWTService, string) {
				return newHMACJWTService([]byte(testSecret), lifetime, fixedClock(fixedTime)), "not-a-jwt"
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "token without session id",
			setupFunc: func() (JWTService, string) {
				claims := jwtCustomClaims{
					TokenType: tokenType,
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   "admin",
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				}
				token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
				return newHMACJWTService([]byte(testSecret), lifetime, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "wrong signing method",
			setupFunc: func() (JWTService, string) {
				claims := jwtCustomClaims{
					TokenType:        tokenType,
					RegisteredClaims: jwt.RegisteredClaims{ID: "sess"},
				}
				token, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
				return newHMACJWTService([]byte(testSecret), 0, fixedClock(fixedTime)), token
			},
			wantErr: ErrInvalidToken,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, token := tc.setupFunc()
			claims, err := svc.ValidateToken(context.Background(), token)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "sess", claims.SessionID)
		})
	}
}
