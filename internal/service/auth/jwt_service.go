// Package auth issues and checks the bearer tokens that protect the task API.
//
// A successful login creates a session and hands the client an HS256 JWT whose
// token id names that session. Requests are authorized only while the token
// verifies and its session is still present in the session store.
package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for the given session.
	GenerateToken(ctx context.Context, sessionID, username string) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	// SessionID is the id of the session the token was issued for.
	SessionID string `json:"jti,omitempty"`

	// Subject is the username that logged in.
	Subject string `json:"sub,omitempty"`

	IssuedAt time.Time `json:"iat,omitempty"`

	// ExpiresAt is zero for tokens without expiry.
	ExpiresAt time.Time `json:"exp,omitempty"`
}
