package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdeck/internal/config"
	"github.com/phrazzld/taskdeck/internal/platform/logger"
)

// Authenticator checks the configured credentials and manages the sessions
// behind issued tokens.
type Authenticator struct {
	username string
	password string
	verifier PasswordVerifier
	tokens   JWTService
	sessions SessionStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthenticator creates an Authenticator for the single configured user.
// A configured password hash is checked with bcrypt; otherwise the plaintext
// password is compared directly.
func NewAuthenticator(
	cfg config.AuthConfig,
	tokens JWTService,
	sessions SessionStore,
	logger *slog.Logger,
) (*Authenticator, error) {
	if tokens == nil {
		return nil, errors.New("tokens cannot be nil")
	}
	if sessions == nil {
		return nil, errors.New("sessions cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &Authenticator{
		username: cfg.Username,
		password: cfg.Password,
		verifier: PlainVerifier{},
		tokens:   tokens,
		sessions: sessions,
		logger:   logger.With("component", "authenticator"),
		now:      time.Now,
	}
	if cfg.PasswordHash != "" {
		a.password = cfg.PasswordHash
		a.verifier = NewBcryptVerifier()
	}

	return a, nil
}

// Login verifies the credentials and returns a bearer token for a new
// session. The username is trimmed before comparison.
func (a *Authenticator) Login(ctx context.Context, username, password string) (string, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	username = strings.TrimSpace(username)
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := a.verifier.Compare(a.password, password)
	if !userOK || passErr != nil {
		log.Info("login rejected")
		return "", ErrInvalidCredentials
	}

	session := Session{
		ID:        uuid.NewString(),
		Username:  username,
		CreatedAt: a.now().UTC(),
	}

	token, err := a.tokens.GenerateToken(ctx, session.ID, username)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	if err := a.sessions.Save(ctx, session); err != nil {
		return "", fmt.Errorf("failed to save session: %w", err)
	}

	log.Info("login succeeded", "session_id", session.ID)
	return token, nil
}

// Authenticate returns the session behind a bearer token. Tokens that fail
// validation or whose session was revoked are rejected.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	claims, err := a.tokens.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return a.sessions.Get(ctx, claims.SessionID)
}

// Logout revokes the session behind a token.
func (a *Authenticator) Logout(ctx context.Context, token string) error {
	session, err := a.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	if err := a.sessions.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	logger.FromContextOrDefault(ctx, a.logger).Info("logged out", "session_id", session.ID)
	return nil
}
