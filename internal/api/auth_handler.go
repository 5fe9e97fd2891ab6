package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskdeck/internal/api/shared"
	"github.com/phrazzld/taskdeck/internal/domain"
	"github.com/phrazzld/taskdeck/internal/platform/logger"
	"github.com/phrazzld/taskdeck/internal/service/auth"
)

// Authenticator is the part of auth.Authenticator the handlers use.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	authenticator Authenticator
	maxBodyBytes  int64
	logger        *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authenticator Authenticator, maxBodyBytes int64, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		authenticator: authenticator,
		maxBodyBytes:  maxBodyBytes,
		logger:        logger.With("component", "auth_handler"),
	}
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	payload, err := shared.DecodePayload(r, h.maxBodyBytes)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.BodyErrorMessage(err))
		return
	}

	req := LoginRequest{
		Username: domain.Text(payload.Get("username")),
		Password: passwordText(payload.Get("password")),
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.authenticator.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials", err,
				shared.WithElevatedLogLevel())
			return
		}
		logger.FromContextOrDefault(r.Context(), h.logger).Error("failed to log in", "error", err)
		HandleAPIError(w, r, err, "Internal server error")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{Token: token})
}

// Logout handles POST /logout. The route must sit behind the auth middleware.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := shared.GetToken(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.authenticator.Logout(r.Context(), token); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if sessionID, ok := shared.GetSessionID(r.Context()); ok {
		logger.FromContextOrDefault(r.Context(), h.logger).Info("session revoked", "session_id", sessionID)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, shared.MessageResponse{Message: "Logged out"})
}
