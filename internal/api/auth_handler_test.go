package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/taskdeck/internal/api/shared"
	"github.com/phrazzld/taskdeck/internal/platform/logger"
	"github.com/phrazzld/taskdeck/internal/service/auth"
	"github.com/stretchr/testify/assert"
)

type stubAuthenticator struct {
	loginUser, loginPass string
	loginErr             error
	logoutToken          string
	logoutErr            error
}

func (s *stubAuthenticator) Login(_ context.Context, username, password string) (string, error) {
	s.loginUser, s.loginPass = username, password
	if s.loginErr != nil {
		return "", s.loginErr
	}
	if username == "admin" && password == "1234" {
		return "issued-token", nil
	}
	return "", auth.ErrInvalidCredentials
}

func (s *stubAuthenticator) Logout(_ context.Context, token string) error {
	s.logoutToken = token
	return s.logoutErr
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"valid", `{"username":" admin ","password":"1234"}`, http.StatusOK, `{"token":"issued-token"}`},
		{"numeric password", `{"username":"admin","password":1234}`, http.StatusOK, `{"token":"issued-token"}`},
		{"wrong password", `{"username":"admin","password":"0000"}`, http.StatusUnauthorized, `{"error":"Invalid credentials"}`},
		{"missing fields", `{}`, http.StatusUnauthorized, `{"error":"Invalid credentials"}`},
		{"empty body", ``, http.StatusUnauthorized, `{"error":"Invalid credentials"}`},
		{"malformed", `{"username":`, http.StatusBadRequest, `{"error":"Invalid JSON body"}`},
		{"not an object", `["admin","1234"]`, http.StatusBadRequest, `{"error":"Invalid JSON body"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAuthHandler(&stubAuthenticator{}, 0, nil)

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			h.Login(w, req)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.JSONEq(t, tc.wantBody, w.Body.String())
		})
	}
}

func TestAuthHandler_Login_TrimsUsernameOnly(t *testing.T) {
	t.Parallel()

	stub := &stubAuthenticator{}
	h := NewAuthHandler(stub, 0, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"  admin\t","password":" 1234 "}`))
	h.Login(httptest.NewRecorder(), req)

	assert.Equal(t, "admin", stub.loginUser)
	assert.Equal(t, " 1234 ", stub.loginPass)
}

func TestAuthHandler_Login_InternalError(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(&stubAuthenticator{loginErr: errors.New("signing failed")}, 0, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"admin","password":"1234"}`))
	w := httptest.NewRecorder()
	h.Login(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestAuthHandler_Logout(t *testing.T) {
	t.Parallel()

	stub := &stubAuthenticator{}
	l, logs := logger.GetTestLogger(t)
	h := NewAuthHandler(stub, 0, l)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req = req.WithContext(shared.WithSession(req.Context(), "sess-1", "issued-token"))
	w := httptest.NewRecorder()
	h.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logged out"}`, w.Body.String())
	assert.Equal(t, "issued-token", stub.logoutToken)
	logger.AssertLogContains(t, logs, `"session_id":"sess-1"`)

	w = httptest.NewRecorder()
	h.Logout(w, httptest.NewRequest(http.MethodPost, "/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	stub.logoutErr = auth.ErrSessionNotFound
	w = httptest.NewRecorder()
	h.Logout(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
}
