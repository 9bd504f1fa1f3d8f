package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pardinian/studypath-api/internal/api/middleware"
	"github.com/pardinian/studypath-api/internal/service/auth"
)

// stubJWTService accepts a single known token and fails everything else
// with a scripted error.
type stubJWTService struct {
	validToken string
	userID     uuid.UUID
	err        error
}

func (s *stubJWTService) GenerateToken(_ context.Context, _ uuid.UUID) (string, error) {
	return s.validToken, nil
}

func (s *stubJWTService) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	if token == s.validToken && s.err == nil {
		return &auth.Claims{UserID: s.userID}, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return nil, auth.ErrInvalidToken
}

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r)
		require.True(t, ok, "user ID must be present after authentication")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(userID.String()))
	})
}

func TestAuthenticateSuccess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	m := middleware.NewAuthMiddleware(&stubJWTService{validToken: "good-token", userID: userID})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()

	m.Authenticate(protectedEcho(t)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID.String(), rec.Body.String())
}

func TestAuthenticateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		header      string
		serviceErr  error
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "missing header",
			header:      "",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Authorization header required",
		},
		{
			name:        "not bearer scheme",
			header:      "Basic dXNlcjpwYXNz",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid authorization format",
		},
		{
			name:        "missing token part",
			header:      "Bearer",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid authorization format",
		},
		{
			name:        "expired token",
			header:      "Bearer stale",
			serviceErr:  auth.ErrExpiredToken,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Token expired",
		},
		{
			name:        "token not yet valid",
			header:      "Bearer early",
			serviceErr:  auth.ErrTokenNotYetValid,
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Token not yet valid",
		},
		{
			name:        "invalid token",
			header:      "Bearer garbage",
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "Invalid token",
		},
		{
			name:        "unexpected validation error",
			header:      "Bearer anything",
			serviceErr:  errors.New("signing backend unavailable"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Authentication error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m := middleware.NewAuthMiddleware(&stubJWTService{validToken: "good-token", err: tc.serviceErr})

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			m.Authenticate(next).ServeHTTP(rec, req)

			assert.False(t, nextCalled, "handler must not run on rejected requests")
			assert.Equal(t, tc.wantStatus, rec.Code)

			var body struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.wantMessage, body.Error)
		})
	}
}

func TestGetUserIDWithoutContext(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := middleware.GetUserID(req)
	assert.False(t, ok)
}
