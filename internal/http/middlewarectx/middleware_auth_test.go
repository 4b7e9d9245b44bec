package middlewarectx_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/auth-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/auth-service/internal/lib/jwt"
)

// Мок для TokenParser
type TokenParserMock struct {
	mock.Mock
}

func (m *TokenParserMock) ParseToken(token string) (*jwt.CustomClaims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*jwt.CustomClaims)
	return claims, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	validClaims := &jwt.CustomClaims{Email: "u1@x.com", Role: "USER"}
	validClaims.Subject = "u1"

	tests := []struct {
		name           string
		authHeader     string
		token          string
		mockClaims     *jwt.CustomClaims
		mockErr        error
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "token validation error",
			authHeader:     "Bearer expired",
			token:          "expired",
			mockErr:        errors.New("token is expired"),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "valid token",
			authHeader:     "Bearer validtoken",
			token:          "validtoken",
			mockClaims:     validClaims,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := new(TokenParserMock)
			if tt.token != "" {
				parser.On("ParseToken", tt.token).Return(tt.mockClaims, tt.mockErr).Once()
			}

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				userID, ok := middlewarectx.UserIDFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, "u1", userID)
				assert.Equal(t, "u1@x.com", r.Context().Value(middlewarectx.Email))
				assert.Equal(t, "USER", r.Context().Value(middlewarectx.Role))
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			middlewarectx.JWTMiddleware(parser, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			if !tt.wantCalled {
				assert.Contains(t, rec.Body.String(), `"status":"Error"`)
			}
			parser.AssertExpectations(t)
		})
	}
}

func TestJWTMiddleware_WithRealMaker(t *testing.T) {
	maker := jwt.NewJWTMaker("secret", time.Minute)
	token, err := maker.GenerateToken("u1", "u1@x.com", "ADMIN")
	assert.NoError(t, err)

	var gotRole any
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = r.Context().Value(middlewarectx.Role)
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	middlewarectx.JWTMiddleware(maker, newNoopLogger())(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ADMIN", gotRole)
}

func TestUserIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := middlewarectx.UserIDFromContext(req.Context())
	assert.False(t, ok)
}
