package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// claimsCapture records the claims the middleware placed in the context.
func claimsCapture(captured **Claims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := ClaimsFromContext(r.Context()); ok {
			*captured = claims
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTMiddlewareBearerHeader(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())
	token, err := issuer.IssueAccessToken(testUser())
	require.NoError(t, err)

	var captured *Claims
	handler := JWTMiddleware(issuer)(claimsCapture(&captured))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, captured)
	assert.Equal(t, testUser().ID, captured.UserID)
	assert.Equal(t, testUser().Username, captured.Username)
}

func TestJWTMiddlewareCookie(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())
	token, err := issuer.IssueAccessToken(testUser())
	require.NoError(t, err)

	var captured *Claims
	handler := JWTMiddleware(issuer)(claimsCapture(&captured))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, captured)
	assert.Equal(t, testUser().ID, captured.UserID)
}

func TestJWTMiddlewareMissingToken(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())
	handler := JWTMiddleware(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "unauthorized request")
}

func TestJWTMiddlewareExpiredToken(t *testing.T) {
	cfg := testAuthConfig()
	cfg.AccessTokenDuration = -time.Minute
	expiredIssuer := NewTokenIssuer(cfg)
	token, err := expiredIssuer.IssueAccessToken(testUser())
	require.NoError(t, err)

	handler := JWTMiddleware(NewTokenIssuer(testAuthConfig()))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "access token is expired")
}

func TestJWTMiddlewareRejectsRefreshToken(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())
	refreshToken, err := issuer.IssueRefreshToken(testUser().ID)
	require.NoError(t, err)

	handler := JWTMiddleware(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
	req.Header.Set("Authorization", "Bearer "+refreshToken)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid access token")
}

func TestJWTMiddlewareMalformedAuthHeader(t *testing.T) {
	issuer := NewTokenIssuer(testAuthConfig())
	handler := JWTMiddleware(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not be reached")
	}))

	for _, header := range []string{"Basic abc123", "Bearer", "justatoken"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/current-user", nil)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "header %q", header)
	}
}
