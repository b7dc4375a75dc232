// JWT authentication middleware. The access token is read from the
// accessToken cookie or from the Authorization header; verified claims are
// placed in the request context for downstream handlers.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/apperror"
)

// JWTMiddleware verifies the access token on every request it wraps. It
// conforms to the standard func(http.Handler) http.Handler middleware shape
// used by chi.
func JWTMiddleware(tokens *TokenIssuer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				WriteError(w, r, apperror.NewAuthError("unauthorized request", nil))
				return
			}

			claims, err := tokens.VerifyAccessToken(tokenString)
			if err != nil {
				if errors.Is(err, ErrTokenExpired) {
					WriteError(w, r, apperror.NewAuthError("access token is expired", err))
					return
				}
				WriteError(w, r, apperror.NewAuthError("invalid access token", err))
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContextWithClaims(r.Context(), claims)))
		})
	}
}

// tokenFromRequest extracts the access token from the accessToken cookie,
// falling back to a Bearer Authorization header.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
