package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/10Sumedh01/video-streaming-platfrom-backend-prj/config"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"

	tokenIssuer = "videotube"
)

// Typed verification failures. Callers branch on the kind: an expired refresh
// token and a forged one both end in a 401, but the reason differs.
var (
	// ErrTokenExpired means the token was well formed and correctly signed
	// but its expiry has passed.
	ErrTokenExpired = errors.New("token is expired")
	// ErrTokenMalformed means the token could not be parsed at all.
	ErrTokenMalformed = errors.New("token is malformed")
	// ErrTokenSignature means the signature does not verify under the
	// expected secret.
	ErrTokenSignature = errors.New("token signature is invalid")
	// ErrTokenInvalid covers every other verification failure, including a
	// token of the wrong kind (an access token presented as a refresh token).
	ErrTokenInvalid = errors.New("token is invalid")
)

// Claims is the JWT payload. Access tokens carry id, username, and email;
// refresh tokens carry only the id, since their sole purpose is
// re-authentication. The token_type claim plus the per-kind secret prevent
// one kind being replayed as the other.
type Claims struct {
	UserID    string `json:"id"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenIssuer constructs, signs, and verifies access and refresh tokens. The
// signing secrets are server-held configuration; no user-controlled input is
// ever used as signing material.
type TokenIssuer struct {
	cfg config.AuthConfig
}

// NewTokenIssuer creates a TokenIssuer from the auth configuration.
func NewTokenIssuer(cfg config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg}
}

// IssueAccessToken signs a short-lived token binding the user's identity
// claims.
func (t *TokenIssuer) IssueAccessToken(user *User) (string, error) {
	return t.sign(&Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		TokenType: tokenTypeAccess,
	}, t.cfg.AccessTokenSecret, t.cfg.AccessTokenDuration)
}

// IssueRefreshToken signs a long-lived token carrying only the user id.
func (t *TokenIssuer) IssueRefreshToken(userID string) (string, error) {
	return t.sign(&Claims{
		UserID:    userID,
		TokenType: tokenTypeRefresh,
	}, t.cfg.RefreshTokenSecret, t.cfg.RefreshTokenDuration)
}

func (t *TokenIssuer) sign(claims *Claims, secret string, duration time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    tokenIssuer,
		Subject:   claims.UserID,
		// The jti makes every issued token distinct, even two tokens for
		// the same user signed within the same second. Rotation depends on
		// the new refresh token differing from the one it replaces.
		ID: uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken checks the signature and expiry of an access token and
// returns its claims.
func (t *TokenIssuer) VerifyAccessToken(tokenString string) (*Claims, error) {
	return verify(tokenString, t.cfg.AccessTokenSecret, tokenTypeAccess)
}

// VerifyRefreshToken checks the signature and expiry of a refresh token and
// returns its claims. A valid signature alone is never sufficient to accept a
// refresh token; the lifecycle manager also cross-checks it against the
// persisted token.
func (t *TokenIssuer) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return verify(tokenString, t.cfg.RefreshTokenSecret, tokenTypeRefresh)
}

func verify(tokenString, secret, expectedType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenInvalid
		}
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.TokenType != expectedType || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
