// Package auth mints and verifies the signed session tokens carried in the
// web front end's browser cookie.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken indicates a session token that fails verification.
var ErrInvalidToken = errors.New("auth: invalid token")

// TokenIssuer signs and verifies session tokens. Tokens bind a session ID
// to an optional signed-in username; the session's game state itself lives
// server-side.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer signing with the given HMAC secret.
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl}
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	Username  string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// Mint returns a signed token for the session. Username is empty for
// anonymous sessions.
func (i *TokenIssuer) Mint(sessionID, username string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		SessionID: sessionID,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "twentyone",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, nil
}

// Verify checks a token's signature and expiry, returning the session ID
// and username it carries.
func (i *TokenIssuer) Verify(tokenString string) (sessionID, username string, err error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer("twentyone"),
		jwt.WithExpirationRequired())
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.SessionID == "" {
		return "", "", ErrInvalidToken
	}
	return claims.SessionID, claims.Username, nil
}
