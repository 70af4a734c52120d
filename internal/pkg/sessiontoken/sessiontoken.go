package sessiontoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// The session token carries the per-browser-session correlation id across
// stateless requests. It identifies a page session, not a user: there is no
// authentication behind it.

var ErrInvalidToken = errors.New("invalid session token")

type Claims struct {
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Mint allocates a fresh session id and signs a token for it.
func Mint(secret string, ttl time.Duration) (string, string, error) {
	sessionID := uuid.NewString()
	now := time.Now()

	claims := Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", "", fmt.Errorf("sign session token failed: %w", err)
	}
	return sessionID, token, nil
}

// Parse validates the token and returns its session id.
func Parse(secret, token string) (string, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid || claims.SessionID == "" {
		return "", ErrInvalidToken
	}
	return claims.SessionID, nil
}
