// Package auth provides the authentication building blocks: bcrypt
// password hashing, JWT session tokens, OAuth provider flows, and the
// middleware that turns a valid token into a userID on the request
// context.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is the session token lifetime. After expiry the client must
// log in again.
const tokenTTL = 24 * time.Hour

// TokenService signs and validates the JWT session tokens issued after
// registration, login, or an OAuth callback.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given HMAC secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Generate creates a signed HS256 token whose Subject claim carries the
// user's internal ID.
func (s *TokenService) Generate(userID string) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			Issuer:    "project-management-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token string and returns the userID it
// encodes. Expired, tampered, or wrongly-signed tokens all fail here.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	var c claims

	token, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (any, error) {
		// Reject tokens signed with anything other than our HMAC scheme —
		// accepting the token's own alg claim would allow forgeries.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("auth: parsing token: %w", err)
	}
	if !token.Valid || c.Subject == "" {
		return "", errors.New("auth: invalid token")
	}

	return c.Subject, nil
}
