// Package auth issues and verifies session tokens and drives the Google
// OAuth sign-in flow.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

// TokenIssuer mints and parses HS256 session tokens. The subject claim
// carries the account id.
type TokenIssuer struct {
	secret []byte
	maxAge time.Duration
}

// NewTokenIssuer creates an issuer signing with the given secret. Sessions
// expire after maxDays.
func NewTokenIssuer(secret string, maxDays int) *TokenIssuer {
	if maxDays <= 0 {
		maxDays = 30
	}
	return &TokenIssuer{
		secret: []byte(secret),
		maxAge: time.Duration(maxDays) * 24 * time.Hour,
	}
}

// MaxAge returns the session lifetime.
func (t *TokenIssuer) MaxAge() time.Duration {
	return t.maxAge
}

// Issue signs a session token for the given account id.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.maxAge)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies a session token and returns the account id it was issued
// for. Expired, malformed or foreign-signed tokens all return
// ErrInvalidToken.
func (t *TokenIssuer) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
