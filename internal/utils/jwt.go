package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenProvider issues and validates HS256 JWTs bound to a username.
// Tokens carry only subject, issued-at and expiry; there is no revocation
// list, logout is client-side token discard.
type TokenProvider struct {
	secret           []byte
	expiration       time.Duration
	rememberDuration time.Duration
}

// NewTokenProvider creates a TokenProvider. Secrets shorter than 32 bytes
// are zero-padded to satisfy the HS256 minimum key length.
func NewTokenProvider(secret string, expiration, rememberDuration time.Duration) *TokenProvider {
	key := []byte(secret)
	if len(key) < 32 {
		padded := make([]byte, 32)
		copy(padded, key)
		key = padded
	}
	return &TokenProvider{
		secret:           key,
		expiration:       expiration,
		rememberDuration: rememberDuration,
	}
}

// GenerateToken issues a signed token for the username. rememberMe selects
// the extended lifetime.
func (p *TokenProvider) GenerateToken(username string, rememberMe bool) (string, error) {
	expiration := p.expiration
	if rememberMe {
		expiration = p.rememberDuration
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// ValidateToken checks signature and expiry and returns the subject username.
func (p *TokenProvider) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
