package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const rememberMeDays = 30

// SessionSigner signs and verifies the browser session cookie. The token
// subject is the user's API key, so rotating the key ends every session.
type SessionSigner struct {
	secret []byte
}

func NewSessionSigner(secret string) *SessionSigner {
	return &SessionSigner{secret: []byte(secret)}
}

// Sign returns a token for apiKey. A zero expiresAt produces a token
// without an exp claim.
func (s *SessionSigner) Sign(apiKey string, expiresAt time.Time) (string, error) {
	if apiKey == "" {
		return "", ErrInvalid
	}
	claims := jwt.RegisteredClaims{
		Subject:  apiKey,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	if !expiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Verify returns the API key carried by token, or ErrUnauthorized.
func (s *SessionSigner) Verify(token string) (string, error) {
	apiKey, _, err := s.Session(token)
	return apiKey, err
}

// Session is Verify that also returns the token's expiry. The expiry is
// zero for a token signed without one.
func (s *SessionSigner) Session(token string) (string, time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", time.Time{}, fmt.Errorf("%w: session expired", ErrUnauthorized)
		}
		return "", time.Time{}, ErrUnauthorized
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", time.Time{}, ErrUnauthorized
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return claims.Subject, expiresAt, nil
}

// RememberMeExpiry is UTC midnight of now's day plus thirty days.
func RememberMeExpiry(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, rememberMeDays)
}
