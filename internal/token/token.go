// Package token issues and validates the bearer tokens used for
// authenticating API requests. Tokens are HS256 JWTs whose subject is the
// user's email address.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

var (
	// ErrExpired is returned when the token's expiry has passed.
	ErrExpired = errors.New("token expired")

	// ErrMalformed is returned when the token cannot be decoded or its
	// signature does not verify.
	ErrMalformed = errors.New("malformed token")

	// ErrMissingSubject is returned when a decoded token carries no subject.
	ErrMissingSubject = errors.New("token missing subject")
)

// Issue creates a signed token for the given subject, expiring ttl from now.
func Issue(subject string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(secret)
}

// Validate verifies a token and returns its subject. An optional "Bearer "
// prefix is stripped (case-sensitively) before decoding, so both a bare token
// and a full Authorization header value are accepted.
func Validate(raw string, secret []byte) (string, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, bearerPrefix))
	if raw == "" {
		return "", ErrMalformed
	}

	claims := jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrMalformed
	}
	if !tok.Valid {
		return "", ErrMalformed
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}
