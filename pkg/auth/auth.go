// Package auth issues and verifies the HS256 bearer tokens carrying the
// identity of the account calling the escrow daemon.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// Issuer is the iss claim of every token minted by this package.
	Issuer = "escrowd"
	// MetadataKey is the gRPC metadata key, and the HTTP header, carrying the
	// bearer token.
	MetadataKey = "authorization"

	bearerPrefix = "Bearer "
)

var (
	ErrMissingSecret  = errors.New("missing auth secret")
	ErrMissingAccount = errors.New("missing account")
	ErrMissingToken   = errors.New("missing bearer token")
	ErrInvalidToken   = errors.New("invalid bearer token")
)

type callerKey struct{}

// NewToken returns a token for the given account signed with secret. A ttl
// of zero means the token never expires.
func NewToken(secret []byte, account string, ttl time.Duration) (string, error) {
	if len(secret) <= 0 {
		return "", ErrMissingSecret
	}
	if len(account) <= 0 {
		return "", ErrMissingAccount
	}

	now := time.Now()
	claims := jwt.StandardClaims{
		Issuer:   Issuer,
		Subject:  account,
		IssuedAt: now.Unix(),
	}
	if ttl > 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseToken verifies the given token and returns the account it was issued
// for.
func ParseToken(secret []byte, tokenStr string) (string, error) {
	if len(secret) <= 0 {
		return "", ErrMissingSecret
	}
	if len(tokenStr) <= 0 {
		return "", ErrMissingToken
	}

	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(
		tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return secret, nil
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Issuer != Issuer {
		return "", ErrInvalidToken
	}
	if len(claims.Subject) <= 0 {
		return "", fmt.Errorf("%w: %s", ErrInvalidToken, ErrMissingAccount)
	}
	return claims.Subject, nil
}

// TokenFromHeader extracts the token from an "authorization" header value.
func TokenFromHeader(value string) (string, error) {
	if len(value) <= 0 {
		return "", ErrMissingToken
	}
	if !strings.HasPrefix(value, bearerPrefix) {
		return "", ErrInvalidToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(value, bearerPrefix))
	if len(token) <= 0 {
		return "", ErrMissingToken
	}
	return token, nil
}

// WithCaller returns a copy of ctx carrying the authenticated account.
func WithCaller(ctx context.Context, account string) context.Context {
	return context.WithValue(ctx, callerKey{}, account)
}

// CallerFromContext returns the authenticated account, if any.
func CallerFromContext(ctx context.Context) (string, bool) {
	account, ok := ctx.Value(callerKey{}).(string)
	return account, ok && len(account) > 0
}
