// Package token issues and verifies the signed bearer tokens that carry an
// authenticated user's identity between requests.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mariangelapetruzzi0-cloud/Sistema-de-Horarios-Rimini/internal/application"
)

var (
	// ErrInvalidToken indicates a token that is malformed, signed with the
	// wrong key, or carries an unexpected signing method.
	ErrInvalidToken = errors.New("token: invalid token")
	// ErrExpiredToken indicates a structurally valid token past its expiry.
	ErrExpiredToken = errors.New("token: token expired")
)

// Claims is the payload embedded in every issued token.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies tokens with a shared HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer builds an Issuer. The clock is injectable for tests; passing nil
// uses time.Now.
func NewIssuer(secret []byte, ttl time.Duration, now func() time.Time) *Issuer {
	if now == nil {
		now = time.Now
	}
	return &Issuer{secret: secret, ttl: ttl, now: now}
}

// Issue creates a signed token for the user and returns it together with its
// expiry instant.
func (i *Issuer) Issue(user application.User) (string, time.Time, error) {
	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.ttl)

	claims := Claims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a token string and returns the principal it
// encodes. Expired tokens yield ErrExpiredToken; anything else that fails
// validation yields ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (application.Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return application.Principal{}, ErrExpiredToken
		}
		return application.Principal{}, ErrInvalidToken
	}
	if !parsed.Valid || claims.UserID == "" {
		return application.Principal{}, ErrInvalidToken
	}

	role, ok := application.ParseRole(claims.Role)
	if !ok {
		return application.Principal{}, ErrInvalidToken
	}
	return application.Principal{
		UserID: claims.UserID,
		Name:   claims.Name,
		Email:  claims.Email,
		Role:   role,
	}, nil
}
