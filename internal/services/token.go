package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is the fixed session lifetime.
const TokenTTL = 12 * time.Hour

const TokenType = "bearer"

// Tokens signs and verifies HS256 session tokens whose subject is a user id.
type Tokens struct {
	Secret []byte
	Now    func() time.Time
}

func NewTokens(secret string) *Tokens {
	return &Tokens{Secret: []byte(secret), Now: time.Now}
}

func (t *Tokens) Issue(subject string) (string, error) {
	now := t.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}

var ErrInvalidToken = Auth("Invalid or expired token")

// Verify returns the token subject.
func (t *Tokens) Verify(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.Now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
