package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is an authenticated (or fallback) user as seen by the core.
type Identity struct {
	UserID    int
	Username  string
	Anonymous bool
}

// TokenValidator verifies bearer tokens and extracts the caller identity.
type TokenValidator interface {
	ValidateToken(token string) (Identity, error)
}

// JWTValidator validates HS256-signed tokens issued by the auth service.
type JWTValidator struct {
	secret []byte
}

// NewJWTValidator constructs a JWTValidator.
func NewJWTValidator(secret string) *JWTValidator {
	return &JWTValidator{secret: []byte(secret)}
}

type claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// ValidateToken parses and verifies the token and returns the identity it
// carries.
func (v *JWTValidator) ValidateToken(token string) (Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || c.UserID == 0 {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: c.UserID, Username: c.Username}, nil
}
