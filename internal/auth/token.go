package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token validity window. Logout is a client-side token discard, so the
// expiry is the only thing that ends a session.
const TokenTTL = 24 * time.Hour

var (
	// ErrNoToken means no token was presented at all.
	ErrNoToken = errors.New("no token provided")
	// ErrInvalidToken means the token was malformed, tampered with, or expired.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims are the payload carried by every issued token.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies bearer tokens with a shared HMAC secret.
// Verification is stateless; there is no server-side session store.
type Tokens struct {
	secret []byte
}

// NewTokens creates a token signer/verifier.
func NewTokens(secret string) (*Tokens, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &Tokens{secret: []byte(secret)}, nil
}

// Issue signs a token for the given user, valid for TokenTTL.
func (t *Tokens) Issue(userID, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning its claims.
func (t *Tokens) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrNoToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
