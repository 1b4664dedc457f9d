package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the user id carried by the token, preferring the user_id
// claim over the subject.
func (c *Claims) Identity() (uuid.UUID, error) {
	raw := c.UserID
	if raw == "" {
		raw = c.Subject
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: token carries no user id", ErrUnauthorized)
	}
	return id, nil
}

// TokenVerifier signs and validates HS256 tokens with a fixed secret. A
// verifier without a secret rejects every token.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

func (v *TokenVerifier) Enabled() bool {
	return len(v.secret) > 0
}

func (v *TokenVerifier) CreateToken(userID uuid.UUID, ttl time.Duration) (string, error) {
	if !v.Enabled() {
		return "", fmt.Errorf("%w: JWT_SECRET is not set", ErrUnauthorized)
	}
	now := time.Now()
	claims := &Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

func (v *TokenVerifier) ValidateToken(tokenString string) (*Claims, error) {
	if !v.Enabled() {
		return nil, fmt.Errorf("%w: JWT_SECRET is not set", ErrUnauthorized)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return claims, nil
}
