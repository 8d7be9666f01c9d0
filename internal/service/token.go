package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const tokenTTL = 24 * time.Hour

// TokenService issues and verifies admin session tokens
type TokenService interface {
	CreateToken() (string, error)
	VerifyToken(tokenString string) error
}

// JWTTokenService implements TokenService over HS256 JWT
type JWTTokenService struct {
	key []byte
}

// NewJWTTokenService creates new JWTTokenService instance
func NewJWTTokenService(key []byte) *JWTTokenService {
	return &JWTTokenService{key: key}
}

// CreateToken issues signed admin session token
func (ts *JWTTokenService) CreateToken() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.key)
}

// VerifyToken checks token signature and expiry
func (ts *JWTTokenService) VerifyToken(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.key, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return jwt.ErrTokenUnverifiable
	}

	return nil
}
