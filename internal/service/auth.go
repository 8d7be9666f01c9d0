package service

import (
	"github.com/ekartshop/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates admin and issues session tokens
type AuthService struct {
	passwordHash []byte
	tokens       TokenService
}

// NewAuthService creates new AuthService instance. With an empty password
// hash the admin surface stays open and login always fails.
func NewAuthService(passwordHash string, tokens TokenService) *AuthService {
	return &AuthService{
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
	}
}

// Enabled reports whether admin password is configured
func (as *AuthService) Enabled() bool {
	return len(as.passwordHash) > 0
}

// Login checks password and returns new session token
func (as *AuthService) Login(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(as.passwordHash, []byte(password)); err != nil {
		return "", models.ErrInvalidCredentials
	}

	return as.tokens.CreateToken()
}
