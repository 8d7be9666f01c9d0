package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ekartshop/backend/internal/models"
)

// AuthService is interface for admin authentication
type AuthService interface {
	// Login checks password and returns new session token
	Login(password string) (string, error)
}

// AuthHandler represents HTTP handler for admin authentication
type AuthHandler struct {
	svc AuthService
}

// NewAuthHandler creates new AuthHandler instance
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// Login authenticates admin
// 200 — успешная аутентификация;
// 400 — неверный формат запроса;
// 401 — неверный пароль;
// 500 — внутренняя ошибка сервера.
func (ah *AuthHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		token, err := ah.svc.Login(req.Password)
		if err != nil {
			if errors.Is(err, models.ErrInvalidCredentials) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(loginResponse{Token: token}); err != nil {
			return
		}
	}
}
