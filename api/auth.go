package api

import (
	"encoding/json"
	"net/http"

	"github.com/garnizeh/workshop/internal/auth"
	"github.com/garnizeh/workshop/pkg/repository"
)

type AuthHandler struct {
	userRepo repository.UserRepo
	issuer   *auth.TokenIssuer
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(ur repository.UserRepo, issuer *auth.TokenIssuer) *AuthHandler {
	return &AuthHandler{userRepo: ur, issuer: issuer}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  loginUser `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.userRepo.GetByUsername(r.Context(), req.Username)
	if err != nil {
		writeStoreError(w, r, "login lookup", err)
		return
	}
	// Same response for unknown user and wrong password.
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.issuer.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		writeError(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, loginResponse{
		Token: token,
		User:  loginUser{ID: user.ID, Username: user.Username, Role: user.Role},
	}, http.StatusOK)
}
