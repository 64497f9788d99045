package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"leavechat/internal/auth"
	"leavechat/internal/domain"
	"leavechat/internal/domain/repositories"
	"leavechat/internal/httputil"
)

// AuthHandler handles login requests.
type AuthHandler struct {
	users  repositories.UserRepository
	tokens *auth.TokenManager
	logger *slog.Logger
}

func NewAuthHandler(users repositories.UserRepository, tokens *auth.TokenManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// Login verifies credentials and issues a signed token.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		httputil.RespondMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httputil.RespondMessage(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		h.logger.Error("login lookup failed", "username", req.Username, "error", err)
		httputil.RespondMessage(w, http.StatusInternalServerError, "Login failed")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		httputil.RespondMessage(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		h.logger.Error("token issue failed", "username", req.Username, "error", err)
		httputil.RespondMessage(w, http.StatusInternalServerError, "Login failed")
		return
	}

	h.logger.Info("user logged in", "username", user.Username, "role", user.Role)
	httputil.RespondJSON(w, http.StatusOK, loginResponse{
		Message:  "Login successful",
		Token:    token,
		Role:     string(user.Role),
		Username: user.Username,
	})
}
