package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/HammerMeetNail/paddock/internal/models"
	"github.com/HammerMeetNail/paddock/internal/services"
)

type AuthHandler struct {
	authService services.AuthServiceInterface
	userService services.UserServiceInterface
}

func NewAuthHandler(authService services.AuthServiceInterface, userService services.UserServiceInterface) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if err := services.ValidateUsername(req.Username); err != nil {
		writeError(w, http.StatusBadRequest, "Username must be 3-50 letters, digits, '_', '-' or '.'")
		return
	}

	resp, err := h.authService.Register(r.Context(), req)
	switch {
	case errors.Is(err, services.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	case errors.Is(err, services.ErrUsernameTaken):
		writeError(w, http.StatusConflict, "Username already taken")
		return
	case errors.Is(err, services.ErrEmailAlreadyExists):
		writeError(w, http.StatusConflict, "Email already registered")
		return
	case err != nil:
		writeServiceError(w, err, "register")
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	resp, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		writeServiceError(w, err, "login")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if err := h.authService.Logout(r.Context(), claims); err != nil {
		writeServiceError(w, err, "logout")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	user, err := h.userService.GetByID(r.Context(), userID)
	if errors.Is(err, services.ErrUserNotFound) {
		// Token outlived its account.
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if err != nil {
		writeServiceError(w, err, "me")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
