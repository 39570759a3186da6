package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/session"
	"github.com/ariefcatur/go-storefront/internal/users"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserService interface {
	Register(ctx context.Context, req users.RegisterRequest) (*users.User, error)
	Login(ctx context.Context, req users.LoginRequest) (*users.User, error)
	Profile(ctx context.Context, userID string) (*users.User, error)
	UpdateProfile(ctx context.Context, userID string, req users.UpdateProfileRequest) (*users.User, error)
}

type AuthHandler struct {
	Users      UserService
	Sessions   session.Store
	SessionTTL time.Duration
	Logger     *zap.Logger
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/profile", h.profile)
	r.Put("/profile", h.updateProfile)
	r.Get("/check-auth", h.checkAuth)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req users.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.Users.Register(r.Context(), req)
	if errors.Is(err, users.ErrMissingFields) {
		writeError(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}
	if err != nil {
		fail(w, r, nopIfNil(h.Logger), err)
		return
	}
	if !h.startSession(w, r, u) {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Registration successful", "user": u})
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req users.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.Users.Login(r.Context(), req)
	if errors.Is(err, users.ErrMissingFields) {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if err != nil {
		fail(w, r, nopIfNil(h.Logger), err)
		return
	}
	if !h.startSession(w, r, u) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Login successful", "user": u})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if s, ok := session.FromContext(r.Context()); ok {
		if err := h.Sessions.Destroy(r.Context(), s.ID); err != nil {
			nopIfNil(h.Logger).Warn("destroy session", zap.Error(err))
		}
	}
	session.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (h *AuthHandler) profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	u, err := h.Users.Profile(r.Context(), userID)
	if err != nil {
		fail(w, r, nopIfNil(h.Logger), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (h *AuthHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req users.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.Users.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		fail(w, r, nopIfNil(h.Logger), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (h *AuthHandler) checkAuth(w http.ResponseWriter, r *http.Request) {
	userID := session.UserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	u, err := h.Users.Profile(r.Context(), userID)
	if errors.Is(err, users.ErrUserNotFound) {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	if err != nil {
		fail(w, r, nopIfNil(h.Logger), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "user": u})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, u *users.User) bool {
	s, err := h.Sessions.Create(r.Context(), u.ID, u.Username)
	if err != nil {
		fail(w, r, nopIfNil(h.Logger), err)
		return false
	}
	session.SetCookie(w, s, h.SessionTTL)
	return true
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := session.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return "", false
	}
	return userID, true
}
