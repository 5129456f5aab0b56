package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fitplanner/apiserver/internal/password"
	"github.com/fitplanner/apiserver/internal/services"
	"github.com/fitplanner/apiserver/internal/store"
	"github.com/fitplanner/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// UserHandler provides HTTP handlers for user profiles.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler constructs a handler with the provided service.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UserRouter registers user routes on the given router. The per-email routes
// require authentication; a token whose subject differs from the path email
// is answered with 404 so that other accounts cannot be probed.
func UserRouter(r chi.Router, userService *services.UserService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewUserHandler(userService)

	r.Get("/", handler.ListUsers)
	r.Route("/{userEmail}", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", handler.GetUser)
		r.Put("/", handler.UpdateUser)
		r.Delete("/", handler.DeleteUser)
	})
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeInternalError(w, "failed to list users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	current, err := userFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "unauthorized")
		return
	}

	email := chi.URLParam(r, "userEmail")
	if email != current.Email {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	user, err := h.userService.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeInternalError(w, "failed to fetch user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	current, err := userFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "unauthorized")
		return
	}

	email := chi.URLParam(r, "userEmail")
	if email != current.Email {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if req.ExperienceLevel != nil && *req.ExperienceLevel != "" && !req.ExperienceLevel.Valid() {
		writeError(w, http.StatusBadRequest, "invalid experience level")
		return
	}
	if req.Goal != nil && *req.Goal != "" && !req.Goal.Valid() {
		writeError(w, http.StatusBadRequest, "invalid goal")
		return
	}

	patch := services.UserPatch{
		Name:            req.Name,
		Email:           req.Email,
		ExperienceLevel: req.ExperienceLevel,
		Goal:            req.Goal,
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := password.Hash(*req.Password)
		if err != nil {
			writeInternalError(w, "failed to update user", err)
			return
		}
		patch.PasswordHash = &hashed
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		patch.Name = &trimmed
	}
	if req.Email != nil {
		trimmed := strings.TrimSpace(*req.Email)
		patch.Email = &trimmed
	}

	user, err := h.userService.Update(r.Context(), current.ID, patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusBadRequest, "user with this email already exists")
			return
		}
		writeInternalError(w, "failed to update user", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	current, err := userFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w, "unauthorized")
		return
	}

	email := chi.URLParam(r, "userEmail")
	if email != current.Email {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.userService.Delete(r.Context(), current.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeInternalError(w, "failed to delete user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateUserRequest represents a partial profile update. Absent and empty
// fields leave the stored values untouched; a new password is re-hashed.
type UpdateUserRequest struct {
	Name            *string                `json:"name"`
	Email           *string                `json:"email"`
	Password        *string                `json:"password"`
	ExperienceLevel *types.ExperienceLevel `json:"experience_level"`
	Goal            *types.Goal            `json:"goal"`
}
