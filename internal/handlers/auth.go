package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fitplanner/apiserver/internal/password"
	"github.com/fitplanner/apiserver/internal/services"
	"github.com/fitplanner/apiserver/internal/store"
	"github.com/fitplanner/apiserver/internal/token"
	"github.com/fitplanner/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// AuthHandler provides signup and login endpoints.
type AuthHandler struct {
	userService *services.UserService
	secret      []byte
	tokenTTL    time.Duration
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		secret:      []byte(jwtSecret),
		tokenTTL:    tokenTTL,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, jwtSecret string, tokenTTL time.Duration) {
	handler := NewAuthHandler(userService, jwtSecret, tokenTTL)

	r.Post("/signup", handler.Signup)
	r.Post("/login", handler.Login)
}

// RequireUser enforces bearer authentication and resolves the token subject
// to a stored user, injecting it into the request context. It is the only
// access-control gate: handlers behind it receive a full user, never a raw
// token. A subject whose account has been deleted since issuance is rejected
// the same way as a bad token.
func RequireUser(userService *services.UserService, jwtSecret string) func(http.Handler) http.Handler {
	secret := []byte(jwtSecret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				writeUnauthorized(w, "unauthorized")
				return
			}

			subject, err := token.Validate(raw, secret)
			if err != nil {
				if errors.Is(err, token.ErrExpired) {
					writeUnauthorized(w, "token has expired")
					return
				}
				writeUnauthorized(w, "unauthorized")
				return
			}

			user, err := userService.GetByEmail(r.Context(), subject)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					writeUnauthorized(w, "unauthorized")
					return
				}
				writeInternalError(w, "failed to load user", err)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithUser(r.Context(), user)))
		})
	}
}

// Signup creates a new user account and returns a token in the
// Authorization response header.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	if !req.ExperienceLevel.Valid() {
		writeError(w, http.StatusBadRequest, "invalid experience level")
		return
	}
	if !req.Goal.Valid() {
		writeError(w, http.StatusBadRequest, "invalid goal")
		return
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		writeInternalError(w, "failed to create user", err)
		return
	}

	user, err := h.userService.Create(r.Context(), types.User{
		Name:            req.Name,
		Email:           req.Email,
		PasswordHash:    hashed,
		ExperienceLevel: req.ExperienceLevel,
		Goal:            req.Goal,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusBadRequest, "user with this email already exists")
			return
		}
		writeInternalError(w, "failed to create user", err)
		return
	}

	tok, err := token.Issue(user.Email, h.secret, h.tokenTTL)
	if err != nil {
		writeInternalError(w, "failed to create token", err)
		return
	}

	w.Header().Set("Authorization", "Bearer "+tok)
	writeJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and returns an access token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	}

	user, err := h.userService.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeUnauthorized(w, "invalid credentials")
			return
		}
		writeInternalError(w, "failed to authenticate", err)
		return
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		writeUnauthorized(w, "invalid credentials")
		return
	}

	tok, err := token.Issue(user.Email, h.secret, h.tokenTTL)
	if err != nil {
		writeInternalError(w, "failed to create token", err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken: tok,
		TokenType:   "bearer",
	})
}

type SignupRequest struct {
	Name            string                `json:"name"`
	Email           string                `json:"email"`
	Password        string                `json:"password"`
	ExperienceLevel types.ExperienceLevel `json:"experience_level"`
	Goal            types.Goal            `json:"goal"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
