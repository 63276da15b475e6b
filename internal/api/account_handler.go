package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"movie-catalog-api/internal/auth"
	"movie-catalog-api/internal/domain"
	"movie-catalog-api/internal/repository"
)

// AccountHandler serves registration, login and token refresh.
type AccountHandler struct {
	users     repository.UserRepository
	tokens    *auth.TokenManager
	validator *validator.Validate
	logger    *slog.Logger
}

// NewAccountHandler creates the account handler.
func NewAccountHandler(
	users repository.UserRepository,
	tokens *auth.TokenManager,
	v *validator.Validate,
	logger *slog.Logger,
) *AccountHandler {
	return &AccountHandler{users: users, tokens: tokens, validator: v, logger: logger}
}

// Register handles POST /register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(r.Context(), req); err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, "validation failed: "+err.Error())
		return
	}

	// The same opaque message covers a taken username so registration can
	// not be used to probe for existing accounts.
	if _, err := h.users.GetByUsername(r.Context(), req.Username); err == nil {
		respondError(w, r, h.logger, http.StatusBadRequest, "invalid credentials")
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		respondDomainError(w, r, h.logger, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	user := domain.User{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			respondError(w, r, h.logger, http.StatusConflict, "username or email already registered")
			return
		}
		respondDomainError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user registered", slog.String("user_id", user.ID))
	respondJSON(w, r, h.logger, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"_links": Links{
			"self":   apiPrefix + "/users/" + user.ID,
			"login":  apiPrefix + "/login",
			"delete": apiPrefix + "/users/" + user.ID,
		},
	})
}

// Login handles POST /login, issuing an access and a refresh token.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, h.logger, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(r.Context(), req); err != nil {
		respondError(w, r, h.logger, http.StatusUnauthorized, "credentials invalid or not provided")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), req.Username)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !auth.CheckPassword(req.Password, user.PasswordHash)) {
		respondError(w, r, h.logger, http.StatusUnauthorized, "credentials invalid or not provided")
		return
	}
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	access, err := h.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}
	refresh, err := h.tokens.GenerateRefreshToken(user.ID)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondJSON(w, r, h.logger, http.StatusOK, map[string]any{
		"message":       "Login successful",
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Refresh handles POST /refresh, exchanging a refresh token for a fresh
// access token.
func (h *AccountHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		respondError(w, r, h.logger, http.StatusBadRequest, "refresh token required")
		return
	}
	defer r.Body.Close()

	claims, err := h.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		respondError(w, r, h.logger, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	access, err := h.tokens.GenerateAccessToken(claims.UserID)
	if err != nil {
		respondDomainError(w, r, h.logger, err)
		return
	}

	respondJSON(w, r, h.logger, http.StatusOK, map[string]any{
		"message":      "Token refreshed successfully",
		"access_token": access,
	})
}
