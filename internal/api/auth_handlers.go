package api

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"github.com/nutriai/nutriai-server/internal/auth"
	"github.com/nutriai/nutriai-server/internal/store"
)

const (
	minPasswordLength = 8
	minUsernameLength = 3
	maxUsernameLength = 30
)

func registerHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		req.Username = strings.TrimSpace(req.Username)

		if _, err := mail.ParseAddress(req.Email); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid email address", "INVALID_REQUEST")
			return
		}
		if len(req.Username) < minUsernameLength || len(req.Username) > maxUsernameLength {
			WriteError(w, http.StatusBadRequest, "username must be 3-30 characters", "INVALID_REQUEST")
			return
		}
		if msg := validatePassword(req.Password); msg != "" {
			WriteError(w, http.StatusBadRequest, msg, "INVALID_REQUEST")
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			cfg.Logger.Error("failed to hash password", "error", err)
			WriteError(w, http.StatusInternalServerError, "registration failed", "INTERNAL_ERROR")
			return
		}

		user := &store.User{
			ID:           store.NewID(),
			Email:        req.Email,
			Username:     req.Username,
			PasswordHash: hash,
			Role:         store.RoleUser,
			CreatedAt:    time.Now().UTC(),
		}
		// The UNIQUE constraints decide duplicates; a pre-insert lookup
		// would race with concurrent registrations.
		if err := cfg.Repository.CreateUser(r.Context(), user); err != nil {
			switch {
			case store.IsUniqueViolation(err, "users.email"):
				WriteError(w, http.StatusConflict, "email already registered", "CONFLICT")
			case store.IsUniqueViolation(err, "users.username"):
				WriteError(w, http.StatusConflict, "username already taken", "CONFLICT")
			default:
				cfg.Logger.Error("failed to create user", "error", err)
				WriteError(w, http.StatusInternalServerError, "registration failed", "INTERNAL_ERROR")
			}
			return
		}

		profile := &store.Profile{
			UserID:        user.ID,
			DisplayName:   user.Username,
			WaterTargetMl: 2000,
			UpdatedAt:     user.CreatedAt,
		}
		if err := cfg.Repository.UpsertProfile(r.Context(), profile); err != nil {
			cfg.Logger.Warn("failed to create default profile", "error", err, "user_id", user.ID)
		}

		resp, err := tokenResponse(cfg.Tokens, user)
		if err != nil {
			cfg.Logger.Error("failed to issue tokens", "error", err)
			WriteError(w, http.StatusInternalServerError, "registration failed", "INTERNAL_ERROR")
			return
		}
		cfg.Logger.Info("user registered", "user_id", user.ID, "username", user.Username)
		WriteJSON(w, http.StatusCreated, resp)
	}
}

func loginHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}

		user, err := cfg.Repository.GetUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
		if err != nil {
			cfg.Logger.Error("failed to look up user", "error", err)
			WriteError(w, http.StatusInternalServerError, "login failed", "INTERNAL_ERROR")
			return
		}
		if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
			WriteError(w, http.StatusUnauthorized, "invalid email or password", "UNAUTHORIZED")
			return
		}

		resp, err := tokenResponse(cfg.Tokens, user)
		if err != nil {
			cfg.Logger.Error("failed to issue tokens", "error", err)
			WriteError(w, http.StatusInternalServerError, "login failed", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func refreshHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}

		claims, err := cfg.Tokens.VerifyRefreshToken(req.RefreshToken)
		if err != nil {
			WriteError(w, http.StatusUnauthorized, "invalid refresh token", "UNAUTHORIZED")
			return
		}

		user, err := cfg.Repository.GetUser(r.Context(), claims.UserID)
		if err != nil {
			cfg.Logger.Error("failed to look up user", "error", err)
			WriteError(w, http.StatusInternalServerError, "refresh failed", "INTERNAL_ERROR")
			return
		}
		if user == nil {
			WriteError(w, http.StatusUnauthorized, "account no longer exists", "UNAUTHORIZED")
			return
		}

		resp, err := tokenResponse(cfg.Tokens, user)
		if err != nil {
			cfg.Logger.Error("failed to issue tokens", "error", err)
			WriteError(w, http.StatusInternalServerError, "refresh failed", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func meHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := cfg.Repository.GetUser(r.Context(), CurrentUserID(r))
		if err != nil {
			cfg.Logger.Error("failed to look up user", "error", err)
			WriteError(w, http.StatusInternalServerError, "lookup failed", "INTERNAL_ERROR")
			return
		}
		if user == nil {
			WriteError(w, http.StatusNotFound, "user not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, user)
	}
}

// logoutHandler exists for client symmetry. Tokens are stateless, so the
// client discards them; nothing is revoked server side.
func logoutHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func validatePassword(password string) string {
	if len(password) < minPasswordLength {
		return "password must be at least 8 characters"
	}
	var hasUpper, hasLower, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return "password must contain upper and lower case letters and a digit"
	}
	return ""
}

func tokenResponse(tokens *auth.TokenIssuer, user *store.User) (*TokenResponse, error) {
	access, err := tokens.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := tokens.IssueRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: access, RefreshToken: refresh, User: user}, nil
}
