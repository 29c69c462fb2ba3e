package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/condovia/condo-server-go/internal/audit"
	"github.com/condovia/condo-server-go/internal/config"
	apperrors "github.com/condovia/condo-server-go/internal/errors"
	"github.com/condovia/condo-server-go/internal/middleware"
	"github.com/condovia/condo-server-go/internal/service"
)

type AuthHandler struct {
	authService       *service.AuthService
	rateLimiter       *service.RateLimiter
	sessionMiddleware func(http.Handler) http.Handler
	isProduction      bool
}

func NewAuthHandler(
	authService *service.AuthService,
	rateLimiter *service.RateLimiter,
	sessionMiddleware func(http.Handler) http.Handler,
	isProduction bool,
) *AuthHandler {
	return &AuthHandler{
		authService:       authService,
		rateLimiter:       rateLimiter,
		sessionMiddleware: sessionMiddleware,
		isProduction:      isProduction,
	}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)

	r.Group(func(r chi.Router) {
		r.Use(h.sessionMiddleware)
		r.Get("/me", h.Me)
	})

	return r
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.rateLimiter != nil {
		ip := audit.ClientIP(r)
		allowed, resetAt := h.rateLimiter.CheckLoginLimit(r.Context(), ip, config.LoginAttemptsPerMinute)
		if !allowed {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventRateLimitExceed,
				Details: map[string]interface{}{"scope": "login"},
			})
			w.Header().Set("Retry-After", resetAt.UTC().Format(http.TimeFormat))
			writeError(w, apperrors.RateLimitExceeded())
			return
		}
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		audit.LogFromRequest(r, audit.Event{
			Type:    audit.EventLoginFailure,
			Details: map[string]interface{}{"email": req.Email},
		})
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:   audit.EventLoginSuccess,
		UserID: result.User.ID,
	})

	middleware.SetSessionCookie(w, result.Token, h.isProduction)
	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":    result.User.ID,
			"email": result.User.Email,
			"name":  result.User.Name,
			"role":  result.User.Role,
			"unit":  result.User.Unit,
		},
		"expiresAt": result.ExpiresAt,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookie)
	if err == nil && cookie.Value != "" {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			log.Warn().Err(err).Msg("logout failed")
		}
		audit.LogFromRequest(r, audit.Event{Type: audit.EventLogout})
	}

	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		writeError(w, apperrors.Unauthorized("not authenticated"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        user.ID,
		"email":     user.Email,
		"name":      user.Name,
		"role":      user.Role,
		"unit":      user.Unit,
		"matricula": user.Matricula,
	})
}
