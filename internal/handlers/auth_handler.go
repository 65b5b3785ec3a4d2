package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/userhub/user-service/internal/auth"
	"github.com/userhub/user-service/internal/models"
	"go.uber.org/zap"
)

// refreshCookieName is the http-only cookie carrying the refresh token
const refreshCookieName = "refreshToken"

// AuthService is the interface that wraps methods for authentication business logic
type AuthService interface {
	// Register validates the request and creates a user with the default role.
	// Validation failures and duplicate identities are returned as errors.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	// Login authenticates by email and password and returns the user together
	// with a fresh access token and persisted refresh token.
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, string, string, error)
	// Logout marks the user inactive and revokes the presented refresh token.
	Logout(ctx context.Context, userID int, refreshToken string) error
	// Refresh validates the refresh token, re-derives the identity from the
	// subject user and returns a rotated access/refresh token pair.
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService   AuthService
	refreshExpiry time.Duration
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *zap.Logger, refreshExpiry time.Duration) *AuthHandler {
	return &AuthHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		authService:   authService,
		refreshExpiry: refreshExpiry,
	}
}

// RegisterRoutes registers all auth handler routes.
// Note: this assumes the router is already scoped to the API prefix.
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Get("/refresh", h.Refresh)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/logout", h.Logout)
	})
}

// Register handles POST /register
// @Summary Register a new user
// @Description Register a new user. The username is derived from first and last name. The password is never returned.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration request"
// @Success 201 {object} models.User "Created user"
// @Failure 400 {object} map[string]string "Validation failure or duplicate identity"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.Logger.Error("failed to register user", zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondJSON(w, http.StatusCreated, user)
}

// Login handles POST /login
// @Summary Login user
// @Description Authenticate with email and password. Returns an access token and the public user; the refresh token is set as an http-only cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.LoginResponse "Access token and user"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, accessToken, refreshToken, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.Logger.Warn("failed to login user", zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.setRefreshCookie(w, refreshToken)

	h.RespondJSON(w, http.StatusOK, models.LoginResponse{
		AccessToken: accessToken,
		User:        user,
	})
}

// Logout handles POST /logout
// @Summary Logout user
// @Description Mark the authenticated user inactive, revoke the stored refresh token and clear the cookie.
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]string "Logout successful"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var refreshToken string
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		refreshToken = cookie.Value
	}

	if err := h.authService.Logout(r.Context(), claims.UserID, refreshToken); err != nil {
		h.Logger.Error("failed to logout user", zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.clearRefreshCookie(w)

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "logout successful"})
}

// Refresh handles GET /refresh
// @Summary Refresh access token
// @Description Mint a new access token from the refresh-token cookie. The refresh token is rotated.
// @Tags auth
// @Produce json
// @Success 200 {object} models.RefreshResponse "New access token"
// @Failure 401 {object} map[string]string "Missing, invalid or revoked refresh token"
// @Router /refresh [get]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		h.RespondError(w, http.StatusUnauthorized, "refresh token required")
		return
	}

	accessToken, newRefreshToken, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		h.Logger.Warn("failed to refresh tokens", zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.setRefreshCookie(w, newRefreshToken)

	h.RespondJSON(w, http.StatusOK, models.RefreshResponse{AccessToken: accessToken})
}

// setRefreshCookie sets the refresh token as an http-only cookie
func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(h.refreshExpiry.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearRefreshCookie expires the refresh token cookie
func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}
