package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/userhub/user-service/internal/auth"
	"github.com/userhub/user-service/internal/models"
	"go.uber.org/zap"
)

// UserService is the interface that wraps methods for profile and update business logic
type UserService interface {
	// GetProfile retrieves the user's record; the password hash is never serialized.
	GetProfile(ctx context.Context, userID int) (*models.User, error)
	// Update applies the allow-listed fields to the identified user.
	Update(ctx context.Context, targetID int, caller *auth.Claims, req *models.UpdateUserRequest) (*models.User, error)
}

// ProfileHandler handles profile HTTP requests
type ProfileHandler struct {
	BaseHandler
	userService UserService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(userService UserService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler: BaseHandler{Logger: logger},
		userService: userService,
	}
}

// RegisterRoutes registers all profile handler routes behind the auth middleware
func (h *ProfileHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/profile", h.Profile)
		r.Put("/update/{id}", h.Update)
	})
}

// Profile handles GET /profile
// @Summary Get the authenticated user's profile
// @Description Returns the authenticated user's record, excluding the password hash.
// @Tags profile
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} models.User "User profile"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /profile [get]
func (h *ProfileHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.userService.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		h.Logger.Error("failed to get user profile", zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// Update handles PUT /update/{id}
// @Summary Update a user
// @Description Update the allow-listed fields of a user. A submitted password is rehashed; role and active are applied only for admin callers.
// @Tags profile
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Param request body models.UpdateUserRequest true "Fields to update"
// @Success 200 {object} models.User "Updated user"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Router /update/{id} [put]
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.GetClaims(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || userID <= 0 {
		h.RespondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.Update(r.Context(), userID, claims, &req)
	if err != nil {
		h.Logger.Error("failed to update user", zap.Error(err), zap.Int("user_id", userID))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}
