package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/userhub/user-service/internal/models"
	"go.uber.org/zap"
)

// AdminService is the interface that wraps methods for admin user management
type AdminService interface {
	// ListUsers returns all users.
	ListUsers(ctx context.Context) ([]models.User, error)
	// GetUser returns a single user by ID; "not found" is returned as an error.
	GetUser(ctx context.Context, userID int) (*models.User, error)
	// DeleteUser permanently removes a user by ID.
	DeleteUser(ctx context.Context, userID int) error
}

// AdminHandler handles admin-only HTTP requests
type AdminHandler struct {
	BaseHandler
	adminService AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		adminService: adminService,
	}
}

// RegisterRoutes registers all admin handler routes.
// The caller is expected to wrap them in the admin-only middleware.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/alluser", h.AllUsers)
	r.Get("/singleuser/{id}", h.SingleUser)
	r.Delete("/delete/{id}", h.Delete)
}

// AllUsers handles GET /alluser
// @Summary List all users
// @Description Returns all users. Admin only.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {array} models.User "All users"
// @Failure 401 {object} map[string]string "Unauthorized or non-admin"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alluser [get]
func (h *AdminHandler) AllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		h.Logger.Error("failed to list users", zap.Error(err))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondJSON(w, http.StatusOK, users)
}

// SingleUser handles GET /singleuser/{id}
// @Summary Get a single user
// @Description Returns one user by ID. Admin only.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.User "User"
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 404 {object} map[string]string "User not found"
// @Router /singleuser/{id} [get]
func (h *AdminHandler) SingleUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || userID <= 0 {
		h.RespondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	user, err := h.adminService.GetUser(r.Context(), userID)
	if err != nil {
		h.Logger.Error("failed to get user", zap.Error(err), zap.Int("user_id", userID))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /delete/{id}
// @Summary Delete a user
// @Description Permanently removes a user by ID. Admin only.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string "User deleted"
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 404 {object} map[string]string "User not found"
// @Router /delete/{id} [delete]
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || userID <= 0 {
		h.RespondError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	if err := h.adminService.DeleteUser(r.Context(), userID); err != nil {
		h.Logger.Error("failed to delete user", zap.Error(err), zap.Int("user_id", userID))
		h.RespondError(w, statusFromError(err), err.Error())
		return
	}

	h.RespondJSON(w, http.StatusOK, map[string]string{"message": "user deleted successfully"})
}
